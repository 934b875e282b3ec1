package models

// Reading is one (time, value) sample. Z is the absolute standard score of Y
// within the series it was loaded with.
type Reading struct {
	T float64 `json:"t"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Series is the ordered readings of one sensor.
type Series struct {
	Name     string    `json:"name"`
	Path     string    `json:"path,omitempty"`
	Readings []Reading `json:"readings"`
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Readings)
}

// Times returns the timestamps in row order.
func (s *Series) Times() []float64 {
	out := make([]float64, s.Len())
	for i, r := range s.Readings {
		out[i] = r.T
	}
	return out
}

// Values returns the raw values in row order.
func (s *Series) Values() []float64 {
	out := make([]float64, s.Len())
	for i, r := range s.Readings {
		out[i] = r.Y
	}
	return out
}

// Scores returns the z-scores in row order.
func (s *Series) Scores() []float64 {
	out := make([]float64, s.Len())
	for i, r := range s.Readings {
		out[i] = r.Z
	}
	return out
}

// Pick returns a new series holding the readings at idx, in the order given.
func (s *Series) Pick(idx []int) *Series {
	out := &Series{
		Name:     s.Name,
		Path:     s.Path,
		Readings: make([]Reading, 0, len(idx)),
	}
	for _, i := range idx {
		out.Readings = append(out.Readings, s.Readings[i])
	}
	return out
}
