package models

// SENSOR names one input stream and the CSV it is read from.
type SENSOR struct {
	NAME string `json:"NAME" yaml:"NAME"`
	PATH string `json:"PATH" yaml:"PATH"`
}

// DOMAIN is the synthetic time axis sampled when building a correction.
type DOMAIN struct {
	START  float64 `json:"START" yaml:"START"`
	END    float64 `json:"END" yaml:"END"`
	POINTS int     `json:"POINTS" yaml:"POINTS"`
}

type PARAMETERS struct {
	SENSORS   []*SENSOR `json:"SENSORS" yaml:"SENSORS"`
	REFERENCE int       `json:"REFERENCE" yaml:"REFERENCE"`
	THRESHOLD float64   `json:"THRESHOLD" yaml:"THRESHOLD"`
	DOMAIN    *DOMAIN   `json:"DOMAIN" yaml:"DOMAIN"`
	DEBUG     bool      `json:"DEBUG" yaml:"DEBUG"`
}

// Clone returns a deep copy of p.
func (p *PARAMETERS) Clone() *PARAMETERS {
	if p == nil {
		return nil
	}
	out := *p
	out.SENSORS = make([]*SENSOR, len(p.SENSORS))
	for i, s := range p.SENSORS {
		if s != nil {
			c := *s
			out.SENSORS[i] = &c
		}
	}
	if p.DOMAIN != nil {
		d := *p.DOMAIN
		out.DOMAIN = &d
	}
	return &out
}
