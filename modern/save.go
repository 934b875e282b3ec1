package modern

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/CK6170/sensorcal-go/matrix"
	"github.com/CK6170/sensorcal-go/models"
)

// ScenarioCurves are the generating responses of the stock three-sensor
// scenario: the reference, a time-shifted copy and a scaled copy.
var ScenarioCurves = []func(t float64) float64{
	func(t float64) float64 { return 2*t*t + t + 1 },
	func(t float64) float64 { return 2*(t+0.1)*(t+0.1) + t + 1.2 },
	func(t float64) float64 { return 1.9*t*t + t + 0.9 },
}

// WriteScenario writes sensor_0..2.csv into dir with rows noise-free
// readings on [0, 10] and returns parameters pointing at them.
func WriteScenario(dir string, rows int) (*models.PARAMETERS, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("rows must be > 0")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	p := DefaultParameters()
	ts := matrix.Linspace(DefaultDomainStart, DefaultDomainEnd, rows)
	for i, curve := range ScenarioCurves {
		path := filepath.Join(dir, p.SENSORS[i].PATH)
		if err := writeReadings(path, ts, curve); err != nil {
			return nil, err
		}
		p.SENSORS[i].PATH = path
	}
	return p, nil
}

func writeReadings(path string, ts []float64, curve func(float64) float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	for _, t := range ts {
		row := []string{
			strconv.FormatFloat(t, 'g', -1, 64),
			strconv.FormatFloat(curve(t), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// PersistParameters writes p as indented JSON.
func PersistParameters(path string, p *models.PARAMETERS) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
