package modern

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CK6170/sensorcal-go/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultThreshold    = 0.6 // about half a std dev
	DefaultSensorCount  = 3
	DefaultDomainStart  = 0.0
	DefaultDomainEnd    = 10.0
	DefaultDomainPoints = 100
)

// DefaultParameters returns the stock run: sensor_0..2.csv in the working
// directory, sensor 0 as reference.
func DefaultParameters() *models.PARAMETERS {
	p := &models.PARAMETERS{
		REFERENCE: 0,
		THRESHOLD: DefaultThreshold,
		DOMAIN:    defaultDomain(),
	}
	for i := 0; i < DefaultSensorCount; i++ {
		p.SENSORS = append(p.SENSORS, &models.SENSOR{
			NAME: fmt.Sprintf("s%d", i),
			PATH: fmt.Sprintf("sensor_%d.csv", i),
		})
	}
	return p
}

func defaultDomain() *models.DOMAIN {
	return &models.DOMAIN{START: DefaultDomainStart, END: DefaultDomainEnd, POINTS: DefaultDomainPoints}
}

// LoadParameters reads a JSON or YAML parameters file. Relative sensor paths
// are resolved against the file's directory.
func LoadParameters(path string) (*models.PARAMETERS, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p models.PARAMETERS
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := Validate(&p); err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for _, s := range p.SENSORS {
		if s.PATH != "" && !filepath.IsAbs(s.PATH) {
			s.PATH = filepath.Join(base, s.PATH)
		}
	}
	return &p, nil
}

// Validate fills unset fields with defaults and rejects inconsistent ones.
func Validate(p *models.PARAMETERS) error {
	if p == nil {
		return fmt.Errorf("parameters nil")
	}
	if len(p.SENSORS) == 0 {
		p.SENSORS = DefaultParameters().SENSORS
	}
	for i, s := range p.SENSORS {
		if s == nil {
			return fmt.Errorf("SENSORS[%d] is empty", i)
		}
		if strings.TrimSpace(s.NAME) == "" {
			s.NAME = fmt.Sprintf("s%d", i)
		}
	}
	if p.REFERENCE < 0 || p.REFERENCE >= len(p.SENSORS) {
		return fmt.Errorf("REFERENCE %d out of range (have %d sensors)", p.REFERENCE, len(p.SENSORS))
	}
	// A missing threshold means the stock one.
	if p.THRESHOLD <= 0 {
		p.THRESHOLD = DefaultThreshold
	}
	if p.DOMAIN == nil {
		p.DOMAIN = defaultDomain()
	}
	if p.DOMAIN.POINTS <= 0 {
		p.DOMAIN.POINTS = DefaultDomainPoints
	}
	if p.DOMAIN.START == 0 && p.DOMAIN.END == 0 {
		p.DOMAIN.START, p.DOMAIN.END = DefaultDomainStart, DefaultDomainEnd
	}
	if p.DOMAIN.END <= p.DOMAIN.START {
		return fmt.Errorf("DOMAIN END (%g) must be greater than START (%g)", p.DOMAIN.END, p.DOMAIN.START)
	}
	return nil
}

// ReferenceName returns the display name of the reference sensor.
func ReferenceName(p *models.PARAMETERS) string {
	if p == nil || p.REFERENCE < 0 || p.REFERENCE >= len(p.SENSORS) {
		return ""
	}
	return p.SENSORS[p.REFERENCE].NAME
}
