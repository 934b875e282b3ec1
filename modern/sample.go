package modern

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CK6170/sensorcal-go/matrix"
	"github.com/CK6170/sensorcal-go/models"
)

var ErrParse = errors.New("invalid csv")

// ReadCSV loads one sensor file. Rows are <time>,<value> with no header.
func ReadCSV(path string) (*models.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := ParseCSV(name, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// ParseCSV reads readings from r in row order and attaches each reading's
// absolute z-score within the whole value column.
func ParseCSV(name string, r io.Reader) (*models.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	s := &models.Series{Name: name}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 columns, got %d", ErrParse, line, len(record))
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid time %q", ErrParse, line, record[0])
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid value %q", ErrParse, line, record[1])
		}
		s.Readings = append(s.Readings, models.Reading{T: t, Y: y})
	}

	z := matrix.ZScores(s.Values())
	for i := range s.Readings {
		s.Readings[i].Z = z[i]
	}
	return s, nil
}

// LoadSeries reads every configured sensor, naming each series after its
// SENSOR entry.
func LoadSeries(p *models.PARAMETERS, onUpdate func(StageUpdate)) ([]*models.Series, error) {
	if p == nil {
		return nil, fmt.Errorf("parameters nil")
	}
	out := make([]*models.Series, 0, len(p.SENSORS))
	for i, sensor := range p.SENSORS {
		if strings.TrimSpace(sensor.PATH) == "" {
			return nil, fmt.Errorf("sensor %s: missing PATH", sensor.NAME)
		}
		s, err := ReadCSV(sensor.PATH)
		if err != nil {
			return nil, err
		}
		s.Name = sensor.NAME
		out = append(out, s)
		emit(onUpdate, StageUpdate{
			Stage:   StageLoad,
			Sensor:  i,
			Message: fmt.Sprintf("loaded %d readings from %s", s.Len(), sensor.PATH),
		})
	}
	return out, nil
}
