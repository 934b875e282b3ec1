package modern

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	in := "0,2\n1,4\n2,4\n3,4\n4,5\n5,5\n6,7\n7,9\n"
	s, err := ParseCSV("s0", strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 8, s.Len())
	assert.Equal(t, "s0", s.Name)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7}, s.Times())
	assert.Equal(t, []float64{2, 4, 4, 4, 5, 5, 7, 9}, s.Values())

	// mean 5, population std 2
	exp := []float64{1.5, 0.5, 0.5, 0.5, 0, 0, 1, 2}
	for i, z := range s.Scores() {
		assert.InDelta(t, exp[i], z, 1e-12, "row %d", i)
	}
}

func TestParseCSVToleratesSpacingAndExtraColumns(t *testing.T) {
	s, err := ParseCSV("s1", strings.NewReader("0, 1.5, ignored\n 1e-1 ,2.5\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1}, s.Times())
	assert.Equal(t, []float64{1.5, 2.5}, s.Values())
}

func TestParseCSVZeroVariance(t *testing.T) {
	s, err := ParseCSV("flat", strings.NewReader("0,3\n1,3\n2,3\n"))
	require.NoError(t, err)
	for _, z := range s.Scores() {
		assert.True(t, math.IsNaN(z))
	}
}

func TestParseCSVErrors(t *testing.T) {
	tt := []struct {
		name string
		in   string
		msg  string
	}{
		{name: "non numeric value", in: "0,1\n1,abc\n", msg: "line 2"},
		{name: "non numeric time", in: "t,y\n", msg: "invalid time"},
		{name: "single column", in: "0,1\n5\n", msg: "want 2 columns"},
		{name: "bad quoting", in: "0,\"1\n", msg: ""},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV("x", strings.NewReader(tc.in))
			require.ErrorIs(t, err, ErrParse)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestParseCSVEmpty(t *testing.T) {
	s, err := ParseCSV("empty", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestReadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sensor_0.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,1\n1,3\n"), 0644))

	s, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "sensor_0", s.Name)
	assert.Equal(t, path, s.Path)
	assert.InDelta(t, 1.0, s.Readings[0].Z, 1e-12)

	_, err = ReadCSV(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSeriesUsesSensorNames(t *testing.T) {
	p, err := WriteScenario(t.TempDir(), 10)
	require.NoError(t, err)

	var updates []StageUpdate
	series, err := LoadSeries(p, func(u StageUpdate) { updates = append(updates, u) })
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, "s2", series[2].Name)
	require.Len(t, updates, 3)
	assert.Equal(t, StageLoad, updates[0].Stage)
	assert.Equal(t, 1, updates[1].Sensor)

	p.SENSORS[1].PATH = ""
	_, err = LoadSeries(p, nil)
	assert.Error(t, err)
}
