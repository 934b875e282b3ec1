package modern

import (
	"testing"

	"github.com/CK6170/sensorcal-go/matrix"
	"github.com/CK6170/sensorcal-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadSeries(name string, q models.Quad, ts []float64) *models.Series {
	s := &models.Series{Name: name}
	for _, t := range ts {
		s.Readings = append(s.Readings, models.Reading{T: t, Y: q.Eval(t)})
	}
	return s
}

func assertQuadInDelta(t *testing.T, exp, got models.Quad, delta float64) {
	t.Helper()
	assert.InDelta(t, exp.A, got.A, delta, "a")
	assert.InDelta(t, exp.B, got.B, delta, "b")
	assert.InDelta(t, exp.C, got.C, delta, "c")
}

func TestFitCurveRecoversGenerator(t *testing.T) {
	ts := matrix.Linspace(0, 10, 100)
	for _, q := range []models.Quad{{A: 2, B: 1, C: 1}, {A: 2, B: 1.4, C: 1.22}, {A: 1.9, B: 1, C: 0.9}, {A: -0.5, B: 3, C: -7}} {
		t.Run(q.String(), func(t *testing.T) {
			got, err := FitCurve(quadSeries("s", q, ts))
			require.NoError(t, err)
			assertQuadInDelta(t, q, got, 1e-8)
		})
	}
}

func TestFitCurveErrors(t *testing.T) {
	_, err := FitCurve(nil)
	assert.Error(t, err)
	_, err = FitCurve(&models.Series{Name: "empty"})
	assert.ErrorIs(t, err, matrix.ErrNoPoints)
}

func TestMapToQuadIdentity(t *testing.T) {
	xs := []float64{-1, 0, 3.25, 211}
	assert.Equal(t, xs, MapToQuad(xs, models.Quad{A: 0, B: 1, C: 0}))
}

func TestCorrectionIdentity(t *testing.T) {
	p0 := models.Quad{A: 2, B: 1, C: 1}
	corr, err := CorrectionFor(p0, p0, DomainPoints(nil))
	require.NoError(t, err)
	assertQuadInDelta(t, models.Identity, corr, 1e-7)

	ys := []float64{1, 22, 73.5, 211}
	got, err := CorrectReadings(p0, p0, ys, nil)
	require.NoError(t, err)
	for i := range ys {
		assert.InDelta(t, ys[i], got[i], 1e-6)
	}
}

func TestCorrectReadingsLinearDistortion(t *testing.T) {
	// p = 2*p0 + 3 is undone exactly by y -> (y-3)/2
	p0 := models.Quad{A: 2, B: 1, C: 1}
	p := models.Quad{A: 4, B: 2, C: 5}
	d := &models.DOMAIN{START: 0, END: 10, POINTS: 100}
	corr, err := CorrectionFor(p0, p, DomainPoints(d))
	require.NoError(t, err)
	assertQuadInDelta(t, models.Quad{A: 0, B: 0.5, C: -1.5}, corr, 1e-7)

	ts := []float64{0, 2.5, 9}
	got, err := CorrectReadings(p0, p, p.Map(ts), d)
	require.NoError(t, err)
	require.Len(t, got, len(ts))
	for i, want := range p0.Map(ts) {
		assert.InDelta(t, want, got[i], 1e-6)
	}
}

func TestDomainPoints(t *testing.T) {
	pts := DomainPoints(nil)
	require.Len(t, pts, 100)
	assert.Equal(t, 0.0, pts[0])
	assert.InDelta(t, 10.0, pts[99], 1e-12)

	pts = DomainPoints(&models.DOMAIN{START: -1, END: 1, POINTS: 5})
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, pts)
}
