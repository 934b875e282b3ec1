package modern

import (
	"fmt"

	"github.com/CK6170/sensorcal-go/matrix"
	"github.com/CK6170/sensorcal-go/models"
)

const degree = 2

// MapToQuad evaluates q at every x.
func MapToQuad(xs []float64, q models.Quad) []float64 {
	return q.Map(xs)
}

// FitCurve fits value = a*t^2 + b*t + c to a series by least squares.
func FitCurve(s *models.Series) (models.Quad, error) {
	if s == nil {
		return models.Quad{}, fmt.Errorf("series nil")
	}
	c, err := matrix.PolyFit(s.Times(), s.Values(), degree)
	if err != nil {
		return models.Quad{}, fmt.Errorf("fit %s: %w", s.Name, err)
	}
	return models.QuadFromCoefficients(c)
}

// DomainPoints samples the synthetic time axis.
func DomainPoints(d *models.DOMAIN) []float64 {
	if d == nil {
		d = defaultDomain()
	}
	return matrix.Linspace(d.START, d.END, d.POINTS)
}

// CorrectionFor fits the quadratic that maps p's output onto p0's output,
// sampled over domain. When p equals p0 this is the identity.
func CorrectionFor(p0, p models.Quad, domain []float64) (models.Quad, error) {
	ideal := MapToQuad(domain, p0)
	realized := MapToQuad(domain, p)
	c, err := matrix.PolyFit(realized, ideal, degree)
	if err != nil {
		return models.Quad{}, fmt.Errorf("correction: %w", err)
	}
	return models.QuadFromCoefficients(c)
}

// CorrectReadings maps raw values ys of a sensor fitted as p onto the
// reference response p0.
func CorrectReadings(p0, p models.Quad, ys []float64, d *models.DOMAIN) ([]float64, error) {
	corr, err := CorrectionFor(p0, p, DomainPoints(d))
	if err != nil {
		return nil, err
	}
	return MapToQuad(ys, corr), nil
}
