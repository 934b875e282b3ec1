package modern

import (
	"context"
	"fmt"

	"github.com/CK6170/sensorcal-go/matrix"
	"github.com/CK6170/sensorcal-go/models"
)

type Stage string

const (
	StageLoad    Stage = "load"
	StageFilter  Stage = "filter"
	StageFit     Stage = "fit"
	StageCorrect Stage = "correct"
	StageDone    Stage = "done"
)

type StageUpdate struct {
	Stage   Stage  `json:"stage"`
	Sensor  int    `json:"sensor"` // -1 when the update is not about one sensor
	Message string `json:"message"`
}

// Result holds every intermediate product of one run. Slices are indexed
// like PARAMETERS.SENSORS.
type Result struct {
	Params    *models.PARAMETERS
	Raw       []*models.Series
	Inliers   []int
	Filtered  []*models.Series
	Fits      []models.Quad
	Corrects  []models.Quad // correction mapping per sensor; identity for the reference
	Corrected [][]float64   // corrected filtered values; the reference keeps its own values
	Residuals [][]float64   // corrected - reference; nil for the reference
	Warnings  []string
}

// Reference returns the index of the reference sensor.
func (r *Result) Reference() int {
	return r.Params.REFERENCE
}

func emit(onUpdate func(StageUpdate), u StageUpdate) {
	if onUpdate != nil {
		onUpdate(u)
	}
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Run loads the configured CSVs and runs the analysis.
func Run(ctx context.Context, p *models.PARAMETERS, onUpdate func(StageUpdate)) (*Result, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	series, err := LoadSeries(p, onUpdate)
	if err != nil {
		return nil, err
	}
	return Analyze(ctx, p, series, onUpdate)
}

// Analyze runs filter, fit and correct on already loaded series. series must
// be in PARAMETERS.SENSORS order and carry z-scores.
func Analyze(ctx context.Context, p *models.PARAMETERS, series []*models.Series, onUpdate func(StageUpdate)) (*Result, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}
	if len(series) != len(p.SENSORS) {
		return nil, fmt.Errorf("have %d series for %d sensors", len(series), len(p.SENSORS))
	}
	res := &Result{Params: p, Raw: series}
	ref := p.REFERENCE

	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	idx, err := InlierIndices(series, p.THRESHOLD)
	if err != nil {
		return nil, err
	}
	res.Inliers = idx
	res.Filtered = FilterByIndexList(series, idx)
	res.Warnings = TimestampWarnings(res.Filtered)
	emit(onUpdate, StageUpdate{
		Stage:   StageFilter,
		Sensor:  -1,
		Message: fmt.Sprintf("kept %d of %d readings (|z| < %g)", len(idx), series[0].Len(), p.THRESHOLD),
	})

	res.Fits = make([]models.Quad, len(series))
	for i, s := range res.Filtered {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		q, err := FitCurve(s)
		if err != nil {
			return nil, err
		}
		res.Fits[i] = q
		emit(onUpdate, StageUpdate{Stage: StageFit, Sensor: i, Message: fmt.Sprintf("%s fit %s", s.Name, q)})
	}

	domain := DomainPoints(p.DOMAIN)
	refValues := res.Filtered[ref].Values()
	res.Corrects = make([]models.Quad, len(series))
	res.Corrected = make([][]float64, len(series))
	res.Residuals = make([][]float64, len(series))
	for i, s := range res.Filtered {
		if err := checkCtx(ctx); err != nil {
			return nil, err
		}
		if i == ref {
			res.Corrects[i] = models.Identity
			res.Corrected[i] = refValues
			continue
		}
		corr, err := CorrectionFor(res.Fits[ref], res.Fits[i], domain)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		res.Corrects[i] = corr
		res.Corrected[i] = MapToQuad(s.Values(), corr)
		res.Residuals[i] = matrix.Sub(res.Corrected[i], refValues)
		emit(onUpdate, StageUpdate{
			Stage:   StageCorrect,
			Sensor:  i,
			Message: fmt.Sprintf("%s correction %s, max |residual| %.4g", s.Name, corr, matrix.MaxAbs(res.Residuals[i])),
		})
	}

	emit(onUpdate, StageUpdate{Stage: StageDone, Sensor: -1, Message: "analysis complete"})
	return res, nil
}
