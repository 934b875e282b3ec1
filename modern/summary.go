package modern

import (
	"fmt"
	"strings"

	"github.com/CK6170/sensorcal-go/matrix"
	"github.com/CK6170/sensorcal-go/models"
)

type SensorSummary struct {
	Name        string      `json:"name"`
	Path        string      `json:"path,omitempty"`
	Reference   bool        `json:"reference"`
	Readings    int         `json:"readings"`
	Fit         models.Quad `json:"fit"`
	Correction  models.Quad `json:"correction"`
	MaxResidual float64     `json:"maxResidual"`
}

type Summary struct {
	Threshold float64         `json:"threshold"`
	Total     int             `json:"total"`
	Inliers   int             `json:"inliers"`
	Sensors   []SensorSummary `json:"sensors"`
	Warnings  []string        `json:"warnings,omitempty"`
}

func Summarize(res *Result) Summary {
	if res == nil {
		return Summary{}
	}
	out := Summary{
		Threshold: res.Params.THRESHOLD,
		Inliers:   len(res.Inliers),
		Warnings:  res.Warnings,
	}
	if len(res.Raw) > 0 {
		out.Total = res.Raw[0].Len()
	}
	for i, s := range res.Raw {
		out.Sensors = append(out.Sensors, SensorSummary{
			Name:        s.Name,
			Path:        s.Path,
			Reference:   i == res.Reference(),
			Readings:    s.Len(),
			Fit:         res.Fits[i],
			Correction:  res.Corrects[i],
			MaxResidual: matrix.MaxAbs(res.Residuals[i]),
		})
	}
	return out
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Inliers: %d of %d (|z| < %g)\n", s.Inliers, s.Total, s.Threshold)
	for _, ss := range s.Sensors {
		if ss.Reference {
			fmt.Fprintf(&b, "  %-4s fit %-28s reference\n", ss.Name, ss.Fit)
			continue
		}
		fmt.Fprintf(&b, "  %-4s fit %-28s correction %-28s max|res| %.4g\n", ss.Name, ss.Fit, ss.Correction, ss.MaxResidual)
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}
