package modern

const (
	PanelRows = 2
	PanelCols = 3
)

var panelTitles = [PanelRows * PanelCols]string{
	"1. Original Readings",
	"2. Inlier Readings",
	"3. Fit Curves (ax^2 + bx + c)",
	"4. Corrected Readings",
	"5. Correlation",
	"6. Residual (corrected - reference)",
}

// PanelSeries is one labelled scatter overlay.
type PanelSeries struct {
	Label string    `json:"label"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

type Panel struct {
	Index  int           `json:"index"` // 1-based stage number
	Title  string        `json:"title"`
	Series []PanelSeries `json:"series"`
}

// BuildPanels lays out the six stage views of a run, row-major.
func BuildPanels(res *Result) []Panel {
	panels := make([]Panel, len(panelTitles))
	for i, title := range panelTitles {
		panels[i] = Panel{Index: i + 1, Title: title}
	}
	if res == nil {
		return panels
	}
	ref := res.Reference()
	refY := res.Filtered[ref].Values()

	for _, s := range res.Raw {
		panels[0].Series = append(panels[0].Series, scatter(s.Name, s.Times(), s.Values()))
	}
	for i, s := range res.Filtered {
		t := s.Times()
		panels[1].Series = append(panels[1].Series, scatter(s.Name, t, s.Values()))
		panels[2].Series = append(panels[2].Series, scatter(s.Name+" "+res.Fits[i].String(), t, MapToQuad(t, res.Fits[i])))
		panels[3].Series = append(panels[3].Series, scatter(s.Name, t, res.Corrected[i]))
		panels[4].Series = append(panels[4].Series, scatter(s.Name, refY, res.Corrected[i]))
		if i != ref {
			panels[5].Series = append(panels[5].Series, scatter(s.Name, t, res.Residuals[i]))
		}
	}
	return panels
}

func scatter(label string, x, y []float64) PanelSeries {
	return PanelSeries{Label: label, X: x, Y: y}
}
