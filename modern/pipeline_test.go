package modern

import (
	"context"
	"strings"
	"testing"

	"github.com/CK6170/sensorcal-go/matrix"
	"github.com/CK6170/sensorcal-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario(t *testing.T) *models.PARAMETERS {
	t.Helper()
	p, err := WriteScenario(t.TempDir(), 100)
	require.NoError(t, err)
	return p
}

func TestRunScenario(t *testing.T) {
	p := scenario(t)
	var updates []StageUpdate
	res, err := Run(context.Background(), p, func(u StageUpdate) { updates = append(updates, u) })
	require.NoError(t, err)

	// only the middle band of the sweep is within 0.6 sigma in every series
	require.Len(t, res.Inliers, 32)
	assert.Equal(t, 39, res.Inliers[0])
	assert.Equal(t, 70, res.Inliers[31])
	for i := 1; i < len(res.Inliers); i++ {
		assert.Equal(t, res.Inliers[i-1]+1, res.Inliers[i])
	}
	for _, s := range res.Filtered {
		assert.Equal(t, 32, s.Len())
	}
	assert.Empty(t, res.Warnings)

	exp := []models.Quad{{A: 2, B: 1, C: 1}, {A: 2, B: 1.4, C: 1.22}, {A: 1.9, B: 1, C: 0.9}}
	for i, q := range exp {
		assertQuadInDelta(t, q, res.Fits[i], 1e-6)
	}

	assert.Equal(t, models.Identity, res.Corrects[0])
	assert.Equal(t, res.Filtered[0].Values(), res.Corrected[0])
	assert.Nil(t, res.Residuals[0])
	require.Len(t, res.Residuals[1], 32)
	assert.Less(t, matrix.MaxAbs(res.Residuals[1]), 0.16)
	assert.Less(t, matrix.MaxAbs(res.Residuals[2]), 0.05)

	stages := make([]Stage, len(updates))
	for i, u := range updates {
		stages[i] = u.Stage
	}
	assert.Equal(t, []Stage{
		StageLoad, StageLoad, StageLoad,
		StageFilter,
		StageFit, StageFit, StageFit,
		StageCorrect, StageCorrect,
		StageDone,
	}, stages)
	assert.Equal(t, "kept 32 of 100 readings (|z| < 0.6)", updates[3].Message)
	assert.Equal(t, -1, updates[9].Sensor)
}

func TestRunKeepsEverythingAtWideThreshold(t *testing.T) {
	p := scenario(t)
	p.THRESHOLD = 10
	res, err := Run(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Len(t, res.Inliers, 100)
	assert.Less(t, matrix.MaxAbs(res.Residuals[1]), 0.41)
	assert.Less(t, matrix.MaxAbs(res.Residuals[2]), 0.06)
}

func TestRunIdenticalSensorsHaveNoResidual(t *testing.T) {
	p := scenario(t)
	p.SENSORS[1].PATH = p.SENSORS[0].PATH
	res, err := Run(context.Background(), p, nil)
	require.NoError(t, err)
	assertQuadInDelta(t, models.Identity, res.Corrects[1], 1e-7)
	assert.Less(t, matrix.MaxAbs(res.Residuals[1]), 1e-6)
}

func TestRunReferenceSelection(t *testing.T) {
	p := scenario(t)
	p.REFERENCE = 2
	res, err := Run(context.Background(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Identity, res.Corrects[2])
	assert.Nil(t, res.Residuals[2])
	assert.NotNil(t, res.Residuals[0])
}

func TestRunCancelled(t *testing.T) {
	p := scenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, p, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeErrors(t *testing.T) {
	p := DefaultParameters()
	_, err := Analyze(context.Background(), p, nil, nil)
	assert.Error(t, err)

	flat := []*models.Series{
		seriesWithScores("s0", 0.1, 0.1),
		seriesWithScores("s1", 0.9, 0.9),
		seriesWithScores("s2", 0.1, 0.1),
	}
	_, err = Analyze(context.Background(), p, flat, nil)
	assert.ErrorIs(t, err, ErrNoInliers)
}

func TestBuildPanelsAndSummary(t *testing.T) {
	p := scenario(t)
	res, err := Run(context.Background(), p, nil)
	require.NoError(t, err)

	panels := BuildPanels(res)
	require.Len(t, panels, PanelRows*PanelCols)
	for i, pn := range panels {
		assert.Equal(t, i+1, pn.Index)
		assert.NotEmpty(t, pn.Title)
	}
	assert.Len(t, panels[0].Series, 3)
	assert.Len(t, panels[0].Series[0].X, 100)
	assert.Len(t, panels[1].Series[0].X, 32)
	assert.True(t, strings.HasPrefix(panels[2].Series[1].Label, "s1 ["), panels[2].Series[1].Label)
	assert.Equal(t, res.Filtered[0].Values(), panels[4].Series[2].X)
	require.Len(t, panels[5].Series, 2)
	assert.Equal(t, "s1", panels[5].Series[0].Label)
	assert.Equal(t, "s2", panels[5].Series[1].Label)

	empty := BuildPanels(nil)
	require.Len(t, empty, 6)
	assert.Empty(t, empty[0].Series)

	sum := Summarize(res)
	assert.Equal(t, 100, sum.Total)
	assert.Equal(t, 32, sum.Inliers)
	require.Len(t, sum.Sensors, 3)
	assert.True(t, sum.Sensors[0].Reference)
	assert.Zero(t, sum.Sensors[0].MaxResidual)
	assert.Less(t, sum.Sensors[2].MaxResidual, 0.05)
	out := sum.String()
	assert.Contains(t, out, "Inliers: 32 of 100 (|z| < 0.6)")
	assert.Contains(t, out, "reference")
}

func TestSession(t *testing.T) {
	dir := t.TempDir()
	p, err := WriteScenario(dir, 100)
	require.NoError(t, err)
	cfg := dir + "/calibration.json"
	require.NoError(t, PersistParameters(cfg, p))

	s, err := Open(cfg)
	require.NoError(t, err)
	assert.Nil(t, s.Result)
	res, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Same(t, res, s.Result)

	d, err := Open("")
	require.NoError(t, err)
	assert.Len(t, d.Params.SENSORS, 3)

	var nilSession *Session
	_, err = nilSession.Run(context.Background(), nil)
	assert.Error(t, err)
}
