package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linq-rag/linq-scoring-agent/internal/car"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

func TestWriteFigure(t *testing.T) {
	paths := testPaths(t)
	analysis := sampleAnalysis()
	theme := analysis.Themes[0]

	outputPath := paths.GetFigurePath(analysis.Quarter, theme.Theme)
	require.NoError(t, WriteFigure(theme, analysis.Window, outputPath))

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.True(t, len(content) > len(pngSignature))
	assert.Equal(t, pngSignature, content[:len(pngSignature)])
}

func TestWriteFigure_SingleCohort(t *testing.T) {
	// A theme whose quotes all scored positive still renders
	theme := car.ThemeAnalysis{
		Theme:      "margins",
		QuoteCount: 2,
		Cohorts: []car.Cohort{
			{Name: car.CohortOverall, N: 2, AvgCurve: []float64{0.01, 0.02, 0.03}},
			{Name: car.CohortPositive, N: 2, AvgCurve: []float64{0.01, 0.02, 0.03}},
			{Name: car.CohortNegative, N: 0},
		},
	}

	outputPath := filepath.Join(t.TempDir(), "figures", "margins.png")
	require.NoError(t, WriteFigure(theme, car.Window20, outputPath))
	assert.FileExists(t, outputPath)
}

func TestWriteFigure_NoCurves(t *testing.T) {
	theme := car.ThemeAnalysis{Theme: "empty"}

	err := WriteFigure(theme, car.Window60, filepath.Join(t.TempDir(), "empty.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no curve data")
}

func TestPercentTicks(t *testing.T) {
	ticks := percentTicks{}.Ticks(-0.02, 0.02)
	require.NotEmpty(t, ticks)

	labelled := 0
	for _, tick := range ticks {
		if tick.Label == "" {
			continue
		}
		labelled++
		assert.Contains(t, tick.Label, "%")
	}
	assert.Greater(t, labelled, 0)
}
