package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"energy-dashboard-go/internal/viewmodel"
)

func TestSeriesColor(t *testing.T) {
	t.Parallel()

	own := viewmodel.SourceColor(1)
	assert.Equal(t, own.RGBA(), seriesColor(viewmodel.Series{Color: own.CSS()}, 4))

	// Hex and empty colors fall back to the palette color of the index.
	assert.Equal(t, viewmodel.SourceColor(2).RGBA(), seriesColor(viewmodel.Series{Color: "#ff0000"}, 2))
	assert.Equal(t, viewmodel.SourceColor(0).RGBA(), seriesColor(viewmodel.Series{}, 0))
	assert.NotEqual(t, seriesColor(viewmodel.Series{}, 0), seriesColor(viewmodel.Series{}, 1))
}
