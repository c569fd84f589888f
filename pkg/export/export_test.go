package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	CRN   string `csv:"crn"`
	Title string `csv:"title"`
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render([]row{{CRN: "40123", Title: "Networks, Part 1"}})
	require.NoError(t, err)
	assert.Equal(t, "crn,title\n40123,\"Networks, Part 1\"\n", string(out))

	_, err = NewCSVExporter().Render(row{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	table := Table{
		Title:   "Conflicts",
		Headers: []string{"Type", "Course 1", "Course 2"},
		Widths:  []float64{1, 2, 2},
	}
	for i := 0; i < 80; i++ {
		table.Rows = append(table.Rows, []string{"instructor", fmt.Sprintf("CSCD %d", 200+i), "CSCD 300"})
	}

	out, err := NewPDFExporter().Render(table)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Table{})
	assert.Error(t, err)
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(Table{Headers: []string{"a", "b"}, Widths: []float64{1, 3}})
	assert.InDelta(t, pageWidth/4, widths[0], 1e-9)
	assert.InDelta(t, pageWidth*3/4, widths[1], 1e-9)
}
