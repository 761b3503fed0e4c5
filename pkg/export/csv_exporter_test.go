package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRenderFillsMissingCells(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Student", "Score"},
		Rows: []map[string]string{
			{"Student": "Ada Lovelace", "Score": "9"},
			{"Student": "Alan Turing"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Student,Score\nAda Lovelace,9\nAlan Turing,\n", string(out))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}
