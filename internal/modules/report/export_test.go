package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCSV(t *testing.T) {
	got := ToCSV([]Entry{
		{Label: "ADP", Value: dec("2")},
		{Label: "ADL1", Value: dec("1")},
	})
	assert.Equal(t, "Label;Valeur\nADP;2\nADL1;1", got)
}

func TestToCSV_Empty(t *testing.T) {
	assert.Equal(t, "Label;Valeur", ToCSV(nil))
}

func TestToCSV_QuotesSeparator(t *testing.T) {
	got := ToCSV([]Entry{{Label: "a;b", Value: dec("3.25")}})
	assert.Equal(t, "Label;Valeur\n\"a;b\";3.25", got)
}

func TestEncodeWindows1252(t *testing.T) {
	got, err := EncodeWindows1252("Label;Valeur\nespèces;1")
	require.NoError(t, err)
	assert.Equal(t, []byte("Label;Valeur\nesp\xe8ces;1"), got)
}
