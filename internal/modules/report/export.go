package report

import (
	"encoding/csv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ExportFilename is the name given to downloaded reports.
const ExportFilename = "rapport.csv"

var csvHeader = []string{"Label", "Valeur"}

// ToCSV renders entries as semicolon-separated lines under a Label;Valeur
// header, without a trailing newline. Labels containing the separator are quoted.
func ToCSV(entries []Entry) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Comma = ';'

	// Writes to a strings.Builder cannot fail.
	_ = w.Write(csvHeader)
	for _, e := range entries {
		_ = w.Write([]string{e.Label, e.Value.String()})
	}
	w.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}

// EncodeWindows1252 transcodes UTF-8 text for spreadsheet tools that open CSV
// files as Windows-1252.
func EncodeWindows1252(s string) ([]byte, error) {
	return charmap.Windows1252.NewEncoder().Bytes([]byte(s))
}
