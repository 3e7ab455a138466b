package output

import (
	"bytes"
	"strings"

	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
)

// Content types of the generated files.
const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// csvHeader is the header row of tabular outputs.
var csvHeader = []string{"court name", "place", "phone"}

// EncodeNames joins names with newlines.
func EncodeNames(names []string) []byte {
	return []byte(strings.Join(names, "\n"))
}

// EncodeRecords renders records as CSV with every field double-quoted.
func EncodeRecords(records []crawler.FacilityRecord) []byte {
	var buf bytes.Buffer
	writeQuotedRow(&buf, csvHeader)
	for _, r := range records {
		writeQuotedRow(&buf, []string{r.Name, r.Address, r.Phone})
	}
	return buf.Bytes()
}

func writeQuotedRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
