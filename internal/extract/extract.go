// Package extract pulls raw candidate strings out of parsed court directory
// pages. Each source uses one of a small, closed set of strategies.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Strategy selects how candidates are read from a document.
type Strategy string

// Supported strategies.
const (
	// AnchorTitleOrText prefers an anchor's title attribute over its text.
	AnchorTitleOrText Strategy = "anchor_title_or_text"
	// AnchorText reads anchor text only.
	AnchorText Strategy = "anchor_text"
	// TableCell reads name/address/phone from table rows.
	TableCell Strategy = "table_cell"
)

// DefaultRowSelector matches data rows of directory tables.
const DefaultRowSelector = "table tr:has(td)"

var (
	// ErrParse is returned when a body cannot be turned into a document.
	ErrParse = errors.New("parse document")
	// ErrMissingCells is returned when a table row lacks expected cells.
	ErrMissingCells = errors.New("table row missing cells")
	// ErrUnknownStrategy is returned for strategies outside the closed set.
	ErrUnknownStrategy = errors.New("unknown extraction strategy")
)

// trailing "地図" / "map" annotations next to facility names in tables.
var mapAnnotation = regexp.MustCompile(`(?is)[\s（(［\[]*(地図|map).*$`)

// Row is one table-cell extraction result.
type Row struct {
	Name    string
	Address string
	Phone   string
}

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	switch s {
	case AnchorTitleOrText, AnchorText, TableCell:
		return true
	default:
		return false
	}
}

// Parse decodes body using the charset declared in contentType or the
// document itself, then parses it.
func Parse(body []byte, contentType string) (*goquery.Document, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: decode charset: %w", ErrParse, err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return doc, nil
}

// Candidates returns the raw candidate strings for an anchor strategy. For
// TableCell it returns the cleaned first-column names of Rows.
func Candidates(doc *goquery.Document, strategy Strategy, rowSelector string) ([]string, error) {
	switch strategy {
	case AnchorTitleOrText:
		return anchors(doc, true), nil
	case AnchorText:
		return anchors(doc, false), nil
	case TableCell:
		rows, err := Rows(doc, rowSelector)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Name)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func anchors(doc *goquery.Document, preferTitle bool) []string {
	var out []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if preferTitle {
			if title, ok := s.Attr("title"); ok {
				if title = strings.TrimSpace(title); title != "" {
					out = append(out, title)
					return
				}
			}
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// Rows reads every row matched by rowSelector. The first cell is the
// facility name with any map annotation removed, the second the address and
// the third the phone number.
func Rows(doc *goquery.Document, rowSelector string) ([]Row, error) {
	if strings.TrimSpace(rowSelector) == "" {
		rowSelector = DefaultRowSelector
	}
	var (
		rows []Row
		err  error
	)
	doc.Find(rowSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		cells := s.Find("td")
		if cells.Length() < 3 {
			err = fmt.Errorf("%w: row %d has %d cells", ErrMissingCells, i, cells.Length())
			return false
		}
		rows = append(rows, Row{
			Name:    StripMapAnnotation(cells.Eq(0).Text()),
			Address: collapseSpace(cells.Eq(1).Text()),
			Phone:   collapseSpace(cells.Eq(2).Text()),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// StripMapAnnotation removes a trailing map link label from a table cell.
func StripMapAnnotation(cell string) string {
	return strings.TrimSpace(mapAnnotation.ReplaceAllString(strings.TrimSpace(cell), ""))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
