// Package output names, encodes and stores the per-source and combined
// facility name files.
package output

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// CombinedBasename names the file aggregating every source.
const CombinedBasename = "all"

// isoMillis is the ISO-8601 UTC layout with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

var (
	invalidBasenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	timestampSeparators  = strings.NewReplacer(":", "-", ".", "-")
)

// Timestamp formats t for use in file names, e.g. 2024-05-01T09-30-15-123Z.
func Timestamp(t time.Time) string {
	return timestampSeparators.Replace(t.UTC().Format(isoMillis))
}

// Basename derives a file-safe label from a source URL: the last path
// segment without extension, or its parent directory when that segment is
// empty or "index". The host is used when the path yields nothing.
func Basename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return sanitize(rawURL)
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSuffix(segments[i], path.Ext(segments[i]))
		if seg == "" || (strings.EqualFold(seg, "index") && i == len(segments)-1) {
			continue
		}
		if s := sanitize(seg); s != "" {
			return s
		}
	}
	if s := sanitize(u.Hostname()); s != "" {
		return s
	}
	return "source"
}

// FileName joins a timestamp, basename and extension.
func FileName(ts, basename, ext string) string {
	return fmt.Sprintf("%s_%s.%s", ts, basename, strings.TrimPrefix(ext, "."))
}

func sanitize(s string) string {
	return strings.Trim(invalidBasenameChars.ReplaceAllString(s, "_"), "_")
}
