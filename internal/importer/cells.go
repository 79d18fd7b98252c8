package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RawRow is one physical spreadsheet row. Cells hold nil, string, float64,
// Fraction, int, bool or time.Time as produced by the workbook reader.
type RawRow []any

// Fraction is a numeric cell whose number format is a percentage; the
// spreadsheet stores 45% as 0.45.
type Fraction float64

// Grid is a whole sheet, header first.
type Grid []RawRow

// At returns the cell at column i, or nil when the row is shorter.
func (r RawRow) At(i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Blank reports whether every cell is empty.
func (r RawRow) Blank() bool {
	for _, c := range r {
		if !emptyCell(c) {
			return false
		}
	}
	return true
}

func emptyCell(c any) bool {
	switch v := c.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case float64:
		return v == 0 || math.IsNaN(v)
	case Fraction:
		return v == 0 || math.IsNaN(float64(v))
	case int:
		return v == 0
	case time.Time:
		return v.IsZero()
	}
	return false
}

// Text coerces a cell to a trimmed single string.
func Text(c any) string {
	return strings.TrimSpace(raw(c))
}

// Multiline is Text for free-text cells: line endings become \n and inner
// line breaks are kept, since reports split these fields into bullet lists.
func Multiline(c any) string {
	s := raw(c)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

func raw(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case Fraction:
		return strconv.FormatFloat(math.Round(float64(v)*10000)/100, 'f', -1, 64) + "%"
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return v.UTC().Format(time.DateOnly)
	}
	return fmt.Sprint(c)
}

// ParsePercent reads progress cells as percentage points: 45, "45%", "45,5".
// Only a Fraction is scaled, so a plain 1 stays 1%. ok is false for empty or
// non-numeric cells.
func ParsePercent(c any) (pct int, ok bool) {
	var f float64
	switch v := c.(type) {
	case Fraction:
		f = float64(v) * 100
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(Text(c)), "%"))
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", ".")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

// foldAccents strips combining marks: "concluído" -> "concluido".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
