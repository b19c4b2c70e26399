// Package numfmt renders spreadsheet cell values to their display string
// using an Excel number-format string. It is the rendering engine behind
// [github.com/cordwainer/xlsxrag/cellfmt].
//
// The public entry point is [FormatValue]. All format-string tokenising and
// sectioning is delegated to [github.com/xuri/nfp]; this package implements
// only the rendering logic on top of the resulting token stream.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/nfp"

	"github.com/cordwainer/xlsxrag/internal/dateformat"
	"github.com/cordwainer/xlsxrag/styles"
)

// FormatValue renders a raw cell value v using the given number format.
//
//   - numFmtID is the numFmtId resolved from the cell's style index (0 = General).
//   - fmtStr is the custom format string recorded for that id, if any; pass ""
//     for built-in ids with no custom override, or to force resolution from
//     numFmtID alone.
//   - date1904 mirrors the workbook-wide 1904 date-system flag.
//
// The dynamic type of v must be one of: nil, string, bool, float64. Any other
// type falls back to [fmt.Sprint].
func FormatValue(v any, numFmtID int, fmtStr string, date1904 bool) string {
	effective := resolveFormat(numFmtID, fmtStr)

	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return formatFloat(val, numFmtID, effective, date1904)
	default:
		return fmt.Sprint(v)
	}
}

// IsDateFormat reports whether the resolved format classifies a Number cell
// as a date/time serial, per the numFmtId ranges and the format-string token
// scan described in the format interpreter's date-detection rule.
func IsDateFormat(numFmtID int, fmtStr string) bool {
	return isDateFormat(numFmtID, resolveFormat(numFmtID, fmtStr))
}

// ── format-string resolution ────────────────────────────────────────────────

// resolveFormat returns the effective format string: the custom fmtStr when
// non-empty, the built-in string for numFmtID when known, or "General".
func resolveFormat(numFmtID int, fmtStr string) string {
	if fmtStr != "" {
		return fmtStr
	}
	if s, ok := styles.BuiltInNumFmt[numFmtID]; ok {
		return s
	}
	return "General"
}

// ── float64 dispatch ────────────────────────────────────────────────────────

func formatFloat(val float64, numFmtID int, effective string, date1904 bool) string {
	if effective == "General" {
		return renderGeneral(val)
	}

	ps := nfp.NumberFormatParser()
	sections := ps.Parse(effective)
	if len(sections) == 0 {
		return renderGeneral(val)
	}

	sec := selectSection(sections, val)

	if isDateFormat(numFmtID, effective) {
		return renderDateTime(val, sec, date1904)
	}
	return renderNumber(val, sec, sections)
}

// selectSection picks the correct section based on the value's sign.
//
//	1 section  → applies to all values
//	2 sections → [0]=positive+zero  [1]=negative
//	3 sections → [0]=positive  [1]=negative  [2]=zero
//	4 sections → [0]=positive  [1]=negative  [2]=zero  [3]=text
func selectSection(sections []nfp.Section, val float64) nfp.Section {
	switch {
	case len(sections) == 1:
		return sections[0]
	case len(sections) == 2:
		if val < 0 {
			return sections[1]
		}
		return sections[0]
	default: // 3 or 4
		switch {
		case val > 0:
			return sections[0]
		case val < 0:
			return sections[1]
		default:
			return sections[2]
		}
	}
}

// ── General rendering ───────────────────────────────────────────────────────

// renderGeneral formats a float64 in Excel's "General" style: integer values
// render without a decimal point; fractional values use Go's shortest
// round-trippable representation.
func renderGeneral(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'G', -1, 64)
	}
	if val == math.Trunc(val) && math.Abs(val) < 1e15 {
		return strconv.FormatInt(int64(val), 10)
	}
	return strconv.FormatFloat(val, 'G', -1, 64)
}

// ── date-format detection ──────────────────────────────────────────────────

// isDateFormat reports whether numFmtID/fmtStr classify as a date/datetime
// format. It delegates to dateformat.IsDateFormat, the single shared
// classifier also used by styles.StyleTable.IsDate.
func isDateFormat(id int, fmtStr string) bool {
	return dateformat.IsDateFormat(id, fmtStr)
}

// ── date/time renderer ──────────────────────────────────────────────────────

// renderDateTime renders a date/time serial number using the tokens in sec.
// serial is the raw Excel serial (fractional days since the epoch).
func renderDateTime(serial float64, sec nfp.Section, date1904 bool) string {
	t, err := convertSerial(serial, date1904)
	if err != nil {
		return renderGeneral(serial)
	}

	hasAmPm := false
	for _, tok := range sec.Items {
		if tok.TType == nfp.TokenTypeDateTimes {
			upper := strings.ToUpper(tok.TValue)
			if upper == "AM/PM" || upper == "A/P" {
				hasAmPm = true
				break
			}
		}
	}

	var sb strings.Builder
	lastWasHour := false

	for _, tok := range sec.Items {
		switch tok.TType {

		case nfp.TokenTypeDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderDateToken(upper, t, hasAmPm, lastWasHour))
			lastWasHour = upper == "H" || upper == "HH"

		case nfp.TokenTypeElapsedDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderElapsed(upper, serial))
			lastWasHour = upper == "H" || upper == "HH"

		case nfp.TokenTypeLiteral:
			// A literal separator (e.g. ":") between an hour token and a
			// following M/MM must not break minute-vs-month disambiguation,
			// so lastWasHour is deliberately not reset here.
			sb.WriteString(tok.TValue)

		default:
			lastWasHour = false
		}
	}

	if sb.Len() == 0 {
		return renderGeneral(serial)
	}
	return sb.String()
}

// renderDateToken renders a single date/time token value (already upper-cased).
func renderDateToken(upper string, t time.Time, hasAmPm bool, lastWasHour bool) string {
	switch upper {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)

	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		if lastWasHour {
			return fmt.Sprintf("%02d", t.Minute())
		}
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		if lastWasHour {
			return strconv.Itoa(t.Minute())
		}
		return strconv.Itoa(int(t.Month()))

	case "DDDD":
		return t.Weekday().String()
	case "DDD":
		return t.Weekday().String()[:3]
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())

	case "HH":
		h := t.Hour()
		if hasAmPm {
			h = h%12
			if h == 0 {
				h = 12
			}
		}
		return fmt.Sprintf("%02d", h)
	case "H":
		h := t.Hour()
		if hasAmPm {
			h = h % 12
			if h == 0 {
				h = 12
			}
		}
		return strconv.Itoa(h)

	case "SS":
		return fmt.Sprintf("%02d", t.Second())
	case "S":
		return strconv.Itoa(t.Second())

	case "AM/PM":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "A/P":
		if t.Hour() < 12 {
			return "A"
		}
		return "P"
	}
	return ""
}

// renderElapsed renders an elapsed-time token ([h], [hh], [mm], [ss] — as
// emitted by the nfp parser with brackets stripped) from the raw serial
// (fractional days), not from a wall-clock time.
func renderElapsed(upper string, serial float64) string {
	switch upper {
	case "H", "HH":
		return strconv.Itoa(int(serial * 24))
	case "MM":
		return fmt.Sprintf("%02d", int(serial*24*60)%60)
	case "M":
		return strconv.Itoa(int(serial*24*60) % 60)
	case "SS":
		return fmt.Sprintf("%02d", int(serial*24*3600)%60)
	case "S":
		return strconv.Itoa(int(serial*24*3600) % 60)
	}
	return ""
}

// convertSerial converts an Excel date serial to time.Time, handling both
// the 1900 and 1904 date systems. In the 1900 system, serial 0 (Excel's
// phantom day before 1900-01-01) is rendered as 1900-01-01, the same day as
// serial 1, and Excel's mythical 1900-02-29 is absorbed by subtracting one
// day once the integer part reaches 61, so serials 60 and 61 both land on
// 1900-03-01.
func convertSerial(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return time.Time{}, fmt.Errorf("numfmt: invalid serial %v", serial)
	}
	fracSec := int64(math.Round((serial - math.Trunc(serial)) * 86400))
	if fracSec < 0 {
		fracSec = 0
	} else if fracSec > 86399 {
		fracSec = 86399
	}
	if date1904 {
		base := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
		intPart := int(serial)
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	}
	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	intPart := int(serial)
	var t time.Time
	switch {
	case intPart == 0:
		t = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(fracSec) * time.Second)
	case intPart >= 61:
		t = base.Add(time.Duration(intPart-1)*24*time.Hour + time.Duration(fracSec)*time.Second)
	default:
		t = base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second)
	}
	return t, nil
}

// ── number renderer ─────────────────────────────────────────────────────────

// renderNumber renders a numeric (non-date) float64 value using the token
// section sec. sections is the full parsed set, needed to tell whether the
// negative section carries its own sign tokens.
func renderNumber(val float64, sec nfp.Section, sections []nfp.Section) string {
	type meta struct {
		hasPercent      bool
		hasThousands    bool
		decZeros        int
		decHashes       int
		intZeros        int
		hasDecimal      bool
		hasExplicitSign bool
	}
	var m meta
	afterDecimal := false
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypePercent:
			m.hasPercent = true
		case nfp.TokenTypeThousandsSeparator:
			m.hasThousands = true
		case nfp.TokenTypeDecimalPoint:
			m.hasDecimal = true
			afterDecimal = true
		case nfp.TokenTypeZeroPlaceHolder:
			if afterDecimal {
				m.decZeros += len(tok.TValue)
			} else {
				m.intZeros += len(tok.TValue)
			}
		case nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				m.decHashes += len(tok.TValue)
			}
		case nfp.TokenTypeLiteral:
			if tok.TValue == "+" || tok.TValue == "-" {
				m.hasExplicitSign = true
			}
		}
	}
	totalDecPlaces := m.decZeros + m.decHashes

	absVal := math.Abs(val)
	if m.hasPercent {
		absVal *= 100
	}

	var intStr, fracStr string
	if m.hasDecimal {
		formatted := strconv.FormatFloat(absVal, 'f', totalDecPlaces, 64)
		if dotIdx := strings.IndexByte(formatted, '.'); dotIdx >= 0 {
			intStr = formatted[:dotIdx]
			fracStr = formatted[dotIdx+1:]
		} else {
			intStr = formatted
			fracStr = strings.Repeat("0", totalDecPlaces)
		}
		if m.decHashes > 0 && len(fracStr) > m.decZeros {
			trimTo := len(fracStr)
			for trimTo > m.decZeros && trimTo > 0 && fracStr[trimTo-1] == '0' {
				trimTo--
			}
			fracStr = fracStr[:trimTo]
		}
	} else {
		intStr = strconv.FormatFloat(absVal, 'f', 0, 64)
	}

	for len(intStr) < m.intZeros {
		intStr = "0" + intStr
	}

	if m.hasThousands && len(intStr) > 3 {
		intStr = insertThousandsSep(intStr)
	}

	// When the negative section is chosen and has no explicit sign tokens of
	// its own, a lone section must still carry the minus; a dedicated
	// negative section is assumed to encode the sign visually itself.
	needsMinus := val < 0 && !m.hasExplicitSign && len(sections) < 2

	var sb strings.Builder
	if needsMinus {
		sb.WriteByte('-')
	}

	intConsumed := false
	fracConsumed := false
	afterDecimal = false

	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeLiteral:
			sb.WriteString(tok.TValue)

		case nfp.TokenTypeDecimalPoint:
			if len(fracStr) > 0 {
				sb.WriteByte('.')
			}
			afterDecimal = true

		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				if !fracConsumed {
					sb.WriteString(fracStr)
					fracConsumed = true
				}
			} else if !intConsumed {
				sb.WriteString(intStr)
				intConsumed = true
			}

		case nfp.TokenTypePercent:
			sb.WriteByte('%')

		case nfp.TokenTypeThousandsSeparator:
			// Already folded into intStr; the raw comma token is not re-emitted.

		case nfp.TokenTypeColor, nfp.TokenTypeCondition,
			nfp.TokenTypeCurrencyLanguage, nfp.TokenTypeAlignment:
			// Formatting-only tokens carry no display output.
		}
	}

	if !intConsumed && !afterDecimal {
		sb.WriteString(intStr)
	}

	if sb.Len() == 0 {
		return renderGeneral(val)
	}
	return sb.String()
}

// insertThousandsSep inserts commas every three digits from the right in an
// unsigned integer digit string.
func insertThousandsSep(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
