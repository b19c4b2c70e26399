// Package dateformat provides shared date-format detection helpers used by
// [github.com/cordwainer/xlsxrag/styles] and [github.com/cordwainer/xlsxrag/numfmt].
//
// It exists solely to eliminate duplicated scanning code between those two
// packages; it has no public-API contract of its own beyond this module.
package dateformat

import "strings"

// IsBuiltInDateID reports whether id is a built-in Excel numFmtId that
// represents a date, datetime, or time format.
//
// The recognised IDs follow ECMA-376 §18.8.30:
//
//	14–22   date and time formats (IDs 18–21 are time-only)
//	27–36   locale-specific CJK date formats
//	45–47   elapsed-time / seconds formats
//	50–58   locale-specific CJK date formats (variant set)
func IsBuiltInDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// ScanFormatStr reports whether a custom number-format string names a
// date/time format. It looks for the doubled tokens "yy", "mm", "dd", or
// "hh" (case-insensitive) anywhere in the string — the same heuristic the
// original implementation uses, and deliberately narrower than a single
// stray letter: a format like "0.0s" names an ordinary number, not a date.
func ScanFormatStr(formatStr string) bool {
	lower := strings.ToLower(formatStr)
	return strings.Contains(lower, "yy") ||
		strings.Contains(lower, "mm") ||
		strings.Contains(lower, "dd") ||
		strings.Contains(lower, "hh")
}

// IsDateFormat reports whether numFmtID, together with its resolved format
// string, represents a date or datetime format. It is the single source of
// truth for this classification, used by both styles.StyleTable.IsDate and
// numfmt's renderer dispatch so the two call sites can't drift: a built-in
// date id is always a date; a custom id (>= 164) or id 0 carrying a
// non-empty override string falls through to a ScanFormatStr token check;
// every other built-in id is not a date.
func IsDateFormat(numFmtID int, formatStr string) bool {
	if IsBuiltInDateID(numFmtID) {
		return true
	}
	if numFmtID != 0 && numFmtID < 164 {
		return false
	}
	if formatStr == "" {
		return false
	}
	return ScanFormatStr(formatStr)
}
