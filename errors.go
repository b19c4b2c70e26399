package xlsxrag

import (
	"fmt"

	"github.com/cordwainer/xlsxrag/internal/security"
)

// SecurityViolationError reports that the security gate refused the input
// archive. It is always fatal; a conversion that trips this never produces
// partial output.
type SecurityViolationError struct {
	Err error
}

func (e *SecurityViolationError) Error() string { return "xlsxrag: " + e.Err.Error() }
func (e *SecurityViolationError) Unwrap() error { return e.Err }

// ParseError reports a malformed ZIP archive or XML part.
type ParseError struct {
	Part string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("xlsxrag: parse %s: %v", e.Part, e.Err)
	}
	return fmt.Sprintf("xlsxrag: parse: %v", e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports an invalid sheet selector, range, custom date
// pattern, or merge strategy. Fatal at the boundary, but recoverable by the
// caller retrying with corrected options.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return "xlsxrag: config: " + e.Message }

// UnsupportedFeatureError is reserved for future structural checks (e.g. a
// detected pivot table); the core conversion path never raises it today.
type UnsupportedFeatureError struct {
	Sheet   string
	Cell    string
	Message string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("xlsxrag: unsupported feature in sheet %q cell %q: %s", e.Sheet, e.Cell, e.Message)
}

// Utf8Error wraps a UTF-8 decoding failure encountered while converting XML
// text content.
type Utf8Error struct {
	Err error
}

func (e *Utf8Error) Error() string { return "xlsxrag: utf8: " + e.Err.Error() }
func (e *Utf8Error) Unwrap() error { return e.Err }

// ParseIntError wraps an integer-parsing failure encountered while reading
// a cell reference, row number, or style index attribute.
type ParseIntError struct {
	Err error
}

func (e *ParseIntError) Error() string { return "xlsxrag: parseint: " + e.Err.Error() }
func (e *ParseIntError) Unwrap() error { return e.Err }

// ZipError wraps a failure opening or reading the ZIP archive itself.
type ZipError struct {
	Err error
}

func (e *ZipError) Error() string { return "xlsxrag: zip: " + e.Err.Error() }
func (e *ZipError) Unwrap() error { return e.Err }

// IoError wraps a failure reading the input or writing the output.
type IoError struct {
	Err error
}

func (e *IoError) Error() string { return "xlsxrag: io: " + e.Err.Error() }
func (e *IoError) Unwrap() error { return e.Err }

// classifyErr maps an error surfaced by the workbook/worksheet layers onto
// the taxonomy above. Errors already in the taxonomy pass through
// unchanged; a bare *security.Violation is wrapped as SecurityViolationError;
// everything else becomes a ParseError.
func classifyErr(part string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *SecurityViolationError, *ParseError, *ConfigError, *UnsupportedFeatureError,
		*Utf8Error, *ParseIntError, *ZipError, *IoError:
		return err
	}
	if v, ok := err.(*security.Violation); ok {
		return &SecurityViolationError{Err: v}
	}
	return &ParseError{Part: part, Err: err}
}
