package sfnt

import (
	"errors"
	"fmt"
)

// ErrorSeverity represents the severity level of a font format error.
type ErrorSeverity int

const (
	// SeverityCritical indicates an error which makes the font unusable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMinor indicates an issue which can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered while decoding or encoding a font file.
type FontError struct {
	Table    Tag           // The table where the error occurred, 0 for the file header
	Section  string        // Section within the file or table (e.g., "Header", "TableRecords")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	where := e.Section
	if e.Table != 0 {
		where = e.Table.String() + "/" + e.Section
	}
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s at offset %d: %s", e.Severity, where, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, where, e.Issue)
}

func errFormat(table Tag, section string, offset uint32, format string, v ...interface{}) error {
	return FontError{
		Table:    table,
		Section:  section,
		Issue:    fmt.Sprintf(format, v...),
		Severity: SeverityCritical,
		Offset:   offset,
	}
}

// Errors which clients may check with errors.Is.
var (
	ErrUnsupportedFlavor = errors.New("unsupported font file flavor")
	ErrNoCodec           = errors.New("no WOFF2 codec configured")
	ErrNoTable           = errors.New("font has no such table")
)
