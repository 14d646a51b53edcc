package document

import "fmt"

// SchemaError reports a document that could not be parsed or whose structure
// does not match what the installer expects.
type SchemaError struct {
	File string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("malformed document: %v", e.Err)
	}
	return fmt.Sprintf("malformed document %s: %v", e.File, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Schemaf builds a SchemaError from a format string.
func Schemaf(file, format string, args ...any) *SchemaError {
	return &SchemaError{File: file, Err: fmt.Errorf(format, args...)}
}
