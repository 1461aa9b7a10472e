package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural indicates a cell whose text does not appear on its recorded source line.
	ErrStructural = errors.New("cell text not found on its source line")

	// ErrRowOrder indicates a labeled row at an unexpected row number for its table kind.
	ErrRowOrder = errors.New("attribute row out of order")

	// ErrDuplicateAttribute indicates a scalar attribute written twice.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrMissingHeader indicates a table that never assigned its header attribute.
	ErrMissingHeader = errors.New("missing header in SW element specification")

	// ErrGlobalFieldCollision indicates a global field named like a header attribute.
	ErrGlobalFieldCollision = errors.New("global field collides with header attribute")

	// ErrSyntax indicates a cell in a position its table schema does not allow.
	ErrSyntax = errors.New("invalid syntax")
)

// LineError ties an extraction error to a source line.
type LineError struct {
	Line   int
	Err    error
	Detail string
}

func (e *LineError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %v: %s", e.Line, e.Err, e.Detail)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func lineErr(line int, err error, format string, args ...any) error {
	return &LineError{Line: line, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal extraction diagnostic.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}
