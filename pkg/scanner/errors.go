package scanner

import "fmt"

// ListError records a directory that could not be enumerated. The directory
// is abandoned; the rest of the search continues.
type ListError struct {
	Path string
	Err  error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("list %s: %v", e.Path, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}
