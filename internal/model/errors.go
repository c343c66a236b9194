package model

import "fmt"

// DuplicateNameError is returned when an added name already exists.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("string resource name %q already exists", e.Name)
}

// DuplicateIDError is returned when an added id already exists.
type DuplicateIDError struct {
	ID int
	// Owner is the name of the entry already using ID.
	Owner string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("string resource id %d is already used by %q", e.ID, e.Owner)
}

// NotFoundError is returned when a by-name lookup fails.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("the string resource name %q can not be found in RC files in the solution", e.Name)
}

// IOError wraps a failure reading or writing a resource or header file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *IOError) Unwrap() error {
	return e.Err
}
