// Package validation checks user input before a resource file is touched.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []error
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the combined validation error message.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return Errors(r.Errors)
}

// Summary returns a human-readable summary of the validation result.
func (r *Result) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return "All validations passed"
	}
	var msg string
	if r.Valid {
		msg = "Validation passed with warnings"
	} else {
		msg = "Validation failed"
	}
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return msg
}

// MaxID is the largest string resource id a resource compiler accepts.
const MaxID = 65535

// ValidateName checks that name is a C identifier usable in a #define.
func ValidateName(name string) error {
	if name == "" {
		return &Error{Field: "name", Message: "resource name cannot be empty"}
	}
	for i, r := range name {
		letter := r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
		digit := r >= '0' && r <= '9'
		if !letter && !(digit && i > 0) {
			return &Error{
				Field:   "name",
				Message: fmt.Sprintf("%q is not a valid identifier (invalid character %q at %d)", name, r, i),
			}
		}
	}
	return nil
}

// ValidateID checks that id is within the string table range.
func ValidateID(id int) error {
	if id < 0 || id > MaxID {
		return &Error{Field: "id", Message: fmt.Sprintf("id %d is outside 0..%d", id, MaxID)}
	}
	return nil
}

// ValidateAdd checks an add request. A nil id means one will be generated.
// Values containing a raw line break are accepted with a warning because
// they are escaped before writing.
func ValidateAdd(name, value string, id *int) *Result {
	result := &Result{Valid: true}
	if err := ValidateName(name); err != nil {
		result.AddError(err)
	}
	if id != nil {
		if err := ValidateID(*id); err != nil {
			result.AddError(err)
		}
	}
	if value == "" {
		result.AddWarning(fmt.Sprintf("resource %q has an empty value", name))
	}
	if strings.ContainsAny(value, "\r\n") {
		result.AddWarning(fmt.Sprintf("resource %q value contains line breaks", name))
	}
	return result
}

// ValidateFile checks that path names an existing regular file.
func ValidateFile(path, field string) error {
	if path == "" {
		return &Error{Field: field, Message: "path cannot be empty"}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return &Error{Field: field, Message: "cannot convert to absolute path", Err: err}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{Field: field, Message: fmt.Sprintf("file does not exist: %s", absPath), Err: err}
		}
		return &Error{Field: field, Message: fmt.Sprintf("cannot access file: %s", absPath), Err: err}
	}
	if !info.Mode().IsRegular() {
		return &Error{Field: field, Message: fmt.Sprintf("not a regular file: %s", absPath)}
	}
	return nil
}

// ValidateRCFile checks a resource script path. A file without the .rc
// extension is accepted with a warning.
func ValidateRCFile(path string) *Result {
	result := &Result{Valid: true}
	if err := ValidateFile(path, "rc file"); err != nil {
		result.AddError(err)
		return result
	}
	if !strings.EqualFold(filepath.Ext(path), ".rc") {
		result.AddWarning(fmt.Sprintf("%s does not have an .rc extension", filepath.Base(path)))
	}
	return result
}

// ValidateWritable checks that the directory holding path accepts new files,
// which a rewrite in place needs.
func ValidateWritable(path string) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".rcstrings-write-test-*")
	if err != nil {
		return &Error{
			Field:   "write permission",
			Message: fmt.Sprintf("directory is not writable: %s", dir),
			Err:     err,
		}
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
