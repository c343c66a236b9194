// Package model holds the data types shared by the resource synchronization
// engine: string entries, resource files and their projects, and the error
// taxonomy surfaced to users.
package model

import "fmt"

// StringEntry is one STRINGTABLE resource.
type StringEntry struct {
	// Name is the symbolic identifier, unique within one resource file.
	Name string `json:"name"`
	// ID is the integer identifier, unique within one resource file.
	ID int `json:"id"`
	// Value is the escaped text between the quotes.
	Value string `json:"value"`
	// Define is the name the paired header declares for this entry. It is
	// blank when the #define lives in another header or the entry is keyed
	// by a numeric literal.
	Define string `json:"define,omitempty"`
}

// HasEmptyFields reports whether the entry has no define in the paired header.
func (e StringEntry) HasEmptyFields() bool {
	return e.Define == ""
}

func (e StringEntry) String() string {
	return fmt.Sprintf("%s=%d %q", e.Name, e.ID, e.Value)
}
