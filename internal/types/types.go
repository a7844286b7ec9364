// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and utils can all import types without depending
// on each other.
package types

// Student represents a student record in the directory.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON.
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package before a record is stored. Only the ID carries a rule:
//     name and course may legitimately be empty strings, and age may be
//     any integer the client sent.
type Student struct {
	ID     string `json:"id"     validate:"required,uuid4"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Course string `json:"course"`
}

// StudentPatch carries the fields of a partial update.
// A nil pointer means "leave this field alone".
type StudentPatch struct {
	Name   *string
	Age    *int
	Course *string
}

// Apply overwrites the fields of s that are set in p.
func (p StudentPatch) Apply(s *Student) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.Course != nil {
		s.Course = *p.Course
	}
}

// Empty reports whether the patch changes nothing.
func (p StudentPatch) Empty() bool {
	return p.Name == nil && p.Age == nil && p.Course == nil
}
