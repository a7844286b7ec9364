// Package storage defines the Storage interface — a contract that any
// student directory backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care whether records live in
// a plain Go map or in a SQLite database. By depending only on this
// interface:
//
//   - Switching backends = implement the interface, change one line in
//     main.go. Zero handler changes.
//
//   - Writing tests = hand the handlers the in-memory store.
package storage

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned by every lookup that names an unknown ID.
// Handlers translate it into a 404.
var ErrNotFound = errors.New("student not found")

// validate is shared: a *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// ValidateRecord checks the validate:"..." tags on a record before a
// backend stores it. A record without a well-formed ID never persists.
func ValidateRecord(s types.Student) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid student record: %w", err)
	}
	return nil
}

// Storage is the directory contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface.
type Storage interface {
	// CreateStudent generates a fresh ID, inserts the record and returns it.
	CreateStudent(name string, age int, course string) (types.Student, error)

	// GetStudentByID fetches a single student. Returns ErrNotFound if
	// no record has that ID.
	GetStudentByID(id string) (types.Student, error)

	// GetStudents returns every student in insertion order.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.Student, error)

	// UpdateStudentByID applies the set fields of patch to an existing
	// student as a single step and returns the updated record.
	UpdateStudentByID(id string, patch types.StudentPatch) (types.Student, error)

	// DeleteStudentByID removes a student permanently and returns the
	// record as it was before removal.
	DeleteStudentByID(id string) (types.Student, error)
}

// SampleStudents is the fixed data set inserted by Seed.
var SampleStudents = []types.Student{
	{Name: "Juan Dela Cruz", Age: 20, Course: "BSIT"},
	{Name: "Maria Santos", Age: 21, Course: "BSCS"},
	{Name: "Pedro Penduko", Age: 19, Course: "BSIS"},
}

// Seed inserts SampleStudents into s. Each sample gets a freshly
// generated ID, exactly like a record created over HTTP.
func Seed(s Storage) error {
	for _, sample := range SampleStudents {
		if _, err := s.CreateStudent(sample.Name, sample.Age, sample.Course); err != nil {
			return fmt.Errorf("storage.Seed: %s: %w", sample.Name, err)
		}
	}
	return nil
}
