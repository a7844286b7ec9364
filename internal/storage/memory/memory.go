// Package memory provides the default, process-local implementation of
// the storage.Storage interface: a Go map guarded by a mutex.
//
// Nothing is ever written to disk. Every record is lost when the process
// exits, which is exactly what the directory is meant to do.
package memory

import (
	"fmt"
	"sync"

	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/google/uuid"
)

// Memory is the in-memory implementation of storage.Storage.
//
// byID holds the authoritative copy of every record; order remembers
// insertion order so GetStudents lists records the way they were created.
// Both are guarded by mu: reads take the read lock, every
// read-modify-write sequence takes the write lock for its whole duration.
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]types.Student
	order []string

	// newID is swapped out by tests that need deterministic IDs.
	newID func() string
}

// New returns an empty directory.
func New() *Memory {
	return &Memory{
		byID:  map[string]types.Student{},
		order: []string{},
		newID: uuid.NewString,
	}
}

// CreateStudent allocates a new UUID and inserts the record. ID
// generation and insertion happen under one lock, so two concurrent
// creates can never observe or claim the same ID.
func (m *Memory) CreateStudent(name string, age int, course string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student := types.Student{
		ID:     m.newID(),
		Name:   name,
		Age:    age,
		Course: course,
	}
	if err := storage.ValidateRecord(student); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}
	if _, exists := m.byID[student.ID]; exists {
		return types.Student{}, fmt.Errorf("CreateStudent: duplicate id %s", student.ID)
	}

	m.byID[student.ID] = student
	m.order = append(m.order, student.ID)
	return student, nil
}

func (m *Memory) GetStudentByID(id string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.byID[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	return student, nil
}

func (m *Memory) GetStudents() ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	students := make([]types.Student, 0, len(m.order))
	for _, id := range m.order {
		students = append(students, m.byID[id])
	}
	return students, nil
}

// UpdateStudentByID applies patch to a copy of the stored record and
// writes the copy back, all under the write lock.
func (m *Memory) UpdateStudentByID(id string, patch types.StudentPatch) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.byID[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	patch.Apply(&student)
	m.byID[id] = student
	return student, nil
}

func (m *Memory) DeleteStudentByID(id string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	student, ok := m.byID[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	delete(m.byID, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return student, nil
}
