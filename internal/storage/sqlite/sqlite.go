// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The default DSN is ":memory:", so even this backend keeps the directory
// volatile: the database lives inside the process and disappears with it.
// Pointing storage.path at a file is possible but nothing else about the
// service changes.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-directory/internal/config"
	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/google/uuid"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the database implementation of storage.Storage.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.Storage.Path, creates the
// students table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Every connection to ":memory:" opens its own private database, so
	// the pool must never hold more than one connection.
	db.SetMaxOpenConns(1)

	// Schema:
	//   seq    — insertion counter; GetStudents orders by it
	//   id     — server-generated UUID, the public identifier
	//   name   — student's full name
	//   age    — student's age in years
	//   course — programme code, e.g. BSIT
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			seq    INTEGER PRIMARY KEY AUTOINCREMENT,
			id     TEXT    NOT NULL UNIQUE,
			name   TEXT    NOT NULL,
			age    INTEGER NOT NULL,
			course TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func (s *SQLite) CreateStudent(name string, age int, course string) (types.Student, error) {
	student := types.Student{
		ID:     uuid.NewString(),
		Name:   name,
		Age:    age,
		Course: course,
	}
	if err := storage.ValidateRecord(student); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}

	stmt, err := s.Db.Prepare(
		"INSERT INTO students (id, name, age, course) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(student.ID, student.Name, student.Age, student.Course); err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return student, nil
}

func (s *SQLite) GetStudentByID(id string) (types.Student, error) {
	return getStudent(s.Db, id)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getStudent(q querier, id string) (types.Student, error) {
	var student types.Student

	err := q.QueryRow(
		"SELECT id, name, age, course FROM students WHERE id = ? LIMIT 1", id,
	).Scan(
		&student.ID,
		&student.Name,
		&student.Age,
		&student.Course,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

func (s *SQLite) GetStudents() ([]types.Student, error) {
	stmt, err := s.Db.Prepare(
		"SELECT id, name, age, course FROM students ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Returning [] instead of null in JSON.
	students := make([]types.Student, 0)

	for rows.Next() {
		var student types.Student

		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Age,
			&student.Course,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}

		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID reads the current row, applies the patch in Go and
// writes all three columns back. The read and the write share one
// transaction so a concurrent update cannot slip in between them.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudentByID(id string, patch types.StudentPatch) (types.Student, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: begin: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	student, err := getStudent(tx, id)
	if err != nil {
		return types.Student{}, err
	}
	patch.Apply(&student)

	_, err = tx.Exec(
		"UPDATE students SET name = ?, age = ?, course = ? WHERE id = ?",
		student.Name, student.Age, student.Course, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: commit: %w", err)
	}
	return student, nil
}

func (s *SQLite) DeleteStudentByID(id string) (types.Student, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: begin: %w", err)
	}
	defer tx.Rollback()

	student, err := getStudent(tx, id)
	if err != nil {
		return types.Student{}, err
	}

	if _, err := tx.Exec("DELETE FROM students WHERE id = ?", id); err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Student{}, fmt.Errorf("DeleteStudentByID: commit: %w", err)
	}
	return student, nil
}
