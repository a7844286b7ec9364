// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function accepts its dependencies (the directory) and
// returns a function with the exact signature the router needs:
//
//	router.HandleFunc("POST /students", student.New(storage))
//	//                                   ^^^^^^^^^^^^
//	//                 New(storage) is called ONCE at startup.
//	//                 It returns a handler func which is called
//	//                 on EVERY incoming request.
package student

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/aanand-mishra/student-directory/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// WelcomeText is served on GET /.
const WelcomeText = "Welcome to the Student Management API!"

// UpdatedMarker is the first element of a successful update response.
const UpdatedMarker = "UPDATED "

// Welcome handles GET /
func Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteText(w, http.StatusOK, WelcomeText)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
// Creates a new student from a JSON body, form body, or query parameters.
//
// Request body (JSON):
//
//	{ "name": "Ana", "age": 22, "course": "BSIT" }
//
// Success response (201 Created) — the stored record:
//
//	{ "id": "5f0c…", "name": "Ana", "age": 22, "course": "BSIT" }
//
// Error responses:
//
//	400 Bad Request  — no data, malformed body, missing field, or bad age
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		fields, err := Normalize(r)
		if errors.Is(err, ErrNoData) {
			response.WriteJSON(w, http.StatusBadRequest, response.Error(msgNoData))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		input, err := ParseCreate(fields)
		if err != nil {
			writeInputError(w, err)
			return
		}

		student, err := storage.CreateStudent(input.Name, input.Age, input.Course)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
//
// Error responses:
//
//	404 Not Found    — no student with that id
//	500 Internal     — storage error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := storage.GetStudentByID(id)
		if err != nil {
			writeStorageError(w, id, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// GetList handles GET /students
// Returns every student in insertion order; [] (not null) when empty.
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/update?id=<id>&name=&age=&course=
// (GET is accepted too, so the endpoint can be tried from a browser.)
//
// Only the parameters present in the query are changed. Every parameter
// is validated before anything is written, so a bad age leaves the
// record untouched.
//
// Success response (200 OK):
//
//	[ "UPDATED ", { "id": "…", "name": "Ana", "age": 23, "course": "BSIT" } ]
//
// Error responses:
//
//	400 Bad Request  — missing id or non-numeric age
//	404 Not Found    — unknown id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		id, err := parseUpdateID(query)
		if err != nil {
			writeInputError(w, err)
			return
		}
		slog.Info("updating a student", slog.String("id", id))

		// Unknown ids are reported before field errors.
		if _, err := storage.GetStudentByID(id); err != nil {
			writeStorageError(w, id, err)
			return
		}

		patch, err := ParsePatch(query)
		if err != nil {
			writeInputError(w, err)
			return
		}

		updated, err := storage.UpdateStudentByID(id, patch)
		if err != nil {
			writeStorageError(w, id, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, []any{UpdatedMarker, updated})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
//
// Success response (200 OK):
//
//	{ "message": "Student Ana has been deleted" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("deleting a student", slog.String("id", id))

		deleted, err := storage.DeleteStudentByID(id)
		if err != nil {
			writeStorageError(w, id, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.Message{
			Message: fmt.Sprintf("Student %s has been deleted", deleted.Name),
		})
	}
}

// writeInputError maps request validation failures to 400 responses.
func writeInputError(w http.ResponseWriter, err error) {
	var (
		missing    *MissingFieldError
		validation validator.ValidationErrors
	)

	switch {
	case errors.As(err, &missing):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(missing))
	case errors.As(err, &validation):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validation))
	case errors.Is(err, ErrInvalidAge):
		response.WriteJSON(w, http.StatusBadRequest, response.Error(msgInvalidAge))
	default:
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	}
}

// writeStorageError maps ErrNotFound to 404 and everything else to 500.
func writeStorageError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.Error(msgNotFound))
		return
	}

	slog.Error("storage error",
		slog.String("id", id),
		slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
