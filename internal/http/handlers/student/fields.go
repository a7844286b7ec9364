package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/go-playground/validator/v10"
)

// Client-facing messages. The wording is part of the API contract.
const (
	msgNotFound   = "Student not found"
	msgNoData     = "No data provided. Send data as JSON, form or query parameters"
	msgInvalidAge = "Age must be a number"
)

// maxMemory bounds the in-memory part of a multipart form.
const maxMemory = 32 << 20

var (
	// ErrNoData means none of the three input sources carried any field.
	ErrNoData = errors.New("no data provided")

	// ErrInvalidAge means age was present but not an integer.
	ErrInvalidAge = errors.New("age must be a number")
)

// MissingFieldError names the first required field absent from a create
// request.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "Missing required field: " + e.Field
}

// requiredFields is checked in this order; the first gap is reported.
var requiredFields = []string{"name", "age", "course"}

// Fields is the canonical field set a create request normalises into,
// regardless of how the client encoded it.
type Fields map[string]any

// CreateInput is a validated create request.
type CreateInput struct {
	Name   string
	Age    int
	Course string
}

// updateQuery is the out-of-band part of an update request.
// label:"..." is what response.ValidationError prints for the field.
type updateQuery struct {
	ID string `label:"student ID" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalize turns a create request into Fields. Three sources are tried in
// order and the first non-empty one wins:
//
//  1. a JSON object body (Content-Type: application/json)
//  2. form values in the body (urlencoded or multipart)
//  3. URL query parameters
//
// Returns ErrNoData when every source is empty, or a decode error when
// the body claims to be JSON or a form but cannot be parsed.
// ─────────────────────────────────────────────────────────────────────────────
func Normalize(r *http.Request) (Fields, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		fields := Fields{}
		dec := json.NewDecoder(r.Body)
		// UseNumber keeps "age": 22 as json.Number so large integers
		// survive without a float64 round trip.
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		if len(fields) > 0 {
			return fields, nil
		}

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		if len(r.PostForm) > 0 {
			return fromValues(r.PostForm), nil
		}

	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		if len(r.PostForm) > 0 {
			return fromValues(r.PostForm), nil
		}
	}

	if query := r.URL.Query(); len(query) > 0 {
		return fromValues(query), nil
	}

	return nil, ErrNoData
}

// fromValues keeps the first value of every key.
func fromValues(values url.Values) Fields {
	fields := make(Fields, len(values))
	for key, vs := range values {
		if len(vs) > 0 {
			fields[key] = vs[0]
		}
	}
	return fields
}

// ParseCreate checks that name, age and course are present (in that
// order) and coerces them into a CreateInput.
func ParseCreate(fields Fields) (CreateInput, error) {
	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return CreateInput{}, &MissingFieldError{Field: field}
		}
	}

	age, err := parseAge(fields["age"])
	if err != nil {
		return CreateInput{}, err
	}

	return CreateInput{
		Name:   stringify(fields["name"]),
		Age:    age,
		Course: stringify(fields["course"]),
	}, nil
}

// parseUpdateID extracts and validates the id query parameter.
// The returned error is a validator.ValidationErrors when id is missing.
func parseUpdateID(query url.Values) (string, error) {
	q := updateQuery{ID: strings.TrimSpace(query.Get("id"))}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.ID, nil
}

// ParsePatch builds a patch from the name, age and course query
// parameters. Parameters that are absent stay nil. Nothing is applied
// here, so an invalid age rejects the whole update.
func ParsePatch(query url.Values) (types.StudentPatch, error) {
	var patch types.StudentPatch

	if query.Has("name") {
		name := query.Get("name")
		patch.Name = &name
	}
	if query.Has("age") {
		age, err := parseAge(query.Get("age"))
		if err != nil {
			return types.StudentPatch{}, err
		}
		patch.Age = &age
	}
	if query.Has("course") {
		course := query.Get("course")
		patch.Course = &course
	}

	return patch, nil
}

// parseAge accepts integers, integral or fractional JSON numbers
// (truncated toward zero) and base-10 integer strings.
func parseAge(v any) (int, error) {
	switch age := v.(type) {
	case json.Number:
		if i, err := age.Int64(); err == nil {
			return int(i), nil
		}
		f, err := age.Float64()
		if err != nil {
			return 0, ErrInvalidAge
		}
		return truncate(f)
	case float64:
		return truncate(age)
	case int:
		return age, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(age))
		if err != nil {
			return 0, ErrInvalidAge
		}
		return i, nil
	default:
		return 0, ErrInvalidAge
	}
}

func truncate(f float64) (int, error) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, ErrInvalidAge
	}
	return int(f), nil
}

// stringify renders a JSON value as text. Strings pass through; numbers
// keep their literal form; null becomes "".
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case json.Number:
		return s.String()
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(b)
	}
}
