package student_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-directory/internal/http/handlers/student"
	"github.com/aanand-mishra/student-directory/internal/storage/memory"
	"github.com/aanand-mishra/student-directory/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body["error"]
}

func TestCreateStudent(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		contentType    string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{"JSON", "/students", "application/json", `{"name":"Ana","age":22,"course":"BSIT"}`, http.StatusCreated, ""},
		{"Form", "/students", "application/x-www-form-urlencoded", "name=Ana&age=22&course=BSIT", http.StatusCreated, ""},
		{"Query", "/students?name=Ana&age=22&course=BSIT", "", "", http.StatusCreated, ""},
		{"No data", "/students", "", "", http.StatusBadRequest, "No data provided. Send data as JSON, form or query parameters"},
		{"Missing name", "/students", "application/json", `{"age":22,"course":"BSIT"}`, http.StatusBadRequest, "Missing required field: name"},
		{"Missing course", "/students?name=Ana&age=22", "", "", http.StatusBadRequest, "Missing required field: course"},
		{"Bad age", "/students", "application/json", `{"name":"Ana","age":"twenty","course":"BSIT"}`, http.StatusBadRequest, "Age must be a number"},
		{"Malformed JSON", "/students", "application/json", `{"name":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rr := httptest.NewRecorder()
			student.New(store).ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			list, err := store.GetStudents()
			require.NoError(t, err)

			if tt.expectedStatus != http.StatusCreated {
				msg := decodeError(t, rr)
				if tt.expectedError != "" {
					assert.Equal(t, tt.expectedError, msg)
				} else {
					assert.NotEmpty(t, msg)
				}
				assert.Empty(t, list, "failed create must not insert")
				return
			}

			var created types.Student
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, "Ana", created.Name)
			assert.Equal(t, 22, created.Age)
			assert.Equal(t, "BSIT", created.Course)
			assert.Equal(t, []types.Student{created}, list)
		})
	}
}

func TestGetByID(t *testing.T) {
	store := memory.New()
	existing, err := store.CreateStudent("Maria Santos", 21, "BSCS")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /students/{id}", student.GetByID(store))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/students/"+existing.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got types.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, existing, got)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/students/unknown", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Student not found", decodeError(t, rr))
}

func TestGetList(t *testing.T) {
	store := memory.New()

	rr := httptest.NewRecorder()
	student.GetList(store).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/students", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	a, _ := store.CreateStudent("A", 1, "X")
	b, _ := store.CreateStudent("B", 2, "Y")

	rr = httptest.NewRecorder()
	student.GetList(store).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/students", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var list []types.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&list))
	assert.Equal(t, []types.Student{a, b}, list)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedError  string
		expected       types.Student
	}{
		{"Age only", "age=23", http.StatusOK, "", types.Student{Name: "Ana", Age: 23, Course: "BSIT"}},
		{"All fields", "name=Ana+Cruz&age=24&course=BSCS", http.StatusOK, "", types.Student{Name: "Ana Cruz", Age: 24, Course: "BSCS"}},
		{"No fields", "", http.StatusOK, "", types.Student{Name: "Ana", Age: 22, Course: "BSIT"}},
		{"Bad age leaves record untouched", "name=Changed&age=old", http.StatusBadRequest, "Age must be a number", types.Student{Name: "Ana", Age: 22, Course: "BSIT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			created, err := store.CreateStudent("Ana", 22, "BSIT")
			require.NoError(t, err)

			target := "/students/update?id=" + created.ID
			if tt.query != "" {
				target += "&" + tt.query
			}

			rr := httptest.NewRecorder()
			student.Update(store).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, target, nil))
			require.Equal(t, tt.expectedStatus, rr.Code)

			tt.expected.ID = created.ID
			if tt.expectedStatus == http.StatusOK {
				var body []json.RawMessage
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				require.Len(t, body, 2)
				assert.JSONEq(t, `"UPDATED "`, string(body[0]))
				var updated types.Student
				require.NoError(t, json.Unmarshal(body[1], &updated))
				assert.Equal(t, tt.expected, updated)
			} else {
				assert.Equal(t, tt.expectedError, decodeError(t, rr))
			}

			stored, err := store.GetStudentByID(created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stored)
		})
	}
}

func TestUpdateErrors(t *testing.T) {
	store := memory.New()

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedError  string
	}{
		{"Missing id", "/students/update?age=23", http.StatusBadRequest, "Missing student ID parameter"},
		{"Empty id", "/students/update?id=", http.StatusBadRequest, "Missing student ID parameter"},
		{"Unknown id", "/students/update?id=nope&age=23", http.StatusNotFound, "Student not found"},
		{"Unknown id wins over bad age", "/students/update?id=nope&age=old", http.StatusNotFound, "Student not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			student.Update(store).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedError, decodeError(t, rr))
		})
	}
}

func TestDelete(t *testing.T) {
	store := memory.New()
	created, err := store.CreateStudent("Pedro Penduko", 19, "BSIS")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /students/{id}", student.Delete(store))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/students/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Student Pedro Penduko has been deleted"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/students/"+created.ID, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Student not found", decodeError(t, rr))
}

func TestWelcome(t *testing.T) {
	rr := httptest.NewRecorder()
	student.Welcome().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, student.WelcomeText, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}
