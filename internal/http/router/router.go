// Package router assembles the route table and wraps it in the
// middleware chain shared by every request.
package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/student-directory/internal/config"
	"github.com/aanand-mishra/student-directory/internal/http/handlers/student"
	"github.com/aanand-mishra/student-directory/internal/storage"
	"github.com/gorilla/handlers"
)

// New returns the root handler for the directory API.
//
// Route table:
//
//	GET    /                  → welcome text
//	GET    /students          → list all students
//	POST   /students          → create a student
//	GET    /students/{id}     → get one student
//	PUT    /students/update   → update by ?id= (GET accepted too)
//	DELETE /students/{id}     → delete one student
//
// "/students/update" is more specific than "/students/{id}", so ServeMux
// routes it to Update even though both patterns match.
//
// Middleware, outermost first: access log → panic recovery → CORS.
func New(cfg *config.Config, store storage.Storage, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", student.Welcome())
	mux.HandleFunc("GET /students", student.GetList(store))
	mux.HandleFunc("POST /students", student.New(store))
	mux.HandleFunc("GET /students/{id}", student.GetByID(store))
	mux.HandleFunc("PUT /students/update", student.Update(store))
	mux.HandleFunc("GET /students/update", student.Update(store))
	mux.HandleFunc("DELETE /students/{id}", student.Delete(store))

	var h http.Handler = mux
	h = handlers.CORS(
		handlers.AllowedOrigins(cfg.HTTPServer.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log}),
		handlers.PrintRecoveryStack(cfg.Env == "dev"),
	)(h)
	h = handlers.CustomLoggingHandler(io.Discard, h, accessLog(log))

	return h
}

// accessLog emits one structured record per request instead of the
// Apache-style line gorilla/handlers writes by default.
func accessLog(log *slog.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		log.Info("request",
			slog.String("method", p.Request.Method),
			slog.String("path", p.URL.Path),
			slog.Int("status", p.StatusCode),
			slog.Int("size", p.Size),
			slog.Duration("duration", time.Since(p.TimeStamp)),
		)
	}
}

// recoveryLogger adapts *slog.Logger to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	log *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.log.Error("panic recovered", slog.String("panic", fmt.Sprint(v...)))
}
