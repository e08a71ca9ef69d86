package server

import (
	"errors"
	"net/http"

	"todo-list/internal/export"
	"todo-list/internal/store"
	"todo-list/internal/todo"
)

const (
	msgNotFound = "The page you were looking for doesn't exist."
	msgInternal = "We're sorry, but something went wrong."
)

func statusFor(err error) int {
	switch {
	case store.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, todo.ErrParameterMissing), errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	switch code {
	case http.StatusNotFound:
		http.Error(w, msgNotFound, code)
	case http.StatusBadRequest:
		http.Error(w, err.Error(), code)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		http.Error(w, msgInternal, code)
	}
}
