package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"productive-boards/internal/service"
)

const maxBodySize = 1 << 20

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func writeDetail(writer http.ResponseWriter, status int, detail string) {
	writeJSON(writer, status, map[string]string{"detail": detail})
}

// writeError maps the operation layer's error kinds onto status codes.
// Anything else is logged and reported as a bare 500.
func (s *Server) writeError(writer http.ResponseWriter, request *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrValidation):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			"error", err,
			"method", request.Method,
			"path", request.URL.Path,
			"request_id", requestID(request.Context()),
		)
		writeDetail(writer, status, "internal server error")
		return
	}
	writeDetail(writer, status, err.Error())
}

// decodeJSON reads a JSON body into dst. Shape errors are validation
// failures and are reported before any lookup happens.
func decodeJSON(request *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodySize))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &service.Error{Kind: service.ErrValidation, Msg: "request body is required"}
		}
		return &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("malformed request body: %v", err)}
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(request *http.Request, name string) (uint, error) {
	raw := request.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &service.Error{Kind: service.ErrValidation, Msg: fmt.Sprintf("invalid %s %q", name, raw)}
	}
	return uint(id), nil
}
