package server

import (
	"encoding/json"
	"net/http"

	"afghanrelief/pkg/types"
)

type errorBody struct {
	Kind    types.Kind `json:"kind"`
	Message string     `json:"message"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response body")
	}
}

// respondError maps the structured error kind to a status code in one
// place; handlers never pick codes themselves.
func (s *Service) respondError(w http.ResponseWriter, err error) {
	kind := types.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case types.KindInvalid:
		status = http.StatusBadRequest
	case types.KindNotFound:
		status = http.StatusNotFound
	case types.KindConflict:
		status = http.StatusConflict
	case types.KindUnavailable:
		status = http.StatusServiceUnavailable
	case types.KindPartial:
		// The first write stuck, the second did not. 502 tells the
		// caller the record exists but the linked side effect failed.
		status = http.StatusBadGateway
	}

	message := "internal error"
	if kind != types.KindInternal {
		message = err.Error()
	}

	s.respondJSON(w, status, errorBody{Kind: kind, Message: message})
}

func (s *Service) invalid(w http.ResponseWriter, message string) {
	s.respondError(w, types.NewError(types.KindInvalid, message))
}

func required(v string) bool {
	return v != ""
}
