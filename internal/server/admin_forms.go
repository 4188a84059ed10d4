package server

import (
	"net/http"

	"afghanrelief/pkg/types"
)

func (s *Service) handleAdminMessages(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"

	messages, err := s.messagesRepo.Messages(r.Context(), unreadOnly)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch messages")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, messages)
}

func (s *Service) handleAdminMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.messagesRepo.MarkRead(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to mark message read")
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleAdminResearch(w http.ResponseWriter, r *http.Request) {
	submissions, err := s.researchRepo.Submissions(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch research submissions")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, submissions)
}

func (s *Service) handleAdminUpdateResearchStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var input struct {
		Status string `json:"status" form:"status"`
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid payload")
		return
	}

	status := types.ResearchStatus(input.Status)
	if !status.Valid() {
		s.invalid(w, "unknown status")
		return
	}

	if err := s.researchRepo.UpdateSubmissionStatus(r.Context(), id, status); err != nil {
		s.logger.WithError(err).Error("failed to update research status")
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
