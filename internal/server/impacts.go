package server

import (
	"net/http"
	"strings"

	"afghanrelief/internal/utils"
)

func (s *Service) handleImpactsByDonation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !utils.ValidDonationID(id) {
		s.invalid(w, "malformed donation id")
		return
	}

	impacts, err := s.impactsRepo.ImpactsByDonation(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch impacts by donation")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, impacts)
}

func (s *Service) handleImpactsByTarget(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("department"))
	if target == "" {
		target = strings.TrimSpace(r.URL.Query().Get("campaign"))
	}
	if !required(target) {
		s.invalid(w, "provide a department or campaign")
		return
	}

	impacts, err := s.impactsRepo.ImpactsByTarget(r.Context(), target)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch impacts by target")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, impacts)
}
