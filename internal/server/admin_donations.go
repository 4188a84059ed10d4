package server

import (
	"net/http"

	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"

	"github.com/sirupsen/logrus"
)

func (s *Service) handleAdminDonations(w http.ResponseWriter, r *http.Request) {
	status := types.DonationStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		s.invalid(w, "unknown status filter")
		return
	}

	donations, err := s.donationsRepo.DonationsByStatus(r.Context(), status)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donations")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, donations)
}

// handleAdminUpdateStatus overwrites the status unconditionally, last
// write wins. Transitions out of a terminal state are logged but not
// rejected; the lifecycle convention is advisory.
func (s *Service) handleAdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !utils.ValidDonationID(id) {
		s.invalid(w, "malformed donation id")
		return
	}

	var input struct {
		Status string `json:"status" form:"status"`
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid payload")
		return
	}

	status := types.DonationStatus(input.Status)
	if !status.Valid() {
		s.invalid(w, "unknown status")
		return
	}

	donation, err := s.donationsRepo.DonationByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if donation.Status != status && !types.CanTransition(donation.Status, status) {
		s.logger.WithFields(logrus.Fields{
			"donation_id": donation.ID,
			"from":        donation.Status,
			"to":          status,
		}).Warn("unconventional status transition")
	}

	oldStatus := donation.Status

	if err := s.donationsRepo.UpdateStatus(r.Context(), id, status); err != nil {
		s.logger.WithError(err).Error("failed to update donation status")
		s.respondError(w, err)
		return
	}

	s.publisher.DonationStatusChanged(r.Context(), donation.ID, oldStatus, status)

	updated, err := s.donationsRepo.DonationByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Service) handleAdminBreakdown(w http.ResponseWriter, r *http.Request) {
	byTarget, err := s.donationsRepo.BreakdownByTarget(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch target breakdown")
		s.respondError(w, err)
		return
	}

	byMethod, err := s.donationsRepo.BreakdownByMethod(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch method breakdown")
		s.respondError(w, err)
		return
	}

	daily, err := s.donationsRepo.DailySeries(r.Context(), 30)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch daily series")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"byTarget": byTarget,
		"byMethod": byMethod,
		"daily":    daily,
	})
}
