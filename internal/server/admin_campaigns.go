package server

import (
	"net/http"
	"time"

	"afghanrelief/pkg/types"
)

// handleAdminCampaigns lists everything, expired-and-active rows
// included, so they can be deactivated.
func (s *Service) handleAdminCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaignsRepo.AllCampaigns(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch campaigns")
		s.respondError(w, err)
		return
	}

	now := time.Now()
	views := make([]campaignView, 0, len(campaigns))
	for _, c := range campaigns {
		views = append(views, newCampaignView(c, now))
	}

	s.respondJSON(w, http.StatusOK, views)
}

func (s *Service) decodeCampaign(w http.ResponseWriter, r *http.Request) (*types.EmergencyCampaign, bool) {
	var input struct {
		types.EmergencyCampaign
		ExpiresAt string `json:"expiresAt" form:"expires_at"` // RFC 3339, optional
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid campaign payload")
		return nil, false
	}

	campaign := input.EmergencyCampaign

	if !required(campaign.NameEN) {
		s.invalid(w, "an English name is required")
		return nil, false
	}

	if campaign.GoalCents <= 0 {
		s.invalid(w, "goal must be positive")
		return nil, false
	}

	if input.ExpiresAt != "" {
		expiry, err := time.Parse(time.RFC3339, input.ExpiresAt)
		if err != nil {
			s.invalid(w, "expiry must be RFC 3339")
			return nil, false
		}
		campaign.ExpiresAt = &expiry
	}

	if campaign.QuickAmountCents == nil {
		campaign.QuickAmountCents = []int64{}
	}

	return &campaign, true
}

func (s *Service) handleAdminCreateCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, ok := s.decodeCampaign(w, r)
	if !ok {
		return
	}

	if err := s.campaignsRepo.CreateCampaign(r.Context(), campaign); err != nil {
		s.logger.WithError(err).Error("failed to create campaign")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, campaign)
}

func (s *Service) handleAdminUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	existing, err := s.campaignsRepo.CampaignByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	campaign, ok := s.decodeCampaign(w, r)
	if !ok {
		return
	}

	// Visibility is toggled through its own endpoint, never through a
	// full update.
	campaign.IsActive = existing.IsActive

	if err := s.campaignsRepo.UpdateCampaign(r.Context(), id, campaign); err != nil {
		s.logger.WithError(err).Error("failed to update campaign")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, campaign)
}

func (s *Service) handleAdminToggleVisibility(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var input struct {
		IsActive bool `json:"isActive" form:"is_active"`
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid payload")
		return
	}

	if err := s.campaignsRepo.ToggleVisibility(r.Context(), id, input.IsActive); err != nil {
		s.logger.WithError(err).Error("failed to toggle campaign visibility")
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleAdminDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.campaignsRepo.DeleteCampaign(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to delete campaign")
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
