package server

import (
	"net/http"
	"time"

	"afghanrelief/pkg/types"
)

// campaignView decorates the stored row with the two read-time derived
// fields the front end renders.
type campaignView struct {
	*types.CampaignWithStats

	ProgressPercent int  `json:"progressPercent"`
	Expired         bool `json:"expired"`
}

func newCampaignView(c *types.CampaignWithStats, now time.Time) campaignView {
	return campaignView{
		CampaignWithStats: c,
		ProgressPercent:   c.ProgressPercent(),
		Expired:           c.Expired(now),
	}
}

func (s *Service) handleDepartments(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, types.Departments)
}

// handlePublicCampaigns drops expired campaigns at read time. The admin
// listing does not, so expired-but-active campaigns stay visible to the
// people who can deactivate them.
func (s *Service) handlePublicCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.campaignsRepo.ActiveCampaigns(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch active campaigns")
		s.respondError(w, err)
		return
	}

	now := time.Now()
	views := make([]campaignView, 0, len(campaigns))
	for _, c := range campaigns {
		if c.Expired(now) {
			continue
		}
		views = append(views, newCampaignView(c, now))
	}

	s.respondJSON(w, http.StatusOK, views)
}
