package server

import (
	"net/http"
	"strings"

	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"

	"github.com/sirupsen/logrus"
)

const maxMediaUploadBytes = 25 << 20

// handleAdminCreateImpact inserts the impact and, when a donation is
// referenced, marks that donation completed with a second, independent
// write. The two writes are not atomic: if the second fails the impact
// stays and the caller gets a partial-failure error instead of a
// rollback.
func (s *Service) handleAdminCreateImpact(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title        string   `json:"title" form:"title"`
		Description  string   `json:"description" form:"description"`
		CostCents    int64    `json:"costCents" form:"cost_cents"`
		TargetID     string   `json:"targetId" form:"target_id"`
		MediaURLs    []string `json:"mediaUrls" form:"media_urls"`
		DonationID   string   `json:"donationId" form:"donation_id"`
		AdminComment string   `json:"adminComment" form:"admin_comment"`
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid impact payload")
		return
	}

	title := strings.TrimSpace(input.Title)
	target := strings.TrimSpace(input.TargetID)

	if !required(title) || !required(target) {
		s.invalid(w, "title and target are required")
		return
	}

	donationID := strings.TrimSpace(input.DonationID)
	var linked *types.Donation
	if donationID != "" {
		if !utils.ValidDonationID(donationID) {
			s.invalid(w, "malformed donation id")
			return
		}
		donationID = utils.NormalizeDonationID(donationID)

		// Fail early if the reference points nowhere.
		var err error
		linked, err = s.donationsRepo.DonationByID(r.Context(), donationID)
		if err != nil {
			s.respondError(w, err)
			return
		}
	}

	impact := &types.Impact{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CostCents:   input.CostCents,
		TargetID:    target,
		MediaURLs:   input.MediaURLs,
	}
	if impact.MediaURLs == nil {
		impact.MediaURLs = []string{}
	}
	if donationID != "" {
		impact.DonationID = utils.StringPtr(donationID)
	}
	if comment := strings.TrimSpace(input.AdminComment); comment != "" {
		impact.AdminComment = utils.StringPtr(comment)
	}

	if err := s.impactsRepo.CreateImpact(r.Context(), impact); err != nil {
		s.logger.WithError(err).Error("failed to create impact")
		s.respondError(w, err)
		return
	}

	if donationID != "" {
		if err := s.donationsRepo.UpdateStatus(r.Context(), donationID, types.DonationStatusCompleted); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"impact_id":   impact.ID,
				"donation_id": donationID,
			}).Error("impact created but donation was not marked completed")
			s.respondError(w, types.WrapError(types.KindPartial, "impact created but donation was not marked completed", err))
			return
		}

		s.publisher.DonationStatusChanged(r.Context(), donationID, linked.Status, types.DonationStatusCompleted)
	}

	s.respondJSON(w, http.StatusCreated, impact)
}

func (s *Service) handleAdminDeleteImpact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.impactsRepo.DeleteImpact(r.Context(), id); err != nil {
		s.logger.WithError(err).Error("failed to delete impact")
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleAdminUploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMediaUploadBytes); err != nil {
		s.invalid(w, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		s.invalid(w, "a media file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := s.media.UploadMedia(r.Context(), header.Filename, contentType, file)
	if err != nil {
		s.logger.WithError(err).Error("failed to upload impact media")
		s.respondError(w, types.WrapError(types.KindUnavailable, "media upload failed", err))
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Service) handleAdminListMedia(w http.ResponseWriter, r *http.Request) {
	prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))
	if prefix == "" {
		prefix = "impacts/"
	}

	keys, err := s.media.ListMedia(r.Context(), prefix)
	if err != nil {
		s.logger.WithError(err).Error("failed to list impact media")
		s.respondError(w, types.WrapError(types.KindUnavailable, "media listing failed", err))
		return
	}

	s.respondJSON(w, http.StatusOK, map[string][]string{"keys": keys})
}

func (s *Service) handleAdminDeleteMedia(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if !required(key) {
		s.invalid(w, "an object key is required")
		return
	}

	if err := s.media.DeleteMedia(r.Context(), key); err != nil {
		s.logger.WithError(err).Error("failed to delete impact media")
		s.respondError(w, types.WrapError(types.KindUnavailable, "media delete failed", err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
