package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"
)

type createDonationInput struct {
	DonorName     string  `json:"donorName" form:"donor_name"`
	DonorEmail    string  `json:"donorEmail" form:"donor_email"`
	Amount        float64 `json:"amount" form:"amount"`
	TargetID      string  `json:"targetId" form:"target_id"`
	PaymentMethod string  `json:"paymentMethod" form:"payment_method"`
	Message       string  `json:"message" form:"message"`
}

// decodeInput accepts either a JSON body or a form-encoded one; the
// public site posts forms, the SPA posts JSON.
func decodeInput(r *http.Request, dst any) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(dst)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	return decoder.Decode(dst, r.PostForm)
}

func (s *Service) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	var input createDonationInput
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid donation payload")
		return
	}

	input.DonorName = strings.TrimSpace(input.DonorName)
	input.DonorEmail = strings.TrimSpace(input.DonorEmail)
	input.TargetID = strings.TrimSpace(input.TargetID)

	if !required(input.DonorName) || !required(input.DonorEmail) || !required(input.TargetID) {
		s.invalid(w, "name, email and target are required")
		return
	}

	if input.Amount <= 0 {
		s.invalid(w, "amount must be positive")
		return
	}

	method := types.PaymentMethod(input.PaymentMethod)
	if !method.Valid() {
		s.invalid(w, "unknown payment method")
		return
	}

	donation := &types.Donation{
		DonorName:     input.DonorName,
		DonorEmail:    input.DonorEmail,
		AmountCents:   int64(math.Round(input.Amount * 100)),
		TargetID:      input.TargetID,
		PaymentMethod: method,
	}
	if msg := strings.TrimSpace(input.Message); msg != "" {
		donation.Message = utils.StringPtr(msg)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.donationsRepo.CreateDonation(ctx, donation); err != nil {
		s.logger.WithError(err).Error("failed to create donation")
		s.respondError(w, err)
		return
	}

	s.publisher.DonationCreated(ctx, donation.ID)

	s.respondJSON(w, http.StatusCreated, donation)
}

// handleTrackDonation serves both tracking flows: an exact identifier
// lookup, or a donor-name search when no identifier is known. The name
// search returns every match; callers decide what to show.
func (s *Service) handleTrackDonation(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	switch {
	case id != "":
		if !utils.ValidDonationID(id) {
			s.invalid(w, "malformed donation id")
			return
		}

		donation, err := s.donationsRepo.DonationByID(r.Context(), id)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, []*types.Donation{donation})

	case name != "":
		donations, err := s.donationsRepo.DonationsByName(r.Context(), name)
		if err != nil {
			s.logger.WithError(err).Error("failed to search donations by name")
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, donations)

	default:
		s.invalid(w, "provide an id or a name")
	}
}

func (s *Service) handleUpdateTransactionRef(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !utils.ValidDonationID(id) {
		s.invalid(w, "malformed donation id")
		return
	}

	var input struct {
		TransactionRef string `json:"transactionRef" form:"transaction_ref"`
	}
	if err := decodeInput(r, &input); err != nil {
		s.invalid(w, "invalid payload")
		return
	}

	ref := strings.TrimSpace(input.TransactionRef)
	if !required(ref) {
		s.invalid(w, "transaction reference is required")
		return
	}

	if err := s.donationsRepo.UpdateTransactionRef(r.Context(), id, ref); err != nil {
		s.logger.WithError(err).Error("failed to update transaction reference")
		s.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handlePublicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.donationsRepo.Stats(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donation stats")
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, stats)
}
