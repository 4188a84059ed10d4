package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"

	"github.com/alexedwards/flow"
)

func seedPending(t *testing.T, donations *donationStoreStub) *types.Donation {
	t.Helper()

	donation := &types.Donation{DonorName: "Jane Doe", DonorEmail: "jane@x.com", AmountCents: 5000,
		TargetID: "clean-water", PaymentMethod: types.PaymentBankTransfer}
	if err := donations.CreateDonation(t.Context(), donation); err != nil {
		t.Fatal(err)
	}
	return donation
}

func statusMux(s *Service) *flow.Mux {
	mux := flow.New()
	mux.HandleFunc("/admin/donations/:id/status", s.handleAdminUpdateStatus, http.MethodPut)
	return mux
}

func putStatus(mux *flow.Mux, donationID string, status types.DonationStatus) *httptest.ResponseRecorder {
	body := url.Values{"status": {string(status)}}
	req := httptest.NewRequest(http.MethodPut, "/admin/donations/"+donationID+"/status", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAdminUpdateStatus_SetsStatusAndBumpsTimestamp(t *testing.T) {
	for _, target := range []types.DonationStatus{
		types.DonationStatusCompleted,
		types.DonationStatusFailed,
		types.DonationStatusCancelled,
	} {
		t.Run(string(target), func(t *testing.T) {
			donations := newDonationStoreStub()
			s := newTestService(donations, &impactStoreStub{}, &campaignStoreStub{})
			donation := seedPending(t, donations)
			before := donation.UpdatedAt

			rec := putStatus(statusMux(s), donation.ID, target)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var got types.Donation
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Status != target {
				t.Fatalf("status = %s, want %s", got.Status, target)
			}
			if got.UpdatedAt.Before(before) {
				t.Fatalf("updated_at went backwards: %s -> %s", before, got.UpdatedAt)
			}
		})
	}
}

func TestAdminUpdateStatus_Idempotent(t *testing.T) {
	donations := newDonationStoreStub()
	s := newTestService(donations, &impactStoreStub{}, &campaignStoreStub{})
	donation := seedPending(t, donations)
	mux := statusMux(s)

	first := putStatus(mux, donation.ID, types.DonationStatusCompleted)
	if first.Code != http.StatusOK {
		t.Fatalf("first update: expected 200, got %d", first.Code)
	}

	// A redundant transition is not an error; the record reads the same.
	second := putStatus(mux, donation.ID, types.DonationStatusCompleted)
	if second.Code != http.StatusOK {
		t.Fatalf("second update: expected 200, got %d", second.Code)
	}

	var got types.Donation
	if err := json.NewDecoder(second.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != types.DonationStatusCompleted {
		t.Fatalf("status after redundant update = %s", got.Status)
	}
}

func TestAdminUpdateStatus_UnknownStatusRejected(t *testing.T) {
	donations := newDonationStoreStub()
	s := newTestService(donations, &impactStoreStub{}, &campaignStoreStub{})
	donation := seedPending(t, donations)

	rec := putStatus(statusMux(s), donation.ID, types.DonationStatus("refunded"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if donations.statusCalls != 0 {
		t.Fatal("unknown status must not reach the store")
	}
}

func postImpact(s *Service, body map[string]any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/admin/impacts", strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handleAdminCreateImpact(rec, req)
	return rec
}

func TestCreateImpact_MarksLinkedDonationCompleted(t *testing.T) {
	donations := newDonationStoreStub()
	impacts := &impactStoreStub{}
	s := newTestService(donations, impacts, &campaignStoreStub{})
	donation := seedPending(t, donations)

	rec := postImpact(s, map[string]any{
		"title":      "Well drilled in Badakhshan",
		"targetId":   "clean-water",
		"costCents":  250000,
		"donationId": strings.ToLower(donation.ID),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := donations.DonationByID(t.Context(), donation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != types.DonationStatusCompleted {
		t.Fatalf("linked donation status = %s, want completed", updated.Status)
	}

	if len(impacts.impacts) != 1 {
		t.Fatalf("expected one impact, got %d", len(impacts.impacts))
	}
	if got := impacts.impacts[0].DonationID; got == nil || *got != donation.ID {
		t.Fatalf("impact donation reference = %v, want %s", got, donation.ID)
	}
}

func TestCreateImpact_SecondWriteFailureLeavesImpact(t *testing.T) {
	donations := newDonationStoreStub()
	impacts := &impactStoreStub{}
	s := newTestService(donations, impacts, &campaignStoreStub{})
	donation := seedPending(t, donations)

	donations.updateStatusErr = errors.New("connection reset")

	rec := postImpact(s, map[string]any{
		"title":      "School kits distributed",
		"targetId":   "education",
		"donationId": donation.ID,
	})

	// The two writes are not atomic: the impact insert stuck, the
	// completion write did not, and the caller hears about it.
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Kind != types.KindPartial {
		t.Fatalf("error kind = %s, want partial_failure", body.Kind)
	}

	if len(impacts.impacts) != 1 {
		t.Fatal("impact record must survive the failed completion write")
	}

	donations.updateStatusErr = nil
	got, err := donations.DonationByID(t.Context(), donation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != types.DonationStatusPending {
		t.Fatalf("donation status = %s, want still pending", got.Status)
	}
}

func TestCreateImpact_UnknownDonationRejected(t *testing.T) {
	impacts := &impactStoreStub{}
	s := newTestService(newDonationStoreStub(), impacts, &campaignStoreStub{})

	rec := postImpact(s, map[string]any{
		"title":      "Well drilled",
		"targetId":   "clean-water",
		"donationId": "AFG-ZZZZZZZZZZ",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(impacts.impacts) != 0 {
		t.Fatal("impact must not be created against a missing donation")
	}
}

func TestDonationLifecycleEndToEnd(t *testing.T) {
	donations := newDonationStoreStub()
	impacts := &impactStoreStub{}
	s := newTestService(donations, impacts, &campaignStoreStub{})

	rec := postForm(s.handleCreateDonation, "/donations", url.Values{
		"donor_name":     {"Jane Doe"},
		"donor_email":    {"jane@x.com"},
		"amount":         {"50"},
		"target_id":      {"clean-water"},
		"payment_method": {"bank_transfer"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}

	var donation types.Donation
	if err := json.NewDecoder(rec.Body).Decode(&donation); err != nil {
		t.Fatal(err)
	}
	if donation.Status != types.DonationStatusPending || !donationIDPattern.MatchString(donation.ID) {
		t.Fatalf("unexpected created donation: %+v", donation)
	}

	if rec := putStatus(statusMux(s), donation.ID, types.DonationStatusCompleted); rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", rec.Code)
	}

	// Linking an impact re-completes an already completed donation;
	// the redundant write is idempotent.
	if rec := postImpact(s, map[string]any{
		"title":      "Well drilled",
		"targetId":   "clean-water",
		"donationId": donation.ID,
	}); rec.Code != http.StatusCreated {
		t.Fatalf("link impact: expected 201, got %d", rec.Code)
	}

	final, err := donations.DonationByID(t.Context(), donation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.Status != types.DonationStatusCompleted {
		t.Fatalf("final status = %s", final.Status)
	}

	linked, err := impacts.ImpactsByDonation(t.Context(), donation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(linked) != 1 {
		t.Fatalf("expected the impact to list the donation, got %d", len(linked))
	}
}

func TestCreateImpact_EventCarriesPriorStatus(t *testing.T) {
	donations := newDonationStoreStub()
	impacts := &impactStoreStub{}
	s := newTestService(donations, impacts, &campaignStoreStub{})
	feed := &recordingPublisher{}
	s.publisher = feed
	donation := seedPending(t, donations)

	if rec := putStatus(statusMux(s), donation.ID, types.DonationStatusCompleted); rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", rec.Code)
	}

	if rec := postImpact(s, map[string]any{
		"title":      "Well drilled",
		"targetId":   "clean-water",
		"donationId": donation.ID,
	}); rec.Code != http.StatusCreated {
		t.Fatalf("link impact: expected 201, got %d", rec.Code)
	}

	if len(feed.statusEvents) != 2 {
		t.Fatalf("expected 2 status events, got %d", len(feed.statusEvents))
	}

	first, second := feed.statusEvents[0], feed.statusEvents[1]
	if first.oldStatus != types.DonationStatusPending || first.newStatus != types.DonationStatusCompleted {
		t.Fatalf("first event = %s -> %s", first.oldStatus, first.newStatus)
	}

	// The donation was already completed when the impact linked it; the
	// feed must carry that real prior status, not assume pending.
	if second.oldStatus != types.DonationStatusCompleted || second.newStatus != types.DonationStatusCompleted {
		t.Fatalf("second event = %s -> %s, want completed -> completed", second.oldStatus, second.newStatus)
	}
}

func TestImpactsByDonation_ListsLinkedImpacts(t *testing.T) {
	donations := newDonationStoreStub()
	impacts := &impactStoreStub{}
	s := newTestService(donations, impacts, &campaignStoreStub{})
	donation := seedPending(t, donations)

	impact := &types.Impact{Title: "Well drilled", TargetID: "clean-water", DonationID: utils.StringPtr(donation.ID)}
	if err := impacts.CreateImpact(t.Context(), impact); err != nil {
		t.Fatal(err)
	}

	mux := flow.New()
	mux.HandleFunc("/donations/:id/impacts", s.handleImpactsByDonation, http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/donations/"+strings.ToLower(donation.ID)+"/impacts", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got []*types.Impact
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != impact.ID {
		t.Fatalf("impacts for %s = %+v, want the linked impact", donation.ID, got)
	}
}

func TestAdminDeleteMedia(t *testing.T) {
	media := &mediaStoreStub{}
	s := newTestService(newDonationStoreStub(), &impactStoreStub{}, &campaignStoreStub{})
	s.media = media

	// No key, no delete.
	rec := httptest.NewRecorder()
	s.handleAdminDeleteMedia(rec, httptest.NewRequest(http.MethodDelete, "/admin/impacts/media", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a key, got %d", rec.Code)
	}
	if len(media.deleted) != 0 {
		t.Fatal("delete must not reach storage without a key")
	}

	rec = httptest.NewRecorder()
	s.handleAdminDeleteMedia(rec, httptest.NewRequest(http.MethodDelete, "/admin/impacts/media?key="+url.QueryEscape("impacts/abc-1.jpg"), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(media.deleted) != 1 || media.deleted[0] != "impacts/abc-1.jpg" {
		t.Fatalf("deleted keys = %v", media.deleted)
	}
}

func TestAdminListMedia(t *testing.T) {
	media := &mediaStoreStub{keys: []string{"impacts/a.jpg", "impacts/b.mp4"}}
	s := newTestService(newDonationStoreStub(), &impactStoreStub{}, &campaignStoreStub{})
	s.media = media

	rec := httptest.NewRecorder()
	s.handleAdminListMedia(rec, httptest.NewRequest(http.MethodGet, "/admin/impacts/media", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got["keys"]) != 2 {
		t.Fatalf("listed keys = %v", got["keys"])
	}
}

func TestPublicCampaigns_DropsExpiredAtReadTime(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	campaigns := &campaignStoreStub{active: []*types.CampaignWithStats{
		{EmergencyCampaign: types.EmergencyCampaign{ID: "live", NameEN: "Earthquake Response", IsActive: true, GoalCents: 100}},
		{EmergencyCampaign: types.EmergencyCampaign{ID: "stale", NameEN: "Old Appeal", IsActive: true, GoalCents: 100, ExpiresAt: &past}},
	}}
	s := newTestService(newDonationStoreStub(), &impactStoreStub{}, campaigns)

	req := httptest.NewRequest(http.MethodGet, "/campaigns", nil)
	rec := httptest.NewRecorder()
	s.handlePublicCampaigns(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []campaignView
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "live" {
		t.Fatalf("public listing = %+v, want only the unexpired campaign", got)
	}

	// The admin listing keeps the expired one so it can be turned off.
	rec = httptest.NewRecorder()
	s.handleAdminCampaigns(rec, httptest.NewRequest(http.MethodGet, "/admin/campaigns", nil))

	var adminGot []campaignView
	if err := json.NewDecoder(rec.Body).Decode(&adminGot); err != nil {
		t.Fatal(err)
	}
	if len(adminGot) != 2 {
		t.Fatalf("admin listing = %d campaigns, want 2", len(adminGot))
	}
}
