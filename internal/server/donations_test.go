package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"afghanrelief/pkg/types"
)

var donationIDPattern = regexp.MustCompile(`^AFG-[A-Z0-9]{10}$`)

func postForm(handler http.HandlerFunc, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateDonation_StartsPendingWithWellFormedID(t *testing.T) {
	donations := newDonationStoreStub()
	s := newTestService(donations, &impactStoreStub{}, &campaignStoreStub{})

	rec := postForm(s.handleCreateDonation, "/donations", url.Values{
		"donor_name":     {"Jane Doe"},
		"donor_email":    {"jane@x.com"},
		"amount":         {"50"},
		"target_id":      {"clean-water"},
		"payment_method": {"bank_transfer"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var donation types.Donation
	if err := json.NewDecoder(rec.Body).Decode(&donation); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if donation.Status != types.DonationStatusPending {
		t.Fatalf("new donation status = %s, want pending", donation.Status)
	}
	if !donationIDPattern.MatchString(donation.ID) {
		t.Fatalf("donation id %q does not match AFG-[A-Z0-9]{10}", donation.ID)
	}
	if donation.AmountCents != 5000 {
		t.Fatalf("amount = %d cents, want 5000", donation.AmountCents)
	}
	if donation.PaymentMethod != types.PaymentBankTransfer {
		t.Fatalf("payment method = %s", donation.PaymentMethod)
	}
}

func TestCreateDonation_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{
			name: "missing name",
			values: url.Values{
				"donor_email": {"jane@x.com"}, "amount": {"50"},
				"target_id": {"clean-water"}, "payment_method": {"bank_transfer"},
			},
		},
		{
			name: "zero amount",
			values: url.Values{
				"donor_name": {"Jane"}, "donor_email": {"jane@x.com"}, "amount": {"0"},
				"target_id": {"clean-water"}, "payment_method": {"bank_transfer"},
			},
		},
		{
			name: "negative amount",
			values: url.Values{
				"donor_name": {"Jane"}, "donor_email": {"jane@x.com"}, "amount": {"-5"},
				"target_id": {"clean-water"}, "payment_method": {"bank_transfer"},
			},
		},
		{
			name: "unknown payment method",
			values: url.Values{
				"donor_name": {"Jane"}, "donor_email": {"jane@x.com"}, "amount": {"50"},
				"target_id": {"clean-water"}, "payment_method": {"cheque"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			donations := newDonationStoreStub()
			s := newTestService(donations, &impactStoreStub{}, &campaignStoreStub{})

			rec := postForm(s.handleCreateDonation, "/donations", tt.values)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if len(donations.donations) != 0 {
				t.Fatal("invalid input must not insert a donation")
			}
		})
	}
}

func TestTrackDonation_IDLookupIsCaseInsensitive(t *testing.T) {
	donations := newDonationStoreStub()
	s := newTestService(donations, &impactStoreStub{}, &campaignStoreStub{})

	seeded := &types.Donation{DonorName: "Jane Doe", DonorEmail: "jane@x.com", AmountCents: 5000,
		TargetID: "clean-water", PaymentMethod: types.PaymentBankTransfer}
	if err := donations.CreateDonation(t.Context(), seeded); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{seeded.ID, strings.ToLower(seeded.ID)} {
		req := httptest.NewRequest(http.MethodGet, "/donations/track?id="+url.QueryEscape(id), nil)
		rec := httptest.NewRecorder()
		s.handleTrackDonation(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("lookup %q: expected 200, got %d", id, rec.Code)
		}

		var got []*types.Donation
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(got) != 1 || got[0].ID != seeded.ID {
			t.Fatalf("lookup %q returned %+v, want the seeded donation", id, got)
		}
	}
}

func TestTrackDonation_MalformedIDRejectedBeforeLookup(t *testing.T) {
	s := newTestService(newDonationStoreStub(), &impactStoreStub{}, &campaignStoreStub{})

	req := httptest.NewRequest(http.MethodGet, "/donations/track?id=AFG-123", nil)
	rec := httptest.NewRecorder()
	s.handleTrackDonation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Kind != types.KindInvalid {
		t.Fatalf("error kind = %s, want invalid", body.Kind)
	}
}

func TestTrackDonation_UnknownIDIsNotFound(t *testing.T) {
	s := newTestService(newDonationStoreStub(), &impactStoreStub{}, &campaignStoreStub{})

	req := httptest.NewRequest(http.MethodGet, "/donations/track?id=AFG-ZZZZZZZZZZ", nil)
	rec := httptest.NewRecorder()
	s.handleTrackDonation(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTrackDonation_NameSearchReturnsAllMatches(t *testing.T) {
	donations := newDonationStoreStub()
	s := newTestService(donations, &impactStoreStub{}, &campaignStoreStub{})

	for _, donor := range []string{"Ahmad Shah", "Ahmad Wali", "Fatima Noor"} {
		d := &types.Donation{DonorName: donor, DonorEmail: "x@x.com", AmountCents: 1000,
			TargetID: "education", PaymentMethod: types.PaymentHawala}
		if err := donations.CreateDonation(t.Context(), d); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/donations/track?name=ahmad", nil)
	rec := httptest.NewRecorder()
	s.handleTrackDonation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []*types.Donation
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("name search returned %d donations, want both Ahmads", len(got))
	}
}
