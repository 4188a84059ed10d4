package server

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"

	"github.com/sirupsen/logrus"
)

// In-memory stand-ins for the repositories. They mirror the behavior
// the real stores delegate to Postgres: identifier assignment, canonical
// uppercase IDs, case-insensitive lookups, newest-first ordering.

type donationStoreStub struct {
	DonationStore

	donations map[string]*types.Donation

	updateStatusErr error
	statusCalls     int
}

func newDonationStoreStub() *donationStoreStub {
	return &donationStoreStub{donations: make(map[string]*types.Donation)}
}

func (s *donationStoreStub) CreateDonation(ctx context.Context, donation *types.Donation) error {
	now := time.Now()
	donation.ID = utils.DonationID()
	donation.Status = types.DonationStatusPending
	donation.CreatedAt = now
	donation.UpdatedAt = now

	clone := *donation
	s.donations[donation.ID] = &clone
	return nil
}

func (s *donationStoreStub) DonationByID(ctx context.Context, donationID string) (*types.Donation, error) {
	donation, ok := s.donations[utils.NormalizeDonationID(donationID)]
	if !ok {
		return nil, types.ErrDonationNotFound
	}

	clone := *donation
	return &clone, nil
}

func (s *donationStoreStub) DonationsByName(ctx context.Context, name string) ([]*types.Donation, error) {
	out := make([]*types.Donation, 0)
	for _, donation := range s.donations {
		if strings.Contains(strings.ToLower(donation.DonorName), strings.ToLower(name)) {
			clone := *donation
			out = append(out, &clone)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *donationStoreStub) DonationsByStatus(ctx context.Context, status types.DonationStatus) ([]*types.Donation, error) {
	out := make([]*types.Donation, 0)
	for _, donation := range s.donations {
		if status == "" || donation.Status == status {
			clone := *donation
			out = append(out, &clone)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *donationStoreStub) UpdateStatus(ctx context.Context, donationID string, status types.DonationStatus) error {
	s.statusCalls++
	if s.updateStatusErr != nil {
		return s.updateStatusErr
	}

	donation, ok := s.donations[utils.NormalizeDonationID(donationID)]
	if !ok {
		return types.ErrDonationNotFound
	}

	donation.Status = status
	donation.UpdatedAt = time.Now()
	return nil
}

func (s *donationStoreStub) UpdateTransactionRef(ctx context.Context, donationID, ref string) error {
	donation, ok := s.donations[utils.NormalizeDonationID(donationID)]
	if !ok {
		return types.ErrDonationNotFound
	}

	donation.TransactionRef = utils.StringPtr(ref)
	donation.UpdatedAt = time.Now()
	return nil
}

type impactStoreStub struct {
	ImpactStore

	impacts []*types.Impact
}

func (s *impactStoreStub) CreateImpact(ctx context.Context, impact *types.Impact) error {
	now := time.Now()
	impact.ID = utils.NanoID()
	impact.CreatedAt = now
	impact.UpdatedAt = now

	clone := *impact
	s.impacts = append(s.impacts, &clone)
	return nil
}

func (s *impactStoreStub) ImpactsByDonation(ctx context.Context, donationID string) ([]*types.Impact, error) {
	out := make([]*types.Impact, 0)
	for _, impact := range s.impacts {
		if impact.DonationID != nil && *impact.DonationID == utils.NormalizeDonationID(donationID) {
			out = append(out, impact)
		}
	}
	return out, nil
}

type campaignStoreStub struct {
	CampaignStore

	active []*types.CampaignWithStats
}

func (s *campaignStoreStub) ActiveCampaigns(ctx context.Context) ([]*types.CampaignWithStats, error) {
	return s.active, nil
}

func (s *campaignStoreStub) AllCampaigns(ctx context.Context) ([]*types.CampaignWithStats, error) {
	return s.active, nil
}

type mediaStoreStub struct {
	keys    []string
	deleted []string
}

func (s *mediaStoreStub) UploadMedia(ctx context.Context, fileName, contentType string, body io.Reader) (string, error) {
	return "https://media.test/" + fileName, nil
}

func (s *mediaStoreStub) DeleteMedia(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *mediaStoreStub) ListMedia(ctx context.Context, prefix string) ([]string, error) {
	return s.keys, nil
}

type noopPublisher struct{}

func (noopPublisher) DonationCreated(ctx context.Context, donationID string) {}
func (noopPublisher) DonationStatusChanged(ctx context.Context, donationID string, oldStatus, newStatus types.DonationStatus) {
}
func (noopPublisher) Close() {}

type statusEvent struct {
	donationID string
	oldStatus  types.DonationStatus
	newStatus  types.DonationStatus
}

// recordingPublisher captures status-change events so tests can assert
// what went onto the feed.
type recordingPublisher struct {
	noopPublisher

	statusEvents []statusEvent
}

func (p *recordingPublisher) DonationStatusChanged(ctx context.Context, donationID string, oldStatus, newStatus types.DonationStatus) {
	p.statusEvents = append(p.statusEvents, statusEvent{donationID: donationID, oldStatus: oldStatus, newStatus: newStatus})
}

func newTestService(donations *donationStoreStub, impacts *impactStoreStub, campaigns *campaignStoreStub) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Service{
		logger:        logger,
		config:        &types.Config{},
		donationsRepo: donations,
		impactsRepo:   impacts,
		campaignsRepo: campaigns,
		publisher:     noopPublisher{},
	}
}
