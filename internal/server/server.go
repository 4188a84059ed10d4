package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"afghanrelief/internal/events"
	"afghanrelief/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// DonationStore is what the handlers need from the donation repository.
type DonationStore interface {
	CreateDonation(ctx context.Context, donation *types.Donation) error
	DonationByID(ctx context.Context, donationID string) (*types.Donation, error)
	DonationsByName(ctx context.Context, name string) ([]*types.Donation, error)
	DonationsByStatus(ctx context.Context, status types.DonationStatus) ([]*types.Donation, error)
	UpdateStatus(ctx context.Context, donationID string, status types.DonationStatus) error
	UpdateTransactionRef(ctx context.Context, donationID, ref string) error
	Stats(ctx context.Context) (*types.DonationStats, error)
	BreakdownByTarget(ctx context.Context) ([]*types.TargetBreakdown, error)
	BreakdownByMethod(ctx context.Context) ([]*types.MethodBreakdown, error)
	DailySeries(ctx context.Context, days int) ([]*types.DailyDonations, error)
}

type CampaignStore interface {
	CreateCampaign(ctx context.Context, campaign *types.EmergencyCampaign) error
	CampaignByID(ctx context.Context, campaignID string) (*types.CampaignWithStats, error)
	ActiveCampaigns(ctx context.Context) ([]*types.CampaignWithStats, error)
	AllCampaigns(ctx context.Context) ([]*types.CampaignWithStats, error)
	UpdateCampaign(ctx context.Context, campaignID string, campaign *types.EmergencyCampaign) error
	ToggleVisibility(ctx context.Context, campaignID string, isActive bool) error
	DeleteCampaign(ctx context.Context, campaignID string) error
}

type ImpactStore interface {
	CreateImpact(ctx context.Context, impact *types.Impact) error
	ImpactsByDonation(ctx context.Context, donationID string) ([]*types.Impact, error)
	ImpactsByTarget(ctx context.Context, targetID string) ([]*types.Impact, error)
	DeleteImpact(ctx context.Context, impactID string) error
}

type MessageStore interface {
	CreateMessage(ctx context.Context, name, email, subject, body string) error
	Messages(ctx context.Context, unreadOnly bool) ([]*types.Message, error)
	MarkRead(ctx context.Context, messageID string) error
}

type ResearchStore interface {
	CreateSubmission(ctx context.Context, submission *types.ResearchSubmission) error
	Submissions(ctx context.Context) ([]*types.ResearchSubmission, error)
	UpdateSubmissionStatus(ctx context.Context, submissionID string, status types.ResearchStatus) error
}

type MediaStore interface {
	UploadMedia(ctx context.Context, fileName, contentType string, body io.Reader) (string, error)
	DeleteMedia(ctx context.Context, key string) error
	ListMedia(ctx context.Context, prefix string) ([]string, error)
}

// CognitoAuth is the slice of the Cognito client the login handler uses.
type CognitoAuth interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	donationsRepo DonationStore
	campaignsRepo CampaignStore
	impactsRepo   ImpactStore
	messagesRepo  MessageStore
	researchRepo  ResearchStore

	media     MediaStore
	publisher events.Publisher

	cognitoClient CognitoAuth
	cookie        *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient CognitoAuth,
	donationsRepo DonationStore,
	campaignsRepo CampaignStore,
	impactsRepo ImpactStore,
	messagesRepo MessageStore,
	researchRepo ResearchStore,
	media MediaStore,
	publisher events.Publisher,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		donationsRepo: donationsRepo,
		campaignsRepo: campaignsRepo,
		impactsRepo:   impactsRepo,
		messagesRepo:  messagesRepo,
		researchRepo:  researchRepo,

		media:     media,
		publisher: publisher,

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/donations", s.handleCreateDonation, http.MethodPost)
	r.HandleFunc("/donations/track", s.handleTrackDonation, http.MethodGet)
	r.HandleFunc("/donations/:id/reference", s.handleUpdateTransactionRef, http.MethodPut)
	r.HandleFunc("/donations/:id/impacts", s.handleImpactsByDonation, http.MethodGet)

	r.HandleFunc("/departments", s.handleDepartments, http.MethodGet)
	r.HandleFunc("/campaigns", s.handlePublicCampaigns, http.MethodGet)
	r.HandleFunc("/impacts", s.handleImpactsByTarget, http.MethodGet)
	r.HandleFunc("/stats", s.handlePublicStats, http.MethodGet)

	r.HandleFunc("/messages", s.handleCreateMessage, http.MethodPost)
	r.HandleFunc("/research", s.handleCreateResearch, http.MethodPost)

	r.HandleFunc("/admin/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/admin/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/admin/donations", s.handleAdminDonations, http.MethodGet)
		r.HandleFunc("/admin/donations/:id/status", s.handleAdminUpdateStatus, http.MethodPut)
		r.HandleFunc("/admin/donations/breakdown", s.handleAdminBreakdown, http.MethodGet)

		r.HandleFunc("/admin/campaigns", s.handleAdminCampaigns, http.MethodGet)
		r.HandleFunc("/admin/campaigns", s.handleAdminCreateCampaign, http.MethodPost)
		r.HandleFunc("/admin/campaigns/:id", s.handleAdminUpdateCampaign, http.MethodPut)
		r.HandleFunc("/admin/campaigns/:id", s.handleAdminDeleteCampaign, http.MethodDelete)
		r.HandleFunc("/admin/campaigns/:id/visibility", s.handleAdminToggleVisibility, http.MethodPut)

		r.HandleFunc("/admin/impacts", s.handleAdminCreateImpact, http.MethodPost)
		r.HandleFunc("/admin/impacts/:id", s.handleAdminDeleteImpact, http.MethodDelete)
		r.HandleFunc("/admin/impacts/media", s.handleAdminUploadMedia, http.MethodPost)
		r.HandleFunc("/admin/impacts/media", s.handleAdminListMedia, http.MethodGet)
		r.HandleFunc("/admin/impacts/media", s.handleAdminDeleteMedia, http.MethodDelete)

		r.HandleFunc("/admin/messages", s.handleAdminMessages, http.MethodGet)
		r.HandleFunc("/admin/messages/:id/read", s.handleAdminMarkMessageRead, http.MethodPut)

		r.HandleFunc("/admin/research", s.handleAdminResearch, http.MethodGet)
		r.HandleFunc("/admin/research/:id/status", s.handleAdminUpdateResearchStatus, http.MethodPut)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
