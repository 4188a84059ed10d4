package store

import (
	"context"
	"fmt"
	"time"

	"afghanrelief/internal/utils"
	"afghanrelief/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	campaignTableName = "afghanrelief.emergency_campaigns"

	// Database-maintained view joining each campaign with its aggregated
	// current amount and donation count. Numbers read from it are
	// eventually consistent; this layer never computes them.
	campaignStatsViewName = "afghanrelief.emergency_campaigns_with_stats"
)

var (
	campaignColumns      = utils.StructTagValues(types.EmergencyCampaign{})
	campaignStatsColumns = append(append([]string{}, campaignColumns...), "current_amount_cents", "donation_count")
)

type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// CreateCampaign inserts a campaign. is_active defaults false; a
// campaign has to be made visible explicitly.
func (r *CampaignRepository) CreateCampaign(ctx context.Context, campaign *types.EmergencyCampaign) error {

	now := time.Now()
	campaign.ID = utils.NanoID()
	campaign.IsActive = false
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	campaignMap := utils.StructToMap(campaign)

	query, args, err := psql().Insert(campaignTableName).SetMap(campaignMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert campaign query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create campaign")
}

func (r *CampaignRepository) CampaignByID(ctx context.Context, campaignID string) (*types.CampaignWithStats, error) {

	query, args, err := psql().Select(campaignStatsColumns...).From(campaignStatsViewName).
		Where(sq.Eq{"id": campaignID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaign query: %w", err)
	}

	var campaign = new(types.CampaignWithStats)
	err = pgxscan.Get(ctx, r.pool, campaign, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrCampaignNotFound
	}

	return campaign, nil
}

// ActiveCampaigns returns visible campaigns, highest priority first.
// Expiry is not filtered here; the public handler drops expired rows at
// read time while the admin listing keeps them.
func (r *CampaignRepository) ActiveCampaigns(ctx context.Context) ([]*types.CampaignWithStats, error) {

	query, args, err := psql().Select(campaignStatsColumns...).From(campaignStatsViewName).
		Where(sq.Eq{"is_active": true}).
		OrderBy("priority asc", "created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate active campaigns query: %w", err)
	}

	var campaigns = make([]*types.CampaignWithStats, 0)
	err = pgxscan.Select(ctx, r.pool, &campaigns, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch active campaigns")
	}

	return campaigns, nil
}

func (r *CampaignRepository) AllCampaigns(ctx context.Context) ([]*types.CampaignWithStats, error) {

	query, args, err := psql().Select(campaignStatsColumns...).From(campaignStatsViewName).
		OrderBy("priority asc", "created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate all campaigns query: %w", err)
	}

	var campaigns = make([]*types.CampaignWithStats, 0)
	err = pgxscan.Select(ctx, r.pool, &campaigns, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch campaigns")
	}

	return campaigns, nil
}

func (r *CampaignRepository) UpdateCampaign(ctx context.Context, campaignID string, campaign *types.EmergencyCampaign) error {

	campaign.ID = campaignID
	campaign.UpdatedAt = time.Now()

	campaignMap := utils.StructToMap(campaign)
	delete(campaignMap, "created_at")

	query, args, err := psql().Update(campaignTableName).SetMap(campaignMap).Where(sq.Eq{"id": campaignID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update campaign query for campaign %s: %w", campaignID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to update campaign")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCampaignNotFound
	}

	return nil
}

// ToggleVisibility flips is_active on its own so the admin listing can
// switch campaigns without touching other fields.
func (r *CampaignRepository) ToggleVisibility(ctx context.Context, campaignID string, isActive bool) error {

	query, args, err := psql().Update(campaignTableName).
		Set("is_active", isActive).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": campaignID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate toggle visibility query for campaign %s: %w", campaignID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to toggle campaign visibility")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCampaignNotFound
	}

	return nil
}

// DeleteCampaign is a hard delete. Donations recorded against the
// campaign keep their target_id; the reference goes dangling by
// convention, not constraint.
func (r *CampaignRepository) DeleteCampaign(ctx context.Context, campaignID string) error {

	query, args, err := psql().Delete(campaignTableName).Where(sq.Eq{"id": campaignID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete campaign query for campaign %s: %w", campaignID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to delete campaign")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCampaignNotFound
	}

	return nil
}
