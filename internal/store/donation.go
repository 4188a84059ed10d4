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

const donationTableName = "afghanrelief.donations"

var donationColumns = utils.StructTagValues(types.Donation{})

// Statuses excluded from every public aggregate.
var excludedStatuses = []types.DonationStatus{types.DonationStatusFailed, types.DonationStatusCancelled}

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

// CreateDonation assigns the public identifier and timestamps, then
// inserts. The record always starts out pending.
func (r *DonationRepository) CreateDonation(ctx context.Context, donation *types.Donation) error {

	now := time.Now()
	donation.ID = utils.DonationID()
	donation.Status = types.DonationStatusPending
	donation.CreatedAt = now
	donation.UpdatedAt = now

	donationMap := utils.StructToMap(donation)

	query, args, err := psql().Insert(donationTableName).SetMap(donationMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert donation query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create donation")
}

// DonationByID is a case-insensitive exact lookup; identifiers are
// stored uppercase.
func (r *DonationRepository) DonationByID(ctx context.Context, donationID string) (*types.Donation, error) {

	query, args, err := psql().Select(donationColumns...).From(donationTableName).
		Where(sq.Eq{"id": utils.NormalizeDonationID(donationID)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation query: %w", err)
	}

	var donation = new(types.Donation)
	err = pgxscan.Get(ctx, r.pool, donation, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrDonationNotFound
	}

	return donation, nil
}

// DonationsByName is the track-without-an-ID flow: case-insensitive
// substring match on the donor name, newest first. Every match is
// returned; disambiguation is the caller's problem.
func (r *DonationRepository) DonationsByName(ctx context.Context, name string) ([]*types.Donation, error) {

	query, args, err := psql().Select(donationColumns...).From(donationTableName).
		Where(sq.ILike{"donor_name": "%" + name + "%"}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations by name query: %w", err)
	}

	var donations = make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch donations by name")
	}

	return donations, nil
}

func (r *DonationRepository) DonationsByStatus(ctx context.Context, status types.DonationStatus) ([]*types.Donation, error) {

	builder := psql().Select(donationColumns...).From(donationTableName).
		OrderBy("created_at desc")

	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate donations by status query: %w", err)
	}

	var donations = make([]*types.Donation, 0)
	err = pgxscan.Select(ctx, r.pool, &donations, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch donations")
	}

	return donations, nil
}

// UpdateStatus overwrites status and updated_at unconditionally. The
// pending -> terminal convention lives on the type, not here.
func (r *DonationRepository) UpdateStatus(ctx context.Context, donationID string, status types.DonationStatus) error {

	query, args, err := psql().Update(donationTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": utils.NormalizeDonationID(donationID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update status query for donation %s: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to update donation status")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}

// UpdateTransactionRef attaches the donor-supplied proof of payment.
// Status is untouched.
func (r *DonationRepository) UpdateTransactionRef(ctx context.Context, donationID, ref string) error {

	query, args, err := psql().Update(donationTableName).
		Set("transaction_ref", nullable(ref)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": utils.NormalizeDonationID(donationID)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update reference query for donation %s: %w", donationID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to update transaction reference")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrDonationNotFound
	}

	return nil
}

func (r *DonationRepository) Stats(ctx context.Context) (*types.DonationStats, error) {

	query, args, err := psql().
		Select(
			"count(*) as total_count",
			"coalesce(sum(amount_cents), 0) as total_amount_cents",
			"count(*) filter (where created_at >= date_trunc('month', now())) as month_count",
		).
		From(donationTableName).
		Where(sq.NotEq{"status": excludedStatuses}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate stats query: %w", err)
	}

	var stats types.DonationStats
	err = pgxscan.Get(ctx, r.pool, &stats, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch donation stats")
	}

	return &stats, nil
}

func (r *DonationRepository) BreakdownByTarget(ctx context.Context) ([]*types.TargetBreakdown, error) {

	query, args, err := psql().
		Select("target_id", "count(*) as count", "coalesce(sum(amount_cents), 0) as amount_cents").
		From(donationTableName).
		Where(sq.NotEq{"status": excludedStatuses}).
		GroupBy("target_id").
		OrderBy("amount_cents desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate target breakdown query: %w", err)
	}

	var rows = make([]*types.TargetBreakdown, 0)
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch target breakdown")
	}

	return rows, nil
}

func (r *DonationRepository) BreakdownByMethod(ctx context.Context) ([]*types.MethodBreakdown, error) {

	query, args, err := psql().
		Select("payment_method", "count(*) as count", "coalesce(sum(amount_cents), 0) as amount_cents").
		From(donationTableName).
		Where(sq.NotEq{"status": excludedStatuses}).
		GroupBy("payment_method").
		OrderBy("count desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate method breakdown query: %w", err)
	}

	var rows = make([]*types.MethodBreakdown, 0)
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch method breakdown")
	}

	return rows, nil
}

// DailySeries returns one row per day over the trailing window, for the
// dashboard chart.
func (r *DonationRepository) DailySeries(ctx context.Context, days int) ([]*types.DailyDonations, error) {

	query, args, err := psql().
		Select("date_trunc('day', created_at) as day", "count(*) as count", "coalesce(sum(amount_cents), 0) as amount_cents").
		From(donationTableName).
		Where(sq.NotEq{"status": excludedStatuses}).
		Where("created_at >= now() - make_interval(days => ?)", days).
		GroupBy("day").
		OrderBy("day asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate daily series query: %w", err)
	}

	var rows = make([]*types.DailyDonations, 0)
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch daily series")
	}

	return rows, nil
}
