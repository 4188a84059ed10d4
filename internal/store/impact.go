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

const impactTableName = "afghanrelief.impacts"

var impactColumns = utils.StructTagValues(types.Impact{})

type ImpactRepository struct {
	pool *pgxpool.Pool
}

func NewImpactRepository(pool *pgxpool.Pool) *ImpactRepository {
	return &ImpactRepository{pool: pool}
}

// CreateImpact only inserts the impact row. Marking the linked donation
// completed is a separate write owned by the handler; the two are not
// atomic.
func (r *ImpactRepository) CreateImpact(ctx context.Context, impact *types.Impact) error {

	now := time.Now()
	impact.ID = utils.NanoID()
	impact.CreatedAt = now
	impact.UpdatedAt = now

	impactMap := utils.StructToMap(impact)

	query, args, err := psql().Insert(impactTableName).SetMap(impactMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert impact query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create impact")
}

func (r *ImpactRepository) ImpactsByDonation(ctx context.Context, donationID string) ([]*types.Impact, error) {

	query, args, err := psql().Select(impactColumns...).From(impactTableName).
		Where(sq.Eq{"donation_id": utils.NormalizeDonationID(donationID)}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate impacts by donation query: %w", err)
	}

	var impacts = make([]*types.Impact, 0)
	err = pgxscan.Select(ctx, r.pool, &impacts, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch impacts by donation")
	}

	return impacts, nil
}

func (r *ImpactRepository) ImpactsByTarget(ctx context.Context, targetID string) ([]*types.Impact, error) {

	query, args, err := psql().Select(impactColumns...).From(impactTableName).
		Where(sq.Eq{"target_id": targetID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate impacts by target query: %w", err)
	}

	var impacts = make([]*types.Impact, 0)
	err = pgxscan.Select(ctx, r.pool, &impacts, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch impacts by target")
	}

	return impacts, nil
}

func (r *ImpactRepository) DeleteImpact(ctx context.Context, impactID string) error {

	query, args, err := psql().Delete(impactTableName).Where(sq.Eq{"id": impactID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete impact query for impact %s: %w", impactID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to delete impact")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrImpactNotFound
	}

	return nil
}
