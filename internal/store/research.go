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

const researchTableName = "afghanrelief.research_submissions"

var researchColumns = utils.StructTagValues(types.ResearchSubmission{})

type ResearchRepository struct {
	pool *pgxpool.Pool
}

func NewResearchRepository(pool *pgxpool.Pool) *ResearchRepository {
	return &ResearchRepository{pool: pool}
}

func (r *ResearchRepository) CreateSubmission(ctx context.Context, submission *types.ResearchSubmission) error {

	now := time.Now()
	submission.ID = utils.NanoID()
	submission.Status = types.ResearchStatusReceived
	submission.CreatedAt = now
	submission.UpdatedAt = now

	submissionMap := utils.StructToMap(submission)

	query, args, err := psql().Insert(researchTableName).SetMap(submissionMap).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert research submission query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create research submission")
}

func (r *ResearchRepository) Submissions(ctx context.Context) ([]*types.ResearchSubmission, error) {

	query, args, err := psql().Select(researchColumns...).From(researchTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate research submissions query: %w", err)
	}

	var submissions = make([]*types.ResearchSubmission, 0)
	err = pgxscan.Select(ctx, r.pool, &submissions, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch research submissions")
	}

	return submissions, nil
}

func (r *ResearchRepository) UpdateSubmissionStatus(ctx context.Context, submissionID string, status types.ResearchStatus) error {

	query, args, err := psql().Update(researchTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": submissionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update research status query for submission %s: %w", submissionID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return utils.ErrorWrapOrNil(err, "failed to update research submission status")
	}

	if tag.RowsAffected() == 0 {
		return types.ErrResearchNotFound
	}

	return nil
}
