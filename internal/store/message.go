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

const messageTableName = "afghanrelief.messages"

var messageColumns = utils.StructTagValues(types.Message{})

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) CreateMessage(ctx context.Context, name, email, subject, body string) error {
	query, args, err := psql().
		Insert(messageTableName).
		Columns("id", "name", "email", "subject", "body", "created_at").
		Values(utils.NanoID(), name, nullable(email), subject, body, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build message insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

func (r *MessageRepository) Messages(ctx context.Context, unreadOnly bool) ([]*types.Message, error) {
	builder := psql().
		Select(messageColumns...).
		From(messageTableName).
		OrderBy("created_at DESC")

	if unreadOnly {
		builder = builder.Where(sq.Eq{"is_read": false})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build messages query: %w", err)
	}

	out := make([]*types.Message, 0)
	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}

	return out, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, messageID string) error {
	query, args, err := psql().
		Update(messageTableName).
		Set("is_read", true).
		Where(sq.Eq{"id": messageID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrMessageNotFound
	}

	return nil
}
