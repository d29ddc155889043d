package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/PactInteractive/dbchat/internal/models"
)

// MessageRepository is append-only: messages are never updated or
// deleted individually, only removed by the chat cascade.
type MessageRepository struct {
	store *Store
}

func NewMessageRepository(store *Store) *MessageRepository {
	return &MessageRepository{store: store}
}

func (r *MessageRepository) Create(ctx context.Context, kind models.MessageKind, text string, model *string, chatID string) (models.Message, error) {
	message := models.Message{
		ID:        uuid.NewString(),
		Kind:      kind,
		Text:      text,
		Model:     model,
		ChatID:    chatID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	query, args, err := r.store.sql.Insert("messages").
		Columns("id", "type", "text", "model", "chat_id", "created_at").
		Values(message.ID, string(message.Kind), message.Text, message.Model, message.ChatID, message.CreatedAt.Format(time.DateTime)).
		ToSql()
	if err != nil {
		return models.Message{}, fmt.Errorf("build message insert: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

// GetByChatID returns the chat's messages in creation order.
func (r *MessageRepository) GetByChatID(ctx context.Context, chatID string) ([]models.Message, error) {
	query, args, err := r.store.sql.Select("id", "type", "text", "model", "chat_id", "created_at").
		From("messages").
		Where(sq.Eq{"chat_id": chatID}).
		OrderBy("created_at ASC", "rowid ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build message list: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var (
			message   models.Message
			kind      string
			model     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&message.ID, &kind, &message.Text, &model, &message.ChatID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		message.Kind = models.MessageKind(kind)
		if model.Valid {
			message.Model = &model.String
		}
		message.CreatedAt = parseStoreTime(createdAt)
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// CountByChatID reports how many messages a chat holds.
func (r *MessageRepository) CountByChatID(ctx context.Context, chatID string) (int, error) {
	query, args, err := r.store.sql.Select("COUNT(*)").
		From("messages").
		Where(sq.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build message count: %w", err)
	}

	var n int
	if err := r.store.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
