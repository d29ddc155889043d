package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/PactInteractive/dbchat/internal/models"
)

type ChatRepository struct {
	store *Store
}

func NewChatRepository(store *Store) *ChatRepository {
	return &ChatRepository{store: store}
}

// selectTitle falls back to the text of the chat's first message when
// no title was ever set explicitly.
const selectTitle = `
CASE
  WHEN chat.title <> '' THEN chat.title
  ELSE (
    SELECT message.text
    FROM messages message
    WHERE message.chat_id = chat.id
    ORDER BY message.created_at ASC, message.rowid ASC
    LIMIT 1
  )
END AS title
`

func (r *ChatRepository) Create(ctx context.Context, id, title string) (models.Chat, error) {
	// The timestamp is written explicitly, in the store's own format,
	// so the returned chat matches what later reads will scan.
	chat := models.Chat{ID: id, Title: title, CreatedAt: time.Now().UTC().Truncate(time.Second)}

	query, args, err := r.store.sql.Insert("chats").
		Columns("id", "title", "created_at").
		Values(chat.ID, chat.Title, chat.CreatedAt.Format(time.DateTime)).
		ToSql()
	if err != nil {
		return models.Chat{}, fmt.Errorf("build chat insert: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return models.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

func (r *ChatRepository) GetAll(ctx context.Context) ([]models.Chat, error) {
	query, args, err := r.store.sql.Select("chat.id", selectTitle, "chat.created_at").
		From("chats chat").
		OrderBy("chat.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build chat list: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		chat, err := scanChat(rows.Scan)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (models.Chat, error) {
	query, args, err := r.store.sql.Select("chat.id", selectTitle, "chat.created_at").
		From("chats chat").
		Where(sq.Eq{"chat.id": id}).
		ToSql()
	if err != nil {
		return models.Chat{}, fmt.Errorf("build chat get: %w", err)
	}

	chat, err := scanChat(r.store.db.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrNotFound
	}
	return chat, err
}

// Delete removes the chat; the messages foreign key cascades.
func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.store.sql.Delete("chats").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build chat delete: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	return nil
}

func scanChat(scan func(...any) error) (models.Chat, error) {
	var (
		chat      models.Chat
		title     sql.NullString
		createdAt string
	)
	if err := scan(&chat.ID, &title, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Chat{}, err
		}
		return models.Chat{}, fmt.Errorf("scan chat: %w", err)
	}
	chat.Title = title.String
	chat.CreatedAt = parseStoreTime(createdAt)
	return chat, nil
}
