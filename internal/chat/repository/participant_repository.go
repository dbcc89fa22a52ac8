package repository

import (
	"context"
	"errors"
	"fmt"

	"health_chat_service/internal/chat/domain"
	errprocess "health_chat_service/pkg/err"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ParticipantRepository definition conversation roster lookups
type ParticipantRepository interface {
	// ConversationExists report whether the conversation id is known
	ConversationExists(ctx context.Context, conversationID string) (bool, error)
	// IsParticipant report whether the user belongs to the conversation
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	// Count number of participants in the conversation
	Count(ctx context.Context, conversationID string) (int, error)
	// List roster entries with the denormalized profile fields the player list renders
	List(ctx context.Context, conversationID string) ([]domain.Participant, error)
	// Profile name and avatar snapshot for one user
	Profile(ctx context.Context, userID string) (*domain.Participant, error)
}

type participantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository create a ParticipantRepository on postgres
func NewParticipantRepository(db *pgxpool.Pool) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) ConversationExists(ctx context.Context, conversationID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM conversations WHERE id = $1)", conversationID,
	).Scan(&exists)
	return exists, err
}

func (r *participantRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2)",
		conversationID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *participantRepository) Count(ctx context.Context, conversationID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM conversation_participants WHERE conversation_id = $1", conversationID,
	).Scan(&count)
	return count, err
}

func (r *participantRepository) List(ctx context.Context, conversationID string) ([]domain.Participant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, COALESCE(u.avatar_url, ''), u.level
		 FROM conversation_participants cp
		 JOIN users u ON u.id = cp.user_id
		 WHERE cp.conversation_id = $1
		 ORDER BY u.name`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := []domain.Participant{}
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.AvatarURL, &p.Level); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *participantRepository) Profile(ctx context.Context, userID string) (*domain.Participant, error) {
	var p domain.Participant
	err := r.db.QueryRow(ctx,
		"SELECT id, name, COALESCE(avatar_url, ''), level FROM users WHERE id = $1", userID,
	).Scan(&p.UserID, &p.Name, &p.AvatarURL, &p.Level)
	if errors.Is(err, pgx.ErrNoRows) {
		// a participant row without a user row means the roster is inconsistent
		return nil, errprocess.Set(fmt.Sprintf("user %s missing from users table", userID))
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
