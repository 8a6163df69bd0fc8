package notification

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Unread counts are polled every 30 seconds by every signed-in client,
// so they are cached for the same window.
const unreadCountTTL = 30 * time.Second

const keyPrefixUnread = "notif:unread:"

// Service owns notification delivery and read state
type Service struct {
	repo  Repository
	redis *redis.Client
}

// NewService creates notification service. The redis client is
// optional: without it every count hits the database.
func NewService(repo Repository, redisClient *redis.Client) *Service {
	return &Service{repo: repo, redis: redisClient}
}

// Create stores a notification. Failures are logged, not returned:
// a lost notification must never roll back the action that caused it.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, userType string, typ Type, message string) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		UserType:  userType,
		Type:      typ,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create notification")
		return
	}

	s.invalidateUnreadCount(ctx, userID, userType)
}

// List returns a page of the user's notifications plus the total.
func (s *Service) List(ctx context.Context, userID uuid.UUID, userType string, page, limit int) ([]Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, userType, limit, (page-1)*limit)
}

// UnreadCount returns the unread badge count, served from cache when
// fresh enough.
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID, userType string) (int, error) {
	key := unreadKey(userID, userType)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.repo.CountUnread(ctx, userID, userType)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, count, unreadCountTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to cache unread count")
		}
	}

	return count, nil
}

// MarkAsRead marks one notification read. The read state only changes
// after the database confirms it; repeated calls succeed.
func (s *Service) MarkAsRead(ctx context.Context, userID uuid.UUID, userType string, id uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, userID, id); err != nil {
		return err
	}
	s.invalidateUnreadCount(ctx, userID, userType)
	return nil
}

func (s *Service) invalidateUnreadCount(ctx context.Context, userID uuid.UUID, userType string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, unreadKey(userID, userType)).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate unread count cache")
	}
}

func unreadKey(userID uuid.UUID, userType string) string {
	return keyPrefixUnread + userType + ":" + userID.String()
}
