package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/ladlehub/backend/internal/apperr"
	"github.com/pageza/ladlehub/backend/internal/models"
)

// SubscriptionService manages follower/following relations between users.
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionService instance.
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes follower follow following. Subscribing to yourself is
// always invalid; subscribing twice reports created=false.
func (s *SubscriptionService) Subscribe(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	if followerID == followingID {
		return false, apperr.Validation("cannot subscribe to yourself")
	}

	var target models.User
	if err := s.db.WithContext(ctx).Select("id").First(&target, "id = ?", followingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("user %s not found", followingID)
		}
		return false, err
	}

	sub := models.Subscription{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(&sub)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Unsubscribe removes the relation; removing an absent one is an error.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, followerID, followingID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("no subscription to user %s", followingID)
	}
	return nil
}

// Subscriptions lists the users follower follows, ordered by username.
func (s *SubscriptionService) Subscriptions(ctx context.Context, followerID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.following_id = users.id").
		Where("subscriptions.follower_id = ?", followerID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
