package persistence

import (
	"context"
	"time"

	"github.com/courseplatform/backend/internal/domain/community"
	"gorm.io/gorm"
)

// GormCommunityRepository reads event, post and message counts
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewGormCommunityRepository creates a new GormCommunityRepository
func NewGormCommunityRepository(db *gorm.DB) *GormCommunityRepository {
	return &GormCommunityRepository{db: db}
}

// Counts returns upcoming events, published posts and unread messages
func (r *GormCommunityRepository) Counts(ctx context.Context) (community.Counts, error) {
	var counts community.Counts
	db := r.db.WithContext(ctx)

	if err := db.Model(&community.Event{}).
		Where("status = ? AND start_time >= ?", community.EventStatusUpcoming, time.Now().UTC()).
		Count(&counts.UpcomingEvents).Error; err != nil {
		return community.Counts{}, err
	}
	if err := db.Model(&community.Post{}).
		Where("status = ?", community.PostStatusPublished).
		Count(&counts.PublishedPosts).Error; err != nil {
		return community.Counts{}, err
	}
	if err := db.Model(&community.Message{}).
		Where("status = ?", community.MessageStatusUnread).
		Count(&counts.UnreadMessages).Error; err != nil {
		return community.Counts{}, err
	}
	return counts, nil
}

var _ community.Repository = (*GormCommunityRepository)(nil)
