// Package community holds the event, post and message tables. They have no
// public API of their own; the admin dashboard counts them and deleting a
// user removes the user's posts and messages.
package community

import (
	"context"
	"time"

	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventStatus represents the lifecycle of a scheduled event
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a scheduled activity such as a live session
type Event struct {
	shared.BaseEntity
	Title               string      `gorm:"type:varchar(200);not null"`
	Description         string      `gorm:"type:text"`
	StartTime           time.Time   `gorm:"not null"`
	EndTime             time.Time   `gorm:"not null"`
	Location            string      `gorm:"type:varchar(255)"`
	MaxParticipants     *int
	CurrentParticipants int         `gorm:"not null;default:0"`
	Status              EventStatus `gorm:"type:varchar(20);not null;default:'upcoming'"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "events"
}

// NewEvent creates an upcoming event
func NewEvent(title string, start, end time.Time) (*Event, error) {
	if title == "" {
		return nil, shared.NewValidationError("title is required")
	}
	if end.Before(start) {
		return nil, shared.NewValidationError("end_time must not be before start_time")
	}
	return &Event{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Status:     EventStatusUpcoming,
	}, nil
}

// PostStatus represents the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Post is a blog or news entry written by a user
type Post struct {
	shared.BaseEntity
	Title    string     `gorm:"type:varchar(200);not null"`
	Content  string     `gorm:"type:text;not null"`
	AuthorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Category string     `gorm:"type:varchar(50)"`
	Status   PostStatus `gorm:"type:varchar(20);not null;default:'published'"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// NewPost creates a published post
func NewPost(authorID uuid.UUID, title, content string) (*Post, error) {
	if title == "" || content == "" {
		return nil, shared.NewValidationError("title and content are required")
	}
	return &Post{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		Status:     PostStatusPublished,
	}, nil
}

// MessageStatus represents the handling state of a user message
type MessageStatus string

const (
	MessageStatusUnread  MessageStatus = "unread"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

// Message is a note sent by a user to the platform staff
type Message struct {
	shared.BaseEntity
	UserID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	Subject string        `gorm:"type:varchar(200);not null"`
	Content string        `gorm:"type:text;not null"`
	Status  MessageStatus `gorm:"type:varchar(20);not null;default:'unread'"`
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// NewMessage creates an unread message
func NewMessage(userID uuid.UUID, subject, content string) (*Message, error) {
	if subject == "" || content == "" {
		return nil, shared.NewValidationError("subject and content are required")
	}
	return &Message{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Subject:    subject,
		Content:    content,
		Status:     MessageStatusUnread,
	}, nil
}

// Counts summarizes community activity for the admin dashboard
type Counts struct {
	UpcomingEvents int64
	PublishedPosts int64
	UnreadMessages int64
}

// Repository reads aggregate community counts
type Repository interface {
	Counts(ctx context.Context) (Counts, error)
}
