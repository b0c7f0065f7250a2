package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents review feedback left on a post
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	UserID    string    `json:"user_id" db:"user_id"` // subject id of the commenter
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// NewComment creates a new Comment on a post
func NewComment(postID uuid.UUID, userID, text string) *Comment {
	return &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
