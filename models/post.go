package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents where a post sits in the approval workflow
type PostStatus string

const (
	PostStatusDraft        PostStatus = "draft"
	PostStatusAgencyReview PostStatus = "agency_review"
	PostStatusClientReview PostStatus = "client_review"
	PostStatusApproved     PostStatus = "approved"
)

// Valid returns true if the status is part of the approval workflow
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusAgencyReview, PostStatusClientReview, PostStatusApproved:
		return true
	}
	return false
}

// NextStatus returns the status a post moves to on approval by the given role.
// Agencies advance drafts to client review, clients approve. Returns false
// when the role cannot advance the post from its current status.
func (s PostStatus) NextStatus(role UserRole) (PostStatus, bool) {
	switch {
	case role == RoleAgency && (s == PostStatusDraft || s == PostStatusAgencyReview):
		return PostStatusClientReview, true
	case role == RoleClient && s == PostStatusClientReview:
		return PostStatusApproved, true
	}
	return s, false
}

// PostType represents the content format of a post
type PostType string

const (
	PostTypeReel     PostType = "Reel"
	PostTypeCarousel PostType = "Carousel"
	PostTypeStory    PostType = "Story"
	PostTypeStatic   PostType = "Static"
	PostTypeVideo    PostType = "Video"
)

// Valid returns true if the post type is one of the supported formats
func (t PostType) Valid() bool {
	switch t {
	case PostTypeReel, PostTypeCarousel, PostTypeStory, PostTypeStatic, PostTypeVideo:
		return true
	}
	return false
}

// Post represents an individual piece of planned content in a monthly calendar
type Post struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	StrategyID    uuid.UUID  `json:"strategy_id" db:"strategy_id"`
	SeriesID      *uuid.UUID `json:"series_id,omitempty" db:"series_id"`
	Month         string     `json:"month" db:"month"`
	Week          int        `json:"week" db:"week"`
	PostDate      time.Time  `json:"post_date" db:"post_date"`
	Platforms     []Platform `json:"platform" db:"platform"`
	PostType      PostType   `json:"post_type" db:"post_type"`
	Hook          string     `json:"hook" db:"hook"`
	BodyCopy      string     `json:"body_copy" db:"body_copy"`
	CTA           string     `json:"cta" db:"cta"`
	Hashtags      []string   `json:"hashtags" db:"hashtags"`
	Justification string     `json:"justification" db:"justification"`
	Wildcard      bool       `json:"wildcard" db:"wildcard"`
	VisualConcept string     `json:"visual_concept" db:"visual_concept"`
	ImageURL      *string    `json:"image_url,omitempty" db:"image_url"`
	Status        PostStatus `json:"status" db:"status"`
	CreatedBy     string     `json:"created_by" db:"created_by"` // subject id of the creating user
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// NewPost creates a new draft Post under a strategy
func NewPost(strategyID uuid.UUID, month string, createdBy string) *Post {
	now := time.Now()
	return &Post{
		ID:         uuid.New(),
		StrategyID: strategyID,
		Month:      month,
		Status:     PostStatusDraft,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
