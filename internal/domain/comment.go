package domain

import "time"

// ModerationState is the outcome of evaluating a submitted comment.
// It is decided exactly once, at intake, and never changes afterwards.
type ModerationState int

const (
	// StateError rejects the comment; nothing is persisted
	StateError ModerationState = iota
	// StatePendingModeration stores the comment unpublished
	StatePendingModeration
	// StatePublished stores the comment publicly visible
	StatePublished
)

// String returns the wire representation of the state
func (s ModerationState) String() string {
	switch s {
	case StatePendingModeration:
		return "pending"
	case StatePublished:
		return "published"
	default:
		return "error"
	}
}

// Comment is a visitor comment on a post. Created by submission, never
// updated after creation.
type Comment struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID uint64 `gorm:"column:post_id;index" json:"post_id"`

	// Author-supplied fields; blank strings are valid values
	Name  string `gorm:"column:name;type:varchar(255)" json:"name"`
	Email string `gorm:"column:email;type:varchar(255)" json:"email"`
	URL   string `gorm:"column:url;type:varchar(500)" json:"url"`
	Body  string `gorm:"column:body;type:text" json:"body"`

	Status string `gorm:"column:status;type:varchar(20);index" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName sets the comments table name
func (Comment) TableName() string { return "blog_comments" }

// Published reports whether the comment is publicly visible
func (c *Comment) Published() bool {
	return c.Status == StatePublished.String()
}

// CommentForm carries the raw submitted comment fields. Absent fields
// arrive as empty strings; there is no missing-field error at this layer.
type CommentForm struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	URL     string `form:"url" json:"url"`
	Comment string `form:"comment" json:"comment"`
}
