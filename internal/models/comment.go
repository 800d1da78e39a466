package models

import (
	"time"
)

// MaxCommentMessageLen is the longest accepted comment message.
const MaxCommentMessageLen = 500

// Comment belongs to exactly one Post and is optionally a reply to another
// comment. Replies form a tree of unbounded depth rooted at comments with a
// nil ReplyToID; a parent must already exist at creation time and comments
// are never re-parented, so the tree is cycle-free by construction.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	ReplyToID *uint     `gorm:"index" json:"reply_to_id,omitempty"`
	ReplyTo   *Comment  `gorm:"foreignKey:ReplyToID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:250;not null" json:"name"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	Message   string    `gorm:"size:500;not null" json:"message"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Replies []Comment `gorm:"foreignKey:ReplyToID" json:"replies,omitempty"`
}
