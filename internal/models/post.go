package models

import (
	"fmt"
	"time"
)

// Category groups posts under a unique name. Categories have no owner and
// are removed by a periodic sweep once no posts reference them.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}

// Post represents a blog post owned by exactly one Profile.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	Author        Profile   `gorm:"foreignKey:AuthorID" json:"author"`
	Title         string    `gorm:"size:300;not null" json:"title"`
	Slug          string    `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	ReadTime      int       `gorm:"not null" json:"read_time"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Status        bool      `gorm:"not null;default:false;index" json:"status"`
	CategoryID    *uint     `gorm:"index" json:"category_id,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Views         uint      `gorm:"not null;default:0" json:"views"`
	PublishedDate time.Time `json:"published_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// Snippet returns the first n runes of the post content.
func (p *Post) Snippet(n int) string {
	runes := []rune(p.Content)
	if len(runes) <= n {
		return p.Content
	}
	return string(runes[:n])
}

// RelativeURL returns the API path for this post.
func (p *Post) RelativeURL() string {
	return fmt.Sprintf("/api/v1/posts/%s", p.Slug)
}

// AbsoluteURL joins the configured base URL with the post's relative path.
func (p *Post) AbsoluteURL(baseURL string) string {
	return baseURL + p.RelativeURL()
}
