// Package serializer contains the explicit list and detail projections of
// domain entities for API responses. Both projections read from the same
// Post entity; which one applies is a presentation decision, not a data
// model distinction.
package serializer

import (
	"time"

	"quill/internal/models"
)

// PostListItem is the collection-context projection of a Post: a content
// snippet and URLs instead of the full body.
type PostListItem struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Snippet       string    `json:"snippet"`
	RelativeURL   string    `json:"relative_url"`
	AbsoluteURL   string    `json:"absolute_url"`
	Author        string    `json:"author"`
	Category      string    `json:"category,omitempty"`
	ReadTime      int       `json:"read_time"`
	Views         uint      `json:"views"`
	PublishedDate time.Time `json:"published_date"`
}

// PostDetail is the single-item projection of a Post: the full content,
// without snippet or URL fields.
type PostDetail struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Author        string    `json:"author"`
	Category      string    `json:"category,omitempty"`
	ReadTime      int       `json:"read_time"`
	Status        bool      `json:"status"`
	Views         uint      `json:"views"`
	PublishedDate time.Time `json:"published_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewPostListItem projects a post for a collection response.
func NewPostListItem(p *models.Post, snippetLen int, baseURL string) PostListItem {
	item := PostListItem{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Snippet:       p.Snippet(snippetLen),
		RelativeURL:   p.RelativeURL(),
		AbsoluteURL:   p.AbsoluteURL(baseURL),
		Author:        p.Author.DisplayName(),
		ReadTime:      p.ReadTime,
		Views:         p.Views,
		PublishedDate: p.PublishedDate,
	}
	if p.Category != nil {
		item.Category = p.Category.Name
	}
	return item
}

// NewPostList projects a slice of posts for a collection response.
func NewPostList(posts []*models.Post, snippetLen int, baseURL string) []PostListItem {
	items := make([]PostListItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, NewPostListItem(p, snippetLen, baseURL))
	}
	return items
}

// NewPostDetail projects a post for a single-item response.
func NewPostDetail(p *models.Post) PostDetail {
	detail := PostDetail{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Author:        p.Author.DisplayName(),
		ReadTime:      p.ReadTime,
		Status:        p.Status,
		Views:         p.Views,
		PublishedDate: p.PublishedDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		detail.Category = p.Category.Name
	}
	return detail
}
