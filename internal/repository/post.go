package repository

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"

	"gorm.io/gorm"
)

// ListPostsOptions narrows a post listing. A zero OwnerProfileID means the
// public view (published posts only); a non-zero value restricts the
// listing to that profile's own posts regardless of status.
type ListPostsOptions struct {
	CategoryID     *uint
	Query          string
	OwnerProfileID uint
	Limit          int
	Offset         int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	List(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error)
	Latest(ctx context.Context, n int) ([]*models.Post, error)
	IncrementViews(ctx context.Context, id uint) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if isUniqueViolation(err) {
		return models.NewConflictError("slug already in use")
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author.User").
		Preload("Category").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author.User").
		Preload("Category").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", slug)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List orders by descending id, a creation-order proxy kept faithful to
// the upstream behavior (published_date is deliberately not the sort key).
func (r *postRepository) List(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error) {
	var posts []*models.Post

	q := r.db.WithContext(ctx).
		Preload("Author.User").
		Preload("Category")

	if opts.OwnerProfileID != 0 {
		q = q.Where("author_id = ?", opts.OwnerProfileID)
	} else {
		q = q.Where("status = ?", true)
	}

	if opts.CategoryID != nil {
		q = q.Where("category_id = ?", *opts.CategoryID)
	}

	if query := strings.TrimSpace(opts.Query); query != "" {
		// A post matches if either its title or its content contains the
		// query, case-insensitively. LOWER/LIKE keeps this portable between
		// Postgres and the SQLite test database.
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}

	q = q.Order("id DESC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	err := q.Find(&posts).Error
	return posts, err
}

func (r *postRepository) Latest(ctx context.Context, n int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author.User").
		Preload("Category").
		Where("status = ?", true).
		Order("id DESC").
		Limit(n).
		Find(&posts).Error
	return posts, err
}

// IncrementViews bumps the views counter in a single UPDATE. The counter is
// approximate: concurrent detail fetches may interleave with reads, and no
// exactness guarantee is made.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Save(post).Error
	if isUniqueViolation(err) {
		return models.NewConflictError("slug already in use")
	}
	return err
}

// Delete removes the post and, through the ON DELETE CASCADE constraint on
// comments.post_id, every comment attached to it.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}
