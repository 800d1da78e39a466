package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"quill/internal/cache"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/validation"
)

// PostService owns post visibility, ownership, and listing rules.
type PostService struct {
	postRepo repository.PostRepository
}

// ListPostsInput describes a post listing request. Category is the raw
// query value: empty or "all" means no filter, and a value that does not
// parse as an integer id is silently dropped rather than rejected.
// OwnerProfileID switches the listing from the public view (published
// only) to the requester's own posts regardless of status.
type ListPostsInput struct {
	Category       string
	Query          string
	OwnerProfileID uint
	Limit          int
	Offset         int
}

// CreatePostInput carries the caller-supplied fields for a new post. The
// author is never taken from input; it is set server-side from the acting
// profile.
type CreatePostInput struct {
	Title         string
	Slug          string
	ReadTime      int
	Content       string
	Status        bool
	CategoryID    *uint
	PublishedDate time.Time
}

// UpdatePostInput carries a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Title         *string
	Slug          *string
	ReadTime      *int
	Content       *string
	Status        *bool
	CategoryID    *uint
	PublishedDate *time.Time
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// ListPosts composes the listing query from the filter input. Results are
// ordered most recently created first.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	opts := repository.ListPostsOptions{
		Query:          strings.TrimSpace(in.Query),
		OwnerProfileID: in.OwnerProfileID,
		Limit:          in.Limit,
		Offset:         in.Offset,
	}

	if category := strings.TrimSpace(in.Category); category != "" && category != "all" {
		if id, err := strconv.ParseUint(category, 10, 32); err == nil {
			categoryID := uint(id)
			opts.CategoryID = &categoryID
		}
		// A malformed category value is dropped, not an error: leniency
		// toward hand-edited query strings.
	}

	return s.postRepo.List(ctx, opts)
}

// GetPostDetail fetches a post by slug and, as an observable side effect,
// increments its view counter. The read is deliberately non-idempotent.
// Unpublished posts are visible only to their author; anyone else gets
// not-found, the same as a missing slug, and the counter stays untouched.
func (s *PostService) GetPostDetail(ctx context.Context, slug string, actingProfileID uint) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Status && post.AuthorID != actingProfileID {
		return nil, models.NewNotFoundError("post", slug)
	}

	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		return nil, err
	}
	post.Views++
	middleware.PostDetailViews.Inc()

	return post, nil
}

// RelatedPosts returns the latest n published posts, served cache-aside.
func (s *PostService) RelatedPosts(ctx context.Context, n int) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.RelatedPostsKey(n), &posts, cache.RelatedPostsTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.postRepo.Latest(ctx, n)
		return fetchErr
	})
	return posts, err
}

// CreatePost validates the input and persists a post owned by the acting
// profile.
func (s *PostService) CreatePost(ctx context.Context, authorProfileID uint, in CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		AuthorID:      authorProfileID,
		Title:         in.Title,
		Slug:          in.Slug,
		ReadTime:      in.ReadTime,
		Content:       in.Content,
		Status:        in.Status,
		CategoryID:    in.CategoryID,
		PublishedDate: in.PublishedDate,
	}
	if err := s.validatePost(ctx, post); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies a partial update after an ownership check. Full
// validation re-runs on the merged record.
func (s *PostService) UpdatePost(ctx context.Context, actingProfileID, postID uint, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actingProfileID {
		return nil, models.NewPermissionDeniedError("You can only update your own posts")
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Slug != nil {
		post.Slug = *in.Slug
	}
	if in.ReadTime != nil {
		post.ReadTime = *in.ReadTime
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.Status != nil {
		post.Status = *in.Status
	}
	if in.CategoryID != nil {
		post.CategoryID = in.CategoryID
	}
	if in.PublishedDate != nil {
		post.PublishedDate = *in.PublishedDate
	}

	if err := s.validatePost(ctx, post); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post (and, by cascade, its comments) after an
// ownership check.
func (s *PostService) DeletePost(ctx context.Context, actingProfileID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actingProfileID {
		return models.NewPermissionDeniedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// validatePost enforces the full field contract. It runs on creation and
// again on every merged update.
func (s *PostService) validatePost(ctx context.Context, post *models.Post) error {
	if post.Title == "" {
		return models.NewValidationError("Title is required")
	}
	if post.Content == "" {
		return models.NewValidationError("Content is required")
	}
	if post.CategoryID == nil {
		return models.NewValidationError("Category is required")
	}
	if post.PublishedDate.IsZero() {
		return models.NewValidationError("Published date is required")
	}
	if post.ReadTime <= 0 {
		return models.NewValidationError("Read time must be a positive number of minutes")
	}
	if err := validation.ValidateSlug(post.Slug); err != nil {
		return models.NewValidationError(err.Error())
	}

	// Pre-check the slug; the unique index still backstops the race where
	// two writers pass this check concurrently.
	taken, err := s.postRepo.SlugExists(ctx, post.Slug, post.ID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewValidationError("Slug already in use")
	}
	return nil
}
