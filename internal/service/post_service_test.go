package service

import (
	"context"
	"testing"
	"time"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	getBySlugFn      func(context.Context, string) (*models.Post, error)
	slugExistsFn     func(context.Context, string, uint) (bool, error)
	listFn           func(context.Context, repository.ListPostsOptions) ([]*models.Post, error)
	latestFn         func(context.Context, int) ([]*models.Post, error)
	incrementViewsFn func(context.Context, uint) error
	updateFn         func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return s.slugExistsFn(ctx, slug, excludeID)
}
func (s *postRepoStub) List(ctx context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
	return s.listFn(ctx, opts)
}
func (s *postRepoStub) Latest(ctx context.Context, n int) ([]*models.Post, error) {
	return s.latestFn(ctx, n)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:    func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:   func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getBySlugFn: func(_ context.Context, _ string) (*models.Post, error) { return &models.Post{}, nil },
		slugExistsFn: func(_ context.Context, _ string, _ uint) (bool, error) {
			return false, nil
		},
		listFn: func(_ context.Context, _ repository.ListPostsOptions) ([]*models.Post, error) {
			return nil, nil
		},
		latestFn:         func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		updateFn:         func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

func validCreateInput() CreatePostInput {
	categoryID := uint(3)
	return CreatePostInput{
		Title:         "Profiling Go Services",
		Slug:          "profiling-go-services",
		ReadTime:      7,
		Content:       "pprof is underused.",
		Status:        true,
		CategoryID:    &categoryID,
		PublishedDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreatePostInput)
	}{
		{name: "empty title", mutate: func(in *CreatePostInput) { in.Title = "" }},
		{name: "empty content", mutate: func(in *CreatePostInput) { in.Content = "" }},
		{name: "missing category", mutate: func(in *CreatePostInput) { in.CategoryID = nil }},
		{name: "zero published date", mutate: func(in *CreatePostInput) { in.PublishedDate = time.Time{} }},
		{name: "zero read time", mutate: func(in *CreatePostInput) { in.ReadTime = 0 }},
		{name: "negative read time", mutate: func(in *CreatePostInput) { in.ReadTime = -3 }},
		{name: "empty slug", mutate: func(in *CreatePostInput) { in.Slug = "" }},
		{name: "slug with uppercase", mutate: func(in *CreatePostInput) { in.Slug = "Profiling-Go" }},
		{name: "slug with spaces", mutate: func(in *CreatePostInput) { in.Slug = "profiling go" }},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := validCreateInput()
			tc.mutate(&in)
			_, err := svc.CreatePost(ctx, 1, in)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_SetsAuthorFromActor(t *testing.T) {
	t.Parallel()

	var created *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, post *models.Post) error {
		created = post
		created.ID = 42
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		require.Equal(t, uint(42), id)
		return created, nil
	}
	svc := NewPostService(repo)

	post, err := svc.CreatePost(context.Background(), 9, validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, uint(9), post.AuthorID)
}

func TestPostService_CreatePost_SlugTaken(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.slugExistsFn = func(_ context.Context, slug string, _ uint) (bool, error) {
		return slug == "profiling-go-services", nil
	}
	svc := NewPostService(repo)

	_, err := svc.CreatePost(context.Background(), 1, validCreateInput())
	assertValidationError(t, err)
}

func TestPostService_GetPostDetail_IncrementsViews(t *testing.T) {
	t.Parallel()

	increments := 0
	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		return &models.Post{ID: 5, Slug: slug, Views: 10, Status: true}, nil
	}
	repo.incrementViewsFn = func(_ context.Context, id uint) error {
		require.Equal(t, uint(5), id)
		increments++
		return nil
	}
	svc := NewPostService(repo)

	post, err := svc.GetPostDetail(context.Background(), "profiling-go-services", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, increments)
	assert.Equal(t, uint(11), post.Views, "returned post reflects the new count")

	_, err = svc.GetPostDetail(context.Background(), "profiling-go-services", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, increments, "every fetch counts, even repeats by the same caller")
}

func TestPostService_GetPostDetail_DraftVisibility(t *testing.T) {
	t.Parallel()

	increments := 0
	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		return &models.Post{ID: 7, Slug: slug, AuthorID: 3, Status: false}, nil
	}
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		increments++
		return nil
	}
	svc := NewPostService(repo)

	t.Run("anonymous reader gets not-found", func(t *testing.T) {
		_, err := svc.GetPostDetail(context.Background(), "unpublished", 0)
		assertErrorCode(t, err, models.CodeNotFound)
		assert.Zero(t, increments, "a hidden draft must not accrue views")
	})

	t.Run("a different author gets not-found", func(t *testing.T) {
		_, err := svc.GetPostDetail(context.Background(), "unpublished", 9)
		assertErrorCode(t, err, models.CodeNotFound)
		assert.Zero(t, increments)
	})

	t.Run("the author sees the draft", func(t *testing.T) {
		post, err := svc.GetPostDetail(context.Background(), "unpublished", 3)
		require.NoError(t, err)
		assert.Equal(t, uint(7), post.ID)
		assert.Equal(t, 1, increments)
	})
}

func TestPostService_GetPostDetail_UnknownSlug(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		return nil, models.NewNotFoundError("post", slug)
	}
	repo.incrementViewsFn = func(_ context.Context, _ uint) error {
		t.Fatal("views must not be touched for a missing post")
		return nil
	}
	svc := NewPostService(repo)

	_, err := svc.GetPostDetail(context.Background(), "missing", 0)
	assertErrorCode(t, err, models.CodeNotFound)
}

func TestPostService_ListPosts_CategoryFilter(t *testing.T) {
	t.Parallel()

	t.Run("numeric category is applied", func(t *testing.T) {
		t.Parallel()
		var got repository.ListPostsOptions
		repo := noopPostRepo()
		repo.listFn = func(_ context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
			got = opts
			return nil, nil
		}
		svc := NewPostService(repo)

		_, err := svc.ListPosts(context.Background(), ListPostsInput{Category: "12"})
		require.NoError(t, err)
		require.NotNil(t, got.CategoryID)
		assert.Equal(t, uint(12), *got.CategoryID)
	})

	t.Run("malformed category is dropped silently", func(t *testing.T) {
		t.Parallel()
		var got repository.ListPostsOptions
		repo := noopPostRepo()
		repo.listFn = func(_ context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
			got = opts
			return nil, nil
		}
		svc := NewPostService(repo)

		_, err := svc.ListPosts(context.Background(), ListPostsInput{Category: "gardening"})
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})

	t.Run("all means no filter", func(t *testing.T) {
		t.Parallel()
		var got repository.ListPostsOptions
		repo := noopPostRepo()
		repo.listFn = func(_ context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
			got = opts
			return nil, nil
		}
		svc := NewPostService(repo)

		_, err := svc.ListPosts(context.Background(), ListPostsInput{Category: "all"})
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})
}

func TestPostService_UpdatePost_Ownership(t *testing.T) {
	t.Parallel()

	existing := func() *models.Post {
		in := validCreateInput()
		return &models.Post{
			ID:            5,
			AuthorID:      1,
			Title:         in.Title,
			Slug:          in.Slug,
			ReadTime:      in.ReadTime,
			Content:       in.Content,
			CategoryID:    in.CategoryID,
			PublishedDate: in.PublishedDate,
		}
	}

	t.Run("owner can update", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return existing(), nil }
		svc := NewPostService(repo)

		title := "Profiling Go Services, Revisited"
		post, err := svc.UpdatePost(context.Background(), 1, 5, UpdatePostInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, post.Title)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return existing(), nil }
		repo.updateFn = func(_ context.Context, _ *models.Post) error {
			t.Fatal("update must not reach the repository")
			return nil
		}
		svc := NewPostService(repo)

		title := "Hijacked"
		_, err := svc.UpdatePost(context.Background(), 2, 5, UpdatePostInput{Title: &title})
		assertErrorCode(t, err, models.CodePermissionDenied)
	})

	t.Run("merged record is re-validated", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return existing(), nil }
		svc := NewPostService(repo)

		empty := ""
		_, err := svc.UpdatePost(context.Background(), 1, 5, UpdatePostInput{Title: &empty})
		assertValidationError(t, err)
	})
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return &models.Post{ID: 5, AuthorID: 1}, nil
		}
		svc := NewPostService(repo)
		assert.NoError(t, svc.DeletePost(context.Background(), 1, 5))
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return &models.Post{ID: 5, AuthorID: 1}, nil
		}
		repo.deleteFn = func(_ context.Context, _ uint) error {
			t.Fatal("delete must not reach the repository")
			return nil
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), 2, 5)
		assertErrorCode(t, err, models.CodePermissionDenied)
	})
}
