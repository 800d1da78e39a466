package server

import (
	"time"

	"quill/internal/models"
	"quill/internal/serializer"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	ReadTime      int        `json:"read_time"`
	Content       string     `json:"content"`
	Status        bool       `json:"status"`
	CategoryID    *uint      `json:"category_id"`
	PublishedDate *time.Time `json:"published_date"`
}

type postUpdateRequest struct {
	Title         *string    `json:"title"`
	Slug          *string    `json:"slug"`
	ReadTime      *int       `json:"read_time"`
	Content       *string    `json:"content"`
	Status        *bool      `json:"status"`
	CategoryID    *uint      `json:"category_id"`
	PublishedDate *time.Time `json:"published_date"`
}

// GetPosts handles GET /api/v1/posts. Lists published posts, newest id
// first, optionally filtered by category id and a free-text query matching
// title or content.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  serializer.NewPostList(posts, s.config.SnippetLength, s.config.BaseURL),
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// GetMyPosts handles GET /api/v1/posts/mine. Lists the requester's posts
// regardless of publication status.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	profileID, err := actingProfileID(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Category:       c.Query("category"),
		Query:          c.Query("q"),
		OwnerProfileID: profileID,
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  serializer.NewPostList(posts, s.config.SnippetLength, s.config.BaseURL),
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// GetRelatedPosts handles GET /api/v1/posts/related
func (s *Server) GetRelatedPosts(c *fiber.Ctx) error {
	n := c.QueryInt("limit", 3)
	if n <= 0 || n > 10 {
		n = 3
	}

	posts, err := s.postService.RelatedPosts(c.UserContext(), n)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts": serializer.NewPostList(posts, s.config.SnippetLength, s.config.BaseURL),
	})
}

// GetPost handles GET /api/v1/posts/:slug. Every successful fetch counts
// as a view. Drafts resolve only for their author; everyone else sees 404.
func (s *Server) GetPost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	post, err := s.postService.GetPostDetail(c.UserContext(), slug, optionalProfileID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(serializer.NewPostDetail(post))
}

// CreatePost handles POST /api/v1/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	profileID, err := actingProfileID(c)
	if err != nil {
		return nil
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreatePostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		ReadTime:   req.ReadTime,
		Content:    req.Content,
		Status:     req.Status,
		CategoryID: req.CategoryID,
	}
	if req.PublishedDate != nil {
		in.PublishedDate = *req.PublishedDate
	}

	post, err := s.postService.CreatePost(c.UserContext(), profileID, in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(serializer.NewPostDetail(post))
}

// UpdatePost handles PUT /api/v1/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	profileID, err := actingProfileID(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req postUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), profileID, postID, service.UpdatePostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		ReadTime:      req.ReadTime,
		Content:       req.Content,
		Status:        req.Status,
		CategoryID:    req.CategoryID,
		PublishedDate: req.PublishedDate,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(serializer.NewPostDetail(post))
}

// DeletePost handles DELETE /api/v1/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	profileID, err := actingProfileID(c)
	if err != nil {
		return nil
	}
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), profileID, postID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
