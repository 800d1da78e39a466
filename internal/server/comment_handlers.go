package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	PostID    uint   `json:"post_id"`
	ReplyToID *uint  `json:"reply_to_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// CreateComment handles POST /api/v1/comments. The comment is validated
// and queued, not created inline; 202 plus a task id tells the client the
// write will land later.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	taskID, err := s.commentService.SubmitComment(c.UserContext(), service.SubmitCommentInput{
		PostID:    req.PostID,
		ReplyToID: req.ReplyToID,
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status":  "accepted",
		"task_id": taskID,
		"detail":  "Comment creation is processing in background.",
	})
}

// GetComments handles GET /api/v1/posts/:slug/comments. Returns root
// comments with one level of replies. Reading comments does not count as
// a post view. Drafts resolve only for their author, matching the detail
// route.
func (s *Server) GetComments(c *fiber.Ctx) error {
	slug := c.Params("slug")

	post, err := s.postRepo.GetBySlug(c.UserContext(), slug)
	if err != nil {
		return respondError(c, err)
	}
	if !post.Status && post.AuthorID != optionalProfileID(c) {
		return respondError(c, models.NewNotFoundError("post", slug))
	}

	comments, err := s.commentService.ListComments(c.UserContext(), post.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// GetReplies handles GET /api/v1/comments/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.commentService.GetReplies(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"replies": replies})
}
