package service

import (
	"context"
	"encoding/json"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/tasks"
	"quill/internal/validation"
)

// CommentService validates and accepts comment submissions, and owns the
// worker-side handler that durably creates them.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	queue       tasks.Enqueuer
}

// SubmitCommentInput is an anonymous comment submission. Name and email
// are free text, not linked to a User.
type SubmitCommentInput struct {
	PostID    uint   `json:"post_id"`
	ReplyToID *uint  `json:"reply_to_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	queue tasks.Enqueuer,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		queue:       queue,
	}
}

// SubmitComment validates the submission and enqueues its creation,
// returning the task's tracking id. The comment row does not exist yet
// when this returns; a worker creates it at some later time, and clients
// observe it by re-fetching the post's comment list.
func (s *CommentService) SubmitComment(ctx context.Context, in SubmitCommentInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", models.NewValidationError("Name is required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidateCommentMessage(in.Message, models.MaxCommentMessageLen); err != nil {
		return "", models.NewValidationError(err.Error())
	}

	// The post must exist at submission time. The parent comment is not
	// checked here: a stale or bogus reply_to is resolved (and silently
	// dropped) by the worker instead of failing the submission.
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return "", err
	}

	payload := tasks.CreateCommentPayload{
		PostID:    in.PostID,
		ReplyToID: in.ReplyToID,
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
	}
	return s.queue.Enqueue(ctx, tasks.CreateCommentTask, payload)
}

// HandleCreateComment is the worker-side handler for comment-creation
// tasks. It re-resolves the post against current state (failing if it was
// deleted since submission) and drops the parent link when the parent no
// longer exists.
func (s *CommentService) HandleCreateComment(ctx context.Context, raw json.RawMessage) error {
	var payload tasks.CreateCommentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.NewValidationError("malformed comment payload")
	}

	if _, err := s.postRepo.GetByID(ctx, payload.PostID); err != nil {
		return err
	}

	replyTo := payload.ReplyToID
	if replyTo != nil {
		exists, err := s.commentRepo.Exists(ctx, *replyTo)
		if err != nil {
			return err
		}
		if !exists {
			replyTo = nil
		}
	}

	comment := &models.Comment{
		PostID:    payload.PostID,
		ReplyToID: replyTo,
		Name:      payload.Name,
		Email:     payload.Email,
		Message:   payload.Message,
		IsActive:  true,
	}
	return s.commentRepo.Create(ctx, comment)
}

// ListComments returns the post's root comments with one level of replies.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListRootsByPost(ctx, postID)
}

// GetReplies returns the direct replies of a comment.
func (s *CommentService) GetReplies(ctx context.Context, commentID uint) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, commentID)
}
