package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artgens/internal/domain"
	"artgens/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyComment = errors.New("comment content must not be empty")
)

// SocialService defines the interface for likes and comments
type SocialService interface {
	ToggleLike(ctx context.Context, userID, artworkID uuid.UUID) (liked bool, err error)
	ListComments(ctx context.Context, artworkID uuid.UUID) ([]*domain.CommentView, error)
	AddComment(ctx context.Context, userID, artworkID uuid.UUID, content string) (*domain.CommentView, error)
}

type socialService struct {
	artworkRepo repository.ArtworkRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
}

// NewSocialService creates a new instance of SocialService
func NewSocialService(
	artworkRepo repository.ArtworkRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
) SocialService {
	return &socialService{
		artworkRepo: artworkRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
	}
}

// ToggleLike flips the liked state for the caller on an artwork. Repeated
// calls alternate between liked and not liked rather than accumulating.
func (s *socialService) ToggleLike(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	if err := s.requireArtwork(ctx, artworkID); err != nil {
		return false, err
	}

	liked, err := s.likeRepo.Toggle(ctx, userID, artworkID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}

	return liked, nil
}

// ListComments returns an artwork's comments oldest first. An artwork with no
// comments yields an empty list, not an error.
func (s *socialService) ListComments(ctx context.Context, artworkID uuid.UUID) ([]*domain.CommentView, error) {
	if err := s.requireArtwork(ctx, artworkID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByArtwork(ctx, artworkID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// AddComment appends a comment with a server-assigned timestamp. Content is
// rejected when blank after trimming.
func (s *socialService) AddComment(ctx context.Context, userID, artworkID uuid.UUID, content string) (*domain.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	if err := s.requireArtwork(ctx, artworkID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		Content:   content,
		UserID:    userID,
		ArtworkID: artworkID,
		CreatedAt: time.Now(),
	}

	view, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return view, nil
}

func (s *socialService) requireArtwork(ctx context.Context, artworkID uuid.UUID) error {
	exists, err := s.artworkRepo.Exists(ctx, artworkID)
	if err != nil {
		return fmt.Errorf("failed to check artwork: %w", err)
	}
	if !exists {
		return repository.ErrArtworkNotFound
	}
	return nil
}
