package domain

import (
	"time"

	"github.com/google/uuid"
)

// LikeTarget names what a like points at. Exactly one field is set.
type LikeTarget struct {
	PublicationID *uuid.UUID `json:"publication_id,omitempty"`
	CommentID     *uuid.UUID `json:"comment_id,omitempty"`
}

// Validate checks that exactly one target is set.
func (t LikeTarget) Validate() error {
	hasPublication := t.PublicationID != nil && *t.PublicationID != uuid.Nil
	hasComment := t.CommentID != nil && *t.CommentID != uuid.Nil
	if hasPublication == hasComment {
		return NewValidationError("", ErrInvalidLikeTarget.Error(), ErrInvalidLikeTarget)
	}
	return nil
}

// Like records that a user likes a publication or a comment.
type Like struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Target    LikeTarget `json:"target"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewLike creates a Like after validating its target.
func NewLike(userID uuid.UUID, target LikeTarget) (*Like, error) {
	if userID == uuid.Nil {
		return nil, NewValidationError("user_id", "cannot be empty", ErrEmptyUserID)
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return &Like{
		ID:        uuid.New(),
		UserID:    userID,
		Target:    target,
		CreatedAt: time.Now().UTC(),
	}, nil
}
