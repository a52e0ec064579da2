package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment validation errors
var (
	ErrCommentTextEmpty          = errors.New("comment text cannot be empty")
	ErrCommentTextTooLong        = errors.New("comment text must be at most 2000 characters")
	ErrCommentPublicationIDEmpty = errors.New("comment publication ID cannot be empty")
	ErrCommentUserIDEmpty        = errors.New("comment user ID cannot be empty")
)

const maxCommentLength = 2000

// Comment is a user's remark on a publication.
type Comment struct {
	ID            uuid.UUID `json:"id"`
	PublicationID uuid.UUID `json:"publication_id"`
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username,omitempty"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewComment creates a Comment. The text must already be sanitized.
func NewComment(publicationID, userID uuid.UUID, text string) (*Comment, error) {
	c := &Comment{
		ID:            uuid.New(),
		PublicationID: publicationID,
		UserID:        userID,
		Text:          strings.TrimSpace(text),
		CreatedAt:     time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.PublicationID == uuid.Nil {
		return NewValidationError("publication_id", "cannot be empty", ErrCommentPublicationIDEmpty)
	}
	if c.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrCommentUserIDEmpty)
	}
	if c.Text == "" {
		return NewValidationError("text", "cannot be empty", ErrCommentTextEmpty)
	}
	if len([]rune(c.Text)) > maxCommentLength {
		return NewValidationError("text", "is too long", ErrCommentTextTooLong)
	}
	return nil
}
