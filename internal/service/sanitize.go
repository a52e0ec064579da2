package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/phrazzld/autolist-api/internal/domain"
)

// textPolicy strips all markup from user-provided text.
var textPolicy = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

func sanitizePublicationInput(in domain.PublicationInput) domain.PublicationInput {
	in.Title = sanitizeText(in.Title)
	in.ShortDescription = sanitizeText(in.ShortDescription)
	in.Description = sanitizeText(in.Description)
	in.Detail = sanitizeText(in.Detail)
	return in
}
