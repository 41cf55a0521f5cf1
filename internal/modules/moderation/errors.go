package moderation

import (
	"fmt"

	"coursereviews/internal/pkg/apperr"
)

var (
	ErrAdminRequired  = fmt.Errorf("admin privilege required: %w", apperr.ErrUnauthorized)
	ErrNotReported    = fmt.Errorf("review is not reported: %w", apperr.ErrValidation)
	ErrInvalidOutcome = fmt.Errorf("outcome must be keep or hide: %w", apperr.ErrValidation)
)
