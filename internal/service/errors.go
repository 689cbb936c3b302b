package service

import (
	"fmt"

	"github.com/and161185/brainly/internal/errs"
)

// Share resolution failures; both wrap errs.ErrNotFound.
var (
	ErrInvalidShareLink = fmt.Errorf("invalid share link: %w", errs.ErrNotFound)
	ErrOwnerNotFound    = fmt.Errorf("share owner: %w", errs.ErrNotFound)
)
