package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/campusnet/campusnet/shared/config"
	"github.com/campusnet/campusnet/shared/errors"
)

// ContentValidator enforces the configured size limits on user supplied text.
type ContentValidator struct {
	maxTitle       int
	maxDescription int
	maxContent     int
}

func NewContentValidator(cfg config.Public) *ContentValidator {
	return &ContentValidator{
		maxTitle:       cfg.MaxTitleLength,
		maxDescription: cfg.MaxDescriptionLength,
		maxContent:     cfg.MaxContentLength,
	}
}

func (v *ContentValidator) Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.InvalidOperation("Title is too short")
	}
	if utf8.RuneCountInString(title) > v.maxTitle {
		return errors.InvalidOperation("Title is too long")
	}
	return nil
}

// Description may be empty.
func (v *ContentValidator) Description(description string) error {
	if utf8.RuneCountInString(description) > v.maxDescription {
		return errors.InvalidOperation("Description is too long")
	}
	return nil
}

func (v *ContentValidator) Text(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.InvalidOperation("Text is too short")
	}
	if utf8.RuneCountInString(text) > v.maxContent {
		return errors.InvalidOperation("Text is too long")
	}
	return nil
}
