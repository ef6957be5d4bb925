package pages

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrPageRequired          = errors.New("pages: page id required")
	ErrLanguageRequired      = errors.New("pages: language is required")
	ErrParentCycle           = errors.New("pages: parent chain contains a cycle")
	ErrDuplicateLocalization = errors.New("pages: localization already exists for page and language")
	ErrDatabaseRequired      = errors.New("pages: database not configured")
)

// NotFoundError is returned when a page or localization row is missing.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "page"
	}
	if e.Key == "" {
		return fmt.Sprintf("pages: %s not found", resource)
	}
	return fmt.Sprintf("pages: %s %q not found", resource, e.Key)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

func pageNotFound(id uuid.UUID) error {
	return &NotFoundError{Resource: "page", Key: id.String()}
}

func localizationNotFound(pageID uuid.UUID, language string) error {
	return &NotFoundError{Resource: "localization", Key: pageID.String() + "/" + language}
}
