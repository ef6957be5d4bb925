package routing

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
)

var (
	// ErrPageNotFound marks resolution failures that must surface as "not found".
	ErrPageNotFound = errors.New("routing: page not found")
	// ErrInvalidPageReference is returned when a page reference lacks an id.
	ErrInvalidPageReference = errors.New("routing: invalid page reference")
	// ErrNoRootPage is re-exported from the registry.
	ErrNoRootPage = registry.ErrNoRootPage
)

// NoRootPageError reports a host with no language configuration.
type NoRootPageError = registry.NoRootPageError

// PageNotFoundError is raised when a localized alias matched in a language
// other than the requested one.
type PageNotFoundError struct {
	Alias    string
	Language string
}

func (e *PageNotFoundError) Error() string {
	if e.Alias == "" {
		return "routing: page not found"
	}
	return fmt.Sprintf("routing: page %q not found for language %q", e.Alias, e.Language)
}

func (e *PageNotFoundError) Unwrap() error {
	return ErrPageNotFound
}
