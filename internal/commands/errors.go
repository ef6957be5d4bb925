package commands

import (
	"context"
	"errors"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
	"github.com/goliatone/go-cms-i18nl10n/internal/sites"
	goerrors "github.com/goliatone/go-errors"
)

const (
	commandValidationCode   = "L10N_COMMAND_VALIDATION_FAILED"
	commandContextCanceled  = "L10N_COMMAND_CONTEXT_CANCELED"
	commandContextTimeout   = "L10N_COMMAND_CONTEXT_TIMEOUT"
	commandContextErrorCode = "L10N_COMMAND_CONTEXT_ERROR"
	commandExecuteFailed    = "L10N_COMMAND_EXECUTION_FAILED"

	NoRootPageCode            = "L10N_NO_ROOT_PAGE"
	InvalidLanguageCode       = "L10N_INVALID_LANGUAGE"
	PageNotFoundCode          = "L10N_PAGE_NOT_FOUND"
	LocalizationConflictCode  = "L10N_LOCALIZATION_CONFLICT"
	SiteDefinitionInvalidCode = "L10N_SITE_DEFINITION_INVALID"
)

var siteDefinitionErrors = []error{
	sites.ErrSiteNameRequired,
	sites.ErrRootsRequired,
	sites.ErrTitleRequired,
	sites.ErrDuplicateKey,
	sites.ErrUnknownJumpTo,
	sites.ErrRootLanguage,
}

// executeCode maps a handler failure to the text code clients branch on.
func executeCode(err error) string {
	switch {
	case errors.Is(err, registry.ErrNoRootPage):
		return NoRootPageCode
	case errors.Is(err, registry.ErrInvalidLanguage):
		return InvalidLanguageCode
	case errors.Is(err, pages.ErrDuplicateLocalization):
		return LocalizationConflictCode
	case pages.IsNotFound(err):
		return PageNotFoundCode
	}
	for _, target := range siteDefinitionErrors {
		if errors.Is(err, target) {
			return SiteDefinitionInvalidCode
		}
	}
	return commandExecuteFailed
}

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(commandValidationCode)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(commandContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(commandContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(commandContextErrorCode)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(executeCode(err))
}
