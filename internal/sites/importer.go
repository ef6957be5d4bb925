package sites

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
)

// ImportResult counts the records written and those already present.
type ImportResult struct {
	PagesCreated         int
	PagesSkipped         int
	LocalizationsCreated int
	LocalizationsSkipped int
}

// Import writes records into the repositories. Records whose id (or page and
// language pair) already exists are skipped, so re-importing a definition is
// a no-op.
func Import(ctx context.Context, records *Records, pageRepo pages.PageRepository, locRepo pages.LocalizationRepository) (ImportResult, error) {
	var result ImportResult
	if records == nil {
		return result, nil
	}
	if pageRepo == nil || locRepo == nil {
		return result, errors.New("sites: page and localization repositories are required")
	}

	for _, page := range records.Pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		_, err := pageRepo.GetByID(ctx, page.ID)
		switch {
		case err == nil:
			result.PagesSkipped++
			continue
		case !pages.IsNotFound(err):
			return result, fmt.Errorf("sites: lookup page %s: %w", page.Alias, err)
		}
		if _, err := pageRepo.Create(ctx, page); err != nil {
			return result, fmt.Errorf("sites: create page %s: %w", page.Alias, err)
		}
		result.PagesCreated++
	}

	for _, row := range records.Localizations {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		_, err := locRepo.Create(ctx, row)
		switch {
		case err == nil:
			result.LocalizationsCreated++
		case errors.Is(err, pages.ErrDuplicateLocalization):
			result.LocalizationsSkipped++
		default:
			return result, fmt.Errorf("sites: create localization %s/%s: %w", row.PageID, row.Language, err)
		}
	}
	return result, nil
}
