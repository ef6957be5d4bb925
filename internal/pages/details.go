package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GetWithDetails loads a page and walks its parents up to the root to fill
// in the inherited domain, SSL flag and root language. An orphaned subtree
// inherits from its topmost page.
func GetWithDetails(ctx context.Context, repo PageRepository, id uuid.UUID) (*Details, error) {
	if id == uuid.Nil {
		return nil, ErrPageRequired
	}
	page, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &Details{Page: page}
	visited := map[uuid.UUID]struct{}{page.ID: {}}
	current := page
	for !current.IsRoot() && current.ParentID != nil {
		parentID := *current.ParentID
		if _, seen := visited[parentID]; seen {
			return nil, fmt.Errorf("%w: %s", ErrParentCycle, page.ID)
		}
		visited[parentID] = struct{}{}

		parent, err := repo.GetByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		current = parent
	}

	details.RootID = current.ID
	details.RootDomain = current.Domain
	details.RootUseSSL = current.UseSSL
	details.RootLanguage = NormalizeLanguage(current.Language)
	return details, nil
}
