package sitescmd

import (
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
	"github.com/goliatone/go-command/dispatcher"
)

// Subscribe registers the site handlers on the go-command dispatcher and
// returns a function that removes them again.
func Subscribe(pageRepo pages.PageRepository, locRepo pages.LocalizationRepository, logger interfaces.Logger) func() {
	subs := []interface{ Unsubscribe() }{
		dispatcher.SubscribeCommand(NewImportSiteHandler(pageRepo, locRepo, logger)),
		dispatcher.SubscribeCommand(NewCheckLanguagesHandler(pageRepo, logger)),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
