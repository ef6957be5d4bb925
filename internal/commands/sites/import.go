package sitescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-i18nl10n/internal/commands"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/sites"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
)

const importSiteMessageType = "l10n.sites.import"

// ImportSiteCommand imports a site definition either from Path or from an
// already parsed Definition.
type ImportSiteCommand struct {
	Path       string            `json:"path,omitempty"`
	Definition *sites.Definition `json:"-"`
	// Result receives the import counters when set.
	Result *sites.ImportResult `json:"-"`
}

// Type implements command.Message.
func (ImportSiteCommand) Type() string { return importSiteMessageType }

// Validate requires exactly one source.
func (m ImportSiteCommand) Validate() error {
	errs := validation.Errors{}
	hasPath := strings.TrimSpace(m.Path) != ""
	switch {
	case !hasPath && m.Definition == nil:
		errs["path"] = validation.NewError("l10n.sites.import.source_required", "path or definition is required")
	case hasPath && m.Definition != nil:
		errs["path"] = validation.NewError("l10n.sites.import.source_ambiguous", "path and definition are mutually exclusive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportSiteHandler builds and writes site records into the repositories.
type ImportSiteHandler struct {
	inner *commands.Handler[ImportSiteCommand]
}

// NewImportSiteHandler constructs the handler over the page repositories.
func NewImportSiteHandler(pageRepo pages.PageRepository, locRepo pages.LocalizationRepository, logger interfaces.Logger, opts ...commands.HandlerOption[ImportSiteCommand]) *ImportSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportSiteCommand) error {
		def := msg.Definition
		if def == nil {
			loaded, err := sites.LoadFile(strings.TrimSpace(msg.Path))
			if err != nil {
				return err
			}
			def = loaded
		}
		records, err := sites.Build(def)
		if err != nil {
			return err
		}
		result, err := sites.Import(ctx, records, pageRepo, locRepo)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"site":                  def.Site,
			"pages_created":         result.PagesCreated,
			"pages_skipped":         result.PagesSkipped,
			"localizations_created": result.LocalizationsCreated,
			"localizations_skipped": result.LocalizationsSkipped,
		}).Info("sites.import.completed")
		if msg.Result != nil {
			*msg.Result = result
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportSiteCommand]{
		commands.WithLogger[ImportSiteCommand](baseLogger),
		commands.WithOperation[ImportSiteCommand]("sites.import"),
		commands.WithMessageFields(func(msg ImportSiteCommand) map[string]any {
			if path := strings.TrimSpace(msg.Path); path != "" {
				return map[string]any{"path": path}
			}
			if msg.Definition != nil {
				return map[string]any{"site": msg.Definition.Site}
			}
			return nil
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportSiteCommand].Execute.
func (h *ImportSiteHandler) Execute(ctx context.Context, msg ImportSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
