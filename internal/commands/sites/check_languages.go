package sitescmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-cms-i18nl10n/internal/commands"
	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
)

const checkLanguagesMessageType = "l10n.sites.check_languages"

// CheckLanguagesCommand rebuilds the language registry and verifies that
// every listed host resolves to a root.
type CheckLanguagesCommand struct {
	Hosts []string `json:"hosts"`
	// Result receives the languages found per host when set.
	Result map[string]registry.Languages `json:"-"`
}

// Type implements command.Message.
func (CheckLanguagesCommand) Type() string { return checkLanguagesMessageType }

// Validate rejects blank host entries.
func (m CheckLanguagesCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Hosts, validation.Each(validation.By(func(value any) error {
			host, _ := value.(string)
			if strings.TrimSpace(host) == "" {
				return validation.NewError("l10n.sites.check_languages.host_blank", "host must not be blank")
			}
			return nil
		}))),
	)
}

// CheckLanguagesHandler runs CheckLanguagesCommand.
type CheckLanguagesHandler struct {
	inner *commands.Handler[CheckLanguagesCommand]
}

// NewCheckLanguagesHandler constructs the handler over the page repository.
func NewCheckLanguagesHandler(pageRepo pages.PageRepository, logger interfaces.Logger, opts ...commands.HandlerOption[CheckLanguagesCommand]) *CheckLanguagesHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CheckLanguagesCommand) error {
		reg, err := registry.Load(ctx, pageRepo)
		if err != nil {
			return err
		}
		hosts := msg.Hosts
		if len(hosts) == 0 {
			hosts = reg.Hosts()
		}
		for _, host := range hosts {
			languages, err := reg.ForHost(host)
			if err != nil {
				return err
			}
			logging.WithFields(baseLogger, map[string]any{
				"host":      host,
				"default":   languages.Default,
				"available": strings.Join(languages.Available, ","),
			}).Debug("sites.check_languages.host")
			if msg.Result != nil {
				msg.Result[host] = languages
			}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CheckLanguagesCommand]{
		commands.WithLogger[CheckLanguagesCommand](baseLogger),
		commands.WithOperation[CheckLanguagesCommand]("sites.check_languages"),
		commands.WithMessageFields(func(msg CheckLanguagesCommand) map[string]any {
			if len(msg.Hosts) == 0 {
				return nil
			}
			return map[string]any{"hosts": strings.Join(msg.Hosts, ",")}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckLanguagesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CheckLanguagesCommand].Execute.
func (h *CheckLanguagesHandler) Execute(ctx context.Context, msg CheckLanguagesCommand) error {
	return h.inner.Execute(ctx, msg)
}
