package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-cms-i18nl10n"
	"github.com/goliatone/go-cms-i18nl10n/internal/di"
	"github.com/goliatone/go-cms-i18nl10n/internal/identity"
	"github.com/google/uuid"
)

const usage = `usage: i18nl10n <command> [flags]

commands:
  import     import a YAML site definition
  resolve    resolve a localized path to its canonical alias
  url        generate the localized URL of a page
  languages  list the languages of one or every host
  serve      run the frontend HTTP API`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("i18nl10n: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	command, rest := args[0], args[1:]
	switch command {
	case "import":
		return runImport(ctx, rest, stdout)
	case "resolve":
		return runResolve(ctx, rest, stdout)
	case "url":
		return runURL(ctx, rest, stdout)
	case "languages":
		return runLanguages(ctx, rest, stdout)
	case "serve":
		return runServe(ctx, rest, stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

// commonFlags are shared by every subcommand. With the memory provider the
// site file is imported on every run.
type commonFlags struct {
	site     *string
	storage  *string
	dialect  *string
	dsn      *string
	logLevel *string
}

func registerCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		site:     fs.String("site", "", "YAML site definition imported before the command runs"),
		storage:  fs.String("storage", "", "Storage provider (memory or bun); defaults to config"),
		dialect:  fs.String("dialect", "", "SQL dialect for bun storage (sqlite or postgres)"),
		dsn:      fs.String("dsn", "", "Database DSN for bun storage"),
		logLevel: fs.String("log-level", "", "Enable console logging at the given level"),
	}
}

func (f commonFlags) module(ctx context.Context) (*i18nl10n.Module, error) {
	cfg := i18nl10n.DefaultConfig()
	if err := i18nl10n.ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if value := strings.TrimSpace(*f.storage); value != "" {
		cfg.Storage.Provider = value
	}
	if value := strings.TrimSpace(*f.dialect); value != "" {
		cfg.Storage.Dialect = value
	}
	if value := strings.TrimSpace(*f.dsn); value != "" {
		cfg.Storage.DSN = value
	}
	if value := strings.TrimSpace(*f.logLevel); value != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = value
	}

	var opts []di.Option
	if cfg.Storage.Provider == "bun" {
		opts = append(opts, di.WithMigrations(i18nl10n.GetMigrationsFS()))
	}
	module, err := i18nl10n.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if site := strings.TrimSpace(*f.site); site != "" {
		if _, err := module.ImportSite(ctx, site); err != nil {
			_ = module.Close()
			return nil, fmt.Errorf("import %s: %w", site, err)
		}
	}
	return module, nil
}

func runImport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	common := registerCommon(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	site := strings.TrimSpace(*common.site)
	if site == "" && fs.NArg() > 0 {
		site = fs.Arg(0)
	}
	if site == "" {
		return errors.New("import: site definition path is required")
	}
	*common.site = ""

	module, err := common.module(ctx)
	if err != nil {
		return err
	}
	defer module.Close()

	result, err := module.ImportSite(ctx, site)
	if err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

func runResolve(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	common := registerCommon(fs)
	host := fs.String("host", "", "Request host")
	path := fs.String("path", "", "Request path, language first (de/neuigkeiten)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := common.module(ctx)
	if err != nil {
		return err
	}
	defer module.Close()

	result, err := module.ResolvePath(ctx, *host, *path)
	if err != nil {
		return err
	}
	return writeJSON(stdout, result)
}

func runURL(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("url", flag.ContinueOnError)
	common := registerCommon(fs)
	host := fs.String("host", "", "Request host")
	page := fs.String("page", "", "Page id")
	siteName := fs.String("site-name", "", "Site name used with -key")
	key := fs.String("key", "", "Page key from the site definition, instead of -page")
	language := fs.String("language", "", "Target language")
	params := fs.String("params", "", "Path parameter suffix, e.g. /items/42")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pageID, err := pageIDFromFlags(*page, *siteName, *key)
	if err != nil {
		return err
	}
	module, err := common.module(ctx)
	if err != nil {
		return err
	}
	defer module.Close()

	url, err := module.URLFor(ctx, *host, pageID, *language, *params)
	if err != nil {
		return err
	}
	return writeJSON(stdout, map[string]string{"url": url})
}

func runLanguages(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("languages", flag.ContinueOnError)
	common := registerCommon(fs)
	host := fs.String("host", "", "Only report this host")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := common.module(ctx)
	if err != nil {
		return err
	}
	defer module.Close()

	var hosts []string
	if trimmed := strings.TrimSpace(*host); trimmed != "" {
		hosts = []string{trimmed}
	}
	languages, err := module.CheckLanguages(ctx, hosts...)
	if err != nil {
		return err
	}
	return writeJSON(stdout, languages)
}

func runServe(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	common := registerCommon(fs)
	addr := fs.String("addr", "", "Listen address; defaults to config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := common.module(ctx)
	if err != nil {
		return err
	}
	defer module.Close()

	mux := http.NewServeMux()
	if err := module.FrontendAPI().Register(mux); err != nil {
		return err
	}
	listen := strings.TrimSpace(*addr)
	if listen == "" {
		listen = module.Container().Config.HTTP.Addr
	}
	server := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		fmt.Fprintf(stdout, "listening on %s\n", listen)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func pageIDFromFlags(page, siteName, key string) (uuid.UUID, error) {
	if trimmed := strings.TrimSpace(page); trimmed != "" {
		id, err := uuid.Parse(trimmed)
		if err != nil {
			return uuid.Nil, fmt.Errorf("parse page: %w", err)
		}
		return id, nil
	}
	if strings.TrimSpace(key) == "" || strings.TrimSpace(siteName) == "" {
		return uuid.Nil, errors.New("url: -page or -site-name with -key is required")
	}
	return identity.PageUUID(siteName, key), nil
}

func writeJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
