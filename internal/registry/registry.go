package registry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"golang.org/x/text/language"
)

// Wildcard keys roots that are not bound to a domain.
const Wildcard = "*"

var (
	// ErrNoRootPage reports that no root page configures the requested host.
	ErrNoRootPage = errors.New("registry: no root page for host")
	// ErrInvalidLanguage reports a root with a malformed language code.
	ErrInvalidLanguage = errors.New("registry: invalid language code")
)

// NoRootPageError carries the host that failed lookup and unwraps to ErrNoRootPage.
type NoRootPageError struct {
	Host string
}

func (e *NoRootPageError) Error() string {
	if e.Host == "" {
		return "registry: no root page found"
	}
	return fmt.Sprintf("registry: no root page found for host %q", e.Host)
}

func (e *NoRootPageError) Unwrap() error {
	return ErrNoRootPage
}

// Languages is the language configuration of one host.
type Languages struct {
	Default   string   `json:"default"`
	Available []string `json:"languages"`
}

// Contains reports whether code is one of the available languages.
func (l Languages) Contains(code string) bool {
	return slices.Contains(l.Available, pages.NormalizeLanguage(code))
}

// Negotiate returns requested when it is available and the default otherwise.
func (l Languages) Negotiate(requested string) string {
	requested = pages.NormalizeLanguage(requested)
	if requested != "" && l.Contains(requested) {
		return requested
	}
	return l.Default
}

// RootConfig is the subset of a root page the registry is built from.
type RootConfig struct {
	Domain        string
	Language      string
	Fallback      bool
	Localizations []string
}

// RootConfigFromPage extracts the registry view of a root page.
func RootConfigFromPage(page *pages.Page) RootConfig {
	return RootConfig{
		Domain:        page.Domain,
		Language:      page.Language,
		Fallback:      page.Fallback,
		Localizations: page.Localizations,
	}
}

// PermissionFilter narrows the language list for the current user. A nil
// filter allows every language.
type PermissionFilter interface {
	AllowLanguage(code string) bool
}

// PermissionFilterFunc adapts a function to PermissionFilter.
type PermissionFilterFunc func(code string) bool

func (f PermissionFilterFunc) AllowLanguage(code string) bool {
	return f(code)
}

// Registry maps hosts to their language configuration. It is never mutated
// after Build.
type Registry struct {
	hosts map[string]Languages
	order []string
}

// Build groups roots by domain and derives each host's default and
// available languages.
func Build(roots []RootConfig) (*Registry, error) {
	type group struct {
		first     string
		fallback  string
		available map[string]struct{}
	}
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, root := range roots {
		key := normalizeHost(root.Domain)
		if key == "" {
			key = Wildcard
		}
		code, err := validLanguage(root.Language)
		if err != nil {
			return nil, err
		}

		g, ok := groups[key]
		if !ok {
			g = &group{first: code, available: make(map[string]struct{})}
			groups[key] = g
			order = append(order, key)
		}
		if root.Fallback && g.fallback == "" {
			g.fallback = code
		}
		g.available[code] = struct{}{}
		for _, extra := range root.Localizations {
			if strings.TrimSpace(extra) == "" {
				continue
			}
			extraCode, err := validLanguage(extra)
			if err != nil {
				return nil, err
			}
			g.available[extraCode] = struct{}{}
		}
	}

	hosts := make(map[string]Languages, len(groups))
	for key, g := range groups {
		def := g.fallback
		if def == "" {
			def = g.first
		}
		available := make([]string, 0, len(g.available))
		for code := range g.available {
			available = append(available, code)
		}
		slices.Sort(available)
		hosts[key] = Languages{Default: def, Available: available}
	}
	return &Registry{hosts: hosts, order: order}, nil
}

// Load builds a registry from the root pages of repo.
func Load(ctx context.Context, repo pages.PageRepository) (*Registry, error) {
	roots, err := repo.ListRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("registry: list roots: %w", err)
	}
	configs := make([]RootConfig, 0, len(roots))
	for _, root := range roots {
		configs = append(configs, RootConfigFromPage(root))
	}
	return Build(configs)
}

// ForHost returns the languages bound to host, falling back to the
// wildcard entry.
func (r *Registry) ForHost(host string) (Languages, error) {
	if r != nil {
		if langs, ok := r.hosts[normalizeHost(host)]; ok {
			return cloneLanguages(langs), nil
		}
		if langs, ok := r.hosts[Wildcard]; ok {
			return cloneLanguages(langs), nil
		}
	}
	return Languages{}, &NoRootPageError{Host: host}
}

// AllAvailableLanguages returns the sorted union of every host's languages
// that pass filter. includeBlank prepends an empty entry for "no language".
func (r *Registry) AllAvailableLanguages(filter PermissionFilter, includeBlank bool) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	if r != nil {
		for _, langs := range r.hosts {
			for _, code := range langs.Available {
				if _, dup := seen[code]; dup {
					continue
				}
				if filter != nil && !filter.AllowLanguage(code) {
					continue
				}
				seen[code] = struct{}{}
				out = append(out, code)
			}
		}
	}
	slices.Sort(out)
	if includeBlank {
		out = append([]string{""}, out...)
	}
	return out
}

// Hosts lists the registered host keys in build order.
func (r *Registry) Hosts() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// Snapshot returns a copy of the host table.
func (r *Registry) Snapshot() map[string]Languages {
	out := make(map[string]Languages)
	if r == nil {
		return out
	}
	for key, langs := range r.hosts {
		out[key] = cloneLanguages(langs)
	}
	return out
}

func cloneLanguages(src Languages) Languages {
	return Languages{Default: src.Default, Available: slices.Clone(src.Available)}
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func validLanguage(code string) (string, error) {
	code = pages.NormalizeLanguage(code)
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	if _, err := language.ParseBase(code); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	return code, nil
}
