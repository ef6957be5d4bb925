package routing

import (
	"net"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/registry"
)

const (
	// AutoItem is the reserved fragment marking an unnamed parameter.
	AutoItem = "auto_item"
	// LanguageKey is the fragment key carrying the resolved language.
	LanguageKey = "language"
)

// Config holds the URL settings shared by the resolver and generator. It is
// passed by value and never mutated.
type Config struct {
	DisableAlias bool
	UseAutoItem  bool
	// FolderURL enables folder style aliases such as "news/archive".
	FolderURL bool
	URLSuffix string
}

// Scope is the per-request snapshot the routing operations run against.
type Scope struct {
	// Host is the request host, optionally with a port.
	Host string
	// Base is the absolute site base, e.g. "https://example.com/". Template
	// URLs containing it produce absolute URLs.
	Base     string
	Language string
	Registry *registry.Registry
}

// Languages returns the registry entry for the scope host.
func (s Scope) Languages() (registry.Languages, error) {
	return s.Registry.ForHost(s.Host)
}

func hostname(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
