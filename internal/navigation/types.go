package navigation

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/google/uuid"
)

// TypeRoute marks items whose href is built by a RouteResolver.
const TypeRoute = "route"

// Item is one navigation entry as produced by the host menu renderer.
type Item struct {
	ID          uuid.UUID         `json:"id"`
	Type        string            `json:"type"`
	Alias       string            `json:"alias"`
	Title       string            `json:"title"`
	PageTitle   string            `json:"page_title,omitempty"`
	Link        string            `json:"link,omitempty"`
	Description string            `json:"description,omitempty"`
	Href        string            `json:"href"`
	Language    string            `json:"language,omitempty"`
	JumpTo      *uuid.UUID        `json:"jump_to,omitempty"`
	Domain      string            `json:"domain,omitempty"`
	UseSSL      bool              `json:"use_ssl,omitempty"`
	Published   bool              `json:"published"`
	Start       *time.Time        `json:"start_at,omitempty"`
	Stop        *time.Time        `json:"stop_at,omitempty"`
	Route       string            `json:"route,omitempty"`
	RouteParams map[string]string `json:"route_params,omitempty"`
	RouteQuery  map[string]string `json:"route_query,omitempty"`
}

// ItemFromDetails builds a navigation item for a page.
func ItemFromDetails(details *pages.Details) Item {
	if details == nil || details.Page == nil {
		return Item{}
	}
	return Item{
		ID:        details.ID,
		Type:      details.Type,
		Alias:     details.Alias,
		Title:     details.Title,
		Link:      details.Title,
		Language:  details.RootLanguage,
		JumpTo:    details.JumpTo,
		Domain:    details.RootDomain,
		UseSSL:    details.RootUseSSL,
		Published: details.Published,
		Start:     details.Start,
		Stop:      details.Stop,
		Href:      details.URL,
	}
}

// Options controls the fallback behaviour of Filter.Localize.
type Options struct {
	// UseFallback keeps untranslated items and disables the publish check.
	UseFallback bool
	// Editor disables the publish check for preview sessions.
	Editor bool
}

func (o Options) checkPublished() bool {
	return !o.UseFallback && !o.Editor
}

// RouteRequest carries the context a RouteResolver needs to build a link.
type RouteRequest struct {
	Item     Item
	Language string
}

// RouteResolver builds hrefs for route items.
type RouteResolver interface {
	Resolve(ctx context.Context, req RouteRequest) (string, error)
}
