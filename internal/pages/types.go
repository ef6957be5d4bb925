package pages

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Page types that change how navigation builds an href.
const (
	TypeRoot     = "root"
	TypeRegular  = "regular"
	TypeForward  = "forward"
	TypeRedirect = "redirect"
)

// Page is the canonical, language-neutral content page. Root pages carry the
// domain and language configuration for their subtree.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID            uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ParentID      *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Type          string     `bun:"type,notnull,default:'regular'" json:"type"`
	Alias         string     `bun:"alias,notnull" json:"alias"`
	Title         string     `bun:"title,notnull" json:"title"`
	Domain        string     `bun:"domain" json:"domain,omitempty"`
	UseSSL        bool       `bun:"use_ssl,notnull,default:false" json:"use_ssl,omitempty"`
	Language      string     `bun:"language" json:"language,omitempty"`
	Fallback      bool       `bun:"fallback,notnull,default:false" json:"fallback,omitempty"`
	Localizations []string   `bun:"localizations,type:jsonb" json:"localizations,omitempty"`
	JumpTo        *uuid.UUID `bun:"jump_to,type:uuid" json:"jump_to,omitempty"`
	URL           string     `bun:"url" json:"url,omitempty"`
	Sorting       int        `bun:"sorting,notnull,default:0" json:"sorting"`
	Published     bool       `bun:"published,notnull,default:false" json:"published"`
	Start         *time.Time `bun:"start_at" json:"start_at,omitempty"`
	Stop          *time.Time `bun:"stop_at" json:"stop_at,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsRoot reports whether the page owns a domain/language binding. Only pages
// typed root do; a parentless page of another type is an orphan.
func (p *Page) IsRoot() bool {
	return p != nil && p.Type == TypeRoot
}

// LocalizedPage is the per-language translation row of a page. An empty
// Alias means the canonical alias applies.
type LocalizedPage struct {
	bun.BaseModel `bun:"table:page_localizations,alias:pl"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	PageID      uuid.UUID  `bun:"page_id,notnull,type:uuid" json:"page_id"`
	Language    string     `bun:"language,notnull" json:"language"`
	Alias       string     `bun:"alias" json:"alias,omitempty"`
	Title       string     `bun:"title,notnull" json:"title"`
	PageTitle   string     `bun:"page_title" json:"page_title,omitempty"`
	Description string     `bun:"description" json:"description,omitempty"`
	URL         string     `bun:"url" json:"url,omitempty"`
	Published   bool       `bun:"published,notnull,default:false" json:"published"`
	Start       *time.Time `bun:"start_at" json:"start_at,omitempty"`
	Stop        *time.Time `bun:"stop_at" json:"stop_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Details is a page together with the settings inherited from its root.
type Details struct {
	*Page
	RootID       uuid.UUID
	RootDomain   string
	RootUseSSL   bool
	RootLanguage string
}

// IsPublishedAt reports whether a published flag and an optional time window
// admit now. A nil bound is open-ended.
func IsPublishedAt(published bool, start, stop *time.Time, now time.Time) bool {
	if !published {
		return false
	}
	if start != nil && !start.IsZero() && now.Before(*start) {
		return false
	}
	if stop != nil && !stop.IsZero() && !now.Before(*stop) {
		return false
	}
	return true
}

// VisibleAt applies IsPublishedAt to the page.
func (p *Page) VisibleAt(now time.Time) bool {
	return p != nil && IsPublishedAt(p.Published, p.Start, p.Stop, now)
}

// VisibleAt applies IsPublishedAt to the localization row.
func (l *LocalizedPage) VisibleAt(now time.Time) bool {
	return l != nil && IsPublishedAt(l.Published, l.Start, l.Stop, now)
}

// NormalizeLanguage lowercases and trims a language code.
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
