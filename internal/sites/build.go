package sites

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/identity"
	"github.com/goliatone/go-cms-i18nl10n/internal/pages"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Records is a flattened definition ready to be written to repositories.
// Pages are ordered parents first.
type Records struct {
	Pages         []*pages.Page
	Localizations []*pages.LocalizedPage
}

type builder struct {
	site       string
	folder     bool
	normalizer slug.Normalizer
	keys       map[string]uuid.UUID
	jumps      map[*pages.Page]string
	out        Records
}

// Build derives aliases and identifiers and flattens the page tree.
func Build(def *Definition) (*Records, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	b := &builder{
		site:       strings.TrimSpace(def.Site),
		folder:     def.FolderAliases,
		normalizer: slug.Default(),
		keys:       map[string]uuid.UUID{},
		jumps:      map[*pages.Page]string{},
	}
	for i := range def.Roots {
		if err := b.add(&def.Roots[i], nil, "", i); err != nil {
			return nil, err
		}
	}
	for page, key := range b.jumps {
		target, ok := b.keys[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownJumpTo, key)
		}
		page.JumpTo = &target
	}
	return &b.out, nil
}

func (b *builder) add(def *PageDefinition, parent *pages.Page, parentAlias string, sorting int) error {
	alias := b.alias(def.Alias, def.Title)
	if alias == "" {
		return fmt.Errorf("%w: %q has no usable alias", ErrTitleRequired, def.Title)
	}
	// Explicit aliases are kept whole; only derived ones get the parent prefix.
	if parent != nil && b.folder && strings.TrimSpace(def.Alias) == "" && parentAlias != "" {
		alias = parentAlias + "/" + alias
	}

	key := strings.TrimSpace(def.Key)
	if key == "" {
		key = alias
	}
	if _, exists := b.keys[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}

	page := &pages.Page{
		ID:        identity.PageUUID(b.site, key),
		Type:      pageType(def, parent),
		Alias:     alias,
		Title:     strings.TrimSpace(def.Title),
		URL:       strings.TrimSpace(def.URL),
		Sorting:   sorting,
		Published: published(def.Published),
		Start:     def.Start,
		Stop:      def.Stop,
	}
	b.keys[key] = page.ID
	if parent != nil {
		parentID := parent.ID
		page.ParentID = &parentID
	} else {
		page.Domain = strings.ToLower(strings.TrimSpace(def.Domain))
		page.UseSSL = def.UseSSL
		page.Language = pages.NormalizeLanguage(def.Language)
		page.Fallback = def.Fallback
		for _, code := range def.Languages {
			if code = pages.NormalizeLanguage(code); code != "" {
				page.Localizations = append(page.Localizations, code)
			}
		}
	}
	if jump := strings.TrimSpace(def.JumpTo); jump != "" {
		b.jumps[page] = jump
	}
	b.out.Pages = append(b.out.Pages, page)

	languages := make([]string, 0, len(def.Localizations))
	for code := range def.Localizations {
		languages = append(languages, code)
	}
	sort.Strings(languages)
	for _, code := range languages {
		b.out.Localizations = append(b.out.Localizations, b.localization(page, code, def.Localizations[code]))
	}

	// Root aliases never prefix their children.
	childPrefix := alias
	if parent == nil {
		childPrefix = ""
	}
	for i := range def.Children {
		if err := b.add(&def.Children[i], page, childPrefix, i); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) localization(page *pages.Page, code string, def LocalizationDefinition) *pages.LocalizedPage {
	language := pages.NormalizeLanguage(code)
	title := strings.TrimSpace(def.Title)
	if title == "" {
		title = page.Title
	}
	return &pages.LocalizedPage{
		ID:          identity.LocalizationUUID(page.ID, language),
		PageID:      page.ID,
		Language:    language,
		Alias:       b.alias(def.Alias, ""),
		Title:       title,
		PageTitle:   strings.TrimSpace(def.PageTitle),
		Description: def.Description,
		URL:         strings.TrimSpace(def.URL),
		Published:   published(def.Published),
		Start:       def.Start,
		Stop:        def.Stop,
	}
}

// alias normalizes every "/" segment of explicit, or the whole fallback
// when explicit is empty.
func (b *builder) alias(explicit, fallback string) string {
	source := strings.Trim(strings.TrimSpace(explicit), "/")
	if source == "" {
		return b.segment(fallback)
	}
	parts := strings.Split(source, "/")
	out := parts[:0]
	for _, part := range parts {
		if normalized := b.segment(part); normalized != "" {
			out = append(out, normalized)
		}
	}
	return strings.Join(out, "/")
}

func (b *builder) segment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	normalized, err := b.normalizer.Normalize(value)
	if err != nil {
		return ""
	}
	return normalized
}

func pageType(def *PageDefinition, parent *pages.Page) string {
	if parent == nil {
		return pages.TypeRoot
	}
	switch kind := strings.ToLower(strings.TrimSpace(def.Type)); kind {
	case pages.TypeForward, pages.TypeRedirect:
		return kind
	default:
		return pages.TypeRegular
	}
}

func published(flag *bool) bool {
	return flag == nil || *flag
}
