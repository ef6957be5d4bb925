// Package sites loads YAML site definitions (roots, pages and their
// localizations) and flattens them into page records.
package sites

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrSiteNameRequired = errors.New("sites: site name is required")
	ErrRootsRequired    = errors.New("sites: at least one root page is required")
	ErrTitleRequired    = errors.New("sites: page title is required")
	ErrDuplicateKey     = errors.New("sites: duplicate page key")
	ErrUnknownJumpTo    = errors.New("sites: jump_to references an unknown page key")
	ErrRootLanguage     = errors.New("sites: root page requires a language")
)

// Definition is the document root of a site file.
type Definition struct {
	Site string `yaml:"site"`
	// FolderAliases prefixes derived child aliases with the parent alias,
	// producing "news/archive" style aliases.
	FolderAliases bool             `yaml:"folder_aliases"`
	Roots         []PageDefinition `yaml:"roots"`
}

// PageDefinition describes one page and its subtree.
type PageDefinition struct {
	Key           string                            `yaml:"key"`
	Type          string                            `yaml:"type"`
	Title         string                            `yaml:"title"`
	Alias         string                            `yaml:"alias"`
	Domain        string                            `yaml:"domain"`
	UseSSL        bool                              `yaml:"use_ssl"`
	Language      string                            `yaml:"language"`
	Fallback      bool                              `yaml:"fallback"`
	Languages     []string                          `yaml:"languages"`
	JumpTo        string                            `yaml:"jump_to"`
	URL           string                            `yaml:"url"`
	Published     *bool                             `yaml:"published"`
	Start         *time.Time                        `yaml:"start"`
	Stop          *time.Time                        `yaml:"stop"`
	Localizations map[string]LocalizationDefinition `yaml:"localizations"`
	Children      []PageDefinition                  `yaml:"children"`
}

// LocalizationDefinition is the per-language override of a page.
type LocalizationDefinition struct {
	Title       string     `yaml:"title"`
	Alias       string     `yaml:"alias"`
	PageTitle   string     `yaml:"page_title"`
	Description string     `yaml:"description"`
	URL         string     `yaml:"url"`
	Published   *bool      `yaml:"published"`
	Start       *time.Time `yaml:"start"`
	Stop        *time.Time `yaml:"stop"`
}

// Parse decodes a definition from YAML bytes and validates its shape.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("sites: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Decode reads a definition from r.
func Decode(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sites: read definition: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and parses the definition at path.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sites: read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks the structural rules that do not need alias derivation.
func (d *Definition) Validate() error {
	if d == nil || strings.TrimSpace(d.Site) == "" {
		return ErrSiteNameRequired
	}
	if len(d.Roots) == 0 {
		return ErrRootsRequired
	}
	for i := range d.Roots {
		if strings.TrimSpace(d.Roots[i].Language) == "" {
			return fmt.Errorf("%w: %q", ErrRootLanguage, d.Roots[i].Title)
		}
		if err := validatePage(&d.Roots[i]); err != nil {
			return err
		}
	}
	return nil
}

func validatePage(p *PageDefinition) error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	for i := range p.Children {
		if err := validatePage(&p.Children[i]); err != nil {
			return err
		}
	}
	return nil
}
