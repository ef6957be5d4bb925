// Package identity derives stable identifiers for imported site records.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-cms-i18nl10n:"

// UUID derives a deterministic UUID from key. Callers prefix keys by record
// kind so different kinds never collide.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return uid
}

// PageUUID identifies a page by its site-unique key (usually the alias path).
func PageUUID(site, key string) uuid.UUID {
	return UUID(namespace + "page:" + strings.TrimSpace(site) + ":" + strings.TrimSpace(key))
}

// LocalizationUUID identifies the (page, language) localization row.
func LocalizationUUID(pageID uuid.UUID, language string) uuid.UUID {
	return UUID(namespace + "localization:" + pageID.String() + ":" + strings.ToLower(strings.TrimSpace(language)))
}
