// Package identity derives stable record IDs so imports can be re-run.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-agency:"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys are prefixed by entity kind so different collections cannot collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// NewsUUID identifies a news post imported from an external source.
func NewsUUID(source, sourceID, locale string) uuid.UUID {
	return UUID(namespace + "news:" + clean(source) + ":" + clean(locale) + ":" + strings.TrimSpace(sourceID))
}

// MediaUUID identifies a media asset by its canonical URL.
func MediaUUID(url string) uuid.UUID {
	return UUID(namespace + "media:" + strings.TrimSpace(url))
}

// ArtistUUID identifies an artist by name.
func ArtistUUID(name string) uuid.UUID {
	return UUID(namespace + "artist:" + clean(name))
}

func clean(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
