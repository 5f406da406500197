package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
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

// LayoutUUID is the record id of a project's saved page layouts. One record per project.
func LayoutUUID(projectID uuid.UUID) uuid.UUID {
	return UUID("sitegen:layout:" + projectID.String())
}

// GenerationUUID identifies generation number version of a project.
func GenerationUUID(projectID uuid.UUID, version int) uuid.UUID {
	return UUID("sitegen:generation:" + projectID.String() + ":" + strconv.Itoa(version))
}
