package identity_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/identity"
)

func TestUUIDIsStable(t *testing.T) {
	first := identity.UUID("sitegen:test")
	second := identity.UUID("  sitegen:test ")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable non-nil uuid, got %s and %s", first, second)
	}
	if identity.UUID("") != uuid.Nil {
		t.Fatal("expected empty key to map to uuid.Nil")
	}
}

func TestGenerationUUIDVariesByVersion(t *testing.T) {
	project := uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	if identity.GenerationUUID(project, 1) == identity.GenerationUUID(project, 2) {
		t.Fatal("expected distinct ids per version")
	}
	if identity.GenerationUUID(project, 1) == identity.LayoutUUID(project) {
		t.Fatal("expected layout and generation ids to live in separate namespaces")
	}
}
