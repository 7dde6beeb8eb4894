// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ontoreg/ontoreg/internal/testutil"
	"github.com/ontoreg/ontoreg/pkg/dictionary"
)

const holderManifest = `
[[vocabularies]]
id = "H"
loader = "obo"
resource = "h.obo"
`

func TestHolder_Reload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, dir, "ontologies.toml", holderManifest)
	testutil.MustWriteFile(t, dir, "h.obo", testutil.OBO(testutil.OBOTerm{ID: "H:1", Name: "first"}))

	h, err := FileHolder(context.Background(), path, WithLogger(discard))
	if err != nil {
		t.Fatalf("FileHolder: %v", err)
	}
	before := h.Current()
	if a, _ := before.Access("H"); a.Len() != 1 {
		t.Fatalf("initial Len() = %d", a.Len())
	}

	testutil.MustWriteFile(t, dir, "h.obo", testutil.OBO(
		testutil.OBOTerm{ID: "H:1", Name: "first"},
		testutil.OBOTerm{ID: "H:2", Name: "second", IsA: []string{"H:1"}},
	))
	after, err := h.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if h.Current() != after {
		t.Error("Reload must make the new registry current")
	}
	if a, _ := after.Access("H"); a.Len() != 2 {
		t.Errorf("reloaded Len() = %d", a.Len())
	}
	if a, _ := before.Access("H"); a.Len() != 1 {
		t.Error("earlier registry must be unaffected by reload")
	}
}

func TestHolder_FailedReloadKeepsCurrent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, dir, "ontologies.toml", holderManifest)
	obo := testutil.MustWriteFile(t, dir, "h.obo", testutil.OBO(testutil.OBOTerm{ID: "H:1", Name: "first"}))

	h, err := FileHolder(context.Background(), path, WithLogger(discard))
	if err != nil {
		t.Fatalf("FileHolder: %v", err)
	}
	current := h.Current()

	if err := os.Remove(obo); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Reload(context.Background()); !errors.Is(err, dictionary.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
	if h.Current() != current {
		t.Error("failed reload must keep the previous registry")
	}
}

func TestFileHolder_InitialFailure(t *testing.T) {
	t.Parallel()

	if _, err := FileHolder(context.Background(), filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Error("expected error for missing manifest")
	}
}
