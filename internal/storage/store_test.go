package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type testSpec struct {
	Name   string `json:"name"`
	Broken bool   `json:"broken"`
}

func (s *testSpec) Validate() error {
	if s.Broken {
		return fmt.Errorf("spec is broken")
	}
	return nil
}

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileStoreLoadsAssets(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "alpha.json", `{"version":1,"id":"alpha","spec":{"name":"Alpha"}}`)
	writeAsset(t, dir, "beta.json", `{"version":1,"id":"beta","spec":{"name":"Beta"}}`)
	writeAsset(t, dir, "readme.txt", "not an asset")

	store, err := NewFileStore[*testSpec](dir)
	if err != nil {
		t.Fatalf("loading store: %v", err)
	}

	testutil.AssertEqual(t, "record count", len(store.GetAll()), 2)
	testutil.AssertEqual(t, "lookup", store.Get("alpha").Name, "Alpha")
	if store.Get("missing") != nil {
		t.Error("missing key should return the zero value")
	}
}

func TestFileStoreLoadsNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeAsset(t, sub, "gamma.json", `{"version":1,"id":"gamma","spec":{"name":"Gamma"}}`)

	store, err := NewFileStore[*testSpec](dir)
	if err != nil {
		t.Fatalf("loading store: %v", err)
	}
	testutil.AssertEqual(t, "nested record", store.Get("gamma").Name, "Gamma")
}

func TestFileStoreRejectsInvalidAssets(t *testing.T) {
	tests := map[string]struct {
		content string
		expErr  string
	}{
		"missing version": {
			content: `{"id":"alpha","spec":{"name":"Alpha"}}`,
			expErr:  "version",
		},
		"missing id": {
			content: `{"version":1,"spec":{"name":"Alpha"}}`,
			expErr:  "id",
		},
		"bad identifier characters": {
			content: `{"version":1,"id":"not ok!","spec":{"name":"Alpha"}}`,
			expErr:  "alphanumeric",
		},
		"failing spec validation": {
			content: `{"version":1,"id":"alpha","spec":{"name":"Alpha","broken":true}}`,
			expErr:  "broken",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeAsset(t, dir, "asset.json", tt.content)

			_, err := NewFileStore[*testSpec](dir)
			if err == nil {
				t.Fatal("expected a load error")
			}
			if !strings.Contains(err.Error(), tt.expErr) {
				t.Errorf("error %q does not mention %q", err, tt.expErr)
			}
		})
	}
}

func TestFileStoreRejectsDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "a.json", `{"version":1,"id":"alpha","spec":{"name":"A"}}`)
	writeAsset(t, dir, "b.json", `{"version":1,"id":"alpha","spec":{"name":"B"}}`)

	_, err := NewFileStore[*testSpec](dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}
