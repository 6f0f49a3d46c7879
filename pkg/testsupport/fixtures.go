// Package testsupport holds fixtures shared by the dialog and renderer tests.
package testsupport

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webdialog/pkg/i18n"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Catalog loads the embedded catalogs with "en" as default.
func Catalog(t testing.TB) *i18n.Catalog {
	t.Helper()

	catalog, err := i18n.Default(i18n.DefaultLocale)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

// Query builds page parameters from name/value pairs.
func Query(t testing.TB, pairs ...string) url.Values {
	t.Helper()

	if len(pairs)%2 != 0 {
		t.Fatalf("testsupport: query pairs must be even, got %d", len(pairs))
	}
	values := url.Values{}
	for i := 0; i < len(pairs); i += 2 {
		values.Add(pairs[i], pairs[i+1])
	}
	return values
}

// ParseHTML parses a document or fragment for selector assertions.
func ParseHTML(t testing.TB, markup []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the golden file at path, ignoring one
// trailing newline on either side.
func AssertGolden(t testing.TB, path string, got []byte) {
	t.Helper()
	if WriteMaybeGolden(t, path, got) {
		return
	}
	want := bytes.TrimSuffix(MustReadGolden(t, path), []byte("\n"))
	got = bytes.TrimSuffix(got, []byte("\n"))
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}
