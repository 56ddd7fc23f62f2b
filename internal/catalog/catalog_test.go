package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"baraholka/internal/catalog"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax := catalog.Default()
	if len(tax.Categories()) == 0 {
		t.Fatal("built-in taxonomy is empty")
	}
	if !tax.HasSubcategories("electronics") {
		t.Fatal("electronics should declare subcategories")
	}
	if tax.HasSubcategories("no-such-category") {
		t.Fatal("unknown category must not report subcategories")
	}
	if got := tax.CategoryName("electronics"); got != "Техника" {
		t.Fatalf("got %q", got)
	}
	if got := tax.SubcategoryName("electronics", "phones"); got != "Телефоны" {
		t.Fatalf("got %q", got)
	}
	// Unknown ids fall back to the raw id.
	if got := tax.CategoryName("mystery"); got != "mystery" {
		t.Fatalf("got %q", got)
	}
	if got := tax.SubcategoryName("electronics", "mystery"); got != "mystery" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	yaml := `
- id: books
  name: Книги
  subcategories:
    - id: fiction
      name: Художественная литература
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	tax, err := catalog.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tax.Categories()) != 1 || !tax.HasSubcategories("books") {
		t.Fatalf("override not applied: %+v", tax.Categories())
	}
	if got := tax.SubcategoryName("books", "fiction"); got != "Художественная литература" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadRejectsEmptyAndMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.Load(path); err == nil {
		t.Fatal("empty taxonomy must be rejected")
	}
	if _, err := catalog.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file must error")
	}
}
