package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const samplePages = `pages:
  - slug: about
    title: About Maplewick
    body: Furniture built to last.
  - slug: delivery
    title: Delivery
    body: White-glove delivery on all orders.
    sections:
      - heading: Lead times
        body: Most pieces ship within two weeks.
`

func writePagesFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pages.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing pages file: %v", err)
	}
	return path
}

func TestNewStoreLoadsPages(t *testing.T) {
	t.Parallel()

	store, err := NewStore(writePagesFile(t, samplePages), nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	page, err := store.Page("delivery")
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if page.Title != "Delivery" || len(page.Sections) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}

	if slugs := store.Slugs(); len(slugs) != 2 || slugs[0] != "about" {
		t.Fatalf("Slugs() = %v", slugs)
	}
}

func TestPageLookupIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	store, err := NewStore(writePagesFile(t, samplePages), nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := store.Page("  About "); err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if _, err := store.Page("careers"); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("Page() error = %v, want ErrPageNotFound", err)
	}
}

func TestReloadKeepsOldPagesOnFailure(t *testing.T) {
	t.Parallel()

	path := writePagesFile(t, samplePages)
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("pages: [not: valid: yaml"), 0o600); err != nil {
		t.Fatalf("rewriting pages file: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatalf("expected reload error for broken file")
	}

	if _, err := store.Page("about"); err != nil {
		t.Fatalf("previous pages were dropped: %v", err)
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	t.Parallel()

	path := writePagesFile(t, samplePages)
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	updated := samplePages + `  - slug: returns
    title: Returns
    body: Thirty-day returns on stocked items.
`
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewriting pages file: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if _, err := store.Page("returns"); err != nil {
		t.Fatalf("Page() error = %v", err)
	}
}

func TestReloadNotifiesSubscribersAndBumpsVersion(t *testing.T) {
	t.Parallel()

	path := writePagesFile(t, samplePages)
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	sub := store.Subscribe()
	before := store.Version()

	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	select {
	case <-sub:
	default:
		t.Fatalf("expected reload signal on subscription channel")
	}
	if store.Version() != before+1 {
		t.Fatalf("Version() = %d, want %d", store.Version(), before+1)
	}

	// A failed reload must not notify or bump the version.
	if err := os.WriteFile(path, []byte("pages: [broken"), 0o600); err != nil {
		t.Fatalf("rewriting pages file: %v", err)
	}
	_ = store.Reload()
	select {
	case <-sub:
		t.Fatalf("failed reload must not notify subscribers")
	default:
	}
}

func TestNewStoreRejectsDuplicateSlugs(t *testing.T) {
	t.Parallel()

	duplicated := `pages:
  - slug: about
    title: About
    body: one
  - slug: About
    title: About again
    body: two
`
	if _, err := NewStore(writePagesFile(t, duplicated), nil); err == nil {
		t.Fatalf("expected error for duplicate slugs")
	}
}
