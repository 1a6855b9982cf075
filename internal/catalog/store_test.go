package catalog

import (
	"testing"
	"time"
)

func TestStoreRejectsDuplicatePublicID(t *testing.T) {
	t.Parallel()

	store := NewStore()
	if !store.Add(Photo{ID: "a", PublicID: "tilestudio/one"}) {
		t.Fatal("first add should succeed")
	}
	if store.Add(Photo{ID: "b", PublicID: "tilestudio/one"}) {
		t.Fatal("second add with same public id should be rejected")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 photo, got %d", store.Len())
	}
}

func TestStoreListSortsNewestFirstAndFilters(t *testing.T) {
	t.Parallel()

	store := NewStore()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	store.Add(Photo{ID: "old", Category: "kitchen", CreatedAt: base})
	store.Add(Photo{ID: "new", Category: "kitchen", CreatedAt: base.Add(time.Hour)})
	store.Add(Photo{ID: "bath", Category: "bathroom", CreatedAt: base.Add(2 * time.Hour)})

	all := store.List("")
	if len(all) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(all))
	}
	if all[0].ID != "bath" || all[1].ID != "new" || all[2].ID != "old" {
		t.Fatalf("unexpected order: %s %s %s", all[0].ID, all[1].ID, all[2].ID)
	}

	kitchen := store.List("kitchen")
	if len(kitchen) != 2 {
		t.Fatalf("expected 2 kitchen photos, got %d", len(kitchen))
	}
	for _, p := range kitchen {
		if p.Category != "kitchen" {
			t.Fatalf("filter leaked category %q", p.Category)
		}
	}
}

func TestStoreRemoveReindexes(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Add(Photo{ID: "a", PublicID: "p/a"})
	store.Add(Photo{ID: "b", PublicID: "p/b"})
	store.Add(Photo{ID: "c", PublicID: "p/c"})

	if !store.Remove("b") {
		t.Fatal("remove should succeed")
	}
	if store.Remove("b") {
		t.Fatal("double remove should fail")
	}
	if store.HasPublicID("p/b") {
		t.Fatal("public id should be released on remove")
	}
	if _, ok := store.Get("c"); !ok {
		t.Fatal("remaining photo should still be addressable")
	}
	// released public id can be re-added
	if !store.Add(Photo{ID: "b2", PublicID: "p/b"}) {
		t.Fatal("re-adding released public id should succeed")
	}
}

func TestStoreUpdateMutatesInPlace(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Add(Photo{ID: "a", Title: "before"})

	updated, ok := store.Update("a", func(p *Photo) { p.Title = "after" })
	if !ok || updated.Title != "after" {
		t.Fatalf("update failed: ok=%v title=%q", ok, updated.Title)
	}
	got, _ := store.Get("a")
	if got.Title != "after" {
		t.Fatalf("store did not persist update, title=%q", got.Title)
	}

	if _, ok := store.Update("missing", func(p *Photo) {}); ok {
		t.Fatal("update of missing id should report false")
	}
}

func TestStoreReadsDetachTagSlices(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Add(Photo{ID: "a", Tags: []string{"kitchen", "marble"}})

	got, _ := store.Get("a")
	got.Tags[0] = "hijacked"
	again, _ := store.Get("a")
	if again.Tags[0] != "kitchen" {
		t.Fatalf("mutation through Get copy reached the store: %q", again.Tags[0])
	}

	listed := store.List("")
	listed[0].Tags[1] = "hijacked"
	again, _ = store.Get("a")
	if again.Tags[1] != "marble" {
		t.Fatalf("mutation through List copy reached the store: %q", again.Tags[1])
	}
}
