package validator

import (
	"testing"

	"github.com/goliatone/go-validator/pkg/state"
)

func newChangeFixture(t *testing.T) (*Validator, state.Store) {
	t.Helper()
	store := state.NewMemoryStore()
	origin := state.NewMemoryStore()
	origin.SetEach("", map[string]any{
		"id":   "user-1",
		"name": "Ada",
	})

	v, err := New(store.Scope("form"),
		WithOrigin(origin),
		WithFields(map[string]FieldSpec{
			"name": {Validations: []Validation{{Rule: "required"}}},
			"bio":  {Default: "hello"},
		}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(v.Teardown)
	return v, origin
}

func TestChangeTrackingAgainstOriginBaseline(t *testing.T) {
	v, _ := newChangeFixture(t)

	if getBool(t, v, "name.hasChanged") || getBool(t, v, "hasChangedFields") {
		t.Fatal("expected clean state after setup")
	}

	v.model.Set("name.value", "Bob")
	if !getBool(t, v, "name.hasChanged") {
		t.Fatal("expected divergence from origin baseline")
	}
	if !getBool(t, v, "hasChangedFields") {
		t.Fatal("expected global change flag raised")
	}

	// Writing the baseline value back clears the divergence.
	v.model.Set("name.value", "Ada")
	if getBool(t, v, "name.hasChanged") {
		t.Fatal("expected flag cleared on return to baseline")
	}
	if getBool(t, v, "hasChangedFields") {
		t.Fatal("expected global flag cleared")
	}
}

func TestChangeTrackingAgainstDefaultBaseline(t *testing.T) {
	v, _ := newChangeFixture(t)

	// bio is absent from origin; its spec default is the baseline.
	v.model.Set("bio.value", "hello")
	if getBool(t, v, "bio.hasChanged") {
		t.Fatal("expected default value to count as unchanged")
	}
	v.model.Set("bio.value", "updated")
	if !getBool(t, v, "bio.hasChanged") {
		t.Fatal("expected divergence from default baseline")
	}
}

func TestGlobalChangeFlagHoldsWhileAnyFieldDiverges(t *testing.T) {
	v, _ := newChangeFixture(t)

	v.model.Set("name.value", "Bob")
	v.model.Set("bio.value", "updated")
	v.model.Set("name.value", "Ada")

	if getBool(t, v, "name.hasChanged") {
		t.Fatal("expected name back at baseline")
	}
	if !getBool(t, v, "hasChangedFields") {
		t.Fatal("expected global flag held by bio")
	}

	v.model.Set("bio.value", "hello")
	if getBool(t, v, "hasChangedFields") {
		t.Fatal("expected global flag cleared once every field is back")
	}
}

func TestChangeTrackingDeepEquality(t *testing.T) {
	store := state.NewMemoryStore()
	origin := state.NewMemoryStore()
	origin.Set("prefs", map[string]any{"theme": "dark"})
	origin.Set("id", "user-1")

	v, err := New(store.Scope("form"),
		WithOrigin(origin),
		WithFields(map[string]FieldSpec{"prefs": {}}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(v.Teardown)

	// An equal but distinct map is not a change.
	v.model.Set("prefs.value", map[string]any{"theme": "dark"})
	if getBool(t, v, "prefs.hasChanged") {
		t.Fatal("expected deep-equal value to count as unchanged")
	}
	v.model.Set("prefs.value", map[string]any{"theme": "light"})
	if !getBool(t, v, "prefs.hasChanged") {
		t.Fatal("expected differing map to count as changed")
	}
}

func TestTeardownStopsChangeTracking(t *testing.T) {
	v, _ := newChangeFixture(t)
	v.Teardown()

	v.model.Set("name.value", "Bob")
	if getBool(t, v, "name.hasChanged") {
		t.Fatal("expected no tracking after teardown")
	}
}
