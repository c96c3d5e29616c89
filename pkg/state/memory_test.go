package state_test

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-validator/pkg/state"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := state.NewMemoryStore()

	store.Set("profile.name", "Ada")
	store.Set("profile.address.city", "London")

	value, ok := store.Get("profile.name")
	if !ok || value != "Ada" {
		t.Fatalf("expected Ada, got %v (ok=%v)", value, ok)
	}
	value, ok = store.Get("profile.address.city")
	if !ok || value != "London" {
		t.Fatalf("expected London, got %v (ok=%v)", value, ok)
	}
	if _, ok := store.Get("profile.missing"); ok {
		t.Fatal("expected missing path to report not set")
	}
	if _, ok := store.Get("profile.name.nested"); ok {
		t.Fatal("expected path through scalar to report not set")
	}
}

func TestMemoryStoreGetWholeTree(t *testing.T) {
	store := state.NewMemoryStore()
	store.Set("a.b", 1)

	raw, ok := store.Get("")
	if !ok {
		t.Fatal("expected root read to succeed")
	}
	tree, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("expected map root, got %T", raw)
	}
	nested, ok := tree["a"].(map[string]any)
	if !ok || nested["b"] != 1 {
		t.Fatalf("unexpected tree: %#v", tree)
	}
}

func TestMemoryStoreSetEach(t *testing.T) {
	store := state.NewMemoryStore()
	store.SetEach("user", map[string]any{
		"name": "Ada",
		"age":  36,
	})

	if value, _ := store.Get("user.name"); value != "Ada" {
		t.Fatalf("expected Ada, got %v", value)
	}
	if value, _ := store.Get("user.age"); value != 36 {
		t.Fatalf("expected 36, got %v", value)
	}
}

func TestMemoryStoreDel(t *testing.T) {
	store := state.NewMemoryStore()
	store.Set("a.b", 1)
	store.Set("a.c", 2)

	store.Del("a.b")
	if _, ok := store.Get("a.b"); ok {
		t.Fatal("expected a.b to be removed")
	}
	if value, _ := store.Get("a.c"); value != 2 {
		t.Fatalf("expected sibling to survive, got %v", value)
	}

	// Deleting a missing path is a no-op.
	store.Del("a.missing.deep")
}

func TestMemoryStorePush(t *testing.T) {
	store := state.NewMemoryStore()
	store.Push("tags", "a")
	store.Push("tags", "b")

	raw, _ := store.Get("tags")
	tags, ok := raw.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", raw)
	}
	if !reflect.DeepEqual(tags, []any{"a", "b"}) {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestMemoryStoreIncrement(t *testing.T) {
	store := state.NewMemoryStore()
	if got := store.Increment("serial"); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := store.Increment("serial"); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if value, _ := store.Get("serial"); value != 2 {
		t.Fatalf("expected stored 2, got %v", value)
	}
}

func TestMemoryStoreOnChange(t *testing.T) {
	store := state.NewMemoryStore()

	var paths []string
	unsubscribe := store.OnChange("profile", func(path string, _ any) {
		paths = append(paths, path)
	})

	store.Set("profile.name", "Ada")
	store.Set("other.name", "Bob")
	store.Set("profile", map[string]any{"name": "Eve"})

	want := []string{"profile.name", "profile"}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}

	unsubscribe()
	store.Set("profile.name", "Mallory")
	if len(paths) != 2 {
		t.Fatalf("expected no notifications after unsubscribe, got %v", paths)
	}
}

func TestMemoryStoreOnChangeAncestorMutation(t *testing.T) {
	store := state.NewMemoryStore()

	fired := 0
	store.OnChange("a.b.c", func(string, any) { fired++ })

	// Rewriting an ancestor rewrites the subscribed path too.
	store.Set("a", map[string]any{"b": map[string]any{"c": 1}})
	if fired != 1 {
		t.Fatalf("expected ancestor write to notify, fired=%d", fired)
	}
}

func TestScopedStore(t *testing.T) {
	store := state.NewMemoryStore()
	scope := store.Scope("form.profile")

	scope.Set("name", "Ada")
	if value, _ := store.Get("form.profile.name"); value != "Ada" {
		t.Fatalf("expected write through scope, got %v", value)
	}
	if value, _ := scope.Get("name"); value != "Ada" {
		t.Fatalf("expected scoped read, got %v", value)
	}
	if scope.Root() != "form.profile" {
		t.Fatalf("unexpected root: %q", scope.Root())
	}

	child := scope.Scope("address")
	child.Set("city", "London")
	if value, _ := store.Get("form.profile.address.city"); value != "London" {
		t.Fatalf("expected nested scope write, got %v", value)
	}
}

func TestScopedStoreOnChangeRelativePaths(t *testing.T) {
	store := state.NewMemoryStore()
	scope := store.Scope("form")

	var got string
	scope.OnChange("profile", func(path string, _ any) {
		got = path
	})

	store.Set("form.profile.name", "Ada")
	if got != "profile.name" {
		t.Fatalf("expected scope-relative path, got %q", got)
	}
}

func TestScopedStoreAt(t *testing.T) {
	store := state.NewMemoryStore()
	entity := store.At("user-1")
	entity.Set("name", "Ada")

	if value, _ := store.Get("user-1.name"); value != "Ada" {
		t.Fatalf("expected entity write, got %v", value)
	}
}

func TestMemoryStoreID(t *testing.T) {
	store := state.NewMemoryStore()
	a := store.ID()
	b := store.ID()
	if a == "" || b == "" || a == b {
		t.Fatalf("expected fresh unique identifiers, got %q and %q", a, b)
	}
}

func TestJoinSplitPath(t *testing.T) {
	if got := state.JoinPath("", "a.b"); got != "a.b" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := state.JoinPath("a", ""); got != "a" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := state.JoinPath("a", "b"); got != "a.b" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := state.SplitPath(""); got != nil {
		t.Fatalf("expected nil segments, got %v", got)
	}
	if got := state.SplitPath("a.b.c"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected segments: %v", got)
	}
}
