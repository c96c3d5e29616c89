package state

import "strings"

// ChangeHandler receives the path that mutated, relative to the handle the
// subscription was registered on, together with the new value. Del reports a
// nil value.
type ChangeHandler func(path string, value any)

// Unsubscribe removes a change subscription. Safe to call more than once.
type Unsubscribe func()

// Store is an observable, dotted-path addressed value tree.
//
// Handlers registered through OnChange fire after the mutation is visible to
// readers, on the mutating goroutine. A handler must not mutate paths matching
// its own pattern.
type Store interface {
	// Get reads the value at path. An empty path returns the whole subtree
	// rooted at this handle. The boolean reports whether the path is set.
	Get(path string) (any, bool)
	// Set writes value at path, creating intermediate nodes as needed.
	Set(path string, value any)
	// SetEach writes every entry of values under path.
	SetEach(path string, values map[string]any)
	// Del removes the value at path.
	Del(path string)
	// Push appends value to the array held at path, creating it when absent.
	Push(path string, value any)
	// Increment bumps the integer counter at path and returns the new value.
	Increment(path string) int
	// OnChange registers handler for every mutation at pattern or beneath it.
	// An empty pattern matches all mutations under this handle.
	OnChange(pattern string, handler ChangeHandler) Unsubscribe
	// Scope returns a handle rooted at path within this handle's tree.
	Scope(path string) Store
	// At returns a child handle for the entity identified by id.
	At(id string) Store
	// ID generates a fresh unique identifier.
	ID() string
	// Root reports the absolute path this handle is rooted at.
	Root() string
}

// JoinPath composes two dotted paths, tolerating empty segments.
func JoinPath(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	return prefix + "." + path
}

// SplitPath breaks a dotted path into its segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// matchesPattern reports whether a mutation at path should notify a
// subscription registered at pattern. A pattern matches itself, every
// descendant path, and every ancestor path (mutating "a" rewrites "a.b" too).
func matchesPattern(pattern, path string) bool {
	if pattern == "" || pattern == path {
		return true
	}
	if strings.HasPrefix(path, pattern+".") {
		return true
	}
	return strings.HasPrefix(pattern, path+".")
}
