package state

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is the reference Store implementation: a mutex-guarded nested
// map tree with synchronous change dispatch. A single MemoryStore backs every
// handle produced by Scope/At; handles share data and subscriptions.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]any
	subs   map[int]*subscription
	nextID int
}

type subscription struct {
	pattern string
	handler ChangeHandler
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: map[string]any{},
		subs: map[int]*subscription{},
	}
}

func (s *MemoryStore) Get(path string) (any, bool) { return s.get(path) }

func (s *MemoryStore) Set(path string, value any) { s.set(path, value) }

func (s *MemoryStore) SetEach(path string, values map[string]any) {
	for key, value := range values {
		s.set(JoinPath(path, key), value)
	}
}

func (s *MemoryStore) Del(path string) { s.del(path) }

func (s *MemoryStore) Push(path string, value any) { s.push(path, value) }

func (s *MemoryStore) Increment(path string) int { return s.increment(path) }

func (s *MemoryStore) OnChange(pattern string, handler ChangeHandler) Unsubscribe {
	return s.subscribe(pattern, handler)
}

func (s *MemoryStore) Scope(path string) Store {
	if path == "" {
		return s
	}
	return &scopedStore{root: s, prefix: path}
}

func (s *MemoryStore) At(id string) Store { return s.Scope(id) }

func (s *MemoryStore) ID() string { return uuid.NewString() }

func (s *MemoryStore) Root() string { return "" }

// scopedStore is a narrow view of a MemoryStore rooted at prefix.
type scopedStore struct {
	root   *MemoryStore
	prefix string
}

func (s *scopedStore) Get(path string) (any, bool) {
	return s.root.get(JoinPath(s.prefix, path))
}

func (s *scopedStore) Set(path string, value any) {
	s.root.set(JoinPath(s.prefix, path), value)
}

func (s *scopedStore) SetEach(path string, values map[string]any) {
	s.root.SetEach(JoinPath(s.prefix, path), values)
}

func (s *scopedStore) Del(path string) { s.root.del(JoinPath(s.prefix, path)) }

func (s *scopedStore) Push(path string, value any) {
	s.root.push(JoinPath(s.prefix, path), value)
}

func (s *scopedStore) Increment(path string) int {
	return s.root.increment(JoinPath(s.prefix, path))
}

func (s *scopedStore) OnChange(pattern string, handler ChangeHandler) Unsubscribe {
	prefix := s.prefix
	return s.root.subscribe(JoinPath(prefix, pattern), func(path string, value any) {
		handler(trimPrefix(prefix, path), value)
	})
}

func (s *scopedStore) Scope(path string) Store {
	if path == "" {
		return s
	}
	return &scopedStore{root: s.root, prefix: JoinPath(s.prefix, path)}
}

func (s *scopedStore) At(id string) Store { return s.Scope(id) }

func (s *scopedStore) ID() string { return s.root.ID() }

func (s *scopedStore) Root() string { return s.prefix }

func trimPrefix(prefix, path string) string {
	if prefix == "" || path == prefix {
		return ""
	}
	if len(path) > len(prefix)+1 && path[:len(prefix)+1] == prefix+"." {
		return path[len(prefix)+1:]
	}
	return path
}

func (s *MemoryStore) get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if path == "" {
		return s.data, true
	}
	node := any(s.data)
	for _, segment := range SplitPath(path) {
		tree, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = tree[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (s *MemoryStore) set(path string, value any) {
	if path == "" {
		if tree, ok := value.(map[string]any); ok {
			s.mu.Lock()
			s.data = tree
			s.mu.Unlock()
			s.notify(path, value)
		}
		return
	}
	s.mu.Lock()
	s.lockedSet(path, value)
	s.mu.Unlock()
	s.notify(path, value)
}

func (s *MemoryStore) del(path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	segments := SplitPath(path)
	node := s.data
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			s.mu.Unlock()
			return
		}
		node = child
	}
	last := segments[len(segments)-1]
	if _, ok := node[last]; !ok {
		s.mu.Unlock()
		return
	}
	delete(node, last)
	s.mu.Unlock()
	s.notify(path, nil)
}

func (s *MemoryStore) push(path string, value any) {
	s.mu.Lock()
	current, _ := s.lockedGet(path)
	list, _ := current.([]any)
	list = append(list, value)
	s.lockedSet(path, list)
	s.mu.Unlock()
	s.notify(path, list)
}

func (s *MemoryStore) increment(path string) int {
	s.mu.Lock()
	current, _ := s.lockedGet(path)
	count, _ := current.(int)
	count++
	s.lockedSet(path, count)
	s.mu.Unlock()
	s.notify(path, count)
	return count
}

func (s *MemoryStore) lockedGet(path string) (any, bool) {
	node := any(s.data)
	for _, segment := range SplitPath(path) {
		tree, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = tree[segment]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (s *MemoryStore) lockedSet(path string, value any) {
	segments := SplitPath(path)
	node := s.data
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

func (s *MemoryStore) subscribe(pattern string, handler ChangeHandler) Unsubscribe {
	if handler == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = &subscription{pattern: pattern, handler: handler}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify dispatches outside the store lock so handlers can read and write the
// store without deadlocking. Handlers run synchronously on the mutating
// goroutine, preserving mutation ordering per path.
func (s *MemoryStore) notify(path string, value any) {
	s.mu.RLock()
	var matched []*subscription
	for _, sub := range s.subs {
		if matchesPattern(sub.pattern, path) {
			matched = append(matched, sub)
		}
	}
	s.mu.RUnlock()
	for _, sub := range matched {
		sub.handler(path, value)
	}
}
