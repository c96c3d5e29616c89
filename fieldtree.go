package validator

import (
	"reflect"
	"strings"
)

// fieldTree marks which positions of a nested value tree are owned leaf
// targets. Values are either a nested fieldTree or the bool leaf marker.
type fieldTree map[string]any

// buildFieldTree splits each dotted path and inserts intermediate nodes,
// marking the terminal segment as a leaf. A path that is both a leaf and a
// prefix of a longer path keeps the longer path's subtree; field specs do not
// nest one owned field inside another.
func buildFieldTree(paths []string) fieldTree {
	tree := fieldTree{}
	for _, path := range paths {
		segments := strings.Split(path, ".")
		node := tree
		for _, segment := range segments[:len(segments)-1] {
			child, ok := node[segment].(fieldTree)
			if !ok {
				child = fieldTree{}
				node[segment] = child
			}
			node = child
		}
		last := segments[len(segments)-1]
		if _, ok := node[last].(fieldTree); !ok {
			node[last] = true
		}
	}
	return tree
}

// leafFunc produces the projected value for an owned leaf at the given dotted
// path. Returning the second value false omits the key from the projection.
type leafFunc func(path string, value any) (any, bool)

// projectTree walks source under the recursion rules of the codec: keys the
// field tree does not map, or maps to the leaf marker's absence, copy
// verbatim; leaf-marked keys delegate to visit; mapped subtrees recurse.
// Inputs are never mutated; verbatim copies are deep clones.
func projectTree(source map[string]any, tree fieldTree, prefix string, visit leafFunc) map[string]any {
	out := make(map[string]any, len(source))
	for key, value := range source {
		path := joinPath(prefix, key)
		if tree == nil {
			out[key] = cloneValue(value)
			continue
		}
		switch node := tree[key].(type) {
		case bool:
			if projected, ok := visit(path, value); ok {
				out[key] = projected
			}
		case fieldTree:
			nested, ok := value.(map[string]any)
			if !ok {
				out[key] = cloneValue(value)
				continue
			}
			out[key] = projectTree(nested, node, path, visit)
		default:
			out[key] = cloneValue(value)
		}
	}
	return out
}

// flattenLeaves returns the dotted paths of every scalar leaf in tree,
// used to derive implicit field specs from an origin snapshot.
func flattenLeaves(tree map[string]any, prefix string) []string {
	var paths []string
	for key, value := range tree {
		path := joinPath(prefix, key)
		if nested, ok := value.(map[string]any); ok {
			paths = append(paths, flattenLeaves(nested, path)...)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}

// cloneValue deep copies plain nested structures (maps, slices) and returns
// scalars as-is. Origin data is assumed acyclic.
func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[key] = cloneValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = cloneValue(nested)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return value
	}
}

// equalValue is the deep comparison used by the change tracker.
func equalValue(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	return reflect.DeepEqual(a, b)
}
