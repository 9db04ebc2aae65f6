package filter

import (
	"strings"

	"github.com/diskx/diskx/internal/tree"
)

// Matches reports whether id's name contains query as a case-insensitive
// substring, or any descendant does (spec.md §4.7 "Search"). The match
// is a pure projection; the tree is never mutated.
func Matches(tr *tree.Tree, id tree.NodeID, queryLower string) bool {
	if queryLower == "" {
		return true
	}
	node, ok := tr.GetNode(id)
	if !ok {
		return false
	}
	if strings.Contains(node.NameLower, queryLower) {
		return true
	}
	for _, child := range tr.GetChildren(id) {
		if Matches(tr, child, queryLower) {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether a non-directory node's extension maps
// to category. Directories never match by themselves; see
// HasDescendantInCategory.
func MatchesCategory(node tree.FileNode, category Category) bool {
	if category == CategoryAll {
		return true
	}
	if node.IsDir {
		return false
	}
	return CategoryForExtension(node.Extension) == category
}

// HasDescendantInCategory reports whether id transitively contains at
// least one file whose extension maps to category (spec.md §4.6
// "Filtering", §4.7).
func HasDescendantInCategory(tr *tree.Tree, id tree.NodeID, category Category) bool {
	if category == CategoryAll {
		return true
	}
	node, ok := tr.GetNode(id)
	if !ok {
		return false
	}
	if !node.IsDir {
		return MatchesCategory(node, category)
	}
	for _, child := range tr.GetChildren(id) {
		if HasDescendantInCategory(tr, child, category) {
			return true
		}
	}
	return false
}
