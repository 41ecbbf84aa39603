package ancestry

import (
	"fmt"
	"strings"

	"branchforest.dev/branchforest/internal/git"
)

// Edge links a branch to its parent branch. An empty Parent marks a root.
type Edge struct {
	Branch git.BranchName
	Parent git.BranchName
}

// IsRoot reports whether the branch has no parent branch
func (e Edge) IsRoot() bool {
	return e.Parent == ""
}

// String returns the wire form of the edge: "branch" or "branch parent"
func (e Edge) String() string {
	if e.IsRoot() {
		return string(e.Branch)
	}
	return string(e.Branch) + " " + string(e.Parent)
}

// Forest is the ordered list of edges, one per branch
type Forest []Edge

// Branches returns the branch of every edge, in order
func (f Forest) Branches() []git.BranchName {
	out := make([]git.BranchName, len(f))
	for i, edge := range f {
		out[i] = edge.Branch
	}
	return out
}

// ParentOf returns the parent of branch and whether the branch is in the forest
func (f Forest) ParentOf(branch git.BranchName) (git.BranchName, bool) {
	for _, edge := range f {
		if edge.Branch == branch {
			return edge.Parent, true
		}
	}
	return "", false
}

// ChildrenOf returns the branches whose parent is branch, in forest order
func (f Forest) ChildrenOf(branch git.BranchName) []git.BranchName {
	var children []git.BranchName
	for _, edge := range f {
		if edge.Parent == branch {
			children = append(children, edge.Branch)
		}
	}
	return children
}

// Roots returns the branches without a parent, in forest order
func (f Forest) Roots() []git.BranchName {
	var roots []git.BranchName
	for _, edge := range f {
		if edge.IsRoot() {
			roots = append(roots, edge.Branch)
		}
	}
	return roots
}

// Unrooted returns the branches whose parent chain never reaches a root, in forest order.
// With native tie-break, branches sharing a tip can name each other as parents.
func (f Forest) Unrooted() []git.BranchName {
	parents := make(map[git.BranchName]git.BranchName, len(f))
	for _, edge := range f {
		parents[edge.Branch] = edge.Parent
	}

	var unrooted []git.BranchName
	for _, edge := range f {
		visited := map[git.BranchName]bool{}
		branch := edge.Branch
		for {
			parent, ok := parents[branch]
			if !ok || visited[branch] {
				unrooted = append(unrooted, edge.Branch)
				break
			}
			if parent == "" {
				break
			}
			visited[branch] = true
			branch = parent
		}
	}
	return unrooted
}

// Encode serializes the forest as newline-joined edges without a trailing newline
func Encode(f Forest) string {
	lines := make([]string, len(f))
	for i, edge := range f {
		lines[i] = edge.String()
	}
	return strings.Join(lines, "\n")
}

// Parse reads the text produced by Encode.
// It accepts LF and CRLF line endings, ignores blank lines and surrounding
// whitespace, and rejects lines with more than two tokens or repeated branches.
func Parse(text string) (Forest, error) {
	var forest Forest
	seen := make(map[git.BranchName]bool)

	for i, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: expected \"branch\" or \"branch parent\", got %q", i+1, strings.TrimSpace(line))
		}

		edge := Edge{Branch: git.BranchName(fields[0])}
		if len(fields) == 2 {
			edge.Parent = git.BranchName(fields[1])
		}
		if edge.Parent == edge.Branch {
			return nil, fmt.Errorf("line %d: branch %s is its own parent", i+1, edge.Branch)
		}
		if seen[edge.Branch] {
			return nil, fmt.Errorf("line %d: duplicate branch %s", i+1, edge.Branch)
		}
		seen[edge.Branch] = true

		forest = append(forest, edge)
	}

	return forest, nil
}
