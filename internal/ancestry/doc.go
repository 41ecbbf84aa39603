// Package ancestry resolves, for every local branch of a repository, the
// nearest other branch containing the first parent of its tip.
//
// The result is a Forest: one Edge per listed branch, in listing order.
// Per-branch lookup failures never abort a resolution; the branch is
// reported as a root and the reason is recorded in the Result diagnostics.
// Only a failure to list branches is fatal.
//
// Forests are exchanged as text, one edge per line:
//
//	main
//	develop main
//	feature/x develop
//
// Encode and Parse implement that format.
package ancestry
