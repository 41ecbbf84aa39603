// Package tui provides interactive terminal displays for branchforest,
// such as the spinner shown while branch parents are resolved.
package tui
