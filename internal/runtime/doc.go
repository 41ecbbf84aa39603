// Package runtime provides the execution context for branchforest commands.
//
// It encapsulates shared dependencies needed by commands, such as the
// selected repository, its effective settings, the ref store backend and
// the logger.
package runtime
