// Package testhelpers provides testing utilities for branchforest,
// including a scene system, Git repository helpers, a scripted ref store
// and custom assertions.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExpectLines asserts that text consists of exactly the expected lines, in order.
func ExpectLines(t *testing.T, text string, expected ...string) {
	t.Helper()
	require.Equal(t, strings.Join(expected, "\n"), text)
}
