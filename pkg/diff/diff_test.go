package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedIdenticalIsEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Unified("a\nb\n", "a\nb\n", "before", "after"))
}

func TestUnifiedLineChanges(t *testing.T) {
	t.Parallel()

	before := "header\n  Home\n  Library\nfooter\n"
	after := "header\n  Home\n  Store\nfooter\n"
	out := Unified(before, after, "default", "neon")

	assert.True(t, strings.HasPrefix(out, "--- default\n+++ neon\n@@ -1,4 +1,4 @@\n"))
	assert.Contains(t, out, " header\n")
	assert.Contains(t, out, "-  Library\n")
	assert.Contains(t, out, "+  Store\n")
	assert.Contains(t, out, " footer\n")
	assert.NotContains(t, out, "-  Home")
}

func TestUnifiedAppend(t *testing.T) {
	t.Parallel()

	out := Unified("a\n", "a\nb\n", "x", "y")
	assert.Contains(t, out, " a\n+b\n")
}

func TestUnifiedTruncatesHugeDiffs(t *testing.T) {
	t.Parallel()

	var before, after strings.Builder
	for i := 0; i < maxDiffLines; i++ {
		before.WriteString("old\n")
		after.WriteString("new\n")
	}
	out := Unified(before.String(), after.String(), "a", "b")
	assert.True(t, strings.HasSuffix(out, truncateMessage+"\n"))
}

func TestStats(t *testing.T) {
	t.Parallel()

	added, removed := Stats("a\nb\nc\n", "a\nx\ny\nc\n")
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, removed)
}
