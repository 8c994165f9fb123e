package history

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testClock hands out strictly increasing timestamps so record ordering
// is deterministic.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func openTestStore(t *testing.T, max int) *Store {
	t.Helper()
	s, err := OpenWithClock(t.TempDir(), max, newTestClock().now)
	require.NoError(t, err)
	return s
}

const doc = "/home/writer/draft.md"

// ============================================================================
// Record / read back
// ============================================================================

func TestRecordAndReadBack(t *testing.T) {
	s := openTestStore(t, 10)

	require.NoError(t, s.Record(doc, "one two three"))

	versions, err := s.Versions(doc)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	require.Equal(t, 3, versions[0].WordCount)

	content, err := s.Content(doc, versions[0])
	require.NoError(t, err)
	require.Equal(t, "one two three", content)
}

func TestVersionsNewestFirst(t *testing.T) {
	s := openTestStore(t, 10)

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, s.Record(doc, content))
	}

	versions, err := s.Versions(doc)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	got := make([]string, 0, 3)
	for _, rec := range versions {
		content, err := s.Content(doc, rec)
		require.NoError(t, err)
		got = append(got, content)
	}
	require.Equal(t, []string{"third", "second", "first"}, got)
	require.True(t, versions[0].Timestamp.After(versions[2].Timestamp))
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	clock := newTestClock()

	s, err := OpenWithClock(dir, 10, clock.now)
	require.NoError(t, err)
	require.NoError(t, s.Record(doc, "persisted content"))

	reopened, err := OpenWithClock(dir, 10, clock.now)
	require.NoError(t, err)
	versions, err := reopened.Versions(doc)
	require.NoError(t, err)
	require.Len(t, versions, 1)

	content, err := reopened.Content(doc, versions[0])
	require.NoError(t, err)
	require.Equal(t, "persisted content", content)
}

func TestStoresArePerDocument(t *testing.T) {
	s := openTestStore(t, 10)
	require.NoError(t, s.Record("/a.md", "alpha"))
	require.NoError(t, s.Record("/b.md", "beta"))

	n, err := s.Count("/a.md")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	versions, err := s.Versions("/b.md")
	require.NoError(t, err)
	content, err := s.Content("/b.md", versions[0])
	require.NoError(t, err)
	require.Equal(t, "beta", content)
}

// ============================================================================
// Eviction
// ============================================================================

func TestEvictionKeepsNewest(t *testing.T) {
	const max = 3
	s := openTestStore(t, max)

	for _, content := range []string{"v1", "v2", "v3", "v4", "v5"} {
		require.NoError(t, s.Record(doc, content))
	}

	versions, err := s.Versions(doc)
	require.NoError(t, err)
	require.Len(t, versions, max)

	got := make([]string, 0, max)
	for _, rec := range versions {
		content, err := s.Content(doc, rec)
		require.NoError(t, err)
		got = append(got, content)
	}
	require.Equal(t, []string{"v5", "v4", "v3"}, got)

	// Timestamps stay strictly descending after compaction.
	for i := 1; i < len(versions); i++ {
		require.True(t, versions[i-1].Timestamp.After(versions[i].Timestamp))
	}
}

func TestEvictionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	clock := newTestClock()

	s, err := OpenWithClock(dir, 2, clock.now)
	require.NoError(t, err)
	for _, content := range []string{"v1", "v2", "v3", "v4"} {
		require.NoError(t, s.Record(doc, content))
	}

	reopened, err := OpenWithClock(dir, 2, clock.now)
	require.NoError(t, err)
	versions, err := reopened.Versions(doc)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	content, err := reopened.Content(doc, versions[0])
	require.NoError(t, err)
	require.Equal(t, "v4", content)
}

// ============================================================================
// Corruption
// ============================================================================

func TestCorruptRecordIsSkipped(t *testing.T) {
	dir := t.TempDir()
	clock := newTestClock()

	s, err := OpenWithClock(dir, 10, clock.now)
	require.NoError(t, err)
	require.NoError(t, s.Record(doc, "good one"))
	require.NoError(t, s.Record(doc, "will be corrupted"))
	require.NoError(t, s.Record(doc, "good two"))

	// Flip payload bytes of the middle record on disk.
	versions, err := s.Versions(doc)
	require.NoError(t, err)
	middle := versions[1]
	file := s.logFile(doc)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	for i := 0; i < middle.payloadLen; i++ {
		data[int(middle.payloadOff)+i] ^= 0xFF
	}
	require.NoError(t, os.WriteFile(file, data, 0o600))

	reopened, err := OpenWithClock(dir, 10, clock.now)
	require.NoError(t, err)
	got, err := reopened.Versions(doc)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first, err := reopened.Content(doc, got[1])
	require.NoError(t, err)
	require.Equal(t, "good one", first)
	last, err := reopened.Content(doc, got[0])
	require.NoError(t, err)
	require.Equal(t, "good two", last)
}

func TestTruncatedTrailingRecordIsSkipped(t *testing.T) {
	dir := t.TempDir()
	clock := newTestClock()

	s, err := OpenWithClock(dir, 10, clock.now)
	require.NoError(t, err)
	require.NoError(t, s.Record(doc, "complete record"))
	require.NoError(t, s.Record(doc, "this one gets truncated"))

	file := s.logFile(doc)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, data[:len(data)-3], 0o600))

	reopened, err := OpenWithClock(dir, 10, clock.now)
	require.NoError(t, err)
	versions, err := reopened.Versions(doc)
	require.NoError(t, err)
	require.Len(t, versions, 1)

	content, err := reopened.Content(doc, versions[0])
	require.NoError(t, err)
	require.Equal(t, "complete record", content)
}

// ============================================================================
// ContentDiffers / Restore
// ============================================================================

func TestContentDiffers(t *testing.T) {
	s := openTestStore(t, 10)

	require.True(t, s.ContentDiffers(doc, "anything"))

	require.NoError(t, s.Record(doc, "original"))
	require.False(t, s.ContentDiffers(doc, "original"))
	require.True(t, s.ContentDiffers(doc, "modified"))
}

func TestRestoreSnapshotsCurrentFirst(t *testing.T) {
	s := openTestStore(t, 10)

	require.NoError(t, s.Record(doc, "old draft"))
	versions, err := s.Versions(doc)
	require.NoError(t, err)

	restored, err := s.Restore(doc, versions[0], "current work in progress")
	require.NoError(t, err)
	require.Equal(t, "old draft", restored)

	// The pre-restore content became the newest record.
	versions, err = s.Versions(doc)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	newest, err := s.Content(doc, versions[0])
	require.NoError(t, err)
	require.Equal(t, "current work in progress", newest)
}

// ============================================================================
// Diff
// ============================================================================

func TestDiffAdditionsAndDeletions(t *testing.T) {
	old := "line 1\nline 2\nline 3\n"
	new := "line 1\nchanged\nline 3\nline 4\n"

	lines := Diff(old, new)
	require.Contains(t, lines, DiffLine{Op: OpDelete, Text: "line 2"})
	require.Contains(t, lines, DiffLine{Op: OpInsert, Text: "changed"})
	require.Contains(t, lines, DiffLine{Op: OpInsert, Text: "line 4"})
	require.Contains(t, lines, DiffLine{Op: OpEqual, Text: "line 1"})
}

func TestDiffEqualContents(t *testing.T) {
	lines := Diff("same\ntext\n", "same\ntext\n")
	for _, l := range lines {
		require.Equal(t, OpEqual, l.Op)
	}
}
