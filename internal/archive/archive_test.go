package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/freqdeck/internal/testutil"
)

var archiveTime = time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC)

func populate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(root, "frequency", "hr_frequency.json"), []byte(`{"language":"hr"}`))
	testutil.CreateTestFile(t, filepath.Join(root, "translations", "hr_es.json"), []byte(`{"dan":"día"}`))
	return root
}

func TestArchiveCache(t *testing.T) {
	root := populate(t)

	path, err := ArchiveCache(root, archiveTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "archive", "cache-20260301-123045"), path)

	testutil.AssertFileNotExists(t, filepath.Join(root, "frequency"))
	testutil.AssertFileNotExists(t, filepath.Join(root, "translations"))
	testutil.AssertFileExists(t, filepath.Join(path, "frequency", "hr_frequency.json"))
	testutil.AssertFileExists(t, filepath.Join(path, "translations", "hr_es.json"))
}

func TestArchiveCacheTwiceInSameSecond(t *testing.T) {
	root := populate(t)
	first, err := ArchiveCache(root, archiveTime)
	require.NoError(t, err)

	testutil.CreateTestFile(t, filepath.Join(root, "translations", "hr_es.json"), []byte(`{}`))
	second, err := ArchiveCache(root, archiveTime)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	testutil.AssertFileExists(t, filepath.Join(second, "translations", "hr_es.json"))
}

func TestArchiveCacheNothingToArchive(t *testing.T) {
	_, err := ArchiveCache(t.TempDir(), archiveTime)
	assert.ErrorContains(t, err, "nothing to archive")
}

func TestClearCache(t *testing.T) {
	root := populate(t)
	_, err := ArchiveCache(root, archiveTime)
	require.NoError(t, err)
	testutil.CreateTestFile(t, filepath.Join(root, "frequency", "es_frequency.json"), []byte(`{}`))

	removed, err := ClearCache(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"frequency"}, removed)

	testutil.AssertFileNotExists(t, filepath.Join(root, "frequency"))
	_, err = os.Stat(filepath.Join(root, "archive"))
	assert.NoError(t, err, "archives survive a clear")
}

func TestClearCacheEmpty(t *testing.T) {
	removed, err := ClearCache(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, removed)
}
