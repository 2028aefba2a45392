package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/freqdeck/internal/frequency"
	"codeberg.org/snonux/freqdeck/internal/language"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateCacheRoot creates a temporary cache root with the frequency and
// translation directories
func CreateCacheRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, dir := range []string{"frequency", "translations"} {
		path := filepath.Join(root, dir)
		if err := os.MkdirAll(path, 0755); err != nil {
			t.Fatalf("Failed to create test directory %s: %v", path, err)
		}
	}
	return root
}

// TaggedWord is a word with its category for NewDataset
type TaggedWord struct {
	Text string
	POS  language.PartOfSpeech
}

// NewDataset builds a dataset ranking words in the given order
func NewDataset(t *testing.T, code string, words ...TaggedWord) *frequency.Dataset {
	t.Helper()

	ds := frequency.NewDataset(code)
	for i, w := range words {
		err := ds.Add(frequency.Word{Text: w.Text, PartOfSpeech: w.POS, Rank: i + 1})
		if err != nil {
			t.Fatalf("Failed to add %q: %v", w.Text, err)
		}
	}
	return ds
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}
