package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTargets(t *testing.T) {
	path := writeTemp(t, "profiles.csv",
		"profile,max_posts\n"+
			"jane-doe,10\n"+
			"https://www.linkedin.com/in/john-doe/,5\n"+
			"bad profile!!,3\n"+
			"no-count,\n")

	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 3, "invalid rows are skipped, not fatal")

	assert.Equal(t, "jane-doe", targets[0].ProfileID)
	assert.Equal(t, 10, targets[0].MaxPosts)
	assert.Equal(t, "https://www.linkedin.com/in/john-doe/", targets[1].ProfileID)
	assert.Equal(t, 5, targets[1].MaxPosts)
	assert.Equal(t, 25, targets[2].MaxPosts, "missing count falls back to the default")
}

func TestLoadTargets_BOM(t *testing.T) {
	path := writeTemp(t, "profiles.csv", "\ufeffprofile,max_posts\njane-doe,10\n")
	targets, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "jane-doe", targets[0].ProfileID)
}

func TestLoadTargets_MissingFile(t *testing.T) {
	_, err := LoadTargets(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadStopwords(t *testing.T) {
	path := writeTemp(t, "stopwords.csv", "word\nLinkedIn\n follow \n\n")
	words, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"linkedin", "follow"}, words)
}
