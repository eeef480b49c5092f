package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/postvault/cmd/postvault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against dbPath and returns stdout and stderr.
func run(t *testing.T, dbPath string, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_PostLifecycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "postvault.db")
	file := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(file, []byte(postHTML), 0644))

	stdout, _, err := run(t, dbPath, "import", file, "--url", postURL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved: Post ("+postID+", 0 comments, 1 posts)")

	stdout, _, err = run(t, dbPath, "import", file, "--url", postURL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Already saved! (1 posts)")

	stdout, _, err = run(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, postID)
	assert.Contains(t, stdout, "Shipping a local archive")

	stdout, _, err = run(t, dbPath, "show", postID, "--markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, `post_id: "`+postID+`"`)
	assert.Contains(t, stdout, "#golang")

	stdout, _, err = run(t, dbPath, "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Posts:    1")

	out := filepath.Join(dir, "export")
	stdout, _, err = run(t, dbPath, "export", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 1 posts by 0 authors")
	assert.FileExists(t, filepath.Join(out, "posts.json"))
	assert.FileExists(t, filepath.Join(out, "feed.xml"))
	assert.NoFileExists(t, filepath.Join(out, "embeddings.json"))

	_, stderr, err := run(t, dbPath, "clear")
	require.Error(t, err)
	assert.Contains(t, stderr, "--force")

	stdout, _, err = run(t, dbPath, "clear", "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cleared 1 posts")

	stdout, _, err = run(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No posts saved")
}

func TestMain_Run_Config(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "postvault.db")

	stdout, _, err := run(t, dbPath, "config", "set", "embeddingProvider=openai", "apiKey=sk-abcdefghijklmnop")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved 2 settings")

	stdout, _, err = run(t, dbPath, "config", "get")
	require.NoError(t, err)
	assert.Equal(t, "apiKey=sk-a****mnop\nembeddingProvider=openai\n", stdout)

	_, _, err = run(t, dbPath, "config", "unset", "apiKey")
	require.NoError(t, err)

	stdout, _, err = run(t, dbPath, "config", "get", "apiKey")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No settings stored.")
}

func TestMain_Run_DBFlagOverridesPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.db")

	_, _, err := run(t, filepath.Join(dir, "default.db"), "--db", flagPath, "list")
	require.NoError(t, err)

	assert.FileExists(t, flagPath)
	assert.NoFileExists(t, filepath.Join(dir, "default.db"))
}

func TestMain_Run_ShowMissingPost(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, filepath.Join(t.TempDir(), "postvault.db"), "show", "404")
	require.Error(t, err)
	assert.Contains(t, stderr, `post "404" not found`)
}
