package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albumview/pkg/testutils"
)

type result struct {
	out string
	err error
}

func execute(t *testing.T, srv *testutils.AlbumServer, stdin string, args ...string) result {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"config.yaml": "media:\n  cache_dir: " + filepath.Join(dir, "cache") + "\n",
	})
	base := []string{"--config", filepath.Join(dir, "config.yaml")}
	if srv != nil {
		base = append(base, "--server", srv.URL)
	}

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return result{out: testutils.StripANSI(out.String()), err: err}
}

func countRequests(srv *testutils.AlbumServer, prefix string) int {
	n := 0
	for _, r := range srv.Requests() {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func TestLsCommand(t *testing.T) {
	srv := testutils.NewAlbumServer(t)

	t.Run("text", func(t *testing.T) {
		res := execute(t, srv, "", "ls", "photos")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "2020/  1 files")
		assert.Contains(t, res.out, "A.jpg")
		assert.Contains(t, res.out, "C.mp4 [video]")
		assert.Contains(t, res.out, "2 directories, 3 files")
	})

	t.Run("json", func(t *testing.T) {
		res := execute(t, srv, "", "ls", "--json", "photos")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, `"has_any_video":true`)
		assert.Contains(t, res.out, `"path":"photos"`)
	})

	t.Run("missing path", func(t *testing.T) {
		res := execute(t, srv, "", "ls", "nowhere")
		assert.Error(t, res.err)
	})
}

func TestEncryptCommand(t *testing.T) {
	srv := testutils.NewAlbumServer(t)

	res := execute(t, srv, "", "encrypt", "photos/A.jpg", "photos/B.jpg")
	require.NoError(t, res.err)
	assert.Equal(t, 2, countRequests(srv, "GET /encrypt/"))
	assert.Contains(t, res.out, "2 ok, 0 failed")
}

func TestBatchCommandAcceptsThumbnailURLs(t *testing.T) {
	srv := testutils.NewAlbumServer(t)

	res := execute(t, srv, "", "shred", "--yes", srv.URL+"/thumbs/t/photos/A.jpg", "t/cat.jpg")
	require.NoError(t, res.err)
	assert.Equal(t, []string{"GET /shred/photos/A.jpg", "GET /shred/t/cat.jpg"}, srv.Requests())
}

func TestShredCommand(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		srv := testutils.NewAlbumServer(t)
		res := execute(t, srv, "n\n", "shred", "photos/A.jpg")
		require.NoError(t, res.err)
		assert.Contains(t, res.out, "[y/N]")
		assert.Contains(t, res.out, "Operation cancelled")
		assert.Zero(t, countRequests(srv, "GET /shred/"))
	})

	t.Run("no answer", func(t *testing.T) {
		srv := testutils.NewAlbumServer(t)
		res := execute(t, srv, "", "shred", "photos/A.jpg")
		require.NoError(t, res.err)
		assert.Zero(t, countRequests(srv, "GET /shred/"))
	})

	t.Run("confirmed with a failure", func(t *testing.T) {
		srv := testutils.NewAlbumServer(t)
		srv.SetStatus("photos/A.jpg", http.StatusConflict)

		res := execute(t, srv, "y\n", "shred", "photos/A.jpg", "photos/B.jpg")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "1 of 2 shred requests failed")
		assert.Equal(t, []string{"GET /shred/photos/A.jpg", "GET /shred/photos/B.jpg"}, srv.Requests())

		conflict := strings.Index(res.out, "409 photos/A.jpg")
		ok := strings.Index(res.out, "200 photos/B.jpg")
		require.NotEqual(t, -1, conflict)
		require.NotEqual(t, -1, ok)
		assert.Less(t, conflict, ok)
	})

	t.Run("yes flag", func(t *testing.T) {
		srv := testutils.NewAlbumServer(t)
		res := execute(t, srv, "", "shred", "--yes", "photos/A.jpg")
		require.NoError(t, res.err)
		assert.NotContains(t, res.out, "[y/N]")
		assert.Equal(t, 1, countRequests(srv, "GET /shred/"))
	})
}

func TestSessionCommand(t *testing.T) {
	srv := testutils.NewAlbumServer(t)
	res := execute(t, srv, "", "session")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Session opened on "+srv.URL)
	assert.Equal(t, 1, srv.Sessions())
}

func TestLockAndAuthCommands(t *testing.T) {
	srv := testutils.NewAlbumServer(t)

	res := execute(t, srv, "", "lock", "photos/2020", "--password", "secret")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Locked photos/2020")
	assert.True(t, srv.Locked("photos/2020"))

	res = execute(t, srv, "", "ls", "photos")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "2020/  1 files (locked)")

	res = execute(t, srv, "", "ls", "photos/2020")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "403")

	res = execute(t, srv, "", "auth", "photos/2020", "-p", "wrong")
	require.Error(t, res.err)
	assert.Equal(t, "incorrect password for photos/2020", res.err.Error())

	res = execute(t, srv, "", "auth", "photos/2020", "-p", "secret")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Authorized photos/2020")
	assert.Contains(t, res.out, "x.jpg")

	res = execute(t, srv, "", "ls", "--password", "secret", "photos/2020")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "0 directories, 1 files")

	res = execute(t, srv, "", "lock", "photos/2020")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Unlocked photos/2020")
	assert.False(t, srv.Locked("photos/2020"))
}

func TestCommentCommand(t *testing.T) {
	srv := testutils.NewAlbumServer(t)

	res := execute(t, srv, "", "comment", "photos/A.jpg")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "photos/A.jpg has no comment")

	res = execute(t, srv, "", "comment", "photos/A.jpg", "sunset", "over", "the", "bay")
	require.NoError(t, res.err)
	assert.Equal(t, "sunset over the bay", srv.Comment("photos/A.jpg"))

	res = execute(t, srv, "", "comment", "photos/A.jpg")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "photos/A.jpg: sunset over the bay")

	res = execute(t, srv, "", "comment", "photos/nope.jpg")
	assert.Error(t, res.err)
}

func TestFetchCommand(t *testing.T) {
	srv := testutils.NewAlbumServer(t)
	dest := filepath.Join(t.TempDir(), "a.png")

	res := execute(t, srv, "", "fetch", "photos/A.jpg", "-o", dest)
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "image/png")
	assert.Contains(t, res.out, "Saved to "+dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, testutils.PNGHeader, data)

	res = execute(t, srv, "", "fetch", "photos/missing.jpg")
	assert.Error(t, res.err)
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "albumview", "config.yaml")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "--server", "http://album.local:9000", "config", "init"})
	require.NoError(t, root.Execute())
	assert.FileExists(t, path)

	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	assert.Error(t, root.Execute(), "refuses to overwrite")

	out.Reset()
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config", "show"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "url: http://album.local:9000")
	assert.Contains(t, out.String(), "pan_step: 20")
}

func TestInvalidServerFlag(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "c.yaml"), "--server", "ftp://album", "ls"})
	assert.Error(t, root.Execute())
}
