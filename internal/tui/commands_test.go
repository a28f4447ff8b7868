package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albumview/internal/tui/messages"
	"albumview/internal/watch"
)

func TestWaitForConfig(t *testing.T) {
	assert.Nil(t, waitForConfig(nil, "config.yaml"))

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browse:\n  hide: [\"*.mp4\"]\n"), 0644))

	w, err := watch.New()
	require.NoError(t, err)
	require.NoError(t, w.AddFile(path))
	require.NoError(t, w.Start())

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(path, []byte("browse:\n  hide: [\"B.*\"]\n"), 0644)
	}()

	msg := waitForConfig(w, path)()
	update, ok := msg.(messages.ConfigUpdateMsg)
	require.True(t, ok, "got %T", msg)
	require.NoError(t, update.Err)
	assert.NotNil(t, update.Config)

	w.Stop()
	for {
		if _, stopped := waitForConfig(w, path)().(messages.WatchStoppedMsg); stopped {
			break
		}
	}
}
