package messages

import (
	"albumview/internal/config"
	"albumview/internal/media"
	"albumview/pkg/types"
)

// NavigatedMsg is sent when a navigation finished.
type NavigatedMsg struct {
	Err error
}

// BatchDoneMsg is sent when an encrypt or shred batch finished.
type BatchDoneMsg struct {
	Operation types.Operation
	Report    types.Report
	Err       error
}

// MediaLoadedMsg is sent when a media blob was fetched.
type MediaLoadedMsg struct {
	Source media.Source
	Err    error
}

// ConfigUpdateMsg carries a reloaded configuration file.
type ConfigUpdateMsg struct {
	Config *config.Config
	Err    error
}

// WatchStoppedMsg is sent when the config watcher closed.
type WatchStoppedMsg struct{}

// CommentMsg is sent when a comment was read or saved.
type CommentMsg struct {
	File string
	Text string
	Err  error
}
