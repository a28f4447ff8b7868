package common

import (
	"albumview/internal/session"
	"albumview/pkg/types"
)

// Row is one line of the browser: a directory or a file.
type Row struct {
	Item     types.Item
	Selected bool
	Focused  bool
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Snapshot() session.Snapshot
	Rows() []Row
	Cursor() int
	Mode() types.Mode
	ShowHelp() bool
	HelpView() string
	StatusView() string
	CommandView() string
	ConfirmPrompt() string
	Size() (width, height int)
}
