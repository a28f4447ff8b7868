package types

// Mode represents the current mode of the TUI
type Mode int

const (
	// Normal is the default mode for browsing, focusing and selecting
	Normal Mode = iota
	// Command is the mode for entering commands
	Command
	// Confirm is the mode waiting for a yes/no answer before a destructive action
	Confirm
)

// String returns the label shown in the status bar.
func (m Mode) String() string {
	switch m {
	case Command:
		return "COMMAND"
	case Confirm:
		return "CONFIRM"
	default:
		return "NORMAL"
	}
}
