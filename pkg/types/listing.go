package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dir is a directory entry as reported by the listing endpoint.
type Dir struct {
	Path       string `json:"path"`
	ImageFirst string `json:"image_first,omitempty"`
	FileCount  int    `json:"file_count"`
	Locked     bool   `json:"locked,omitempty"`
}

// File is a media file entry as reported by the listing endpoint.
type File struct {
	Path     string `json:"path"`
	Basename string `json:"basename"`
	Label    string `json:"label"`
	Video    bool   `json:"video,omitempty"`
}

// Listing is the content of one directory on the backend. Entry paths are
// relative to Path.
type Listing struct {
	Path        string `json:"path"`
	Dirs        []Dir  `json:"dirs"`
	Files       []File `json:"files"`
	HasAnyVideo bool   `json:"has_any_video,omitempty"`
	Owned       bool   `json:"owned,omitempty"`
}

// ToJSON converts the listing to a JSON string
func (l *Listing) ToJSON() string {
	jsonBytes, _ := json.Marshal(l)
	return string(jsonBytes)
}

// String returns a human-readable representation
func (l *Listing) String() string {
	var sb strings.Builder
	root := l.Path
	if root == "" {
		root = "/"
	}
	sb.WriteString(fmt.Sprintf("Path: %s\n", root))
	sb.WriteString(fmt.Sprintf("Dirs: %d\n", len(l.Dirs)))
	sb.WriteString(fmt.Sprintf("Files: %d\n", len(l.Files)))
	return sb.String()
}
