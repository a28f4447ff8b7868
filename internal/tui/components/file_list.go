package components

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"albumview/internal/tui/common"
	"albumview/internal/tui/styles"
)

// FileList renders the directories and files of the current root with a
// window that keeps the cursor visible.
type FileList struct {
	rows   []common.Row
	cursor int
	height int
}

func NewFileList(rows []common.Row, cursor, height int) *FileList {
	if height <= 0 {
		height = len(rows)
	}
	return &FileList{rows: rows, cursor: cursor, height: height}
}

// Window returns the half-open range of rows that fits the height.
func (fl *FileList) Window() (start, end int) {
	n := len(fl.rows)
	if n <= fl.height {
		return 0, n
	}
	start = fl.cursor - fl.height/2
	if start < 0 {
		start = 0
	}
	end = start + fl.height
	if end > n {
		end = n
		start = end - fl.height
	}
	return start, end
}

func (fl *FileList) View() string {
	if len(fl.rows) == 0 {
		return styles.Theme.Unselected.Render("(empty)") + "\n"
	}

	var s strings.Builder
	start, end := fl.Window()
	for i := start; i < end; i++ {
		s.WriteString(fl.renderRow(i, fl.rows[i]))
		s.WriteString("\n")
	}
	return s.String()
}

func (fl *FileList) renderRow(i int, row common.Row) string {
	mark := "  "
	if row.Selected {
		mark = "* "
	}

	var name, details string
	style := styles.Theme.File
	if row.Item.IsDir() {
		style = styles.Theme.Directory
		name = row.Item.Basename + "/"
		details = fmt.Sprintf("%s files", humanize.Comma(int64(row.Item.FileCount)))
		if row.Item.Locked {
			details += " (locked)"
		}
	} else {
		name = row.Item.Basename
		if name == "" {
			name = row.Item.Path
		}
		if row.Item.Label != "" {
			details = row.Item.Label
		}
		if row.Item.Video {
			details = strings.TrimSpace("video " + details)
		}
	}
	switch {
	case row.Selected:
		style = styles.Theme.Selected
	case row.Focused:
		style = styles.Theme.Focused
	}

	line := mark + style.Render(name)
	if details != "" {
		line += "  " + styles.Theme.Unselected.Render(details)
	}
	if i == fl.cursor {
		return styles.Theme.Cursor.Render(">") + " " + line
	}
	return "  " + line
}
