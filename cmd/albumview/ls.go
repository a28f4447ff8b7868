package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"albumview/internal/listing"
	"albumview/internal/paths"
	"albumview/pkg/types"
)

// NewLsCmd creates the ls command
func NewLsCmd() *cobra.Command {
	var jsonOutput bool
	var all bool
	var password string

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List directories and files of an album path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = paths.Clean(args[0])
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			if password != "" {
				if err := authorize(cmd, c, path, password); err != nil {
					return err
				}
			}
			l, err := c.List(cmd.Context(), path)
			if err != nil {
				return err
			}
			if !all {
				filter, err := listing.NewFilter(cfg.Browse.Hide)
				if err != nil {
					return err
				}
				l = filter.Apply(l)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				fmt.Fprintln(out, l.ToJSON())
				return nil
			}

			printListing(out, l)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output the listing as JSON")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include entries matched by browse.hide")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password of a locked album")

	return cmd
}

func printListing(out io.Writer, l types.Listing) {
	root := l.Path
	if root == "" {
		root = "/"
	}
	printHeader(out, root)
	for _, d := range l.Dirs {
		line := fmt.Sprintf("%s/  %s files", infoText(d.Path), humanize.Comma(int64(d.FileCount)))
		if d.Locked {
			line += " " + warningText("(locked)")
		}
		fmt.Fprintln(out, line)
	}
	for _, f := range l.Files {
		line := f.Path
		if f.Video {
			line += " " + emphasisText("[video]")
		}
		if f.Label != "" {
			line += "  " + f.Label
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%d directories, %d files\n", len(l.Dirs), len(l.Files))
}
