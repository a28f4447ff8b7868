package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"albumview/internal/media"
)

// NewFetchCmd creates the fetch command
func NewFetchCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <path>",
		Short: "Download a media file and describe it",
		Long: `Download the original media at path into the media cache, or to the file
given with --output, and print its type, size and EXIF summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			loader := media.NewLoader(c, media.NewEngine(), media.NewCache(cfg.Media.CacheDir))
			src, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			dest := src.LocalPath
			if output != "" {
				data, err := os.ReadFile(src.LocalPath)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				dest = output
			}

			out := cmd.OutOrStdout()
			printHeader(out, src.Identity)
			fmt.Fprintf(out, "Type:  %s (%s)\n", src.Info.MIME, src.Info.Kind)
			fmt.Fprintf(out, "Size:  %s\n", src.Info.HumanSize())
			keys := make([]string, 0, len(src.Info.Metadata))
			for k := range src.Info.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%-6s %s\n", k+":", src.Info.Metadata[k])
			}
			fmt.Fprintln(out, successText("Saved to "+dest))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the file here instead of only caching it")

	return cmd
}
