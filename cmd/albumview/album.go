package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"albumview/internal/client"
	"albumview/internal/errors"
	"albumview/internal/paths"
)

// NewSessionCmd creates the session command
func NewSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Check that the album server hands out sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.OpenSession(cmd.Context()); err != nil {
				return err
			}
			if !c.HasSession() {
				return errors.Newf("%s did not set the %s cookie", c.BaseURL(), client.SessionCookie)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Session opened on "+c.BaseURL()))
			return nil
		},
	}
}

// NewLockCmd creates the lock command
func NewLockCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "lock <album>",
		Short: "Protect an album with a password",
		Long: `Set the password of an album you own. Without --password the lock is
removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			album := paths.Clean(args[0])
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.OpenSession(cmd.Context()); err != nil {
				return err
			}
			if err := c.LockAlbum(cmd.Context(), album, password); err != nil {
				return err
			}
			if password == "" {
				fmt.Fprintln(cmd.OutOrStdout(), successText("Unlocked "+album))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), successText("Locked "+album))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "New password; empty removes the lock")

	return cmd
}

// NewAuthCmd creates the auth command
func NewAuthCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "auth <album>",
		Short: "Check a password of a locked album and list it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			album := paths.Clean(args[0])
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := authorize(cmd, c, album, password); err != nil {
				return err
			}
			l, err := c.List(cmd.Context(), album)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Authorized "+album))
			printListing(cmd.OutOrStdout(), l)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Album password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// authorize opens a session on c and unlocks album for it.
func authorize(cmd *cobra.Command, c *client.Client, album, password string) error {
	if err := c.OpenSession(cmd.Context()); err != nil {
		return err
	}
	if err := c.AuthorizeAlbum(cmd.Context(), album, password); err != nil {
		if errors.IsIncorrectPassword(err) {
			return errors.Newf("incorrect password for %s", album)
		}
		return err
	}
	return nil
}

// NewCommentCmd creates the comment command
func NewCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <file> [text...]",
		Short: "Show or replace the comment of a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := paths.NormalizeSourceIdentity(args[0])
			c, err := newClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) > 1 {
				text := strings.Join(args[1:], " ")
				if err := c.SetComment(cmd.Context(), file, text); err != nil {
					return err
				}
				fmt.Fprintln(out, successText("Comment saved for "+file))
				return nil
			}

			text, err := c.Comment(cmd.Context(), file)
			if err != nil {
				return err
			}
			if text == "" {
				fmt.Fprintln(out, warningText(file+" has no comment"))
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", infoText(file), text)
			return nil
		},
	}
}
