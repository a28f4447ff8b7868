package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"albumview/internal/batch"
	"albumview/internal/errors"
	"albumview/internal/paths"
	"albumview/pkg/types"
)

// NewEncryptCmd creates the encrypt command
func NewEncryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <path>...",
		Short: "Encrypt files on the album server",
		Long:  `Encrypt every given file. Requests are sent concurrently.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, types.OpEncrypt, args, nil)
		},
	}
}

// NewShredCmd creates the shred command
func NewShredCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "shred <path>...",
		Short: "Irreversibly shred files on the album server",
		Long: `Shred every given file, one request at a time. You are asked to confirm
unless --yes is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm batch.Confirmer = batch.ConfirmFunc(func(types.Operation, []string) bool { return true })
			if !yes {
				confirm = promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return runBatch(cmd, types.OpShred, args, confirm)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// promptConfirm asks on out and reads the answer from in. Only "y" or
// "yes" approves.
func promptConfirm(in io.Reader, out io.Writer) batch.Confirmer {
	return batch.ConfirmFunc(func(op types.Operation, identities []string) bool {
		printHeader(out, fmt.Sprintf("Confirm %s", op))
		for _, id := range identities {
			fmt.Fprintf(out, "  %s\n", infoText(id))
		}
		fmt.Fprintf(out, "%s %d file(s)? This cannot be undone. [y/N] ", op, len(identities))

		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

// originIdentities accepts origin paths as well as thumbnail URLs copied
// from a browser.
func originIdentities(args []string) []string {
	ids := make([]string, len(args))
	for i, a := range args {
		ids[i] = paths.NormalizeSourceIdentity(a)
	}
	return ids
}

func runBatch(cmd *cobra.Command, op types.Operation, args []string, confirm batch.Confirmer) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	runner := batch.NewRunner(c)
	report, err := runner.Run(cmd.Context(), op, originIdentities(args), confirm)
	if err != nil {
		if errors.IsNotConfirmed(err) {
			fmt.Fprintln(cmd.OutOrStdout(), warningText("Operation cancelled"))
			return nil
		}
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d %s requests failed", n, len(report.Results), op)
	}
	return nil
}
