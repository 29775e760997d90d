package commands

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// stdinIsTerminal reports whether a prompt can be shown
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

func addYesFlag(cmd *cobra.Command, yes *bool) {
	cmd.Flags().BoolVarP(yes, "yes", "y", false, "Skip the confirmation prompt")
}

// confirm asks before a destructive call. Declining is not an error.
func confirm(label string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !stdinIsTerminal() {
		return false, fmt.Errorf("confirmation required in non-interactive mode (use --yes)")
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			fmt.Fprintln(os.Stderr, "Cancelled")
			return false, nil
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return true, nil
}
