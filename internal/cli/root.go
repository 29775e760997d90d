package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/healthhub-dev/healthhub/internal/cli/commands"
	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "healthhub",
	Short: "HealthHub - health news, recipes and AI consultations",
	Long: `HealthHub CLI - Browse health news and recipes, keep health records and
consult the health assistant from your terminal.

Credentials are kept per server in the system keyring, or in a JSON file
when HEALTHHUB_STORAGE=file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	commands.AddGlobalFlags(rootCmd)

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "healthhub version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewProfileCmd())
	rootCmd.AddCommand(commands.NewRecipesCmd())
	rootCmd.AddCommand(commands.NewNewsCmd())
	rootCmd.AddCommand(commands.NewConsultCmd())
	rootCmd.AddCommand(commands.NewRecordsCmd())
	rootCmd.AddCommand(commands.NewMeCmd())
	rootCmd.AddCommand(commands.NewAdminCmd())
	rootCmd.AddCommand(commands.NewUploadCmd())
	rootCmd.AddCommand(commands.NewImageCmd())
	rootCmd.AddCommand(commands.NewNavigateCmd())
	rootCmd.AddCommand(commands.NewRoutesCmd())
}

// Execute runs the root command. Ctrl-C cancels the command context, which
// aborts in-flight requests and open consult streams.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
