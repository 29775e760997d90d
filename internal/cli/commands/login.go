package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/healthhub-dev/healthhub/internal/api"
)

// PasswordPrompt reads a password interactively
type PasswordPrompt func(label string) (string, error)

type loginOptions struct {
	env    *Env
	prompt PasswordPrompt
}

// LoginOption customizes runLogin
type LoginOption func(*loginOptions)

// WithEnv runs the login against env instead of loading one
func WithEnv(env *Env) LoginOption {
	return func(o *loginOptions) { o.env = env }
}

// WithPasswordPrompt replaces the terminal password prompt
func WithPasswordPrompt(prompt PasswordPrompt) LoginOption {
	return func(o *loginOptions) { o.prompt = prompt }
}

// terminalPassword prompts on the controlling terminal without echo
func terminalPassword(label string) (string, error) {
	// Check if stdin is a terminal (not piped)
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or HEALTHHUB_PASSWORD env var)")
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var username, password string
	var admin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a user or an administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), username, password, admin)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (or set HEALTHHUB_USERNAME)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set HEALTHHUB_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&admin, "admin", false, "Sign in to the administrator domain")

	return cmd
}

func runLogin(ctx context.Context, username, password string, admin bool, opts ...LoginOption) error {
	options := loginOptions{prompt: terminalPassword}
	for _, opt := range opts {
		opt(&options)
	}

	// Check for environment variables (useful for CI/CD)
	if username == "" {
		username = os.Getenv("HEALTHHUB_USERNAME")
	}
	if password == "" {
		password = os.Getenv("HEALTHHUB_PASSWORD")
	}

	if username == "" {
		return fmt.Errorf("username is required (use --username flag or HEALTHHUB_USERNAME env var)")
	}

	env := options.env
	if env == nil {
		var err error
		if env, err = loadEnv(); err != nil {
			return err
		}
	}

	if password == "" {
		var err error
		if password, err = options.prompt("Password"); err != nil {
			return err
		}
	}

	creds := api.Credentials{Username: username, Password: password}
	domain := "user"
	login := env.API.Login
	if admin {
		domain = "admin"
		login = env.API.AdminLogin
	}

	fmt.Fprintf(env.Out, "Logging in to %s as %s...\n", env.Config.Server, username)

	data, err := login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	result, err := api.Decode[api.LoginResult](data)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if result.Token == "" {
		return fmt.Errorf("login failed: response did not include a token")
	}

	if admin {
		err = env.Session.SaveAdmin(result.Token)
	} else {
		err = env.Session.SaveUser(result.Token, result.Profile())
	}
	if err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	env.Logger.Debug().Str("domain", domain).Msg("Credentials stored")

	fmt.Fprintln(env.Out, "✓ Login successful!")
	fmt.Fprintf(env.Out, "  Domain: %s\n", domain)
	return nil
}

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var username, password string
	var payload payloadFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			return runRegister(ctx, env, username, password, &payload)
		}),
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	addPayloadFlags(cmd, &payload)

	return cmd
}

func runRegister(ctx context.Context, env *Env, username, password string, payload *payloadFlags) error {
	body, err := payload.build()
	if err != nil {
		return err
	}
	if username != "" {
		body["username"] = username
	}
	if password != "" {
		body["password"] = password
	}
	if body["username"] == nil || body["password"] == nil {
		return fmt.Errorf("username and password are required")
	}

	data, err := env.API.Register(ctx, body)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Fprintln(env.ErrOut, "✓ Registered. Run 'healthhub login' to sign in.")
	return printData(env.Out, env.Format, data)
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var admin, all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			return runLogout(env, admin, all)
		}),
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Sign out of the administrator domain only")
	cmd.Flags().BoolVar(&all, "all", false, "Sign out of both domains")

	return cmd
}

func runLogout(env *Env, admin, all bool) error {
	if admin || all {
		if err := env.Session.LogoutAdmin(); err != nil {
			return fmt.Errorf("failed to remove admin token: %w", err)
		}
		fmt.Fprintln(env.Out, "✓ Signed out of admin")
	}
	if !admin || all {
		if err := env.Session.Logout(); err != nil {
			return fmt.Errorf("failed to remove user credentials: %w", err)
		}
		fmt.Fprintln(env.Out, "✓ Signed out")
	}
	return nil
}
