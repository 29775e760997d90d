package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/healthhub-dev/healthhub/internal/session"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session for the current server",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			return runStatus(env, time.Now())
		},
	}
}

func runStatus(env *Env, now time.Time) error {
	creds, err := env.credentials()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	userID, err := env.Session.ResolveUserID()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SERVER\t%s\n", env.Config.Server)
	fmt.Fprintf(w, "USER\t%s\n", describeToken(creds.Token, now))
	fmt.Fprintf(w, "USER ID\t%s\n", describeUserID(userID))
	fmt.Fprintf(w, "ADMIN\t%s\n", describeToken(creds.AdminToken, now))
	return w.Flush()
}

// describeToken reports a token's presence and, when it is a JWT, its
// expiry. The signature is not checked; the server remains the authority.
func describeToken(token string, now time.Time) string {
	if token == "" {
		return "not logged in"
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "logged in"
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "logged in"
	}
	if !exp.After(now) {
		return fmt.Sprintf("logged in (token expired %s)", exp.Format(time.RFC3339))
	}
	return fmt.Sprintf("logged in (expires %s)", exp.Format(time.RFC3339))
}

func describeUserID(r session.UserIDResult) string {
	switch r.Status {
	case session.UserIDFound:
		return r.ID
	case session.UserIDMalformed:
		return fmt.Sprintf("unreadable user info (%v)", r.Err)
	default:
		return "-"
	}
}
