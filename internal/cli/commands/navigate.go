package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/healthhub-dev/healthhub/internal/router"
)

// NewNavigateCmd creates the navigate command
func NewNavigateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "navigate <path>",
		Short: "Resolve where a page path lands with the stored session",
		Args:  cobra.ExactArgs(1),
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			return runNavigate(env, args[0])
		}),
	}
}

func runNavigate(env *Env, path string) error {
	creds, err := env.credentials()
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	nav, err := env.Routes.Navigate(path, creds)
	if err != nil {
		return err
	}

	for _, hop := range nav.Hops {
		fmt.Fprintf(env.Out, "→ %s\n", hop)
	}

	if nav.NotFound {
		fmt.Fprintf(env.Out, "%s: no matching page\n", nav.Final)
		return nil
	}

	rec := nav.Match.Record
	fmt.Fprintf(env.Out, "%s", nav.Final)
	if rec.Name != "" {
		fmt.Fprintf(env.Out, " (%s)", rec.Name)
	}
	if rec.Meta.Title != "" {
		fmt.Fprintf(env.Out, " %s", rec.Meta.Title)
	}
	fmt.Fprintln(env.Out)

	if len(nav.Match.Params) > 0 {
		keys := make([]string, 0, len(nav.Match.Params))
		for k := range nav.Match.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(env.Out, "  %s=%s\n", k, nav.Match.Params[k])
		}
	}
	return nil
}

// NewRoutesCmd creates the routes command
func NewRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the application's pages and their access rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(cmd.OutOrStdout(), router.NewTable(router.Routes))
		},
	}
}

func runRoutes(out io.Writer, table *router.Table) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tNAME\tACCESS\tTITLE")
	for _, rec := range table.Records() {
		access := "public"
		switch {
		case rec.Meta.RequiresAdmin:
			access = "admin"
		case rec.Meta.RequiresAuth:
			access = "user"
		}
		if rec.Redirect != "" {
			access = "→ " + rec.Redirect
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Path, dash(rec.Name), access, dash(rec.Meta.Title))
	}
	return w.Flush()
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
