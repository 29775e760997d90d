package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/healthhub-dev/healthhub/internal/api"
)

// NewAdminCmd creates the admin command group. Every call here is signed
// with the user session token, as the backend expects.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	cmd.AddCommand(
		newDataCmd("overview", "Show dashboard statistics", cobra.NoArgs,
			func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
				return env.API.GetAdminOverview(ctx)
			}),
		newAdminResourceCmd(adminResource{
			use: "users", noun: "user",
			list:   func(a *api.API) listFunc { return a.GetUserList },
			remove: func(a *api.API) idFunc { return a.DeleteUser },
		}),
		newAdminResourceCmd(adminResource{
			use: "admins", noun: "administrator",
			list:   func(a *api.API) listFunc { return a.GetAdminList },
			add:    func(a *api.API) payloadFunc { return a.AddAdmin },
			update: func(a *api.API) updateFunc { return a.UpdateAdmin },
			remove: func(a *api.API) idFunc { return a.DeleteAdmin },
		}),
		newAdminResourceCmd(adminResource{
			use: "recipes", noun: "recipe",
			list:   func(a *api.API) listFunc { return a.GetAdminRecipeList },
			remove: func(a *api.API) idFunc { return a.DeleteRecipe },
		}),
		newAdminResourceCmd(adminResource{
			use: "news", noun: "article",
			list:   func(a *api.API) listFunc { return a.GetAdminNewsList },
			add:    func(a *api.API) payloadFunc { return a.AddNews },
			update: func(a *api.API) updateFunc { return a.UpdateNews },
			remove: func(a *api.API) idFunc { return a.DeleteNews },
		}),
	)

	return cmd
}

type updateFunc func(ctx context.Context, id string, payload any) (json.RawMessage, error)

// adminResource describes one managed collection. add and update are
// optional; the backend only offers them for some collections.
type adminResource struct {
	use    string
	noun   string
	list   func(*api.API) listFunc
	add    func(*api.API) payloadFunc
	update func(*api.API) updateFunc
	remove func(*api.API) idFunc
}

func newAdminResourceCmd(res adminResource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   res.use,
		Short: fmt.Sprintf("Manage %s", res.use),
	}

	var params paramFlags
	list := newDataCmd("ls", fmt.Sprintf("List %s", res.use), cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			values, err := params.values()
			if err != nil {
				return nil, err
			}
			return res.list(env.API)(ctx, values)
		})
	list.Aliases = []string{"list"}
	addParamFlags(list, &params)
	cmd.AddCommand(list)

	if res.add != nil {
		var payload payloadFlags
		add := newDataCmd("add", fmt.Sprintf("Create a %s", res.noun), cobra.NoArgs,
			func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
				body, err := payload.build()
				if err != nil {
					return nil, err
				}
				return res.add(env.API)(ctx, body)
			})
		addPayloadFlags(add, &payload)
		cmd.AddCommand(add)
	}

	if res.update != nil {
		var payload payloadFlags
		update := newDataCmd("update <id>", fmt.Sprintf("Update a %s", res.noun), cobra.ExactArgs(1),
			func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
				body, err := payload.build()
				if err != nil {
					return nil, err
				}
				return res.update(env.API)(ctx, args[0], body)
			})
		addPayloadFlags(update, &payload)
		cmd.AddCommand(update)
	}

	var yes bool
	remove := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   fmt.Sprintf("Delete a %s", res.noun),
		Args:    cobra.ExactArgs(1),
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			return runAdminDelete(ctx, env, res, args[0], yes)
		}),
	}
	addYesFlag(remove, &yes)
	cmd.AddCommand(remove)

	return cmd
}

func runAdminDelete(ctx context.Context, env *Env, res adminResource, id string, yes bool) error {
	ok, err := confirm(fmt.Sprintf("Delete %s %s", res.noun, id), yes)
	if err != nil || !ok {
		return err
	}

	data, err := res.remove(env.API)(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", res.noun, err)
	}

	env.Logger.Info().Str("resource", res.use).Str("id", id).Msg("Deleted")
	return printData(env.Out, env.Format, data)
}
