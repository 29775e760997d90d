package commands

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	var payload payloadFlags
	update := newDataCmd("update", "Update profile fields", cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			body, err := payload.build()
			if err != nil {
				return nil, err
			}
			return env.API.UpdateUserProfile(ctx, body)
		})
	addPayloadFlags(update, &payload)

	cmd.AddCommand(
		newDataCmd("show", "Show your profile", cobra.NoArgs,
			func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
				return env.API.GetUserProfile(ctx)
			}),
		update,
	)
	return cmd
}

// NewMeCmd creates the me command group
func NewMeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "List your own posts and favorites",
	}

	var postParams, favParams paramFlags
	posts := newDataCmd("posts", "List what you have published", cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			values, err := postParams.values()
			if err != nil {
				return nil, err
			}
			return env.API.GetMyPosts(ctx, values)
		})
	addParamFlags(posts, &postParams)

	favorites := newDataCmd("favorites", "List your favorites", cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			values, err := favParams.values()
			if err != nil {
				return nil, err
			}
			return env.API.GetMyFavorites(ctx, values)
		})
	addParamFlags(favorites, &favParams)

	cmd.AddCommand(posts, favorites)
	return cmd
}

// NewRecordsCmd creates the health records command group
func NewRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage your health records",
	}

	var payload payloadFlags
	add := newDataCmd("add", "Add a health record", cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			body, err := payload.build()
			if err != nil {
				return nil, err
			}
			return env.API.AddHealthRecord(ctx, body)
		})
	addPayloadFlags(add, &payload)

	var params paramFlags
	list := newDataCmd("ls", "List health records", cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			values, err := params.values()
			if err != nil {
				return nil, err
			}
			return env.API.GetHealthRecords(ctx, values)
		})
	list.Aliases = []string{"list"}
	addParamFlags(list, &params)

	cmd.AddCommand(add, list)
	return cmd
}
