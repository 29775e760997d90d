package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/healthhub-dev/healthhub/internal/api"
)

// dataFunc performs one API call for a command
type dataFunc func(ctx context.Context, env *Env, args []string) (json.RawMessage, error)

// newDataCmd builds a command that calls fn and prints the returned data
func newDataCmd(use, short string, args cobra.PositionalArgs, fn dataFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			return runData(ctx, env, args, fn)
		}),
	}
}

func runData(ctx context.Context, env *Env, args []string, fn dataFunc) error {
	data, err := fn(ctx, env, args)
	if err != nil {
		return err
	}
	return printData(env.Out, env.Format, data)
}

type idFunc func(ctx context.Context, id string) (json.RawMessage, error)
type listFunc func(ctx context.Context, params url.Values) (json.RawMessage, error)
type payloadFunc func(ctx context.Context, payload any) (json.RawMessage, error)

// contentOps are the calls shared by recipes and news
type contentOps struct {
	list      listFunc
	detail    idFunc
	publish   payloadFunc
	like      idFunc
	unlike    idFunc
	favorite  idFunc
	unfav     idFunc
	recommend func(ctx context.Context, limit int) (json.RawMessage, error)
}

func recipeOps(a *api.API) contentOps {
	return contentOps{
		list:      a.GetRecipeList,
		detail:    a.GetRecipeDetail,
		publish:   a.PublishRecipe,
		like:      a.LikeRecipe,
		unlike:    a.UnlikeRecipe,
		favorite:  a.FavoriteRecipe,
		unfav:     a.UnfavoriteRecipe,
		recommend: a.GetRecommendedRecipes,
	}
}

func newsOps(a *api.API) contentOps {
	return contentOps{
		list:      a.GetNewsList,
		detail:    a.GetNewsDetail,
		publish:   a.PublishNews,
		like:      a.LikeNews,
		unlike:    a.UnlikeNews,
		favorite:  a.FavoriteNews,
		unfav:     a.UnfavoriteNews,
		recommend: a.GetRecommendedNews,
	}
}

// NewRecipesCmd creates the recipes command group
func NewRecipesCmd() *cobra.Command {
	return newContentCmd("recipes", "recipe", recipeOps)
}

// NewNewsCmd creates the news command group
func NewNewsCmd() *cobra.Command {
	return newContentCmd("news", "article", newsOps)
}

func newContentCmd(use, noun string, opsFor func(*api.API) contentOps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Browse and interact with %s", use),
	}

	byID := func(pick func(contentOps) idFunc) dataFunc {
		return func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			return pick(opsFor(env.API))(ctx, args[0])
		}
	}

	var params paramFlags
	list := newDataCmd("ls", fmt.Sprintf("List %s", use), cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			values, err := params.values()
			if err != nil {
				return nil, err
			}
			return opsFor(env.API).list(ctx, values)
		})
	list.Aliases = []string{"list"}
	addParamFlags(list, &params)

	var payload payloadFlags
	publish := newDataCmd("publish", fmt.Sprintf("Publish a %s", noun), cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			body, err := payload.build()
			if err != nil {
				return nil, err
			}
			return opsFor(env.API).publish(ctx, body)
		})
	addPayloadFlags(publish, &payload)

	var limit int
	recommend := newDataCmd("recommend", fmt.Sprintf("Show recommended %s", use), cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			return opsFor(env.API).recommend(ctx, limit)
		})
	recommend.Flags().IntVar(&limit, "limit", api.DefaultRecommendLimit, "Number of items")

	cmd.AddCommand(
		list,
		newDataCmd("show <id>", fmt.Sprintf("Show a %s", noun), cobra.ExactArgs(1),
			byID(func(o contentOps) idFunc { return o.detail })),
		publish,
		newDataCmd("like <id>", fmt.Sprintf("Like a %s", noun), cobra.ExactArgs(1),
			byID(func(o contentOps) idFunc { return o.like })),
		newDataCmd("unlike <id>", fmt.Sprintf("Remove a like from a %s", noun), cobra.ExactArgs(1),
			byID(func(o contentOps) idFunc { return o.unlike })),
		newDataCmd("fav <id>", fmt.Sprintf("Add a %s to favorites", noun), cobra.ExactArgs(1),
			byID(func(o contentOps) idFunc { return o.favorite })),
		newDataCmd("unfav <id>", fmt.Sprintf("Remove a %s from favorites", noun), cobra.ExactArgs(1),
			byID(func(o contentOps) idFunc { return o.unfav })),
		recommend,
	)

	return cmd
}
