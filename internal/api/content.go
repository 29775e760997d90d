package api

import (
	"context"
	"encoding/json"
	"net/url"
)

const (
	recipesPath = "/recipes"
	newsPath    = "/news"
)

// Recipes

func (a *API) GetRecipeList(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, recipesPath, params)
}

func (a *API) GetRecipeDetail(ctx context.Context, id string) (json.RawMessage, error) {
	return a.get(ctx, itemPath(recipesPath, id), nil)
}

func (a *API) PublishRecipe(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, recipesPath, payload)
}

func (a *API) LikeRecipe(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(recipesPath, id, "like"), nil)
}

func (a *API) UnlikeRecipe(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(recipesPath, id, "unlike"), nil)
}

func (a *API) FavoriteRecipe(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(recipesPath, id, "favorite"), nil)
}

func (a *API) UnfavoriteRecipe(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(recipesPath, id, "unfavorite"), nil)
}

// GetRecommendedRecipes lists recommended recipes; limit <= 0 means 5
func (a *API) GetRecommendedRecipes(ctx context.Context, limit int) (json.RawMessage, error) {
	return a.get(ctx, recipesPath+"/recommend", limitParams(limit))
}

// News

func (a *API) GetNewsList(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, newsPath, params)
}

func (a *API) GetNewsDetail(ctx context.Context, id string) (json.RawMessage, error) {
	return a.get(ctx, itemPath(newsPath, id), nil)
}

func (a *API) PublishNews(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, newsPath, payload)
}

func (a *API) LikeNews(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(newsPath, id, "like"), nil)
}

func (a *API) UnlikeNews(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(newsPath, id, "unlike"), nil)
}

func (a *API) FavoriteNews(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(newsPath, id, "favorite"), nil)
}

func (a *API) UnfavoriteNews(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, itemPath(newsPath, id, "unfavorite"), nil)
}

// GetRecommendedNews lists recommended news; limit <= 0 means 5
func (a *API) GetRecommendedNews(ctx context.Context, limit int) (json.RawMessage, error) {
	return a.get(ctx, newsPath+"/recommend", limitParams(limit))
}
