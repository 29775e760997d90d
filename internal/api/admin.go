package api

import (
	"context"
	"encoding/json"
	"net/url"
)

const (
	adminUsersPath   = "/admin/users"
	adminAdminsPath  = "/admin/admins"
	adminRecipesPath = "/admin/recipes"
	adminNewsPath    = "/admin/news"
)

func (a *API) GetAdminOverview(ctx context.Context) (json.RawMessage, error) {
	return a.get(ctx, "/admin/overview", nil)
}

// Users

func (a *API) GetUserList(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, adminUsersPath, params)
}

func (a *API) DeleteUser(ctx context.Context, id string) (json.RawMessage, error) {
	return a.delete(ctx, itemPath(adminUsersPath, id), nil)
}

// Admins

func (a *API) GetAdminList(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, adminAdminsPath, params)
}

func (a *API) AddAdmin(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, adminAdminsPath, payload)
}

func (a *API) UpdateAdmin(ctx context.Context, id string, payload any) (json.RawMessage, error) {
	return a.put(ctx, itemPath(adminAdminsPath, id), payload)
}

func (a *API) DeleteAdmin(ctx context.Context, id string) (json.RawMessage, error) {
	return a.delete(ctx, itemPath(adminAdminsPath, id), nil)
}

// Recipes

func (a *API) GetAdminRecipeList(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, adminRecipesPath, params)
}

func (a *API) DeleteRecipe(ctx context.Context, id string) (json.RawMessage, error) {
	return a.delete(ctx, itemPath(adminRecipesPath, id), nil)
}

// News

func (a *API) GetAdminNewsList(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return a.get(ctx, adminNewsPath, params)
}

func (a *API) AddNews(ctx context.Context, payload any) (json.RawMessage, error) {
	return a.post(ctx, adminNewsPath, payload)
}

func (a *API) UpdateNews(ctx context.Context, id string, payload any) (json.RawMessage, error) {
	return a.put(ctx, itemPath(adminNewsPath, id), payload)
}

func (a *API) DeleteNews(ctx context.Context, id string) (json.RawMessage, error) {
	return a.delete(ctx, itemPath(adminNewsPath, id), nil)
}
