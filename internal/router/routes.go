// Package router holds the application's route table and the navigation
// guard for the user and admin authentication domains.
package router

const (
	LoginPath          = "/login"
	UserLandingPath    = "/app/news"
	AdminDashboardPath = "/admin/dashboard"
)

// Route names the guard cares about
const (
	NameLogin    = "login"
	NameRegister = "register"
)

// Meta carries per-route flags. Children inherit their parent's flags.
type Meta struct {
	Title         string
	RequiresAuth  bool
	RequiresAdmin bool
}

// Route is one entry of a declarative route table
type Route struct {
	Path     string
	Name     string
	Redirect string
	Meta     Meta
	Children []Route
}

// Routes is the healthhub route table
var Routes = []Route{
	{Path: "/", Redirect: LoginPath},
	{Path: "/login", Name: NameLogin},
	{Path: "/register", Name: NameRegister},
	{Path: "/api-test", Name: "api-test"},
	{
		Path: "/app",
		Meta: Meta{RequiresAuth: true},
		Children: []Route{
			{Path: "", Redirect: UserLandingPath},
			{Path: "news", Name: "news", Meta: Meta{Title: "Health News"}},
			{Path: "news/:id", Name: "news-detail", Meta: Meta{Title: "News Detail"}},
			{Path: "recipes", Name: "recipes", Meta: Meta{Title: "Recipes"}},
			{Path: "recipes/:id", Name: "recipe-detail", Meta: Meta{Title: "Recipe Detail"}},
			{Path: "recipes/new", Name: "recipe-new", Meta: Meta{Title: "Publish Recipe"}},
			{Path: "news/new", Name: "news-new", Meta: Meta{Title: "Publish News"}},
			{Path: "health-consult", Name: "health-consult", Meta: Meta{Title: "Health Consultation"}},
			{Path: "health-record", Name: "health-record", Meta: Meta{Title: "Health Records"}},
			{Path: "profile", Name: "profile", Meta: Meta{Title: "Profile"}},
			{Path: "favorites", Name: "favorites", Meta: Meta{Title: "My Favorites"}},
		},
	},
	{
		Path: "/admin",
		Meta: Meta{RequiresAdmin: true},
		Children: []Route{
			{Path: "", Redirect: AdminDashboardPath},
			{Path: "dashboard", Name: "admin-dashboard", Meta: Meta{Title: "Overview"}},
			{Path: "admins", Name: "admin-admins", Meta: Meta{Title: "Admins"}},
			{Path: "users", Name: "admin-users", Meta: Meta{Title: "Users"}},
			{Path: "recipes", Name: "admin-recipes", Meta: Meta{Title: "Recipes"}},
			{Path: "news", Name: "admin-news", Meta: Meta{Title: "News"}},
		},
	},
}
