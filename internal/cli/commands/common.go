package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthhub-dev/healthhub/internal/api"
	"github.com/healthhub-dev/healthhub/internal/client"
	"github.com/healthhub-dev/healthhub/internal/config"
	"github.com/healthhub-dev/healthhub/internal/consult"
	"github.com/healthhub-dev/healthhub/internal/imageurl"
	"github.com/healthhub-dev/healthhub/internal/logger"
	"github.com/healthhub-dev/healthhub/internal/router"
	"github.com/healthhub-dev/healthhub/internal/session"
)

// GlobalOptions are the persistent flags shared by every command
type GlobalOptions struct {
	Server   string
	Output   string
	LogLevel string
}

var globalOpts GlobalOptions

// AddGlobalFlags registers the persistent flags on the root command
func AddGlobalFlags(root *cobra.Command) {
	fs := root.PersistentFlags()
	fs.StringVar(&globalOpts.Server, "server", "", "Server origin hosting /api (or set HEALTHHUB_SERVER)")
	fs.StringVarP(&globalOpts.Output, "output", "o", "json", "Output format: json or yaml")
	fs.StringVar(&globalOpts.LogLevel, "log-level", "", "Log level: debug, info, warn, error (or set LOG_LEVEL)")
}

// Env is everything a command needs to talk to the backend
type Env struct {
	Config  *config.Config
	Session *session.Session
	Expiry  *session.ExpiryHandler
	API     *api.API
	Opener  *consult.Opener
	Images  *imageurl.Resolver
	Routes  *router.Table
	Logger  zerolog.Logger
	Out     io.Writer
	ErrOut  io.Writer
	Format  string
}

// loadEnv builds the Env from configuration, flags and the session store
func loadEnv() (*Env, error) {
	cfg, err := config.Load("warn")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if globalOpts.Server != "" {
		cfg.Server = strings.TrimSuffix(globalOpts.Server, "/")
	}
	if globalOpts.LogLevel != "" {
		cfg.Logging.Level = globalOpts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	var store session.Store
	switch cfg.Storage.Backend {
	case config.StorageFile:
		store = session.NewFileStore(cfg.Storage.Path, cfg.Server)
	default:
		store = session.NewKeyringStore(cfg.Server)
	}

	env := newEnv(cfg, session.New(store), os.Stdout, os.Stderr, logger.GetLogger())
	env.Format = globalOpts.Output
	return env, nil
}

// newEnv wires the client stack over sess
func newEnv(cfg *config.Config, sess *session.Session, out, errOut io.Writer, log zerolog.Logger) *Env {
	expiry := session.NewExpiryHandler(sess, loginHint{w: errOut}, router.LoginPath, log)

	c := client.New(cfg.APIRoot(), sess,
		client.WithExpiryHandler(expiry),
		client.WithLogger(log),
	)

	return &Env{
		Config:  cfg,
		Session: sess,
		Expiry:  expiry,
		API:     api.New(c, cfg.Endpoints.AI),
		Opener:  consult.NewOpener(cfg.Server, cfg.Endpoints.Stream, sess, log),
		Images:  imageurl.New(cfg.Endpoints.APIBase),
		Routes:  router.NewTable(router.Routes),
		Logger:  log,
		Out:     out,
		ErrOut:  errOut,
		Format:  "json",
	}
}

// loginHint is the CLI's navigator: the only place it is ever sent is the
// login page, which for a terminal means telling the user to log in again
type loginHint struct {
	w io.Writer
}

func (h loginHint) Navigate(path string) {
	if path == router.LoginPath {
		fmt.Fprintln(h.w, "Session expired. Run 'healthhub login' to sign in again.")
		return
	}
	fmt.Fprintf(h.w, "Continue at %s\n", path)
}

// credentials returns the router view of the stored tokens
func (e *Env) credentials() (router.Credentials, error) {
	token, err := e.Session.Token()
	if err != nil {
		return router.Credentials{}, err
	}
	adminToken, err := e.Session.AdminToken()
	if err != nil {
		return router.Credentials{}, err
	}
	return router.Credentials{Token: token, AdminToken: adminToken}, nil
}

// envRunner adapts a run function taking an Env to cobra's RunE
func envRunner(run func(ctx context.Context, env *Env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		return run(cmd.Context(), env, args)
	}
}
