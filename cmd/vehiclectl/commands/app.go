package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jrsteele09/vehicles-auth-client/api"
	"github.com/jrsteele09/vehicles-auth-client/interceptor"
	"github.com/jrsteele09/vehicles-auth-client/internal/config"
	"github.com/jrsteele09/vehicles-auth-client/metrics"
	"github.com/jrsteele09/vehicles-auth-client/session"
	"github.com/jrsteele09/vehicles-auth-client/tokenstore"
	"github.com/rs/zerolog"
)

// App is the client stack shared by every command
type App struct {
	Config    config.Config
	Store     tokenstore.Store
	Session   *session.Service
	Transport *interceptor.Transport
	Catalog   *api.Client
	Metrics   *metrics.Collectors
	Logger    zerolog.Logger
}

// AppFactory builds the App for one command invocation. errOut receives user facing notices.
type AppFactory func(cfg config.Config, errOut io.Writer) (*App, error)

var _ AppFactory = NewApp

func NewApp(cfg config.Config, errOut io.Writer) (*App, error) {
	logger := newLogger(cfg, errOut)

	store, err := tokenstore.New(cfg)
	if err != nil {
		return nil, err
	}

	// Auth endpoints never go through the authorizing transport
	plain := &http.Client{
		Transport: interceptor.Chain(http.DefaultTransport,
			interceptor.RequestIDMiddleware,
			interceptor.LoggingMiddleware(cfg.GetEnv(), logger),
		),
		Timeout: cfg.GetRequestTimeout(),
	}
	auth := api.NewAuthClient(cfg.GetAPIURL(), plain)

	sess, err := session.New(store, auth,
		session.WithLogger(logger),
		session.WithNavigator(session.NavigatorFunc(func() {
			fmt.Fprintln(errOut, "Not logged in. Run `vehiclectl login` to sign in.")
		})),
	)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	transport := interceptor.NewTransport(sess, auth,
		interceptor.WithBase(interceptor.Chain(http.DefaultTransport, interceptor.LoggingMiddleware(cfg.GetEnv(), logger))),
		interceptor.WithRefreshTimeout(cfg.GetRefreshTimeout()),
		interceptor.WithMetrics(m),
		interceptor.WithLogger(logger),
	)

	return &App{
		Config:    cfg,
		Store:     store,
		Session:   sess,
		Transport: transport,
		Catalog:   api.NewClient(cfg.GetAPIURL(), &http.Client{Transport: transport, Timeout: cfg.GetRequestTimeout()}),
		Metrics:   m,
		Logger:    logger,
	}, nil
}

func newLogger(cfg config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: cfg.GetEnv() != "DEV"}).
		Level(level).
		With().Timestamp().Logger()
}
