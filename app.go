package seoshop

import (
	"fmt"
	"net/url"
	"time"
)

const TraceIDKey = "KeyTraceID"

type App struct {
	*AppConfig
	*Client
	SessionStore
}

func NewAppConfig() *AppConfig {
	return &AppConfig{Credentials: &Credentials{}}
}

type AppConfig struct {
	*Credentials
	HostURL string

	withTraceID   bool
	tokenTTL      time.Duration
	redirectPath  string
	installHooks  []*Webhook
	clientOptions []Opt

	installHook HookInstall
}

func NewApp(c *AppConfig, opts ...AppOpt) (*App, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	app := &App{AppConfig: c}
	applyDefaults(app)
	for _, opt := range opts {
		opt(app)
	}
	client, err := NewClient(c.Credentials, app.clientOptions...)
	if err != nil {
		return nil, err
	}
	app.Client = client
	return app, nil
}

func validate(c *AppConfig) error {
	if c == nil {
		return fmt.Errorf("%w: missing app config", ErrConfiguration)
	}
	if err := c.Credentials.validate(); err != nil {
		return err
	}
	if _, err := url.Parse(c.HostURL); err != nil {
		return fmt.Errorf("%w: malformed host url: %w", ErrConfiguration, err)
	}
	return nil
}

func applyDefaults(a *App) {
	a.tokenTTL = 24 * time.Hour
	a.redirectPath = "/"
	a.SessionStore = NewInMemSessionStore()
}

type AppOpt = func(a *App)

// WithClientOptions passes options through to the API client of the app.
func WithClientOptions(opts ...Opt) AppOpt {
	return func(a *App) {
		a.clientOptions = append(a.clientOptions, opts...)
	}
}

func WithTraceID() AppOpt {
	return func(a *App) {
		a.withTraceID = true
	}
}

func WithSessionStore(sess SessionStore) AppOpt {
	return func(a *App) {
		a.SessionStore = sess
	}
}

func WithSessionTokenTTL(d time.Duration) AppOpt {
	return func(a *App) {
		a.tokenTTL = d
	}
}

// WithRedirectPath sets where Install sends the merchant after a successful
// installation.
func WithRedirectPath(p string) AppOpt {
	return func(a *App) {
		a.redirectPath = p
	}
}

// WithInstallWebhooks registers the given webhooks on every install. Relative
// addresses are resolved against HostURL.
func WithInstallWebhooks(whs ...*Webhook) AppOpt {
	return func(a *App) {
		a.installHooks = append(a.installHooks, whs...)
	}
}

type Hook interface {
	hook()
}

type HookInstall func(sess *Session)

func (hi HookInstall) hook() {}

func WithHooks(hooks ...Hook) AppOpt {
	return func(a *App) {
		for _, hook := range hooks {
			switch h := hook.(type) {
			case HookInstall:
				a.installHook = h
			default:
				panic(fmt.Sprintf("%T is not a valid hook", hook))
			}
		}
	}
}
