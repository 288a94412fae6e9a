// Package auth drives the OAuth2 token lifecycle against the brokerage's
// authorization server: loading persisted tokens, refreshing a stale access
// token with the refresh_token grant, and running the interactive
// authorization_code flow when the refresh token itself has expired.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-broker-client/internal/config"
	"github.com/jrsteele09/go-broker-client/internal/logging"
	"github.com/jrsteele09/go-broker-client/oauth2"
	"github.com/jrsteele09/go-broker-client/token"
	"github.com/jrsteele09/go-broker-client/transport"
	"github.com/jrsteele09/go-broker-client/userinput"
)

// Authorizer owns the token store and keeps it fresh. AccessToken is the
// single public entry point; it returns an access token guaranteed fresh at
// the time of return.
//
// Not safe for concurrent use: the token file is read then written without
// a lock, so run at most one live Authorizer per storage path per process,
// and at most one process against a given storage path at a time.
type Authorizer struct {
	baseAuthURL string
	appKey      string
	appSecret   string
	callbackURL string
	tokenPath   string

	store     *token.Store
	collector userinput.Collector
	requester transport.Requester
	logger    logging.Logger

	nowTime     func() time.Time
	openBrowser func(url string) error

	hasState bool
}

var _ token.Provider = (*Authorizer)(nil)

// Option modifies the Authorizer at construction.
type Option func(*Authorizer)

// WithNowTime sets the clock function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(a *Authorizer) { a.nowTime = nowFunc }
}

// WithTransport replaces the HTTP transport.
func WithTransport(r transport.Requester) Option {
	return func(a *Authorizer) { a.requester = r }
}

// WithCollector replaces the consent collector, overriding the configured
// input type.
func WithCollector(c userinput.Collector) Option {
	return func(a *Authorizer) { a.collector = c }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Authorizer) { a.logger = l }
}

// WithBrowserOpener replaces the browser launcher (primarily for testing).
func WithBrowserOpener(open func(url string) error) Option {
	return func(a *Authorizer) { a.openBrowser = open }
}

// New builds an Authorizer from configuration and loads any persisted token
// state. A missing or malformed token file is not an error here; it puts
// the Authorizer on the interactive authorization path for the next
// AccessToken call. No network I/O happens during construction.
func New(cfg config.AuthConfig, options ...Option) (*Authorizer, error) {
	if cfg.BaseAuthURL == "" {
		return nil, errors.New("[auth.New] base_auth_url is required")
	}
	if cfg.App.AppKey == "" {
		return nil, errors.New("[auth.New] app_key is required")
	}
	if cfg.App.AppSecret == "" {
		return nil, errors.New("[auth.New] app_secret is required")
	}
	if cfg.App.CallbackURL == "" {
		return nil, errors.New("[auth.New] callback_url is required")
	}
	if cfg.Token.TokenPath == "" {
		return nil, errors.New("[auth.New] token_path is required")
	}

	a := &Authorizer{
		baseAuthURL: cfg.BaseAuthURL,
		appKey:      cfg.App.AppKey,
		appSecret:   cfg.App.AppSecret,
		callbackURL: cfg.App.CallbackURL,
		tokenPath:   cfg.Token.TokenPath,
		store: token.NewStore(
			time.Duration(cfg.Token.RefreshTokenExpiresInSec)*time.Second,
			time.Duration(cfg.Token.AccessTokenExpiresInSec)*time.Second,
		),
		logger:      logging.Nop(),
		nowTime:     time.Now,
		openBrowser: browser.OpenURL,
	}
	for _, opt := range options {
		opt(a)
	}

	if a.collector == nil {
		collector, err := userinput.New(cfg.Input)
		if err != nil {
			return nil, errors.Wrap(err, "[auth.New]")
		}
		a.collector = collector
	}
	if a.requester == nil {
		a.requester = transport.New(transport.WithLogger(a.logger))
	}

	a.loadTokens()
	return a, nil
}

// AccessToken returns a fresh access token, refreshing or re-authorizing
// first when the stored state demands it. Grant-exchange failures propagate
// unmodified; the call is safe to retry.
func (a *Authorizer) AccessToken(ctx context.Context) (string, error) {
	if !a.hasState {
		if err := a.reauthorize(ctx); err != nil {
			return "", err
		}
		return a.store.AccessToken, nil
	}

	now := a.nowTime()
	refreshStale, err := a.store.IsRefreshStale(now)
	if err != nil {
		return "", err
	}
	if refreshStale {
		a.logger.Info("refresh token has expired, manual re-authorization required")
		if err := a.reauthorize(ctx); err != nil {
			return "", err
		}
		return a.store.AccessToken, nil
	}

	accessStale, err := a.store.IsAccessStale(now)
	if err != nil {
		return "", err
	}
	if accessStale {
		a.logger.Info("access token has expired, refreshing")
		if err := a.refresh(ctx); err != nil {
			return "", err
		}
		return a.store.AccessToken, nil
	}

	a.logger.Debug("tokens are up to date")
	return a.store.AccessToken, nil
}

func (a *Authorizer) loadTokens() {
	err := a.store.LoadFile(a.tokenPath)
	switch {
	case err == nil:
		a.hasState = true
		a.logger.Debug("token state loaded", logging.F("path", a.tokenPath))
	case errors.Is(err, os.ErrNotExist):
		a.logger.Debug("no token state found", logging.F("path", a.tokenPath))
	default:
		a.logger.Warn("could not load token state, re-authorization required", logging.F("path", a.tokenPath), logging.F("error", err.Error()))
	}
}

// reauthorize runs the interactive consent flow: surface the authorization
// URL, collect the redirect URL from the user, exchange the code, persist.
func (a *Authorizer) reauthorize(ctx context.Context) error {
	authURL := fmt.Sprintf("%s/authorize?client_id=%s&redirect_uri=%s", a.baseAuthURL, a.appKey, a.callbackURL)
	a.logger.Info("opening authorization URL in your browser", logging.F("url", authURL))
	if err := a.openBrowser(authURL); err != nil {
		a.logger.Warn("could not open browser, visit the URL manually", logging.F("url", authURL))
	}

	redirectURL, err := a.collector.GetInput("")
	if err != nil {
		return errors.Wrap(err, "collecting consent response")
	}
	code, err := ExtractCode(redirectURL)
	if err != nil {
		return err
	}

	resp, err := a.exchange(ctx, oauth2.AuthorizationCodeGrant, code)
	if err != nil {
		return err
	}
	if err := a.persistGrant(resp, true); err != nil {
		return err
	}
	a.logger.Info("refresh token and access token updated")
	return nil
}

// refresh exchanges the stored refresh token for a new access token. The
// refresh token's own clock is not reset.
func (a *Authorizer) refresh(ctx context.Context) error {
	resp, err := a.exchange(ctx, oauth2.RefreshTokenGrant, a.store.RefreshToken)
	if err != nil {
		return err
	}
	if err := a.persistGrant(resp, false); err != nil {
		return err
	}
	a.logger.Info("access token updated")
	return nil
}

// persistGrant applies a validated response to the store and writes the
// whole record to disk. Nothing touches the file before this point, so a
// failed exchange leaves the previous record intact.
func (a *Authorizer) persistGrant(resp *oauth2.TokenResponse, reauthorized bool) error {
	if err := a.store.ApplyGrant(resp, reauthorized, a.nowTime()); err != nil {
		return err
	}
	if err := a.store.SaveFile(a.tokenPath); err != nil {
		return err
	}
	a.hasState = true
	return nil
}

// exchange performs one token-endpoint call. Transport errors propagate
// unmodified; a response missing required fields is rejected whole.
func (a *Authorizer) exchange(ctx context.Context, grantType oauth2.GrantType, code string) (*oauth2.TokenResponse, error) {
	form := url.Values{}
	switch grantType {
	case oauth2.AuthorizationCodeGrant:
		form.Set("grant_type", string(grantType))
		form.Set("code", code)
		form.Set("redirect_uri", a.callbackURL)
	case oauth2.RefreshTokenGrant:
		form.Set("grant_type", string(grantType))
		form.Set("refresh_token", code)
	default:
		return nil, errors.Wrapf(ErrInvalidGrantType, "%q", grantType)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(a.appKey + ":" + a.appSecret))
	headers := map[string]string{"Authorization": "Basic " + basic}

	resp, err := a.requester.Request(ctx, http.MethodPost, a.baseAuthURL+"/token",
		transport.WithHeaders(headers), transport.WithForm(form))
	if err != nil {
		return nil, err
	}

	var tokenResp oauth2.TokenResponse
	if err := resp.JSON(&tokenResp); err != nil {
		return nil, fmt.Errorf("%w: %v", oauth2.ErrMalformedTokenResponse, err)
	}
	if err := tokenResp.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s grant", grantType)
	}
	return &tokenResp, nil
}
