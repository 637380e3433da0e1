package kakao

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const Issuer = "https://kauth.kakao.com"

// IDClaims are the Kakao id_token claims the app reads.
type IDClaims struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Picture  string `json:"picture"`

	// Token is the grant the login produced; it carries the talk_message scope.
	Token *oauth2.Token `json:"-"`
}

type OIDCConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c OIDCConfig) OAuth2(endpoint oauth2.Endpoint) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "account_email", "profile_nickname", "talk_message"},
		Endpoint:     endpoint,
	}
}

// Login wraps the discovery document and the id_token verifier.
type Login struct {
	cfg      OIDCConfig
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewLogin runs OIDC discovery against the Kakao issuer.
func NewLogin(ctx context.Context, cfg OIDCConfig) (*Login, error) {
	provider, err := oidc.NewProvider(ctx, Issuer)
	if err != nil {
		return nil, errors.Wrap(err, "kakao oidc discovery")
	}
	return &Login{
		cfg:      cfg,
		oauth:    cfg.OAuth2(provider.Endpoint()),
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (l *Login) AuthCodeURL(state string) string {
	return l.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the code for tokens and returns the verified id_token claims.
func (l *Login) Exchange(ctx context.Context, code string) (*IDClaims, error) {
	tok, err := l.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchange code")
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("missing id_token")
	}
	idToken, err := l.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid id_token")
	}

	var claims IDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "decode id_token claims")
	}
	if claims.Sub == "" {
		return nil, errors.New("id_token missing sub")
	}
	claims.Token = tok
	return &claims, nil
}

// TokenSource refreshes a stored grant when its access token has expired.
func (l *Login) TokenSource(ctx context.Context, t *oauth2.Token) oauth2.TokenSource {
	return l.oauth.TokenSource(ctx, t)
}
