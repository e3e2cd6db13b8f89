package main

import (
	"context"
	"crypto/subtle"

	"github.com/pacsforge/siteserver/pkg/api"
	"github.com/pacsforge/siteserver/pkg/session"
)

// staticAuthenticator verifies logins against the config-defined user
// list with constant-time password comparison.
type staticAuthenticator struct {
	users map[string]userConfig
}

func newStaticAuthenticator(users []userConfig) *staticAuthenticator {
	m := make(map[string]userConfig, len(users))
	for _, u := range users {
		m[u.Login] = u
	}
	return &staticAuthenticator{users: m}
}

var _ api.Authenticator = (*staticAuthenticator)(nil)

func (a *staticAuthenticator) Authenticate(_ context.Context, login, password string) (*session.Session, error) {
	u, ok := a.users[login]
	if !ok || subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return nil, api.ErrBadCredentials
	}
	return &session.Session{
		Login:         u.Login,
		UserID:        u.UserID,
		SiteID:        u.SiteID,
		Superuser:     u.Superuser,
		PreferenceSet: u.PreferenceSet,
	}, nil
}
