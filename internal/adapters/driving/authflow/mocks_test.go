package authflow

import (
	"context"

	"github.com/custodia-labs/deepwiki-mcp/internal/adapters/driven/oauth"
	"github.com/custodia-labs/deepwiki-mcp/internal/core/domain"
)

// fakeAuthorizer records the completion call and returns a fixed code.
type fakeAuthorizer struct {
	pending domain.PendingAuthorization
	props   domain.AuthorizedProps
	code    string
	err     error
}

func (f *fakeAuthorizer) CompleteAuthorization(pending domain.PendingAuthorization, props domain.AuthorizedProps) (string, error) {
	f.pending = pending
	f.props = props
	if f.err != nil {
		return "", f.err
	}
	return f.code, nil
}

// fakeIdentity returns a fixed upstream identity.
type fakeIdentity struct {
	login, name, email string
	gotToken           string
	err                error
}

func (f *fakeIdentity) AuthenticatedUser(_ context.Context, accessToken string) (string, string, string, error) {
	f.gotToken = accessToken
	if f.err != nil {
		return "", "", "", f.err
	}
	return f.login, f.name, f.email, nil
}

// fixedExchange returns a canned exchange result.
func fixedExchange(token string, exchErr *oauth.ExchangeError) exchangeFunc {
	return func(context.Context, string, string, string, string, string) (string, *oauth.ExchangeError) {
		return token, exchErr
	}
}
