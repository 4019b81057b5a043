package internal

import (
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/yjcc/events/internal/ctxhelper"
	"golang.org/x/net/context"
)

// EnsureAdmin is a middleware that checks if there is a valid administrator session for the current call
func EnsureAdmin(next endpoint.Endpoint) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		sess := ctxhelper.Session(ctx)
		if sess == nil {
			// Nobody logged in
			return nil, MakeError(
				http.StatusForbidden,
				ErrCodeNotLoggedIn,
				"This function needs an authenticated administrator",
			)
		}
		return next(ctx, request)
	}
}
