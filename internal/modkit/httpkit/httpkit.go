// Package httpkit is the route surface modules mount against
// modules use it instead of importing internal/platform/net/http directly
package httpkit

import (
	"net/http"

	perr "astrochat/internal/platform/errors"
	phttp "astrochat/internal/platform/net/http"
	"astrochat/internal/platform/net/http/bind"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is what return-style handlers hand back
	Response = phttp.Response

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)

// Reject returns an error response that also carries a data payload
func Reject(err error, data any) Response { return phttp.Reject(err, data) }

// PostJSON binds and validates T from the body before calling h
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandler(h))
}

// Get registers a handler that reads only the URL
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.NoBodyHandler(h))
}

// Validate runs struct tags on v for inputs not bound from a JSON body, eg query params
func Validate(v any) error {
	if err := bind.Get().Validator.Struct(v); err != nil {
		field, msg := bind.ValidationFieldAndMessage(err)
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return nil
}

// MountAPIV1 mounts a subrouter under /api/v1 with the shared middleware,
// then lets mount register module routes on it
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}
