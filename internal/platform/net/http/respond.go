// Package http provides the router seam, the server and envelope writing helpers
package http

import (
	stdhttp "net/http"

	pnet "astrochat/internal/platform/net"
	"astrochat/internal/platform/net/http/bind"
)

// Envelope is the standard response body for all endpoints
type Envelope = pnet.Wire

// RespondOK writes a 200 envelope with data
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	pnet.Write(w, stdhttp.StatusOK, pnet.Success(stdhttp.StatusOK, data, pnet.RequestID(r.Context())))
}

// RespondError maps a project error into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, body := pnet.Error(err, pnet.RequestID(r.Context()))
	pnet.Write(w, status, body)
}

// Response is what return-style handlers hand back
type Response struct {
	Status int
	// Body is the data on success; an error value selects the error envelope
	Body any
	// Data rides along with an error body, eg quota details on a 429
	Data   any
	Header stdhttp.Header
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns a response that maps the error to status and envelope
func Error(err error) Response { return Response{Body: err} }

// Reject is Error with a data payload kept in the envelope
func Reject(err error, data any) Response { return Response{Body: err, Data: data} }

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	if err, ok := resp.Body.(error); ok && err != nil {
		status, body := pnet.Error(err, reqID)
		body.Data = resp.Data
		pnet.Write(w, status, body)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	pnet.Write(w, status, pnet.Success(status, resp.Body, reqID))
}

// JSONHandler binds and validates T from the body, then wraps fn's result in the envelope
// fn may return a Response to pick its own status or carry data on an error
func JSONHandler[T any](fn func(*stdhttp.Request, T) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// NoBodyHandler is JSONHandler for routes without a request body
func NoBodyHandler(fn func(*stdhttp.Request) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response { return result(fn(r)) })
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
