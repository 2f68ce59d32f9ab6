package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/willemschots/accounts/internal/errorz"
	"github.com/willemschots/accounts/internal/i18n"
)

// maxBodyBytes limits the size of request bodies.
const maxBodyBytes = 1 << 20

// mapper is a generic HTTP handler that maps requests to target
// function calls and writes the output to the response.
type mapper[IN, OUT any] struct {
	srv    *Server
	req    func(*http.Request) (IN, error)
	target func(context.Context, i18n.Translator, IN) (OUT, error)
	res    func(result[IN, OUT]) error
}

// result is the result of a succesful request.
// it contains all relevant data because we can't know
// in advance what we will need to construct a response.
type result[IN, OUT any] struct {
	srv *Server
	r   *http.Request
	w   http.ResponseWriter
	in  IN
	out OUT
}

// newHandler creates a HTTP Handler that:
// 1. Decodes the JSON request body to a value of input type IN.
// 2. Calls the target func with that value and the translator of the request.
// 3. Writes the output of type OUT as JSON to the response with status 200.
//
// Errors are written using the server error handler.
func newHandler[IN, OUT any](srv *Server, targetFunc func(context.Context, i18n.Translator, IN) (OUT, error)) *mapper[IN, OUT] {
	return &mapper[IN, OUT]{
		srv:    srv,
		req:    decodeJSON[IN],
		target: targetFunc,
		res:    writeJSON[IN, OUT],
	}
}

// request overwrites the function that maps the request to the input type.
func (m *mapper[IN, OUT]) request(fn func(r *http.Request) (IN, error)) *mapper[IN, OUT] {
	m.req = fn
	return m
}

func (m *mapper[IN, OUT]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, err := m.req(r)
	if err != nil {
		m.srv.handleError(w, r, err)
		return
	}

	out, err := m.target(r.Context(), translatorFromCtx(r.Context()), in)
	if err != nil {
		m.srv.handleError(w, r, err)
		return
	}

	err = m.res(result[IN, OUT]{
		srv: m.srv,
		r:   r,
		w:   w,
		in:  in,
		out: out,
	})
	if err != nil {
		m.srv.handleError(w, r, err)
		return
	}
}

// decodeJSON is the default way to map a request to a struct.
// An empty body decodes to the zero value of IN.
func decodeJSON[IN any](r *http.Request) (IN, error) {
	var in IN
	if r.Body == nil {
		return in, nil
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	err := dec.Decode(&in)
	if errors.Is(err, io.EOF) {
		return in, nil
	}

	return in, decodeError(err)
}

func noInput(*http.Request) (struct{}, error) {
	return struct{}{}, nil
}

func decodeError(err error) error {
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errorz.InvalidInput{errorz.Keyed{
			Key: typeErr.Field,
			Err: err,
		}}
	}

	return errorz.InvalidInput{err}
}

// writeJSON is the default way to write a response to the client.
func writeJSON[IN, OUT any](res result[IN, OUT]) error {
	return respondJSON(res.w, http.StatusOK, res.out)
}

func respondJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
