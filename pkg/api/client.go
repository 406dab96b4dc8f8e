// Package api provides client code for the registrar REST API.
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/zeebo/errs"
)

// Error is the class of transport and decoding errors.
var Error = errs.Class("api")

// DefaultMessage is reported when the server rejects a request without
// saying why.
const DefaultMessage = "request failed"

// ServerError is a request the server answered but rejected.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

// IsNotFound reports whether err is a 404 answer.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

type Config struct {
	// URL is the API base, optionally with a path prefix such as /api.
	URL string

	// Token is sent as a bearer token when set.
	Token string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Optional.
	HTTPClient *http.Client
}

type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

func NewClient(config Config) (*Client, error) {
	baseURL, err := parseAPIURL(config.URL)
	if err != nil {
		return nil, err
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL: baseURL,
		token:   config.Token,
		http:    httpClient,
	}, nil
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Count   int             `json:"count"`
	Data    json.RawMessage `json:"data"`
}

// do issues one request and decodes the data member of the response
// envelope into out, if out is non-nil.
func (cli *Client) do(ctx context.Context, method, route string, in, out any) (err error) {
	// route is already escaped; JoinPath keeps escaped separators such as
	// %2F in RawPath instead of escaping them again.
	u := cli.baseURL.JoinPath(route)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return Error.Wrap(err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return Error.Wrap(err)
	}
	req = req.WithContext(ctx)

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cli.token != "" {
		req.Header.Set("Authorization", "Bearer "+cli.token)
	}

	resp, err := cli.http.Do(req)
	if err != nil {
		return Error.Wrap(err)
	}
	defer func() {
		err = errs.Combine(err, Error.Wrap(resp.Body.Close()))
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	env := new(envelope)
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		return Error.New("invalid JSON response: %v", err)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = DefaultMessage
		}
		return &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return Error.New("invalid response data: %v", err)
	}
	return nil
}

// statusError prefers the server's own message and falls back to a
// snippet of the body.
func statusError(resp *http.Response) error {
	body := tryRead(resp.Body, 4096)
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return &ServerError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if len(body) > 256 {
		body = body[:256]
	}
	return &ServerError{
		StatusCode: resp.StatusCode,
		Message:    Error.New("unexpected status %d: %s", resp.StatusCode, body).Error(),
	}
}

func tryRead(r io.Reader, max int) []byte {
	b := make([]byte, max)
	n, _ := io.ReadFull(r, b)
	return b[:n]
}

func parseAPIURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, Error.New("API URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, Error.New("API URL is malformed: %v", err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return nil, Error.New("API URL scheme must be http or https")
	case u.User != nil:
		return nil, Error.New("API URL must not have user info")
	case u.Host == "":
		return nil, Error.New("API URL must specify the host")
	case u.RawQuery != "":
		return nil, Error.New("API URL must not have query values")
	case u.Fragment != "":
		return nil, Error.New("API URL must not have a fragment")
	}
	return u, nil
}
