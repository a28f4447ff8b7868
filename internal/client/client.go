// Package client talks to the album backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"albumview/internal/errors"
	"albumview/internal/log"
	"albumview/internal/navigation"
	"albumview/internal/paths"
	"albumview/pkg/types"
)

// maxMessageBytes caps how much of a mutation response body is kept as
// the result message.
const maxMessageBytes = 4 << 10

// Action is a navigation mutation understood by the backend.
type Action string

const (
	ActionHome  Action = "home"
	ActionUp    Action = "up"
	ActionLeft  Action = "left"
	ActionRight Action = "right"
)

// SessionCookie names the cookie that carries the backend session. Album
// authorizations are bound to it.
const SessionCookie = "massPhotoSessionId"

// Album access actions.
const (
	albumLock = "lock"
	albumAuth = "auth"
)

// Client is an album backend client. It is safe for concurrent use. It
// keeps the backend session cookie for its whole lifetime.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for the backend at baseURL. A zero timeout means
// requests only end with their context.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.NewConfigError("invalid server url", "server.url", errors.InvalidConfig, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.NewConfigError("server url needs scheme and host", "server.url", errors.InvalidConfig, nil)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// escapePath escapes every segment of p on its own so '/' keeps separating
// segments.
func escapePath(p string) string {
	segs := paths.Segments(p)
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func (c *Client) endpoint(route, p string) string {
	u := c.base.String() + "/" + route
	if esc := escapePath(p); esc != "" {
		u += "/" + esc
	}
	return u
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}
	log.Debugf("%s %s", method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewTransportError(method, target, err)
	}
	return resp, nil
}

func statusError(resp *http.Response, method, target string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxMessageBytes))
	return errors.NewStatusError(method, target, resp.StatusCode, strings.TrimSpace(string(body)))
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

func (c *Client) getListing(ctx context.Context, target string) (types.Listing, error) {
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return types.Listing{}, err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return types.Listing{}, statusError(resp, http.MethodGet, target)
	}
	var l types.Listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return types.Listing{}, errors.Wrapf(err, "decode listing from %s", target)
	}
	return l, nil
}

// List returns the listing of path.
func (c *Client) List(ctx context.Context, path string) (types.Listing, error) {
	l, err := c.getListing(ctx, c.endpoint("file_list", path))
	if err != nil {
		return types.Listing{}, err
	}
	if l.Path == "" {
		l.Path = paths.Clean(path)
	}
	return l, nil
}

// Current returns the listing of the directory the backend session is in.
func (c *Client) Current(ctx context.Context) (types.Listing, error) {
	return c.getListing(ctx, c.endpoint("files", ""))
}

func (c *Client) post(ctx context.Context, target string, body io.Reader) error {
	resp, err := c.do(ctx, http.MethodPost, target, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return statusError(resp, http.MethodPost, target)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Navigate applies a navigation mutation to the backend session.
func (c *Client) Navigate(ctx context.Context, action Action) error {
	return c.post(ctx, c.endpoint(string(action), ""), nil)
}

// SetPath moves the backend session to path.
func (c *Client) SetPath(ctx context.Context, path string) error {
	return c.post(ctx, c.endpoint("path", ""), bytes.NewBufferString(paths.Clean(path)))
}

// Sibling moves the backend session to the previous or next directory and
// returns the listing it ended up in.
func (c *Client) Sibling(ctx context.Context, dir navigation.Direction) (types.Listing, error) {
	action := ActionRight
	if dir == navigation.Previous {
		action = ActionLeft
	}
	if err := c.Navigate(ctx, action); err != nil {
		return types.Listing{}, err
	}
	return c.Current(ctx)
}

// Apply sends op for identity. Any response is a result; only a request
// that got no response returns an error.
func (c *Client) Apply(ctx context.Context, op types.Operation, identity string) (types.BatchResult, error) {
	target := c.endpoint(string(op), identity)
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return types.BatchResult{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMessageBytes))
	if err != nil {
		return types.BatchResult{}, errors.NewTransportError(http.MethodGet, target, err)
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return types.BatchResult{
		Identity:   identity,
		StatusCode: resp.StatusCode,
		Message:    msg,
	}, nil
}

// OpenSession makes sure the backend has a session for this client. The
// backend answers with a session cookie the first time; later calls keep it.
func (c *Client) OpenSession(ctx context.Context) error {
	target := c.endpoint("sessions", "")
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return statusError(resp, http.MethodGet, target)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// HasSession reports whether the backend has handed out a session cookie.
func (c *Client) HasSession() bool {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == SessionCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

func (c *Client) albumEndpoint(album, action string) (string, error) {
	if paths.Clean(album) == "" {
		return "", errors.Wrapf(errors.ErrInvalidPath, "%s needs an album", action)
	}
	return c.endpoint("albums", album) + "/" + action, nil
}

// LockAlbum protects album with password. An empty password removes the
// lock. The session must belong to the album owner.
func (c *Client) LockAlbum(ctx context.Context, album, password string) error {
	target, err := c.albumEndpoint(album, albumLock)
	if err != nil {
		return err
	}
	return c.post(ctx, target, strings.NewReader(password))
}

// AuthorizeAlbum unlocks album for this session.
func (c *Client) AuthorizeAlbum(ctx context.Context, album, password string) error {
	target, err := c.albumEndpoint(album, albumAuth)
	if err != nil {
		return err
	}
	return c.post(ctx, target, strings.NewReader(password))
}

// Comment returns the comment stored for file. A file without a comment
// has an empty one.
func (c *Client) Comment(ctx context.Context, file string) (string, error) {
	target := c.endpoint("comments", file)
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return "", statusError(resp, http.MethodGet, target)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMessageBytes))
	if err != nil {
		return "", errors.NewTransportError(http.MethodGet, target, err)
	}
	return strings.TrimSpace(string(body)), nil
}

// SetComment replaces the comment of file.
func (c *Client) SetComment(ctx context.Context, file, text string) error {
	return c.post(ctx, c.endpoint("comments", file), strings.NewReader(text))
}

// Fetch downloads the original media blob at path.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	target := c.MediaURL(path)
	resp, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if !ok(resp.StatusCode) {
		return nil, statusError(resp, http.MethodGet, target)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(http.MethodGet, target, err)
	}
	return data, nil
}

// MediaURL returns the URL of the original media at path.
func (c *Client) MediaURL(path string) string {
	return c.endpoint("files", path)
}

// ThumbnailURL returns the URL of the preview of origin.
func (c *Client) ThumbnailURL(origin string, encrypted bool) string {
	return c.endpoint(strings.TrimSuffix(paths.ThumbRoute, "/"), paths.ThumbnailPath(origin, encrypted))
}

func (c *Client) String() string {
	return fmt.Sprintf("album backend at %s", c.BaseURL())
}
