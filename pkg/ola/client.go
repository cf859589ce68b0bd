// Package ola is a client for the HTTP/JSON API of an OLA (Open Lighting
// Architecture) server.
//
//	client := ola.New("localhost", 9090)
//	err := client.SetDMX(ctx, "1", []byte{255, 128, 64})
package ola

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 9090

	pathGetPorts            = "/json/get_ports"
	pathServerStats         = "/json/server_stats"
	pathUniversesPluginList = "/json/universes_plugin_list"
	pathGetDMX              = "/get_dmx"
	pathSetDMX              = "/set_dmx"

	// maxErrorBody limits how much of an undecodable response ends up in a StatusError.
	maxErrorBody = 512
)

// Client talks to a single OLA server. It is safe for concurrent use.
type Client struct {
	baseURL      string
	bufferLength atomic.Int64
	httpClient   *http.Client
	log          logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithBufferLength sets the number of channels sent by SetDMX.
func WithBufferLength(n int) Option {
	return func(c *Client) { c.SetBufferLength(n) }
}

// WithHTTPClient replaces the HTTP client used for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used to report failed writes.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the server at host:port. An empty host and a zero
// port fall back to localhost:9090.
func New(host string, port int, opts ...Option) *Client {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	c := &Client{
		baseURL:    "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		httpClient: http.DefaultClient,
		log:        logrus.StandardLogger(),
	}
	c.bufferLength.Store(DefaultBufferLength)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL all requests are made against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BufferLength returns the number of channels sent by SetDMX.
func (c *Client) BufferLength() int {
	return int(c.bufferLength.Load())
}

// SetBufferLength changes the number of channels sent by subsequent SetDMX
// calls. Values below 1 restore DefaultBufferLength.
func (c *Client) SetBufferLength(n int) {
	if n < 1 {
		n = DefaultBufferLength
	}
	c.bufferLength.Store(int64(n))
}

// GetPorts returns the device ports known to the server.
func (c *Client) GetPorts(ctx context.Context) ([]Port, error) {
	var ports []Port
	if err := c.getJSON(ctx, pathGetPorts, nil, &ports); err != nil {
		return nil, err
	}
	return ports, nil
}

// GetServerStats returns the server status block.
func (c *Client) GetServerStats(ctx context.Context) (*ServerStats, error) {
	var stats ServerStats
	if err := c.getJSON(ctx, pathServerStats, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UniversesPluginList returns the configured universes and loaded plugins.
func (c *Client) UniversesPluginList(ctx context.Context) (*UniversesPluginList, error) {
	var list UniversesPluginList
	if err := c.getJSON(ctx, pathUniversesPluginList, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetDMX returns the current channel levels of a universe.
func (c *Client) GetDMX(ctx context.Context, universe string) (*DMXResponse, error) {
	var resp DMXResponse
	if err := c.getJSON(ctx, pathGetDMX, url.Values{"u": {universe}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetDMX sends values to a universe. The values are laid onto a fresh
// buffer of BufferLength channels and every channel past len(values) is
// sent as 0, so an empty slice blacks the universe out. Values beyond
// BufferLength are dropped.
func (c *Client) SetDMX(ctx context.Context, universe string, values []byte) error {
	return c.SetDMXFromBuffer(ctx, universe, NewBuffer(c.BufferLength(), values))
}

// SetDMXFromBuffer sends buf to a universe as is. The response body is not
// inspected.
func (c *Client) SetDMXFromBuffer(ctx context.Context, universe string, buf Buffer) error {
	form := url.Values{"u": {universe}, "d": {buf.String()}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathSetDMX, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build set_dmx request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"module": "ola", "universe": universe}).Errorf("set_dmx failed: %v", err)
		return fmt.Errorf("set_dmx universe %s: %w", universe, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WithFields(logrus.Fields{"module": "ola", "universe": universe}).Warnf("set_dmx returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ola %s request failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ola %s read body: %w", path, err)
	}

	// OLA reports some failures as a JSON document with an error status;
	// whatever the status, a decodable body goes back to the caller.
	if err := json.Unmarshal(body, v); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			if len(body) > maxErrorBody {
				body = body[:maxErrorBody]
			}
			return &StatusError{Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body)), Err: err}
		}
		return fmt.Errorf("failed to decode ola %s: %w", path, err)
	}
	return nil
}
