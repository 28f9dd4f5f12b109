// Package zabbix implements a client for the Zabbix JSON-RPC API.
//
// The client keeps a single session per process run: the server base URL, an
// opaque authentication token obtained via Login, and a monotonically
// incrementing request identifier. All API methods funnel through Call, which
// builds the JSON-RPC 2.0 envelope, performs one HTTP POST and returns the
// raw result payload.
//
// Method dispatch is explicit: a method name is always "<entity>.<action>"
// (host.get, hostgroup.create, configuration.import, ...) assembled by Call
// from its entity and action arguments. Typed wrappers for the entities this
// tool manages live in hostgroup.go, host.go and template.go.
//
// Example usage:
//
//	client, err := zabbix.New("https://zabbix.example.com",
//	    zabbix.WithTimeout(30*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Login(ctx, "Admin", "secret"); err != nil {
//	    log.Fatal(err)
//	}
//	groups, err := client.HostGroupGet(ctx, "Linux servers")
package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// apiPath is the fixed JSON-RPC endpoint path on every Zabbix server.
const apiPath = "/api_jsonrpc.php"

const contentType = "application/json-rpc"

// Client is a session-holding Zabbix JSON-RPC client. It is not safe for
// concurrent use; one invocation owns one client for its lifetime.
type Client struct {
	serverURL  string
	httpClient *http.Client
	logger     *zap.SugaredLogger
	legacyAuth bool

	auth   string
	nextID int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every outbound call. The default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger attaches a logger. Requests are logged at debug level.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLegacyAuth makes Login use the user.authenticate method used by old
// server versions instead of user.login.
func WithLegacyAuth() Option {
	return func(c *Client) {
		c.legacyAuth = true
	}
}

// New creates a client for the server at serverURL. The JSON-RPC endpoint
// path is appended automatically.
func New(serverURL string, opts ...Option) (*Client, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	c := &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop().Sugar(),
		nextID:     1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request is the JSON-RPC 2.0 request envelope.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	Auth    string      `json:"auth"`
	ID      int         `json:"id"`
}

// response is the JSON-RPC 2.0 response envelope.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

type loginParams struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Login authenticates against the server and stores the returned token for
// subsequent calls. Any previously held token is discarded first.
func (c *Client) Login(ctx context.Context, user, password string) error {
	c.auth = ""

	action := "login"
	if c.legacyAuth {
		action = "authenticate"
	}

	result, err := c.Call(ctx, "user", action, loginParams{User: user, Password: password})
	if err != nil {
		return err
	}

	var token string
	if err := json.Unmarshal(result, &token); err != nil {
		return &ProtocolError{Method: "user." + action, Reason: "unexpected login result", Err: err}
	}

	c.auth = token
	c.logger.Debugw("authenticated", "user", user)
	return nil
}

// APIVersion returns the server's API version. The call requires no
// authentication.
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	result, err := c.Call(ctx, "apiinfo", "version", struct{}{})
	if err != nil {
		return "", err
	}

	var version string
	if err := json.Unmarshal(result, &version); err != nil {
		return "", &ProtocolError{Method: "apiinfo.version", Reason: "unexpected result", Err: err}
	}
	return version, nil
}

// Call performs one JSON-RPC request for "<entity>.<action>" and returns the
// raw result payload. The session's request id is incremented whether or not
// the call succeeds.
func (c *Client) Call(ctx context.Context, entity, action string, params interface{}) (json.RawMessage, error) {
	method := entity + "." + action

	env := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		Auth:    c.auth,
		ID:      c.nextID,
	}
	c.nextID++

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+apiPath, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debugw("rpc call", "method", method, "id", env.ID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: method, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	if len(body) == 0 {
		return nil, &ProtocolError{Method: method, Reason: "empty response body"}
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &ProtocolError{Method: method, Reason: "invalid JSON in response", Err: err}
	}
	if parsed.Error != nil {
		parsed.Error.Method = method
		return nil, parsed.Error
	}

	return parsed.Result, nil
}
