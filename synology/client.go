/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package synology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/nethesis/nas-telegram-bridge/logs"
	"github.com/nethesis/nas-telegram-bridge/models"
)

const entryEndpoint = "/webapi/entry.cgi"

// Client owns the single NAS session. All operations lazily authenticate
// when no token is held and are serialized by the internal mutex: the
// vendor session model supports one token for one identity, nothing more.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string

	mu       sync.Mutex
	sid      string
	lastUsed time.Time
}

func New(baseURL, username, password string, forceIPv4 bool, timeout time.Duration) *Client {
	httpClient := &http.Client{
		Timeout: timeout,
	}

	// pin the transport to IPv4: DSM rejects terminal API calls from
	// IPv6-originated sessions with error code 105
	if forceIPv4 {
		dialer := &net.Dialer{Timeout: timeout}
		httpClient.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.DialContext(ctx, "tcp4", addr)
			},
		}
		logs.Log("[NAS] forcing IPv4 for NAS API requests")
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		username:   username,
		password:   password,
	}
}

// Login authenticates against the NAS. Calling it while already
// authenticated re-authenticates and replaces the held token.
func (c *Client) Login() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loginLocked()
}

// Logout terminates the NAS session, best effort: local state is cleared
// regardless of the server response. It is a no-op when no session is held.
func (c *Client) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.logoutLocked()
}

// SSHStatus reports whether the SSH service is enabled, logging in first
// when no session is held.
func (c *Client) SSHStatus() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	params := url.Values{}
	params.Set("api", "SYNO.Core.Terminal")
	params.Set("version", "1")
	params.Set("method", "get")

	res, err := c.authedCall(params, "get SSH status")
	if err != nil {
		return false, err
	}

	var data models.ServiceStatusData
	if res.Data != nil {
		if err := json.Unmarshal(res.Data, &data); err != nil {
			return false, &APIError{Op: "get SSH status", Message: "malformed service status payload: " + err.Error()}
		}
	}

	return data.Enabled(), nil
}

// SetSSH enables or disables the SSH service, logging in first when no
// session is held.
func (c *Client) SetSSH(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := "disable SSH"
	if enabled {
		op = "enable SSH"
	}

	params := url.Values{}
	params.Set("api", "SYNO.Core.Terminal")
	params.Set("version", "1")
	params.Set("method", "set")
	params.Set("enable_ssh", fmt.Sprintf("%t", enabled))

	_, err := c.authedCall(params, op)
	return err
}

// ListFiles returns the entries of a shared-folder path, logging in first
// when no session is held.
func (c *Client) ListFiles(folderPath string) ([]models.FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := "list files in " + folderPath

	params := url.Values{}
	params.Set("api", "SYNO.FileStation.List")
	params.Set("version", "2")
	params.Set("method", "list")
	params.Set("folder_path", folderPath)

	res, err := c.authedCall(params, op)
	if err != nil {
		return nil, err
	}

	var data models.FileListData
	if res.Data != nil {
		if err := json.Unmarshal(res.Data, &data); err != nil {
			return nil, &APIError{Op: op, Message: "malformed file list payload: " + err.Error()}
		}
	}

	return data.Files, nil
}

// LoggedIn reports whether a session token is currently held.
func (c *Client) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sid != ""
}

// ExpireIdle logs out the session when it has been unused for longer than
// idle. Driven by the periodic sweep in main.
func (c *Client) ExpireIdle(idle time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sid == "" || time.Since(c.lastUsed) < idle {
		return
	}

	logs.Log("[NAS] expiring idle session")
	if err := c.logoutLocked(); err != nil {
		logs.Log("[NAS] idle session logout failed: " + err.Error())
	}
}

func (c *Client) loginLocked() error {
	params := url.Values{}
	params.Set("api", "SYNO.API.Auth")
	params.Set("version", "3")
	params.Set("method", "login")
	params.Set("account", c.username)
	params.Set("passwd", c.password)

	res, err := c.do(params, "login")
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	if err != nil {
		return &AuthError{Reason: err.Error()}
	}

	if !res.Success {
		if res.Error != nil {
			return &AuthError{Code: res.Error.Code}
		}
		return &AuthError{Reason: "login failed with unknown error"}
	}

	var data models.AuthData
	if res.Data == nil || json.Unmarshal(res.Data, &data) != nil || data.Sid == "" {
		return &AuthError{Reason: "malformed login response"}
	}

	c.sid = data.Sid
	c.lastUsed = time.Now()
	logs.Log("[NAS] logged in")

	return nil
}

func (c *Client) logoutLocked() error {
	if c.sid == "" {
		return nil
	}

	params := url.Values{}
	params.Set("api", "SYNO.API.Auth")
	params.Set("version", "3")
	params.Set("method", "logout")
	params.Set("_sid", c.sid)

	// clear the token before talking to the server, the local session
	// ends here whatever the NAS answers
	c.sid = ""

	res, err := c.do(params, "logout")
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	if err != nil {
		return &AuthError{Reason: err.Error()}
	}
	if !res.Success && res.Error != nil {
		return &AuthError{Code: res.Error.Code}
	}

	logs.Log("[NAS] logged out")
	return nil
}

// authedCall performs an authenticated webapi call, logging in first when
// no session is held. No automatic retry: a permission error right after a
// fresh login is reported as-is.
func (c *Client) authedCall(params url.Values, op string) (*models.NASResponse, error) {
	if c.sid == "" {
		logs.Log("[NAS] no active session, logging in before: " + op)
		if err := c.loginLocked(); err != nil {
			return nil, err
		}
	}

	params.Set("_sid", c.sid)

	res, err := c.do(params, op)
	if err != nil {
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			return nil, err
		}
		return nil, &APIError{Op: op, Message: err.Error()}
	}

	if !res.Success {
		return nil, c.apiError(res.Error, op)
	}

	c.lastUsed = time.Now()
	return res, nil
}

// apiError classifies a non-success vendor response. Codes meaning the
// token is no longer valid clear the session so the next call
// re-authenticates.
func (c *Client) apiError(nasErr *models.NASError, op string) error {
	if nasErr == nil {
		return &APIError{Op: op, Message: "unknown error"}
	}

	switch nasErr.Code {
	case codePermissionDenied:
		return &PermissionError{Code: nasErr.Code}
	case codeSessionTimeout, codeDuplicateLogin, codeInvalidSession:
		logs.Log(fmt.Sprintf("[NAS] session no longer valid (code %d), clearing token", nasErr.Code))
		c.sid = ""
		return &APIError{Code: nasErr.Code, Op: op}
	default:
		return &APIError{Code: nasErr.Code, Op: op}
	}
}

func (c *Client) do(params url.Values, op string) (*models.NASResponse, error) {
	reqURL := c.baseURL + entryEndpoint + "?" + params.Encode()

	resp, err := c.httpClient.Get(reqURL)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	var res models.NASResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("malformed NAS response: %v", err)
	}

	return &res, nil
}
