/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package synology

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nethesis/nas-telegram-bridge/logs"
)

func TestMain(m *testing.M) {
	logs.Init("synology-test")
	os.Exit(m.Run())
}

// mockNAS emulates the Synology webapi entry endpoint: session handout on
// login, sid validation and an SSH service flag on the terminal API.
type mockNAS struct {
	mu            sync.Mutex
	sshEnabled    bool
	sids          map[string]bool
	seq           int
	loginCount    int
	logoutCount   int
	requestCount  int
	failLogin     bool
	terminalCode  int
	terminalDelay time.Duration
	httpStatus    int
	statusField   string
	fileStation   map[string]string
}

func newMockNAS() *mockNAS {
	return &mockNAS{sids: make(map[string]bool)}
}

func (m *mockNAS) handler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestCount++

	q := r.URL.Query()
	api := q.Get("api")
	method := q.Get("method")

	switch {
	case api == "SYNO.API.Auth" && method == "login":
		m.loginCount++
		if m.failLogin {
			io.WriteString(w, `{"success":false,"error":{"code":400}}`)
			return
		}
		m.seq++
		sid := fmt.Sprintf("sid-%d", m.seq)
		m.sids[sid] = true
		fmt.Fprintf(w, `{"success":true,"data":{"sid":%q}}`, sid)

	case api == "SYNO.API.Auth" && method == "logout":
		m.logoutCount++
		delete(m.sids, q.Get("_sid"))
		io.WriteString(w, `{"success":true}`)

	case api == "SYNO.Core.Terminal":
		if m.terminalDelay > 0 {
			delay := m.terminalDelay
			m.mu.Unlock()
			time.Sleep(delay)
			m.mu.Lock()
		}
		if m.httpStatus != 0 {
			w.WriteHeader(m.httpStatus)
			return
		}
		if m.terminalCode != 0 {
			fmt.Fprintf(w, `{"success":false,"error":{"code":%d}}`, m.terminalCode)
			return
		}
		if !m.sids[q.Get("_sid")] {
			io.WriteString(w, `{"success":false,"error":{"code":119}}`)
			return
		}
		if method == "set" {
			m.sshEnabled = q.Get("enable_ssh") == "true"
			io.WriteString(w, `{"success":true}`)
			return
		}
		field := m.statusField
		if field == "" {
			field = "enable_ssh"
		}
		fmt.Fprintf(w, `{"success":true,"data":{%q:%t}}`, field, m.sshEnabled)

	case api == "SYNO.FileStation.List" && method == "list":
		if !m.sids[q.Get("_sid")] {
			io.WriteString(w, `{"success":false,"error":{"code":119}}`)
			return
		}
		files, ok := m.fileStation[q.Get("folder_path")]
		if !ok {
			io.WriteString(w, `{"success":false,"error":{"code":408}}`)
			return
		}
		io.WriteString(w, `{"success":true,"data":{"files":[`+files+`],"total":0,"offset":0}}`)

	default:
		io.WriteString(w, `{"success":false,"error":{"code":102}}`)
	}
}

func newTestClient(t *testing.T, timeout time.Duration) (*Client, *mockNAS) {
	t.Helper()

	nas := newMockNAS()
	server := httptest.NewServer(http.HandlerFunc(nas.handler))
	t.Cleanup(server.Close)

	return New(server.URL, "testuser", "testpass", false, timeout), nas
}

func TestLoginStoresSession(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)

	err := client.Login()
	assert.NoError(t, err)
	assert.True(t, client.LoggedIn())
	assert.Equal(t, 1, nas.loginCount)
}

func TestLoginIsIdempotent(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)

	assert.NoError(t, client.Login())
	assert.NoError(t, client.Login())
	assert.True(t, client.LoggedIn())
	assert.Equal(t, 2, nas.loginCount)
}

func TestLoginBadCredentials(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)
	nas.failLogin = true

	err := client.Login()
	assert.Error(t, err)

	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.Equal(t, 400, authErr.Code)
	assert.False(t, client.LoggedIn())
}

func TestLoginUnreachableHost(t *testing.T) {
	client := New("http://127.0.0.1:1", "testuser", "testpass", false, time.Second)

	err := client.Login()
	assert.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
	assert.False(t, client.LoggedIn())
}

func TestLogoutClearsSession(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)

	assert.NoError(t, client.Login())
	assert.NoError(t, client.Logout())
	assert.False(t, client.LoggedIn())
	assert.Equal(t, 1, nas.logoutCount)

	// next authenticated call triggers a fresh login
	_, err := client.SSHStatus()
	assert.NoError(t, err)
	assert.Equal(t, 2, nas.loginCount)
	assert.True(t, client.LoggedIn())
}

func TestLogoutWithoutSession(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)

	assert.NoError(t, client.Logout())
	assert.Equal(t, 0, nas.requestCount)
}

func TestSSHStatusLazyLogin(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)

	enabled, err := client.SSHStatus()
	assert.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, 1, nas.loginCount)
	assert.True(t, client.LoggedIn())
}

func TestSSHRoundTrip(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)

	assert.NoError(t, client.SetSSH(true))
	enabled, err := client.SSHStatus()
	assert.NoError(t, err)
	assert.True(t, enabled)

	assert.NoError(t, client.SetSSH(false))
	enabled, err = client.SSHStatus()
	assert.NoError(t, err)
	assert.False(t, enabled)

	// the session is reused across calls
	assert.Equal(t, 1, nas.loginCount)
}

func TestPermissionDeniedSurfacesRemedy(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)
	nas.terminalCode = 105

	_, err := client.SSHStatus()
	assert.Error(t, err)

	var permErr *PermissionError
	assert.True(t, errors.As(err, &permErr))
	assert.Equal(t, 105, permErr.Code)
	assert.Contains(t, err.Error(), "NAS_FORCE_IPV4")

	// a permission error does not invalidate the session
	assert.True(t, client.LoggedIn())
}

func TestInvalidSessionClearsToken(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)

	assert.NoError(t, client.Login())
	nas.terminalCode = 119

	_, err := client.SSHStatus()
	assert.Error(t, err)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 119, apiErr.Code)
	assert.False(t, client.LoggedIn())

	// the next call re-authenticates
	nas.terminalCode = 0
	_, err = client.SSHStatus()
	assert.NoError(t, err)
	assert.Equal(t, 2, nas.loginCount)
}

func TestTimeoutLeavesSessionUntouched(t *testing.T) {
	client, nas := newTestClient(t, 200*time.Millisecond)

	assert.NoError(t, client.Login())
	nas.terminalDelay = time.Second

	_, err := client.SSHStatus()
	assert.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))

	// a timeout is not proof the token is invalid
	assert.True(t, client.LoggedIn())
}

func TestSSHStatusFieldVariants(t *testing.T) {
	// DSM versions name the flag differently, every known spelling counts
	for _, field := range []string{"enable_ssh", "enable", "status", "ssh_status", "service_status"} {
		client, nas := newTestClient(t, 2*time.Second)
		nas.sshEnabled = true
		nas.statusField = field

		enabled, err := client.SSHStatus()
		assert.NoError(t, err, "field: %s", field)
		assert.True(t, enabled, "field: %s", field)
	}
}

func TestListFilesLazyLogin(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)
	nas.fileStation = map[string]string{
		"/volume1/shared": `{"name":"docs","path":"/volume1/shared/docs","isdir":true},` +
			`{"name":"notes.txt","path":"/volume1/shared/notes.txt","isdir":false}`,
	}

	files, err := client.ListFiles("/volume1/shared")
	assert.NoError(t, err)
	assert.Equal(t, 1, nas.loginCount)
	assert.True(t, client.LoggedIn())

	if assert.Len(t, files, 2) {
		assert.Equal(t, "docs", files[0].Name)
		assert.True(t, files[0].IsDir)
		assert.Equal(t, "notes.txt", files[1].Name)
		assert.False(t, files[1].IsDir)
	}
}

func TestListFilesEmptyFolder(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)
	nas.fileStation = map[string]string{"/volume1/empty": ""}

	files, err := client.ListFiles("/volume1/empty")
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFilesUnknownFolder(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)
	nas.fileStation = map[string]string{}

	_, err := client.ListFiles("/volume1/missing")
	assert.Error(t, err)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 408, apiErr.Code)
}

func TestUnexpectedHTTPStatus(t *testing.T) {
	client, nas := newTestClient(t, 2*time.Second)
	nas.httpStatus = http.StatusServiceUnavailable

	_, err := client.SSHStatus()
	assert.Error(t, err)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "503")
}
