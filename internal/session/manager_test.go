package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-dcp-console/internal/models"
	"github.com/noah-isme/agri-dcp-console/pkg/config"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

type authServer struct {
	password     string
	issueToken   func() string
	refreshOK    bool
	loginCalls   int
	refreshCalls int
}

func newAuthServer(t *testing.T, state *authServer) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/auth/login", func(c *gin.Context) {
		state.loginCalls++
		var creds models.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil || creds.Password != state.password {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"token":        state.issueToken(),
			"refreshToken": "refresh-1",
			"username":     "admin",
			"role":         "admin",
		}})
	})

	r.POST("/auth/refresh", func(c *gin.Context) {
		state.refreshCalls++
		if !state.refreshOK {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "refresh token is expired or revoked"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"token": state.issueToken()}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestManager(t *testing.T, baseURL string, store Store) *Manager {
	t.Helper()
	api := config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second}
	return NewManager(api, store, validator.New(), zap.NewNop())
}

func TestLoginSuccess(t *testing.T) {
	state := &authServer{password: "secret", issueToken: func() string { return tokenExpiringIn(t, time.Hour) }}
	srv := newAuthServer(t, state)
	store := NewMemStore()
	mgr := newTestManager(t, srv.URL, store)

	sess, err := mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "refresh-1", sess.RefreshToken)
	assert.Equal(t, "admin", sess.Identity.Username)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	assert.Equal(t, sess.Token, store.Get(KeyToken))
	assert.Equal(t, "refresh-1", store.Get(KeyRefreshToken))
	assert.True(t, mgr.IsAuthenticated())
}

func TestLoginInvalidCredentials(t *testing.T) {
	state := &authServer{password: "secret", issueToken: func() string { return tokenExpiringIn(t, time.Hour) }}
	srv := newAuthServer(t, state)
	store := NewMemStore()
	mgr := newTestManager(t, srv.URL, store)

	_, err := mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "wrong"})
	require.Error(t, err)

	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
	assert.Equal(t, "Invalid credentials", appErrors.FromError(err).Message)
	assert.Empty(t, store.Get(KeyToken))
	assert.False(t, mgr.IsAuthenticated())
}

func TestLoginNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	mgr := newTestManager(t, srv.URL, NewMemStore())

	_, err := mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "secret"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNetworkFailure))
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	state := &authServer{password: "secret", issueToken: func() string { return tokenExpiringIn(t, time.Hour) }}
	srv := newAuthServer(t, state)
	mgr := newTestManager(t, srv.URL, NewMemStore())

	_, err := mgr.Login(context.Background(), models.Credentials{Username: "admin"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, state.loginCalls)
}

func TestIsAuthenticated(t *testing.T) {
	mgr := newTestManager(t, "http://unused", NewMemStore())

	tests := []struct {
		name  string
		token string
	}{
		{"no token persisted", ""},
		{"expired token", tokenExpiringIn(t, -time.Minute)},
		{"undecodable token", "garbage"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemStore()
			if tc.token != "" {
				require.NoError(t, store.Set(KeyToken, tc.token))
			}
			mgr = newTestManager(t, "http://unused", store)
			assert.False(t, mgr.IsAuthenticated())
		})
	}
}

func TestCurrentIdentityFallsBackToPersistedCopy(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set(KeyToken, "undecodable"))
	require.NoError(t, store.Set(KeyIdentity, `{"id":"u-1","username":"admin"}`))
	mgr := newTestManager(t, "http://unused", store)

	identity := mgr.CurrentIdentity()
	require.NotNil(t, identity)
	assert.Equal(t, "admin", identity.Username)
}

func TestCurrentIdentityNilWhenSignedOut(t *testing.T) {
	mgr := newTestManager(t, "http://unused", NewMemStore())
	assert.Nil(t, mgr.CurrentIdentity())
}

func TestRefreshSuccess(t *testing.T) {
	state := &authServer{refreshOK: true, issueToken: func() string { return tokenExpiringIn(t, time.Hour) }}
	srv := newAuthServer(t, state)
	store := NewMemStore()
	stale := tokenExpiringIn(t, -time.Minute)
	require.NoError(t, store.Set(KeyToken, stale))
	require.NoError(t, store.Set(KeyRefreshToken, "refresh-1"))
	mgr := newTestManager(t, srv.URL, store)

	fresh, err := mgr.Refresh(context.Background(), stale)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh)
	assert.NotEqual(t, stale, fresh)
	assert.Equal(t, fresh, store.Get(KeyToken))
	assert.Equal(t, 1, state.refreshCalls)
}

func TestRefreshFailureClearsWholeSession(t *testing.T) {
	state := &authServer{refreshOK: false, issueToken: func() string { return tokenExpiringIn(t, time.Hour) }}
	srv := newAuthServer(t, state)
	store := NewMemStore()
	require.NoError(t, store.Set(KeyToken, tokenExpiringIn(t, -time.Minute)))
	require.NoError(t, store.Set(KeyRefreshToken, "refresh-1"))
	require.NoError(t, store.Set(KeyIdentity, `{"id":"u-1"}`))
	mgr := newTestManager(t, srv.URL, store)

	_, err := mgr.Refresh(context.Background(), store.Get(KeyToken))
	require.Error(t, err)

	// No partial state survives a failed refresh.
	assert.Empty(t, store.Get(KeyToken))
	assert.Empty(t, store.Get(KeyRefreshToken))
	assert.Empty(t, store.Get(KeyIdentity))
	assert.False(t, mgr.IsAuthenticated())
}

func TestRefreshWithoutRefreshTokenClears(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set(KeyToken, tokenExpiringIn(t, -time.Minute)))
	mgr := newTestManager(t, "http://unused", store)

	_, err := mgr.Refresh(context.Background(), store.Get(KeyToken))
	require.Error(t, err)
	assert.Empty(t, store.Get(KeyToken))
}

func TestRefreshReusesTokenRefreshedMeanwhile(t *testing.T) {
	state := &authServer{refreshOK: true, issueToken: func() string { return tokenExpiringIn(t, time.Hour) }}
	srv := newAuthServer(t, state)
	store := NewMemStore()
	current := tokenExpiringIn(t, time.Hour)
	require.NoError(t, store.Set(KeyToken, current))
	require.NoError(t, store.Set(KeyRefreshToken, "refresh-1"))
	mgr := newTestManager(t, srv.URL, store)

	// The caller failed with an older token; the store already holds a
	// newer valid one, so no network refresh happens.
	fresh, err := mgr.Refresh(context.Background(), "older-token")
	require.NoError(t, err)
	assert.Equal(t, current, fresh)
	assert.Zero(t, state.refreshCalls)
}

func TestLogoutIdempotent(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set(KeyToken, tokenExpiringIn(t, time.Hour)))
	mgr := newTestManager(t, "http://unused", store)

	mgr.Logout()
	assert.False(t, mgr.IsAuthenticated())
	mgr.Logout()
	assert.False(t, mgr.IsAuthenticated())
}

func TestLoginPersistsIdentityCopy(t *testing.T) {
	state := &authServer{password: "secret", issueToken: func() string { return tokenExpiringIn(t, time.Hour) }}
	srv := newAuthServer(t, state)
	store := NewMemStore()
	mgr := newTestManager(t, srv.URL, store)

	_, err := mgr.Login(context.Background(), models.Credentials{Username: "admin", Password: "secret"})
	require.NoError(t, err)

	raw := store.Get(KeyIdentity)
	require.NotEmpty(t, raw)
	var identity models.Identity
	require.NoError(t, json.Unmarshal([]byte(raw), &identity))
	assert.Equal(t, "admin", identity.Username)
}
