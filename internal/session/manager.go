package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-dcp-console/internal/models"
	"github.com/noah-isme/agri-dcp-console/pkg/config"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"
)

// Manager is the single source of truth for the signed-in session. It is
// constructed once and handed to every component that issues requests;
// nothing else touches the store.
type Manager struct {
	store     Store
	baseURL   string
	client    *http.Client
	validator *validator.Validate
	logger    *zap.Logger

	// mu serialises refresh attempts so two near-simultaneous 401s burn
	// only one refresh token.
	mu sync.Mutex
}

// NewManager constructs a session manager against the given API.
func NewManager(api config.APIConfig, store Store, validate *validator.Validate, logger *zap.Logger) *Manager {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:     store,
		baseURL:   api.BaseURL,
		client:    &http.Client{Timeout: api.Timeout},
		validator: validate,
		logger:    logger,
	}
}

// Login authenticates against the server and persists the issued session.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if err := m.validator.Struct(creds); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	envelope, status, err := m.postJSON(ctx, loginPath, creds)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetworkFailure.Code, appErrors.ErrNetworkFailure.Status, appErrors.ErrNetworkFailure.Message)
	}

	if status != http.StatusOK || !envelope.Success {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, envelope.Message)
	}

	var data models.LoginData
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrServer, "login response carried no token")
	}

	expiresAt, err := tokenExpiry(data.Token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "server issued an unreadable token")
	}

	identity := m.identityFromToken(data.Token, data)

	if err := m.persist(data.Token, data.RefreshToken, identity); err != nil {
		return nil, err
	}

	m.logger.Info("signed in", zap.String("username", identity.Username))

	return &models.Session{
		Token:        data.Token,
		RefreshToken: data.RefreshToken,
		ExpiresAt:    expiresAt,
		Identity:     *identity,
	}, nil
}

// Token returns the persisted access token, or "" when signed out.
func (m *Manager) Token() string {
	return m.store.Get(KeyToken)
}

// IsAuthenticated reports whether a usable token is persisted right now.
// It never errors: missing, expired and undecodable tokens all read as
// signed-out, so callers can poll it freely.
func (m *Manager) IsAuthenticated() bool {
	token := m.store.Get(KeyToken)
	if token == "" {
		return false
	}
	return !isExpired(token, time.Now())
}

// CurrentIdentity returns the signed-in identity without a network call,
// or nil when no token is persisted or none of it decodes.
func (m *Manager) CurrentIdentity() *models.Identity {
	token := m.store.Get(KeyToken)
	if token == "" {
		return nil
	}
	if identity, err := decodeIdentity(token); err == nil {
		return identity
	}
	// Fall back to the persisted copy written at login.
	raw := m.store.Get(KeyIdentity)
	if raw == "" {
		return nil
	}
	identity := &models.Identity{}
	if err := json.Unmarshal([]byte(raw), identity); err != nil {
		return nil
	}
	return identity
}

// Refresh exchanges the persisted refresh token for a new access token.
// stale is the access token the caller just saw rejected; when another
// caller refreshed in the meantime the newer token is returned without
// spending the refresh token again. Any failure clears the whole session.
func (m *Manager) Refresh(ctx context.Context, stale string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current := m.store.Get(KeyToken); current != "" && current != stale && !isExpired(current, time.Now()) {
		return current, nil
	}

	refreshToken := m.store.Get(KeyRefreshToken)
	if refreshToken == "" {
		m.clearAll()
		return "", appErrors.Clone(appErrors.ErrSessionExpired, "no refresh token available")
	}

	envelope, status, err := m.postJSON(ctx, refreshPath, models.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		m.clearAll()
		return "", appErrors.Wrap(err, appErrors.ErrSessionExpired.Code, appErrors.ErrSessionExpired.Status, appErrors.ErrSessionExpired.Message)
	}
	if status != http.StatusOK || !envelope.Success {
		m.clearAll()
		return "", appErrors.Clone(appErrors.ErrSessionExpired, envelope.Message)
	}

	var data models.RefreshData
	if err := json.Unmarshal(envelope.Data, &data); err != nil || data.Token == "" {
		m.clearAll()
		return "", appErrors.Clone(appErrors.ErrSessionExpired, "refresh response carried no token")
	}

	if err := m.store.Set(KeyToken, data.Token); err != nil {
		m.clearAll()
		return "", appErrors.Wrap(err, appErrors.ErrSessionExpired.Code, appErrors.ErrSessionExpired.Status, "failed to persist refreshed token")
	}

	m.logger.Debug("access token refreshed")
	return data.Token, nil
}

// Logout discards all persisted session state. Safe to call when already
// signed out.
func (m *Manager) Logout() {
	m.clearAll()
	m.logger.Info("signed out")
}

func (m *Manager) clearAll() {
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear session store", zap.Error(err))
	}
}

func (m *Manager) identityFromToken(token string, data models.LoginData) *models.Identity {
	identity, err := decodeIdentity(token)
	if err != nil {
		identity = &models.Identity{}
	}
	if identity.Username == "" {
		identity.Username = data.Username
	}
	if identity.Role == "" {
		identity.Role = data.Role
	}
	return identity
}

func (m *Manager) persist(token, refreshToken string, identity *models.Identity) error {
	if err := m.store.Set(KeyToken, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "failed to persist session")
	}
	if refreshToken != "" {
		if err := m.store.Set(KeyRefreshToken, refreshToken); err != nil {
			return appErrors.Wrap(err, appErrors.ErrServer.Code, appErrors.ErrServer.Status, "failed to persist refresh token")
		}
	}
	raw, err := json.Marshal(identity)
	if err == nil {
		if err := m.store.Set(KeyIdentity, string(raw)); err != nil {
			m.logger.Warn("failed to persist identity copy", zap.Error(err))
		}
	}
	return nil
}

func (m *Manager) postJSON(ctx context.Context, path string, body any) (models.Envelope, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return models.Envelope{}, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return models.Envelope{}, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return models.Envelope{}, 0, err
	}
	defer resp.Body.Close()

	envelope := models.Envelope{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		// Non-JSON error bodies still map onto the envelope shape.
		envelope = models.Envelope{Success: false}
	}
	return envelope, resp.StatusCode, nil
}
