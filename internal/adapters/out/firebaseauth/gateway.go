// internal/adapters/out/firebaseauth/gateway.go
package firebaseauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"sweetshop/internal/adapters/out/localstore"
	sessdom "sweetshop/internal/domain/session"
)

const identityToolkitBaseURL = "https://identitytoolkit.googleapis.com/v1"

var (
	ErrInvalidCredentials = errors.New("firebaseauth: invalid email or password")
	ErrEmailTaken         = errors.New("firebaseauth: email already registered")
	ErrNotConfigured      = errors.New("firebaseauth: gateway is not configured")
)

// TokenStorage persists the issued bearer token between runs
// (key localstore.TokenKey).
type TokenStorage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Gateway wraps the Firebase identity provider.
//
// Password sign-in and sign-up go through the Identity Toolkit REST API with
// the project's Web API key; the Admin Auth client is used to verify a
// restored ID token at boot and to revoke refresh tokens on logout.
//
// Session changes (login, logout, boot restore) are emitted on the stream
// returned by SessionChanges; the sync coordinator is the consumer.
type Gateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
	admin   *fbauth.Client
	tokens  TokenStorage

	mu      sync.Mutex
	current *sessdom.Identity
	changes chan *sessdom.Identity
}

func NewGateway(apiKey string, admin *fbauth.Client, tokens TokenStorage) *Gateway {
	return &Gateway{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: identityToolkitBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		admin:   admin,
		tokens:  tokens,
		changes: make(chan *sessdom.Identity, 8),
	}
}

// NewGatewayForTest overrides the Identity Toolkit endpoint (httptest).
func NewGatewayForTest(apiKey, baseURL string, admin *fbauth.Client, tokens TokenStorage) *Gateway {
	g := NewGateway(apiKey, admin, tokens)
	g.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return g
}

// SessionChanges returns the identity stream. A nil element means the
// session was cleared.
func (g *Gateway) SessionChanges() <-chan *sessdom.Identity {
	return g.changes
}

// CurrentIdentity returns the identity of the active session, or nil.
func (g *Gateway) CurrentIdentity() *sessdom.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	cp := *g.current
	return &cp
}

// Token returns the stored bearer token. Implements the catalog API's
// TokenProvider.
func (g *Gateway) Token() (string, error) {
	if g == nil || g.tokens == nil {
		return "", ErrNotConfigured
	}
	return g.tokens.Get(localstore.TokenKey)
}

// Login signs in with email/password, persists the issued ID token and emits
// the identity on the session stream.
func (g *Gateway) Login(ctx context.Context, email, password string) (*sessdom.Identity, error) {
	if g == nil || g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	res, err := g.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	id := &sessdom.Identity{
		UID:         res.LocalID,
		Email:       res.Email,
		DisplayName: res.DisplayName,
	}
	g.establish(id, res.IDToken)
	return id, nil
}

// Register creates the account, sets the display name and persists the
// issued ID token. The caller (auth usecase) creates the profile document.
func (g *Gateway) Register(ctx context.Context, email, password, displayName string) (*sessdom.Identity, error) {
	if g == nil || g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	res, err := g.call(ctx, "accounts:signUp", map[string]any{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(displayName)
	if name != "" {
		// Display name lives on the account, not only in the profile doc.
		// A failure here is logged and tolerated: the account exists.
		if _, err := g.call(ctx, "accounts:update", map[string]any{
			"idToken":           res.IDToken,
			"displayName":       name,
			"returnSecureToken": false,
		}); err != nil {
			log.Printf("[firebaseauth] set displayName failed: %v", err)
		}
	}

	id := &sessdom.Identity{
		UID:         res.LocalID,
		Email:       res.Email,
		DisplayName: name,
	}
	g.establish(id, res.IDToken)
	return id, nil
}

// Logout revokes refresh tokens (best effort), drops the stored bearer token
// and emits a cleared session.
func (g *Gateway) Logout(ctx context.Context) error {
	if g == nil {
		return ErrNotConfigured
	}

	uid := ""
	if cur := g.CurrentIdentity(); cur != nil {
		uid = cur.UID
	}
	if uid != "" && g.admin != nil {
		if err := g.admin.RevokeRefreshTokens(ctx, uid); err != nil {
			log.Printf("[firebaseauth] revoke refresh tokens failed uid=%s: %v", uid, err)
		}
	}

	if g.tokens != nil {
		if err := g.tokens.Delete(localstore.TokenKey); err != nil {
			log.Printf("[firebaseauth] delete stored token failed: %v", err)
		}
	}

	g.mu.Lock()
	g.current = nil
	g.mu.Unlock()

	g.emit(nil)
	return nil
}

// RestoreSession resolves the boot-time session from the stored bearer
// token. A valid token re-establishes the session; anything else (no token,
// no admin client, expired token) resolves to anonymous. Exactly one
// emission happens either way so the coordinator always exits booting.
func (g *Gateway) RestoreSession(ctx context.Context) {
	if g == nil {
		return
	}

	token := ""
	if g.tokens != nil {
		if t, err := g.tokens.Get(localstore.TokenKey); err == nil {
			token = strings.TrimSpace(t)
		}
	}

	if token == "" || g.admin == nil {
		g.emit(nil)
		return
	}

	decoded, err := g.admin.VerifyIDToken(ctx, token)
	if err != nil {
		log.Printf("[firebaseauth] stored token rejected: %v", err)
		if g.tokens != nil {
			_ = g.tokens.Delete(localstore.TokenKey)
		}
		g.emit(nil)
		return
	}

	id := &sessdom.Identity{UID: decoded.UID}
	if e, ok := decoded.Claims["email"].(string); ok {
		id.Email = strings.TrimSpace(e)
	}
	if n, ok := decoded.Claims["name"].(string); ok {
		id.DisplayName = strings.TrimSpace(n)
	}

	g.mu.Lock()
	g.current = id
	g.mu.Unlock()

	g.emit(id)
}

func (g *Gateway) establish(id *sessdom.Identity, idToken string) {
	if g.tokens != nil {
		if err := g.tokens.Set(localstore.TokenKey, idToken); err != nil {
			log.Printf("[firebaseauth] persist token failed: %v", err)
		}
	}

	g.mu.Lock()
	cp := *id
	g.current = &cp
	g.mu.Unlock()

	g.emit(id)
}

// emit publishes a session change without ever blocking a caller. The
// channel is buffered; if the consumer has fallen this far behind the oldest
// pending change is superseded anyway.
func (g *Gateway) emit(id *sessdom.Identity) {
	var cp *sessdom.Identity
	if id != nil {
		v := *id
		cp = &v
	}
	for {
		select {
		case g.changes <- cp:
			return
		default:
			select {
			case <-g.changes:
			default:
			}
		}
	}
}

// -----------------------------------------
// Identity Toolkit REST
// -----------------------------------------

type toolkitResponse struct {
	IDToken     string `json:"idToken"`
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type toolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gateway) call(ctx context.Context, endpoint string, body map[string]any) (*toolkitResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?key=%s", g.baseURL, endpoint, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))

	if res.StatusCode >= 400 {
		var te toolkitError
		_ = json.Unmarshal(payload, &te)
		return nil, mapToolkitError(res.StatusCode, te.Error.Message)
	}

	out := &toolkitResponse{}
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, fmt.Errorf("firebaseauth: decode %s response: %w", endpoint, err)
	}
	return out, nil
}

func mapToolkitError(status int, message string) error {
	msg := strings.TrimSpace(message)
	switch {
	case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(msg, "INVALID_PASSWORD"),
		strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(msg, "USER_DISABLED"):
		return ErrInvalidCredentials
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return ErrEmailTaken
	case msg == "":
		return fmt.Errorf("firebaseauth: identity toolkit failed status=%d", status)
	default:
		return fmt.Errorf("firebaseauth: identity toolkit failed status=%d message=%s", status, msg)
	}
}
