package server

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"go.uber.org/zap"
)

// publicPaths are reachable without a session.
var publicPaths = map[string]struct{}{
	"/api/login":   {},
	"/api/version": {},
	"/healthz":     {},
}

type authService struct {
	username      string
	password      string
	sessionSecret []byte
}

// newAuthService returns nil when the gate is disabled. Without a configured
// secret, sessions are signed with a random key and end on restart.
func newAuthService(logger *zap.Logger, cfg AuthConfig) *authService {
	if !cfg.Enabled() {
		return nil
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		logger.Warn("no session secret configured; sessions will not survive a restart",
			zap.String("op", "server.newAuthService"),
		)
	}

	return &authService{username: cfg.Username, password: cfg.Password, sessionSecret: secret}
}

func (a *authService) validateCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

func (a *authService) createSessionValue(username string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(username))
	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return payload + "." + signature
}

func (a *authService) verifySessionValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok || strings.Contains(signature, ".") {
		return "", false
	}

	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}

	return string(decoded), true
}

func (a *authService) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(constants.SessionCookieName)
	if err != nil {
		return false
	}
	username, ok := a.verifySessionValue(cookie.Value)
	return ok && username == a.username
}

func (a *authService) setSessionCookie(w http.ResponseWriter, username string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    a.createSessionValue(username),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := publicPaths[r.URL.Path]; ok || h.auth.authenticated(r) {
			next.ServeHTTP(w, r)
			return
		}
		h.respondErrorWithOp(w, http.StatusUnauthorized, "authentication required", "server.authMiddleware")
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeJSON(w, r, &req, "server.handleLogin") {
		return
	}

	if !h.auth.validateCredentials(req.Username, req.Password) {
		h.respondErrorWithOp(w, http.StatusUnauthorized, "invalid credentials", "server.handleLogin")
		return
	}

	h.auth.setSessionCookie(w, req.Username)
	h.logger.Info("session started",
		zap.String("op", "server.handleLogin"),
		zap.String("username", req.Username),
	)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.clearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
