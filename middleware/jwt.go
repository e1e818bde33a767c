package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"kdsgroup.co.in/hms/models"
	"kdsgroup.co.in/hms/pkg/hmsapi"
	"kdsgroup.co.in/hms/pkg/session"
	"kdsgroup.co.in/hms/utils"
)

// Claims are the custom payload in the gateway JWT
type Claims struct {
	UserID    int    `json:"userId"`
	SessionID string `json:"sid"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// unexported type prevents collisions in context
type ctxKey int

const (
	userClaimsKey ctxKey = iota
)

// Auth issues gateway tokens and resolves them back to the sealed
// upstream token of the session.
type Auth struct {
	key      []byte
	ttl      time.Duration
	sessions session.Store
	sealer   *session.Sealer
	log      *zap.Logger
}

func NewAuth(secret string, ttl time.Duration, sessions session.Store, sealer *session.Sealer, log *zap.Logger) *Auth {
	return &Auth{key: []byte(secret), ttl: ttl, sessions: sessions, sealer: sealer, log: log}
}

// StartSession seals the upstream token, stores the session and returns a
// signed JWT valid for the configured ttl.
func (a *Auth) StartSession(ctx context.Context, login models.LoginResult) (string, *models.Session, error) {
	sealed, err := a.sealer.Seal(login.Token)
	if err != nil {
		return "", nil, err
	}
	s := &models.Session{
		ID:          uuid.New(),
		UserID:      login.UserID,
		UserName:    login.UserName,
		Role:        login.RoleName,
		SealedToken: sealed,
		ExpiresAt:   time.Now().Add(a.ttl),
	}
	if err := a.sessions.Create(ctx, s); err != nil {
		return "", nil, err
	}
	tok, err := a.GenerateToken(s)
	if err != nil {
		return "", nil, err
	}
	return tok, s, nil
}

// EndSession drops the session behind the request's token.
func (a *Auth) EndSession(r *http.Request) error {
	c := GetClaims(r)
	if c == nil {
		return errors.New("no session")
	}
	id, err := uuid.Parse(c.SessionID)
	if err != nil {
		return err
	}
	return a.sessions.Delete(r.Context(), id)
}

// GenerateToken creates a signed JWT for s
func (a *Auth) GenerateToken(s *models.Session) (string, error) {
	claims := Claims{
		UserID:    s.UserID,
		SessionID: s.ID.String(),
		Name:      s.UserName,
		Role:      s.Role,

		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.key)
}

// JWTMiddleware validates the token, loads the session and stashes both the
// Claims and the upstream bearer token in ctx
func (a *Auth) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid auth header", http.StatusUnauthorized)
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return a.key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		sid, err := uuid.Parse(claims.SessionID)
		if err != nil {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}
		sess, err := a.sessions.Get(r.Context(), sid)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				a.log.Error("session lookup failed", zap.Error(err))
			}
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}
		upstream, err := a.sealer.Open(sess.SealedToken)
		if err != nil {
			a.log.Warn("cannot unseal session token", zap.String("sid", claims.SessionID))
			http.Error(w, "session expired", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userClaimsKey, claims)
		ctx = hmsapi.ContextWithToken(ctx, upstream)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission rejects requests whose role does not grant perm
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !utils.RoleHasPermission(GetRole(r), perm) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims pulls the *Claims out of the request context (or nil)
func GetClaims(r *http.Request) *Claims {
	if c, ok := r.Context().Value(userClaimsKey).(*Claims); ok {
		return c
	}
	return nil
}

func GetUserID(r *http.Request) int {
	if c := GetClaims(r); c != nil {
		return c.UserID
	}
	return 0
}

func GetRole(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.Role
	}
	return ""
}

// WithClaims attaches claims to ctx. Used by tests and internal callers
// that bypass JWTMiddleware.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, userClaimsKey, c)
}
