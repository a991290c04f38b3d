package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/response"
	"github.com/stemsi/kelas-backend/internal/service"
)

// ContextKeyIdentity is the Gin context key for the request's *Identity.
const ContextKeyIdentity = "identity"

// Identity is who the current request acts as. A nil or empty Identity is anonymous.
type Identity struct {
	User      *model.User
	SessionID string
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func (i *Identity) CurrentUser() *model.User {
	if i == nil {
		return nil
	}
	return i.User
}

// IsAuthenticated reports whether the request carries a valid session.
func (i *Identity) IsAuthenticated() bool {
	return i.CurrentUser() != nil
}

// IsAdmin reports whether the current user holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i.CurrentUser().IsAdmin()
}

// UserLoader resolves the user a session belongs to.
type UserLoader interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
}

// Authenticator builds the identity middlewares.
type Authenticator struct {
	auth       *service.AuthService
	users      UserLoader
	cookieName string
}

// NewAuthenticator creates a new Authenticator. Tokens are read from the
// cookieName cookie, an Authorization bearer header, or the token query
// parameter, in that order.
func NewAuthenticator(auth *service.AuthService, users UserLoader, cookieName string) *Authenticator {
	return &Authenticator{auth: auth, users: users, cookieName: cookieName}
}

// RequireAuth rejects requests without a valid, unrevoked session.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, status, code := a.resolve(c)
		if identity == nil {
			response.AbortFail(c, status, code)
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// OptionalAuth attaches the identity when the request has a valid session and
// lets anonymous requests through unchanged.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, _, _ := a.resolve(c); identity != nil {
			c.Set(ContextKeyIdentity, identity)
		}
		c.Next()
	}
}

// RequireRole rejects requests whose user does not hold role. It must run
// after RequireAuth.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if user.Role != role {
			code := response.ErrForbidden
			if role == model.RoleAdmin {
				code = response.ErrAdminAccessOnly
			}
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}

		c.Next()
	}
}

// GetIdentity retrieves the request identity from the Gin context. It never
// returns nil; anonymous requests get an empty Identity.
func GetIdentity(c *gin.Context) *Identity {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return &Identity{}
	}
	identity, ok := val.(*Identity)
	if !ok || identity == nil {
		return &Identity{}
	}
	return identity
}

// CurrentUser is shorthand for GetIdentity(c).CurrentUser().
func CurrentUser(c *gin.Context) *model.User {
	return GetIdentity(c).CurrentUser()
}

func (a *Authenticator) resolve(c *gin.Context) (*Identity, int, response.ErrCode) {
	tokenStr := a.extractToken(c)
	if tokenStr == "" {
		return nil, http.StatusUnauthorized, response.ErrTokenRequired
	}

	claims, err := a.auth.ValidateToken(tokenStr)
	if err != nil {
		return nil, http.StatusUnauthorized, response.ErrTokenInvalid
	}

	ctx := c.Request.Context()
	if err := a.auth.ValidateSession(ctx, claims); err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return nil, http.StatusUnauthorized, response.ErrSessionInvalidated
		}
		_ = c.Error(err)
		return nil, http.StatusInternalServerError, response.ErrInternal
	}

	user, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, http.StatusUnauthorized, response.ErrSessionInvalidated
		}
		_ = c.Error(err)
		return nil, http.StatusInternalServerError, response.ErrInternal
	}

	return &Identity{User: user, SessionID: claims.ID}, 0, ""
}

func (a *Authenticator) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Fallback for WebSocket clients, which cannot send headers from the browser.
	return c.Query("token")
}
