package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/kelas-backend/internal/middleware"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/response"
	"github.com/stemsi/kelas-backend/internal/service"
	"github.com/stemsi/kelas-backend/internal/validator"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	cookie      CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cookie:      cookie,
	}
}

// LoginForm godoc
// GET /login
// Returns what the login page needs to know about the caller.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"viewer": viewer(c)})
}

// Login godoc
// POST /login
// Validates email + password, opens a session and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password look the same to the client.
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		failWith(c, err)
		return
	}

	token, err := h.authService.IssueSession(c.Request.Context(), user)
	if err != nil {
		failWith(c, err)
		return
	}

	h.setCookie(c, token, int(h.authService.SessionTTL().Seconds()))
	response.SuccessOrRedirect(c, http.StatusOK, "/", model.LoginResponse{Token: token, User: *user})
}

// RegisterForm godoc
// GET /register
// Returns what the registration page needs to know about the caller.
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"viewer": viewer(c)})
}

// Register godoc
// POST /register
// Creates a student account. Admins are created with the create-admin command.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.SuccessOrRedirect(c, http.StatusCreated, "/register", gin.H{
		"user":    user,
		"message": "Registrasi berhasil. Silakan login.",
	})
}

// Logout godoc
// GET /logout
// Revokes the current session, clears the cookie and goes back home.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if err := h.authService.RevokeSession(c.Request.Context(), identity.SessionID); err != nil {
		failWith(c, err)
		return
	}

	h.setCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/")
}

// Me godoc
// GET /me
// Returns the currently authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user, "is_admin": user.IsAdmin()})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
