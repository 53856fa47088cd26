package identity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/olegsavin/taskboard/internal/domain"
	"github.com/olegsavin/taskboard/internal/pkg/httputil"
)

// CookieSettings contains settings for session cookies.
type CookieSettings struct {
	Secure   bool
	Domain   string
	TokenTTL time.Duration
}

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service        *Service
	validator      *validator.Validate
	cookieSettings CookieSettings
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service, cookieSettings CookieSettings) *Handler {
	return &Handler{
		service:        service,
		validator:      validator.New(),
		cookieSettings: cookieSettings,
	}
}

// RegisterCredentialRoutes registers the endpoints that accept
// credentials. They carry their own middleware (rate limiting), so
// they are grouped separately from the other public routes.
func (h *Handler) RegisterCredentialRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
}

// RegisterRoutes registers the remaining public identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/logout", h.Logout)
	r.Get("/users", h.ListUsers)
	r.Get("/user/{userID}", h.GetUser)
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/me", h.Me)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/user/role/{userID}", h.UpdateRole)
	r.Delete("/user/{userID}", h.DeleteUser)
}

// SignupRequest represents signup request body.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Email, name and password are required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Email, name and password are required")
		return
	}

	user, err := h.service.Signup(r.Context(), SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrEmailExists, Status: http.StatusConflict},
		})
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

// LoginRequest represents login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized},
		})
		return
	}

	h.setSessionCookies(w, result)

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"userId":  result.User.ID,
		"name":    result.User.Name,
		"role":    result.User.Role,
	})
}

// Logout handles POST /api/auth/logout. There is no server-side session
// state, so this only clears the client-held cookies and always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookies(w)
	httputil.Message(w, http.StatusOK, "Logged out successfully")
}

// ListUsers handles GET /api/auth/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httputil.HandleError(r.Context(), w, err, nil)
		return
	}

	httputil.JSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/auth/user/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrUserNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// UpdateRoleRequest represents role update request body.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UpdateRole handles PUT /api/auth/user/role/{userID}.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Role is required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Role is required")
		return
	}

	if err := h.service.UpdateRole(r.Context(), id, domain.Role(req.Role)); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrUserNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.Message(w, http.StatusOK, "User role updated successfully")
}

// DeleteUser handles DELETE /api/auth/user/{userID}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrUserNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.Message(w, http.StatusOK, "User deleted successfully")
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())
	if userID == "" {
		httputil.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
			{Error: ErrUserNotFound, Status: http.StatusNotFound},
		})
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// setSessionCookies sets the token, role and userId cookies.
// The cookies are deliberately not HttpOnly so the client can read them;
// this is a weaker posture than HttpOnly and is part of the public
// contract rather than an oversight.
func (h *Handler) setSessionCookies(w http.ResponseWriter, result *LoginResult) {
	maxAge := int(h.cookieSettings.TokenTTL.Seconds())

	for name, value := range map[string]string{
		httputil.TokenCookie:  result.Token,
		httputil.RoleCookie:   string(result.User.Role),
		httputil.UserIDCookie: result.User.ID,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.cookieSettings.Domain,
			MaxAge:   maxAge,
			HttpOnly: false,
			Secure:   h.cookieSettings.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// clearSessionCookies removes the session cookies by setting Max-Age<0.
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{httputil.TokenCookie, httputil.RoleCookie, httputil.UserIDCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   h.cookieSettings.Domain,
			MaxAge:   -1,
			HttpOnly: false,
			Secure:   h.cookieSettings.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
