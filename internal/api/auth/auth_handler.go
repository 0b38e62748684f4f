package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/FACorreiaa/go-auth-gate/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// writeServiceError converts a service error into its client response. Server-side
// failures are logged in full and reported generically.
func (h *HandlerImpl) writeServiceError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	status, msg := api.StatusFor(err)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "Request failed", slog.Any("error", err))
	} else {
		l.InfoContext(r.Context(), "Request rejected", slog.Int("status", status), slog.Any("error", err))
	}
	api.ErrorResponse(w, r, status, msg)
}

// Register godoc
// @Summary      Register
// @Description  Creates a new user account. The password is stored as a bcrypt digest.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        user body api.RegisterRequest true "New user"
// @Success      200 {object} api.Response "User successfully created!"
// @Failure      400 {object} api.Response "Required fields missing"
// @Failure      409 {object} api.Response "User already exists! Please login"
// @Failure      500 {object} api.Response "Something went wrong!"
// @Router       /user/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "Register"))

	var req api.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name); err != nil {
		h.writeServiceError(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Message: "User successfully created!"})
}

// Login godoc
// @Summary      Login
// @Description  Exchanges email and password for a bearer token valid for one hour.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        credentials body api.LoginRequest true "Credentials"
// @Success      200 {object} api.LoginResponse
// @Failure      400 {object} api.Response "Email or password field missing"
// @Failure      401 {object} api.Response "Invalid credentials"
// @Failure      500 {object} api.Response "Something went wrong!"
// @Router       /user/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "Login"))

	var req api.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrValidation) {
			api.ErrorResponse(w, r, http.StatusBadRequest, api.MsgLoginFieldsMissing)
			return
		}
		h.writeServiceError(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.LoginResponse{
		Message: "Logged In Successfully",
		Token:   token,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Clears the client-held token cookie. Tokens stay valid until they expire.
// @Tags         User
// @Produce      json
// @Success      200 {object} api.Response "Logged out successfully"
// @Router       /user/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     LogoutCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Message: "Logged out successfully"})
}

// Me godoc
// @Summary      Current identity
// @Description  Returns the identity decoded from the caller's bearer token.
// @Tags         User
// @Produce      json
// @Success      200 {object} types.Identity
// @Failure      400 {object} api.Response "Invalid Token"
// @Failure      401 {object} api.Response "Login to access this route"
// @Security     BearerAuth
// @Router       /me [get]
func (h *HandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "Identity not found in context; route is not behind Authenticate")
		api.ErrorResponse(w, r, http.StatusUnauthorized, api.MsgLoginRequired)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, identity)
}
