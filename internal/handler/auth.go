package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vrooom/car-rental-service/internal/auth"
	"github.com/vrooom/car-rental-service/internal/config"
	"github.com/vrooom/car-rental-service/internal/middleware"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/repository"
	"github.com/vrooom/car-rental-service/internal/validate"
)

// AuthHandler bundles dependencies for signup, login and the OTP
// verification step both flows share.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Settings *repository.SettingsRepo
	OTP      *auth.Registry
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo, st *repository.SettingsRepo, otp *auth.Registry) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Settings: st, OTP: otp}
}

// ----- DTOs -----

type verifyReq struct {
	ChallengeID string `json:"challengeId"`
	Code        string `json:"code"`
}
type resendReq struct {
	ChallengeID string `json:"challengeId"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User   model.User `json:"user"`
	Access tokenPart  `json:"access"`
}

// challengeResp is returned by Signup, Login and Resend.  The code is
// echoed back outside prod so the simulated OTP flow can be completed
// without a mail or SMS provider.
type challengeResp struct {
	ChallengeID string `json:"challengeId"`
	ExpiresAt   string `json:"expiresAt"`
	DebugCode   string `json:"debugCode,omitempty"`
}

func (h *AuthHandler) challengeJSON(c echo.Context, status int, ch *auth.Challenge) error {
	resp := challengeResp{
		ChallengeID: ch.ID,
		ExpiresAt:   ch.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if h.Cfg.Env != "prod" {
		resp.DebugCode = ch.Code
	}
	return c.JSON(status, resp)
}

// Signup validates the registration form and opens an OTP challenge.
// No account exists until the code is verified.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req validate.SignupInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Signup(req); errs != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx := c.Request().Context()
	if !h.Settings.Get(ctx).AllowRegistrations {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "registrations are currently disabled"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.Users.EmailTaken(ctx, email) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	candidate := model.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         model.RoleCustomer,
	}

	ch, err := h.OTP.Begin(auth.KindSignup, candidate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "start verification failed"})
	}
	return h.challengeJSON(c, http.StatusAccepted, ch)
}

// Login checks credentials and opens the second-factor OTP challenge.
// Credential failures are reported uniformly so the endpoint does not
// reveal which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req validate.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validate.Login(req); errs != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ch, err := h.OTP.Begin(auth.KindLogin, u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "start verification failed"})
	}
	return h.challengeJSON(c, http.StatusAccepted, ch)
}

// VerifyOTP consumes a challenge.  On a signup challenge the account
// is created now; on a login challenge the stored user is loaded.
// Either way the session record is established and an access token
// issued.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ch, err := h.OTP.Verify(req.ChallengeID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrChallengeNotFound), errors.Is(err, auth.ErrChallengeUsed):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}
	}

	ctx := c.Request().Context()
	user := ch.User
	switch ch.Kind {
	case auth.KindSignup:
		user.Verified = true
		created, err := h.Users.Create(ctx, user)
		if err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
		user = created
	case auth.KindLogin:
		if err := h.Users.TouchLastLogin(ctx, user.Email, time.Now().UTC()); err != nil {
			c.Logger().Warnf("auth: last login update failed for %s: %v", user.Email, err)
		}
	}

	if err := h.Sessions.Establish(ctx, model.Session{User: user, LoggedIn: time.Now().UTC()}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "establish session failed"})
	}
	access, err := auth.NewAccessToken(h.Cfg.JWTSecret, user.Email, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	status := http.StatusOK
	if ch.Kind == auth.KindSignup {
		status = http.StatusCreated
	}
	return c.JSON(status, authResp{
		User:   user.Public(),
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// ResendOTP replaces the code on an open challenge after the cooldown.
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ch, err := h.OTP.Resend(req.ChallengeID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrResendTooSoon):
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
	}
	return h.challengeJSON(c, http.StatusOK, ch)
}

// Logout clears the session record, which also invalidates every
// outstanding access token for the user.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Sessions.Clear(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user.Public()})
}
