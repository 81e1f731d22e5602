package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/vrooom/car-rental-service/internal/auth"
	"github.com/vrooom/car-rental-service/internal/config"
	"github.com/vrooom/car-rental-service/internal/handler"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/repository"
	"github.com/vrooom/car-rental-service/internal/router"
	"github.com/vrooom/car-rental-service/internal/store"
)

type authHarness struct {
	e        *echo.Echo
	users    *repository.UserRepo
	settings *repository.SettingsRepo
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	st := store.NewMemStore()
	session := store.NewMemStore()

	cfg := config.Config{
		Env:          "dev",
		JWTSecret:    "test-secret",
		AccessTTLMin: 30,
		BcryptCost:   4, // min cost keeps the suite fast
	}
	users := repository.NewUserRepo(st)
	sessions := repository.NewSessionRepo(session)
	settings := repository.NewSettingsRepo(st)

	e := echo.New()
	a := handler.NewAuthHandler(cfg, users, sessions, settings, auth.NewRegistry())
	router.RegisterAuth(e, a, cfg.JWTSecret, sessions, nil)

	return &authHarness{e: e, users: users, settings: settings}
}

func (h *authHarness) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const signupBody = `{
	"firstName": "Jane",
	"lastName": "Doe",
	"email": "Jane@Example.com",
	"phone": "5551234567",
	"password": "hunter22",
	"confirmPassword": "hunter22",
	"acceptTerms": true
}`

// runs signup through OTP verification and returns the access token
func (h *authHarness) signUpJane(t *testing.T) string {
	t.Helper()
	rec := h.do(http.MethodPost, "/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	ch := decode(t, rec)
	require.NotEmpty(t, ch["challengeId"])
	require.Len(t, ch["debugCode"], 6) // exposed outside prod

	verify := `{"challengeId": "` + ch["challengeId"].(string) + `", "code": "` + ch["debugCode"].(string) + `"}`
	rec = h.do(http.MethodPost, "/v1/auth/verify", verify, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)

	user := resp["user"].(map[string]any)
	require.Equal(t, "jane@example.com", user["email"]) // lowercased
	require.NotContains(t, user, "password")
	require.Equal(t, model.RoleCustomer, user["role"])

	access := resp["access"].(map[string]any)
	token := access["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupVerifyAndSession(t *testing.T) {
	h := newAuthHarness(t)
	token := h.signUpJane(t)

	rec := h.do(http.MethodGet, "/v1/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	// logout kills the session; the same token stops working
	rec = h.do(http.MethodPost, "/v1/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodGet, "/v1/me", "", token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginSecondFactor(t *testing.T) {
	h := newAuthHarness(t)
	h.signUpJane(t)

	rec := h.do(http.MethodPost, "/v1/auth/login", `{"email":"jane@example.com","password":"wrong-pass"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(http.MethodPost, "/v1/auth/login", `{"email":"jane@example.com","password":"hunter22"}`, "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	ch := decode(t, rec)

	// a wrong code does not consume the challenge
	verify := `{"challengeId": "` + ch["challengeId"].(string) + `", "code": "000000"}`
	rec = h.do(http.MethodPost, "/v1/auth/verify", verify, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	verify = `{"challengeId": "` + ch["challengeId"].(string) + `", "code": "` + ch["debugCode"].(string) + `"}`
	rec = h.do(http.MethodPost, "/v1/auth/verify", verify, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// a consumed challenge fails closed on replay
	rec = h.do(http.MethodPost, "/v1/auth/verify", verify, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupValidationAndPolicy(t *testing.T) {
	h := newAuthHarness(t)

	rec := h.do(http.MethodPost, "/v1/auth/signup", `{"email":"not-an-email"}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, decode(t, rec), "errors")

	// duplicate email is rejected before any challenge opens
	h.signUpJane(t)
	rec = h.do(http.MethodPost, "/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	// registrations can be switched off
	s := model.DefaultAdminSettings()
	s.AllowRegistrations = false
	require.NoError(t, h.settings.Save(context.Background(), s))
	other := strings.Replace(signupBody, "Jane@Example.com", "kim@example.com", 1)
	rec = h.do(http.MethodPost, "/v1/auth/signup", other, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
