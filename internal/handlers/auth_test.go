package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatangdev/Mern-Invoice-App/internal/handlers"
	"github.com/tatangdev/Mern-Invoice-App/internal/models"
)

const testSecret = "test-secret"

func TestAuthRegisterLoginMe(t *testing.T) {
	conn := openTestDB(t)
	r := chi.NewRouter()
	r.Route("/auth", handlers.NewAuthHandler(conn, testSecret, time.Hour).Routes)

	rec := doJSON(t, r, http.MethodPost, "/auth/register",
		`{"email":"Jane@Test.dev","password":"s3cret","fullName":"Jane Doe"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var registered struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeData(t, rec, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "jane@test.dev", registered.User.Email, "email is normalized")
	assert.NotContains(t, rec.Body.String(), "password", "hash never leaves the server")

	// Same email again, regardless of case.
	rec = doJSON(t, r, http.MethodPost, "/auth/register",
		`{"email":"jane@test.dev","password":"other","fullName":"Jane Clone"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email_already_registered", decodeError(t, rec).Error)

	rec = doJSON(t, r, http.MethodPost, "/auth/login", `{"email":"jane@test.dev","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var loggedIn struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &loggedIn)
	require.NotEmpty(t, loggedIn.Token)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var me models.User
	decodeData(t, res, &me)
	assert.Equal(t, registered.User.ID, me.ID)
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	conn := openTestDB(t)
	r := chi.NewRouter()
	r.Route("/auth", handlers.NewAuthHandler(conn, testSecret, time.Hour).Routes)

	rec := doJSON(t, r, http.MethodPost, "/auth/register",
		`{"email":"jane@test.dev","password":"s3cret","fullName":"Jane Doe"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Wrong password and unknown email are indistinguishable.
	rec = doJSON(t, r, http.MethodPost, "/auth/login", `{"email":"jane@test.dev","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeError(t, rec).Error)

	rec = doJSON(t, r, http.MethodPost, "/auth/login", `{"email":"nobody@test.dev","password":"s3cret"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeError(t, rec).Error)
}

func TestAuthRegisterValidation(t *testing.T) {
	conn := openTestDB(t)
	r := chi.NewRouter()
	r.Route("/auth", handlers.NewAuthHandler(conn, testSecret, time.Hour).Routes)

	rec := doJSON(t, r, http.MethodPost, "/auth/register", `{"email":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_failed", resp.Error)
	details, ok := resp.Details.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "fullName")
}

func TestAuthMeRequiresToken(t *testing.T) {
	conn := openTestDB(t)
	r := chi.NewRouter()
	r.Route("/auth", handlers.NewAuthHandler(conn, testSecret, time.Hour).Routes)

	rec := doJSON(t, r, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
