package auth

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/ccoutinho/letterfy/internal/testutil"
	"github.com/ccoutinho/letterfy/tests/e2e"
)

const (
	RegisterURL = "/api/auth/register"
	LoginURL    = "/api/auth/login"
	RefreshURL  = "/api/auth/refresh"
)

func Test_AuthRegister(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("register ok", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				data := `{"username": "cc", "password": "StrongEnoughPassword"}`

				resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.JSONEq(t, `
					{
						"message": "User registered successfully"
					}`, string(body))

				require.Equal(t, 1, len(resp.Cookies()))
				cookie := resp.Cookies()[0]
				require.Equal(t, "refresh_token", cookie.Name)
				require.Equal(t, cookie.HttpOnly, true, "refresh cookie should be HttpOnly")
				require.Equal(t, "/", cookie.Path, "refresh cookie should be available on / path")
				require.Equal(t, http.SameSiteLaxMode, cookie.SameSite, "refresh cookie should be SameSite Lax")
				require.WithinDuration(t, time.Now().Add(30*24*time.Hour), cookie.Expires, time.Minute, "cookie should expire with refresh TTL")
				require.NotEmpty(t, cookie.Value, "refresh cookie should not be empty")

				require.Contains(t, resp.Header, "Authorization")
				header := resp.Header.Get("Authorization")
				require.Contains(t, header, "Bearer")
			})
		})

		t.Run("register existed user fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.AuthService.Register(t.Context(), "cc", "StrongEnoughPassword")
				require.NoError(t, err)

				data := `{"username": "cc", "password": "StrongEnoughPassword"}`
				resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.JSONEq(t, `
					{
						"error": "service_error",
						"message": "User already exists"
					}`, string(body))

				require.Equal(t, 0, len(resp.Cookies()))
				require.NotContains(t, resp.Header, "Authorization", "Authorization header should not be set for failed register")
			})
		})

		t.Run("short password fails validation", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				data := `{"username": "cc", "password": "short"}`

				resp, err := http.Post(srvURL+RegisterURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			})
		})
	})
}

func Test_AuthLoginRefresh(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("login ok", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.AuthService.Register(t.Context(), "cc", "StrongEnoughPassword")
				require.NoError(t, err)

				data := `{"username": "cc", "password": "StrongEnoughPassword"}`
				resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.Contains(t, resp.Header.Get("Authorization"), "Bearer")
				require.Equal(t, 1, len(resp.Cookies()))
			})
		})

		t.Run("login wrong password fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				_, err := s.AuthService.Register(t.Context(), "cc", "StrongEnoughPassword")
				require.NoError(t, err)

				data := `{"username": "cc", "password": "wrong-password"}`
				resp, err := http.Post(srvURL+LoginURL, "application/json", strings.NewReader(data))
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.JSONEq(t, `
					{
						"error": "service_error",
						"message": "Invalid username or password"
					}`, string(body))
			})
		})

		t.Run("refresh rotates tokens", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				pair, err := s.AuthService.Register(t.Context(), "cc", "StrongEnoughPassword")
				require.NoError(t, err)

				req, err := http.NewRequest(http.MethodPost, srvURL+RefreshURL, nil)
				require.NoError(t, err)
				req.AddCookie(&http.Cookie{Name: "refresh_token", Value: pair.Refresh.Value})

				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.Equal(t, 1, len(resp.Cookies()))
				require.NotEqual(t, pair.Refresh.Value, resp.Cookies()[0].Value, "refresh token should rotate")

				// The old refresh token is burned now
				req, err = http.NewRequest(http.MethodPost, srvURL+RefreshURL, nil)
				require.NoError(t, err)
				req.AddCookie(&http.Cookie{Name: "refresh_token", Value: pair.Refresh.Value})

				resp, err = http.DefaultClient.Do(req)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})
		})

		t.Run("refresh without cookie fails", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				resp, err := http.Post(srvURL+RefreshURL, "application/json", nil)
				require.NoError(t, err)
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				defer func() { _ = resp.Body.Close() }()

				require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", string(body))
				require.JSONEq(t, `
					{
						"error": "service_error",
						"message": "Refresh token not found"
					}`, string(body))
			})
		})
	})
}
