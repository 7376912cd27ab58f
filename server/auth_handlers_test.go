package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"photostream/auth"
	"photostream/server"
	sessionfake "photostream/sessions/repofake"
	"photostream/token"
	userfake "photostream/users/repofake"
)

const (
	accessSecret  = "test-access-secret"
	refreshSecret = "test-refresh-secret"
)

type authFixture struct {
	server  *server.Server
	now     time.Time
	cookies []*http.Cookie
}

func setupAuthServer(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	nowFunc := func() time.Time { return f.now }

	sessionRepo := sessionfake.NewFakeSessionRepo()
	sessionRepo.NowFunc = nowFunc

	accessCodec := token.NewCodec(accessSecret, token.WithNowFunc(nowFunc))
	refreshCodec := token.NewCodec(refreshSecret, token.WithNowFunc(nowFunc))

	svc, err := auth.NewService(userfake.NewFakeUserRepo(), sessionRepo,
		accessCodec, refreshCodec, auth.WithNowFunc(nowFunc))
	require.NoError(t, err)

	f.server = server.NewAuthServer(server.AuthServerConfig{
		Env:             "test",
		AccessTokenTTL:  auth.DefaultAccessTTL,
		RefreshTokenTTL: auth.DefaultRefreshTTL,
	}, svc, accessCodec)
	return f
}

// do sends a request carrying the fixture's cookie jar and folds any
// Set-Cookie headers from the response back into it.
func (f *authFixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, cookie := range f.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		f.storeCookie(cookie)
	}

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func (f *authFixture) storeCookie(cookie *http.Cookie) {
	for i, existing := range f.cookies {
		if existing.Name == cookie.Name {
			if cookie.MaxAge < 0 {
				f.cookies = append(f.cookies[:i], f.cookies[i+1:]...)
			} else {
				f.cookies[i] = cookie
			}
			return
		}
	}
	if cookie.MaxAge >= 0 {
		f.cookies = append(f.cookies, cookie)
	}
}

func (f *authFixture) cookie(name string) *http.Cookie {
	for _, cookie := range f.cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

var registerBody = map[string]any{
	"username": "johndoe",
	"email":    "john.doe@example.com",
	"password": "password123",
	"fullname": "John Doe",
}

var loginBody = map[string]any{
	"email":    "john.doe@example.com",
	"password": "password123",
}

func TestRegisterHandler(t *testing.T) {
	f := setupAuthServer(t)

	rec, resp := f.do(t, http.MethodPost, "/register", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, true, resp["success"])

	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "johndoe", user["username"])
	require.NotContains(t, user, "password_hash")

	// Registration never sets credential cookies.
	require.Empty(t, f.cookies)
}

func TestRegisterHandlerValidation(t *testing.T) {
	f := setupAuthServer(t)

	rec, resp := f.do(t, http.MethodPost, "/register", map[string]any{
		"username": "jo",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields, ok := resp["fields"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, fields, "username")
	require.Contains(t, fields, "email")
	require.Contains(t, fields, "password")
	require.Contains(t, fields, "fullname")
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	f := setupAuthServer(t)

	rec, _ := f.do(t, http.MethodPost, "/register", registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/register", registerBody)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginHandlerSetsCookies(t *testing.T) {
	f := setupAuthServer(t)
	f.do(t, http.MethodPost, "/register", registerBody)

	rec, resp := f.do(t, http.MethodPost, "/login", loginBody)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, resp["success"])

	access := f.cookie("accessToken")
	require.NotNil(t, access)
	require.True(t, access.HttpOnly)
	require.NotEmpty(t, access.Value)

	refresh := f.cookie("refreshToken")
	require.NotNil(t, refresh)
	require.True(t, refresh.HttpOnly)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	f := setupAuthServer(t)
	f.do(t, http.MethodPost, "/register", registerBody)

	rec, resp := f.do(t, http.MethodPost, "/login", map[string]any{
		"email":    "john.doe@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid email or password", resp["message"])
	require.Empty(t, f.cookies)
}

func TestMeHandler(t *testing.T) {
	f := setupAuthServer(t)
	f.do(t, http.MethodPost, "/register", registerBody)
	f.do(t, http.MethodPost, "/login", loginBody)

	rec, resp := f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "johndoe", user["username"])
}

func TestMeHandlerWithoutCookie(t *testing.T) {
	f := setupAuthServer(t)

	rec, _ := f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshHandler(t *testing.T) {
	f := setupAuthServer(t)
	f.do(t, http.MethodPost, "/register", registerBody)
	f.do(t, http.MethodPost, "/login", loginBody)

	staleAccess := f.cookie("accessToken").Value

	// Past the access TTL the old token is dead but the refresh
	// credential still works.
	f.now = f.now.Add(16 * time.Minute)

	rec, _ := f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/refresh-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEqual(t, staleAccess, f.cookie("accessToken").Value)

	rec, _ = f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshHandlerWithoutCookie(t *testing.T) {
	f := setupAuthServer(t)

	rec, _ := f.do(t, http.MethodPost, "/refresh-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutHandler(t *testing.T) {
	f := setupAuthServer(t)
	f.do(t, http.MethodPost, "/register", registerBody)
	f.do(t, http.MethodPost, "/login", loginBody)

	refreshToken := f.cookie("refreshToken").Value

	rec, _ := f.do(t, http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, f.cookie("accessToken"))
	require.Nil(t, f.cookie("refreshToken"))

	// The revoked session cannot be refreshed, even if the client kept
	// the cookie value around.
	f.cookies = []*http.Cookie{{Name: "refreshToken", Value: refreshToken}}
	rec, _ = f.do(t, http.MethodPost, "/refresh-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logging out again is fine.
	f.cookies = nil
	rec, _ = f.do(t, http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLivenessRoute(t *testing.T) {
	f := setupAuthServer(t)

	rec, _ := f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
