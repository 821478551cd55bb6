package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grabbi-storefront/dtos"

	"github.com/golang-jwt/jwt/v5"
)

func backendToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestRegisterSuccess(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)
	e.backend.respond("POST", "/api/auth/register", http.StatusOK, nil)

	body := map[string]string{
		"name":            "Sam",
		"email":           " Sam@Test.com ",
		"password":        "password123",
		"confirmPassword": "password123",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/register", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["redirect"] != "/verify-otp?email=sam%40test.com" {
		t.Errorf("unexpected redirect: %v", resp["redirect"])
	}

	calls := e.backend.callsTo("POST", "/api/auth/register")
	if len(calls) != 1 {
		t.Fatalf("expected 1 register call, got %d", len(calls))
	}
	var sent map[string]interface{}
	decodeBody(t, calls[0], &sent)
	if sent["Email"] != "sam@test.com" {
		t.Errorf("expected normalised email, got %v", sent["Email"])
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)

	body := map[string]string{
		"name":            "Sam",
		"email":           "sam@test.com",
		"password":        "password123",
		"confirmPassword": "password321",
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/register", body))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if n := e.backend.callCount(); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestLoginCreatesSession(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)

	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := backendToken(t, exp)
	e.backend.respond("POST", "/api/auth/login", http.StatusOK, dtos.AuthResponse{Token: token, User: testCustomer()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"email": "sam@test.com", "password": "secret"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["token"] != token {
		t.Errorf("expected backend token to be returned")
	}
	if resp["redirect"] != "/" {
		t.Errorf("expected customer to land on /, got %v", resp["redirect"])
	}

	sess := e.session(t, token)
	if sess.Identity().ID != 7 || sess.Points() != 500 {
		t.Errorf("unexpected session identity: %+v", sess.Identity())
	}
	if !sess.ExpiresAt().Equal(exp) {
		t.Errorf("expected session to expire with the token at %v, got %v", exp, sess.ExpiresAt())
	}
}

func TestLoginStaffRedirectsToAdmin(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)

	staff := dtos.Identity{ID: 2, Name: "Jo", Email: "jo@test.com", Role: dtos.RoleStaff}
	e.backend.respond("POST", "/api/auth/login", http.StatusOK, dtos.AuthResponse{Token: "opaque-token", User: staff})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"email": "jo@test.com", "password": "secret"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["redirect"] != "/admin" {
		t.Errorf("expected staff to land on /admin, got %v", resp["redirect"])
	}
	// Non-JWT tokens fall back to the configured TTL.
	if sess := e.session(t, "opaque-token"); sess.ExpiresAt().Before(time.Now().Add(50 * time.Minute)) {
		t.Errorf("expected fallback expiry about an hour out, got %v", sess.ExpiresAt())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)
	e.backend.respond("POST", "/api/auth/login", http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"email": "sam@test.com", "password": "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error"] != "Invalid email or password" {
		t.Errorf("expected backend message to pass through, got %v", resp["error"])
	}
	if e.sessions.Len() != 0 {
		t.Errorf("expected no session, got %d", e.sessions.Len())
	}
}

func TestLoginEmptyToken(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)
	e.backend.respond("POST", "/api/auth/login", http.StatusOK, dtos.AuthResponse{User: testCustomer()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/login", map[string]string{"email": "sam@test.com", "password": "secret"}))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVerifyOTPRejectsMalformedCode(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)

	for _, code := range []string{"123", "12345a", "1234567"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest("POST", "/api/auth/verify-otp", map[string]string{"email": "sam@test.com", "code": code}))
		if w.Code != http.StatusBadRequest {
			t.Errorf("code %q: expected status 400, got %d", code, w.Code)
		}
	}
	if n := e.backend.callCount(); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestVerifyOTPStartsSession(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)
	e.backend.respond("POST", "/api/auth/verify-otp", http.StatusOK, dtos.AuthResponse{Token: "otp-token", User: testCustomer()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/verify-otp", map[string]string{"email": "sam@test.com", "code": "123456"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	calls := e.backend.callsTo("POST", "/api/auth/verify-otp")
	var sent map[string]string
	decodeBody(t, calls[0], &sent)
	if sent["Otp"] != "123456" {
		t.Errorf("expected OTP to be forwarded, got %v", sent)
	}
	e.session(t, "otp-token")
}

func TestGoogleSignInForwardsCredential(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)
	e.backend.respond("POST", "/api/auth/google", http.StatusOK, dtos.AuthResponse{Token: "google-token", User: testCustomer()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/auth/google", map[string]string{"credential": "id-token"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var sent map[string]string
	decodeBody(t, e.backend.callsTo("POST", "/api/auth/google")[0], &sent)
	if sent["Credential"] != "id-token" {
		t.Errorf("expected credential to be forwarded, got %v", sent)
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)
	token := e.seedSession(t, testCustomer())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/auth/logout", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if _, err := e.sessions.Get(context.Background(), token); err == nil {
		t.Error("expected session to be deleted")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/profile", nil, token))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
}

func TestProfileRefreshesSession(t *testing.T) {
	e := newTestEnv(t)
	router := setupAuthRouter(e)
	token := e.seedSession(t, testCustomer())

	fresh := testCustomer()
	fresh.Points = 800
	fresh.Tier = dtos.TierGold
	e.backend.respond("GET", "/api/user/profile", http.StatusOK, fresh)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/profile", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	sess := e.session(t, token)
	if sess.Points() != 800 || sess.Identity().Tier != dtos.TierGold {
		t.Errorf("expected refreshed identity, got %+v", sess.Identity())
	}
}
