package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	sharedauth "coursefit-backend/internal/shared/auth"
	"coursefit-backend/internal/shared/telemetry"
	"coursefit-backend/internal/staff"
)

type fakeGoogle struct {
	server   *httptest.Server
	email    string
	verified bool
}

func newFakeGoogle(t *testing.T, email string, verified bool) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{email: email, verified: verified}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "g-1", "email": f.email, "verified_email": f.verified, "name": "Ms. Lee"})
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestGoogleService(t *testing.T, fake *fakeGoogle) (*GoogleService, *staff.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(&bytes.Buffer{})
	t.Cleanup(restore)

	issuer, err := sharedauth.NewIssuer("test-secret", time.Hour, "test")
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	staffSvc := staff.NewService(staff.NewMemoryRepo(), issuer, nil)
	if _, err := staffSvc.Create(context.Background(), staff.CreateInput{
		Email: "lee@school.org", Name: "Ms. Lee", Role: staff.RoleTeacher, Teacher: "Ms. Lee",
	}); err != nil {
		t.Fatalf("create staff: %v", err)
	}

	svc := NewGoogleService("client", "secret", "http://localhost/api/v1/auth/google/callback", "http://localhost:5173/dashboard", staffSvc)
	svc.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:   fake.server.URL + "/auth",
		TokenURL:  fake.server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	svc.userInfoURL = fake.server.URL + "/userinfo"
	return svc, staffSvc
}

func runCallback(t *testing.T, svc *GoogleService) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))

	startResp := httptest.NewRecorder()
	r.ServeHTTP(startResp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if startResp.Code != http.StatusFound {
		t.Fatalf("expected 302 from start, got %d", startResp.Code)
	}
	loc, err := url.Parse(startResp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatalf("expected state in %s", loc)
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/callback?code=abc&state="+state, nil))
	return resp
}

func TestGoogleCallbackAdmitsStaff(t *testing.T) {
	fake := newFakeGoogle(t, "Lee@School.org", true)
	svc, staffSvc := newTestGoogleService(t, fake)

	resp := runCallback(t, svc)
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", resp.Code, resp.Body.String())
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse redirect: %v", err)
	}
	if !strings.HasPrefix(loc.String(), "http://localhost:5173/dashboard") {
		t.Fatalf("unexpected redirect %s", loc)
	}
	claims, err := staffSvc.Issuer.Verify(loc.Query().Get("token"))
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Role != "teacher" || claims.Teacher != "Ms. Lee" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestGoogleCallbackRejectsUnknownEmail(t *testing.T) {
	fake := newFakeGoogle(t, "stranger@gmail.com", true)
	svc, _ := newTestGoogleService(t, fake)

	resp := runCallback(t, svc)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestGoogleCallbackRejectsUnverifiedEmail(t *testing.T) {
	fake := newFakeGoogle(t, "lee@school.org", false)
	svc, _ := newTestGoogleService(t, fake)

	resp := runCallback(t, svc)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestGoogleCallbackRejectsReplayedState(t *testing.T) {
	store := newStateStore()
	store.put("s1", time.Now().Add(time.Minute))
	if !store.consume("s1") {
		t.Fatalf("expected first consume to succeed")
	}
	if store.consume("s1") {
		t.Fatalf("expected replay to fail")
	}
	store.put("s2", time.Now().Add(-time.Second))
	if store.consume("s2") {
		t.Fatalf("expected expired state to fail")
	}
}

func TestGoogleStartNotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()

	svc := NewGoogleService("", "", "", "", nil)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/v1"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/auth/google/start", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}
