package bootstrap

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursefit-backend/internal/shared/config"
	"coursefit-backend/internal/shared/storage/db"
	"coursefit-backend/internal/shared/telemetry"
	"coursefit-backend/internal/staff"
	"coursefit-backend/internal/submissions"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:              "test",
		JWTSecret:        "test-secret",
		LocalStoreDir:    t.TempDir(),
		SubmitRatePerMin: 60,
	}
}

func serve(app *App, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	return resp
}

func TestBuildInMemory(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	app, err := Build(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.DB)
	assert.IsType(t, &submissions.MemoryRepo{}, app.SubmissionsRepo)
	assert.IsType(t, &staff.MemoryRepo{}, app.StaffRepo)
	assert.Nil(t, app.GoogleAuth)

	resp := serve(app, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true}`, resp.Body.String())

	resp = serve(app, http.MethodGet, "/api/v1/teachers", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Mr. Radia")
}

func TestBuildRequiresDatabaseInProduction(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	_, err := Build(cfg)
	require.Error(t, err)
}

func TestBuildClosesDatabaseWhenStoreFails(t *testing.T) {
	var opened *sql.DB
	prev := openDatabase
	openDatabase = func(ctx context.Context, url string, opts db.Options) (*sql.DB, db.Dialect, error) {
		conn, dialect, err := prev(ctx, url, opts)
		opened = conn
		return conn, dialect, err
	}
	t.Cleanup(func() { openDatabase = prev })

	cfg := testConfig(t)
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "coursefit.db")
	cfg.ObjectStoreType = "s3"

	_, err := Build(cfg)
	require.ErrorContains(t, err, "S3_BUCKET")
	require.NotNil(t, opened)
	assert.ErrorContains(t, opened.Ping(), "database is closed")
}

func TestEndToEndWithSQLite(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(&bytes.Buffer{}))
	cfg := testConfig(t)
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "coursefit.db")

	app, err := Build(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.NotNil(t, app.DB)
	assert.IsType(t, &submissions.SQLRepo{}, app.SubmissionsRepo)

	_, err = app.StaffService.Create(context.Background(), staff.CreateInput{
		Email: "radia@school.org", Name: "Mr. Radia", Role: staff.RoleTeacher, Teacher: "Mr. Radia", Password: "password123",
	})
	require.NoError(t, err)

	answers := map[string]string{}
	for _, id := range app.Catalog.QuestionIDs() {
		answers[id] = "aa_hl"
	}
	resp := serve(app, http.MethodPost, "/api/v1/submissions", "", map[string]any{
		"name": "Ana", "teacher": "Mr. Radia", "answers": answers,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = serve(app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "radia@school.org", "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))

	resp = serve(app, http.MethodGet, "/api/v1/results", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var page struct {
		Total int `json:"total"`
		Items []struct {
			Name   string `json:"name"`
			Course string `json:"recommendedCourse"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "AA HL", page.Items[0].Course)

	resp = serve(app, http.MethodGet, "/api/v1/health", "", nil)
	assert.Contains(t, resp.Body.String(), `"database":"ok"`)
}

func TestLoadQuestionnaireRejectsMismatchedWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("track: {career_field1: 1}\nlevel: {career_field1: 1}\n"), 0o644))

	cfg := testConfig(t)
	cfg.WeightsFile = path
	_, _, err := LoadQuestionnaire(cfg)
	require.Error(t, err)
}
