package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/page-loader/internal/delivery/http/handler"
	"github.com/user/page-loader/internal/delivery/http/response"
	"github.com/user/page-loader/internal/entity"
	"github.com/user/page-loader/internal/usecase"
	"go.uber.org/zap"
)

type fakeJobManager struct {
	submitErr error
	status    *entity.JobStatus
	submitted []string
}

func (f *fakeJobManager) Submit(_ context.Context, url, outputDir string, force bool) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, url)
	return "job-123", nil
}

func (f *fakeJobManager) GetStatus(_ context.Context, url string) (*entity.JobStatus, error) {
	if f.status == nil {
		return &entity.JobStatus{URL: url, CurrentStatus: entity.JobNotFound}, nil
	}
	return f.status, nil
}

func serve(t *testing.T, jm usecase.JobManager, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := New(handler.NewHandler(jm, zap.NewNop()), zap.NewNop())
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitDownload(t *testing.T) {
	jm := &fakeJobManager{}
	rec := serve(t, jm, http.MethodPost, "/api/downloads", `{"url":"https://ru.hexlet.io/courses/"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp response.SubmitDownloadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.JobID != "job-123" || len(jm.submitted) != 1 {
		t.Errorf("unexpected response %+v, submitted %v", resp, jm.submitted)
	}
}

func TestSubmitDownloadRejectsBadInput(t *testing.T) {
	for _, body := range []string{`not json`, `{"url":"ru.hexlet.io"}`, `{"url":"ftp://ru.hexlet.io/"}`} {
		rec := serve(t, &fakeJobManager{}, http.MethodPost, "/api/downloads", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestSubmitDownloadConflict(t *testing.T) {
	jm := &fakeJobManager{submitErr: usecase.ErrPageRecentlyLoaded}
	rec := serve(t, jm, http.MethodPost, "/api/downloads", `{"url":"https://ru.hexlet.io/"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d", rec.Code)
	}

	jm.submitErr = errors.New("redis down")
	rec = serve(t, jm, http.MethodPost, "/api/downloads", `{"url":"https://ru.hexlet.io/"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestGetStatus(t *testing.T) {
	rec := serve(t, &fakeJobManager{}, http.MethodGet, "/api/status?url=https://ru.hexlet.io/", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown URL status = %d", rec.Code)
	}

	rec = serve(t, &fakeJobManager{}, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url status = %d", rec.Code)
	}

	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	jm := &fakeJobManager{status: &entity.JobStatus{
		URL:           "https://ru.hexlet.io/",
		CurrentStatus: entity.JobCompleted,
		PagePath:      "/out/ru-hexlet-io.html",
		AssetsTotal:   3,
		AssetsFailed:  1,
		FinishedAt:    &finished,
	}}
	rec = serve(t, jm, http.MethodGet, "/api/status?url=https://ru.hexlet.io/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp response.JobStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.CurrentStatus != entity.JobCompleted || resp.AssetsFailed != 1 || resp.PagePath != "/out/ru-hexlet-io.html" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	if rec := serve(t, &fakeJobManager{}, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
	rec := serve(t, &fakeJobManager{}, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Errorf("metrics status = %d", rec.Code)
	}
}
