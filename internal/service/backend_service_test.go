package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/career-gateway/internal/config"
	"github.com/fadilmartias/career-gateway/internal/dto"
	"github.com/fadilmartias/career-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) (*BackendService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendService(config.NewBackendConfig(srv.URL, "", "", 5*time.Second)), srv
}

func resumeFile() *model.UploadedFile {
	return &model.UploadedFile{
		FieldName:   "resume",
		FileName:    "cv.pdf",
		ContentType: "application/pdf",
		Reader:      strings.NewReader("%PDF-1.4 resume"),
	}
}

func TestAnalyzeResumeSendsOnlyTheResume(t *testing.T) {
	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze-skills", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		assert.Empty(t, r.MultipartForm.Value)
		if !assert.Len(t, r.MultipartForm.File["resume"], 1) {
			return
		}
		fh := r.MultipartForm.File["resume"][0]
		assert.Equal(t, "cv.pdf", fh.Filename)
		assert.Equal(t, "application/pdf", fh.Header.Get("Content-Type"))

		f, err := fh.Open()
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF-1.4 resume", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categorized_skills":{"Programming":["go"]}}`))
	})

	resp, err := backend.AnalyzeResume(context.Background(), resumeFile())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"categorized_skills":{"Programming":["go"]}}`, string(resp.Body))
}

func TestAnalyzeSkillGapSendsOptionalFields(t *testing.T) {
	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Data Scientist", r.FormValue("target_role"))
		assert.Equal(t, "true", r.FormValue("gemini_advice"))
		assert.Len(t, r.MultipartForm.File["resume"], 1)
		w.Write([]byte(`{}`))
	})

	_, err := backend.AnalyzeSkillGap(context.Background(), resumeFile(), model.SkillGapOptions{
		TargetRole:   "Data Scientist",
		GeminiAdvice: true,
	})
	require.NoError(t, err)
}

func TestResumeAnalysisURLOverride(t *testing.T) {
	var hit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	backend := NewBackendService(config.NewBackendConfig("http://unused.invalid", srv.URL+"/legacy/analyze", "", time.Second))
	_, err := backend.AnalyzeResume(context.Background(), resumeFile())
	require.NoError(t, err)
	assert.Equal(t, "/legacy/analyze", hit)
}

func TestSkillGapIgnoresResumeAnalysisOverride(t *testing.T) {
	var unified, legacy []string
	unifiedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unified = append(unified, r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer unifiedSrv.Close()
	legacySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		legacy = append(legacy, r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer legacySrv.Close()

	backend := NewBackendService(config.NewBackendConfig(unifiedSrv.URL, legacySrv.URL+"/api/analyze-skills", "", time.Second))
	_, err := backend.AnalyzeSkillGap(context.Background(), resumeFile(), model.SkillGapOptions{TargetRole: "Data Scientist"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/analyze-skills"}, unified)
	assert.Empty(t, legacy)
}

func TestPostJSONForwardsBodyVerbatim(t *testing.T) {
	body := []byte(`{"current_role":"Data Analyst","years_experience":2,"education":"Bachelors","current_salary":6}`)

	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/career-recommendations", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		got, _ := io.ReadAll(r.Body)
		assert.Equal(t, string(body), string(got))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Role not recognized."}`))
	})

	resp, err := backend.CareerRecommendations(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
}

func TestHTTPCultureMatcherPostsRequest(t *testing.T) {
	backend, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cultural-match", r.URL.Path)
		got, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"preferences":"remote","top_n":2}`, string(got))
		w.Write([]byte(`{"recommendations":[]}`))
	})

	m := &HTTPCultureMatcher{backend: backend}
	resp, err := m.Match(context.Background(), dto.CulturalMatchRequest{Preferences: "remote", TopN: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"recommendations":[]}`, string(resp.Body))
}

func TestBackendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	backend := NewBackendService(config.NewBackendConfig(url, "", "", time.Second))
	resp, err := backend.Health(context.Background())

	assert.Nil(t, resp)
	require.Error(t, err)
}
