package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/docforge/internal/document"
	"github.com/fyrsmithlabs/docforge/internal/logging"
	"github.com/fyrsmithlabs/docforge/internal/workflow"
)

// stubExecutor scripts the pipeline outcome and captures the request.
type stubExecutor struct {
	result *workflow.Result
	err    error
	got    []workflow.Request
}

func (s *stubExecutor) Execute(ctx context.Context, req workflow.Request) (*workflow.Result, error) {
	s.got = append(s.got, req)
	return s.result, s.err
}

func okResult() *workflow.Result {
	return &workflow.Result{
		RunID:        "run-1",
		ExportIntent: true,
		Kind:         document.KindWord,
		ArtifactPath: "/exports/export_2026-01-01_12-00-00.docx",
		Duration:     120 * time.Millisecond,
	}
}

func newTestServer(t *testing.T, exec Executor) *Server {
	t.Helper()
	s, err := New(exec, logging.NewTestLogger().Logger, Config{})
	require.NoError(t, err)
	return s
}

func doJSON(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(nil, logging.NewTestLogger().Logger, Config{})
	assert.Error(t, err)

	_, err = New(&stubExecutor{}, nil, Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubExecutor{result: okResult()})

	rec := doJSON(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestExport_Success(t *testing.T) {
	exec := &stubExecutor{result: okResult()}
	s := newTestServer(t, exec)

	rec := doJSON(s, http.MethodPost, "/api/v1/exports",
		`{"text":"Report\n\nBody.","instruction":"Export as Word","name":"report","preset":"memo","clean":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"artifact_path":"/exports/export_2026-01-01_12-00-00.docx"`)
	assert.Contains(t, rec.Body.String(), `"document_kind":"word"`)
	assert.Contains(t, rec.Body.String(), `"export_intent":true`)

	require.Len(t, exec.got, 1)
	got := exec.got[0]
	assert.Equal(t, "Report\n\nBody.", got.SourceText)
	assert.Equal(t, "Export as Word", got.Instruction)
	assert.Equal(t, "report", got.BaseName)
	assert.Equal(t, "memo", got.Preset)
	assert.True(t, got.CleanSource)
}

func TestExport_ReportsDegradations(t *testing.T) {
	result := okResult()
	result.Failures = []*workflow.Failure{
		{Kind: workflow.FailureExtraction, Stage: workflow.StateExtractFormat, Err: errors.New("model timeout")},
	}
	s := newTestServer(t, &stubExecutor{result: result})

	rec := doJSON(s, http.MethodPost, "/api/v1/exports",
		`{"text":"Note","instruction":"Save as Word"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"extraction"`)
	assert.Contains(t, rec.Body.String(), `"severity":"high"`)
}

func TestExport_ValidatesBody(t *testing.T) {
	s := newTestServer(t, &stubExecutor{result: okResult()})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"text": `},
		{"missing text", `{"instruction":"Export as Word"}`},
		{"missing instruction", `{"text":"Report"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(s, http.MethodPost, "/api/v1/exports", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExport_RenderFailureIs500(t *testing.T) {
	exec := &stubExecutor{
		result: &workflow.Result{Kind: document.KindPDF},
		err: &workflow.Failure{
			Kind:  workflow.FailureRender,
			Stage: workflow.StateRender,
			Err:   errors.New("disk full"),
		},
	}
	s := newTestServer(t, exec)

	rec := doJSON(s, http.MethodPost, "/api/v1/exports",
		`{"text":"Note","instruction":"Save as PDF"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")
}

func TestStats_TracksRuns(t *testing.T) {
	exec := &stubExecutor{result: okResult()}
	s := newTestServer(t, exec)

	for i := 0; i < 3; i++ {
		rec := doJSON(s, http.MethodPost, "/api/v1/exports",
			`{"text":"Note","instruction":"Save as Word"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(s, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_runs":3`)
	assert.Contains(t, rec.Body.String(), `"succeeded":3`)
	assert.Contains(t, rec.Body.String(), `"word":3`)
}
