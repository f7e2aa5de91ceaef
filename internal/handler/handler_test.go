package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"pgha-inspect/internal/model"
	"pgha-inspect/pkg/utils"
)

type stubInspector struct {
	got  *model.InspectRequest
	resp *model.InspectResponse
	err  error
}

func (s *stubInspector) Inspect(req *model.InspectRequest) (*model.InspectResponse, error) {
	s.got = req
	return s.resp, s.err
}

type stubTester struct{}

func (stubTester) TestConnection(req *model.SSHTestRequest) *model.SSHTestResponse {
	return &model.SSHTestResponse{Success: true, Details: []string{"✓ Current user: " + req.Username}}
}

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleResponse() *model.InspectResponse {
	node := model.NewNodeRecord("10.0.0.2")
	node.Set(model.FieldDiskUsage, "/dev/sda1 <50G>")
	return &model.InspectResponse{Success: true, RunID: "run-1", Nodes: []*model.NodeRecord{node}}
}

func newEngine(inspector ClusterInspector) *gin.Engine {
	r := gin.New()
	h := NewInspectHandler(inspector)
	r.POST("/api/ssh/test", NewSSHHandler(stubTester{}).TestConnection)
	r.POST("/api/inspect", h.Inspect)
	r.POST("/api/report", h.Report)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const inspectBody = `{"node_ip":"10.0.0.1","username":"admin","password":"secret","include_seed":true}`

func TestInspectReturnsRecords(t *testing.T) {
	inspector := &stubInspector{resp: sampleResponse()}

	w := post(newEngine(inspector), "/api/inspect", inspectBody)

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.InspectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	require.Len(t, resp.Nodes, 1)
	assert.Equal(t, "/dev/sda1 <50G>", resp.Nodes[0].Values[model.FieldDiskUsage])

	assert.Equal(t, "10.0.0.1", inspector.got.NodeIP)
	assert.True(t, inspector.got.IncludeSeed)
	assert.Empty(t, inspector.got.FetchDir)
}

func TestInspectRejectsIncompleteRequest(t *testing.T) {
	inspector := &stubInspector{}

	w := post(newEngine(inspector), "/api/inspect", `{"node_ip":"10.0.0.1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, inspector.got)
}

func TestInspectErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", utils.NewValidationError("host", "bad host"), http.StatusBadRequest},
		{"auth", utils.NewAuthError("10.0.0.1", errors.New("ssh: unable to authenticate")), http.StatusUnauthorized},
		{"resolve", utils.NewResolveError("10.0.0.1", errors.New("no such host")), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(newEngine(&stubInspector{err: tt.err}), "/api/inspect", inspectBody)
			assert.Equal(t, tt.want, w.Code)

			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestReportRendersDocument(t *testing.T) {
	w := post(newEngine(&stubInspector{resp: sampleResponse()}), "/api/report", inspectBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "run-1", w.Header().Get("X-Run-Id"))
	assert.Equal(t, 1, strings.Count(w.Body.String(), `<div class="node-section">`))
	assert.Contains(t, w.Body.String(), "<pre>/dev/sda1 <50G></pre>")
}

func TestReportText(t *testing.T) {
	body := `{"node_ip":"10.0.0.1","username":"admin","password":"secret","format":"text"}`

	w := post(newEngine(&stubInspector{resp: sampleResponse()}), "/api/report", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Node: 10.0.0.2\n")
}

func TestReportUnknownFormat(t *testing.T) {
	inspector := &stubInspector{resp: sampleResponse()}
	body := `{"node_ip":"10.0.0.1","username":"admin","password":"secret","format":"pdf"}`

	w := post(newEngine(inspector), "/api/report", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, inspector.got)
}

func TestSSHTestConnection(t *testing.T) {
	r := newEngine(&stubInspector{})

	w := post(r, "/api/ssh/test", `{"ip":"10.0.0.1","username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Current user: admin")

	w = post(r, "/api/ssh/test", `{"ip":"10.0.0.1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/limited", RateLimit(rate.NewLimiter(rate.Limit(0.001), 1)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}
