package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dadataclean/cleansing"
	"dadataclean/internal/api/handlers/clean"
	"dadataclean/internal/metrics"
)

const ivanovField = `{"source":"иванов иван иванович","result":"Иванов Иван Иванович","qc":0,"gender":"М","surname":"Иванов","name":"Иван","patronymic":"Иванович"}`

// newUpstream поднимает фейковый DaData, отвечающий status и body
func newUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, upstreamURL string) (*gin.Engine, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	factory := func() (*cleansing.Client, error) {
		return cleansing.New("test-token",
			cleansing.WithEndpointURL(upstreamURL),
			cleansing.WithRecorder(m),
		)
	}

	return NewRouter(Options{NewClient: factory, Metrics: m, Gatherer: reg}), reg
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) clean.ErrorResponse {
	t.Helper()
	var resp clean.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, "http://127.0.0.1:1")

	w := doJSON(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestNormalizeName_Success(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK, `{"data":[[`+ivanovField+`]]}`)
	r, _ := newTestRouter(t, upstream.URL)

	w := doJSON(r, http.MethodPost, "/api/v1/clean/name", `{"name":"иванов иван иванович","strict":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ivanovField, w.Body.String())
}

func TestNormalizeName_StrictRejection(t *testing.T) {
	field := `{"qc":0,"gender":"НД","surname":"Иванов","name":"Иван","patronymic":""}`
	upstream := newUpstream(t, http.StatusOK, `{"data":[[`+field+`]]}`)
	r, _ := newTestRouter(t, upstream.URL)

	w := doJSON(r, http.MethodPost, "/api/v1/clean/name", `{"name":"Иванов Иван","strict":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "unknown_gender", resp.Error)
	assert.Equal(t, "unknown gender", resp.Message)
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)

	w = doJSON(r, http.MethodPost, "/api/v1/clean/name", `{"name":"Иванов Иван"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, field, w.Body.String())
}

func TestNormalizeName_BadRequest(t *testing.T) {
	r, _ := newTestRouter(t, "http://127.0.0.1:1")

	for _, body := range []string{``, `{}`, `{"name":""}`, `not json`} {
		w := doJSON(r, http.MethodPost, "/api/v1/clean/name", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "bad_request", decodeError(t, w).Error, body)
	}
}

func TestNormalizeName_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "service error",
			status:     http.StatusForbidden,
			body:       `{"error":"invalid_token","error_description":"Token expired"}`,
			wantStatus: http.StatusBadGateway,
			wantError:  "service_error",
		},
		{
			name:       "server failure",
			status:     http.StatusInternalServerError,
			body:       `{}`,
			wantStatus: http.StatusBadGateway,
			wantError:  "service_error",
		},
		{
			name:       "malformed body",
			status:     http.StatusOK,
			body:       `<html>`,
			wantStatus: http.StatusBadGateway,
			wantError:  "protocol_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := newUpstream(t, tt.status, tt.body)
			r, _ := newTestRouter(t, upstream.URL)

			w := doJSON(r, http.MethodPost, "/api/v1/clean/name", `{"name":"Иванов Иван"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeError(t, w).Error)
		})
	}
}

func TestNormalizeName_TransportError(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK, `{}`)
	url := upstream.URL
	upstream.Close()

	r, _ := newTestRouter(t, url)
	w := doJSON(r, http.MethodPost, "/api/v1/clean/name", `{"name":"Иванов Иван"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "transport_error", resp.Error)
	assert.NotEmpty(t, resp.Code)
}

func TestNormalizeName_FactoryError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Options{NewClient: func() (*cleansing.Client, error) {
		return cleansing.New("")
	}})

	w := doJSON(r, http.MethodPost, "/api/v1/clean/name", `{"name":"Иванов Иван"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "config_error", decodeError(t, w).Error)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(Options{NewClient: func() (*cleansing.Client, error) {
		panic("factory exploded")
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clean/name", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-42", decodeError(t, w).RequestID)
}

func TestClean_Passthrough(t *testing.T) {
	body := `{"data":[[` + ivanovField + `,{"source":"мск","result":"г Москва","qc":0}]],"extra":{"balance":100}}`
	upstream := newUpstream(t, http.StatusOK, body)
	r, _ := newTestRouter(t, upstream.URL)

	w := doJSON(r, http.MethodPost, "/api/v1/clean",
		`{"structure":["NAME","ADDRESS"],"data":[["иванов иван иванович","мск"]]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, body, w.Body.String())
}

func TestClean_InvalidRequest(t *testing.T) {
	r, _ := newTestRouter(t, "http://127.0.0.1:1")

	w := doJSON(r, http.MethodPost, "/api/v1/clean", `{"structure":["NAME","PHONE"],"data":[["Иванов"]]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	upstream := newUpstream(t, http.StatusOK, `{"data":[[`+ivanovField+`]]}`)
	r, _ := newTestRouter(t, upstream.URL)

	doJSON(r, http.MethodPost, "/api/v1/clean/name", `{"name":"Иванов Иван Иванович"}`)
	w := doJSON(r, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	assert.Contains(t, out, `dadata_clean_calls_total{outcome="ok",status="200"} 1`)
	assert.Contains(t, out, `dadata_name_normalizations_total{result="ok",strict="false"} 1`)
	assert.Contains(t, out, `route="/api/v1/clean/name"`)
}

func TestSwaggerRoutes(t *testing.T) {
	r, _ := newTestRouter(t, "http://127.0.0.1:1")

	w := doJSON(r, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc), w.Body.String())
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths["/api/v1/clean/name"], "post")
	assert.Contains(t, doc.Paths["/api/v1/clean"], "post")

	w = doJSON(r, http.MethodGet, "/swagger/index.html", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}
