package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/painel/internal/config"
	"github.com/JonMunkholm/painel/internal/core"
	"github.com/JonMunkholm/painel/internal/sheet"
)

// memorySource serves a fixed grid.
type memorySource struct {
	rows [][]string
	err  error
}

func (m *memorySource) Rows(context.Context) ([][]string, error) {
	return m.rows, m.err
}

func (m *memorySource) Spreadsheet(context.Context) (sheet.Spreadsheet, error) {
	if m.err != nil {
		return sheet.Spreadsheet{}, m.err
	}
	return sheet.Spreadsheet{
		Title:      "Base Programa",
		Worksheets: []sheet.Worksheet{{Index: 0, Title: "TABELA - BASE DE DADOS", Rows: len(m.rows)}},
	}, nil
}

func (m *memorySource) Worksheet() string { return "TABELA - BASE DE DADOS" }

var grid = [][]string{
	{"NOME", "ESCOLA", "ESTADO", "MUNICÍPIO", "CURSO", "SEXO", "PESSOA COM DEFICIÊNCIA (PCD)", "LINK DO CERTIFICADO"},
	{"Ana Silva", "EE Recife", "Pernambuco, Brasil", "Recife", "Robótica", "Feminino", "Sim", "https://c/ana-silva"},
	{"Ana Paula", "EE Centro", "Maranhão, Brasil", "São Luís", "Games", "Feminino", "Não", "https://c/ana-paula"},
	{"Bruno", "EE Centro", "Maranhão, Brasil", "Imperatriz", "Games", "Masculino", "", "https://c/bruno"},
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Rate:   config.RateLimitConfig{Enabled: false},
		Security: config.SecurityConfig{
			EnableCSP:      true,
			AllowedOrigins: []string{"https://painel.example.org"},
		},
	}
}

func newTestServer(t *testing.T, src sheet.Source, cfg *config.Config) *httptest.Server {
	t.Helper()

	svc := core.NewService(src, core.Options{Target: core.DefaultTarget})
	srv := httptest.NewServer(NewServer(svc, cfg).Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	var got core.Summary
	resp := getJSON(t, srv.URL+"/dados", &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, 3, got.KPIs.TotalStudents)
	assert.Equal(t, 23500, got.KPIs.Target)
	assert.Equal(t, 2, got.KPIs.TotalStates)
	assert.Equal(t, 2, got.KPIs.TotalSchools)
	assert.Equal(t, 2, got.KPIs.TotalMunicipalities)
	assert.Equal(t, map[string]int{"Pernambuco": 1, "Maranhão": 2}, got.Charts.StudentsByState)
	assert.Equal(t, 1, got.Charts.TotalPCD)
	assert.Len(t, got.Map, 2)
}

func TestSummaryEndpoint_RawDocument(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	var doc map[string]json.RawMessage
	getJSON(t, srv.URL+"/dados", &doc)

	assert.Contains(t, doc, "kpis")
	assert.Contains(t, doc, "graficos")
	assert.Contains(t, doc, "mapa")
	assert.NotContains(t, doc, "mensagem")

	var kpis map[string]any
	require.NoError(t, json.Unmarshal(doc["kpis"], &kpis))
	for _, key := range []string{"total_alunos", "meta_projeto", "porcentagem_concluida", "total_estados", "total_escolas", "total_municipios"} {
		assert.Contains(t, kpis, key)
	}
}

func TestSummaryEndpoint_EmptySheet(t *testing.T) {
	srv := newTestServer(t, &memorySource{}, testConfig())

	var got core.Summary
	resp := getJSON(t, srv.URL+"/dados", &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Planilha vazia", got.Message)
	assert.Equal(t, 0, got.KPIs.TotalStudents)
	assert.Equal(t, 0, got.KPIs.TotalStates)
}

func TestSummaryEndpoint_SourceFailure(t *testing.T) {
	srv := newTestServer(t, &memorySource{err: sheet.ErrWorksheetNotFound}, testConfig())

	var got ErrorResponse
	resp := getJSON(t, srv.URL+"/dados", &got)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "SRC002", got.Code)
	assert.Contains(t, got.Error, "worksheet not found")
}

func TestCertificatesEndpoint(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	var got core.CertificateResult
	resp := getJSON(t, srv.URL+"/certificados?nome=ana", &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, []core.Certificate{
		{Name: "Ana Silva", Course: "Robótica", Link: "https://c/ana-silva"},
		{Name: "Ana Paula", Course: "Games", Link: "https://c/ana-paula"},
	}, got.Results)
}

func TestCertificatesEndpoint_MissingName(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	for _, path := range []string{"/certificados", "/certificados?nome=", "/certificados?nome=%20%20"} {
		var got ErrorResponse
		resp := getJSON(t, srv.URL+path, &got)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "Informe um nome", got.Error, path)
		assert.Equal(t, "VAL001", got.Code, path)
	}
}

func TestCertificatesEndpoint_MissingColumn(t *testing.T) {
	src := &memorySource{rows: [][]string{{"NOME", "CURSO"}, {"Ana", "Games"}}}
	srv := newTestServer(t, src, testConfig())

	var got ErrorResponse
	resp := getJSON(t, srv.URL+"/certificados?nome=ana", &got)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "SCH001", got.Code)
	assert.Contains(t, got.Error, "CERTIFICATE_LINK")
	assert.Contains(t, got.Error, "NOME, CURSO")
}

func TestWorksheetsEndpoint(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	var got sheet.Spreadsheet
	resp := getJSON(t, srv.URL+"/abas", &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Base Programa", got.Title)
	assert.Equal(t, []sheet.Worksheet{{Index: 0, Title: "TABELA - BASE DE DADOS", Rows: 4}}, got.Worksheets)
}

func TestWorksheetsEndpoint_AccessDenied(t *testing.T) {
	srv := newTestServer(t, &memorySource{err: sheet.ErrAccessDenied}, testConfig())

	var got ErrorResponse
	resp := getJSON(t, srv.URL+"/abas", &got)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "SRC003", got.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &memorySource{err: errors.New("should not be called")}, testConfig())

	var got HealthResponse
	resp := getJSON(t, srv.URL+"/healthz", &got)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, core.DefaultMaxConcurrentFetches, got.Fetches.MaxConcurrent)
	assert.Equal(t, 0, got.Fetches.Active)
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://painel.example.org")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
	assert.Equal(t, "https://painel.example.org", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOrigin(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	srv := newTestServer(t, &memorySource{rows: grid}, cfg)

	for i := 0; i < 2; i++ {
		resp := getJSON(t, srv.URL+"/healthz", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var got ErrorResponse
	resp := getJSON(t, srv.URL+"/healthz", &got)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Equal(t, "RATE001", got.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &memorySource{rows: grid}, testConfig())

	resp := getJSON(t, srv.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/dados", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &core.Error{Kind: core.KindValidation, Err: core.ErrMissingName}, http.StatusBadRequest},
		{"schema", &core.Error{Kind: core.KindSchema, Err: core.ErrMissingColumn}, http.StatusInternalServerError},
		{"transport", &core.Error{Kind: core.KindTransport, Err: sheet.ErrAccessDenied}, http.StatusInternalServerError},
		{"config", &core.Error{Kind: core.KindConfig, Err: errors.New("x")}, http.StatusInternalServerError},
		{"unclassified", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
