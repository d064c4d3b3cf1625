package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cetaksoal/adapters/excel"
	"cetaksoal/adapters/memory"
	"cetaksoal/domain/exam"
	"cetaksoal/internal"
	"cetaksoal/internal/importer"
	"cetaksoal/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	logger := internal.NewLogger(internal.LogLevelError)
	svc := importer.NewService(excel.DefaultExcelConfig(), nil, memory.NewImportLedger(10), logger)
	return New(Config{
		MaxUploadBytes: 1 << 20,
		Header:         exam.DefaultHeaderInfo(),
		Settings:       exam.DefaultSettings(),
	}, svc, renderer, logger)
}

func postJSON(t *testing.T, a *API, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, a *API, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestImportAndList(t *testing.T) {
	a := newTestAPI(t)

	rec := upload(t, a, "bank.csv", []byte("No,Soal,A\n1,Tanya,Jawab\n2,Lagi,Ya\n"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		ImportID  string          `json:"importId"`
		Count     int             `json:"count"`
		Questions []exam.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ImportID)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "Jawab", result.Questions[0].A)

	list := httptest.NewRecorder()
	a.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/imports?limit=5", nil))
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Imports []exam.ImportEvent `json:"imports"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	require.Len(t, body.Imports, 1)
	assert.Equal(t, result.ImportID, body.Imports[0].ID.String())
	assert.Equal(t, exam.ImportSucceeded, body.Imports[0].Status)
}

func TestImportFailureIsOpaque(t *testing.T) {
	a := newTestAPI(t)

	rec := upload(t, a, "rusak.xlsx", []byte("not a workbook"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"IMPORT_FAILED","message":"Gagal membaca file Excel."}}`, rec.Body.String())
}

func TestImportRequiresFile(t *testing.T) {
	a := newTestAPI(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestImportsRejectsBadLimit(t *testing.T) {
	a := newTestAPI(t)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMap(t *testing.T) {
	a := newTestAPI(t)

	rec := postJSON(t, a, "/api/map", `{"records":[
		{"No": 3, "Butir Pertanyaan": "Siapa?", "Soal": "diabaikan", "Opsi A": "Saya", "E": null},
		{"Tipe": "Benar/Salah", "A": true}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Questions []json.RawMessage `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Questions, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Questions[0], &first))
	require.NoError(t, json.Unmarshal(body.Questions[1], &second))

	assert.Equal(t, float64(3), first["no"])
	assert.Equal(t, "Siapa?", first["soal"])
	assert.Equal(t, "Saya", first["a"])
	assert.NotContains(t, first, "e")

	assert.Nil(t, second["no"], "missing number is NaN, written as null")
	assert.Equal(t, "true", second["a"])
}

func TestMapRejectsNestedValues(t *testing.T) {
	a := newTestAPI(t)
	rec := postJSON(t, a, "/api/map", `{"records":[{"Soal":{"x":1}}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormat(t *testing.T) {
	a := newTestAPI(t)
	rec := postJSON(t, a, "/api/format", `{"text":"**a** *b*\nc"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"html":"<strong>a</strong> <em>b</em><br>c"}`, rec.Body.String())
}

func TestLayout(t *testing.T) {
	a := newTestAPI(t)
	rec := postJSON(t, a, "/api/layout", `{"question":{"tipe":"Benar/Salah","a":"p1","c":"p3"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var l struct {
		Mode    string   `json:"mode"`
		Headers []string `json:"headers"`
		Rows    []struct {
			Label string `json:"label"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &l))
	assert.Equal(t, "statement_table", l.Mode)
	assert.Equal(t, []string{"No", "Pernyataan", "B", "S"}, l.Headers)
	require.Len(t, l.Rows, 2)
	assert.Equal(t, "3", l.Rows[1].Label)
}

func TestRender(t *testing.T) {
	a := newTestAPI(t)
	rec := postJSON(t, a, "/api/render", `{
		"questions":[{"no":1,"tipe":"PG","soal":"**Tanya**","a":"x","kunci":"A"}],
		"header":{"schoolName":"SMA Negeri 1"},
		"settings":{"columns":3,"showExplanation":true}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, html, "SMA Negeri 1")
	assert.Contains(t, html, "MATA PELAJARAN", "unset header fields keep defaults")
	assert.Contains(t, html, "<strong>Tanya</strong>")
	assert.Contains(t, html, "column-count: 3")
	assert.Contains(t, html, "Kunci: A")
}

func TestRenderInvalidJSON(t *testing.T) {
	a := newTestAPI(t)
	rec := postJSON(t, a, "/api/render", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportHonoursCancelledContext(t *testing.T) {
	a := newTestAPI(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "bank.csv")
	require.NoError(t, err)
	fw.Write([]byte("No\n1\n"))
	require.NoError(t, mw.Close())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/import", &body).WithContext(ctx)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
