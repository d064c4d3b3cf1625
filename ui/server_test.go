package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cetaksoal/adapters/excel"
	"cetaksoal/adapters/memory"
	"cetaksoal/domain/exam"
	"cetaksoal/internal"
	"cetaksoal/internal/importer"
	"cetaksoal/internal/render"
	"cetaksoal/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*Server
	store *state.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := internal.NewLogger(internal.LogLevelError)
	renderer, err := render.NewRenderer()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	store := state.NewStore(exam.DefaultHeaderInfo(), exam.DefaultSettings())
	refresher := render.NewRefresher(ctx, renderer, store, logger)
	hub := NewEventHub(store, logger)
	t.Cleanup(func() {
		cancel()
		hub.Close()
		refresher.Wait()
	})

	svc := importer.NewService(excel.DefaultExcelConfig(), store, memory.NewImportLedger(10), logger)
	s, err := NewServer(Config{
		MaxUploadBytes: 1 << 20,
		AllowedTypes:   []string{".xlsx", ".csv"},
	}, store, renderer, refresher, svc, hub, logger)
	require.NoError(t, err)
	return &testServer{Server: s, store: store}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func uploadRequest(t *testing.T, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const bankCSV = "No,Tipe,Soal,A,B,Kunci\n1,Pilihan Ganda,**Ibu kota**?,Jakarta,Bandung,A\n"

func TestIndexEmptyState(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Silakan Impor File Excel")
	assert.Contains(t, body, `accept=".xlsx,.csv"`)
	assert.Contains(t, body, "window.cetakRenderMath")
	assert.Regexp(t, `id="print-button"\s+disabled`, body)
}

func TestImportRedirectsAndRenders(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(uploadRequest(t, "bank.csv", bankCSV))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.True(t, ts.store.Snapshot().HasQuestions())

	page := ts.get("/")
	assert.Contains(t, page.Body.String(), "<strong>Ibu kota</strong>?")
	assert.Contains(t, page.Body.String(), "bank.csv (1 soal)")
	assert.NotContains(t, page.Body.String(), "Silakan Impor File Excel")
}

func TestImportFailureShowsNotification(t *testing.T) {
	ts := newTestServer(t)
	ts.do(uploadRequest(t, "bank.csv", bankCSV))
	before := ts.store.Snapshot()

	rec := ts.do(uploadRequest(t, "rusak.xlsx", "bukan workbook"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?error=import", rec.Header().Get("Location"))
	assert.Equal(t, before.Generation, ts.store.Snapshot().Generation)

	page := ts.get("/?error=import")
	assert.Contains(t, page.Body.String(), "Gagal membaca file Excel.")
}

func TestImportJSONFailure(t *testing.T) {
	ts := newTestServer(t)
	req := uploadRequest(t, "rusak.xlsx", "bukan workbook")
	req.Header.Set("Accept", "application/json")

	rec := ts.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"IMPORT_FAILED","message":"Gagal membaca file Excel."}}`, rec.Body.String())
}

func TestSettingsJSONOverlay(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(`{"columns":3,"fontSize":12.3}`))
	req.Header.Set("Content-Type", "application/json")

	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	settings := ts.store.Snapshot().Settings
	assert.Equal(t, 3, settings.Columns)
	assert.Equal(t, 12.5, settings.FontSize)
	assert.True(t, settings.ShowKop, "fields left out keep their values")
	assert.Equal(t, exam.AlignJustify, settings.GlobalAlign)
	assert.Equal(t, "1", rec.Header().Get(generationHeader))
}

func TestSettingsForm(t *testing.T) {
	ts := newTestServer(t)
	form := url.Values{"showKop": {"false"}}
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := ts.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	settings := ts.store.Snapshot().Settings
	assert.False(t, settings.ShowKop)
	assert.Equal(t, 2, settings.Columns)
}

func TestSettingsFormNaNFontSize(t *testing.T) {
	ts := newTestServer(t)
	form := url.Values{"fontSize": {"NaN"}}
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := ts.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, exam.DefaultSettings().FontSize, ts.store.Snapshot().Settings.FontSize)

	page := ts.get("/fragment").Body.String()
	assert.NotContains(t, page, "e+18")
}

func TestNewServerRequiresEventHub(t *testing.T) {
	renderer, err := render.NewRenderer()
	require.NoError(t, err)
	store := state.NewStore(exam.DefaultHeaderInfo(), exam.DefaultSettings())
	svc := importer.NewService(excel.DefaultExcelConfig(), store, nil, nil)

	_, err = NewServer(Config{}, store, renderer, nil, svc, nil, nil)
	assert.Error(t, err)
}

func TestHeaderEdit(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/header", strings.NewReader(`{"schoolName":"SMA Negeri 1"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	header := ts.store.Snapshot().Header
	assert.Equal(t, "SMA Negeri 1", header.SchoolName)
	assert.Equal(t, "MATA PELAJARAN", header.Subject)
	assert.Contains(t, ts.get("/print").Body.String(), "SMA Negeri 1")
}

func TestPrintAndFragment(t *testing.T) {
	ts := newTestServer(t)
	ts.do(uploadRequest(t, "bank.csv", bankCSV))

	doc := ts.get("/print")
	require.Equal(t, http.StatusOK, doc.Code)
	assert.Contains(t, doc.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, doc.Body.String(), "Jakarta")
	assert.Equal(t, "1", doc.Header().Get(generationHeader))

	frag := ts.get("/fragment")
	require.Equal(t, http.StatusOK, frag.Code)
	assert.NotContains(t, frag.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, frag.Body.String(), "Jakarta")
}

func TestStateJSON(t *testing.T) {
	ts := newTestServer(t)
	ts.do(uploadRequest(t, "bank.csv", bankCSV))

	rec := ts.get("/api/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap struct {
		Generation uint64 `json:"generation"`
		SourceName string `json:"sourceName"`
		Questions  []struct {
			No   float64 `json:"no"`
			Soal string  `json:"soal"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Equal(t, "bank.csv", snap.SourceName)
	require.Len(t, snap.Questions, 1)
	assert.Equal(t, "**Ibu kota**?", snap.Questions[0].Soal)
}

func TestGuideAndAssets(t *testing.T) {
	ts := newTestServer(t)

	guide := ts.get("/panduan")
	require.Equal(t, http.StatusOK, guide.Code)
	assert.Contains(t, guide.Body.String(), "Panduan Cetak Soal")
	assert.Contains(t, guide.Body.String(), "<table>")

	css := ts.get("/document.css")
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Contains(t, css.Header().Get("Content-Type"), "text/css")
	assert.Contains(t, css.Body.String(), ".content-table")

	js := ts.get("/static/app.js")
	assert.Equal(t, http.StatusOK, js.Code)
	assert.Contains(t, js.Body.String(), "cetakRenderMath")
}
