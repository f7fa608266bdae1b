package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"engezna/internal/importer"
	"engezna/internal/logging"
	"engezna/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "engezna.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	coord := importer.NewCoordinator(st, importer.Options{Logger: logging.Nop()})
	h := NewHandler(coord, HandlerOptions{Version: "test", Logger: logging.Nop()})

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp Response
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func workbook(t *testing.T) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	rows := [][]any{
		{"المنتج", "السعر"},
		{"كشري", 35},
		{"فول", 15},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestGetStatus_NoImports(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, codeOK, resp.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "test", data["version"])
	assert.NotContains(t, data, "lastImportId")
}

func TestGetPatterns(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/patterns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]any)
	groups := data["variantGroups"].([]any)
	require.Len(t, groups, 4)
	assert.Equal(t, "sizes", groups[0].(map[string]any)["id"])
}

func TestDetect(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/import/detect", map[string]any{
		"sheetName": "بيتزا",
		"headers":   []string{"الصنف", "صغير", "وسط", "كبير"},
		"rows":      [][]any{{"مارجريتا", 80, 110, 140}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp.Data.(map[string]any)
	assert.Equal(t, "variants", data["pricingType"])
	assert.Equal(t, "sizes", data["variantGroupId"])
}

func TestDetect_MissingHeaders(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/import/detect", map[string]any{"sheetName": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, codeBadRequest, resp.Code)
}

func TestExtract(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/import/extract", map[string]any{
		"sheets": []map[string]any{{
			"name":    "مشروبات",
			"headers": []string{"المنتج", "السعر"},
			"rows":    [][]any{{"شاي", 10}, {"قهوة", "25 جنيه"}},
		}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp.Data.(map[string]any)
	combined := data["combined"].(map[string]any)
	assert.EqualValues(t, 2, combined["totalProducts"])
}

func TestExtract_ReviewWorkbook(t *testing.T) {
	r := newTestRouter(t)

	body, err := json.Marshal(map[string]any{
		"sheets": []map[string]any{{
			"name":    "مشروبات",
			"headers": []string{"المنتج", "السعر"},
			"rows":    [][]any{{"شاي", 10}},
		}},
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/import/extract?format=xlsx", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "catalog-review.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Products")
}

func TestExtract_InvalidOverride(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/import/extract", map[string]any{
		"sheets": []map[string]any{{
			"name":    "s",
			"headers": []string{"المنتج", "السعر"},
			"rows":    [][]any{{"شاي", 10}},
		}},
		"overrides": map[string]any{
			"s": map[string]any{"columns": map[string]string{"0": "product"}, "pricingType": "bogus"},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, codeBadMapping, resp.Code)
}

func TestExtract_NoUsableSheets(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/import/extract", map[string]any{
		"sheets": []map[string]any{{"name": "empty", "headers": []string{"المنتج"}, "rows": [][]any{}}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, codeNoSheets, resp.Code)
}

func TestPreview(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/api/import/preview", "menu.xlsx", workbook(t), nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	sheets := resp.Data.(map[string]any)["sheets"].([]any)
	require.Len(t, sheets, 1)
	assert.EqualValues(t, 2, sheets[0].(map[string]any)["totalRows"])
}

func TestPreview_RejectsExtension(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/api/import/preview", "menu.csv", []byte("a,b"), nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport_StreamsAndRecords(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/api/import", "menu.xlsx", workbook(t), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	var last importer.ProgressEvent
	for _, chunk := range strings.Split(strings.TrimSpace(w.Body.String()), "\n\n") {
		require.True(t, strings.HasPrefix(chunk, "data: "), chunk)
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(chunk, "data: ")), &last))
	}
	require.Equal(t, "done", last.Type, last.Message)
	runID := last.Data.(map[string]any)["runId"].(string)

	w2, resp := doJSON(t, r, http.MethodGet, "/api/imports/"+runID, nil)
	require.Equal(t, http.StatusOK, w2.Code)
	run := resp.Data.(map[string]any)
	assert.Equal(t, "completed", run["status"])
	assert.EqualValues(t, 2, run["totalProducts"])

	w3, resp := doJSON(t, r, http.MethodGet, "/api/imports", nil)
	require.Equal(t, http.StatusOK, w3.Code)
	assert.Len(t, resp.Data.([]any), 1)
}

func TestImport_InvalidOverridesField(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/api/import", "menu.xlsx", workbook(t), map[string]string{"overrides": "{"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImport_NotFound(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/imports/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, codeNotFound, resp.Code)
}

func TestListImports_BadLimit(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/imports?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
