package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"warehouse-coverage-service/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadSpeeds(t *testing.T) {
	repo := &stubRepo{}
	h := &UploadHandler{Repo: repo}

	csv := "region_code,warehouse_id,time_hours\nmsk,wh-1,18\nspb,wh-1,\n"
	body, contentType := multipartBody(t, "speeds.csv", []byte(csv), map[string]string{"uploaded_by": "irina"})
	req := httptest.NewRequest(http.MethodPost, "/uploads/speeds", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Speeds(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res dto.UploadResponse
	decodeJSON(t, rr, &res)
	assert.NotEmpty(t, res.UploadID)
	assert.Equal(t, 2, res.Records)

	require.Len(t, repo.upserted, 1)
	require.Len(t, repo.upserted[0], 2)
	assert.Equal(t, "msk", repo.upserted[0][0].RegionCode)
	assert.False(t, repo.upserted[0][1].Time.Reachable())

	require.Len(t, repo.uploads, 1)
	journal := repo.uploads[0]
	assert.Equal(t, res.UploadID, journal.ID)
	assert.Equal(t, "speeds", journal.Kind)
	assert.Equal(t, "speeds.csv", journal.Filename)
	assert.Equal(t, "irina", journal.UploadedBy)
	assert.WithinDuration(t, time.Now().UTC(), journal.UploadedAt, time.Minute)
}

func TestUploadSpeedsValidationError(t *testing.T) {
	repo := &stubRepo{}
	h := &UploadHandler{Repo: repo}

	csv := "region_code,warehouse_id,time_hours\nmsk,wh-1,-4\n"
	body, contentType := multipartBody(t, "speeds.csv", []byte(csv), nil)
	req := httptest.NewRequest(http.MethodPost, "/uploads/speeds", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Speeds(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var res map[string]string
	decodeJSON(t, rr, &res)
	assert.Contains(t, res["error"], "row 2")

	// Nothing was stored and nothing was journaled.
	assert.Empty(t, repo.upserted)
	assert.Empty(t, repo.uploads)
}

func TestUploadSpeedsMissingFile(t *testing.T) {
	h := &UploadHandler{Repo: &stubRepo{}}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("uploaded_by", "irina"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads/speeds", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	h.Speeds(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadSpeedsMethodNotAllowed(t *testing.T) {
	h := &UploadHandler{Repo: &stubRepo{}}

	rr := httptest.NewRecorder()
	h.Speeds(rr, httptest.NewRequest(http.MethodGet, "/uploads/speeds", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
}

func TestUploadSales(t *testing.T) {
	repo := &stubRepo{}
	h := &UploadHandler{Repo: repo}

	csv := "region_code,orders\nmsk,1200\nspb,0\n"
	body, contentType := multipartBody(t, "sales.csv", []byte(csv), nil)
	req := httptest.NewRequest(http.MethodPost, "/uploads/sales", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Sales(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res dto.UploadResponse
	decodeJSON(t, rr, &res)
	assert.Equal(t, 2, res.Records)

	require.Len(t, repo.replaced, 1)
	require.Len(t, repo.replaced[0], 2)
	assert.Equal(t, 1200.0, repo.replaced[0][0].Orders)

	require.Len(t, repo.uploads, 1)
	assert.Equal(t, "sales", repo.uploads[0].Kind)
	assert.Equal(t, "", repo.uploads[0].UploadedBy)
}

func TestAnalyzeFinanceReport(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]string{
		{"Отчёт за период с 01.03.2026 по 31.03.2026"},
		{"Продажи", "200000"},
		{"Штрафы", "1000"},
		{"Итого к оплате", "90000"},
	}
	for i, row := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, start, &row))
	}
	var workbook bytes.Buffer
	require.NoError(t, wb.Write(&workbook))

	body, contentType := multipartBody(t, "report.xlsx", workbook.Bytes(), nil)
	req := httptest.NewRequest(http.MethodPost, "/reports/finance", body)
	req.Header.Set("Content-Type", contentType)

	h := &FinanceHandler{}
	rr := httptest.NewRecorder()
	h.Analyze(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res dto.FinanceReportResponse
	decodeJSON(t, rr, &res)

	require.NotNil(t, res.PeriodStart)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *res.PeriodStart)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *res.PeriodEnd)
	assert.InDelta(t, 200000, res.Metrics["sales"], 1e-9)
	assert.InDelta(t, 90000, res.Metrics["net_profit"], 1e-9)
	assert.Equal(t, []string{"No critical deviations found."}, res.Notes)
}

func TestAnalyzeFinanceReportRejectsGarbage(t *testing.T) {
	body, contentType := multipartBody(t, "report.xlsx", []byte("not a workbook"), nil)
	req := httptest.NewRequest(http.MethodPost, "/reports/finance", body)
	req.Header.Set("Content-Type", contentType)

	h := &FinanceHandler{}
	rr := httptest.NewRecorder()
	h.Analyze(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var res map[string]string
	decodeJSON(t, rr, &res)
	assert.Contains(t, res["error"], "workbook")
}

func TestUploadRejectsNonMultipart(t *testing.T) {
	h := &UploadHandler{Repo: &stubRepo{}}

	req := httptest.NewRequest(http.MethodPost, "/uploads/speeds", strings.NewReader("plain body"))
	req.Header.Set("Content-Type", "text/plain")

	rr := httptest.NewRecorder()
	h.Speeds(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
