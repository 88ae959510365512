package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/services"
	"finance-admin/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

const importCSV = "date,type,amount,concept,provider,status,description\n" +
	"2026-03-01,expense,1500.00,Renta,Inmobiliaria Sur,paid,Renta de marzo\n"

type ImportHandlerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockImportServiceInterface
	handler *ImportHandler
	e       *echo.Echo
}

func TestImportHandlerSuite(t *testing.T) {
	suite.Run(t, new(ImportHandlerTestSuite))
}

func (s *ImportHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockImportServiceInterface(s.ctrl)
	s.handler = NewImportHandler(s.service, 1024)
	s.e = newTestEcho()
}

func (s *ImportHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ImportHandlerTestSuite) csvContext(target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-test")
	return c, rec
}

// expectContent asserts the service receives the uploaded bytes unchanged
func (s *ImportHandlerTestSuite) expectContent(dryRun bool, want string, result *dto.ImportResult) {
	s.service.EXPECT().ImportCSV(gomock.Any(), gomock.Any(), dryRun, gomock.Any()).DoAndReturn(
		func(_ context.Context, r io.Reader, _ bool, _ models.RequestActor) (*dto.ImportResult, error) {
			content, err := io.ReadAll(r)
			s.Require().NoError(err)
			s.Equal(want, string(content))
			return result, nil
		})
}

func (s *ImportHandlerTestSuite) TestImport_RawBody() {
	s.expectContent(false, importCSV, &dto.ImportResult{TotalRows: 1, ValidRows: 1, ImportedRows: 1})

	c, rec := s.csvContext("/api/transactions/import", importCSV)

	s.Require().NoError(s.handler.ImportTransactions(c))
	s.Equal(http.StatusCreated, rec.Code)

	var resp struct {
		Data dto.ImportResult `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(1, resp.Data.ImportedRows)
}

func (s *ImportHandlerTestSuite) TestImport_DryRun() {
	s.expectContent(true, importCSV, &dto.ImportResult{DryRun: true, TotalRows: 1, ValidRows: 1})

	c, rec := s.csvContext("/api/transactions/import?dry_run=true", importCSV)

	s.Require().NoError(s.handler.ImportTransactions(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "File is valid")
}

func (s *ImportHandlerTestSuite) TestImport_Multipart() {
	s.expectContent(false, importCSV, &dto.ImportResult{TotalRows: 1, ValidRows: 1, ImportedRows: 1})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "movimientos.csv")
	s.Require().NoError(err)
	_, err = part.Write([]byte(importCSV))
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/import", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	s.Require().NoError(s.handler.ImportTransactions(c))
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *ImportHandlerTestSuite) TestImport_RowErrors() {
	result := &dto.ImportResult{
		TotalRows: 2,
		ValidRows: 1,
		Errors:    []dto.ImportRowError{{Row: 3, Errors: []string{"amount: \"abc\" is not a number"}}},
	}
	s.service.EXPECT().ImportCSV(gomock.Any(), gomock.Any(), false, gomock.Any()).Return(result, nil)

	c, rec := s.csvContext("/api/transactions/import", importCSV)

	s.Require().NoError(s.handler.ImportTransactions(c))
	s.Equal(http.StatusUnprocessableEntity, rec.Code)

	var resp ImportRejectedResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().NotNil(resp.ErrorResponse)
	s.Equal("IMPORT_002", resp.Error.Code)
	s.Equal([]string{"1 of 2 rows are invalid"}, resp.Error.Details)
	s.Require().NotNil(resp.Result)
	s.Equal(3, resp.Result.Errors[0].Row)
}

func (s *ImportHandlerTestSuite) TestImport_ServiceErrors() {
	testCases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"empty file", services.ErrImportEmptyFile, "IMPORT_003"},
		{"missing column", services.ErrImportInvalidFile, "IMPORT_001"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.service.EXPECT().ImportCSV(gomock.Any(), gomock.Any(), false, gomock.Any()).Return(nil, tc.err)

			c, rec := s.csvContext("/api/transactions/import", "date\n")

			s.Require().NoError(s.handler.ImportTransactions(c))
			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal(tc.wantCode, decodeError(rec).Error.Code)
		})
	}
}

func (s *ImportHandlerTestSuite) TestImport_TooLarge() {
	c, rec := s.csvContext("/api/transactions/import", strings.Repeat(importCSV, 50))

	s.Require().NoError(s.handler.ImportTransactions(c))
	s.Equal(http.StatusBadRequest, rec.Code)

	resp := decodeError(rec)
	s.Equal("IMPORT_001", resp.Error.Code)
	s.Equal([]string{"file exceeds 1024 bytes"}, resp.Error.Details)
}

func (s *ImportHandlerTestSuite) TestImport_InvalidDryRun() {
	c, rec := s.csvContext("/api/transactions/import?dry_run=maybe", importCSV)

	s.Require().NoError(s.handler.ImportTransactions(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_003", decodeError(rec).Error.Code)
}
