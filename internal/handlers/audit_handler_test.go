package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"finance-admin/internal/dto"
	"finance-admin/internal/models"
	"finance-admin/internal/services"
	"finance-admin/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuditHandlerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockAuditServiceInterface
	handler *AuditHandler
}

func TestAuditHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerTestSuite))
}

func (s *AuditHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockAuditServiceInterface(s.ctrl)
	s.handler = NewAuditHandler(s.service)
}

func (s *AuditHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuditHandlerTestSuite) TestListAuditLogs() {
	resourceID := uuid.NewString()
	logs := []*models.AuditLog{{
		ID:         uuid.New(),
		Action:     models.AuditActionStatusChange,
		Resource:   models.AuditResourceTransaction,
		ResourceID: resourceID,
		Metadata:   models.AuditMetadata{"old_status": "pending", "new_status": "paid"},
		CreatedAt:  time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC),
	}}

	s.service.EXPECT().ListAuditLogs(gomock.Any()).DoAndReturn(func(f models.AuditLogFilters) ([]*models.AuditLog, int64, error) {
		s.Equal(models.AuditResourceTransaction, f.Resource)
		s.Equal(models.AuditActionStatusChange, f.Action)
		s.Equal(50, f.Offset)
		s.Equal(50, f.Limit)
		s.Require().NotNil(f.StartDate)
		s.Nil(f.EndDate)
		return logs, int64(51), nil
	})

	c, rec := newJSONContext(newTestEcho(), http.MethodGet,
		"/api/audit-logs?resource=transaction&action=status_change&start_date=2026-03-01&page=2&limit=50", "")

	s.Require().NoError(s.handler.ListAuditLogs(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.AuditLogsListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(51), resp.Total)
	s.Equal(50, resp.Offset)
	s.Require().Len(resp.AuditLogs, 1)
	s.Equal(resourceID, resp.AuditLogs[0].ResourceID)
	s.Equal("paid", resp.AuditLogs[0].Metadata["new_status"])
}

func (s *AuditHandlerTestSuite) TestListAuditLogs_InvalidRange() {
	s.service.EXPECT().ListAuditLogs(gomock.Any()).Return(nil, int64(0), services.ErrAuditDateRange)

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/audit-logs?start_date=2026-04-01&end_date=2026-03-01", "")

	s.Require().NoError(s.handler.ListAuditLogs(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_007", decodeError(rec).Error.Code)
}

func (s *AuditHandlerTestSuite) TestListAuditLogs_MalformedDate() {
	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/audit-logs?end_date=ayer", "")

	s.Require().NoError(s.handler.ListAuditLogs(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_007", decodeError(rec).Error.Code)
}

func (s *AuditHandlerTestSuite) TestGetResourceHistory() {
	id := uuid.New()
	s.service.EXPECT().GetResourceHistory(models.AuditResourceConcept, id.String(), 0, services.DefaultPageLimit).
		Return([]*models.AuditLog{{ID: uuid.New(), Action: models.AuditActionCreate, Resource: models.AuditResourceConcept, ResourceID: id.String()}}, int64(1), nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/audit-logs/concept/"+id.String(), "",
		"resource", models.AuditResourceConcept, "id", id.String())

	s.Require().NoError(s.handler.GetResourceHistory(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"action":"create"`)
}

func (s *AuditHandlerTestSuite) TestGetResourceHistory_UnknownResource() {
	id := uuid.New()
	s.service.EXPECT().GetResourceHistory("account", id.String(), 0, services.DefaultPageLimit).
		Return(nil, int64(0), services.ErrInvalidAuditResource)

	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/audit-logs/account/"+id.String(), "",
		"resource", "account", "id", id.String())

	s.Require().NoError(s.handler.GetResourceHistory(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_001", decodeError(rec).Error.Code)
}

func (s *AuditHandlerTestSuite) TestGetResourceHistory_InvalidID() {
	c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/audit-logs/concept/42", "",
		"resource", models.AuditResourceConcept, "id", "42")

	s.Require().NoError(s.handler.GetResourceHistory(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_003", decodeError(rec).Error.Code)
}
