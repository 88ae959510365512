package handlers

import (
	"net/http"
	"testing"

	"finance-admin/internal/dto"
	"finance-admin/internal/services"
	"finance-admin/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevHandler_SeedDemoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := service_mocks.NewMockDemoDataServiceInterface(ctrl)
	handler := NewDevHandler(service)

	service.EXPECT().Seed(gomock.Any(), services.DefaultDemoMonths, gomock.Any()).
		Return(&dto.DemoSeedResult{Months: services.DefaultDemoMonths, TransactionsCreated: 114}, nil)

	c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/dev/seed", "")

	require.NoError(t, handler.SeedDemoData(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transactionsCreated":114`)
}

func TestDevHandler_SeedDemoData_InvalidMonths(t *testing.T) {
	testCases := []struct {
		name       string
		target     string
		serviceErr error
		wantCode   string
	}{
		{"not a number", "/dev/seed?months=seis", nil, "VALIDATION_003"},
		{"out of range", "/dev/seed?months=48", services.ErrInvalidDemoMonths, "VALIDATION_004"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := service_mocks.NewMockDemoDataServiceInterface(ctrl)
			handler := NewDevHandler(service)

			if tc.serviceErr != nil {
				service.EXPECT().Seed(gomock.Any(), 48, gomock.Any()).Return(nil, tc.serviceErr)
			}

			c, rec := newJSONContext(newTestEcho(), http.MethodPost, tc.target, "")

			require.NoError(t, handler.SeedDemoData(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantCode, decodeError(rec).Error.Code)
		})
	}
}
