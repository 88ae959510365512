package models

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuditLog(t *testing.T) {
	userID := uuid.New()
	actor := RequestActor{UserID: &userID, IPAddress: "10.0.0.1", UserAgent: "curl/8.0"}
	metadata := map[string]interface{}{"old_status": "pending", "new_status": "paid"}

	log := NewAuditLog(actor, AuditActionStatusChange, AuditResourceTransaction, "tx-1", metadata)

	assert.Equal(t, &userID, log.UserID)
	assert.Equal(t, AuditActionStatusChange, log.Action)
	assert.Equal(t, AuditResourceTransaction, log.Resource)
	assert.Equal(t, "tx-1", log.ResourceID)
	assert.Equal(t, "10.0.0.1", log.IPAddress)
	assert.Equal(t, "curl/8.0", log.UserAgent)
	assert.Equal(t, AuditMetadata{"old_status": "pending", "new_status": "paid"}, log.Metadata)

	metadata["new_status"] = "partial"
	assert.Equal(t, "paid", log.Metadata["new_status"], "metadata must be copied")
}

func TestNewAuditLog_NoMetadata(t *testing.T) {
	log := NewAuditLog(RequestActor{}, AuditActionDelete, AuditResourceProvider, "prov-1", nil)

	assert.Nil(t, log.UserID)
	assert.Nil(t, log.Metadata)
}

func TestAuditMetadata_Value(t *testing.T) {
	value, err := AuditMetadata{"rows": 3}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"rows":3}`, value.(string))

	for _, empty := range []AuditMetadata{nil, {}} {
		value, err := empty.Value()
		assert.NoError(t, err)
		assert.Nil(t, value)
	}
}

func TestAuditMetadata_Scan(t *testing.T) {
	testCases := []struct {
		name    string
		input   interface{}
		want    AuditMetadata
		wantErr bool
	}{
		{"bytes", []byte(`{"name":"Renta"}`), AuditMetadata{"name": "Renta"}, false},
		{"text", `{"rows":2}`, AuditMetadata{"rows": float64(2)}, false},
		{"null", nil, nil, false},
		{"empty text", "", nil, false},
		{"unsupported type", 42, nil, true},
		{"invalid json", "{", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var m AuditMetadata
			err := m.Scan(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, m)
		})
	}
}

func TestAuditLog_JSONOmitsEmptyMetadata(t *testing.T) {
	raw, err := json.Marshal(NewAuditLog(RequestActor{}, AuditActionCreate, AuditResourceConcept, "c-1", nil))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "metadata")
	assert.NotContains(t, string(raw), "user_id")
}

func TestAuditLog_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("audit", slog.Any("audit_log", NewAuditLog(RequestActor{IPAddress: "192.168.1.1"},
		AuditActionCreate, AuditResourceConcept, "concept-123", nil)))

	out := buf.String()
	assert.Contains(t, out, "audit_log.actor=anonymous")
	assert.Contains(t, out, "audit_log.action=create")
	assert.Contains(t, out, "audit_log.resource_id=concept-123")
	assert.Contains(t, out, "audit_log.ip=192.168.1.1")
}
