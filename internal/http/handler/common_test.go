package handler

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"thread not found", service.ErrThreadNotFound, 404, domain.ErrorTypeNotFound},
		{"quotation not found", service.ErrQuotationNotFound, 404, domain.ErrorTypeNotFound},
		{"document not found", service.ErrDocumentNotFound, 404, domain.ErrorTypeNotFound},
		{"vessel not found", service.ErrVesselNotFound, 404, domain.ErrorTypeNotFound},
		{"ref id in use", service.ErrRefIDInUse, 409, domain.ErrorTypeConflict},
		{"invalid file type", service.ErrInvalidFileType, 400, domain.ErrorTypeBadRequest},
		{"invalid serial format", service.ErrInvalidSerialFormat, 400, domain.ErrorTypeBadRequest},
		{"store unavailable", service.ErrStoreUnavailable, 503, domain.ErrorTypeUnavailable},
		{"unexpected", errors.New("boom"), 500, domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body domain.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body.Type)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestHandleServiceErrorPrecondition(t *testing.T) {
	rec := httptest.NewRecorder()
	err := service.NewPreconditionError("final_quotation_required", "a quotation must be marked final first")
	handleServiceError(rec, zap.NewNop(), err)

	assert.Equal(t, 409, rec.Code)
	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrorTypeConflict, body.Type)
	assert.Equal(t, "a quotation must be marked final first", body.Detail)
	assert.Equal(t, "final_quotation_required", body.Errors["guard"])
}
