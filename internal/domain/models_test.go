package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The models carry no database-side uuid default, so they must migrate and
// get ids on sqlite as well as postgres.
func TestModelsMigrateOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&Thread{},
		&Quotation{},
		&Document{},
		&Vessel{},
		&ArchivedReference{},
	))

	thread := Thread{UserRefID: "HRS-QN-25001", Status: ThreadStatusQuotationCreated}
	require.NoError(t, db.Create(&thread).Error)
	assert.NotEqual(t, uuid.Nil, thread.ID)

	archived := ArchivedReference{RefID: "HRS-QN-24990", Source: "legacy"}
	require.NoError(t, db.Create(&archived).Error)
	assert.NotEqual(t, uuid.Nil, archived.ID)
	assert.False(t, archived.ImportedAt.IsZero())
}

func TestFormatSerialNo(t *testing.T) {
	tests := []struct {
		format string
		n      int
		want   string
	}{
		{"H##", 1, "H01"},
		{"H##", 12, "H12"},
		{"H##", 123, "H123"},
		{"S###", 7, "S007"},
		{"AL#", 3, "AL3"},
		{"", 4, "H04"},
		{"XX", 4, "XX"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSerialNo(tt.format, tt.n), "format %q n %d", tt.format, tt.n)
	}
}

func TestVesselSerialNo(t *testing.T) {
	v := Vessel{SerialFormat: "A##"}
	assert.Equal(t, "A05", v.SerialNo(5))
}

func TestQuotationContentScanRoundTrip(t *testing.T) {
	content := QuotationContent{
		SchemaVersion: ContentSchemaVersion,
		RefID:         "HRS-QN-25001",
		PartyName:     "Gulf Marine Services",
		Items: []LineItem{
			{SlNo: "H01", Description: "Overhaul", Quantity: 2, UnitPrice: 100, Amount: 200},
		},
		Total:        200,
		TotalInWords: "TWO HUNDRED QATAR RIYALS ONLY.",
	}

	value, err := content.Value()
	require.NoError(t, err)

	var fromBytes QuotationContent
	require.NoError(t, fromBytes.Scan(value))
	assert.Equal(t, content, fromBytes)

	var fromString QuotationContent
	require.NoError(t, fromString.Scan(string(value.([]byte))))
	assert.Equal(t, content, fromString)
}

func TestQuotationContentScanNil(t *testing.T) {
	var content QuotationContent
	require.NoError(t, content.Scan(nil))
	assert.Zero(t, content)
}

func TestThreadFinalQuotation(t *testing.T) {
	q1 := Quotation{Version: "Quotation"}
	q2 := Quotation{Version: "QuotationRevised1", IsFinal: true}
	thread := Thread{Quotations: []Quotation{q1, q2}}

	final := thread.FinalQuotation()
	require.NotNil(t, final)
	assert.Equal(t, "QuotationRevised1", final.Version)

	assert.Nil(t, (&Thread{Quotations: []Quotation{q1}}).FinalQuotation())
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ThreadStatusPurchaseOrderRecieved.IsValid())
	assert.False(t, ThreadStatus("PurchaseOrderReceived").IsValid(), "the historical spelling is canonical")
	assert.True(t, QuotationStatusPending.IsValid())
	assert.False(t, QuotationStatus("open").IsValid())
	assert.True(t, DocumentTypeSignedDeliveryNote.IsValid())
	assert.False(t, DocumentType("photo").IsValid())
}
