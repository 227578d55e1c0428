package service

import (
	"context"
	"testing"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/highrangestar/quotation-api/internal/repository"
	"github.com/highrangestar/quotation-api/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database and a
// temp-dir file store
type testEnv struct {
	db           *gorm.DB
	threadRepo   *repository.ThreadRepository
	archivedRepo *repository.ArchivedReferenceRepository
	documentRepo *repository.DocumentRepository

	refIDs     *RefIDService
	threads    *ThreadService
	quotations *QuotationService
	documents  *DocumentService
	vessels    *VesselService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Thread{},
		&domain.Quotation{},
		&domain.Document{},
		&domain.Vessel{},
		&domain.ArchivedReference{},
	))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	log := zap.NewNop()
	threadRepo := repository.NewThreadRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	vesselRepo := repository.NewVesselRepository(db)
	archivedRepo := repository.NewArchivedReferenceRepository(db)

	refIDs := NewRefIDService(threadRepo, archivedRepo, log)

	return &testEnv{
		db:           db,
		threadRepo:   threadRepo,
		archivedRepo: archivedRepo,
		documentRepo: documentRepo,
		refIDs:       refIDs,
		threads:      NewThreadService(db, threadRepo, quotationRepo, documentRepo, vesselRepo, refIDs, store, log),
		quotations:   NewQuotationService(db, threadRepo, quotationRepo, vesselRepo, log),
		documents:    NewDocumentService(threadRepo, documentRepo, store, log),
		vessels:      NewVesselService(vesselRepo, log),
	}
}

func testContentInput() *domain.QuotationContentInput {
	return &domain.QuotationContentInput{
		Date:      "2025-06-01",
		PartyName: "Gulf Marine Services",
		Subject:   "Hydraulic pump overhaul",
		Items: []domain.LineItemInput{
			{Description: "Overhaul main pump", Quantity: 2, Unit: "pcs", UnitPrice: 100},
			{Description: "Replacement seals", Quantity: 1, Unit: "set", UnitPrice: 350.50},
		},
		PaymentTerms: "30 days from invoice date",
	}
}

// createTestThread opens a thread with the fixture content and returns it
func createTestThread(t *testing.T, env *testEnv) *domain.ThreadDTO {
	t.Helper()
	thread, err := env.threads.Create(context.Background(), &domain.CreateThreadRequest{
		Content: testContentInput(),
	})
	require.NoError(t, err)
	return thread
}
