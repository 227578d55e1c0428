package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/highrangestar/quotation-api/internal/repository"
	"go.uber.org/zap"
)

const (
	// refIDPrefix is the house prefix for quotation reference numbers
	refIDPrefix = "HRS-QN"

	// refIDSeed is the base the numbering continues from when no references
	// exist yet. Pre-system quotations were numbered below 25000 in the
	// legacy accounting books.
	refIDSeed = 25000
)

// refIDPattern matches reference numbers like HRS-QN-25001 and
// HRS-QN-25001-ALS (trailing vessel code ignored), case-insensitively.
var refIDPattern = regexp.MustCompile(`(?i)^HRS-QN-(\d+)`)

// RefIDService generates quotation reference numbers and invoice numbers.
// NextRefID is a snapshot function: uniqueness is best effort and the
// unique index on threads.user_ref_id is the real guard.
type RefIDService struct {
	threadRepo   *repository.ThreadRepository
	archivedRepo *repository.ArchivedReferenceRepository
	logger       *zap.Logger
}

// NewRefIDService creates a new reference number service
func NewRefIDService(
	threadRepo *repository.ThreadRepository,
	archivedRepo *repository.ArchivedReferenceRepository,
	logger *zap.Logger,
) *RefIDService {
	return &RefIDService{
		threadRepo:   threadRepo,
		archivedRepo: archivedRepo,
		logger:       logger,
	}
}

// NextRefID scans live thread references and imported legacy references for
// the highest HRS-QN number and returns the next one.
func (s *RefIDService) NextRefID(ctx context.Context) (string, error) {
	refs, err := s.threadRepo.ListUserRefIDs(ctx)
	if err != nil {
		return "", storeErr("list thread references", err)
	}

	archived, err := s.archivedRepo.ListRefIDs(ctx)
	if err != nil {
		return "", storeErr("list archived references", err)
	}

	highest := refIDSeed
	for _, ref := range append(refs, archived...) {
		m := refIDPattern.FindStringSubmatch(ref)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	next := fmt.Sprintf("%s-%d", refIDPrefix, highest+1)
	s.logger.Debug("Generated next reference number",
		zap.String("refId", next),
		zap.Int("scanned", len(refs)+len(archived)))
	return next, nil
}

// NewInvoiceNumber generates an invoice number like INV-2025-48213.
// The 5-digit suffix is random; collisions are acceptable at current volume.
func (s *RefIDService) NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d-%05d", now.Year(), 10000+rand.Intn(90000))
}
