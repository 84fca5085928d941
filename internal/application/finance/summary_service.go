package finance

import (
	"context"
	"time"

	"github.com/derbent/backend/internal/domain/finance"
	"github.com/derbent/backend/internal/domain/project"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SummaryRenderer prints a financial summary to PDF
type SummaryRenderer interface {
	RenderSummary(ctx context.Context, s *finance.Summary) ([]byte, error)
}

// SummaryService computes project financial summaries
type SummaryService struct {
	projectRepo project.ProjectRepository
	invoiceRepo finance.InvoiceRepository
	ledgerRepo  finance.LedgerRepository
	renderer    SummaryRenderer
	now         func() time.Time
}

// NewSummaryService creates a new summary service. The renderer may be nil,
// in which case PDF export is unavailable.
func NewSummaryService(
	projectRepo project.ProjectRepository,
	invoiceRepo finance.InvoiceRepository,
	ledgerRepo finance.LedgerRepository,
	renderer SummaryRenderer,
) *SummaryService {
	return &SummaryService{
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		ledgerRepo:  ledgerRepo,
		renderer:    renderer,
		now:         time.Now,
	}
}

// GetSummary computes the summary of a project over the inclusive period.
// The period defaults to the first of the current month through today.
func (s *SummaryService) GetSummary(ctx context.Context, tenantID uuid.UUID, q SummaryQuery) (*finance.Summary, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if q.From != nil {
		from = *q.From
	}
	if q.To != nil {
		to = *q.To
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Period end cannot be before its start")
	}

	p, err := s.projectRepo.FindByIDForTenant(ctx, tenantID, q.ProjectID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoiceRepo.FindByProject(ctx, tenantID, p.ID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindByProjectBetween(ctx, tenantID, p.ID, from, to)
	if err != nil {
		return nil, err
	}

	return finance.CalculateSummary(finance.SummaryInput{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		From:        from,
		To:          to,
		Now:         now,
		Invoices:    invoices,
		Entries:     entries,
	}), nil
}

// TextReport renders the summary as fixed-width text
func (s *SummaryService) TextReport(ctx context.Context, tenantID uuid.UUID, q SummaryQuery) (string, error) {
	summary, err := s.GetSummary(ctx, tenantID, q)
	if err != nil {
		return "", err
	}
	return summary.TextReport(), nil
}

// PDFReport renders the summary as an A4 PDF
func (s *SummaryService) PDFReport(ctx context.Context, tenantID uuid.UUID, q SummaryQuery) ([]byte, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("PDF_UNAVAILABLE", "PDF export is not configured")
	}
	summary, err := s.GetSummary(ctx, tenantID, q)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderSummary(ctx, summary)
}

// MonthlySnapshot returns the text report of the calendar month containing day
func (s *SummaryService) MonthlySnapshot(ctx context.Context, tenantID, projectID uuid.UUID, day time.Time) (string, error) {
	from := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 1, -1)
	return s.TextReport(ctx, tenantID, SummaryQuery{ProjectID: projectID, From: &from, To: &to})
}
