// Package bootstrap builds the repositories, services and HTTP handlers
// shared by the server binary, the migrate tool and the integration tests.
package bootstrap

import (
	"context"

	assetapp "github.com/derbent/backend/internal/application/asset"
	collabapp "github.com/derbent/backend/internal/application/collaboration"
	financeapp "github.com/derbent/backend/internal/application/finance"
	governanceapp "github.com/derbent/backend/internal/application/governance"
	identityapp "github.com/derbent/backend/internal/application/identity"
	kanbanapp "github.com/derbent/backend/internal/application/kanban"
	planningapp "github.com/derbent/backend/internal/application/planning"
	projectapp "github.com/derbent/backend/internal/application/project"
	"github.com/derbent/backend/internal/application/seed"
	settingsapp "github.com/derbent/backend/internal/application/settings"
	validationapp "github.com/derbent/backend/internal/application/validation"
	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/infrastructure/auth"
	"github.com/derbent/backend/internal/infrastructure/config"
	"github.com/derbent/backend/internal/infrastructure/event"
	"github.com/derbent/backend/internal/infrastructure/persistence"
	"github.com/derbent/backend/internal/infrastructure/report"
	"github.com/derbent/backend/internal/infrastructure/storage"
	"github.com/derbent/backend/internal/interfaces/http/handler"
	"github.com/derbent/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// Container holds every service built at startup
type Container struct {
	JWT         *auth.JWTService
	ProjectRepo *persistence.GormProjectRepository

	Auth      *identityapp.AuthService
	Users     *identityapp.UserService
	Companies *identityapp.CompanyService
	Layout    *identityapp.LayoutService

	Statuses  *workflowapp.StatusService
	Workflows *workflowapp.WorkflowService

	Projects   *projectapp.ProjectService
	Activities *planningapp.ActivityService
	Meetings   *planningapp.MeetingService
	Sprints    *planningapp.SprintService
	Timeline   *planningapp.TimelineService
	Velocity   *planningapp.VelocityHandler

	Risks     *governanceapp.RiskService
	Decisions *governanceapp.DecisionService

	Invoices  *financeapp.InvoiceService
	Orders    *financeapp.OrderService
	Ledger    *financeapp.LedgerService
	Summaries *financeapp.SummaryService

	Assets      *assetapp.AssetService
	Lines       *kanbanapp.LineService
	Boards      *kanbanapp.BoardService
	Cases       *validationapp.CaseService
	Suites      *validationapp.SuiteService
	Sessions    *validationapp.SessionService
	Comments    *collabapp.CommentService
	Attachments *collabapp.AttachmentService
	Settings    *settingsapp.SettingsService

	Closers []func() error
}

// Close releases resources such as the PDF browser
func (c *Container) Close() {
	for i := len(c.Closers) - 1; i >= 0; i-- {
		_ = c.Closers[i]()
	}
}

// Build creates repositories and services on top of the shared infrastructure
func Build(
	ctx context.Context,
	cfg *config.Config,
	db *persistence.Database,
	blacklist auth.TokenBlacklist,
	bus *event.InMemoryEventBus,
	log *zap.Logger,
) (*Container, error) {
	c := &Container{JWT: auth.NewJWTService(cfg.JWT)}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	statusRepo := persistence.NewGormStatusRepository(db.DB)
	workflowRepo := persistence.NewGormWorkflowRepository(db.DB)
	c.ProjectRepo = persistence.NewGormProjectRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	meetingRepo := persistence.NewGormMeetingRepository(db.DB)
	sprintRepo := persistence.NewGormSprintRepository(db.DB)
	riskRepo := persistence.NewGormRiskRepository(db.DB)
	decisionRepo := persistence.NewGormDecisionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	lineRepo := persistence.NewGormKanbanLineRepository(db.DB)
	placementRepo := persistence.NewGormPlacementRepository(db.DB)
	caseRepo := persistence.NewGormValidationCaseRepository(db.DB)
	suiteRepo := persistence.NewGormValidationSuiteRepository(db.DB)
	sessionRepo := persistence.NewGormValidationSessionRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)

	// Identity
	c.Auth = identityapp.NewAuthService(userRepo, companyRepo, c.JWT, blacklist, bus, log)
	c.Users = identityapp.NewUserService(userRepo, blacklist, cfg.JWT.RefreshTokenExpiration, bus, log)
	c.Companies = identityapp.NewCompanyService(companyRepo, bus, log)
	c.Layout = identityapp.NewLayoutService(userRepo, settingsRepo)

	// Workflow
	c.Statuses = workflowapp.NewStatusService(statusRepo, workflowRepo)
	c.Workflows = workflowapp.NewWorkflowService(workflowRepo, statusRepo, log)
	guard := workflowapp.NewStatusGuard(workflowRepo, statusRepo)

	// Projects and planning
	c.Projects = projectapp.NewProjectService(c.ProjectRepo, memberRepo, userRepo, bus, log)
	c.Activities = planningapp.NewActivityService(activityRepo, c.Projects, guard, bus, log)
	c.Meetings = planningapp.NewMeetingService(meetingRepo, activityRepo, c.Projects, guard, bus, log)
	c.Sprints = planningapp.NewSprintService(sprintRepo, activityRepo, meetingRepo, c.Projects, guard, bus, log)
	c.Timeline = planningapp.NewTimelineService(c.ProjectRepo, activityRepo, meetingRepo, guard)
	c.Velocity = planningapp.NewVelocityHandler(c.Sprints, log)

	// Governance
	c.Risks = governanceapp.NewRiskService(riskRepo, c.Projects, guard, bus, log)
	c.Decisions = governanceapp.NewDecisionService(decisionRepo, c.Projects, guard, bus, log)

	// Finance; the PDF renderer is optional
	var renderer financeapp.SummaryRenderer
	if cfg.Report.PDFEnabled {
		chrome := report.NewChromedpRenderer(cfg.Report, log)
		c.Closers = append(c.Closers, chrome.Close)
		renderer = report.NewSummaryPDF(chrome, cfg.Report.Locale)
	}
	c.Invoices = financeapp.NewInvoiceService(invoiceRepo, c.Projects, settingsRepo, bus, log)
	c.Orders = financeapp.NewOrderService(orderRepo, c.Projects, settingsRepo, bus, log)
	c.Ledger = financeapp.NewLedgerService(ledgerRepo, c.Projects)
	c.Summaries = financeapp.NewSummaryService(c.ProjectRepo, invoiceRepo, ledgerRepo, renderer)

	c.Assets = assetapp.NewAssetService(assetRepo, c.Projects, bus, log)

	// Kanban
	c.Lines = kanbanapp.NewLineService(lineRepo, statusRepo)
	c.Boards = kanbanapp.NewBoardService(kanbanapp.BoardDeps{
		Lines:      lineRepo,
		Placements: placementRepo,
		Settings:   settingsRepo,
		Activities: activityRepo,
		Meetings:   meetingRepo,
		Sprints:    sprintRepo,
		Guard:      guard,
		ActivityMv: c.Activities,
		MeetingMv:  c.Meetings,
	}, log)

	// Validation
	c.Cases = validationapp.NewCaseService(caseRepo, c.Projects)
	c.Suites = validationapp.NewSuiteService(suiteRepo, caseRepo, c.Projects)
	c.Sessions = validationapp.NewSessionService(sessionRepo, suiteRepo, caseRepo, c.Projects, bus, log)

	// Collaboration; attachments go to S3 when storage is enabled
	var objects collabapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			return nil, err
		}
		objects = s3
	} else {
		log.Warn("Object storage disabled, attachment URLs are stubs")
		objects = storage.NewStubObjectStorage("")
	}
	targets := persistence.NewGormTargetResolver(db.DB)
	c.Comments = collabapp.NewCommentService(commentRepo, targets, bus, log)
	c.Attachments = collabapp.NewAttachmentService(attachmentRepo, targets, objects, settingsRepo, bus, log, cfg.Storage.PresignExpiration)

	c.Settings = settingsapp.NewSettingsService(settingsRepo, lineRepo)

	return c, nil
}

// Handlers builds the HTTP handlers over the services
func (c *Container) Handlers(system *handler.SystemHandler) *router.Handlers {
	return &router.Handlers{
		Auth:          handler.NewAuthHandler(c.Auth),
		User:          handler.NewUserHandler(c.Users),
		Company:       handler.NewCompanyHandler(c.Companies),
		Layout:        handler.NewLayoutHandler(c.Layout),
		Workflow:      handler.NewWorkflowHandler(c.Statuses, c.Workflows),
		Project:       handler.NewProjectHandler(c.Projects),
		Activity:      handler.NewActivityHandler(c.Activities, c.Layout),
		Meeting:       handler.NewMeetingHandler(c.Meetings, c.Layout),
		Sprint:        handler.NewSprintHandler(c.Sprints),
		Timeline:      handler.NewTimelineHandler(c.Timeline, c.Layout),
		Risk:          handler.NewRiskHandler(c.Risks),
		Decision:      handler.NewDecisionHandler(c.Decisions),
		Invoice:       handler.NewInvoiceHandler(c.Invoices),
		Order:         handler.NewOrderHandler(c.Orders),
		Ledger:        handler.NewLedgerHandler(c.Ledger),
		Summary:       handler.NewSummaryHandler(c.Summaries),
		Asset:         handler.NewAssetHandler(c.Assets),
		KanbanLine:    handler.NewKanbanLineHandler(c.Lines),
		Board:         handler.NewBoardHandler(c.Boards, c.Layout),
		Case:          handler.NewCaseHandler(c.Cases),
		Suite:         handler.NewSuiteHandler(c.Suites),
		Session:       handler.NewSessionHandler(c.Sessions),
		Collaboration: handler.NewCollaborationHandler(c.Comments, c.Attachments),
		Settings:      handler.NewSettingsHandler(c.Settings),
		System:        system,
	}
}

// Seeder builds a sample data loader over the services
func (c *Container) Seeder(adminPassword string, log *zap.Logger) *seed.Seeder {
	return seed.NewSeeder(seed.Services{
		Companies:  c.Companies,
		Users:      c.Users,
		Statuses:   c.Statuses,
		Workflows:  c.Workflows,
		Projects:   c.Projects,
		Activities: c.Activities,
		Meetings:   c.Meetings,
		Sprints:    c.Sprints,
		Risks:      c.Risks,
		Invoices:   c.Invoices,
		Lines:      c.Lines,
		Settings:   c.Settings,
	}, adminPassword, log)
}
