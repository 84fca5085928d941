package router

import (
	"github.com/derbent/backend/internal/domain/identity"
	"github.com/derbent/backend/internal/interfaces/http/handler"
	"github.com/derbent/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers served under the versioned API
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Company       *handler.CompanyHandler
	Layout        *handler.LayoutHandler
	Workflow      *handler.WorkflowHandler
	Project       *handler.ProjectHandler
	Activity      *handler.ActivityHandler
	Meeting       *handler.MeetingHandler
	Sprint        *handler.SprintHandler
	Timeline      *handler.TimelineHandler
	Risk          *handler.RiskHandler
	Decision      *handler.DecisionHandler
	Invoice       *handler.InvoiceHandler
	Order         *handler.OrderHandler
	Ledger        *handler.LedgerHandler
	Summary       *handler.SummaryHandler
	Asset         *handler.AssetHandler
	KanbanLine    *handler.KanbanLineHandler
	Board         *handler.BoardHandler
	Case          *handler.CaseHandler
	Suite         *handler.SuiteHandler
	Session       *handler.SessionHandler
	Collaboration *handler.CollaborationHandler
	Settings      *handler.SettingsHandler
	System        *handler.SystemHandler
}

// Guards are the extra checks some routes run after authentication
type Guards struct {
	// LoginLimit throttles the unauthenticated auth endpoints; nil disables it
	LoginLimit gin.HandlerFunc
	// Manage admits admins and managers, Admin only admins
	Manage gin.HandlerFunc
	Admin  gin.HandlerFunc
}

// DefaultGuards builds the role guards from the caller's JWT role
func DefaultGuards(loginLimit gin.HandlerFunc) Guards {
	return Guards{
		LoginLimit: loginLimit,
		Manage:     middleware.RequireRole(identity.Role.CanManage),
		Admin:      middleware.RequireRole(func(r identity.Role) bool { return r == identity.RoleAdmin }),
	}
}

// MountProbes registers the health probes outside API versioning
func MountProbes(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health", system.Ready)
	engine.GET("/health/live", system.Live)
	engine.GET("/health/ready", system.Ready)
}

// Mount registers every Derbent route group on r
func Mount(r *Router, h *Handlers, g Guards) {
	r.RegisterPublic(publicAuthRoutes(h, g))
	for _, group := range Groups(h, g) {
		r.Register(group)
	}
}

func publicAuthRoutes(h *Handlers, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth-public", "/auth")
	if g.LoginLimit != nil {
		auth.Use(g.LoginLimit)
	}
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	return auth
}

// Groups builds the authenticated route groups
func Groups(h *Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		identityRoutes(h, g),
		workflowRoutes(h, g),
		projectRoutes(h),
		planningRoutes(h),
		governanceRoutes(h),
		financeRoutes(h),
		assetRoutes(h),
		kanbanRoutes(h),
		validationRoutes(h),
		collaborationRoutes(h),
		settingsRoutes(h, g),
		systemRoutes(h, g),
	}
}

func identityRoutes(h *Handlers, g Guards) *DomainGroup {
	root := NewDomainGroup("identity", "")

	auth := root.Group("auth", "/auth")
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.GetCurrentUser)
	auth.PUT("/password", h.Auth.ChangePassword)

	me := root.Group("layout", "/me/layout")
	me.GET("", h.Layout.Get)
	me.PUT("", h.Layout.Set)
	me.POST("/toggle", h.Layout.Toggle)

	users := root.Group("users", "/users")
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.POST("", g.Manage, h.User.Create)
	users.PUT("/:id", g.Manage, h.User.Update)
	users.DELETE("/:id", g.Manage, h.User.Delete)

	company := root.Group("company", "/company")
	company.GET("", h.Company.GetCurrent)
	company.PUT("", g.Manage, h.Company.UpdateCurrent)

	companies := root.Group("companies", "/companies").Use(g.Admin)
	companies.GET("", h.Company.List)
	companies.POST("", h.Company.Create)
	companies.PUT("/:id/active", h.Company.SetActive)

	return root
}

func workflowRoutes(h *Handlers, g Guards) *DomainGroup {
	root := NewDomainGroup("workflow", "")

	statuses := root.Group("statuses", "/statuses")
	statuses.GET("", h.Workflow.ListStatuses)
	statuses.GET("/:id", h.Workflow.GetStatus)
	statuses.POST("", g.Manage, h.Workflow.CreateStatus)
	statuses.PUT("/:id", g.Manage, h.Workflow.UpdateStatus)
	statuses.DELETE("/:id", g.Manage, h.Workflow.DeleteStatus)

	workflows := root.Group("workflows", "/workflows")
	workflows.GET("", h.Workflow.List)
	workflows.GET("/:id", h.Workflow.Get)
	workflows.POST("", g.Manage, h.Workflow.Create)
	workflows.PUT("/:id", g.Manage, h.Workflow.Update)
	workflows.DELETE("/:id", g.Manage, h.Workflow.Delete)
	workflows.POST("/:id/transitions", g.Manage, h.Workflow.AddTransition)
	workflows.DELETE("/:id/transitions/:transitionId", g.Manage, h.Workflow.RemoveTransition)

	return root
}

func projectRoutes(h *Handlers) *DomainGroup {
	projects := NewDomainGroup("project", "/projects")
	projects.GET("", h.Project.List)
	projects.POST("", h.Project.Create)
	projects.GET("/:id", h.Project.Get)
	projects.PUT("/:id", h.Project.Update)
	projects.DELETE("/:id", h.Project.Delete)
	projects.POST("/:id/archive", h.Project.Archive)
	projects.POST("/:id/activate", h.Project.Activate)
	projects.GET("/:id/members", h.Project.ListMembers)
	projects.POST("/:id/members", h.Project.AddMember)
	projects.DELETE("/:id/members/:userId", h.Project.RemoveMember)
	projects.GET("/:id/timeline", h.Timeline.Get)
	return projects
}

func planningRoutes(h *Handlers) *DomainGroup {
	root := NewDomainGroup("planning", "")

	activities := root.Group("activities", "/activities")
	activities.GET("", h.Activity.List)
	activities.POST("", h.Activity.Create)
	activities.GET("/:id", h.Activity.Get)
	activities.PUT("/:id", h.Activity.Update)
	activities.DELETE("/:id", h.Activity.Delete)
	activities.PUT("/:id/status", h.Activity.ChangeStatus)
	activities.GET("/:id/next-statuses", h.Activity.NextStatuses)

	meetings := root.Group("meetings", "/meetings")
	meetings.GET("", h.Meeting.List)
	meetings.POST("", h.Meeting.Create)
	meetings.GET("/:id", h.Meeting.Get)
	meetings.PUT("/:id", h.Meeting.Update)
	meetings.DELETE("/:id", h.Meeting.Delete)
	meetings.PUT("/:id/status", h.Meeting.ChangeStatus)
	meetings.GET("/:id/next-statuses", h.Meeting.NextStatuses)

	sprints := root.Group("sprints", "/sprints")
	sprints.GET("", h.Sprint.List)
	sprints.POST("", h.Sprint.Create)
	sprints.GET("/:id", h.Sprint.Get)
	sprints.PUT("/:id", h.Sprint.Update)
	sprints.DELETE("/:id", h.Sprint.Delete)
	sprints.POST("/:id/items", h.Sprint.AddItem)
	sprints.DELETE("/:id/items/:itemId", h.Sprint.RemoveItem)

	return root
}

func governanceRoutes(h *Handlers) *DomainGroup {
	root := NewDomainGroup("governance", "")

	risks := root.Group("risks", "/risks")
	risks.GET("", h.Risk.List)
	risks.POST("", h.Risk.Create)
	risks.GET("/:id", h.Risk.Get)
	risks.PUT("/:id", h.Risk.Update)
	risks.DELETE("/:id", h.Risk.Delete)
	risks.PUT("/:id/status", h.Risk.ChangeStatus)
	risks.GET("/:id/next-statuses", h.Risk.NextStatuses)

	decisions := root.Group("decisions", "/decisions")
	decisions.GET("", h.Decision.List)
	decisions.POST("", h.Decision.Create)
	decisions.GET("/:id", h.Decision.Get)
	decisions.PUT("/:id", h.Decision.Update)
	decisions.DELETE("/:id", h.Decision.Delete)
	decisions.PUT("/:id/status", h.Decision.ChangeStatus)
	decisions.GET("/:id/next-statuses", h.Decision.NextStatuses)
	decisions.POST("/:id/approvals", h.Decision.RequestApproval)
	decisions.POST("/:id/approve", h.Decision.Approve)
	decisions.POST("/:id/reject", h.Decision.Reject)

	return root
}

func financeRoutes(h *Handlers) *DomainGroup {
	root := NewDomainGroup("finance", "")

	invoices := root.Group("invoices", "/invoices")
	invoices.GET("", h.Invoice.List)
	invoices.POST("", h.Invoice.Create)
	invoices.GET("/:id", h.Invoice.Get)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.DELETE("/:id", h.Invoice.Delete)
	invoices.POST("/:id/items", h.Invoice.AddItem)
	invoices.DELETE("/:id/items/:itemId", h.Invoice.RemoveItem)
	invoices.POST("/:id/payments", h.Invoice.RecordPayment)
	invoices.POST("/:id/cancel", h.Invoice.Cancel)

	orders := root.Group("orders", "/orders")
	orders.GET("", h.Order.List)
	orders.POST("", h.Order.Create)
	orders.GET("/:id", h.Order.Get)
	orders.PUT("/:id", h.Order.Update)
	orders.DELETE("/:id", h.Order.Delete)
	orders.POST("/:id/submit", h.Order.Submit)
	orders.POST("/:id/approve", h.Order.Approve)
	orders.POST("/:id/receive", h.Order.Receive)
	orders.POST("/:id/cancel", h.Order.Cancel)

	ledger := root.Group("ledger", "/ledger")
	ledger.GET("", h.Ledger.List)
	ledger.POST("", h.Ledger.Create)
	ledger.GET("/:id", h.Ledger.Get)
	ledger.PUT("/:id", h.Ledger.Update)
	ledger.DELETE("/:id", h.Ledger.Delete)

	summary := root.Group("summary", "/finance/summary")
	summary.GET("", h.Summary.Get)
	summary.GET("/report", h.Summary.TextReport)
	summary.GET("/report.pdf", h.Summary.PDFReport)

	return root
}

func assetRoutes(h *Handlers) *DomainGroup {
	assets := NewDomainGroup("asset", "/assets")
	assets.GET("", h.Asset.List)
	assets.POST("", h.Asset.Create)
	assets.GET("/:id", h.Asset.Get)
	assets.PUT("/:id", h.Asset.Update)
	assets.DELETE("/:id", h.Asset.Delete)
	assets.POST("/:id/assign", h.Asset.Assign)
	assets.POST("/:id/release", h.Asset.Release)
	assets.POST("/:id/maintenance", h.Asset.SendToMaintenance)
	assets.DELETE("/:id/maintenance", h.Asset.ReturnFromMaintenance)
	assets.POST("/:id/retire", h.Asset.Retire)
	return assets
}

func kanbanRoutes(h *Handlers) *DomainGroup {
	root := NewDomainGroup("kanban", "/kanban")

	lines := root.Group("lines", "/lines")
	lines.GET("", h.KanbanLine.List)
	lines.POST("", h.KanbanLine.Create)
	lines.GET("/:id", h.KanbanLine.Get)
	lines.PUT("/:id", h.KanbanLine.Update)
	lines.DELETE("/:id", h.KanbanLine.Delete)
	lines.POST("/:id/columns", h.KanbanLine.AddColumn)
	lines.PUT("/:id/columns/:columnId", h.KanbanLine.UpdateColumn)
	lines.DELETE("/:id/columns/:columnId", h.KanbanLine.RemoveColumn)
	lines.POST("/:id/columns/:columnId/move", h.KanbanLine.MoveColumn)

	board := root.Group("board", "/board")
	board.GET("", h.Board.Get)
	board.POST("/move", h.Board.MoveItem)

	return root
}

func validationRoutes(h *Handlers) *DomainGroup {
	root := NewDomainGroup("validation", "/validation")

	cases := root.Group("cases", "/cases")
	cases.GET("", h.Case.List)
	cases.POST("", h.Case.Create)
	cases.GET("/:id", h.Case.Get)
	cases.PUT("/:id", h.Case.Update)
	cases.DELETE("/:id", h.Case.Delete)
	cases.POST("/:id/steps", h.Case.AddStep)
	cases.PUT("/:id/steps/:stepId", h.Case.UpdateStep)
	cases.DELETE("/:id/steps/:stepId", h.Case.RemoveStep)

	suites := root.Group("suites", "/suites")
	suites.GET("", h.Suite.List)
	suites.POST("", h.Suite.Create)
	suites.GET("/:id", h.Suite.Get)
	suites.PUT("/:id", h.Suite.Update)
	suites.DELETE("/:id", h.Suite.Delete)
	suites.PUT("/:id/cases/:caseId", h.Suite.AddCase)
	suites.DELETE("/:id/cases/:caseId", h.Suite.RemoveCase)

	sessions := root.Group("sessions", "/sessions")
	sessions.GET("", h.Session.List)
	sessions.POST("", h.Session.Create)
	sessions.GET("/:id", h.Session.Get)
	sessions.PUT("/:id", h.Session.Update)
	sessions.DELETE("/:id", h.Session.Delete)
	sessions.POST("/:id/execute", h.Session.Execute)
	sessions.POST("/:id/complete", h.Session.Complete)
	sessions.PUT("/:id/cases/:caseId/result", h.Session.RecordCaseResult)
	sessions.PUT("/:id/cases/:caseId/steps/:stepId/result", h.Session.RecordStepResult)

	return root
}

func collaborationRoutes(h *Handlers) *DomainGroup {
	root := NewDomainGroup("collaboration", "")

	comments := root.Group("comments", "/comments")
	comments.GET("", h.Collaboration.ListComments)
	comments.POST("", h.Collaboration.CreateComment)
	comments.PUT("/:id", h.Collaboration.UpdateComment)
	comments.DELETE("/:id", h.Collaboration.DeleteComment)

	attachments := root.Group("attachments", "/attachments")
	attachments.GET("", h.Collaboration.ListAttachments)
	attachments.POST("", h.Collaboration.RequestUpload)
	attachments.POST("/:id/confirm", h.Collaboration.ConfirmUpload)
	attachments.GET("/:id/download", h.Collaboration.Download)
	attachments.DELETE("/:id", h.Collaboration.DeleteAttachment)

	return root
}

func settingsRoutes(h *Handlers, g Guards) *DomainGroup {
	settings := NewDomainGroup("settings", "/settings")
	settings.GET("/system", h.Settings.GetSystem)
	settings.PUT("/system", g.Admin, h.Settings.UpdateSystem)
	settings.GET("/company", h.Settings.GetCompany)
	settings.PUT("/company", g.Manage, h.Settings.UpdateCompany)
	return settings
}

func systemRoutes(h *Handlers, g Guards) *DomainGroup {
	root := NewDomainGroup("system", "")
	root.GET("/system/info", h.System.Info)
	root.GET("/meta/entities", h.System.Entities)

	admin := root.Group("admin", "/admin").Use(g.Manage)
	admin.GET("/housekeeping", h.System.HousekeepingStatus)
	admin.POST("/housekeeping/run", h.System.RunHousekeeping)

	return root
}
