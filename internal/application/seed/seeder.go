// Package seed loads the embedded sample company through the application
// services, so seeded data passes the same checks as user input.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	financeapp "github.com/derbent/backend/internal/application/finance"
	governanceapp "github.com/derbent/backend/internal/application/governance"
	identityapp "github.com/derbent/backend/internal/application/identity"
	kanbanapp "github.com/derbent/backend/internal/application/kanban"
	planningapp "github.com/derbent/backend/internal/application/planning"
	projectapp "github.com/derbent/backend/internal/application/project"
	settingsapp "github.com/derbent/backend/internal/application/settings"
	workflowapp "github.com/derbent/backend/internal/application/workflow"
	"github.com/derbent/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CompanyCreator interface {
	Create(ctx context.Context, req identityapp.CreateCompanyRequest) (*identityapp.CompanyResponse, error)
}

type UserCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req identityapp.CreateUserRequest) (*identityapp.UserResponse, error)
}

type StatusCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req workflowapp.StatusRequest) (*workflowapp.StatusResponse, error)
}

type WorkflowBuilder interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req workflowapp.CreateWorkflowRequest) (*workflowapp.WorkflowResponse, error)
	AddTransition(ctx context.Context, tenantID, id uuid.UUID, req workflowapp.TransitionRequest) (*workflowapp.WorkflowResponse, error)
}

type ProjectCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req projectapp.CreateProjectRequest) (*projectapp.ProjectResponse, error)
}

type ActivityCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req planningapp.CreateActivityRequest) (*planningapp.ActivityResponse, error)
}

type MeetingCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req planningapp.CreateMeetingRequest) (*planningapp.MeetingResponse, error)
}

type SprintBuilder interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req planningapp.CreateSprintRequest) (*planningapp.SprintResponse, error)
	AddItem(ctx context.Context, tenantID, sprintID uuid.UUID, req planningapp.AddSprintItemRequest) (*planningapp.SprintResponse, error)
}

type RiskCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req governanceapp.CreateRiskRequest) (*governanceapp.RiskResponse, error)
}

type InvoiceCreator interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req financeapp.CreateInvoiceRequest) (*financeapp.InvoiceResponse, error)
}

type LineBuilder interface {
	Create(ctx context.Context, tenantID, createdBy uuid.UUID, req kanbanapp.LineRequest) (*kanbanapp.LineResponse, error)
	AddColumn(ctx context.Context, tenantID, lineID uuid.UUID, req kanbanapp.ColumnRequest) (*kanbanapp.LineResponse, error)
}

type CompanySettingsUpdater interface {
	UpdateCompany(ctx context.Context, tenantID uuid.UUID, req settingsapp.UpdateCompanySettingsRequest) (*settingsapp.CompanySettingsResponse, error)
}

// Services are the application services the seeder writes through
type Services struct {
	Companies  CompanyCreator
	Users      UserCreator
	Statuses   StatusCreator
	Workflows  WorkflowBuilder
	Projects   ProjectCreator
	Activities ActivityCreator
	Meetings   MeetingCreator
	Sprints    SprintBuilder
	Risks      RiskCreator
	Invoices   InvoiceCreator
	Lines      LineBuilder
	Settings   CompanySettingsUpdater
}

// Result reports what a seed run did
type Result struct {
	CompanyID uuid.UUID
	Skipped   bool
}

// Seeder loads a fixture into an empty company
type Seeder struct {
	services      Services
	adminPassword string
	logger        *zap.Logger
	now           func() time.Time
}

// NewSeeder creates a seeder. adminPassword is used for fixture users that
// carry no password of their own.
func NewSeeder(services Services, adminPassword string, logger *zap.Logger) *Seeder {
	return &Seeder{
		services:      services,
		adminPassword: adminPassword,
		logger:        logger,
		now:           time.Now,
	}
}

// run carries the ids created so far, keyed by fixture key
type run struct {
	tenantID   uuid.UUID
	adminID    uuid.UUID
	projectID  uuid.UUID
	today      time.Time
	users      map[string]uuid.UUID
	statuses   map[string]uuid.UUID
	activities map[string]uuid.UUID
	meetings   map[string]uuid.UUID
}

// Run seeds f. A company with the fixture's code already present makes the
// run a no-op.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (*Result, error) {
	company, err := s.services.Companies.Create(ctx, identityapp.CreateCompanyRequest{
		Code:         f.Company.Code,
		Name:         f.Company.Name,
		ContactEmail: f.Company.ContactEmail,
	})
	if errors.Is(err, shared.ErrAlreadyExists) {
		s.logger.Info("Seed skipped, company already exists", zap.String("code", f.Company.Code))
		return &Result{Skipped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed company: %w", err)
	}

	now := s.now()
	r := &run{
		tenantID:   company.ID,
		today:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		users:      make(map[string]uuid.UUID),
		statuses:   make(map[string]uuid.UUID),
		activities: make(map[string]uuid.UUID),
		meetings:   make(map[string]uuid.UUID),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *run, *Fixture) error
	}{
		{"users", s.seedUsers},
		{"statuses", s.seedStatuses},
		{"workflows", s.seedWorkflows},
		{"project", s.seedProject},
		{"activities", s.seedActivities},
		{"meetings", s.seedMeetings},
		{"sprint", s.seedSprint},
		{"risks", s.seedRisks},
		{"invoices", s.seedInvoices},
		{"kanban", s.seedKanban},
	}
	for _, step := range steps {
		if err := step.fn(ctx, r, f); err != nil {
			return nil, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	s.logger.Info("Sample data seeded",
		zap.String("company_id", r.tenantID.String()),
		zap.String("code", f.Company.Code),
		zap.Int("users", len(r.users)),
		zap.Int("activities", len(r.activities)),
	)
	return &Result{CompanyID: r.tenantID}, nil
}

func (s *Seeder) seedUsers(ctx context.Context, r *run, f *Fixture) error {
	for _, u := range f.Users {
		password := u.Password
		if password == "" {
			password = s.adminPassword
		}
		resp, err := s.services.Users.Create(ctx, r.tenantID, r.adminID, identityapp.CreateUserRequest{
			Username:    u.Username,
			Password:    password,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Role:        u.Role,
		})
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Username, err)
		}
		r.users[u.Key] = resp.ID
		if r.adminID == uuid.Nil && u.Role == "admin" {
			r.adminID = resp.ID
		}
	}
	return nil
}

func (s *Seeder) seedStatuses(ctx context.Context, r *run, f *Fixture) error {
	for _, st := range f.Statuses {
		resp, err := s.services.Statuses.Create(ctx, r.tenantID, r.adminID, workflowapp.StatusRequest{
			Name:      st.Name,
			Color:     st.Color,
			SortOrder: st.SortOrder,
			IsInitial: st.Initial,
			IsFinal:   st.Final,
		})
		if err != nil {
			return fmt.Errorf("status %s: %w", st.Name, err)
		}
		r.statuses[st.Key] = resp.ID
	}
	return nil
}

func (s *Seeder) seedWorkflows(ctx context.Context, r *run, f *Fixture) error {
	for _, wf := range f.Workflows {
		initial, err := ref(r.statuses, "status", wf.Initial)
		if err != nil {
			return err
		}
		resp, err := s.services.Workflows.Create(ctx, r.tenantID, r.adminID, workflowapp.CreateWorkflowRequest{
			Name:            wf.Name,
			EntityType:      wf.EntityType,
			InitialStatusID: initial,
			IsDefault:       true,
		})
		if err != nil {
			return fmt.Errorf("workflow %s: %w", wf.Name, err)
		}
		for _, t := range wf.Transitions {
			from, err := ref(r.statuses, "status", t.From)
			if err != nil {
				return err
			}
			to, err := ref(r.statuses, "status", t.To)
			if err != nil {
				return err
			}
			_, err = s.services.Workflows.AddTransition(ctx, r.tenantID, resp.ID, workflowapp.TransitionRequest{
				FromStatusID: from,
				ToStatusID:   to,
				Roles:        t.Roles,
			})
			if err != nil {
				return fmt.Errorf("workflow %s transition %s->%s: %w", wf.Name, t.From, t.To, err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedProject(ctx context.Context, r *run, f *Fixture) error {
	p := f.Project
	start := r.day(p.StartInDays)
	end := start.AddDate(0, 0, p.DurationDays)
	budget, err := parseDecimal(p.Budget)
	if err != nil {
		return err
	}
	resp, err := s.services.Projects.Create(ctx, r.tenantID, r.adminID, projectapp.CreateProjectRequest{
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		StartDate:   &start,
		EndDate:     &end,
		Budget:      budget,
	})
	if err != nil {
		return err
	}
	r.projectID = resp.ID
	return nil
}

// seedActivities creates parents before children; a fixture must list a
// parent before the activities that reference it.
func (s *Seeder) seedActivities(ctx context.Context, r *run, f *Fixture) error {
	for _, a := range f.Activities {
		start, due := r.day(a.StartInDays), r.day(a.DueInDays)
		fields := planningapp.ActivityFields{
			Name:        a.Name,
			Priority:    a.Priority,
			StartDate:   &start,
			DueDate:     &due,
			StoryPoints: a.StoryPoints,
		}
		if a.Parent != "" {
			parent, err := ref(r.activities, "activity", a.Parent)
			if err != nil {
				return err
			}
			fields.ParentID = &parent
		}
		if a.Assignee != "" {
			user, err := ref(r.users, "user", a.Assignee)
			if err != nil {
				return err
			}
			fields.AssignedToID = &user
		}
		hours, err := parseDecimal(a.EstimatedHours)
		if err != nil {
			return err
		}
		fields.EstimatedHours = hours

		resp, err := s.services.Activities.Create(ctx, r.tenantID, r.adminID, planningapp.CreateActivityRequest{
			ProjectID:      r.projectID,
			ActivityFields: fields,
		})
		if err != nil {
			return fmt.Errorf("activity %s: %w", a.Name, err)
		}
		r.activities[a.Key] = resp.ID
	}
	return nil
}

func (s *Seeder) seedMeetings(ctx context.Context, r *run, f *Fixture) error {
	for _, m := range f.Meetings {
		start := r.day(m.StartInDays).Add(time.Duration(m.Hour) * time.Hour)
		end := start.Add(time.Duration(m.DurationMinutes) * time.Minute)
		fields := planningapp.MeetingFields{
			Name:     m.Name,
			StartAt:  &start,
			EndAt:    &end,
			Location: m.Location,
			Agenda:   m.Agenda,
		}
		for _, key := range m.Attendees {
			user, err := ref(r.users, "user", key)
			if err != nil {
				return err
			}
			fields.AttendeeIDs = append(fields.AttendeeIDs, user)
		}
		if m.RelatedActivity != "" {
			activity, err := ref(r.activities, "activity", m.RelatedActivity)
			if err != nil {
				return err
			}
			fields.RelatedActivityID = &activity
		}
		resp, err := s.services.Meetings.Create(ctx, r.tenantID, r.adminID, planningapp.CreateMeetingRequest{
			ProjectID:     r.projectID,
			MeetingFields: fields,
		})
		if err != nil {
			return fmt.Errorf("meeting %s: %w", m.Name, err)
		}
		r.meetings[m.Key] = resp.ID
	}
	return nil
}

func (s *Seeder) seedSprint(ctx context.Context, r *run, f *Fixture) error {
	sp := f.Sprint
	if sp.Name == "" {
		return nil
	}
	start := r.day(sp.StartInDays)
	resp, err := s.services.Sprints.Create(ctx, r.tenantID, r.adminID, planningapp.CreateSprintRequest{
		ProjectID: r.projectID,
		SprintFields: planningapp.SprintFields{
			Name:      sp.Name,
			Goal:      sp.Goal,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, sp.LengthDays),
		},
	})
	if err != nil {
		return err
	}
	for _, item := range sp.Items {
		refs := r.activities
		if item.Type == "meeting" {
			refs = r.meetings
		}
		id, err := ref(refs, item.Type, item.Ref)
		if err != nil {
			return err
		}
		_, err = s.services.Sprints.AddItem(ctx, r.tenantID, resp.ID, planningapp.AddSprintItemRequest{
			ItemType:    item.Type,
			ItemID:      id,
			StoryPoints: item.StoryPoints,
		})
		if err != nil {
			return fmt.Errorf("sprint item %s: %w", item.Ref, err)
		}
	}
	return nil
}

func (s *Seeder) seedRisks(ctx context.Context, r *run, f *Fixture) error {
	identified := r.today
	for _, rk := range f.Risks {
		_, err := s.services.Risks.Create(ctx, r.tenantID, r.adminID, governanceapp.CreateRiskRequest{
			ProjectID: r.projectID,
			RiskFields: governanceapp.RiskFields{
				Name:           rk.Name,
				Severity:       rk.Severity,
				Probability:    rk.Probability,
				Impact:         rk.Impact,
				Mitigation:     rk.Mitigation,
				Contingency:    rk.Contingency,
				IdentifiedDate: &identified,
			},
		})
		if err != nil {
			return fmt.Errorf("risk %s: %w", rk.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedInvoices(ctx context.Context, r *run, f *Fixture) error {
	for _, inv := range f.Invoices {
		taxRate, err := parseDecimal(inv.TaxRate)
		if err != nil {
			return err
		}
		req := financeapp.CreateInvoiceRequest{
			ProjectID:     r.projectID,
			Number:        inv.Number,
			CustomerName:  inv.CustomerName,
			CustomerEmail: inv.CustomerEmail,
			InvoiceDate:   r.day(inv.InvoiceInDays),
		}
		if taxRate != nil {
			req.TaxRate = *taxRate
		}
		due := r.day(inv.DueInDays)
		req.DueDate = &due
		for _, item := range inv.Items {
			qty, err := decimal.NewFromString(item.Quantity)
			if err != nil {
				return fmt.Errorf("invoice %s quantity: %w", inv.Number, err)
			}
			price, err := decimal.NewFromString(item.UnitPrice)
			if err != nil {
				return fmt.Errorf("invoice %s unit price: %w", inv.Number, err)
			}
			req.Items = append(req.Items, financeapp.InvoiceItemRequest{
				Description: item.Description,
				Quantity:    qty,
				UnitPrice:   price,
			})
		}
		if _, err := s.services.Invoices.Create(ctx, r.tenantID, r.adminID, req); err != nil {
			return fmt.Errorf("invoice %s: %w", inv.Number, err)
		}
	}
	return nil
}

// seedKanban creates the lines and stores the default one in the company
// settings together with the fixture's currency and week start
func (s *Seeder) seedKanban(ctx context.Context, r *run, f *Fixture) error {
	var defaultLine *uuid.UUID
	for _, l := range f.KanbanLines {
		line, err := s.services.Lines.Create(ctx, r.tenantID, r.adminID, kanbanapp.LineRequest{
			Name:        l.Name,
			Description: l.Description,
		})
		if err != nil {
			return fmt.Errorf("kanban line %s: %w", l.Name, err)
		}
		for _, c := range l.Columns {
			statusIDs := make([]uuid.UUID, 0, len(c.Statuses))
			for _, key := range c.Statuses {
				id, err := ref(r.statuses, "status", key)
				if err != nil {
					return err
				}
				statusIDs = append(statusIDs, id)
			}
			_, err := s.services.Lines.AddColumn(ctx, r.tenantID, line.ID, kanbanapp.ColumnRequest{
				Name:      c.Name,
				Color:     c.Color,
				StatusIDs: statusIDs,
				IsDefault: c.Default,
				WIPLimit:  c.WIPLimit,
			})
			if err != nil {
				return fmt.Errorf("kanban column %s: %w", c.Name, err)
			}
		}
		if l.Default && defaultLine == nil {
			id := line.ID
			defaultLine = &id
		}
	}

	currency := f.Company.Currency
	if currency == "" {
		currency = "EUR"
	}
	_, err := s.services.Settings.UpdateCompany(ctx, r.tenantID, settingsapp.UpdateCompanySettingsRequest{
		Currency:            currency,
		WeekStartDay:        f.Company.WeekStartDay,
		DefaultKanbanLineID: defaultLine,
	})
	return err
}

func (r *run) day(offset int) time.Time {
	return r.today.AddDate(0, 0, offset)
}

func ref(ids map[string]uuid.UUID, kind, key string) (uuid.UUID, error) {
	id, ok := ids[key]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown %s %q", kind, key)
	}
	return id, nil
}

func parseDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return &d, nil
}
