package seed

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/sample.yaml
var sampleYAML []byte

// Fixture is the sample data set
type Fixture struct {
	Company     CompanyFixture      `yaml:"company"`
	Users       []UserFixture       `yaml:"users"`
	Statuses    []StatusFixture     `yaml:"statuses"`
	Workflows   []WorkflowFixture   `yaml:"workflows"`
	Project     ProjectFixture      `yaml:"project"`
	Activities  []ActivityFixture   `yaml:"activities"`
	Meetings    []MeetingFixture    `yaml:"meetings"`
	Sprint      SprintFixture       `yaml:"sprint"`
	Risks       []RiskFixture       `yaml:"risks"`
	Invoices    []InvoiceFixture    `yaml:"invoices"`
	KanbanLines []KanbanLineFixture `yaml:"kanban_lines"`
}

type CompanyFixture struct {
	Code         string `yaml:"code"`
	Name         string `yaml:"name"`
	ContactEmail string `yaml:"contact_email"`
	Currency     string `yaml:"currency"`
	WeekStartDay int    `yaml:"week_start_day"`
}

// UserFixture without a password gets the configured admin password
type UserFixture struct {
	Key         string `yaml:"key"`
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Email       string `yaml:"email"`
	Role        string `yaml:"role"`
	Password    string `yaml:"password"`
}

type StatusFixture struct {
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	Color     string `yaml:"color"`
	SortOrder int    `yaml:"sort_order"`
	Initial   bool   `yaml:"initial"`
	Final     bool   `yaml:"final"`
}

type WorkflowFixture struct {
	Name        string              `yaml:"name"`
	EntityType  string              `yaml:"entity_type"`
	Initial     string              `yaml:"initial"`
	Transitions []TransitionFixture `yaml:"transitions"`
}

type TransitionFixture struct {
	From  string   `yaml:"from"`
	To    string   `yaml:"to"`
	Roles []string `yaml:"roles"`
}

type ProjectFixture struct {
	Name         string `yaml:"name"`
	Code         string `yaml:"code"`
	Description  string `yaml:"description"`
	StartInDays  int    `yaml:"start_in_days"`
	DurationDays int    `yaml:"duration_days"`
	Budget       string `yaml:"budget"`
}

type ActivityFixture struct {
	Key            string `yaml:"key"`
	Name           string `yaml:"name"`
	Parent         string `yaml:"parent"`
	Assignee       string `yaml:"assignee"`
	Priority       string `yaml:"priority"`
	StartInDays    int    `yaml:"start_in_days"`
	DueInDays      int    `yaml:"due_in_days"`
	StoryPoints    int    `yaml:"story_points"`
	EstimatedHours string `yaml:"estimated_hours"`
}

type MeetingFixture struct {
	Key             string   `yaml:"key"`
	Name            string   `yaml:"name"`
	StartInDays     int      `yaml:"start_in_days"`
	Hour            int      `yaml:"hour"`
	DurationMinutes int      `yaml:"duration_minutes"`
	Location        string   `yaml:"location"`
	Agenda          string   `yaml:"agenda"`
	Attendees       []string `yaml:"attendees"`
	RelatedActivity string   `yaml:"related_activity"`
}

type SprintFixture struct {
	Name        string              `yaml:"name"`
	Goal        string              `yaml:"goal"`
	StartInDays int                 `yaml:"start_in_days"`
	LengthDays  int                 `yaml:"length_days"`
	Items       []SprintItemFixture `yaml:"items"`
}

type SprintItemFixture struct {
	Type        string `yaml:"type"`
	Ref         string `yaml:"ref"`
	StoryPoints int    `yaml:"story_points"`
}

type RiskFixture struct {
	Name        string `yaml:"name"`
	Severity    string `yaml:"severity"`
	Probability int    `yaml:"probability"`
	Impact      int    `yaml:"impact"`
	Mitigation  string `yaml:"mitigation"`
	Contingency string `yaml:"contingency"`
}

type InvoiceFixture struct {
	Number        string               `yaml:"number"`
	CustomerName  string               `yaml:"customer_name"`
	CustomerEmail string               `yaml:"customer_email"`
	InvoiceInDays int                  `yaml:"invoice_in_days"`
	DueInDays     int                  `yaml:"due_in_days"`
	TaxRate       string               `yaml:"tax_rate"`
	Items         []InvoiceItemFixture `yaml:"items"`
}

type InvoiceItemFixture struct {
	Description string `yaml:"description"`
	Quantity    string `yaml:"quantity"`
	UnitPrice   string `yaml:"unit_price"`
}

type KanbanLineFixture struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Default     bool            `yaml:"default"`
	Columns     []ColumnFixture `yaml:"columns"`
}

type ColumnFixture struct {
	Name     string   `yaml:"name"`
	Color    string   `yaml:"color"`
	Statuses []string `yaml:"statuses"`
	Default  bool     `yaml:"default"`
	WIPLimit int      `yaml:"wip_limit"`
}

// LoadSample parses the embedded sample fixture
func LoadSample() (*Fixture, error) {
	return Parse(sampleYAML)
}

// Parse decodes a fixture, rejecting unknown fields
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}
	if f.Company.Code == "" {
		return nil, fmt.Errorf("seed fixture has no company code")
	}
	return &f, nil
}
