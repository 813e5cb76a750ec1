package projects

import "time"

// Project lifecycle states.
const (
	StatusPlanning  = "planning"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusOnHold    = "on-hold"
	StatusCancelled = "cancelled"
)

// Priorities.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Form states.
const (
	FormDraft    = "draft"
	FormActive   = "active"
	FormArchived = "archived"
)

// Response states.
const (
	ResponseDraft     = "draft"
	ResponseSubmitted = "submitted"
	ResponseVerified  = "verified"
	ResponseRejected  = "rejected"
)

var projectStatuses = map[string]bool{
	StatusPlanning: true, StatusActive: true, StatusCompleted: true,
	StatusOnHold: true, StatusCancelled: true,
}

var projectPriorities = map[string]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityCritical: true,
}

var fundingTypes = map[string]bool{
	"grant": true, "loan": true, "donation": true, "government": true, "other": true,
}

var stakeholderTypes = map[string]bool{
	"beneficiary": true, "partner": true, "donor": true, "implementer": true, "government": true,
}

var objectiveTypes = map[string]bool{
	"impact": true, "outcome": true, "output": true,
}

var objectiveStatuses = map[string]bool{
	"not-started": true, "in-progress": true, "completed": true, "delayed": true,
}

var fieldTypes = map[string]bool{
	"text": true, "number": true, "email": true, "date": true, "textarea": true,
	"select": true, "multiselect": true, "checkbox": true, "radio": true,
	"file": true, "location": true,
}

var logFrameLevels = map[string]bool{
	"goal": true, "outcome": true, "output": true, "activity": true,
}

var activityTypes = map[string]bool{
	"training": true, "assessment": true, "distribution": true,
	"construction": true, "meeting": true, "research": true, "other": true,
}

var activityStatuses = map[string]bool{
	"planned": true, "in-progress": true, "completed": true,
	"cancelled": true, "delayed": true,
}

var milestoneStatuses = map[string]bool{
	"pending": true, "completed": true, "overdue": true,
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	Country     string       `json:"country"`
	Region      string       `json:"region,omitempty"`
	District    string       `json:"district,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type FundingSource struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

type Budget struct {
	Total          float64         `json:"total"`
	Spent          float64         `json:"spent"`
	Currency       string          `json:"currency"`
	FundingSources []FundingSource `json:"funding_sources"`
}

type Stakeholder struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Type         string `json:"type"`
}

type Project struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Sector       string        `json:"sector"`
	Location     Location      `json:"location"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	Status       string        `json:"status"`
	Priority     string        `json:"priority"`
	Budget       Budget        `json:"budget"`
	Stakeholders []Stakeholder `json:"stakeholders"`
	Tags         []string      `json:"tags"`
	CreatedBy    string        `json:"created_by"`
	UpdatedBy    string        `json:"updated_by,omitempty"`
	DeletedAt    *time.Time    `json:"deleted_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Event is one audit-trail entry on a project.
type Event struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	PerformedBy string    `json:"performed_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Participant struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
	Attended     bool   `json:"attended"`
}

type Milestone struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	DueDate       time.Time  `json:"due_date"`
	Status        string     `json:"status"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
}

type ActivityBudget struct {
	Allocated float64 `json:"allocated"`
	Spent     float64 `json:"spent"`
}

// Activity is one workplan entry: a scheduled piece of field work under a
// project, tracked against milestones and its own budget line.
type Activity struct {
	ID                string         `json:"id"`
	ProjectID         string         `json:"project_id"`
	ObjectiveID       string         `json:"objective_id,omitempty"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Type              string         `json:"type"`
	StartDate         time.Time      `json:"start_date"`
	EndDate           time.Time      `json:"end_date"`
	Status            string         `json:"status"`
	Progress          int            `json:"progress"`
	Location          string         `json:"location"`
	ResponsiblePerson string         `json:"responsible_person"`
	Participants      []Participant  `json:"participants"`
	Budget            ActivityBudget `json:"budget"`
	Outputs           []string       `json:"outputs"`
	Indicators        []string       `json:"indicators"`
	Forms             []string       `json:"forms"`
	Milestones        []Milestone    `json:"milestones"`
	Dependencies      []string       `json:"dependencies"`
	CreatedBy         string         `json:"created_by"`
	UpdatedBy         string         `json:"updated_by,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type Objective struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Measurement struct {
	ID          string    `json:"id"`
	Value       float64   `json:"value"`
	Date        time.Time `json:"date"`
	DataQuality string    `json:"data_quality"`
	CollectedBy string    `json:"collected_by"`
	Notes       string    `json:"notes,omitempty"`
}

type Indicator struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"project_id"`
	ObjectiveID  string        `json:"objective_id,omitempty"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Type         string        `json:"type"`
	Unit         string        `json:"unit"`
	Baseline     float64       `json:"baseline"`
	Target       float64       `json:"target"`
	Measurements []Measurement `json:"measurements"`
	CreatedBy    string        `json:"created_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Progress is the latest measured value over the target, as a
// percentage capped at 100. No measurements or a zero target is 0.
func (i *Indicator) Progress() int {
	if i.Target <= 0 || len(i.Measurements) == 0 {
		return 0
	}
	latest := i.Measurements[0]
	for _, m := range i.Measurements[1:] {
		if m.Date.After(latest.Date) {
			latest = m
		}
	}
	pct := int(latest.Value / i.Target * 100)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

type LogFrameOutput struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type LogFrameRisk struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Status      string `json:"status"`
	Mitigation  string `json:"mitigation,omitempty"`
}

type LogFrame struct {
	ID                  string           `json:"id"`
	ProjectID           string           `json:"project_id"`
	Level               string           `json:"level"`
	Narrative           string           `json:"narrative"`
	Indicators          []string         `json:"indicators"`
	MeansOfVerification string           `json:"means_of_verification,omitempty"`
	Assumptions         []string         `json:"assumptions"`
	Outputs             []LogFrameOutput `json:"outputs"`
	Risks               []LogFrameRisk   `json:"risks"`
	CreatedBy           string           `json:"created_by"`
	UpdatedBy           string           `json:"updated_by,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type FormField struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type Form struct {
	ID               string      `json:"id"`
	ProjectID        string      `json:"project_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Type             string      `json:"type"`
	Status           string      `json:"status"`
	Fields           []FormField `json:"fields"`
	ResponsesCount   int         `json:"responses_count"`
	LastResponseDate *time.Time  `json:"last_response_date,omitempty"`
	CreatedBy        string      `json:"created_by"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type FormResponse struct {
	ID          string         `json:"id"`
	FormID      string         `json:"form_id"`
	ProjectID   string         `json:"project_id"`
	Values      map[string]any `json:"values"`
	Location    *Location      `json:"location,omitempty"`
	Status      string         `json:"status"`
	SubmittedBy string         `json:"submitted_by"`
	SubmittedAt time.Time      `json:"submitted_at"`
	VerifiedBy  string         `json:"verified_by,omitempty"`
	VerifiedAt  *time.Time     `json:"verified_at,omitempty"`
}

// Filter narrows project listings.
type Filter struct {
	Status   string
	Sector   string
	Country  string
	Priority string
	Search   string
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// ObjectiveFilter narrows objective listings.
type ObjectiveFilter struct {
	ProjectID string
	Type      string
	Status    string
}

// ActivityFilter narrows workplan listings.
type ActivityFilter struct {
	ProjectID string
	Type      string
	Status    string
}

// ProjectStatistics summarizes one project.
type ProjectStatistics struct {
	Budget struct {
		Total       float64 `json:"total"`
		Spent       float64 `json:"spent"`
		Remaining   float64 `json:"remaining"`
		Utilization int     `json:"utilization"`
		Currency    string  `json:"currency"`
	} `json:"budget"`
	Timeline struct {
		StartDate     time.Time `json:"start_date"`
		EndDate       time.Time `json:"end_date"`
		TotalDays     int       `json:"total_days"`
		ElapsedDays   int       `json:"elapsed_days"`
		DaysRemaining int       `json:"days_remaining"`
		TimeProgress  int       `json:"time_progress"`
	} `json:"timeline"`
	StakeholdersByType map[string]int     `json:"stakeholders_by_type"`
	FundingByType      map[string]float64 `json:"funding_by_type"`
}

// Overview summarizes the whole portfolio.
type Overview struct {
	TotalProjects   int                `json:"total_projects"`
	ByStatus        map[string]int     `json:"by_status"`
	BySector        map[string]int     `json:"by_sector"`
	TotalBudget     float64            `json:"total_budget"`
	TotalSpent      float64            `json:"total_spent"`
	AverageProgress int                `json:"average_progress"`
}
