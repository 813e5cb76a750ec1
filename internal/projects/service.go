package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"alive.africa/internal/ids"
)

// Service implements the monitoring-and-evaluation domain on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProjectInput carries the writable project fields.
type CreateProjectInput struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Sector       string          `json:"sector"`
	Location     Location        `json:"location"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	Status       string          `json:"status"`
	Priority     string          `json:"priority"`
	Currency     string          `json:"currency"`
	Funding      []FundingSource `json:"funding_sources"`
	Stakeholders []Stakeholder   `json:"stakeholders"`
	Tags         []string        `json:"tags"`
}

func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput, userID string) (*Project, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Sector) == "" {
		return nil, fmt.Errorf("%w: title and sector are required", ErrInvalidInput)
	}
	if in.Location.Country == "" {
		return nil, fmt.Errorf("%w: location country is required", ErrInvalidInput)
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	status := in.Status
	if status == "" {
		status = StatusPlanning
	}
	if !projectStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !projectPriorities[priority] {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}

	funding, total, err := stampFunding(in.Funding)
	if err != nil {
		return nil, err
	}
	stakeholders, err := stampStakeholders(in.Stakeholders)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &Project{
		ID:          ids.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Sector:      in.Sector,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
		Priority:    priority,
		Budget: Budget{
			Total:          total,
			Spent:          0,
			Currency:       currency,
			FundingSources: funding,
		},
		Stakeholders: stakeholders,
		Tags:         in.Tags,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	s.logEvent(ctx, p.ID, "created", "Project created and initialized", userID)
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (*Project, error) {
	return s.store.FindProject(ctx, id)
}

func (s *Service) ListProjects(ctx context.Context, filter Filter) ([]*Project, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if filter.Order != "asc" {
		filter.Order = "desc"
	}
	return s.store.ListProjects(ctx, filter)
}

// UpdateProjectInput carries optional fields; nil means keep.
type UpdateProjectInput struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Sector       *string          `json:"sector"`
	Location     *Location        `json:"location"`
	StartDate    *time.Time       `json:"start_date"`
	EndDate      *time.Time       `json:"end_date"`
	Status       *string          `json:"status"`
	Priority     *string          `json:"priority"`
	Spent        *float64         `json:"spent"`
	Funding      *[]FundingSource `json:"funding_sources"`
	Stakeholders *[]Stakeholder   `json:"stakeholders"`
	Tags         *[]string        `json:"tags"`
}

func (s *Service) UpdateProject(ctx context.Context, id string, in UpdateProjectInput, userID string) (*Project, error) {
	p, err := s.store.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Sector != nil {
		p.Sector = *in.Sector
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.StartDate != nil {
		p.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = *in.EndDate
	}
	if !p.EndDate.After(p.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}
	if in.Status != nil {
		if !projectStatuses[*in.Status] {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		p.Status = *in.Status
	}
	if in.Priority != nil {
		if !projectPriorities[*in.Priority] {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *in.Priority)
		}
		p.Priority = *in.Priority
	}
	if in.Spent != nil {
		if *in.Spent < 0 {
			return nil, fmt.Errorf("%w: spent cannot be negative", ErrInvalidInput)
		}
		p.Budget.Spent = *in.Spent
	}
	if in.Funding != nil {
		funding, total, err := stampFunding(*in.Funding)
		if err != nil {
			return nil, err
		}
		p.Budget.FundingSources = funding
		p.Budget.Total = total
	}
	if in.Stakeholders != nil {
		stakeholders, err := stampStakeholders(*in.Stakeholders)
		if err != nil {
			return nil, err
		}
		p.Stakeholders = stakeholders
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}

	p.UpdatedBy = userID
	p.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	s.logEvent(ctx, p.ID, "updated", "Project information updated", userID)
	return p, nil
}

// DeleteProject soft-deletes: the row stays for the event trail.
func (s *Service) DeleteProject(ctx context.Context, id, userID string) error {
	p, err := s.store.FindProject(ctx, id)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	p.DeletedAt = &now
	p.UpdatedBy = userID
	p.UpdatedAt = now
	if err := s.store.UpdateProject(ctx, p); err != nil {
		return err
	}
	s.logEvent(ctx, p.ID, "updated", "Project deleted", userID)
	return nil
}

func (s *Service) ProjectStatistics(ctx context.Context, id string) (*ProjectStatistics, error) {
	p, err := s.store.FindProject(ctx, id)
	if err != nil {
		return nil, err
	}

	var stats ProjectStatistics
	stats.Budget.Total = p.Budget.Total
	stats.Budget.Spent = p.Budget.Spent
	stats.Budget.Remaining = p.Budget.Total - p.Budget.Spent
	stats.Budget.Currency = p.Budget.Currency
	if p.Budget.Total > 0 {
		stats.Budget.Utilization = int(p.Budget.Spent / p.Budget.Total * 100)
	}

	now := s.now()
	stats.Timeline.StartDate = p.StartDate
	stats.Timeline.EndDate = p.EndDate
	stats.Timeline.TotalDays = daysBetween(p.StartDate, p.EndDate)
	stats.Timeline.ElapsedDays = daysBetween(p.StartDate, now)
	stats.Timeline.DaysRemaining = daysBetween(now, p.EndDate)
	if stats.Timeline.TotalDays > 0 {
		progress := stats.Timeline.ElapsedDays * 100 / stats.Timeline.TotalDays
		if progress > 100 {
			progress = 100
		}
		if progress < 0 {
			progress = 0
		}
		stats.Timeline.TimeProgress = progress
	}

	stats.StakeholdersByType = map[string]int{}
	for _, st := range p.Stakeholders {
		stats.StakeholdersByType[st.Type]++
	}
	stats.FundingByType = map[string]float64{}
	for _, fs := range p.Budget.FundingSources {
		stats.FundingByType[fs.Type] += fs.Amount
	}
	return &stats, nil
}

// ProjectTimeline returns the most recent trail events.
func (s *Service) ProjectTimeline(ctx context.Context, id string) ([]*Event, error) {
	if _, err := s.store.FindProject(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, id, 50)
}

// PortfolioOverview aggregates across all live projects.
func (s *Service) PortfolioOverview(ctx context.Context) (*Overview, error) {
	return s.store.ProjectOverview(ctx)
}

// Objectives.

type ObjectiveInput struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

func (s *Service) CreateObjective(ctx context.Context, in ObjectiveInput) (*Objective, error) {
	if in.ProjectID == "" || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: project id and title are required", ErrInvalidInput)
	}
	if !objectiveTypes[in.Type] {
		return nil, fmt.Errorf("%w: unknown objective type %q", ErrInvalidInput, in.Type)
	}
	if _, err := s.store.FindProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = "not-started"
	}
	if !objectiveStatuses[status] {
		return nil, fmt.Errorf("%w: unknown objective status %q", ErrInvalidInput, status)
	}

	now := s.now().UTC()
	o := &Objective{
		ID:          ids.New(),
		ProjectID:   in.ProjectID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        in.Type,
		Status:      status,
		Progress:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateObjective(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) GetObjective(ctx context.Context, id string) (*Objective, error) {
	return s.store.FindObjective(ctx, id)
}

func (s *Service) ListObjectives(ctx context.Context, filter ObjectiveFilter) ([]*Objective, error) {
	return s.store.ListObjectives(ctx, filter)
}

func (s *Service) UpdateObjectiveProgress(ctx context.Context, id string, progress int) (*Objective, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be within [0,100]", ErrInvalidInput)
	}
	o, err := s.store.FindObjective(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Progress = progress
	if progress >= 100 {
		o.Status = "completed"
	} else if progress > 0 && o.Status == "not-started" {
		o.Status = "in-progress"
	}
	o.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateObjective(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) UpdateObjective(ctx context.Context, id string, in ObjectiveInput) (*Objective, error) {
	o, err := s.store.FindObjective(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		o.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		o.Description = in.Description
	}
	if in.Type != "" {
		if !objectiveTypes[in.Type] {
			return nil, fmt.Errorf("%w: unknown objective type %q", ErrInvalidInput, in.Type)
		}
		o.Type = in.Type
	}
	if in.Status != "" {
		if !objectiveStatuses[in.Status] {
			return nil, fmt.Errorf("%w: unknown objective status %q", ErrInvalidInput, in.Status)
		}
		o.Status = in.Status
	}
	o.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateObjective(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) DeleteObjective(ctx context.Context, id string) error {
	return s.store.DeleteObjective(ctx, id)
}

// Workplan activities.

type ActivityInput struct {
	ProjectID         string          `json:"project_id"`
	ObjectiveID       string          `json:"objective_id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Type              string          `json:"type"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	Status            string          `json:"status"`
	Progress          *int            `json:"progress"`
	Location          string          `json:"location"`
	ResponsiblePerson string          `json:"responsible_person"`
	Participants      []Participant   `json:"participants"`
	Budget            *ActivityBudget `json:"budget"`
	Outputs           []string        `json:"outputs"`
	Indicators        []string        `json:"indicators"`
	Forms             []string        `json:"forms"`
	Milestones        []Milestone     `json:"milestones"`
	Dependencies      []string        `json:"dependencies"`
}

func (s *Service) CreateActivity(ctx context.Context, in ActivityInput, userID string) (*Activity, error) {
	if in.ProjectID == "" || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: project id and title are required", ErrInvalidInput)
	}
	if !activityTypes[in.Type] {
		return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, in.Type)
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}
	if _, err := s.store.FindProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = "planned"
	}
	if !activityStatuses[status] {
		return nil, fmt.Errorf("%w: unknown activity status %q", ErrInvalidInput, status)
	}
	budget, err := checkActivityBudget(in.Budget)
	if err != nil {
		return nil, err
	}
	participants, err := checkParticipants(in.Participants)
	if err != nil {
		return nil, err
	}
	milestones, err := stampMilestones(in.Milestones)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a := &Activity{
		ID:                ids.New(),
		ProjectID:         in.ProjectID,
		ObjectiveID:       in.ObjectiveID,
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Type:              in.Type,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		Status:            status,
		Location:          in.Location,
		ResponsiblePerson: in.ResponsiblePerson,
		Participants:      participants,
		Budget:            budget,
		Outputs:           in.Outputs,
		Indicators:        in.Indicators,
		Forms:             in.Forms,
		Milestones:        milestones,
		Dependencies:      in.Dependencies,
		CreatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateActivity(ctx, a); err != nil {
		return nil, err
	}
	s.logEvent(ctx, a.ProjectID, "activity_created", fmt.Sprintf("Activity %q scheduled", a.Title), userID)
	return a, nil
}

func (s *Service) GetActivity(ctx context.Context, id string) (*Activity, error) {
	return s.store.FindActivity(ctx, id)
}

func (s *Service) ListActivities(ctx context.Context, filter ActivityFilter) ([]*Activity, error) {
	return s.store.ListActivities(ctx, filter)
}

func (s *Service) UpdateActivity(ctx context.Context, id string, in ActivityInput, userID string) (*Activity, error) {
	a, err := s.store.FindActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		a.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		a.Description = in.Description
	}
	if in.Type != "" {
		if !activityTypes[in.Type] {
			return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, in.Type)
		}
		a.Type = in.Type
	}
	if !in.StartDate.IsZero() {
		a.StartDate = in.StartDate
	}
	if !in.EndDate.IsZero() {
		a.EndDate = in.EndDate
	}
	if !a.EndDate.After(a.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}
	if in.Status != "" {
		if !activityStatuses[in.Status] {
			return nil, fmt.Errorf("%w: unknown activity status %q", ErrInvalidInput, in.Status)
		}
		a.Status = in.Status
	}
	if in.Progress != nil {
		if *in.Progress < 0 || *in.Progress > 100 {
			return nil, fmt.Errorf("%w: progress must be within [0,100]", ErrInvalidInput)
		}
		a.Progress = *in.Progress
	}
	if in.Location != "" {
		a.Location = in.Location
	}
	if in.ResponsiblePerson != "" {
		a.ResponsiblePerson = in.ResponsiblePerson
	}
	if in.Participants != nil {
		participants, err := checkParticipants(in.Participants)
		if err != nil {
			return nil, err
		}
		a.Participants = participants
	}
	if in.Budget != nil {
		budget, err := checkActivityBudget(in.Budget)
		if err != nil {
			return nil, err
		}
		a.Budget = budget
	}
	if in.Outputs != nil {
		a.Outputs = in.Outputs
	}
	if in.Indicators != nil {
		a.Indicators = in.Indicators
	}
	if in.Forms != nil {
		a.Forms = in.Forms
	}
	if in.Milestones != nil {
		milestones, err := stampMilestones(in.Milestones)
		if err != nil {
			return nil, err
		}
		a.Milestones = milestones
	}
	if in.Dependencies != nil {
		a.Dependencies = in.Dependencies
	}

	a.UpdatedBy = userID
	a.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateActivityStatus changes just the status; completion also fills the
// progress bar.
func (s *Service) UpdateActivityStatus(ctx context.Context, id, status, userID string) (*Activity, error) {
	if !activityStatuses[status] {
		return nil, fmt.Errorf("%w: unknown activity status %q", ErrInvalidInput, status)
	}
	a, err := s.store.FindActivity(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = status
	if status == "completed" {
		a.Progress = 100
	}
	a.UpdatedBy = userID
	a.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	return s.store.DeleteActivity(ctx, id)
}

// Indicators.

type IndicatorInput struct {
	ProjectID   string  `json:"project_id"`
	ObjectiveID string  `json:"objective_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Unit        string  `json:"unit"`
	Baseline    float64 `json:"baseline"`
	Target      float64 `json:"target"`
}

func (s *Service) CreateIndicator(ctx context.Context, in IndicatorInput, userID string) (*Indicator, error) {
	if in.ProjectID == "" || in.Code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: project id, code and name are required", ErrInvalidInput)
	}
	if in.Type != "quantitative" && in.Type != "qualitative" {
		return nil, fmt.Errorf("%w: unknown indicator type %q", ErrInvalidInput, in.Type)
	}
	if in.Target < 0 {
		return nil, fmt.Errorf("%w: target cannot be negative", ErrInvalidInput)
	}
	if _, err := s.store.FindProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	if _, err := s.store.FindIndicatorByCode(ctx, in.Code); err == nil {
		return nil, ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	i := &Indicator{
		ID:           ids.New(),
		ProjectID:    in.ProjectID,
		ObjectiveID:  in.ObjectiveID,
		Code:         in.Code,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Type:         in.Type,
		Unit:         in.Unit,
		Baseline:     in.Baseline,
		Target:       in.Target,
		Measurements: []Measurement{},
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateIndicator(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) GetIndicator(ctx context.Context, id string) (*Indicator, error) {
	return s.store.FindIndicator(ctx, id)
}

func (s *Service) ListIndicators(ctx context.Context, projectID string) ([]*Indicator, error) {
	return s.store.ListIndicators(ctx, projectID)
}

type MeasurementInput struct {
	Value       float64   `json:"value"`
	Date        time.Time `json:"date"`
	DataQuality string    `json:"data_quality"`
	Notes       string    `json:"notes"`
}

func (s *Service) AddMeasurement(ctx context.Context, indicatorID string, in MeasurementInput, userID string) (*Indicator, error) {
	i, err := s.store.FindIndicator(ctx, indicatorID)
	if err != nil {
		return nil, err
	}
	quality := in.DataQuality
	if quality == "" {
		quality = "unverified"
	}
	date := in.Date
	if date.IsZero() {
		date = s.now().UTC()
	}
	i.Measurements = append(i.Measurements, Measurement{
		ID:          uuid.NewString(),
		Value:       in.Value,
		Date:        date,
		DataQuality: quality,
		CollectedBy: userID,
		Notes:       in.Notes,
	})
	i.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateIndicator(ctx, i); err != nil {
		return nil, err
	}
	s.logEvent(ctx, i.ProjectID, "indicator_updated",
		fmt.Sprintf("Measurement recorded for indicator %s", i.Code), userID)
	return i, nil
}

func (s *Service) DeleteIndicator(ctx context.Context, id string) error {
	return s.store.DeleteIndicator(ctx, id)
}

// Log-frames.

type LogFrameInput struct {
	ProjectID           string           `json:"project_id"`
	Level               string           `json:"level"`
	Narrative           string           `json:"narrative"`
	Indicators          []string         `json:"indicators"`
	MeansOfVerification string           `json:"means_of_verification"`
	Assumptions         []string         `json:"assumptions"`
	Outputs             []LogFrameOutput `json:"outputs"`
	Risks               []LogFrameRisk   `json:"risks"`
}

func (s *Service) CreateLogFrame(ctx context.Context, in LogFrameInput, userID string) (*LogFrame, error) {
	if in.ProjectID == "" || strings.TrimSpace(in.Narrative) == "" {
		return nil, fmt.Errorf("%w: project id and narrative are required", ErrInvalidInput)
	}
	if !logFrameLevels[in.Level] {
		return nil, fmt.Errorf("%w: unknown log-frame level %q", ErrInvalidInput, in.Level)
	}
	if _, err := s.store.FindProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	lf := &LogFrame{
		ID:                  ids.New(),
		ProjectID:           in.ProjectID,
		Level:               in.Level,
		Narrative:           strings.TrimSpace(in.Narrative),
		Indicators:          in.Indicators,
		MeansOfVerification: in.MeansOfVerification,
		Assumptions:         in.Assumptions,
		Outputs:             stampOutputs(in.Outputs),
		Risks:               stampRisks(in.Risks),
		CreatedBy:           userID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if lf.Assumptions == nil {
		lf.Assumptions = []string{}
	}
	if err := s.store.CreateLogFrame(ctx, lf); err != nil {
		return nil, err
	}
	return lf, nil
}

func (s *Service) GetLogFrame(ctx context.Context, id string) (*LogFrame, error) {
	return s.store.FindLogFrame(ctx, id)
}

func (s *Service) GetLogFrameByProject(ctx context.Context, projectID string) (*LogFrame, error) {
	return s.store.FindLogFrameByProject(ctx, projectID)
}

func (s *Service) UpdateLogFrame(ctx context.Context, id string, in LogFrameInput, userID string) (*LogFrame, error) {
	lf, err := s.store.FindLogFrame(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Level != "" {
		if !logFrameLevels[in.Level] {
			return nil, fmt.Errorf("%w: unknown log-frame level %q", ErrInvalidInput, in.Level)
		}
		lf.Level = in.Level
	}
	if in.Narrative != "" {
		lf.Narrative = strings.TrimSpace(in.Narrative)
	}
	if in.Indicators != nil {
		lf.Indicators = in.Indicators
	}
	if in.MeansOfVerification != "" {
		lf.MeansOfVerification = in.MeansOfVerification
	}
	if in.Assumptions != nil {
		lf.Assumptions = in.Assumptions
	}
	if in.Outputs != nil {
		lf.Outputs = stampOutputs(in.Outputs)
	}
	if in.Risks != nil {
		lf.Risks = stampRisks(in.Risks)
	}
	lf.UpdatedBy = userID
	lf.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateLogFrame(ctx, lf); err != nil {
		return nil, err
	}
	return lf, nil
}

func (s *Service) DeleteLogFrame(ctx context.Context, id string) error {
	return s.store.DeleteLogFrame(ctx, id)
}

// Forms.

type FormInput struct {
	ProjectID   string      `json:"project_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Fields      []FormField `json:"fields"`
}

func (s *Service) CreateForm(ctx context.Context, in FormInput, userID string) (*Form, error) {
	if in.ProjectID == "" || strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: project id and title are required", ErrInvalidInput)
	}
	if len(in.Fields) == 0 {
		return nil, fmt.Errorf("%w: a form needs at least one field", ErrInvalidInput)
	}
	if _, err := s.store.FindProject(ctx, in.ProjectID); err != nil {
		return nil, err
	}
	fields, err := stampFields(in.Fields)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = FormDraft
	}
	if status != FormDraft && status != FormActive && status != FormArchived {
		return nil, fmt.Errorf("%w: unknown form status %q", ErrInvalidInput, status)
	}

	now := s.now().UTC()
	f := &Form{
		ID:          ids.New(),
		ProjectID:   in.ProjectID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        in.Type,
		Status:      status,
		Fields:      fields,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateForm(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) GetForm(ctx context.Context, id string) (*Form, error) {
	return s.store.FindForm(ctx, id)
}

func (s *Service) ListForms(ctx context.Context, projectID string) ([]*Form, error) {
	return s.store.ListForms(ctx, projectID)
}

func (s *Service) UpdateForm(ctx context.Context, id string, in FormInput, userID string) (*Form, error) {
	f, err := s.store.FindForm(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" {
		f.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		f.Description = in.Description
	}
	if in.Status != "" {
		if in.Status != FormDraft && in.Status != FormActive && in.Status != FormArchived {
			return nil, fmt.Errorf("%w: unknown form status %q", ErrInvalidInput, in.Status)
		}
		f.Status = in.Status
	}
	if in.Fields != nil {
		fields, err := stampFields(in.Fields)
		if err != nil {
			return nil, err
		}
		f.Fields = fields
	}
	f.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateForm(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) DeleteForm(ctx context.Context, id string) error {
	return s.store.DeleteForm(ctx, id)
}

type ResponseInput struct {
	Values   map[string]any `json:"values"`
	Location *Location      `json:"location"`
}

// SubmitResponse validates the submitted values against the form's
// field set: every required field present, no unknown field keys.
func (s *Service) SubmitResponse(ctx context.Context, formID string, in ResponseInput, userID string) (*FormResponse, error) {
	f, err := s.store.FindForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if f.Status != FormActive {
		return nil, ErrFormInactive
	}

	known := make(map[string]bool, len(f.Fields))
	for _, field := range f.Fields {
		known[field.ID] = true
		if field.Required {
			if _, ok := in.Values[field.ID]; !ok {
				return nil, fmt.Errorf("%w: missing required field %q", ErrInvalidInput, field.Label)
			}
		}
	}
	for key := range in.Values {
		if !known[key] {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidInput, key)
		}
	}

	now := s.now().UTC()
	r := &FormResponse{
		ID:          ids.New(),
		FormID:      f.ID,
		ProjectID:   f.ProjectID,
		Values:      in.Values,
		Location:    in.Location,
		Status:      ResponseSubmitted,
		SubmittedBy: userID,
		SubmittedAt: now,
	}
	if err := s.store.CreateResponse(ctx, r); err != nil {
		return nil, err
	}

	f.ResponsesCount++
	f.LastResponseDate = &now
	f.UpdatedAt = now
	if err := s.store.UpdateForm(ctx, f); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListResponses(ctx context.Context, formID string) ([]*FormResponse, error) {
	return s.store.ListResponses(ctx, formID)
}

// VerifyResponse moves a submitted response to verified or rejected.
func (s *Service) VerifyResponse(ctx context.Context, responseID, status, userID string) (*FormResponse, error) {
	if status != ResponseVerified && status != ResponseRejected {
		return nil, fmt.Errorf("%w: verification status must be verified or rejected", ErrInvalidInput)
	}
	r, err := s.store.FindResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r.Status = status
	r.VerifiedBy = userID
	r.VerifiedAt = &now
	if err := s.store.UpdateResponse(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Helpers.

func stampFunding(sources []FundingSource) ([]FundingSource, float64, error) {
	out := make([]FundingSource, 0, len(sources))
	var total float64
	for _, src := range sources {
		if src.Amount < 0 {
			return nil, 0, fmt.Errorf("%w: funding amount cannot be negative", ErrInvalidInput)
		}
		if !fundingTypes[src.Type] {
			return nil, 0, fmt.Errorf("%w: unknown funding type %q", ErrInvalidInput, src.Type)
		}
		if src.ID == "" {
			src.ID = uuid.NewString()
		}
		total += src.Amount
		out = append(out, src)
	}
	return out, total, nil
}

func stampStakeholders(stakeholders []Stakeholder) ([]Stakeholder, error) {
	out := make([]Stakeholder, 0, len(stakeholders))
	for _, st := range stakeholders {
		if !stakeholderTypes[st.Type] {
			return nil, fmt.Errorf("%w: unknown stakeholder type %q", ErrInvalidInput, st.Type)
		}
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		out = append(out, st)
	}
	return out, nil
}

func stampOutputs(outputs []LogFrameOutput) []LogFrameOutput {
	out := make([]LogFrameOutput, 0, len(outputs))
	for idx, o := range outputs {
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if o.Order == 0 {
			o.Order = idx + 1
		}
		out = append(out, o)
	}
	return out
}

func stampRisks(risks []LogFrameRisk) []LogFrameRisk {
	out := make([]LogFrameRisk, 0, len(risks))
	for _, r := range risks {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Status == "" {
			r.Status = "identified"
		}
		out = append(out, r)
	}
	return out
}

func checkActivityBudget(b *ActivityBudget) (ActivityBudget, error) {
	if b == nil {
		return ActivityBudget{}, nil
	}
	if b.Allocated < 0 || b.Spent < 0 {
		return ActivityBudget{}, fmt.Errorf("%w: activity budget cannot be negative", ErrInvalidInput)
	}
	return *b, nil
}

func checkParticipants(participants []Participant) ([]Participant, error) {
	out := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Role) == "" {
			return nil, fmt.Errorf("%w: participant name and role are required", ErrInvalidInput)
		}
		out = append(out, p)
	}
	return out, nil
}

func stampMilestones(milestones []Milestone) ([]Milestone, error) {
	out := make([]Milestone, 0, len(milestones))
	for _, m := range milestones {
		if strings.TrimSpace(m.Title) == "" || m.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: milestone title and due date are required", ErrInvalidInput)
		}
		if m.Status == "" {
			m.Status = "pending"
		}
		if !milestoneStatuses[m.Status] {
			return nil, fmt.Errorf("%w: unknown milestone status %q", ErrInvalidInput, m.Status)
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		out = append(out, m)
	}
	return out, nil
}

func stampFields(fields []FormField) ([]FormField, error) {
	out := make([]FormField, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Label) == "" {
			return nil, fmt.Errorf("%w: field label is required", ErrInvalidInput)
		}
		if !fieldTypes[f.Type] {
			return nil, fmt.Errorf("%w: unknown field type %q", ErrInvalidInput, f.Type)
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		out = append(out, f)
	}
	return out, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func (s *Service) logEvent(ctx context.Context, projectID, typ, description, userID string) {
	_ = s.store.AppendEvent(ctx, &Event{
		ID:          ids.New(),
		ProjectID:   projectID,
		Type:        typ,
		Description: description,
		PerformedBy: userID,
		OccurredAt:  s.now().UTC(),
	})
}
