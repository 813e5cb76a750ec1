package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	projects   map[string]*Project
	events     []*Event
	objectives map[string]*Objective
	activities map[string]*Activity
	indicators map[string]*Indicator
	logFrames  map[string]*LogFrame
	forms      map[string]*Form
	responses  map[string]*FormResponse
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:   map[string]*Project{},
		objectives: map[string]*Objective{},
		activities: map[string]*Activity{},
		indicators: map[string]*Indicator{},
		logFrames:  map[string]*LogFrame{},
		forms:      map[string]*Form{},
		responses:  map[string]*FormResponse{},
	}
}

func (f *fakeStore) CreateProject(_ context.Context, p *Project) error {
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeStore) FindProject(_ context.Context, id string) (*Project, error) {
	p, ok := f.projects[id]
	if !ok || p.DeletedAt != nil {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListProjects(_ context.Context, filter Filter) ([]*Project, int, error) {
	var out []*Project
	for _, p := range f.projects {
		if p.DeletedAt != nil {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeStore) UpdateProject(_ context.Context, p *Project) error {
	if _, ok := f.projects[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeStore) AppendEvent(_ context.Context, a *Event) error {
	f.events = append(f.events, a)
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context, projectID string, limit int) ([]*Event, error) {
	var out []*Event
	for _, a := range f.events {
		if a.ProjectID == projectID && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ProjectOverview(_ context.Context) (*Overview, error) {
	ov := &Overview{ByStatus: map[string]int{}, BySector: map[string]int{}}
	for _, p := range f.projects {
		if p.DeletedAt != nil {
			continue
		}
		ov.TotalProjects++
		ov.ByStatus[p.Status]++
		ov.BySector[p.Sector]++
		ov.TotalBudget += p.Budget.Total
		ov.TotalSpent += p.Budget.Spent
	}
	return ov, nil
}

func (f *fakeStore) CreateObjective(_ context.Context, o *Objective) error {
	cp := *o
	f.objectives[o.ID] = &cp
	return nil
}

func (f *fakeStore) FindObjective(_ context.Context, id string) (*Objective, error) {
	o, ok := f.objectives[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) ListObjectives(_ context.Context, filter ObjectiveFilter) ([]*Objective, error) {
	var out []*Objective
	for _, o := range f.objectives {
		if filter.ProjectID != "" && o.ProjectID != filter.ProjectID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateObjective(_ context.Context, o *Objective) error {
	if _, ok := f.objectives[o.ID]; !ok {
		return ErrNotFound
	}
	cp := *o
	f.objectives[o.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteObjective(_ context.Context, id string) error {
	if _, ok := f.objectives[id]; !ok {
		return ErrNotFound
	}
	delete(f.objectives, id)
	return nil
}

func (f *fakeStore) CreateActivity(_ context.Context, a *Activity) error {
	cp := *a
	f.activities[a.ID] = &cp
	return nil
}

func (f *fakeStore) FindActivity(_ context.Context, id string) (*Activity, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) ListActivities(_ context.Context, filter ActivityFilter) ([]*Activity, error) {
	var out []*Activity
	for _, a := range f.activities {
		if filter.ProjectID != "" && a.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateActivity(_ context.Context, a *Activity) error {
	if _, ok := f.activities[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	f.activities[a.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteActivity(_ context.Context, id string) error {
	if _, ok := f.activities[id]; !ok {
		return ErrNotFound
	}
	delete(f.activities, id)
	return nil
}

func (f *fakeStore) CreateIndicator(_ context.Context, i *Indicator) error {
	cp := *i
	f.indicators[i.ID] = &cp
	return nil
}

func (f *fakeStore) FindIndicator(_ context.Context, id string) (*Indicator, error) {
	i, ok := f.indicators[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (f *fakeStore) FindIndicatorByCode(_ context.Context, code string) (*Indicator, error) {
	for _, i := range f.indicators {
		if i.Code == code {
			cp := *i
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListIndicators(_ context.Context, projectID string) ([]*Indicator, error) {
	var out []*Indicator
	for _, i := range f.indicators {
		if projectID != "" && i.ProjectID != projectID {
			continue
		}
		cp := *i
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateIndicator(_ context.Context, i *Indicator) error {
	if _, ok := f.indicators[i.ID]; !ok {
		return ErrNotFound
	}
	cp := *i
	f.indicators[i.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteIndicator(_ context.Context, id string) error {
	if _, ok := f.indicators[id]; !ok {
		return ErrNotFound
	}
	delete(f.indicators, id)
	return nil
}

func (f *fakeStore) CreateLogFrame(_ context.Context, lf *LogFrame) error {
	cp := *lf
	f.logFrames[lf.ID] = &cp
	return nil
}

func (f *fakeStore) FindLogFrame(_ context.Context, id string) (*LogFrame, error) {
	lf, ok := f.logFrames[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *lf
	return &cp, nil
}

func (f *fakeStore) FindLogFrameByProject(_ context.Context, projectID string) (*LogFrame, error) {
	for _, lf := range f.logFrames {
		if lf.ProjectID == projectID {
			cp := *lf
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdateLogFrame(_ context.Context, lf *LogFrame) error {
	if _, ok := f.logFrames[lf.ID]; !ok {
		return ErrNotFound
	}
	cp := *lf
	f.logFrames[lf.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteLogFrame(_ context.Context, id string) error {
	if _, ok := f.logFrames[id]; !ok {
		return ErrNotFound
	}
	delete(f.logFrames, id)
	return nil
}

func (f *fakeStore) CreateForm(_ context.Context, form *Form) error {
	cp := *form
	f.forms[form.ID] = &cp
	return nil
}

func (f *fakeStore) FindForm(_ context.Context, id string) (*Form, error) {
	form, ok := f.forms[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *form
	return &cp, nil
}

func (f *fakeStore) ListForms(_ context.Context, projectID string) ([]*Form, error) {
	var out []*Form
	for _, form := range f.forms {
		if projectID != "" && form.ProjectID != projectID {
			continue
		}
		cp := *form
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateForm(_ context.Context, form *Form) error {
	if _, ok := f.forms[form.ID]; !ok {
		return ErrNotFound
	}
	cp := *form
	f.forms[form.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteForm(_ context.Context, id string) error {
	if _, ok := f.forms[id]; !ok {
		return ErrNotFound
	}
	delete(f.forms, id)
	return nil
}

func (f *fakeStore) CreateResponse(_ context.Context, r *FormResponse) error {
	cp := *r
	f.responses[r.ID] = &cp
	return nil
}

func (f *fakeStore) FindResponse(_ context.Context, id string) (*FormResponse, error) {
	r, ok := f.responses[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ListResponses(_ context.Context, formID string) ([]*FormResponse, error) {
	var out []*FormResponse
	for _, r := range f.responses {
		if r.FormID == formID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateResponse(_ context.Context, r *FormResponse) error {
	if _, ok := f.responses[r.ID]; !ok {
		return ErrNotFound
	}
	cp := *r
	f.responses[r.ID] = &cp
	return nil
}

func baseProjectInput() CreateProjectInput {
	return CreateProjectInput{
		Title:       "ALiVE Kenya Lifeskills",
		Description: "Lifeskills assessment program",
		Sector:      "Education",
		Location:    Location{Country: "Kenya", Region: "Central"},
		StartDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Funding: []FundingSource{
			{Name: "USAID Grant", Amount: 250000, Type: "grant"},
			{Name: "Gov Match", Amount: 150000, Type: "government"},
		},
		Stakeholders: []Stakeholder{
			{Name: "Ministry of Education", Role: "Partner", Type: "government"},
		},
	}
}

func TestCreateProjectTotalsBudgetFromFunding(t *testing.T) {
	svc := NewService(newFakeStore())

	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	require.Equal(t, float64(400000), p.Budget.Total)
	require.Equal(t, float64(0), p.Budget.Spent)
	require.Equal(t, "USD", p.Budget.Currency)
	require.Equal(t, StatusPlanning, p.Status)
	require.Equal(t, PriorityMedium, p.Priority)
	for _, fs := range p.Budget.FundingSources {
		require.NotEmpty(t, fs.ID)
	}
	for _, st := range p.Stakeholders {
		require.NotEmpty(t, st.ID)
	}
}

func TestCreateProjectRejectsBadDates(t *testing.T) {
	svc := NewService(newFakeStore())

	in := baseProjectInput()
	in.EndDate = in.StartDate
	_, err := svc.CreateProject(context.Background(), in, "user-1")
	require.ErrorIs(t, err, ErrInvalidInput)

	in.EndDate = in.StartDate.Add(-24 * time.Hour)
	_, err = svc.CreateProject(context.Background(), in, "user-1")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateProjectRecordsTrailEvent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	timeline, err := svc.ProjectTimeline(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	require.Equal(t, "created", timeline[0].Type)
	require.Equal(t, "user-1", timeline[0].PerformedBy)
}

func TestUpdateProjectRecalculatesBudget(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	funding := []FundingSource{{Name: "New Grant", Amount: 100000, Type: "grant"}}
	updated, err := svc.UpdateProject(context.Background(), p.ID, UpdateProjectInput{Funding: &funding}, "user-2")
	require.NoError(t, err)
	require.Equal(t, float64(100000), updated.Budget.Total)
	require.Equal(t, "user-2", updated.UpdatedBy)
}

func TestSoftDeleteHidesProject(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(context.Background(), p.ID, "user-1"))

	_, err = svc.GetProject(context.Background(), p.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProjectStatisticsUtilization(t *testing.T) {
	fixed := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	svc := NewService(newFakeStore(), WithClock(func() time.Time { return fixed }))

	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	spent := float64(100000)
	_, err = svc.UpdateProject(context.Background(), p.ID, UpdateProjectInput{Spent: &spent}, "user-1")
	require.NoError(t, err)

	stats, err := svc.ProjectStatistics(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, 25, stats.Budget.Utilization)
	require.Equal(t, float64(300000), stats.Budget.Remaining)
	require.Equal(t, 365, stats.Timeline.TotalDays)
	require.Equal(t, 1, stats.StakeholdersByType["government"])
	require.Equal(t, float64(250000), stats.FundingByType["grant"])
}

func TestIndicatorProgress(t *testing.T) {
	i := &Indicator{Target: 200}
	require.Equal(t, 0, i.Progress())

	i.Measurements = []Measurement{
		{Value: 50, Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Value: 120, Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.Equal(t, 60, i.Progress())

	// Latest by date wins even when appended out of order.
	i.Measurements = append(i.Measurements, Measurement{
		Value: 30, Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, 60, i.Progress())

	i.Measurements = append(i.Measurements, Measurement{
		Value: 500, Date: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Equal(t, 100, i.Progress())

	i.Target = 0
	require.Equal(t, 0, i.Progress())
}

func TestCreateIndicatorRejectsDuplicateCode(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	in := IndicatorInput{
		ProjectID: p.ID, Code: "EDU-001", Name: "Learners assessed",
		Type: "quantitative", Unit: "learners", Target: 1000,
	}
	_, err = svc.CreateIndicator(context.Background(), in, "user-1")
	require.NoError(t, err)

	_, err = svc.CreateIndicator(context.Background(), in, "user-1")
	require.ErrorIs(t, err, ErrDuplicateCode)
}

func TestAddMeasurementDefaults(t *testing.T) {
	fixed := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(newFakeStore(), WithClock(func() time.Time { return fixed }))
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	ind, err := svc.CreateIndicator(context.Background(), IndicatorInput{
		ProjectID: p.ID, Code: "EDU-002", Name: "Schools reached",
		Type: "quantitative", Unit: "schools", Target: 50,
	}, "user-1")
	require.NoError(t, err)

	ind, err = svc.AddMeasurement(context.Background(), ind.ID, MeasurementInput{Value: 10}, "user-2")
	require.NoError(t, err)
	require.Len(t, ind.Measurements, 1)
	require.Equal(t, "unverified", ind.Measurements[0].DataQuality)
	require.Equal(t, "user-2", ind.Measurements[0].CollectedBy)
	require.Equal(t, fixed, ind.Measurements[0].Date)
	require.Equal(t, 20, ind.Progress())
}

func TestObjectiveProgressTransitions(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	o, err := svc.CreateObjective(context.Background(), ObjectiveInput{
		ProjectID: p.ID, Title: "Improve literacy", Type: "outcome",
	})
	require.NoError(t, err)
	require.Equal(t, "not-started", o.Status)

	o, err = svc.UpdateObjectiveProgress(context.Background(), o.ID, 40)
	require.NoError(t, err)
	require.Equal(t, "in-progress", o.Status)

	o, err = svc.UpdateObjectiveProgress(context.Background(), o.ID, 100)
	require.NoError(t, err)
	require.Equal(t, "completed", o.Status)

	_, err = svc.UpdateObjectiveProgress(context.Background(), o.ID, 120)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func baseActivityInput(projectID string) ActivityInput {
	return ActivityInput{
		ProjectID:         projectID,
		Title:             "Teacher training workshop",
		Type:              "training",
		StartDate:         time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Location:          "Nakuru",
		ResponsiblePerson: "user-1",
		Participants: []Participant{
			{Name: "Jane Wanjiku", Role: "Facilitator"},
		},
		Milestones: []Milestone{
			{Title: "Materials printed", DueDate: time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestCreateActivityDefaults(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	act, err := svc.CreateActivity(context.Background(), baseActivityInput(p.ID), "user-1")
	require.NoError(t, err)
	require.Equal(t, "planned", act.Status)
	require.Equal(t, 0, act.Progress)
	require.Len(t, act.Milestones, 1)
	require.NotEmpty(t, act.Milestones[0].ID)
	require.Equal(t, "pending", act.Milestones[0].Status)

	timeline, err := svc.ProjectTimeline(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
}

func TestCreateActivityRejectsBadInput(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	in := baseActivityInput(p.ID)
	in.EndDate = in.StartDate
	_, err = svc.CreateActivity(context.Background(), in, "user-1")
	require.ErrorIs(t, err, ErrInvalidInput)

	in = baseActivityInput(p.ID)
	in.Type = "excursion"
	_, err = svc.CreateActivity(context.Background(), in, "user-1")
	require.ErrorIs(t, err, ErrInvalidInput)

	in = baseActivityInput(p.ID)
	in.Participants = []Participant{{Name: "No Role"}}
	_, err = svc.CreateActivity(context.Background(), in, "user-1")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateActivity(context.Background(), baseActivityInput("missing"), "user-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateActivityStatusCompletesProgress(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	act, err := svc.CreateActivity(context.Background(), baseActivityInput(p.ID), "user-1")
	require.NoError(t, err)

	_, err = svc.UpdateActivityStatus(context.Background(), act.ID, "done", "user-2")
	require.ErrorIs(t, err, ErrInvalidInput)

	act, err = svc.UpdateActivityStatus(context.Background(), act.ID, "completed", "user-2")
	require.NoError(t, err)
	require.Equal(t, "completed", act.Status)
	require.Equal(t, 100, act.Progress)
	require.Equal(t, "user-2", act.UpdatedBy)
}

func TestListActivitiesFilter(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	_, err = svc.CreateActivity(context.Background(), baseActivityInput(p.ID), "user-1")
	require.NoError(t, err)

	in := baseActivityInput(p.ID)
	in.Title = "Midline assessment"
	in.Type = "assessment"
	_, err = svc.CreateActivity(context.Background(), in, "user-1")
	require.NoError(t, err)

	items, err := svc.ListActivities(context.Background(), ActivityFilter{ProjectID: p.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = svc.ListActivities(context.Background(), ActivityFilter{ProjectID: p.ID, Type: "assessment"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Midline assessment", items[0].Title)
}

func activeForm(t *testing.T, svc *Service, projectID string) *Form {
	t.Helper()
	f, err := svc.CreateForm(context.Background(), FormInput{
		ProjectID: projectID,
		Title:     "Baseline Survey",
		Type:      "survey",
		Status:    FormActive,
		Fields: []FormField{
			{ID: "age", Label: "Age", Type: "number", Required: true},
			{ID: "county", Label: "County", Type: "text"},
		},
	}, "user-1")
	require.NoError(t, err)
	return f
}

func TestSubmitResponseValidatesFields(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)
	f := activeForm(t, svc, p.ID)

	// Missing required field.
	_, err = svc.SubmitResponse(context.Background(), f.ID, ResponseInput{
		Values: map[string]any{"county": "Nairobi"},
	}, "user-2")
	require.ErrorIs(t, err, ErrInvalidInput)

	// Unknown field.
	_, err = svc.SubmitResponse(context.Background(), f.ID, ResponseInput{
		Values: map[string]any{"age": 12, "grade": 5},
	}, "user-2")
	require.ErrorIs(t, err, ErrInvalidInput)

	r, err := svc.SubmitResponse(context.Background(), f.ID, ResponseInput{
		Values: map[string]any{"age": 12, "county": "Nairobi"},
	}, "user-2")
	require.NoError(t, err)
	require.Equal(t, ResponseSubmitted, r.Status)

	f, err = svc.GetForm(context.Background(), f.ID)
	require.NoError(t, err)
	require.Equal(t, 1, f.ResponsesCount)
	require.NotNil(t, f.LastResponseDate)
}

func TestSubmitResponseRequiresActiveForm(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	f, err := svc.CreateForm(context.Background(), FormInput{
		ProjectID: p.ID, Title: "Draft Survey", Type: "survey",
		Fields: []FormField{{ID: "q1", Label: "Q1", Type: "text"}},
	}, "user-1")
	require.NoError(t, err)

	_, err = svc.SubmitResponse(context.Background(), f.ID, ResponseInput{
		Values: map[string]any{"q1": "yes"},
	}, "user-2")
	require.ErrorIs(t, err, ErrFormInactive)
}

func TestVerifyResponse(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)
	f := activeForm(t, svc, p.ID)

	r, err := svc.SubmitResponse(context.Background(), f.ID, ResponseInput{
		Values: map[string]any{"age": 14},
	}, "user-2")
	require.NoError(t, err)

	_, err = svc.VerifyResponse(context.Background(), r.ID, "approved", "user-3")
	require.ErrorIs(t, err, ErrInvalidInput)

	r, err = svc.VerifyResponse(context.Background(), r.ID, ResponseVerified, "user-3")
	require.NoError(t, err)
	require.Equal(t, ResponseVerified, r.Status)
	require.Equal(t, "user-3", r.VerifiedBy)
	require.NotNil(t, r.VerifiedAt)
}

func TestLogFrameStampsOutputsAndRisks(t *testing.T) {
	svc := NewService(newFakeStore())
	p, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	lf, err := svc.CreateLogFrame(context.Background(), LogFrameInput{
		ProjectID: p.ID,
		Level:     "outcome",
		Narrative: "Learners demonstrate improved life skills",
		Outputs: []LogFrameOutput{
			{Description: "Assessment toolkit published"},
			{Description: "Teachers trained"},
		},
		Risks: []LogFrameRisk{{Description: "School closures", Level: "high"}},
	}, "user-1")
	require.NoError(t, err)

	require.Equal(t, 1, lf.Outputs[0].Order)
	require.Equal(t, 2, lf.Outputs[1].Order)
	require.NotEmpty(t, lf.Outputs[0].ID)
	require.Equal(t, "identified", lf.Risks[0].Status)

	got, err := svc.GetLogFrameByProject(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, lf.ID, got.ID)
}

func TestPortfolioOverview(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.CreateProject(context.Background(), baseProjectInput(), "user-1")
	require.NoError(t, err)

	in := baseProjectInput()
	in.Title = "Water Access"
	in.Sector = "Water & Sanitation"
	in.Status = StatusActive
	_, err = svc.CreateProject(context.Background(), in, "user-1")
	require.NoError(t, err)

	ov, err := svc.PortfolioOverview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, ov.TotalProjects)
	require.Equal(t, 1, ov.ByStatus[StatusPlanning])
	require.Equal(t, 1, ov.ByStatus[StatusActive])
	require.Equal(t, float64(800000), ov.TotalBudget)
}
