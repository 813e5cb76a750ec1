package projects

import "context"

// ProjectStore persists projects and their event trail.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *Project) error
	FindProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, filter Filter) ([]*Project, int, error)
	UpdateProject(ctx context.Context, p *Project) error
	AppendEvent(ctx context.Context, a *Event) error
	ListEvents(ctx context.Context, projectID string, limit int) ([]*Event, error)
	ProjectOverview(ctx context.Context) (*Overview, error)
}

// ObjectiveStore persists objectives.
type ObjectiveStore interface {
	CreateObjective(ctx context.Context, o *Objective) error
	FindObjective(ctx context.Context, id string) (*Objective, error)
	ListObjectives(ctx context.Context, filter ObjectiveFilter) ([]*Objective, error)
	UpdateObjective(ctx context.Context, o *Objective) error
	DeleteObjective(ctx context.Context, id string) error
}

// ActivityStore persists workplan activities.
type ActivityStore interface {
	CreateActivity(ctx context.Context, a *Activity) error
	FindActivity(ctx context.Context, id string) (*Activity, error)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
	UpdateActivity(ctx context.Context, a *Activity) error
	DeleteActivity(ctx context.Context, id string) error
}

// IndicatorStore persists indicators with their measurement history.
type IndicatorStore interface {
	CreateIndicator(ctx context.Context, i *Indicator) error
	FindIndicator(ctx context.Context, id string) (*Indicator, error)
	FindIndicatorByCode(ctx context.Context, code string) (*Indicator, error)
	ListIndicators(ctx context.Context, projectID string) ([]*Indicator, error)
	UpdateIndicator(ctx context.Context, i *Indicator) error
	DeleteIndicator(ctx context.Context, id string) error
}

// LogFrameStore persists log-frames.
type LogFrameStore interface {
	CreateLogFrame(ctx context.Context, lf *LogFrame) error
	FindLogFrame(ctx context.Context, id string) (*LogFrame, error)
	FindLogFrameByProject(ctx context.Context, projectID string) (*LogFrame, error)
	UpdateLogFrame(ctx context.Context, lf *LogFrame) error
	DeleteLogFrame(ctx context.Context, id string) error
}

// FormStore persists data-collection forms and their responses.
type FormStore interface {
	CreateForm(ctx context.Context, f *Form) error
	FindForm(ctx context.Context, id string) (*Form, error)
	ListForms(ctx context.Context, projectID string) ([]*Form, error)
	UpdateForm(ctx context.Context, f *Form) error
	DeleteForm(ctx context.Context, id string) error
	CreateResponse(ctx context.Context, r *FormResponse) error
	FindResponse(ctx context.Context, id string) (*FormResponse, error)
	ListResponses(ctx context.Context, formID string) ([]*FormResponse, error)
	UpdateResponse(ctx context.Context, r *FormResponse) error
}

// Store is the full persistence surface of the domain.
type Store interface {
	ProjectStore
	ObjectiveStore
	ActivityStore
	IndicatorStore
	LogFrameStore
	FormStore
}
