package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. Nested structures
// (location, budget, stakeholders, measurements, form fields) are
// stored as JSONB.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const projectColumns = `id, title, description, sector, location, start_date, end_date,
	status, priority, budget, stakeholders, tags, created_by, updated_by,
	deleted_at, created_at, updated_at`

func (s *PGStore) CreateProject(ctx context.Context, p *Project) error {
	location, budget, stakeholders, tags, err := marshalProjectDocs(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into projects(`+projectColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		p.ID, p.Title, p.Description, p.Sector, location, p.StartDate, p.EndDate,
		p.Status, p.Priority, budget, stakeholders, tags, p.CreatedBy,
		nullable(p.UpdatedBy), p.DeletedAt, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PGStore) FindProject(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+projectColumns+` from projects where id=$1 and deleted_at is null`, id)
	return scanProject(row)
}

func (s *PGStore) ListProjects(ctx context.Context, filter Filter) ([]*Project, int, error) {
	conds := []string{"deleted_at is null"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		conds = append(conds, "status="+arg(filter.Status))
	}
	if filter.Sector != "" {
		conds = append(conds, "sector="+arg(filter.Sector))
	}
	if filter.Country != "" {
		conds = append(conds, "location->>'country'="+arg(filter.Country))
	}
	if filter.Priority != "" {
		conds = append(conds, "priority="+arg(filter.Priority))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conds = append(conds, "(title ilike "+arg(pattern)+" or description ilike "+arg(pattern)+")")
	}
	where := strings.Join(conds, " and ")

	var total int
	if err := s.db.QueryRowContext(ctx,
		`select count(*) from projects where `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "title", "start_date", "end_date", "status", "priority", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "desc"
	if filter.Order == "asc" {
		order = "asc"
	}
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`select %s from projects where %s order by %s %s limit %s offset %s`,
		projectColumns, where, sortBy, order, arg(filter.Limit), arg(offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *PGStore) UpdateProject(ctx context.Context, p *Project) error {
	location, budget, stakeholders, tags, err := marshalProjectDocs(p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`update projects set title=$2, description=$3, sector=$4, location=$5,
		 start_date=$6, end_date=$7, status=$8, priority=$9, budget=$10,
		 stakeholders=$11, tags=$12, updated_by=$13, deleted_at=$14, updated_at=$15
		 where id=$1`,
		p.ID, p.Title, p.Description, p.Sector, location, p.StartDate, p.EndDate,
		p.Status, p.Priority, budget, stakeholders, tags,
		nullable(p.UpdatedBy), p.DeletedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) AppendEvent(ctx context.Context, a *Event) error {
	_, err := s.db.ExecContext(ctx,
		`insert into project_events(id, project_id, type, description, performed_by, occurred_at)
		 values($1,$2,$3,$4,$5,$6)`,
		a.ID, a.ProjectID, a.Type, a.Description, a.PerformedBy, a.OccurredAt,
	)
	return err
}

func (s *PGStore) ListEvents(ctx context.Context, projectID string, limit int) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, project_id, type, description, performed_by, occurred_at
		 from project_events where project_id=$1 order by occurred_at desc limit $2`,
		projectID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		var a Event
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Type, &a.Description, &a.PerformedBy, &a.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *PGStore) ProjectOverview(ctx context.Context) (*Overview, error) {
	ov := &Overview{ByStatus: map[string]int{}, BySector: map[string]int{}}

	rows, err := s.db.QueryContext(ctx,
		`select status, sector,
		        coalesce((budget->>'total')::numeric, 0),
		        coalesce((budget->>'spent')::numeric, 0)
		 from projects where deleted_at is null`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status, sector string
		var total, spent float64
		if err := rows.Scan(&status, &sector, &total, &spent); err != nil {
			return nil, err
		}
		ov.TotalProjects++
		ov.ByStatus[status]++
		ov.BySector[sector]++
		ov.TotalBudget += total
		ov.TotalSpent += spent
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	indicators, err := s.ListIndicators(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(indicators) > 0 {
		var sum int
		for _, i := range indicators {
			sum += i.Progress()
		}
		ov.AverageProgress = sum / len(indicators)
	}
	return ov, nil
}

func (s *PGStore) CreateObjective(ctx context.Context, o *Objective) error {
	_, err := s.db.ExecContext(ctx,
		`insert into objectives(id, project_id, title, description, type, status, progress, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		o.ID, o.ProjectID, o.Title, o.Description, o.Type, o.Status, o.Progress, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (s *PGStore) FindObjective(ctx context.Context, id string) (*Objective, error) {
	var o Objective
	err := s.db.QueryRowContext(ctx,
		`select id, project_id, title, description, type, status, progress, created_at, updated_at
		 from objectives where id=$1`, id,
	).Scan(&o.ID, &o.ProjectID, &o.Title, &o.Description, &o.Type, &o.Status, &o.Progress, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PGStore) ListObjectives(ctx context.Context, filter ObjectiveFilter) ([]*Objective, error) {
	conds := []string{"true"}
	args := []any{}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id=$%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	rows, err := s.db.QueryContext(ctx,
		`select id, project_id, title, description, type, status, progress, created_at, updated_at
		 from objectives where `+strings.Join(conds, " and ")+` order by created_at desc`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Objective
	for rows.Next() {
		var o Objective
		if err := rows.Scan(&o.ID, &o.ProjectID, &o.Title, &o.Description, &o.Type, &o.Status, &o.Progress, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateObjective(ctx context.Context, o *Objective) error {
	res, err := s.db.ExecContext(ctx,
		`update objectives set title=$2, description=$3, type=$4, status=$5, progress=$6, updated_at=$7
		 where id=$1`,
		o.ID, o.Title, o.Description, o.Type, o.Status, o.Progress, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) DeleteObjective(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from objectives where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const activityColumns = `id, project_id, objective_id, title, description, type, start_date,
	end_date, status, progress, location, responsible_person, participants, budget,
	outputs, indicators, forms, milestones, dependencies, created_by, updated_by,
	created_at, updated_at`

func (s *PGStore) CreateActivity(ctx context.Context, a *Activity) error {
	participants, budget, milestones, refs, err := marshalActivityDocs(a)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into activities(`+activityColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)`,
		a.ID, a.ProjectID, nullable(a.ObjectiveID), a.Title, a.Description, a.Type,
		a.StartDate, a.EndDate, a.Status, a.Progress, a.Location, a.ResponsiblePerson,
		participants, budget, refs.outputs, refs.indicators, refs.forms, milestones,
		refs.dependencies, a.CreatedBy, nullable(a.UpdatedBy), a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (s *PGStore) FindActivity(ctx context.Context, id string) (*Activity, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+activityColumns+` from activities where id=$1`, id)
	return scanActivity(row)
}

func (s *PGStore) ListActivities(ctx context.Context, filter ActivityFilter) ([]*Activity, error) {
	conds := []string{"true"}
	args := []any{}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id=$%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	rows, err := s.db.QueryContext(ctx,
		`select `+activityColumns+` from activities
		 where `+strings.Join(conds, " and ")+` order by start_date asc`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateActivity(ctx context.Context, a *Activity) error {
	participants, budget, milestones, refs, err := marshalActivityDocs(a)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`update activities set objective_id=$2, title=$3, description=$4, type=$5,
		 start_date=$6, end_date=$7, status=$8, progress=$9, location=$10,
		 responsible_person=$11, participants=$12, budget=$13, outputs=$14,
		 indicators=$15, forms=$16, milestones=$17, dependencies=$18,
		 updated_by=$19, updated_at=$20
		 where id=$1`,
		a.ID, nullable(a.ObjectiveID), a.Title, a.Description, a.Type,
		a.StartDate, a.EndDate, a.Status, a.Progress, a.Location,
		a.ResponsiblePerson, participants, budget, refs.outputs,
		refs.indicators, refs.forms, milestones, refs.dependencies,
		nullable(a.UpdatedBy), a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from activities where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const indicatorColumns = `id, project_id, objective_id, code, name, description, type, unit,
	baseline, target, measurements, created_by, created_at, updated_at`

func (s *PGStore) CreateIndicator(ctx context.Context, i *Indicator) error {
	measurements, err := json.Marshal(i.Measurements)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into indicators(`+indicatorColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		i.ID, i.ProjectID, nullable(i.ObjectiveID), i.Code, i.Name, i.Description,
		i.Type, i.Unit, i.Baseline, i.Target, measurements, i.CreatedBy, i.CreatedAt, i.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

func (s *PGStore) FindIndicator(ctx context.Context, id string) (*Indicator, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+indicatorColumns+` from indicators where id=$1`, id)
	return scanIndicator(row)
}

func (s *PGStore) FindIndicatorByCode(ctx context.Context, code string) (*Indicator, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+indicatorColumns+` from indicators where code=$1`, code)
	return scanIndicator(row)
}

func (s *PGStore) ListIndicators(ctx context.Context, projectID string) ([]*Indicator, error) {
	query := `select ` + indicatorColumns + ` from indicators`
	args := []any{}
	if projectID != "" {
		query += ` where project_id=$1`
		args = append(args, projectID)
	}
	query += ` order by created_at desc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Indicator
	for rows.Next() {
		i, err := scanIndicator(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateIndicator(ctx context.Context, i *Indicator) error {
	measurements, err := json.Marshal(i.Measurements)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`update indicators set name=$2, description=$3, type=$4, unit=$5,
		 baseline=$6, target=$7, measurements=$8, updated_at=$9 where id=$1`,
		i.ID, i.Name, i.Description, i.Type, i.Unit, i.Baseline, i.Target, measurements, i.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) DeleteIndicator(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from indicators where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const logFrameColumns = `id, project_id, level, narrative, indicators, means_of_verification,
	assumptions, outputs, risks, created_by, updated_by, created_at, updated_at`

func (s *PGStore) CreateLogFrame(ctx context.Context, lf *LogFrame) error {
	indicators, assumptions, outputs, risks, err := marshalLogFrameDocs(lf)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into logframes(`+logFrameColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		lf.ID, lf.ProjectID, lf.Level, lf.Narrative, indicators, lf.MeansOfVerification,
		assumptions, outputs, risks, lf.CreatedBy, nullable(lf.UpdatedBy), lf.CreatedAt, lf.UpdatedAt,
	)
	return err
}

func (s *PGStore) FindLogFrame(ctx context.Context, id string) (*LogFrame, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+logFrameColumns+` from logframes where id=$1`, id)
	return scanLogFrame(row)
}

func (s *PGStore) FindLogFrameByProject(ctx context.Context, projectID string) (*LogFrame, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+logFrameColumns+` from logframes where project_id=$1
		 order by created_at desc limit 1`, projectID)
	return scanLogFrame(row)
}

func (s *PGStore) UpdateLogFrame(ctx context.Context, lf *LogFrame) error {
	indicators, assumptions, outputs, risks, err := marshalLogFrameDocs(lf)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`update logframes set level=$2, narrative=$3, indicators=$4,
		 means_of_verification=$5, assumptions=$6, outputs=$7, risks=$8,
		 updated_by=$9, updated_at=$10 where id=$1`,
		lf.ID, lf.Level, lf.Narrative, indicators, lf.MeansOfVerification,
		assumptions, outputs, risks, nullable(lf.UpdatedBy), lf.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) DeleteLogFrame(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from logframes where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const formColumns = `id, project_id, title, description, type, status, fields,
	responses_count, last_response_date, created_by, created_at, updated_at`

func (s *PGStore) CreateForm(ctx context.Context, f *Form) error {
	fields, err := json.Marshal(f.Fields)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into forms(`+formColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		f.ID, f.ProjectID, f.Title, f.Description, f.Type, f.Status, fields,
		f.ResponsesCount, f.LastResponseDate, f.CreatedBy, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func (s *PGStore) FindForm(ctx context.Context, id string) (*Form, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+formColumns+` from forms where id=$1`, id)
	return scanForm(row)
}

func (s *PGStore) ListForms(ctx context.Context, projectID string) ([]*Form, error) {
	query := `select ` + formColumns + ` from forms`
	args := []any{}
	if projectID != "" {
		query += ` where project_id=$1`
		args = append(args, projectID)
	}
	query += ` order by created_at desc`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateForm(ctx context.Context, f *Form) error {
	fields, err := json.Marshal(f.Fields)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`update forms set title=$2, description=$3, type=$4, status=$5, fields=$6,
		 responses_count=$7, last_response_date=$8, updated_at=$9 where id=$1`,
		f.ID, f.Title, f.Description, f.Type, f.Status, fields,
		f.ResponsesCount, f.LastResponseDate, f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGStore) DeleteForm(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from forms where id=$1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const responseColumns = `id, form_id, project_id, answers, location, status,
	submitted_by, submitted_at, verified_by, verified_at`

func (s *PGStore) CreateResponse(ctx context.Context, r *FormResponse) error {
	values, location, err := marshalResponseDocs(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into form_responses(`+responseColumns+`)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		r.ID, r.FormID, r.ProjectID, values, location, r.Status,
		r.SubmittedBy, r.SubmittedAt, nullable(r.VerifiedBy), r.VerifiedAt,
	)
	return err
}

func (s *PGStore) FindResponse(ctx context.Context, id string) (*FormResponse, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+responseColumns+` from form_responses where id=$1`, id)
	return scanResponse(row)
}

func (s *PGStore) ListResponses(ctx context.Context, formID string) ([]*FormResponse, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+responseColumns+` from form_responses where form_id=$1 order by submitted_at desc`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*FormResponse
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PGStore) UpdateResponse(ctx context.Context, r *FormResponse) error {
	res, err := s.db.ExecContext(ctx,
		`update form_responses set status=$2, verified_by=$3, verified_at=$4 where id=$1`,
		r.ID, r.Status, nullable(r.VerifiedBy), r.VerifiedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Scan helpers.

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	var location, budget, stakeholders, tags []byte
	var updatedBy sql.NullString
	var deletedAt sql.NullTime
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Sector, &location,
		&p.StartDate, &p.EndDate, &p.Status, &p.Priority, &budget, &stakeholders,
		&tags, &p.CreatedBy, &updatedBy, &deletedAt, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(location, &p.Location); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(budget, &p.Budget); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stakeholders, &p.Stakeholders); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, err
	}
	p.UpdatedBy = updatedBy.String
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}
	return &p, nil
}

func scanActivity(row rowScanner) (*Activity, error) {
	var a Activity
	var participants, budget, outputs, indicators, forms, milestones, dependencies []byte
	var objectiveID, updatedBy sql.NullString
	err := row.Scan(&a.ID, &a.ProjectID, &objectiveID, &a.Title, &a.Description,
		&a.Type, &a.StartDate, &a.EndDate, &a.Status, &a.Progress, &a.Location,
		&a.ResponsiblePerson, &participants, &budget, &outputs, &indicators,
		&forms, &milestones, &dependencies, &a.CreatedBy, &updatedBy,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(participants, &a.Participants); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(budget, &a.Budget); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(outputs, &a.Outputs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(indicators, &a.Indicators); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(forms, &a.Forms); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(milestones, &a.Milestones); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dependencies, &a.Dependencies); err != nil {
		return nil, err
	}
	a.ObjectiveID = objectiveID.String
	a.UpdatedBy = updatedBy.String
	return &a, nil
}

func scanIndicator(row rowScanner) (*Indicator, error) {
	var i Indicator
	var objectiveID sql.NullString
	var measurements []byte
	err := row.Scan(&i.ID, &i.ProjectID, &objectiveID, &i.Code, &i.Name,
		&i.Description, &i.Type, &i.Unit, &i.Baseline, &i.Target,
		&measurements, &i.CreatedBy, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(measurements, &i.Measurements); err != nil {
		return nil, err
	}
	i.ObjectiveID = objectiveID.String
	return &i, nil
}

func scanLogFrame(row rowScanner) (*LogFrame, error) {
	var lf LogFrame
	var indicators, assumptions, outputs, risks []byte
	var updatedBy sql.NullString
	err := row.Scan(&lf.ID, &lf.ProjectID, &lf.Level, &lf.Narrative, &indicators,
		&lf.MeansOfVerification, &assumptions, &outputs, &risks,
		&lf.CreatedBy, &updatedBy, &lf.CreatedAt, &lf.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(indicators, &lf.Indicators); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(assumptions, &lf.Assumptions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(outputs, &lf.Outputs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(risks, &lf.Risks); err != nil {
		return nil, err
	}
	lf.UpdatedBy = updatedBy.String
	return &lf, nil
}

func scanForm(row rowScanner) (*Form, error) {
	var f Form
	var fields []byte
	var lastResponse sql.NullTime
	err := row.Scan(&f.ID, &f.ProjectID, &f.Title, &f.Description, &f.Type,
		&f.Status, &fields, &f.ResponsesCount, &lastResponse,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fields, &f.Fields); err != nil {
		return nil, err
	}
	if lastResponse.Valid {
		t := lastResponse.Time
		f.LastResponseDate = &t
	}
	return &f, nil
}

func scanResponse(row rowScanner) (*FormResponse, error) {
	var r FormResponse
	var values, location []byte
	var verifiedBy sql.NullString
	var verifiedAt sql.NullTime
	err := row.Scan(&r.ID, &r.FormID, &r.ProjectID, &values, &location,
		&r.Status, &r.SubmittedBy, &r.SubmittedAt, &verifiedBy, &verifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(values, &r.Values); err != nil {
		return nil, err
	}
	if len(location) > 0 && string(location) != "null" {
		var loc Location
		if err := json.Unmarshal(location, &loc); err != nil {
			return nil, err
		}
		r.Location = &loc
	}
	r.VerifiedBy = verifiedBy.String
	if verifiedAt.Valid {
		t := verifiedAt.Time
		r.VerifiedAt = &t
	}
	return &r, nil
}

func marshalProjectDocs(p *Project) (location, budget, stakeholders, tags []byte, err error) {
	if location, err = json.Marshal(p.Location); err != nil {
		return
	}
	if budget, err = json.Marshal(p.Budget); err != nil {
		return
	}
	if stakeholders, err = json.Marshal(p.Stakeholders); err != nil {
		return
	}
	tags, err = json.Marshal(p.Tags)
	return
}

// activityRefs holds the marshalled id lists an activity points at.
type activityRefs struct {
	outputs, indicators, forms, dependencies []byte
}

func marshalActivityDocs(a *Activity) (participants, budget, milestones []byte, refs activityRefs, err error) {
	if participants, err = json.Marshal(a.Participants); err != nil {
		return
	}
	if budget, err = json.Marshal(a.Budget); err != nil {
		return
	}
	if milestones, err = json.Marshal(a.Milestones); err != nil {
		return
	}
	if refs.outputs, err = json.Marshal(a.Outputs); err != nil {
		return
	}
	if refs.indicators, err = json.Marshal(a.Indicators); err != nil {
		return
	}
	if refs.forms, err = json.Marshal(a.Forms); err != nil {
		return
	}
	refs.dependencies, err = json.Marshal(a.Dependencies)
	return
}

func marshalLogFrameDocs(lf *LogFrame) (indicators, assumptions, outputs, risks []byte, err error) {
	if indicators, err = json.Marshal(lf.Indicators); err != nil {
		return
	}
	if assumptions, err = json.Marshal(lf.Assumptions); err != nil {
		return
	}
	if outputs, err = json.Marshal(lf.Outputs); err != nil {
		return
	}
	risks, err = json.Marshal(lf.Risks)
	return
}

func marshalResponseDocs(r *FormResponse) (values, location []byte, err error) {
	if values, err = json.Marshal(r.Values); err != nil {
		return
	}
	if r.Location != nil {
		location, err = json.Marshal(r.Location)
	}
	return
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
