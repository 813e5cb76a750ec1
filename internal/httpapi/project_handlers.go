package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"alive.africa/internal/auth"
	"alive.africa/internal/projects"
)

type listProjectsResponse struct {
	Items []*projects.Project `json:"items"`
	Total int                 `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

func (a *API) handleProjectsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listProjects(w, r)
	case http.MethodPost:
		a.createProject(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleProjectResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/projects/")
	if len(segments) == 0 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if len(segments) == 1 && segments[0] == "overview" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.portfolioOverview(w, r)
		return
	}

	id := segments[0]
	if len(segments) == 1 {
		switch r.Method {
		case http.MethodGet:
			a.getProject(w, r, id)
		case http.MethodPatch:
			a.updateProject(w, r, id)
		case http.MethodDelete:
			a.deleteProject(w, r, id)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
		}
		return
	}

	if len(segments) != 2 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch segments[1] {
	case "statistics":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.projectStatistics(w, r, id)
	case "timeline":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.projectTimeline(w, r, id)
	case "objectives":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listObjectives(w, r, id)
	case "activities":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listActivities(w, r, id)
	case "indicators":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listIndicators(w, r, id)
	case "logframe":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getProjectLogFrame(w, r, id)
	case "forms":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listForms(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) listProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := projects.Filter{
		Status:   q.Get("status"),
		Sector:   q.Get("sector"),
		Country:  q.Get("country"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sort_by"),
		Order:    q.Get("order"),
		Page:     page,
		Limit:    limit,
	}
	items, total, err := a.projects.ListProjects(r.Context(), filter)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	writeJSON(w, http.StatusOK, listProjectsResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	var in projects.CreateProjectInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	p, err := a.projects.CreateProject(r.Context(), in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) getProject(w http.ResponseWriter, r *http.Request, id string) {
	p, err := a.projects.GetProject(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) updateProject(w http.ResponseWriter, r *http.Request, id string) {
	var in projects.UpdateProjectInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	p, err := a.projects.UpdateProject(r.Context(), id, in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request, id string) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := a.projects.DeleteProject(r.Context(), id, userID); err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Project deleted successfully.",
	})
}

func (a *API) projectStatistics(w http.ResponseWriter, r *http.Request, id string) {
	stats, err := a.projects.ProjectStatistics(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) projectTimeline(w http.ResponseWriter, r *http.Request, id string) {
	timeline, err := a.projects.ProjectTimeline(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": timeline})
}

func (a *API) portfolioOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := a.projects.PortfolioOverview(r.Context())
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// Objectives.

func (a *API) handleObjectivesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listObjectives(w, r, r.URL.Query().Get("project_id"))
	case http.MethodPost:
		a.createObjective(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleObjectiveResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/objectives/")
	if len(segments) == 0 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := segments[0]

	if len(segments) == 2 && segments[1] == "progress" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.updateObjectiveProgress(w, r, id)
		return
	}
	if len(segments) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getObjective(w, r, id)
	case http.MethodPatch:
		a.updateObjective(w, r, id)
	case http.MethodDelete:
		a.deleteObjective(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) listObjectives(w http.ResponseWriter, r *http.Request, projectID string) {
	q := r.URL.Query()
	items, err := a.projects.ListObjectives(r.Context(), projects.ObjectiveFilter{
		ProjectID: projectID,
		Type:      q.Get("type"),
		Status:    q.Get("status"),
	})
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) createObjective(w http.ResponseWriter, r *http.Request) {
	var in projects.ObjectiveInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	o, err := a.projects.CreateObjective(r.Context(), in)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) getObjective(w http.ResponseWriter, r *http.Request, id string) {
	o, err := a.projects.GetObjective(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) updateObjective(w http.ResponseWriter, r *http.Request, id string) {
	var in projects.ObjectiveInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	o, err := a.projects.UpdateObjective(r.Context(), id, in)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type objectiveProgressRequest struct {
	Progress int `json:"progress"`
}

func (a *API) updateObjectiveProgress(w http.ResponseWriter, r *http.Request, id string) {
	var req objectiveProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	o, err := a.projects.UpdateObjectiveProgress(r.Context(), id, req.Progress)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) deleteObjective(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.projects.DeleteObjective(r.Context(), id); err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Objective deleted successfully.",
	})
}

// Activities.

func (a *API) handleActivitiesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listActivities(w, r, r.URL.Query().Get("project_id"))
	case http.MethodPost:
		a.createActivity(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleActivityResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/activities/")
	if len(segments) == 0 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := segments[0]

	if len(segments) == 2 && segments[1] == "status" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.updateActivityStatus(w, r, id)
		return
	}
	if len(segments) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getActivity(w, r, id)
	case http.MethodPatch:
		a.updateActivity(w, r, id)
	case http.MethodDelete:
		a.deleteActivity(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) listActivities(w http.ResponseWriter, r *http.Request, projectID string) {
	q := r.URL.Query()
	items, err := a.projects.ListActivities(r.Context(), projects.ActivityFilter{
		ProjectID: projectID,
		Type:      q.Get("type"),
		Status:    q.Get("status"),
	})
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) createActivity(w http.ResponseWriter, r *http.Request) {
	var in projects.ActivityInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	act, err := a.projects.CreateActivity(r.Context(), in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, act)
}

func (a *API) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	act, err := a.projects.GetActivity(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (a *API) updateActivity(w http.ResponseWriter, r *http.Request, id string) {
	var in projects.ActivityInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	act, err := a.projects.UpdateActivity(r.Context(), id, in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

type activityStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) updateActivityStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req activityStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	act, err := a.projects.UpdateActivityStatus(r.Context(), id, req.Status, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

func (a *API) deleteActivity(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.projects.DeleteActivity(r.Context(), id); err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Activity deleted successfully.",
	})
}

// Indicators.

func (a *API) handleIndicatorsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listIndicators(w, r, r.URL.Query().Get("project_id"))
	case http.MethodPost:
		a.createIndicator(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleIndicatorResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/indicators/")
	if len(segments) == 0 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := segments[0]

	if len(segments) == 2 && segments[1] == "measurements" {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, http.MethodPost)
			return
		}
		a.addMeasurement(w, r, id)
		return
	}
	if len(segments) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getIndicator(w, r, id)
	case http.MethodDelete:
		a.deleteIndicator(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

type indicatorView struct {
	*projects.Indicator
	Progress int `json:"progress"`
}

func (a *API) listIndicators(w http.ResponseWriter, r *http.Request, projectID string) {
	items, err := a.projects.ListIndicators(r.Context(), projectID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	views := make([]indicatorView, 0, len(items))
	for _, i := range items {
		views = append(views, indicatorView{Indicator: i, Progress: i.Progress()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (a *API) createIndicator(w http.ResponseWriter, r *http.Request) {
	var in projects.IndicatorInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	i, err := a.projects.CreateIndicator(r.Context(), in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, indicatorView{Indicator: i, Progress: i.Progress()})
}

func (a *API) getIndicator(w http.ResponseWriter, r *http.Request, id string) {
	i, err := a.projects.GetIndicator(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indicatorView{Indicator: i, Progress: i.Progress()})
}

func (a *API) addMeasurement(w http.ResponseWriter, r *http.Request, id string) {
	var in projects.MeasurementInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	i, err := a.projects.AddMeasurement(r.Context(), id, in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indicatorView{Indicator: i, Progress: i.Progress()})
}

func (a *API) deleteIndicator(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.projects.DeleteIndicator(r.Context(), id); err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Indicator deleted successfully.",
	})
}

// Log-frames.

func (a *API) handleLogFramesCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var in projects.LogFrameInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	lf, err := a.projects.CreateLogFrame(r.Context(), in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, lf)
}

func (a *API) handleLogFrameResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/logframes/")
	if len(segments) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := segments[0]
	switch r.Method {
	case http.MethodGet:
		lf, err := a.projects.GetLogFrame(r.Context(), id)
		if err != nil {
			handleProjectError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, lf)
	case http.MethodPatch:
		var in projects.LogFrameInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		userID, _ := auth.UserIDFromContext(r.Context())
		lf, err := a.projects.UpdateLogFrame(r.Context(), id, in, userID)
		if err != nil {
			handleProjectError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, lf)
	case http.MethodDelete:
		if err := a.projects.DeleteLogFrame(r.Context(), id); err != nil {
			handleProjectError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "LogFrame deleted successfully.",
		})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) getProjectLogFrame(w http.ResponseWriter, r *http.Request, projectID string) {
	lf, err := a.projects.GetLogFrameByProject(r.Context(), projectID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lf)
}

// Forms.

func (a *API) handleFormsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listForms(w, r, r.URL.Query().Get("project_id"))
	case http.MethodPost:
		a.createForm(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleFormResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/forms/")
	if len(segments) == 0 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := segments[0]

	if len(segments) == 2 && segments[1] == "responses" {
		switch r.Method {
		case http.MethodGet:
			a.listResponses(w, r, id)
		case http.MethodPost:
			a.submitResponse(w, r, id)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	}
	if len(segments) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getForm(w, r, id)
	case http.MethodPatch:
		a.updateForm(w, r, id)
	case http.MethodDelete:
		a.deleteForm(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) listForms(w http.ResponseWriter, r *http.Request, projectID string) {
	items, err := a.projects.ListForms(r.Context(), projectID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) createForm(w http.ResponseWriter, r *http.Request) {
	var in projects.FormInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	f, err := a.projects.CreateForm(r.Context(), in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (a *API) getForm(w http.ResponseWriter, r *http.Request, id string) {
	f, err := a.projects.GetForm(r.Context(), id)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (a *API) updateForm(w http.ResponseWriter, r *http.Request, id string) {
	var in projects.FormInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	f, err := a.projects.UpdateForm(r.Context(), id, in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (a *API) deleteForm(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.projects.DeleteForm(r.Context(), id); err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Form deleted successfully.",
	})
}

func (a *API) listResponses(w http.ResponseWriter, r *http.Request, formID string) {
	items, err := a.projects.ListResponses(r.Context(), formID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) submitResponse(w http.ResponseWriter, r *http.Request, formID string) {
	var in projects.ResponseInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	resp, err := a.projects.SubmitResponse(r.Context(), formID, in, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

type verifyResponseRequest struct {
	Status string `json:"status"`
}

func (a *API) handleResponseResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/responses/")
	if len(segments) != 2 || segments[1] != "verify" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req verifyResponseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	resp, err := a.projects.VerifyResponse(r.Context(), segments[0], req.Status, userID)
	if err != nil {
		handleProjectError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleProjectError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, projects.ErrInvalidInput), errors.Is(err, projects.ErrFormInactive):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, projects.ErrDuplicateCode):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, projects.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
