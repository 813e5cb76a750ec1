package httpapi

import (
	"net/http"
	"strconv"

	"alive.africa/internal/auth"
)

type listUsersResponse struct {
	Items []auth.SanitizedUser `json:"items"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listUsers(w, r)
	case http.MethodPost:
		a.createUser(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/v1/users/")
	if len(segments) == 0 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch segments[0] {
	case "basic":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.basicUsers(w, r)
		return
	case "statistics":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.userStatistics(w, r)
		return
	case "bulk":
		if len(segments) != 2 || r.Method != http.MethodPost {
			writeError(w, r, http.StatusNotFound, "resource not found")
			return
		}
		a.bulkUsers(w, r, segments[1])
		return
	}

	if len(segments) != 1 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := segments[0]
	switch r.Method {
	case http.MethodGet:
		a.getUser(w, r, id)
	case http.MethodPatch:
		a.updateUser(w, r, id)
	case http.MethodDelete:
		a.deleteUser(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := auth.UserFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	}
	users, total, err := a.auth.ListUsers(r.Context(), filter)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	writeJSON(w, http.StatusOK, listUsersResponse{
		Items: users,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	})
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	if !a.requireAdmin(w, r) {
		return
	}
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.auth.CreateByAdmin(r.Context(), auth.RegisterInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		NationalID:  req.NationalID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
		Roles:       req.Roles,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) basicUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.auth.BasicInfo(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": users})
}

func (a *API) userStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := a.auth.UserStatistics(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type bulkStatusRequest struct {
	UserIDs []string `json:"user_ids"`
	Status  string   `json:"status"`
}

type bulkDeleteRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (a *API) bulkUsers(w http.ResponseWriter, r *http.Request, action string) {
	if !a.requireAdmin(w, r) {
		return
	}
	switch action {
	case "status":
		var req bulkStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := a.auth.BulkUpdateStatus(r.Context(), req.UserIDs, req.Status)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"updated": updated})
	case "delete":
		var req bulkDeleteRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		deleted, err := a.auth.BulkDelete(r.Context(), req.UserIDs)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request, id string) {
	user, err := a.auth.Profile(r.Context(), id)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	PhoneNumber string   `json:"phone_number"`
	Status      string   `json:"status"`
	Roles       []string `json:"roles"`
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request, id string) {
	if !a.requireAdmin(w, r) {
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.auth.UpdateUser(r.Context(), id, auth.UpdateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Status:      req.Status,
		Roles:       req.Roles,
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	if !a.requireAdmin(w, r) {
		return
	}
	if err := a.auth.DeleteUser(r.Context(), id); err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully.",
	})
}
