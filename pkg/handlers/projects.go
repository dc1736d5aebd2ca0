package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"portfolio-backend-refactor/pkg/config"
	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/middleware"
	"portfolio-backend-refactor/pkg/models"
	"portfolio-backend-refactor/pkg/storage"
	"portfolio-backend-refactor/pkg/utils"
)

// maxUploadBytes caps the parsed multipart form size for project mutations.
const maxUploadBytes = 32 << 20

const dateLayout = "2006-01-02"

// ProjectHandler serves the project catalog, listing, detail and the two
// transactional mutations (create and update).
type ProjectHandler struct {
	cfg    *config.Config
	store  database.Store
	files  *storage.FileStore
	logger zerolog.Logger
}

// NewProjectHandler creates the project handler.
func NewProjectHandler(cfg *config.Config, store database.Store, files *storage.FileStore, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{cfg: cfg, store: store, files: files, logger: logger}
}

// Catalog handles GET /api/catalog: the reference data project forms are
// built from.
func (h *ProjectHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog := models.Catalog{}
	var err error

	if catalog.Clients, err = h.store.ListClients(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to list clients")
		utils.WriteInternalServerErrorResponse(w, "Failed to load catalog")
		return
	}
	if catalog.Skills, err = h.store.ListSkills(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to list skills")
		utils.WriteInternalServerErrorResponse(w, "Failed to load catalog")
		return
	}
	if catalog.Tags, err = h.store.ListTags(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to list tags")
		utils.WriteInternalServerErrorResponse(w, "Failed to load catalog")
		return
	}
	if catalog.Industries, err = h.store.ListIndustries(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to list industries")
		utils.WriteInternalServerErrorResponse(w, "Failed to load catalog")
		return
	}

	utils.WriteSuccessResponse(w, catalog)
}

// List handles GET /api/projects with optional filter query parameters:
// status, client_id, industry, started_after, min_hours and q (title
// substring).
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(r.Context())

	filter, err := filterFromQuery(r)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	items, err := h.store.ListProjects(r.Context(), user.ID, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list projects")
		utils.WriteInternalServerErrorResponse(w, "Failed to load projects")
		return
	}
	if items == nil {
		items = []models.ProjectListItem{}
	}

	utils.WriteSuccessResponse(w, items)
}

func filterFromQuery(r *http.Request) (database.ProjectFilter, error) {
	var filter database.ProjectFilter
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		if status != models.StatusInProgress && status != models.StatusCompleted {
			return filter, fmt.Errorf("unknown status %q", status)
		}
		filter.Status = status
	}

	if raw := q.Get("client_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("invalid client_id %q", raw)
		}
		filter.ClientID = id
	}

	filter.Industry = q.Get("industry")
	filter.TitleContains = q.Get("q")

	if raw := q.Get("started_after"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid started_after date %q, expected YYYY-MM-DD", raw)
		}
		filter.StartedAfter = &t
	}

	if raw := q.Get("completed_before"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid completed_before date %q, expected YYYY-MM-DD", raw)
		}
		filter.CompletedBefore = &t
	}

	if raw := q.Get("min_hours"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours < 0 {
			return filter, fmt.Errorf("invalid min_hours %q", raw)
		}
		filter.MinHours = &hours
	}

	return filter, nil
}

// Detail handles GET /api/projects/{id}.
func (h *ProjectHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(r.Context())

	projectID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || projectID <= 0 {
		utils.WriteBadRequestResponse(w, "Invalid project id")
		return
	}

	detail, err := h.store.GetProjectDetail(r.Context(), projectID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			utils.WriteNotFoundResponse(w, "Project not found")
		case errors.Is(err, database.ErrForbidden):
			utils.WriteForbiddenResponse(w, "You are not a member of this project")
		default:
			h.logger.Error().Err(err).Int64("project_id", projectID).Msg("failed to load project")
			utils.WriteInternalServerErrorResponse(w, "Failed to load project")
		}
		return
	}

	utils.WriteSuccessResponse(w, detail)
}

// Create handles POST /api/projects. The body is a multipart form
// carrying the project fields, skill/tag selections, optional uploads
// under "assets" and an optional feedback rating plus comment. Everything
// is written in one transaction; files saved for a failed transaction are
// removed again.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid multipart form")
		return
	}

	project, err := projectFromForm(r)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	skills, err := skillSelectionsFromForm(r)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	tagIDs, err := idListFromForm(r, "tags")
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	feedback, err := feedbackFromForm(r, user.ID)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	uploads := formFiles(r, "assets")

	var savedAssets []models.Asset
	var results []models.UploadResult
	saver := database.AssetSaver(nil)
	if len(uploads) > 0 {
		saver = func(projectID int64) ([]models.Asset, error) {
			assets, uploadResults, err := h.files.SaveUploads(projectID, uploads)
			if err != nil {
				return nil, err
			}
			savedAssets = assets
			results = uploadResults
			return assets, nil
		}
	}

	projectID, err := h.store.CreateProject(r.Context(), project, user.ID, skills, tagIDs, saver, feedback)
	if err != nil {
		h.files.RemoveAll(savedAssets)
		h.logger.Error().Err(err).Msg("failed to create project")
		utils.WriteInternalServerErrorResponse(w, "Failed to create project")
		return
	}

	utils.WriteCreatedResponse(w, map[string]interface{}{
		"id":      projectID,
		"uploads": results,
	})
}

// Update handles POST /api/projects/{id}: mark completion, attach new
// uploads and record feedback, in one transaction. Only project members
// may update.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(r.Context())

	projectID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || projectID <= 0 {
		utils.WriteBadRequestResponse(w, "Invalid project id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid multipart form")
		return
	}

	var completionDate *time.Time
	if raw := strings.TrimSpace(r.FormValue("completion_date")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			utils.WriteBadRequestResponse(w, "Invalid completion_date, expected YYYY-MM-DD")
			return
		}
		completionDate = &t
	}

	feedback, err := feedbackFromForm(r, user.ID)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	uploads := formFiles(r, "assets")

	var savedAssets []models.Asset
	var results []models.UploadResult
	saver := database.AssetSaver(nil)
	if len(uploads) > 0 {
		saver = func(projectID int64) ([]models.Asset, error) {
			assets, uploadResults, err := h.files.SaveUploads(projectID, uploads)
			if err != nil {
				return nil, err
			}
			savedAssets = assets
			results = uploadResults
			return assets, nil
		}
	}

	err = h.store.UpdateProject(r.Context(), projectID, user.ID, completionDate, saver, feedback)
	if err != nil {
		h.files.RemoveAll(savedAssets)
		switch {
		case errors.Is(err, database.ErrNotFound):
			utils.WriteNotFoundResponse(w, "Project not found")
		case errors.Is(err, database.ErrForbidden):
			utils.WriteForbiddenResponse(w, "You are not a member of this project")
		default:
			h.logger.Error().Err(err).Int64("project_id", projectID).Msg("failed to update project")
			utils.WriteInternalServerErrorResponse(w, "Failed to update project")
		}
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"id":      projectID,
		"uploads": results,
	})
}

func projectFromForm(r *http.Request) (*models.Project, error) {
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	clientID, err := strconv.ParseInt(r.FormValue("client_id"), 10, 64)
	if err != nil || clientID <= 0 {
		return nil, fmt.Errorf("invalid client_id")
	}

	startDate, err := time.Parse(dateLayout, r.FormValue("start_date"))
	if err != nil {
		return nil, fmt.Errorf("invalid start_date, expected YYYY-MM-DD")
	}

	project := &models.Project{
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		Status:      models.StatusInProgress,
		StartDate:   startDate,
		ClientID:    clientID,
	}

	if raw := strings.TrimSpace(r.FormValue("completion_date")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid completion_date, expected YYYY-MM-DD")
		}
		project.CompletionDate = &t
		project.Status = models.StatusCompleted
	}

	if raw := strings.TrimSpace(r.FormValue("total_hours_spent")); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours < 0 {
			return nil, fmt.Errorf("invalid total_hours_spent")
		}
		project.TotalHoursSpent = &hours
	}

	return project, nil
}

// skillSelectionsFromForm reads the repeated "skills" field of skill ids
// plus a "proficiency_<id>" rating for each. A missing rating defaults to 3.
func skillSelectionsFromForm(r *http.Request) ([]models.SkillSelection, error) {
	ids, err := idListFromForm(r, "skills")
	if err != nil {
		return nil, err
	}

	selections := make([]models.SkillSelection, 0, len(ids))
	for _, id := range ids {
		proficiency := 3
		if raw := r.FormValue(fmt.Sprintf("proficiency_%d", id)); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil || p < 1 || p > 5 {
				return nil, fmt.Errorf("invalid proficiency for skill %d, expected 1-5", id)
			}
			proficiency = p
		}
		selections = append(selections, models.SkillSelection{SkillID: id, Proficiency: proficiency})
	}
	return selections, nil
}

func idListFromForm(r *http.Request, field string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, raw := range r.Form[field] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid %s value %q", field, raw)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// feedbackFromForm reads the optional feedback_rating/feedback_comment
// pair. A comment without a rating is rejected rather than dropped.
func feedbackFromForm(r *http.Request, userID int64) (*models.Feedback, error) {
	rating := strings.TrimSpace(r.FormValue("feedback_rating"))
	comment := strings.TrimSpace(r.FormValue("feedback_comment"))

	if rating == "" {
		if comment != "" {
			return nil, fmt.Errorf("feedback_rating is required when feedback_comment is set")
		}
		return nil, nil
	}

	value, err := strconv.Atoi(rating)
	if err != nil || value < 1 || value > 5 {
		return nil, fmt.Errorf("invalid feedback_rating, expected 1-5")
	}

	return &models.Feedback{
		UserID:  userID,
		Rating:  value,
		Comment: comment,
		Date:    time.Now(),
	}, nil
}

func formFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}
