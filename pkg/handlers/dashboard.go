package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/middleware"
	"portfolio-backend-refactor/pkg/models"
	"portfolio-backend-refactor/pkg/utils"
)

// Dashboard query defaults, overridable per request.
const (
	defaultMinProjects = 1
	defaultTopProjects = 5
)

// DashboardHandler serves the aggregation batch behind GET /api/dashboard.
// Metrics load independently: a failing metric is reported by name in the
// degraded list while the rest of the dashboard still renders.
type DashboardHandler struct {
	store  database.Store
	logger zerolog.Logger
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(store database.Store, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, logger: logger}
}

// Dashboard handles GET /api/dashboard. Optional query parameters:
// min_projects (skills must appear on more than this many projects) and
// top (top projects limit).
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(r.Context())
	ctx := r.Context()

	minProjects := intParam(r, "min_projects", defaultMinProjects, 0)
	topLimit := intParam(r, "top", defaultTopProjects, 1)

	dashboard := models.Dashboard{}
	degrade := func(metric string, err error) {
		h.logger.Error().Err(err).Str("metric", metric).Msg("dashboard metric failed")
		dashboard.Degraded = append(dashboard.Degraded, metric)
	}

	var err error
	if dashboard.ClientSummary, err = h.store.ClientEffortSummary(ctx, user.ID); err != nil {
		degrade("client_summary", err)
	}
	if dashboard.TopSkills, err = h.store.SkillDemand(ctx, user.ID, minProjects); err != nil {
		degrade("top_skills", err)
	}
	if dashboard.InProgressAssets, err = h.store.InProgressAssetStats(ctx, user.ID); err != nil {
		degrade("in_progress_assets", err)
	}
	if dashboard.SkillProficiency, err = h.store.SkillProficiencyAverages(ctx, user.ID); err != nil {
		degrade("skill_proficiency", err)
	}
	if dashboard.TopReviewer, err = h.store.TopReviewer(ctx, user.ID); err != nil {
		degrade("top_reviewer", err)
	}
	if dashboard.TopProjects, err = h.store.TopProjectsByEffort(ctx, user.ID, topLimit); err != nil {
		degrade("top_projects", err)
	}
	if dashboard.RoleWorkload, err = h.store.WorkloadByRole(ctx, user.ID); err != nil {
		degrade("role_workload", err)
	}
	if dashboard.FileTypes, err = h.store.FileTypeDistribution(ctx, user.ID); err != nil {
		degrade("file_types", err)
	}
	if dashboard.CollaborativeProjects, err = h.store.CollaborativeProjects(ctx, user.ID); err != nil {
		degrade("collaborative_projects", err)
	}

	utils.WriteSuccessResponse(w, dashboard)
}

func intParam(r *http.Request, key string, defaultValue, min int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= min {
			return value
		}
	}
	return defaultValue
}
