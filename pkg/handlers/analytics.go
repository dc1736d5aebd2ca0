package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"portfolio-backend-refactor/pkg/config"
	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/middleware"
	"portfolio-backend-refactor/pkg/models"
	"portfolio-backend-refactor/pkg/utils"
)

// AnalyticsHandler serves GET /api/analytics: the parameterized skill and
// tag intersection plus the missing-assets report.
type AnalyticsHandler struct {
	cfg    *config.Config
	store  database.Store
	logger zerolog.Logger
}

// NewAnalyticsHandler creates the analytics handler.
func NewAnalyticsHandler(cfg *config.Config, store database.Store, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{cfg: cfg, store: store, logger: logger}
}

// Analytics handles GET /api/analytics. The skill and tag query
// parameters override the configured defaults.
func (h *AnalyticsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	user := middleware.RequireUser(r.Context())
	ctx := r.Context()

	analytics := models.Analytics{
		SkillFilter: utils.GetQueryParam(r, "skill", h.cfg.AnalyticsSkill),
		TagFilter:   utils.GetQueryParam(r, "tag", h.cfg.AnalyticsTag),
	}

	degrade := func(metric string, err error) {
		h.logger.Error().Err(err).Str("metric", metric).Msg("analytics metric failed")
		analytics.Degraded = append(analytics.Degraded, metric)
	}

	var err error
	if analytics.MatchingProjects, err = h.store.ProjectsBySkillAndTag(ctx, user.ID, analytics.SkillFilter, analytics.TagFilter); err != nil {
		degrade("matching_projects", err)
	}
	if analytics.ProjectsWithoutAssets, err = h.store.ProjectsWithoutAssets(ctx, user.ID); err != nil {
		degrade("projects_without_assets", err)
	}

	utils.WriteSuccessResponse(w, analytics)
}
