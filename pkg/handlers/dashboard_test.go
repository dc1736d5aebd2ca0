package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend-refactor/pkg/middleware"
	"portfolio-backend-refactor/pkg/models"
)

func dashboardRequest(handler *DashboardHandler, target string, user *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	handler.Dashboard(rec, req)
	return rec
}

func TestDashboardAggregatesMetrics(t *testing.T) {
	store := &stubStore{
		clientEffortFn: func(context.Context, int64) ([]models.ClientEffort, error) {
			return []models.ClientEffort{{Client: "Acme Analytics", TotalHours: 300, ProjectCount: 2}}, nil
		},
		topReviewerFn: func(context.Context, int64) (*models.ReviewerActivity, error) {
			return &models.ReviewerActivity{UserID: 1, Reviewer: "Ada Lovelace", FeedbackCount: 9}, nil
		},
	}
	handler := NewDashboardHandler(store, zerolog.Nop())

	rec := dashboardRequest(handler, "/api/dashboard", &models.User{ID: 1})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.Dashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.ClientSummary, 1)
	assert.Equal(t, "Acme Analytics", envelope.Data.ClientSummary[0].Client)
	require.NotNil(t, envelope.Data.TopReviewer)
	assert.Equal(t, 9, envelope.Data.TopReviewer.FeedbackCount)
	assert.Empty(t, envelope.Data.Degraded)
}

func TestDashboardFailingMetricIsDegradedNotFatal(t *testing.T) {
	store := &stubStore{
		clientEffortFn: func(context.Context, int64) ([]models.ClientEffort, error) {
			return nil, errors.New("query timeout")
		},
		skillDemandFn: func(context.Context, int64, int) ([]models.SkillDemand, error) {
			return []models.SkillDemand{{Skill: "Go", ProjectCount: 3}}, nil
		},
	}
	handler := NewDashboardHandler(store, zerolog.Nop())

	rec := dashboardRequest(handler, "/api/dashboard", &models.User{ID: 1})

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.Dashboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, []string{"client_summary"}, envelope.Data.Degraded)
	require.Len(t, envelope.Data.TopSkills, 1)
	assert.Equal(t, "Go", envelope.Data.TopSkills[0].Skill)
}

func TestDashboardPassesQueryParameters(t *testing.T) {
	var gotMinProjects, gotLimit int
	store := &stubStore{
		skillDemandFn: func(_ context.Context, _ int64, minProjects int) ([]models.SkillDemand, error) {
			gotMinProjects = minProjects
			return nil, nil
		},
		topProjectsFn: func(_ context.Context, _ int64, limit int) ([]models.ProjectEffort, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	handler := NewDashboardHandler(store, zerolog.Nop())

	rec := dashboardRequest(handler, "/api/dashboard?min_projects=2&top=10", &models.User{ID: 1})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotMinProjects)
	assert.Equal(t, 10, gotLimit)
}

func TestDashboardDefaultsForInvalidParameters(t *testing.T) {
	var gotMinProjects, gotLimit int
	store := &stubStore{
		skillDemandFn: func(_ context.Context, _ int64, minProjects int) ([]models.SkillDemand, error) {
			gotMinProjects = minProjects
			return nil, nil
		},
		topProjectsFn: func(_ context.Context, _ int64, limit int) ([]models.ProjectEffort, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	handler := NewDashboardHandler(store, zerolog.Nop())

	rec := dashboardRequest(handler, "/api/dashboard?min_projects=-3&top=zero", &models.User{ID: 1})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultMinProjects, gotMinProjects)
	assert.Equal(t, defaultTopProjects, gotLimit)
}
