package handlers

import (
	"context"
	"errors"
	"time"

	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/models"
)

// stubStore overrides only the methods a test needs; unset functions fail
// loudly instead of returning zero values.
type stubStore struct {
	database.Store

	createUserFn    func(ctx context.Context, user *models.User) (*models.User, error)
	getUserByEmail  func(ctx context.Context, email string) (*models.User, error)
	createSessionFn func(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	deleteSessionFn func(ctx context.Context, token string) error

	createProjectFn func(ctx context.Context, p *models.Project, ownerID int64, skills []models.SkillSelection, tagIDs []int64, saveAssets database.AssetSaver, feedback *models.Feedback) (int64, error)
	updateProjectFn func(ctx context.Context, projectID, requesterID int64, completionDate *time.Time, saveAssets database.AssetSaver, feedback *models.Feedback) error
	listProjectsFn  func(ctx context.Context, userID int64, filter database.ProjectFilter) ([]models.ProjectListItem, error)
	projectDetailFn func(ctx context.Context, projectID, userID int64) (*models.ProjectDetail, error)

	clientEffortFn     func(ctx context.Context, userID int64) ([]models.ClientEffort, error)
	skillDemandFn      func(ctx context.Context, userID int64, minProjects int) ([]models.SkillDemand, error)
	inProgressAssetsFn func(ctx context.Context, userID int64) ([]models.ProjectAssetStats, error)
	skillProficiencyFn func(ctx context.Context, userID int64) ([]models.SkillProficiency, error)
	topReviewerFn      func(ctx context.Context, userID int64) (*models.ReviewerActivity, error)
	topProjectsFn      func(ctx context.Context, userID int64, limit int) ([]models.ProjectEffort, error)
	roleWorkloadFn     func(ctx context.Context, userID int64) ([]models.RoleWorkload, error)
	fileTypesFn        func(ctx context.Context, userID int64) ([]models.FileTypeStat, error)
	collaborativeFn    func(ctx context.Context, userID int64) ([]models.CollaborativeProject, error)
	withoutAssetsFn    func(ctx context.Context, userID int64) ([]models.ProjectWithoutAssets, error)
	bySkillAndTagFn    func(ctx context.Context, userID int64, skillName, tagName string) ([]models.TaggedProject, error)
}

var errStubNotConfigured = errors.New("stub method not configured")

func (s *stubStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if s.createUserFn == nil {
		return nil, errStubNotConfigured
	}
	return s.createUserFn(ctx, user)
}

func (s *stubStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getUserByEmail == nil {
		return nil, errStubNotConfigured
	}
	return s.getUserByEmail(ctx, email)
}

func (s *stubStore) CreateSession(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if s.createSessionFn == nil {
		return errStubNotConfigured
	}
	return s.createSessionFn(ctx, userID, token, expiresAt)
}

func (s *stubStore) DeleteSession(ctx context.Context, token string) error {
	if s.deleteSessionFn == nil {
		return errStubNotConfigured
	}
	return s.deleteSessionFn(ctx, token)
}

func (s *stubStore) CreateProject(ctx context.Context, p *models.Project, ownerID int64, skills []models.SkillSelection, tagIDs []int64, saveAssets database.AssetSaver, feedback *models.Feedback) (int64, error) {
	if s.createProjectFn == nil {
		return 0, errStubNotConfigured
	}
	return s.createProjectFn(ctx, p, ownerID, skills, tagIDs, saveAssets, feedback)
}

func (s *stubStore) UpdateProject(ctx context.Context, projectID, requesterID int64, completionDate *time.Time, saveAssets database.AssetSaver, feedback *models.Feedback) error {
	if s.updateProjectFn == nil {
		return errStubNotConfigured
	}
	return s.updateProjectFn(ctx, projectID, requesterID, completionDate, saveAssets, feedback)
}

func (s *stubStore) ListProjects(ctx context.Context, userID int64, filter database.ProjectFilter) ([]models.ProjectListItem, error) {
	if s.listProjectsFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listProjectsFn(ctx, userID, filter)
}

func (s *stubStore) GetProjectDetail(ctx context.Context, projectID, userID int64) (*models.ProjectDetail, error) {
	if s.projectDetailFn == nil {
		return nil, errStubNotConfigured
	}
	return s.projectDetailFn(ctx, projectID, userID)
}

func (s *stubStore) ClientEffortSummary(ctx context.Context, userID int64) ([]models.ClientEffort, error) {
	if s.clientEffortFn == nil {
		return nil, nil
	}
	return s.clientEffortFn(ctx, userID)
}

func (s *stubStore) SkillDemand(ctx context.Context, userID int64, minProjects int) ([]models.SkillDemand, error) {
	if s.skillDemandFn == nil {
		return nil, nil
	}
	return s.skillDemandFn(ctx, userID, minProjects)
}

func (s *stubStore) InProgressAssetStats(ctx context.Context, userID int64) ([]models.ProjectAssetStats, error) {
	if s.inProgressAssetsFn == nil {
		return nil, nil
	}
	return s.inProgressAssetsFn(ctx, userID)
}

func (s *stubStore) SkillProficiencyAverages(ctx context.Context, userID int64) ([]models.SkillProficiency, error) {
	if s.skillProficiencyFn == nil {
		return nil, nil
	}
	return s.skillProficiencyFn(ctx, userID)
}

func (s *stubStore) TopReviewer(ctx context.Context, userID int64) (*models.ReviewerActivity, error) {
	if s.topReviewerFn == nil {
		return nil, nil
	}
	return s.topReviewerFn(ctx, userID)
}

func (s *stubStore) TopProjectsByEffort(ctx context.Context, userID int64, limit int) ([]models.ProjectEffort, error) {
	if s.topProjectsFn == nil {
		return nil, nil
	}
	return s.topProjectsFn(ctx, userID, limit)
}

func (s *stubStore) WorkloadByRole(ctx context.Context, userID int64) ([]models.RoleWorkload, error) {
	if s.roleWorkloadFn == nil {
		return nil, nil
	}
	return s.roleWorkloadFn(ctx, userID)
}

func (s *stubStore) FileTypeDistribution(ctx context.Context, userID int64) ([]models.FileTypeStat, error) {
	if s.fileTypesFn == nil {
		return nil, nil
	}
	return s.fileTypesFn(ctx, userID)
}

func (s *stubStore) CollaborativeProjects(ctx context.Context, userID int64) ([]models.CollaborativeProject, error) {
	if s.collaborativeFn == nil {
		return nil, nil
	}
	return s.collaborativeFn(ctx, userID)
}

func (s *stubStore) ProjectsWithoutAssets(ctx context.Context, userID int64) ([]models.ProjectWithoutAssets, error) {
	if s.withoutAssetsFn == nil {
		return nil, nil
	}
	return s.withoutAssetsFn(ctx, userID)
}

func (s *stubStore) ProjectsBySkillAndTag(ctx context.Context, userID int64, skillName, tagName string) ([]models.TaggedProject, error) {
	if s.bySkillAndTagFn == nil {
		return nil, nil
	}
	return s.bySkillAndTagFn(ctx, userID, skillName, tagName)
}
