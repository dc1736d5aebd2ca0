package database

import (
	"context"
	"time"

	"portfolio-backend-refactor/pkg/models"
)

// AssetSaver persists upload payloads to disk once the project id is known
// and returns the asset metadata to record. It runs inside the project
// mutation transaction; if the transaction later fails the caller removes
// the written files.
type AssetSaver func(projectID int64) ([]models.Asset, error)

// Store is the data access contract the handlers depend on.
type Store interface {
	// Users and sessions
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateSession(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetSessionUser(ctx context.Context, token string) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error

	// Reference data
	ListClients(ctx context.Context) ([]models.Client, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListIndustries(ctx context.Context) ([]string, error)

	// Project mutations. Both run in a single transaction covering the
	// project row, junction rows, asset rows and the optional feedback row.
	CreateProject(ctx context.Context, p *models.Project, ownerID int64, skills []models.SkillSelection, tagIDs []int64, saveAssets AssetSaver, feedback *models.Feedback) (int64, error)
	UpdateProject(ctx context.Context, projectID, requesterID int64, completionDate *time.Time, saveAssets AssetSaver, feedback *models.Feedback) error

	// Project reads
	IsProjectMember(ctx context.Context, projectID, userID int64) (bool, error)
	ListProjects(ctx context.Context, userID int64, filter ProjectFilter) ([]models.ProjectListItem, error)
	GetProjectDetail(ctx context.Context, projectID, userID int64) (*models.ProjectDetail, error)

	// Aggregation reports, each scoped to projects the user collaborates on
	ClientEffortSummary(ctx context.Context, userID int64) ([]models.ClientEffort, error)
	SkillDemand(ctx context.Context, userID int64, minProjects int) ([]models.SkillDemand, error)
	InProgressAssetStats(ctx context.Context, userID int64) ([]models.ProjectAssetStats, error)
	SkillProficiencyAverages(ctx context.Context, userID int64) ([]models.SkillProficiency, error)
	TopReviewer(ctx context.Context, userID int64) (*models.ReviewerActivity, error)
	TopProjectsByEffort(ctx context.Context, userID int64, limit int) ([]models.ProjectEffort, error)
	WorkloadByRole(ctx context.Context, userID int64) ([]models.RoleWorkload, error)
	FileTypeDistribution(ctx context.Context, userID int64) ([]models.FileTypeStat, error)
	CollaborativeProjects(ctx context.Context, userID int64) ([]models.CollaborativeProject, error)
	ProjectsWithoutAssets(ctx context.Context, userID int64) ([]models.ProjectWithoutAssets, error)
	ProjectsBySkillAndTag(ctx context.Context, userID int64, skillName, tagName string) ([]models.TaggedProject, error)

	// Lifecycle
	HealthCheck(ctx context.Context) error
	Close() error
}
