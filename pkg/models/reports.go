package models

import "time"

// Report row types returned by the aggregation catalog. Every query is scoped
// to the projects the requesting user collaborates on.

// ClientEffort summarizes total effort and project count per client.
type ClientEffort struct {
	Client       string  `json:"client"`
	Industry     string  `json:"industry"`
	TotalHours   float64 `json:"total_hours"`
	ProjectCount int     `json:"project_count"`
}

// SkillDemand counts how many projects a skill appears on.
type SkillDemand struct {
	Skill        string `json:"skill"`
	ProjectCount int    `json:"project_count"`
}

// ProjectAssetStats is per-project asset count and storage size.
type ProjectAssetStats struct {
	ProjectID   int64  `json:"project_id"`
	Title       string `json:"title"`
	AssetCount  int    `json:"asset_count"`
	TotalSizeKB int64  `json:"total_size_kb"`
}

// SkillProficiency is the average proficiency rating recorded for a skill.
type SkillProficiency struct {
	Skill         string  `json:"skill"`
	AverageRating float64 `json:"average_rating"`
}

// ReviewerActivity identifies a feedback author and their feedback count.
type ReviewerActivity struct {
	UserID        int64  `json:"user_id"`
	Reviewer      string `json:"reviewer"`
	Role          string `json:"role"`
	FeedbackCount int    `json:"feedback_count"`
}

// ProjectEffort is one row of the top-projects-by-hours report.
type ProjectEffort struct {
	ProjectID      int64      `json:"project_id"`
	Title          string     `json:"title"`
	ClientName     string     `json:"client_name"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	TotalHours     float64    `json:"total_hours"`
}

// RoleWorkload is total logged hours per user role.
type RoleWorkload struct {
	Role       string  `json:"role"`
	TotalHours float64 `json:"total_hours"`
}

// FileTypeStat is asset count and total size per file type.
type FileTypeStat struct {
	FileType    string `json:"file_type"`
	Count       int    `json:"count"`
	TotalSizeKB int64  `json:"total_size_kb"`
}

// CollaborativeProject is a project with more than one team member.
type CollaborativeProject struct {
	ProjectID     int64  `json:"project_id"`
	Title         string `json:"title"`
	Collaborators int    `json:"collaborators"`
}

// ProjectWithoutAssets is one row of the missing-assets anti-join.
type ProjectWithoutAssets struct {
	ProjectID   int64     `json:"project_id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"start_date"`
	Description string    `json:"description"`
}

// TaggedProject is a project matching both a skill name and a tag name.
type TaggedProject struct {
	ProjectID      int64      `json:"project_id"`
	Title          string     `json:"title"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
}

// Dashboard is the aggregation batch rendered on the dashboard. Metrics are
// fetched independently; names of metrics that failed to load are collected
// in Degraded instead of aborting the whole batch.
type Dashboard struct {
	ClientSummary         []ClientEffort         `json:"client_summary"`
	TopSkills             []SkillDemand          `json:"top_skills"`
	InProgressAssets      []ProjectAssetStats    `json:"in_progress_assets"`
	SkillProficiency      []SkillProficiency     `json:"skill_proficiency"`
	TopReviewer           *ReviewerActivity      `json:"top_reviewer,omitempty"`
	TopProjects           []ProjectEffort        `json:"top_projects"`
	RoleWorkload          []RoleWorkload         `json:"role_workload"`
	FileTypes             []FileTypeStat         `json:"file_types"`
	CollaborativeProjects []CollaborativeProject `json:"collaborative_projects"`
	Degraded              []string               `json:"degraded,omitempty"`
}

// Analytics is the secondary analytics view: the parameterized skill+tag
// intersection and the missing-assets report.
type Analytics struct {
	SkillFilter           string                 `json:"skill_filter"`
	TagFilter             string                 `json:"tag_filter"`
	MatchingProjects      []TaggedProject        `json:"matching_projects"`
	ProjectsWithoutAssets []ProjectWithoutAssets `json:"projects_without_assets"`
	Degraded              []string               `json:"degraded,omitempty"`
}
