package models

import "time"

// Project status values enforced by a CHECK constraint on projects.status.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Client is static reference data describing who a project was delivered for.
type Client struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Industry     string `json:"industry" db:"industry"`
	ContactEmail string `json:"contact_email" db:"contact_email"`
}

// Project represents a row in the projects table.
// TotalHoursSpent is stored independently of time_log rows and is not
// guaranteed to equal their sum.
type Project struct {
	ID              int64      `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	Status          string     `json:"status" db:"status"`
	StartDate       time.Time  `json:"start_date" db:"start_date"`
	CompletionDate  *time.Time `json:"completion_date,omitempty" db:"completion_date"`
	TotalHoursSpent *float64   `json:"total_hours_spent,omitempty" db:"total_hours_spent"`
	ClientID        int64      `json:"client_id" db:"client_id"`
}

// Skill is a catalog entry; proficiency lives on the project_skill junction.
type Skill struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Tag is a free-form categorical label attached to projects.
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// SkillSelection pairs a skill id with the proficiency rating recorded on the
// project_skill junction row.
type SkillSelection struct {
	SkillID     int64 `json:"skill_id"`
	Proficiency int   `json:"proficiency"`
}

// Asset is the metadata of one uploaded file belonging to exactly one project.
// The physical file lives at StorageLocation; FileType is derived from the
// original filename extension at insert time.
type Asset struct {
	ID              int64     `json:"id" db:"id"`
	ProjectID       int64     `json:"project_id" db:"project_id"`
	FileName        string    `json:"file_name" db:"file_name"`
	FileType        string    `json:"file_type" db:"file_type"`
	FileSizeKB      int64     `json:"file_size_kb" db:"file_size_kb"`
	StorageLocation string    `json:"storage_location" db:"storage_location"`
	DateUploaded    time.Time `json:"date_uploaded" db:"date_uploaded"`
}

// Feedback is a rating plus comment authored by a user against a project.
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"project_id" db:"project_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	Date      time.Time `json:"date" db:"date"`
}

// TimeLog records hours worked by a user on a project.
type TimeLog struct {
	ID          int64     `json:"id" db:"id"`
	ProjectID   int64     `json:"project_id" db:"project_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	HoursWorked float64   `json:"hours_worked" db:"hours_worked"`
	LogDate     time.Time `json:"log_date" db:"log_date"`
}

// UploadResult is the per-file outcome of an upload batch. Rejected files are
// reported with a reason instead of being silently skipped.
type UploadResult struct {
	FileName string `json:"file_name"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	AssetID  int64  `json:"asset_id,omitempty"`
}

// ProjectListItem is one joined row of the filtered project listing.
type ProjectListItem struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	ClientName      string     `json:"client_name"`
	Industry        string     `json:"industry"`
	StartDate       time.Time  `json:"start_date"`
	CompletionDate  *time.Time `json:"completion_date,omitempty"`
	Status          string     `json:"status"`
	TotalHoursSpent *float64   `json:"total_hours_spent,omitempty"`
}

// ProjectSummary is the head section of the project detail view, joined with
// the owning client.
type ProjectSummary struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	CompletionDate  *time.Time `json:"completion_date,omitempty"`
	TotalHoursSpent *float64   `json:"total_hours_spent,omitempty"`
	ClientName      string     `json:"client_name"`
	Industry        string     `json:"industry"`
	ContactEmail    string     `json:"contact_email"`
}

// TeamMemberHours is per-member logged effort on one project.
type TeamMemberHours struct {
	Member string  `json:"member"`
	Hours  float64 `json:"hours"`
}

// ProjectSkillRating is a skill used on a project together with its rating.
type ProjectSkillRating struct {
	Skill       string `json:"skill"`
	Proficiency int    `json:"proficiency"`
}

// FeedbackEntry is one feedback row joined with its author.
type FeedbackEntry struct {
	Reviewer string    `json:"reviewer"`
	Rating   int       `json:"rating"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

// TeamMember is one collaborator on a project.
type TeamMember struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// ProjectDetail aggregates everything the project detail view needs.
type ProjectDetail struct {
	Summary   ProjectSummary       `json:"summary"`
	TeamHours []TeamMemberHours    `json:"team_hours"`
	Assets    []Asset              `json:"assets"`
	Feedback  []FeedbackEntry      `json:"feedback"`
	Tags      []string             `json:"tags"`
	Skills    []ProjectSkillRating `json:"skills"`
	Team      []TeamMember         `json:"team"`
}

// Catalog carries the reference data the project forms are populated from.
type Catalog struct {
	Clients    []Client `json:"clients"`
	Skills     []Skill  `json:"skills"`
	Tags       []Tag    `json:"tags"`
	Industries []string `json:"industries"`
}
