package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"portfolio-backend-refactor/pkg/models"
)

// Aggregation reports backing the dashboard and analytics views. Every
// query carries the membership scope so one user's reports never include
// another user's projects.

// ClientEffortSummary sums recorded project hours per client.
func (s *PostgresStore) ClientEffortSummary(ctx context.Context, userID int64) ([]models.ClientEffort, error) {
	query := `
		SELECT c.name, c.industry, COALESCE(SUM(p.total_hours_spent), 0), COUNT(p.id)
		FROM clients c
		JOIN projects p ON p.client_id = c.id
		WHERE ` + memberScope("p.id", 1) + `
		GROUP BY c.id, c.name, c.industry
		ORDER BY SUM(p.total_hours_spent) DESC NULLS LAST`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to run client effort summary: %w", err)
	}
	defer rows.Close()

	var result []models.ClientEffort
	for rows.Next() {
		var r models.ClientEffort
		if err := rows.Scan(&r.Client, &r.Industry, &r.TotalHours, &r.ProjectCount); err != nil {
			return nil, fmt.Errorf("failed to scan client effort row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SkillDemand counts projects per skill, keeping skills that appear on
// more than minProjects projects.
func (s *PostgresStore) SkillDemand(ctx context.Context, userID int64, minProjects int) ([]models.SkillDemand, error) {
	query := `
		SELECT sk.name, COUNT(ps.project_id)
		FROM skills sk
		JOIN project_skill ps ON ps.skill_id = sk.id
		WHERE ` + memberScope("ps.project_id", 1) + `
		GROUP BY sk.id, sk.name
		HAVING COUNT(ps.project_id) > $2
		ORDER BY COUNT(ps.project_id) DESC, sk.name`

	rows, err := s.db.QueryContext(ctx, query, userID, minProjects)
	if err != nil {
		return nil, fmt.Errorf("failed to run skill demand report: %w", err)
	}
	defer rows.Close()

	var result []models.SkillDemand
	for rows.Next() {
		var r models.SkillDemand
		if err := rows.Scan(&r.Skill, &r.ProjectCount); err != nil {
			return nil, fmt.Errorf("failed to scan skill demand row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// InProgressAssetStats returns asset count and total size for projects
// still in progress. Projects with no assets appear with zeros.
func (s *PostgresStore) InProgressAssetStats(ctx context.Context, userID int64) ([]models.ProjectAssetStats, error) {
	query := `
		SELECT p.id, p.title, COUNT(a.id), COALESCE(SUM(a.file_size_kb), 0)
		FROM projects p
		LEFT JOIN assets a ON a.project_id = p.id
		WHERE p.status = $2 AND ` + memberScope("p.id", 1) + `
		GROUP BY p.id, p.title
		ORDER BY p.id`

	rows, err := s.db.QueryContext(ctx, query, userID, models.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to run in-progress asset report: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectAssetStats
	for rows.Next() {
		var r models.ProjectAssetStats
		if err := rows.Scan(&r.ProjectID, &r.Title, &r.AssetCount, &r.TotalSizeKB); err != nil {
			return nil, fmt.Errorf("failed to scan asset stats row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// SkillProficiencyAverages averages the recorded proficiency rating per skill.
func (s *PostgresStore) SkillProficiencyAverages(ctx context.Context, userID int64) ([]models.SkillProficiency, error) {
	query := `
		SELECT sk.name, ROUND(AVG(ps.skill_proficiency_rating)::numeric, 2)
		FROM skills sk
		JOIN project_skill ps ON ps.skill_id = sk.id
		WHERE ` + memberScope("ps.project_id", 1) + `
		GROUP BY sk.id, sk.name
		ORDER BY AVG(ps.skill_proficiency_rating) DESC, sk.name`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to run proficiency report: %w", err)
	}
	defer rows.Close()

	var result []models.SkillProficiency
	for rows.Next() {
		var r models.SkillProficiency
		if err := rows.Scan(&r.Skill, &r.AverageRating); err != nil {
			return nil, fmt.Errorf("failed to scan proficiency row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// TopReviewer returns the single most active feedback author, breaking
// ties by lowest user id. No feedback at all yields (nil, nil).
func (s *PostgresStore) TopReviewer(ctx context.Context, userID int64) (*models.ReviewerActivity, error) {
	query := `
		SELECT u.id, u.first_name || ' ' || u.last_name, u.role, COUNT(f.id)
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		WHERE ` + memberScope("f.project_id", 1) + `
		GROUP BY u.id, u.first_name, u.last_name, u.role
		ORDER BY COUNT(f.id) DESC, u.id ASC
		LIMIT 1`

	r := &models.ReviewerActivity{}
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&r.UserID, &r.Reviewer, &r.Role, &r.FeedbackCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to run top reviewer report: %w", err)
	}
	return r, nil
}

// TopProjectsByEffort lists the highest-effort projects, up to limit.
// Projects with no recorded hours are excluded rather than ranked last.
func (s *PostgresStore) TopProjectsByEffort(ctx context.Context, userID int64, limit int) ([]models.ProjectEffort, error) {
	query := `
		SELECT p.id, p.title, c.name, p.completion_date, p.total_hours_spent
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.total_hours_spent IS NOT NULL AND ` + memberScope("p.id", 1) + `
		ORDER BY p.total_hours_spent DESC, p.id
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run top projects report: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectEffort
	for rows.Next() {
		var r models.ProjectEffort
		if err := rows.Scan(&r.ProjectID, &r.Title, &r.ClientName, &r.CompletionDate, &r.TotalHours); err != nil {
			return nil, fmt.Errorf("failed to scan top project row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// WorkloadByRole sums logged hours per user role.
func (s *PostgresStore) WorkloadByRole(ctx context.Context, userID int64) ([]models.RoleWorkload, error) {
	query := `
		SELECT u.role, COALESCE(SUM(tl.hours_worked), 0)
		FROM time_log tl
		JOIN users u ON u.id = tl.user_id
		WHERE ` + memberScope("tl.project_id", 1) + `
		GROUP BY u.role
		ORDER BY SUM(tl.hours_worked) DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to run role workload report: %w", err)
	}
	defer rows.Close()

	var result []models.RoleWorkload
	for rows.Next() {
		var r models.RoleWorkload
		if err := rows.Scan(&r.Role, &r.TotalHours); err != nil {
			return nil, fmt.Errorf("failed to scan role workload row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// FileTypeDistribution counts assets and total size per file type.
func (s *PostgresStore) FileTypeDistribution(ctx context.Context, userID int64) ([]models.FileTypeStat, error) {
	query := `
		SELECT a.file_type, COUNT(a.id), COALESCE(SUM(a.file_size_kb), 0)
		FROM assets a
		WHERE ` + memberScope("a.project_id", 1) + `
		GROUP BY a.file_type
		ORDER BY COUNT(a.id) DESC, a.file_type`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to run file type report: %w", err)
	}
	defer rows.Close()

	var result []models.FileTypeStat
	for rows.Next() {
		var r models.FileTypeStat
		if err := rows.Scan(&r.FileType, &r.Count, &r.TotalSizeKB); err != nil {
			return nil, fmt.Errorf("failed to scan file type row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// CollaborativeProjects lists projects with more than one team member.
func (s *PostgresStore) CollaborativeProjects(ctx context.Context, userID int64) ([]models.CollaborativeProject, error) {
	query := `
		SELECT p.id, p.title, COUNT(pu.user_id)
		FROM projects p
		JOIN project_user pu ON pu.project_id = p.id
		WHERE ` + memberScope("p.id", 1) + `
		GROUP BY p.id, p.title
		HAVING COUNT(pu.user_id) > 1
		ORDER BY COUNT(pu.user_id) DESC, p.id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to run collaboration report: %w", err)
	}
	defer rows.Close()

	var result []models.CollaborativeProject
	for rows.Next() {
		var r models.CollaborativeProject
		if err := rows.Scan(&r.ProjectID, &r.Title, &r.Collaborators); err != nil {
			return nil, fmt.Errorf("failed to scan collaboration row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ProjectsWithoutAssets lists projects that have no asset rows at all.
func (s *PostgresStore) ProjectsWithoutAssets(ctx context.Context, userID int64) ([]models.ProjectWithoutAssets, error) {
	query := `
		SELECT p.id, p.title, p.start_date, p.description
		FROM projects p
		WHERE NOT EXISTS (SELECT 1 FROM assets a WHERE a.project_id = p.id)
		  AND ` + memberScope("p.id", 1) + `
		ORDER BY p.start_date DESC, p.id`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to run missing assets report: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectWithoutAssets
	for rows.Next() {
		var r models.ProjectWithoutAssets
		if err := rows.Scan(&r.ProjectID, &r.Title, &r.StartDate, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan missing assets row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ProjectsBySkillAndTag lists projects carrying both the named skill and
// the named tag. Names are matched exactly.
func (s *PostgresStore) ProjectsBySkillAndTag(ctx context.Context, userID int64, skillName, tagName string) ([]models.TaggedProject, error) {
	query := `
		SELECT DISTINCT p.id, p.title, p.completion_date
		FROM projects p
		JOIN project_skill ps ON ps.project_id = p.id
		JOIN skills sk ON sk.id = ps.skill_id
		JOIN project_tag pt ON pt.project_id = p.id
		JOIN tags t ON t.id = pt.tag_id
		WHERE sk.name = $2 AND t.name = $3
		  AND ` + memberScope("p.id", 1) + `
		ORDER BY p.id`

	rows, err := s.db.QueryContext(ctx, query, userID, skillName, tagName)
	if err != nil {
		return nil, fmt.Errorf("failed to run skill and tag report: %w", err)
	}
	defer rows.Close()

	var result []models.TaggedProject
	for rows.Next() {
		var r models.TaggedProject
		if err := rows.Scan(&r.ProjectID, &r.Title, &r.CompletionDate); err != nil {
			return nil, fmt.Errorf("failed to scan skill and tag row: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
