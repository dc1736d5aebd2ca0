package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portfolio-backend-refactor/pkg/models"
)

// CreateProject inserts a project together with its owner membership,
// skill and tag junction rows, uploaded assets and optional feedback in
// one transaction. It returns the new project id.
func (s *PostgresStore) CreateProject(ctx context.Context, p *models.Project, ownerID int64, skills []models.SkillSelection, tagIDs []int64, saveAssets AssetSaver, feedback *models.Feedback) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var projectID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO projects (title, description, status, start_date, completion_date, total_hours_spent, client_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.Title, p.Description, p.Status, p.StartDate, p.CompletionDate, p.TotalHoursSpent, p.ClientID,
	).Scan(&projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO project_user (project_id, user_id)
		VALUES ($1, $2)`, projectID, ownerID); err != nil {
		return 0, fmt.Errorf("failed to add project owner: %w", err)
	}

	for _, sel := range skills {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO project_skill (project_id, skill_id, skill_proficiency_rating)
			VALUES ($1, $2, $3)`, projectID, sel.SkillID, sel.Proficiency); err != nil {
			return 0, fmt.Errorf("failed to attach skill %d: %w", sel.SkillID, err)
		}
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO project_tag (project_id, tag_id)
			VALUES ($1, $2)`, projectID, tagID); err != nil {
			return 0, fmt.Errorf("failed to attach tag %d: %w", tagID, err)
		}
	}

	if saveAssets != nil {
		assets, err := saveAssets(projectID)
		if err != nil {
			return 0, fmt.Errorf("failed to store uploads: %w", err)
		}
		if err := insertAssets(ctx, tx, projectID, assets); err != nil {
			return 0, err
		}
	}

	if feedback != nil {
		if err := insertFeedback(ctx, tx, projectID, feedback); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return projectID, nil
}

// UpdateProject applies a partial update to a project the requester is a
// member of: an optional completion (status flips to completed), new
// uploads and an optional feedback row, all in one transaction.
// A requester outside the project team gets ErrForbidden; an unknown
// project gets ErrNotFound.
func (s *PostgresStore) UpdateProject(ctx context.Context, projectID, requesterID int64, completionDate *time.Time, saveAssets AssetSaver, feedback *models.Feedback) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, projectID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	var member bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_user WHERE project_id = $1 AND user_id = $2)`,
		projectID, requesterID,
	).Scan(&member); err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return ErrForbidden
	}

	if completionDate != nil {
		if _, err := tx.ExecContext(ctx, `
			UPDATE projects
			SET status = $1, completion_date = $2
			WHERE id = $3`,
			models.StatusCompleted, *completionDate, projectID); err != nil {
			return fmt.Errorf("failed to complete project: %w", err)
		}
	}

	if saveAssets != nil {
		assets, err := saveAssets(projectID)
		if err != nil {
			return fmt.Errorf("failed to store uploads: %w", err)
		}
		if err := insertAssets(ctx, tx, projectID, assets); err != nil {
			return err
		}
	}

	if feedback != nil {
		if err := insertFeedback(ctx, tx, projectID, feedback); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertAssets(ctx context.Context, tx *sql.Tx, projectID int64, assets []models.Asset) error {
	for _, a := range assets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assets (project_id, file_name, file_type, file_size_kb, storage_location, date_uploaded)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			projectID, a.FileName, a.FileType, a.FileSizeKB, a.StorageLocation, a.DateUploaded); err != nil {
			return fmt.Errorf("failed to insert asset %s: %w", a.FileName, err)
		}
	}
	return nil
}

func insertFeedback(ctx context.Context, tx *sql.Tx, projectID int64, fb *models.Feedback) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO feedback (project_id, user_id, rating, comment, date)
		VALUES ($1, $2, $3, $4, $5)`,
		projectID, fb.UserID, fb.Rating, fb.Comment, fb.Date); err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// IsProjectMember reports whether the user is on the project team.
func (s *PostgresStore) IsProjectMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var member bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_user WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID,
	).Scan(&member)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return member, nil
}

// ListProjects returns the user's projects joined with their clients,
// narrowed by the filter.
func (s *PostgresStore) ListProjects(ctx context.Context, userID int64, filter ProjectFilter) ([]models.ProjectListItem, error) {
	query := `
		SELECT p.id, p.title, c.name, c.industry, p.start_date, p.completion_date, p.status, p.total_hours_spent
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE ` + memberScope("p.id", 1)
	args := []interface{}{userID}

	if clause, filterArgs := filter.Build(2); clause != "" {
		query += " AND " + clause
		args = append(args, filterArgs...)
	}

	query += " ORDER BY p.start_date DESC, p.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var items []models.ProjectListItem
	for rows.Next() {
		var item models.ProjectListItem
		if err := rows.Scan(
			&item.ID, &item.Title, &item.ClientName, &item.Industry,
			&item.StartDate, &item.CompletionDate, &item.Status, &item.TotalHoursSpent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetProjectDetail loads the full detail view of one project. The caller
// must be a project member; otherwise ErrForbidden is returned. An
// unknown project id yields ErrNotFound.
func (s *PostgresStore) GetProjectDetail(ctx context.Context, projectID, userID int64) (*models.ProjectDetail, error) {
	detail := &models.ProjectDetail{}

	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.title, p.description, p.status, p.start_date, p.completion_date,
		       p.total_hours_spent, c.name, c.industry, c.contact_email
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1`, projectID,
	).Scan(
		&detail.Summary.ID, &detail.Summary.Title, &detail.Summary.Description,
		&detail.Summary.Status, &detail.Summary.StartDate, &detail.Summary.CompletionDate,
		&detail.Summary.TotalHoursSpent, &detail.Summary.ClientName,
		&detail.Summary.Industry, &detail.Summary.ContactEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	member, err := s.IsProjectMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}

	if detail.TeamHours, err = s.projectTeamHours(ctx, projectID); err != nil {
		return nil, err
	}
	if detail.Assets, err = s.projectAssets(ctx, projectID); err != nil {
		return nil, err
	}
	if detail.Feedback, err = s.projectFeedback(ctx, projectID); err != nil {
		return nil, err
	}
	if detail.Tags, err = s.projectTags(ctx, projectID); err != nil {
		return nil, err
	}
	if detail.Skills, err = s.projectSkills(ctx, projectID); err != nil {
		return nil, err
	}
	if detail.Team, err = s.projectTeam(ctx, projectID); err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *PostgresStore) projectTeamHours(ctx context.Context, projectID int64) ([]models.TeamMemberHours, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.first_name || ' ' || u.last_name, COALESCE(SUM(tl.hours_worked), 0)
		FROM time_log tl
		JOIN users u ON u.id = tl.user_id
		WHERE tl.project_id = $1
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY SUM(tl.hours_worked) DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team hours: %w", err)
	}
	defer rows.Close()

	var hours []models.TeamMemberHours
	for rows.Next() {
		var h models.TeamMemberHours
		if err := rows.Scan(&h.Member, &h.Hours); err != nil {
			return nil, fmt.Errorf("failed to scan team hours: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

func (s *PostgresStore) projectAssets(ctx context.Context, projectID int64) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, file_name, file_type, file_size_kb, storage_location, date_uploaded
		FROM assets
		WHERE project_id = $1
		ORDER BY date_uploaded DESC, id DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.FileName, &a.FileType,
			&a.FileSizeKB, &a.StorageLocation, &a.DateUploaded); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *PostgresStore) projectFeedback(ctx context.Context, projectID int64) ([]models.FeedbackEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.first_name || ' ' || u.last_name, f.rating, f.comment, f.date
		FROM feedback f
		JOIN users u ON u.id = f.user_id
		WHERE f.project_id = $1
		ORDER BY f.date DESC, f.id DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}
	defer rows.Close()

	var entries []models.FeedbackEntry
	for rows.Next() {
		var e models.FeedbackEntry
		if err := rows.Scan(&e.Reviewer, &e.Rating, &e.Comment, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) projectTags(ctx context.Context, projectID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name
		FROM project_tag pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.project_id = $1
		ORDER BY t.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (s *PostgresStore) projectSkills(ctx context.Context, projectID int64) ([]models.ProjectSkillRating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sk.name, ps.skill_proficiency_rating
		FROM project_skill ps
		JOIN skills sk ON sk.id = ps.skill_id
		WHERE ps.project_id = $1
		ORDER BY sk.name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	defer rows.Close()

	var skills []models.ProjectSkillRating
	for rows.Next() {
		var r models.ProjectSkillRating
		if err := rows.Scan(&r.Skill, &r.Proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan skill rating: %w", err)
		}
		skills = append(skills, r)
	}
	return skills, rows.Err()
}

func (s *PostgresStore) projectTeam(ctx context.Context, projectID int64) ([]models.TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.first_name || ' ' || u.last_name, u.role, u.email
		FROM project_user pu
		JOIN users u ON u.id = pu.user_id
		WHERE pu.project_id = $1
		ORDER BY u.last_name, u.first_name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	defer rows.Close()

	var team []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.Name, &m.Role, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		team = append(team, m)
	}
	return team, rows.Err()
}
