package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/store"
)

func (d *DB) CreateProject(ctx context.Context, create *store.Project) (*store.Project, error) {
	now := time.Now().Unix()
	if create.CreatedTs == 0 {
		create.CreatedTs = now
	}
	if create.UpdatedTs == 0 {
		create.UpdatedTs = now
	}
	if create.Status == "" {
		create.Status = store.ProjectStatusPending
	}

	stmt := `
		INSERT INTO project (uid, creator_id, title, description, status, is_flagged_duplicate, created_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.CreatorID,
		create.Title,
		create.Description,
		create.Status,
		create.IsFlaggedDuplicate,
		create.CreatedTs,
		create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}

	return create, nil
}

func (d *DB) ListProjects(ctx context.Context, find *store.FindProject) ([]*store.Project, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.CreatorID != nil {
		where, args = append(where, "creator_id = "+placeholder(len(args)+1)), append(args, *find.CreatorID)
	}
	if find.Status != nil {
		where, args = append(where, "status = "+placeholder(len(args)+1)), append(args, string(*find.Status))
	}
	if find.ExcludeID != nil {
		where, args = append(where, "id != "+placeholder(len(args)+1)), append(args, *find.ExcludeID)
	}

	query := `
		SELECT id, uid, creator_id, title, description, status, is_flagged_duplicate, created_ts, updated_ts
		FROM project
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC
	`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
		if find.Offset != nil {
			query += " OFFSET " + placeholder(len(args)+1)
			args = append(args, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list projects")
	}
	defer rows.Close()

	list := []*store.Project{}
	for rows.Next() {
		var project store.Project
		if err := rows.Scan(
			&project.ID,
			&project.UID,
			&project.CreatorID,
			&project.Title,
			&project.Description,
			&project.Status,
			&project.IsFlaggedDuplicate,
			&project.CreatedTs,
			&project.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan project")
		}
		list = append(list, &project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateProject(ctx context.Context, update *store.UpdateProject) error {
	set, args := []string{}, []any{}

	if update.Title != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *update.Title)
	}
	if update.Description != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *update.Description)
	}
	if update.Status != nil {
		set, args = append(set, "status = "+placeholder(len(args)+1)), append(args, string(*update.Status))
	}
	if update.IsFlaggedDuplicate != nil {
		set, args = append(set, "is_flagged_duplicate = "+placeholder(len(args)+1)), append(args, *update.IsFlaggedDuplicate)
	}
	updatedTs := time.Now().Unix()
	if update.UpdatedTs != nil {
		updatedTs = *update.UpdatedTs
	}
	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, updatedTs)

	args = append(args, update.ID)
	stmt := `UPDATE project SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "failed to update project")
	}
	return nil
}

func (d *DB) DeleteProject(ctx context.Context, delete *store.DeleteProject) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM project WHERE id = `+placeholder(1), delete.ID); err != nil {
		return errors.Wrap(err, "failed to delete project")
	}
	if _, err := d.db.ExecContext(ctx,
		`DELETE FROM similarity_edge WHERE project_id = `+placeholder(1)+` OR similar_project_id = `+placeholder(2),
		delete.ID, delete.ID,
	); err != nil {
		return errors.Wrap(err, "failed to delete project similarity edges")
	}
	return nil
}
