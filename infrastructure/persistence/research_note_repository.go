package persistence

import (
	"context"
	"database/sql"
	"time"

	"command-center/domain/model"
)

const researchNoteColumns = `id, user_id, title, content, tags, summary, created_at, updated_at`

type ResearchNoteRepository struct{ db *sql.DB }

func NewResearchNoteRepository(db *sql.DB) *ResearchNoteRepository {
	return &ResearchNoteRepository{db: db}
}

func (r *ResearchNoteRepository) Create(ctx context.Context, n *model.ResearchNote) error {
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	row := r.db.QueryRowContext(ctx, `INSERT INTO research_notes (user_id, title, content, tags, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		n.UserID, n.Title, n.Content, n.Tags, n.CreatedAt, n.UpdatedAt)
	return row.Scan(&n.ID)
}

func (r *ResearchNoteRepository) GetById(ctx context.Context, userID string, id int64) (*model.ResearchNote, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+researchNoteColumns+` FROM research_notes WHERE user_id=$1 AND id=$2`, userID, id)
	return scanResearchNote(row)
}

func (r *ResearchNoteRepository) List(ctx context.Context, userID string, limit int) ([]model.ResearchNote, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+researchNoteColumns+` FROM research_notes WHERE user_id=$1 ORDER BY updated_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResearchNotes(rows)
}

func (r *ResearchNoteRepository) Update(ctx context.Context, n *model.ResearchNote) error {
	n.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE research_notes SET title=$1, content=$2, tags=$3, updated_at=$4 WHERE user_id=$5 AND id=$6`,
		n.Title, n.Content, n.Tags, n.UpdatedAt, n.UserID, n.ID)
	if err != nil {
		return err
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ResearchNoteRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM research_notes WHERE user_id=$1 AND id=$2`, userID, id)
	if err != nil {
		return err
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Search matches titles and content case-insensitively.
func (r *ResearchNoteRepository) Search(ctx context.Context, userID, query string, limit int) ([]model.ResearchNote, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `SELECT `+researchNoteColumns+` FROM research_notes WHERE user_id=$1 AND (title ILIKE $2 OR content ILIKE $2) ORDER BY updated_at DESC LIMIT $3`, userID, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResearchNotes(rows)
}

func (r *ResearchNoteRepository) SetSummary(ctx context.Context, userID string, id int64, summary string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE research_notes SET summary=$1, updated_at=$2 WHERE user_id=$3 AND id=$4`, summary, time.Now().UTC(), userID, id)
	if err != nil {
		return err
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanResearchNote(row *sql.Row) (*model.ResearchNote, error) {
	var n model.ResearchNote
	var summary sql.NullString
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags, &summary, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if summary.Valid {
		v := summary.String
		n.Summary = &v
	}
	return &n, nil
}

func scanResearchNotes(rows *sql.Rows) ([]model.ResearchNote, error) {
	out := make([]model.ResearchNote, 0)
	for rows.Next() {
		var n model.ResearchNote
		var summary sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags, &summary, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		if summary.Valid {
			v := summary.String
			n.Summary = &v
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
