package persistence

import (
	"context"
	"database/sql"
	"time"

	"command-center/domain/model"
)

type AgentRepository struct{ db *sql.DB }

func NewAgentRepository(db *sql.DB) *AgentRepository { return &AgentRepository{db: db} }

func (r *AgentRepository) Create(ctx context.Context, a *model.Agent) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	row := r.db.QueryRowContext(ctx, `INSERT INTO agents (user_id, name, description, model, system_prompt, skill_manifest, enabled, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		a.UserID, a.Name, a.Description, a.Model, a.SystemPrompt, nullableJSON(a.SkillManifest), a.Enabled, a.CreatedAt, a.UpdatedAt)
	return row.Scan(&a.ID)
}

func (r *AgentRepository) GetById(ctx context.Context, userID string, id int64) (*model.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, name, description, model, system_prompt, skill_manifest, enabled, created_at, updated_at FROM agents WHERE user_id=$1 AND id=$2`, userID, id)
	return scanAgent(row.Scan)
}

func (r *AgentRepository) List(ctx context.Context, userID string) ([]model.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, name, description, model, system_prompt, skill_manifest, enabled, created_at, updated_at FROM agents WHERE user_id=$1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Agent, 0)
	for rows.Next() {
		a, err := scanAgent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AgentRepository) Update(ctx context.Context, a *model.Agent) error {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE agents SET name=$1, description=$2, model=$3, system_prompt=$4, skill_manifest=$5, enabled=$6, updated_at=$7 WHERE user_id=$8 AND id=$9`,
		a.Name, a.Description, a.Model, a.SystemPrompt, nullableJSON(a.SkillManifest), a.Enabled, a.UpdatedAt, a.UserID, a.ID)
	if err != nil {
		return err
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE user_id=$1 AND id=$2`, userID, id)
	if err != nil {
		return err
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AgentRepository) UpsertMemory(ctx context.Context, m *model.AgentMemory) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	q := `INSERT INTO agent_memory (agent_id, user_id, key, value, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6)
		  ON CONFLICT (agent_id, key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, m.AgentID, m.UserID, m.Key, m.Value, m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *AgentRepository) ListMemory(ctx context.Context, userID string, agentID int64) ([]model.AgentMemory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, agent_id, user_id, key, value, created_at, updated_at FROM agent_memory WHERE user_id=$1 AND agent_id=$2 ORDER BY key`, userID, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AgentMemory, 0)
	for rows.Next() {
		var m model.AgentMemory
		if err := rows.Scan(&m.ID, &m.AgentID, &m.UserID, &m.Key, &m.Value, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *AgentRepository) GetApprovalPolicy(ctx context.Context, userID string, agentID int64) (*model.ApprovalPolicy, error) {
	row := r.db.QueryRowContext(ctx, `SELECT agent_id, user_id, require_approval, auto_approve_read, updated_at FROM approval_policies WHERE user_id=$1 AND agent_id=$2`, userID, agentID)
	p := &model.ApprovalPolicy{}
	if err := row.Scan(&p.AgentID, &p.UserID, &p.RequireApproval, &p.AutoApproveRead, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *AgentRepository) UpsertApprovalPolicy(ctx context.Context, p *model.ApprovalPolicy) error {
	p.UpdatedAt = time.Now().UTC()
	q := `INSERT INTO approval_policies (agent_id, user_id, require_approval, auto_approve_read, updated_at)
		  VALUES ($1,$2,$3,$4,$5)
		  ON CONFLICT (agent_id) DO UPDATE SET
			require_approval=EXCLUDED.require_approval,
			auto_approve_read=EXCLUDED.auto_approve_read,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, p.AgentID, p.UserID, p.RequireApproval, p.AutoApproveRead, p.UpdatedAt)
	return err
}

func (r *AgentRepository) AppendTestLog(ctx context.Context, l *model.AgentTestLog) error {
	l.CreatedAt = time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `INSERT INTO agent_test_logs (agent_id, user_id, input, output, passed, created_at) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		l.AgentID, l.UserID, l.Input, l.Output, l.Passed, l.CreatedAt)
	return row.Scan(&l.ID)
}

func (r *AgentRepository) ListTestLogs(ctx context.Context, userID string, agentID int64, limit int) ([]model.AgentTestLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, agent_id, user_id, input, output, passed, created_at FROM agent_test_logs WHERE user_id=$1 AND agent_id=$2 ORDER BY created_at DESC LIMIT $3`, userID, agentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AgentTestLog, 0)
	for rows.Next() {
		var l model.AgentTestLog
		if err := rows.Scan(&l.ID, &l.AgentID, &l.UserID, &l.Input, &l.Output, &l.Passed, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanAgent(scan func(...interface{}) error) (*model.Agent, error) {
	a := &model.Agent{}
	var manifest []byte
	if err := scan(&a.ID, &a.UserID, &a.Name, &a.Description, &a.Model, &a.SystemPrompt, &manifest, &a.Enabled, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if len(manifest) > 0 {
		a.SkillManifest = manifest
	}
	return a, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
