package qc

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the Postgres-backed QC result repository. Scores and
// issues are stored as JSONB.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const resultCols = `id, record_id, total_score, overall_score, status, scores, issues, mode, state, created_at`

func scanResult(row pgx.Row) (*Result, error) {
	var r Result
	var scoresJSON, issuesJSON []byte
	err := row.Scan(&r.ID, &r.RecordID, &r.TotalScore, &r.OverallScore, &r.Status,
		&scoresJSON, &issuesJSON, &r.Mode, &r.State, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &r.Scores); err != nil {
			return nil, err
		}
	}
	if len(issuesJSON) > 0 {
		if err := json.Unmarshal(issuesJSON, &r.Issues); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

func (p *repoPG) Create(ctx context.Context, r *Result) error {
	r.ID = uuid.New()
	scoresJSON, err := json.Marshal(r.Scores)
	if err != nil {
		return err
	}
	issuesJSON, err := json.Marshal(r.Issues)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO qc_result (id, record_id, total_score, overall_score, status, scores, issues, mode, state)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		r.ID, r.RecordID, r.TotalScore, r.OverallScore, r.Status,
		scoresJSON, issuesJSON, r.Mode, r.State)
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Result, error) {
	return scanResult(p.pool.QueryRow(ctx,
		`SELECT `+resultCols+` FROM qc_result WHERE id = $1`, id))
}

func (p *repoPG) ListByRecord(ctx context.Context, recordID uuid.UUID, limit, offset int) ([]*Result, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM qc_result WHERE record_id = $1`, recordID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `
		SELECT `+resultCols+` FROM qc_result WHERE record_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, recordID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectResults(rows, total)
}

func (p *repoPG) List(ctx context.Context, status string, limit, offset int) ([]*Result, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM qc_result WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := p.pool.Query(ctx, `
		SELECT `+resultCols+` FROM qc_result WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectResults(rows, total)
}

func collectResults(rows pgx.Rows, total int) ([]*Result, int, error) {
	var out []*Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
