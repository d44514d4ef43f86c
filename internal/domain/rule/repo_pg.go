package rule

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the Postgres-backed rule repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const ruleCols = `id, rule_id, name, category, severity, condition, status, created_at, updated_at`

func scanRule(row pgx.Row) (*Rule, error) {
	var r Rule
	err := row.Scan(&r.ID, &r.RuleID, &r.Name, &r.Category, &r.Severity,
		&r.Condition, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *Rule) error {
	r.ID = uuid.New()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO qc_rule (id, rule_id, name, category, severity, condition, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.RuleID, r.Name, r.Category, r.Severity, r.Condition, r.Status)
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return scanRule(p.pool.QueryRow(ctx, `SELECT `+ruleCols+` FROM qc_rule WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *Rule) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE qc_rule SET rule_id=$2, name=$3, category=$4, severity=$5,
			condition=$6, status=$7, updated_at=NOW()
		WHERE id = $1`,
		r.ID, r.RuleID, r.Name, r.Category, r.Severity, r.Condition, r.Status)
	return err
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM qc_rule WHERE id = $1`, id)
	return err
}

func (p *repoPG) List(ctx context.Context, category string, limit, offset int) ([]*Rule, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM qc_rule WHERE ($1 = '' OR category = $1)`, category).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := p.pool.Query(ctx, `
		SELECT `+ruleCols+` FROM qc_rule
		WHERE ($1 = '' OR category = $1)
		ORDER BY rule_id LIMIT $2 OFFSET $3`, category, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}

func (p *repoPG) ListActive(ctx context.Context) ([]*Rule, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+ruleCols+` FROM qc_rule WHERE status = 'active' ORDER BY rule_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
