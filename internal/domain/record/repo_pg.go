package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the Postgres-backed record repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const recordCols = `id, patient_name, record_type, department, content,
	admission_date, discharge_date, created_at, updated_at`

func scanRecord(row pgx.Row) (*ClinicalRecord, error) {
	var r ClinicalRecord
	err := row.Scan(&r.ID, &r.PatientName, &r.RecordType, &r.Department, &r.Content,
		&r.AdmissionDate, &r.DischargeDate, &r.CreatedAt, &r.UpdatedAt)
	return &r, err
}

func (p *repoPG) Create(ctx context.Context, r *ClinicalRecord) error {
	r.ID = uuid.New()
	_, err := p.pool.Exec(ctx, `
		INSERT INTO clinical_record (id, patient_name, record_type, department, content,
			admission_date, discharge_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		r.ID, r.PatientName, r.RecordType, r.Department, r.Content,
		r.AdmissionDate, r.DischargeDate)
	return err
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	return scanRecord(p.pool.QueryRow(ctx,
		`SELECT `+recordCols+` FROM clinical_record WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *ClinicalRecord) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE clinical_record SET patient_name=$2, record_type=$3, department=$4,
			content=$5, admission_date=$6, discharge_date=$7, updated_at=NOW()
		WHERE id = $1`,
		r.ID, r.PatientName, r.RecordType, r.Department, r.Content,
		r.AdmissionDate, r.DischargeDate)
	return err
}

func (p *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM clinical_record WHERE id = $1`, id)
	return err
}

func (p *repoPG) List(ctx context.Context, recordType string, limit, offset int) ([]*ClinicalRecord, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM clinical_record
		WHERE ($1 = '' OR record_type = $1)`, recordType).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := p.pool.Query(ctx, `
		SELECT `+recordCols+` FROM clinical_record
		WHERE ($1 = '' OR record_type = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, recordType, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*ClinicalRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
