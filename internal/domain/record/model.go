package record

import (
	"time"

	"github.com/google/uuid"
)

// RecordType enumerates the clinical document types the QC engine accepts.
type RecordType string

const (
	TypeAdmission        RecordType = "admission"
	TypeProgress         RecordType = "progress"
	TypeWardRound        RecordType = "ward_round"
	TypeSurgical         RecordType = "surgical"
	TypeDischargeSummary RecordType = "discharge_summary"
	TypeConsultation     RecordType = "consultation"
	TypeNursing          RecordType = "nursing"
)

// ValidTypes lists the accepted record types.
var ValidTypes = map[RecordType]bool{
	TypeAdmission: true, TypeProgress: true, TypeWardRound: true,
	TypeSurgical: true, TypeDischargeSummary: true,
	TypeConsultation: true, TypeNursing: true,
}

// ClinicalRecord maps to the clinical_record table. The QC core treats it
// as read-only input.
type ClinicalRecord struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientName   string     `db:"patient_name" json:"patient_name"`
	RecordType    RecordType `db:"record_type" json:"record_type"`
	Department    *string    `db:"department" json:"department,omitempty"`
	Content       string     `db:"content" json:"content"`
	AdmissionDate *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	DischargeDate *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
