package record

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	records map[uuid.UUID]*ClinicalRecord
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: map[uuid.UUID]*ClinicalRecord{}}
}

func (m *mockRepo) Create(_ context.Context, r *ClinicalRecord) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *ClinicalRecord) error {
	if _, ok := m.records[r.ID]; !ok {
		return errors.New("record not found")
	}
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return errors.New("record not found")
	}
	delete(m.records, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, recordType string, _, _ int) ([]*ClinicalRecord, int, error) {
	var out []*ClinicalRecord
	for _, r := range m.records {
		if recordType == "" || string(r.RecordType) == recordType {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func validRecord() *ClinicalRecord {
	return &ClinicalRecord{
		PatientName: "测试患者",
		RecordType:  TypeAdmission,
		Content:     "主诉：发热三天。",
	}
}

func TestService_CreateValidation(t *testing.T) {
	admit := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	beforeAdmit := admit.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		mutate  func(*ClinicalRecord)
		wantErr string
	}{
		{"valid", func(r *ClinicalRecord) {}, ""},
		{"missing patient", func(r *ClinicalRecord) { r.PatientName = "" }, "patient_name"},
		{"missing type", func(r *ClinicalRecord) { r.RecordType = "" }, "record_type"},
		{"unknown type", func(r *ClinicalRecord) { r.RecordType = "outpatient" }, "record_type"},
		{"missing content", func(r *ClinicalRecord) { r.Content = "" }, "content"},
		{"discharge before admission", func(r *ClinicalRecord) {
			r.AdmissionDate = &admit
			r.DischargeDate = &beforeAdmit
		}, "discharge_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockRepo())
			r := validRecord()
			tt.mutate(r)
			err := svc.Create(context.Background(), r)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Create: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestService_CRUDRoundTrip(t *testing.T) {
	svc := NewService(newMockRepo())
	r := validRecord()

	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.Get(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.PatientName != "测试患者" {
		t.Errorf("patient = %q", got.PatientName)
	}

	got.Content = "主诉：发热五天。"
	if err := svc.Update(context.Background(), got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := svc.Delete(context.Background(), r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), r.ID); err == nil {
		t.Error("record still present after delete")
	}
}

func TestService_UpdateRejectsUnknownType(t *testing.T) {
	svc := NewService(newMockRepo())
	r := validRecord()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r.RecordType = "outpatient"
	if err := svc.Update(context.Background(), r); err == nil {
		t.Error("unknown record type accepted on update")
	}
}

func TestService_ListFiltersByType(t *testing.T) {
	svc := NewService(newMockRepo())
	for _, rt := range []RecordType{TypeAdmission, TypeAdmission, TypeSurgical} {
		r := validRecord()
		r.RecordType = rt
		if err := svc.Create(context.Background(), r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	records, total, err := svc.List(context.Background(), string(TypeAdmission), 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Errorf("got %d admission records (total %d), want 2", len(records), total)
	}

	_, total, err = svc.List(context.Background(), "", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("unfiltered total = %d, want 3", total)
	}
}
