package rule

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	rules map[uuid.UUID]*Rule
}

func newMockRepo() *mockRepo {
	return &mockRepo{rules: map[uuid.UUID]*Rule{}}
}

func (m *mockRepo) Create(_ context.Context, r *Rule) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.rules[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Rule, error) {
	r, ok := m.rules[id]
	if !ok {
		return nil, errors.New("rule not found")
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *Rule) error {
	if _, ok := m.rules[r.ID]; !ok {
		return errors.New("rule not found")
	}
	m.rules[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rules[id]; !ok {
		return errors.New("rule not found")
	}
	delete(m.rules, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, category string, _, _ int) ([]*Rule, int, error) {
	var out []*Rule
	for _, r := range m.rules {
		if category == "" || r.Category == category {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListActive(_ context.Context) ([]*Rule, error) {
	var out []*Rule
	for _, r := range m.rules {
		if r.Active() {
			out = append(out, r)
		}
	}
	return out, nil
}

func validRule() *Rule {
	return &Rule{
		RuleID:    "CR001",
		Name:      "现病史需含病程时长",
		Category:  "content_rule",
		Severity:  "major",
		Condition: `{"kind":"must_contain_duration","section":"present_illness"}`,
	}
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantErr string
	}{
		{"valid", func(r *Rule) {}, ""},
		{"missing rule id", func(r *Rule) { r.RuleID = "" }, "rule_id"},
		{"missing name", func(r *Rule) { r.Name = "" }, "name"},
		{"bad severity", func(r *Rule) { r.Severity = "blocker" }, "severity"},
		{"empty condition", func(r *Rule) { r.Condition = "" }, "condition"},
		{"malformed condition", func(r *Rule) { r.Condition = `{"kind":"nope"}` }, "condition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockRepo())
			r := validRule()
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

func TestService_CreateDefaultsStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	r := validRule()

	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Status != "active" {
		t.Errorf("status = %q, want active", r.Status)
	}
}

func TestService_UpdateValidation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	r := validRule()
	if err := svc.Create(context.Background(), r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r.Severity = "blocker"
	if err := svc.Update(context.Background(), r); err == nil {
		t.Error("invalid severity accepted on update")
	}

	r.Severity = "minor"
	r.Condition = "not json"
	if err := svc.Update(context.Background(), r); err == nil {
		t.Error("malformed condition accepted on update")
	}

	r.Condition = `{"kind":"must_contain_duration"}`
	if err := svc.Update(context.Background(), r); err != nil {
		t.Errorf("valid update rejected: %v", err)
	}
}

func TestService_ContentRules(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	applies := validRule()
	if err := svc.Create(context.Background(), applies); err != nil {
		t.Fatalf("Create: %v", err)
	}

	scoped := validRule()
	scoped.RuleID = "CR002"
	scoped.Condition = `{"kind":"must_contain_duration","document_type":"surgical"}`
	if err := svc.Create(context.Background(), scoped); err != nil {
		t.Fatalf("Create: %v", err)
	}

	other := validRule()
	other.RuleID = "CR003"
	other.Category = "completeness"
	if err := svc.Create(context.Background(), other); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// malformed condition slipped into storage directly
	broken := &Rule{ID: uuid.New(), RuleID: "CR004", Name: "坏", Category: "content_rule",
		Severity: "minor", Condition: `{"kind":"nope"}`, Status: "active"}
	repo.rules[broken.ID] = broken

	rules, err := svc.ContentRules(context.Background(), "admission")
	if err != nil {
		t.Fatalf("ContentRules: %v", err)
	}
	if len(rules) != 1 || rules[0].RuleID != "CR001" {
		t.Errorf("unexpected content rules: %v", ruleIDs(rules))
	}

	rules, err = svc.ContentRules(context.Background(), "surgical")
	if err != nil {
		t.Fatalf("ContentRules: %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("surgical rules = %v, want CR001 and CR002", ruleIDs(rules))
	}
}

func ruleIDs(rules []*Rule) []string {
	var out []string
	for _, r := range rules {
		out = append(out, r.RuleID)
	}
	return out
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"duration", `{"kind":"must_contain_duration"}`, false},
		{"entity", `{"kind":"must_contain_entity","entity_type":"diagnosis"}`, false},
		{"entity missing type", `{"kind":"must_contain_entity"}`, true},
		{"generic", `{"kind":"must_not_be_generic","phrases":["病情同前"]}`, false},
		{"generic without phrases", `{"kind":"must_not_be_generic"}`, true},
		{"unknown kind", `{"kind":"whatever"}`, true},
		{"empty", ``, true},
		{"bad json", `{kind}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCondition(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseCondition(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestParseCondition_EntityMinCountDefaults(t *testing.T) {
	c, err := ParseCondition(`{"kind":"must_contain_entity","entity_type":"diagnosis"}`)
	if err != nil {
		t.Fatalf("ParseCondition: %v", err)
	}
	if c.MinCount != 1 {
		t.Errorf("min count = %d, want 1", c.MinCount)
	}
}

func TestRule_ParsedCaches(t *testing.T) {
	r := validRule()
	first, err := r.Parsed()
	if err != nil {
		t.Fatalf("Parsed: %v", err)
	}
	// mutating the raw condition after the first parse has no effect
	r.Condition = `{"kind":"nope"}`
	second, err := r.Parsed()
	if err != nil {
		t.Fatalf("Parsed after mutation: %v", err)
	}
	if first != second {
		t.Error("parsed condition not cached")
	}
}
