package rule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rule maps to the qc_rule table. Condition holds the raw JSON condition;
// the typed form is parsed once at load via Parsed().
type Rule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RuleID    string    `db:"rule_id" json:"rule_id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Severity  string    `db:"severity" json:"severity"`
	Condition string    `db:"condition" json:"condition"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	parsed    *Condition
	parseErr  error
	parseDone bool
}

// ConditionKind discriminates the typed condition variants.
type ConditionKind string

const (
	CondMustContainEntity   ConditionKind = "must_contain_entity"
	CondMustContainDuration ConditionKind = "must_contain_duration"
	CondMustNotBeGeneric    ConditionKind = "must_not_be_generic"
)

// Condition is the closed set of typed rule conditions. Fields are
// populated per Kind: EntityType/MinCount for must_contain_entity,
// Phrases for must_not_be_generic.
type Condition struct {
	Kind         ConditionKind `json:"kind"`
	DocumentType string        `json:"document_type,omitempty"`
	Section      string        `json:"section,omitempty"`
	EntityType   string        `json:"entity_type,omitempty"`
	MinCount     int           `json:"min_count,omitempty"`
	Phrases      []string      `json:"phrases,omitempty"`
}

// ParseCondition parses a raw condition JSON blob into its typed form.
func ParseCondition(raw string) (*Condition, error) {
	if raw == "" {
		return nil, fmt.Errorf("condition is empty")
	}
	var c Condition
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("parse condition: %w", err)
	}
	switch c.Kind {
	case CondMustContainEntity:
		if c.EntityType == "" {
			return nil, fmt.Errorf("must_contain_entity requires entity_type")
		}
		if c.MinCount <= 0 {
			c.MinCount = 1
		}
	case CondMustContainDuration:
		// no extra fields
	case CondMustNotBeGeneric:
		if len(c.Phrases) == 0 {
			return nil, fmt.Errorf("must_not_be_generic requires phrases")
		}
	default:
		return nil, fmt.Errorf("unknown condition kind: %q", c.Kind)
	}
	return &c, nil
}

// Parsed returns the typed condition, parsing it on first call. A rule
// with a malformed condition returns an error and is skipped by checkers,
// never re-parsed per check.
func (r *Rule) Parsed() (*Condition, error) {
	if !r.parseDone {
		r.parsed, r.parseErr = ParseCondition(r.Condition)
		r.parseDone = true
	}
	return r.parsed, r.parseErr
}

// Active reports whether the rule participates in QC runs.
func (r *Rule) Active() bool {
	return r.Status == "active"
}
