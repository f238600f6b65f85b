package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const TagRule = "rule"

var ruleDefinition = Definition{
	Tag:     TagRule,
	Kind:    KindRule,
	Version: 1,
	Schema: types.MustSchema(
		types.UInt16("id", types.Range(1, 65535)),
		types.NewString("name", types.Length(0, 32), types.Optional()),
		types.NewString("owner", types.Optional()),
		types.NewString("created", types.Optional()),
		types.NewString("lasttriggered", types.Optional()),
		types.Int32("timestriggered", types.Range(0, 2147483647), types.Optional()),
		types.NewChoice("status", types.Strings("enabled", "disabled", "resourcedeleted"), types.Default("enabled")),
		types.NewBoolean("recycle", types.Optional()),
		types.NewList("conditions", types.NewObject("", types.MustSchema(
			types.NewString("address", types.Length(1, 64)),
			types.NewChoice("operator", types.Strings("eq", "gt", "lt", "dx", "ddx", "stable", "not stable", "in", "not in")),
			types.NewString("value", types.Length(1, 64), types.Optional()),
		)), types.Entries(1, 8)),
		types.NewList("actions", types.NewObject("", commandSchema), types.Entries(1, 8)),
	),
	Identified: true,
}

// Condition is one trigger of a rule.
type Condition struct {
	Address  string `json:"address"`
	Operator string `json:"operator"`
	Value    string `json:"value,omitempty"`
}

// Rule is the typed view of a rule entity.
type Rule struct {
	*Entity
}

// NewRule creates an empty rule with the given id.
func NewRule(id any) (*Rule, error) {
	e, err := NewIdentified(ruleDefinition, id)
	if err != nil {
		return nil, err
	}
	return &Rule{Entity: e}, nil
}

func AsRule(e *Entity) (*Rule, bool) {
	if e == nil || e.Kind() != KindRule {
		return nil, false
	}
	return &Rule{Entity: e}, true
}

func (r *Rule) Name() string { return r.stringValue("name") }

func (r *Rule) Enabled() bool { return r.stringValue("status") == "enabled" }

func (r *Rule) Conditions() ([]Condition, error) {
	var out []Condition
	if raw := r.value("conditions"); raw != nil {
		if err := decode(raw, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Rule) Actions() ([]Command, error) {
	var out []Command
	if raw := r.value("actions"); raw != nil {
		if err := decode(raw, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetConditions validates and replaces the rule conditions.
func (r *Rule) SetConditions(conditions ...Condition) error {
	list := make([]any, len(conditions))
	for i, c := range conditions {
		m := map[string]any{"address": c.Address, "operator": c.Operator}
		if c.Value != "" {
			m["value"] = c.Value
		}
		list[i] = m
	}
	return r.Set("conditions", list)
}

// SetActions validates and replaces the rule actions.
func (r *Rule) SetActions(actions ...Command) error {
	list := make([]any, len(actions))
	for i, a := range actions {
		list[i] = a.toMap()
	}
	return r.Set("actions", list)
}
