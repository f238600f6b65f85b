package model

import (
	"github.com/dokzlo13/huemodel/internal/types"
)

const TagSchedule = "schedule"

var commandSchema = types.MustSchema(
	types.NewString("address", types.Length(1, 64)),
	types.NewChoice("method", types.Strings("POST", "PUT", "DELETE")),
	types.NewAnyObject("body", types.Optional()),
)

var scheduleDefinition = Definition{
	Tag:     TagSchedule,
	Kind:    KindSchedule,
	Version: 1,
	Schema: types.MustSchema(
		types.UInt16("id", types.Range(1, 65535)),
		types.NewString("name", types.Length(0, 32), types.Optional()),
		types.NewString("description", types.Length(0, 64), types.Optional()),
		types.NewObject("command", commandSchema, types.Optional()),
		types.NewString("localtime", types.Optional()),
		types.NewString("time", types.Optional()),
		types.NewString("created", types.Optional()),
		types.NewString("starttime", types.Optional()),
		types.NewChoice("status", types.Strings("enabled", "disabled"), types.Default("enabled")),
		types.NewBoolean("autodelete", types.Optional()),
		types.NewBoolean("recycle", types.Optional()),
	),
	Identified: true,
}

// Command is a bridge API call carried by schedules and rule actions.
type Command struct {
	Address string         `json:"address"`
	Method  string         `json:"method"`
	Body    map[string]any `json:"body,omitempty"`
}

func (c Command) toMap() map[string]any {
	m := map[string]any{"address": c.Address, "method": c.Method}
	if c.Body != nil {
		m["body"] = c.Body
	}
	return m
}

// Schedule is the typed view of a schedule entity.
type Schedule struct {
	*Entity
}

// NewSchedule creates an empty schedule with the given id.
func NewSchedule(id any) (*Schedule, error) {
	e, err := NewIdentified(scheduleDefinition, id)
	if err != nil {
		return nil, err
	}
	return &Schedule{Entity: e}, nil
}

func AsSchedule(e *Entity) (*Schedule, bool) {
	if e == nil || e.Kind() != KindSchedule {
		return nil, false
	}
	return &Schedule{Entity: e}, true
}

func (s *Schedule) Name() string { return s.stringValue("name") }

// LocalTime returns the bridge time pattern, e.g. "W124/T06:30:00".
func (s *Schedule) LocalTime() string { return s.stringValue("localtime") }

func (s *Schedule) Enabled() bool { return s.stringValue("status") == "enabled" }

// Command decodes the scheduled command.
func (s *Schedule) Command() (Command, error) {
	var cmd Command
	raw, _ := s.value("command").(map[string]any)
	if raw == nil {
		return cmd, nil
	}
	err := decode(raw, &cmd)
	return cmd, err
}

// SetCommand validates and stores cmd.
func (s *Schedule) SetCommand(cmd Command) error {
	return s.Set("command", cmd.toMap())
}
