package script

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemodel/internal/lightstate"
	"github.com/dokzlo13/huemodel/internal/model"
)

// Applier sends states to a bridge. *bridge.Client implements it.
type Applier interface {
	SetLightState(ctx context.Context, ref any, state *lightstate.State) error
	SetGroupAction(ctx context.Context, ref any, state *lightstate.State) error
}

// Step is one light state or group action produced by a script.
type Step struct {
	Kind  model.Kind
	ID    any
	State *lightstate.State
}

func (s Step) String() string {
	return fmt.Sprintf("%s %v", s.Kind, s.ID)
}

// Plan holds the steps of a script run in the order the script first referenced them.
type Plan struct {
	steps []*Step
	index map[string]*Step
}

func newPlan() *Plan {
	return &Plan{index: make(map[string]*Step)}
}

// step returns the existing step for kind and id, creating it on first use.
func (p *Plan) step(kind model.Kind, id any) *Step {
	key := fmt.Sprintf("%s/%v", kind, id)
	if s, ok := p.index[key]; ok {
		return s
	}
	state := lightstate.New()
	if kind == model.KindGroup {
		state = lightstate.NewGroup()
	}
	s := &Step{Kind: kind, ID: id, State: state}
	p.index[key] = s
	p.steps = append(p.steps, s)
	return s
}

// Steps returns the non-empty steps.
func (p *Plan) Steps() []Step {
	out := make([]Step, 0, len(p.steps))
	for _, s := range p.steps {
		if s.State.Len() > 0 {
			out = append(out, *s)
		}
	}
	return out
}

// Len returns the number of non-empty steps.
func (p *Plan) Len() int {
	return len(p.Steps())
}

// Apply sends every step through applier, stopping at the first failure.
func (p *Plan) Apply(ctx context.Context, applier Applier) error {
	for _, s := range p.Steps() {
		var err error
		switch s.Kind {
		case model.KindLight:
			err = applier.SetLightState(ctx, s.ID, s.State)
		case model.KindGroup:
			err = applier.SetGroupAction(ctx, s.ID, s.State)
		default:
			err = fmt.Errorf("unsupported step kind %q", s.Kind)
		}
		if err != nil {
			return fmt.Errorf("failed to apply %s: %w", s, err)
		}
		log.Info().Str("step", s.String()).Msg("Applied")
	}
	return nil
}
