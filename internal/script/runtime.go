// Package script runs Lua scripts that describe light states and group actions.
// A run never talks to the bridge; it yields a Plan which the caller applies.
package script

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huemodel/internal/lightstate"
	"github.com/dokzlo13/huemodel/internal/model"
)

// Options configures a script run.
type Options struct {
	// Gamut is used by rgb(); the zero value means gamut C.
	Gamut lightstate.Gamut
	// Resources are exposed read-only through hue.resources(kind).
	Resources []*model.Entity
}

// Run executes source in a fresh Lua state and returns the resulting plan.
func Run(ctx context.Context, name, source string, opts Options) (*Plan, error) {
	if opts.Gamut == (lightstate.Gamut{}) {
		opts.Gamut = lightstate.GamutC
	}

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	plan := newPlan()
	registerStateBuilderType(L)
	L.PreloadModule("hue", newHueModule(plan, opts.Gamut, opts.Resources).Loader)

	fn, err := L.LoadString(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load script %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, fmt.Errorf("script %s failed: %w", name, err)
	}

	log.Debug().
		Str("script", name).
		Int("steps", plan.Len()).
		Msg("Script finished")
	return plan, nil
}

// RunFile reads and runs the script at path.
func RunFile(ctx context.Context, path string, opts Options) (*Plan, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Run(ctx, path, string(source), opts)
}
