package commands

import (
	"fmt"
	"time"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/carryover"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// env is what a command needs to touch tasks.
type env struct {
	Config  store.Config
	Service *app.Service
	TC      timeutil.Context
}

func openEnv() (*env, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	p, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	return &env{
		Config:  cfg,
		Service: &app.Service{Persistence: p},
		TC:      timeutil.For(time.Now()),
	}, nil
}

// detector opens the client-local state used by carryover.
func (e *env) detector() (*carryover.Detector, error) {
	kv, err := store.OpenLocalState(e.Config.StatePath())
	if err != nil {
		return nil, fmt.Errorf("open local state: %w", err)
	}
	return e.Service.Carryover(kv, e.TC.Loc()), nil
}

func (e *env) Close() error {
	return e.Service.Persistence.Close()
}
