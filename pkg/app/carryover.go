package app

import (
	"time"

	"tableflip.dev/dayplan/pkg/carryover"
)

var (
	_ carryover.Source  = (*Service)(nil)
	_ carryover.Mutator = Facade{}
)

// Carryover returns a detector that reads tasks through s, applies
// resolutions through a Facade and keeps its markers in kv.
func (s *Service) Carryover(kv carryover.KV, loc *time.Location) *carryover.Detector {
	return &carryover.Detector{
		KV:      kv,
		Source:  s,
		Mutator: Facade{Service: s, Location: loc},
	}
}
