package health

import (
	"context"
	"sort"
	"time"
)

const checkTimeout = 2 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// Status is the health payload.
type Status struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Check
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: make(map[string]Check)}
}

// Register adds a named check.
func (s *Service) Register(name string, check Check) {
	s.checks[name] = check
}

// Status runs every check and reports "ok" or the error text per check.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true}
	if len(s.checks) == 0 {
		return out
	}
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out.Checks = make(map[string]string, len(names))
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := s.checks[name](cctx)
		cancel()
		if err != nil {
			out.OK = false
			out.Checks[name] = err.Error()
			continue
		}
		out.Checks[name] = "ok"
	}
	return out
}
