package ports

import "context"

// HealthChecker checks external dependency health.
type HealthChecker interface {
	// Ping verifies connectivity. Returns nil if healthy.
	Ping(ctx context.Context) error
	// Name returns the dependency name (e.g., "postgresql", "redis").
	Name() string
}

// HealthStatus is the outcome of pinging one dependency.
type HealthStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// CheckAll pings every checker and reports whether all of them are healthy.
func CheckAll(ctx context.Context, checkers ...HealthChecker) ([]HealthStatus, bool) {
	statuses := make([]HealthStatus, 0, len(checkers))
	ok := true
	for _, c := range checkers {
		st := HealthStatus{Name: c.Name(), Healthy: true}
		if err := c.Ping(ctx); err != nil {
			st.Healthy = false
			st.Error = err.Error()
			ok = false
		}
		statuses = append(statuses, st)
	}
	return statuses, ok
}
