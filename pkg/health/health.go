package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Result represents the outcome of a health check
type Result struct {
	Healthy   bool          `json:"healthy"`
	Message   string        `json:"message,omitempty"`
	CheckedAt time.Time     `json:"checked_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// Checker is the interface that all health checkers must implement
type Checker interface {
	// Check performs the health check and returns the result
	Check(ctx context.Context) Result

	// Name returns the check identifier
	Name() string
}

// Registry holds the named health checks of the agent.
type Registry struct {
	mu       sync.Mutex
	checkers []Checker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a checker to the registry.
func (r *Registry) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, c)
}

// RunAll runs every registered check and reports the results by name,
// together with the overall health.
func (r *Registry) RunAll(ctx context.Context) (map[string]Result, bool) {
	r.mu.Lock()
	checkers := make([]Checker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.Unlock()

	results := make(map[string]Result, len(checkers))
	healthy := true
	for _, c := range checkers {
		res := c.Check(ctx)
		results[c.Name()] = res
		if !res.Healthy {
			healthy = false
		}
	}
	return results, healthy
}

// Handler returns an HTTP handler serving the registry's aggregated health.
// It responds 200 when every check passes and 503 otherwise.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 10*time.Second)
		defer cancel()

		results, healthy := r.RunAll(ctx)

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(struct {
			Healthy bool              `json:"healthy"`
			Checks  map[string]Result `json:"checks"`
		}{healthy, results})
	})
}

// checkResult builds a Result from a check outcome.
func checkResult(start time.Time, healthy bool, message string) Result {
	return Result{
		Healthy:   healthy,
		Message:   message,
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}
