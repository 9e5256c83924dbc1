package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status     Status
	Checks     map[string]CheckResult
	Items      int
	Generation uint64
}

// Service coordinates health checks.
type Service struct {
	snapshots SnapshotLoader
	provider  Pinger
	cache     Pinger
}

// New creates a Service. cache can be nil when no cache store is configured.
func New(snapshots SnapshotLoader, provider, cache Pinger) *Service {
	return &Service{snapshots: snapshots, provider: provider, cache: cache}
}

// Check runs health checks against all components. An empty corpus is
// unhealthy: every similarity query would come back empty.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	snap := s.snapshots.Load()
	if snap.IsEmpty() {
		checks["corpus"] = CheckError
	} else {
		checks["corpus"] = CheckOK
	}

	// Pings run concurrently; each writes only its own result.
	var providerRes, cacheRes CheckResult
	var g errgroup.Group
	g.Go(func() error {
		providerRes = ping(ctx, s.provider)
		return nil
	})
	if s.cache != nil {
		g.Go(func() error {
			cacheRes = ping(ctx, s.cache)
			return nil
		})
	}
	_ = g.Wait()

	checks["provider"] = providerRes
	if s.cache != nil {
		checks["cache"] = cacheRes
	}

	status := Healthy
	switch {
	case checks["corpus"] == CheckError:
		status = Unhealthy
	default:
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks, Items: snap.Len(), Generation: snap.Generation()}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
