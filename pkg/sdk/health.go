package animatch

import (
	"context"

	healthuc "github.com/kailas-cloud/animatch/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status     string            // "ok", "degraded", "error"
	Checks     map[string]string // component → "ok"/"error"
	CorpusSize int
}

// Health checks the corpus, the provider and the cache when configured.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:     string(report.Status),
		Checks:     checks,
		CorpusSize: report.Items,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
