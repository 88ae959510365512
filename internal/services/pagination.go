package services

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// normalizePage clamps list bounds to sane values
func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return offset, limit
}

func recordMutation(metrics MetricsRecorderInterface, resource, action string) {
	if metrics == nil {
		return
	}
	metrics.IncrementCounter(MetricEntityMutation, map[string]string{"resource": resource, "action": action})
}
