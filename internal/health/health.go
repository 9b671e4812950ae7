// Package health reports service identity and liveness on both transports.
package health

import "time"

// Info is the static service identity returned from the root endpoint.
type Info struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Status is a point-in-time health report. Uptime is milliseconds since
// process start.
type Status struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Uptime    int64  `json:"uptime"`
	Version   string `json:"version"`
}

// Reporter computes health reports from an injected start time and clock so
// tests can control both.
type Reporter struct {
	serviceName string
	version     string
	startedAt   time.Time
	now         func() time.Time
}

// NewReporter captures the process start time. A nil now defaults to
// time.Now.
func NewReporter(serviceName, version string, startedAt time.Time, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{
		serviceName: serviceName,
		version:     version,
		startedAt:   startedAt,
		now:         now,
	}
}

// Info returns the static service identity.
func (r *Reporter) Info() Info {
	return Info{
		Service: "MediQ Institution Service",
		Version: r.version,
		Status:  "running",
	}
}

// Health returns the current health report. It has no failure modes.
func (r *Reporter) Health() Status {
	now := r.now()
	return Status{
		Status:    "ok",
		Service:   r.serviceName,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Uptime:    now.Sub(r.startedAt).Milliseconds(),
		Version:   r.version,
	}
}
