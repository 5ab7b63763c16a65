package models

import "time"

// ReloadStatus summarises the outcome of the most recent snapshot reload.
type ReloadStatus struct {
	ScheduleVersion     string            `json:"schedule_version"`
	SubstitutionVersion string            `json:"substitution_version"`
	ClassCount          int               `json:"class_count"`
	SubstitutionCount   int               `json:"substitution_count"`
	LastAttemptAt       time.Time         `json:"last_attempt_at"`
	LastSuccessAt       time.Time         `json:"last_success_at"`
	LastError           string            `json:"last_error,omitempty"`
	Warnings            []ScheduleWarning `json:"warnings,omitempty"`
}

// SystemMetrics is a lightweight view of process counters for the admin status page.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	Reloads                  uint64    `json:"reloads"`
	ReloadFailures           uint64    `json:"reload_failures"`
	Evaluations              uint64    `json:"evaluations"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// Versions identifies the snapshots a response was computed from.
type Versions struct {
	Schedule      string `json:"schedule"`
	Substitutions string `json:"substitutions"`
}
