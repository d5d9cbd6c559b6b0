package models

import "time"

// Pipeline run status
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Stage names as recorded in run reports.
const (
	StageClassify  = "classify"
	StageExtract   = "extract"
	StageValuation = "valuation"
	StageScoring   = "scoring"
)

// StageResult counts the outcomes of a single pipeline stage.
type StageResult struct {
	Stage     string `json:"stage"`
	Processed int    `json:"processed"` // listings the stage wrote a value for
	Skipped   int    `json:"skipped"`   // eligible listings left untouched (partial data, missing from LLM response)
	Failed    int    `json:"failed"`    // isolated per-listing or per-batch failures
}

// RunReport summarizes one pipeline run across all stages.
type RunReport struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Status     string        `json:"status"`
	Stages     []StageResult `json:"stages"`
}

// Stage returns the result for a named stage, or a zero result if the run
// never reached it.
func (r *RunReport) Stage(name string) StageResult {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s
		}
	}
	return StageResult{Stage: name}
}

// EnrichmentRun is the operational record of a run as persisted in SQLite.
type EnrichmentRun struct {
	ID           int64      `json:"id" db:"id"`
	RunID        string     `json:"run_id" db:"run_id"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	FinishedAt   *time.Time `json:"finished_at" db:"finished_at"`
	Status       string     `json:"status" db:"status"`
	Classified   int        `json:"classified" db:"classified"`
	Extracted    int        `json:"extracted" db:"extracted"`
	Valued       int        `json:"valued" db:"valued"`
	Scored       int        `json:"scored" db:"scored"`
	Failed       int        `json:"failed" db:"failed"`
	ErrorMessage string     `json:"error_message" db:"error_message"`
}
