package model

import (
	"time"

	"github.com/m-mizutani/nibbler/pkg/domain/types"
)

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

type SkipReason string

const (
	SkipExistingPR         SkipReason = "existing_pr"
	SkipNoCandidate        SkipReason = "no_candidate"
	SkipNoImprovementFound SkipReason = "no_improvement_found"
)

// WorkflowOutcome is the terminal result of one per-repository workflow.
// It never propagates as an error past the per-repository boundary.
type WorkflowOutcome struct {
	Repo       string        `json:"repo"`
	Status     OutcomeStatus `json:"status"`
	Reason     SkipReason    `json:"reason,omitempty"`
	PullReqURL string        `json:"pull_request_url,omitempty"`
	Title      string        `json:"title,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func SkippedOutcome(repo string, reason SkipReason) *WorkflowOutcome {
	return &WorkflowOutcome{Repo: repo, Status: OutcomeSkipped, Reason: reason}
}

func FailedOutcome(repo string, err error) *WorkflowOutcome {
	return &WorkflowOutcome{Repo: repo, Status: OutcomeFailed, Error: err.Error()}
}

// NightlyReport summarizes one batch run over all enabled installations.
type NightlyReport struct {
	RunID      types.RunID        `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Outcomes   []*WorkflowOutcome `json:"outcomes"`
}

func (x *NightlyReport) Count(status OutcomeStatus) int {
	var n int
	for _, outcome := range x.Outcomes {
		if outcome.Status == status {
			n++
		}
	}
	return n
}

// RunRecord is one per-repository outcome row exported to the warehouse.
type RunRecord struct {
	RunID     types.RunID              `json:"run_id"`
	Timestamp time.Time                `json:"timestamp"`
	InstallID types.GitHubAppInstallID `json:"install_id"`
	Account   string                   `json:"account"`
	Outcome   WorkflowOutcome          `json:"outcome"`
}
