package kafka

import (
	"context"
	"time"
)

// Wire format of the hiring-events topic. Consumers (the notifier) decode by
// the Event discriminator.
const (
	EventCandidateCreated  = "candidate.created"
	EventAnalysisCompleted = "analysis.completed"
)

type CandidateCreated struct {
	Event       string    `json:"event"`
	CandidateID int64     `json:"candidate_id"`
	JobID       int64     `json:"job_id"`
	Name        string    `json:"name"`
	At          time.Time `json:"at"`
}

type AnalysisCompleted struct {
	Event    string    `json:"event"`
	ResumeID int64     `json:"resume_id"`
	JobID    int64     `json:"job_id"`
	Score    float64   `json:"score"`
	At       time.Time `json:"at"`
}

// HiringEventsKafka publishes hiring lifecycle events keyed by job id so all
// events for one posting land in the same partition.
type HiringEventsKafka struct {
	p *Producer
}

func NewHiringEventsKafka(p *Producer) *HiringEventsKafka { return &HiringEventsKafka{p: p} }

func (e *HiringEventsKafka) PublishCandidateCreated(ctx context.Context, ev CandidateCreated) error {
	ev.Event = EventCandidateCreated
	return e.p.PublishJSON(ctx, KeyFromInt64(ev.JobID), ev)
}

func (e *HiringEventsKafka) PublishAnalysisCompleted(ctx context.Context, ev AnalysisCompleted) error {
	ev.Event = EventAnalysisCompleted
	return e.p.PublishJSON(ctx, KeyFromInt64(ev.JobID), ev)
}
