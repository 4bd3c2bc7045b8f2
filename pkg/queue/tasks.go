// Package queue defines the asynchronous task types exchanged between the
// ingestion pipeline and the worker process, plus thin client/server wrappers
// around asynq.
package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
)

const (
	TypeEventProcess      = "event:process"
	TypeSnapshotRecompute = "snapshot:recompute"
	TypePointsActivity    = "points:activity"
	TypePointsMultiplier  = "points:multiplier"
)

// EventProcessPayload references staged event rows by key. The worker re-reads
// the rows so payloads stay small.
type EventProcessPayload struct {
	Events []storage.EventKey `json:"events"`
}

// SnapshotRecomputePayload asks for a balance snapshot of the given accounts
// at the given point in ledger history.
type SnapshotRecomputePayload struct {
	Timestamp    time.Time `json:"timestamp"`
	StateVersion uint64    `json:"stateVersion"`
	Addresses    []string  `json:"addresses"`
}

// PointsPayload scopes a points recalculation to one week.
type PointsPayload struct {
	WeekID uint64 `json:"weekId"`
}

func NewEventProcessTask(p *EventProcessPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEventProcess, payload), nil
}

func NewSnapshotRecomputeTask(p *SnapshotRecomputePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSnapshotRecompute, payload), nil
}

func NewPointsActivityTask(p *PointsPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePointsActivity, payload), nil
}

func NewPointsMultiplierTask(p *PointsPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePointsMultiplier, payload), nil
}
