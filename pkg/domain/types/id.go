package types

import "github.com/google/uuid"

type (
	RequestID string
	RunID     string
)

func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

func NewRunID() RunID {
	return RunID(uuid.NewString())
}
