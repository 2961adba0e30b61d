package models

// ProgressType what happened on one relay session
type ProgressType string

const (
	ProgressOpened    ProgressType = "opened"
	ProgressRecord    ProgressType = "record-received"
	ProgressExhausted ProgressType = "stream-exhausted"
	ProgressFailed    ProgressType = "failed"
	ProgressClosed    ProgressType = "closed"
)

// Terminal the relay counts as done after this progress
func (p ProgressType) Terminal() bool {
	return p == ProgressExhausted || p == ProgressFailed || p == ProgressClosed
}

// Progress session event reported to the aggregator and to the caller
type Progress struct {
	Type     ProgressType
	Endpoint string
	Record   *Event
	Count    int // unique records so far, set on record-received
	Err      error
}

// ProgressFunc progress callback
type ProgressFunc func(p *Progress)
