package service

import "sync"

// SyncStatus is the coarse state of the last sync run shown to the user.
type SyncStatus int

const (
	StatusIdle SyncStatus = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s SyncStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// NoticeBoard holds the sync status and the latest user-facing message.
// A message is handed out once by Take and then cleared. A nil board
// ignores every call.
type NoticeBoard struct {
	mu      sync.Mutex
	status  SyncStatus
	message string
	pending bool
}

func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{}
}

func (b *NoticeBoard) SetStatus(status SyncStatus) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.status = status
	b.mu.Unlock()
}

func (b *NoticeBoard) Status() SyncStatus {
	if b == nil {
		return StatusIdle
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Report replaces the pending message.
func (b *NoticeBoard) Report(msg string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.message = msg
	b.pending = true
	b.mu.Unlock()
}

// Fail sets StatusFailed and reports msg.
func (b *NoticeBoard) Fail(msg string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.status = StatusFailed
	b.message = msg
	b.pending = true
	b.mu.Unlock()
}

// Take returns the pending message and clears it.
func (b *NoticeBoard) Take() (string, bool) {
	if b == nil {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.pending {
		return "", false
	}
	msg := b.message
	b.message = ""
	b.pending = false
	return msg, true
}
