package tui

import (
	"github.com/MKhiriev/go-photo-sync/models"
)

// photosMsg carries a catalog snapshot; closed is set when the stream ended.
type photosMsg struct {
	photos []models.PhotoRecord
	closed bool
}

type syncDoneMsg struct {
	report models.PushReport
	err    error
}

type deleteDoneMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type noticeTickMsg struct{}
