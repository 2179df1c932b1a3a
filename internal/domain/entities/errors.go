package entities

import "errors"

// Domain errors
var (
	// Meeting record errors
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrMissingMeetingID = errors.New("missing meeting id")
	ErrMissingTimestamp = errors.New("missing timestamp")
	ErrMissingSummary   = errors.New("missing summary")

	// Action item errors
	ErrMissingTask   = errors.New("missing task")
	ErrInvalidStatus = errors.New("invalid action item status")

	// Key decision errors
	ErrMissingDescription = errors.New("missing description")
	ErrMissingDateMade    = errors.New("missing date_made")

	// Analyzer errors
	ErrEmptyTranscript = errors.New("no transcript text provided")
)
