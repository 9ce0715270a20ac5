package service

import "errors"

var (
	ErrDepthExceeded     = errors.New("maximum section depth exceeded")
	ErrTooManySections   = errors.New("maximum number of top-level sections reached")
	ErrUnknownTab        = errors.New("course has no such tab")
	ErrCannotHideGeneral = errors.New("the general section cannot be hidden")
	ErrMarkerOnGeneral   = errors.New("the general section cannot be marked as current")
	ErrUnknownAction     = errors.New("unknown section action")
	ErrNotTracked        = errors.New("completion is not tracked for this module")
	ErrInvalidState      = errors.New("invalid completion state")
	ErrCrossCourseParent = errors.New("parent section belongs to another course")
)
