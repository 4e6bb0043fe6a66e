package sync

import "errors"

var (
	errAlreadyStarted = errors.New("synchronizer already started")
	errFetchSuspended = errors.New("fetch suspended by pending mutation")
)
