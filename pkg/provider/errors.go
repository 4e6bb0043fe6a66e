package provider

import "errors"

var (
	// ErrNotFound indicates the referenced service id does not exist
	// on the provider side.
	ErrNotFound = errors.New("service not found")

	// ErrUnavailable indicates a transient provider failure; callers
	// may retry reads on their next cycle but must never retry
	// mutations silently.
	ErrUnavailable = errors.New("provider unavailable")

	errCreateService = errors.New("failed to create service")
	errUpdateService = errors.New("failed to update service")
	errDeleteService = errors.New("failed to delete service")
	errQueryServices = errors.New("failed to query services")
	errQueryEvents   = errors.New("failed to query events")
	errScanRow       = errors.New("failed to scan row")
	errOpenDatabase  = errors.New("failed to open database")
	errInitSchema    = errors.New("failed to initialize schema")
)
