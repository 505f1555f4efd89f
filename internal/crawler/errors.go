package crawler

import "errors"

var (
	// ErrUnexpectedStatus is returned for non-2xx page responses.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrNotHTML is returned when a page response is not an HTML document.
	ErrNotHTML = errors.New("response is not html")

	// ErrWorkerStarted is returned by Start on a worker that already left Idle.
	ErrWorkerStarted = errors.New("worker already started")
	// ErrPoolStarted is returned by Start on a pool that is running or shut down.
	ErrPoolStarted = errors.New("pool already started")
)
