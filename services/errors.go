package services

import "errors"

// Sentinel errors returned by the dashboard services. Handlers map them to
// apperrors types; services wrap them with fmt.Errorf("...: %w").
var (
	// ErrUpstreamFetch wraps network failures, non-2xx answers and undecodable bodies.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrNoDepartures means the transit API answered with an empty departure list.
	ErrNoDepartures = errors.New("no departures available")

	// ErrRenderPipeline covers browser, screenshot and image conversion failures.
	ErrRenderPipeline = errors.New("render pipeline failed")

	// ErrInvalidBattery rejects battery levels outside 0..100.
	ErrInvalidBattery = errors.New("invalid battery level")
)
