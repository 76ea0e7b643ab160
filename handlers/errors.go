package handlers

import (
	stderrors "errors"

	"github.com/NomadCrew/school-dashboard/errors"
	"github.com/NomadCrew/school-dashboard/internal/render"
	"github.com/NomadCrew/school-dashboard/services"
)

// dashboardError maps a dashboard pipeline failure to an AppError. Every data
// or render failure is a 500; the type only tells the logs which stage broke.
func dashboardError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, services.ErrNoDepartures):
		return errors.EmptyResult("transit", err)
	case stderrors.Is(err, services.ErrUpstreamFetch):
		return errors.UpstreamFailed("dashboard", err)
	case stderrors.Is(err, render.ErrInsufficientData):
		return errors.InsufficientData(err)
	default:
		return errors.RenderFailed(err)
	}
}
