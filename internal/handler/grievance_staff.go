package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/middleware"
	"github.com/epanchayat/digital-gram-panchayat/internal/model"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
)

type updateGrievanceReq struct {
	Status     string `json:"status"` // IN_PROGRESS | RESOLVED | REJECTED
	Resolution string `json:"resolution"`
}

// ListForStaff returns grievances in the requested status (default
// OPEN) for the staff work queue.
func (h *GrievanceHandler) ListForStaff(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.GrievanceOpen
	}
	if !model.ValidGrievanceStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	gs, err := h.Grievances.ListByStatus(ctx, status)
	if err != nil {
		c.Logger().Errorf("grievance staff list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing grievances"})
	}
	out := make([]grievanceResp, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGrievanceResp(g))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus moves a grievance through its lifecycle and records the
// resolution note and handling staff member.  Reopening a grievance
// (back to OPEN) is not allowed.
func (h *GrievanceHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}
	var req updateGrievanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidGrievanceStatus(status) || status == model.GrievanceOpen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Status must be IN_PROGRESS, RESOLVED or REJECTED"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Grievances.UpdateStatus(ctx, id, status, strings.TrimSpace(req.Resolution), middleware.UserID(c))
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Grievance not found"})
	}
	if err != nil {
		c.Logger().Errorf("grievance update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while updating grievance"})
	}

	g, err := h.Grievances.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("grievance update reload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while updating grievance"})
	}
	return c.JSON(http.StatusOK, toGrievanceResp(g))
}
