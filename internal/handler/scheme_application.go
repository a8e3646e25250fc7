package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/middleware"
	"github.com/epanchayat/digital-gram-panchayat/internal/model"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
)

type schemeAppResp struct {
	ID         uint64 `json:"id"`
	RefNo      string `json:"refNo"`
	SchemeID   uint64 `json:"schemeId"`
	SchemeName string `json:"schemeName,omitempty"`
	Status     string `json:"status"`
	Remarks    string `json:"remarks,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

func toSchemeAppResp(a model.SchemeApplication) schemeAppResp {
	return schemeAppResp{
		ID:         a.ID,
		RefNo:      a.RefNo,
		SchemeID:   a.SchemeID,
		SchemeName: a.SchemeName,
		Status:     a.Status,
		Remarks:    a.Remarks,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Apply files the citizen's application to an active scheme.  A second
// application to the same scheme returns 409.
func (h *SchemeHandler) Apply(c echo.Context) error {
	schemeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Schemes.GetByID(ctx, schemeID)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Scheme not found"})
	}
	if err != nil {
		c.Logger().Errorf("scheme apply load: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while applying"})
	}
	if !s.IsActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Scheme is closed for applications"})
	}

	a := model.SchemeApplication{
		RefNo:    uuid.NewString(),
		SchemeID: schemeID,
		UserID:   middleware.UserID(c),
	}
	id, err := h.Schemes.CreateApplication(ctx, a)
	if err == repository.ErrConflict {
		return c.JSON(http.StatusConflict, echo.Map{"error": "You have already applied to this scheme"})
	}
	if err != nil {
		c.Logger().Errorf("scheme apply: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while applying"})
	}
	a.ID = id
	a.Status = model.SchemeAppPending
	a.SchemeName = s.Name
	a.CreatedAt = time.Now().UTC()
	return c.JSON(http.StatusCreated, toSchemeAppResp(a))
}

// ListMyApplications returns the citizen's scheme applications.
func (h *SchemeHandler) ListMyApplications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	as, err := h.Schemes.ListApplicationsByUser(ctx, middleware.UserID(c))
	if err != nil {
		c.Logger().Errorf("scheme application list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing applications"})
	}
	out := make([]schemeAppResp, 0, len(as))
	for _, a := range as {
		out = append(out, toSchemeAppResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

type reviewSchemeAppReq struct {
	Action  string `json:"action"` // APPROVE | REJECT
	Remarks string `json:"remarks"`
}

// ListApplicationsForReview returns applications in the requested
// status (default PENDING) for the staff work queue.
func (h *SchemeHandler) ListApplicationsForReview(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.SchemeAppPending
	}
	switch status {
	case model.SchemeAppPending, model.SchemeAppApproved, model.SchemeAppRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	as, err := h.Schemes.ListApplicationsByStatus(ctx, status)
	if err != nil {
		c.Logger().Errorf("scheme application review list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing applications"})
	}
	out := make([]schemeAppResp, 0, len(as))
	for _, a := range as {
		out = append(out, toSchemeAppResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// ReviewApplication approves or rejects a pending scheme application.
func (h *SchemeHandler) ReviewApplication(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}
	var req reviewSchemeAppReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	var status string
	switch strings.ToUpper(strings.TrimSpace(req.Action)) {
	case "APPROVE":
		status = model.SchemeAppApproved
	case "REJECT":
		status = model.SchemeAppRejected
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Action must be APPROVE or REJECT"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Schemes.ReviewApplication(ctx, id, status, strings.TrimSpace(req.Remarks), middleware.UserID(c))
	switch err {
	case nil:
		return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Application not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "Application has already been reviewed"})
	default:
		c.Logger().Errorf("scheme application review: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while reviewing application"})
	}
}
