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
	"github.com/epanchayat/digital-gram-panchayat/internal/queue"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
	queue_publisher "github.com/epanchayat/digital-gram-panchayat/internal/service"
)

// GrievanceHandler serves grievance filing for citizens and the
// processing queue for staff.
type GrievanceHandler struct {
	Grievances *repository.GrievanceRepo
}

func NewGrievanceHandler(r *repository.GrievanceRepo) *GrievanceHandler {
	return &GrievanceHandler{Grievances: r}
}

type fileGrievanceReq struct {
	Category    string `json:"category"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

type grievanceResp struct {
	ID          uint64 `json:"id"`
	RefNo       string `json:"refNo"`
	Category    string `json:"category"`
	Subject     string `json:"subject"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Resolution  string `json:"resolution,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toGrievanceResp(g model.Grievance) grievanceResp {
	return grievanceResp{
		ID:          g.ID,
		RefNo:       g.RefNo,
		Category:    g.Category,
		Subject:     g.Subject,
		Description: g.Description,
		Status:      g.Status,
		Resolution:  g.Resolution,
		CreatedAt:   g.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// File records a new grievance for the authenticated citizen and
// publishes a grievance.filed event.  The publish is best-effort.
func (h *GrievanceHandler) File(c echo.Context) error {
	var req fileGrievanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.Category = strings.TrimSpace(req.Category)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Description = strings.TrimSpace(req.Description)
	if req.Category == "" || req.Subject == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Category, subject and description are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g := model.Grievance{
		RefNo:       uuid.NewString(),
		UserID:      middleware.UserID(c),
		Category:    req.Category,
		Subject:     req.Subject,
		Description: req.Description,
	}
	id, err := h.Grievances.Create(ctx, g)
	if err != nil {
		c.Logger().Errorf("grievance file: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while filing grievance"})
	}
	g.ID = id
	g.Status = model.GrievanceOpen
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	_ = queue_publisher.PublishGrievanceFiled(ctx, queue.GrievanceFiledEvent{
		GrievanceID: id,
		RefNo:       g.RefNo,
		UserID:      g.UserID,
		Category:    g.Category,
		Subject:     g.Subject,
		FiledAt:     now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toGrievanceResp(g))
}

// ListMine returns the citizen's own grievances.
func (h *GrievanceHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	gs, err := h.Grievances.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		c.Logger().Errorf("grievance list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing grievances"})
	}
	out := make([]grievanceResp, 0, len(gs))
	for _, g := range gs {
		out = append(out, toGrievanceResp(g))
	}
	return c.JSON(http.StatusOK, out)
}

// GetMine returns one of the citizen's own grievances by id.
func (h *GrievanceHandler) GetMine(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	g, err := h.Grievances.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Grievance not found"})
	}
	if err != nil {
		c.Logger().Errorf("grievance load: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while loading grievance"})
	}
	if g.UserID != middleware.UserID(c) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Grievance not found"})
	}
	return c.JSON(http.StatusOK, toGrievanceResp(g))
}
