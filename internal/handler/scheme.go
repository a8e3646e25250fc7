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

// SchemeHandler serves scheme browsing (public), scheme management
// (officer) and scheme applications (citizen + staff).
type SchemeHandler struct {
	Schemes *repository.SchemeRepo
}

func NewSchemeHandler(r *repository.SchemeRepo) *SchemeHandler {
	return &SchemeHandler{Schemes: r}
}

type schemeReq struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
	Eligibility string `json:"eligibility"`
	Benefits    string `json:"benefits"`
}

type schemeResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
	Eligibility string `json:"eligibility"`
	Benefits    string `json:"benefits"`
	IsActive    bool   `json:"isActive"`
}

func toSchemeResp(s model.Scheme) schemeResp {
	return schemeResp{
		ID:          s.ID,
		Name:        s.Name,
		Department:  s.Department,
		Description: s.Description,
		Eligibility: s.Eligibility,
		Benefits:    s.Benefits,
		IsActive:    s.IsActive,
	}
}

// ----- public browsing -----

// ListActive returns all schemes currently open for applications.
func (h *SchemeHandler) ListActive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ss, err := h.Schemes.ListActive(ctx)
	if err != nil {
		c.Logger().Errorf("scheme list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing schemes"})
	}
	out := make([]schemeResp, 0, len(ss))
	for _, s := range ss {
		out = append(out, toSchemeResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one scheme by id.
func (h *SchemeHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Schemes.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Scheme not found"})
	}
	if err != nil {
		c.Logger().Errorf("scheme load: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while loading scheme"})
	}
	return c.JSON(http.StatusOK, toSchemeResp(s))
}

// ----- officer management -----

// Create publishes a new scheme.
func (h *SchemeHandler) Create(c echo.Context) error {
	var req schemeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Scheme name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Scheme{
		Name:        req.Name,
		Department:  strings.TrimSpace(req.Department),
		Description: strings.TrimSpace(req.Description),
		Eligibility: strings.TrimSpace(req.Eligibility),
		Benefits:    strings.TrimSpace(req.Benefits),
		IsActive:    true,
		CreatedBy:   middleware.UserID(c),
	}
	id, err := h.Schemes.Create(ctx, s)
	if err != nil {
		c.Logger().Errorf("scheme create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while creating scheme"})
	}
	s.ID = id
	return c.JSON(http.StatusCreated, toSchemeResp(s))
}

// Update rewrites a scheme's descriptive fields.
func (h *SchemeHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}
	var req schemeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Scheme name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Scheme{
		ID:          id,
		Name:        req.Name,
		Department:  strings.TrimSpace(req.Department),
		Description: strings.TrimSpace(req.Description),
		Eligibility: strings.TrimSpace(req.Eligibility),
		Benefits:    strings.TrimSpace(req.Benefits),
	}
	err = h.Schemes.Update(ctx, s)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Scheme not found"})
	}
	if err != nil {
		c.Logger().Errorf("scheme update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while updating scheme"})
	}

	updated, err := h.Schemes.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("scheme update reload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while updating scheme"})
	}
	return c.JSON(http.StatusOK, toSchemeResp(updated))
}

// Deactivate closes a scheme to new applications.
func (h *SchemeHandler) Deactivate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Schemes.GetByID(ctx, id); err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Scheme not found"})
	} else if err != nil {
		c.Logger().Errorf("scheme deactivate load: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while deactivating scheme"})
	}
	if err := h.Schemes.Deactivate(ctx, id); err != nil {
		c.Logger().Errorf("scheme deactivate: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while deactivating scheme"})
	}
	return c.NoContent(http.StatusNoContent)
}
