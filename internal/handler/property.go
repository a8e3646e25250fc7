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

// PropertyHandler serves land-record search (public), the citizen's
// own holdings, and record maintenance (staff/officer).
type PropertyHandler struct {
	Props *repository.PropertyRepo
}

func NewPropertyHandler(r *repository.PropertyRepo) *PropertyHandler {
	return &PropertyHandler{Props: r}
}

type propertyReq struct {
	HoldingNo   string  `json:"holdingNo"`
	OwnerName   string  `json:"ownerName"`
	OwnerUserID uint64  `json:"ownerUserId"`
	Address     string  `json:"address"`
	AreaSqft    float64 `json:"areaSqft"`
	LandType    string  `json:"landType"`
	AnnualTax   float64 `json:"annualTax"`
}

type propertyResp struct {
	ID        uint64  `json:"id"`
	HoldingNo string  `json:"holdingNo"`
	OwnerName string  `json:"ownerName"`
	Address   string  `json:"address"`
	AreaSqft  float64 `json:"areaSqft"`
	LandType  string  `json:"landType"`
	AnnualTax float64 `json:"annualTax"`
}

func toPropertyResp(p model.Property) propertyResp {
	return propertyResp{
		ID:        p.ID,
		HoldingNo: p.HoldingNo,
		OwnerName: p.OwnerName,
		Address:   p.Address,
		AreaSqft:  p.AreaSqft,
		LandType:  p.LandType,
		AnnualTax: p.AnnualTax,
	}
}

// Search looks up a record by holding number.  Public: land records
// are open information at the panchayat office.
func (h *PropertyHandler) Search(c echo.Context) error {
	holdingNo := strings.TrimSpace(c.QueryParam("holding_no"))
	if holdingNo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "holding_no is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Props.GetByHoldingNo(ctx, holdingNo)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Record not found"})
	}
	if err != nil {
		c.Logger().Errorf("property search: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while searching records"})
	}
	return c.JSON(http.StatusOK, toPropertyResp(p))
}

// ListMine returns the records linked to the citizen's account.
func (h *PropertyHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ps, err := h.Props.ListByOwner(ctx, middleware.UserID(c))
	if err != nil {
		c.Logger().Errorf("property list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing records"})
	}
	out := make([]propertyResp, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPropertyResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Create registers a new holding record (staff/officer).
func (h *PropertyHandler) Create(c echo.Context) error {
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.HoldingNo = strings.TrimSpace(req.HoldingNo)
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	if req.HoldingNo == "" || req.OwnerName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Holding number and owner name are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := model.Property{
		HoldingNo:   req.HoldingNo,
		OwnerName:   req.OwnerName,
		OwnerUserID: req.OwnerUserID,
		Address:     strings.TrimSpace(req.Address),
		AreaSqft:    req.AreaSqft,
		LandType:    strings.TrimSpace(req.LandType),
		AnnualTax:   req.AnnualTax,
	}
	id, err := h.Props.Create(ctx, p)
	if err == repository.ErrConflict {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Holding number already exists"})
	}
	if err != nil {
		c.Logger().Errorf("property create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while creating record"})
	}
	p.ID = id
	return c.JSON(http.StatusCreated, toPropertyResp(p))
}

// Update rewrites an existing holding record (staff/officer).  The
// holding number itself is immutable.
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}
	var req propertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.OwnerName = strings.TrimSpace(req.OwnerName)
	if req.OwnerName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Owner name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p := model.Property{
		ID:          id,
		OwnerName:   req.OwnerName,
		OwnerUserID: req.OwnerUserID,
		Address:     strings.TrimSpace(req.Address),
		AreaSqft:    req.AreaSqft,
		LandType:    strings.TrimSpace(req.LandType),
		AnnualTax:   req.AnnualTax,
	}
	err = h.Props.Update(ctx, p)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Record not found"})
	}
	if err != nil {
		c.Logger().Errorf("property update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while updating record"})
	}

	updated, err := h.Props.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("property update reload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while updating record"})
	}
	return c.JSON(http.StatusOK, toPropertyResp(updated))
}
