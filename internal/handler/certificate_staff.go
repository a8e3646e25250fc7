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
	"github.com/epanchayat/digital-gram-panchayat/internal/queue"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
	queue_publisher "github.com/epanchayat/digital-gram-panchayat/internal/service"
)

type reviewCertReq struct {
	Action  string `json:"action"` // APPROVE | REJECT
	Remarks string `json:"remarks"`
}

// ListForReview returns applications in the requested status (default
// PENDING) for the staff work queue.
func (h *CertificateHandler) ListForReview(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.CertStatusPending
	}
	switch status {
	case model.CertStatusPending, model.CertStatusApproved, model.CertStatusRejected, model.CertStatusIssued:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	certs, err := h.Certs.ListByStatus(ctx, status)
	if err != nil {
		c.Logger().Errorf("certificate review list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing applications"})
	}
	out := make([]certResp, 0, len(certs))
	for _, cert := range certs {
		out = append(out, toCertResp(cert))
	}
	return c.JSON(http.StatusOK, out)
}

// Review approves or rejects a pending application.
func (h *CertificateHandler) Review(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}
	var req reviewCertReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	var status string
	switch strings.ToUpper(strings.TrimSpace(req.Action)) {
	case "APPROVE":
		status = model.CertStatusApproved
	case "REJECT":
		status = model.CertStatusRejected
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Action must be APPROVE or REJECT"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Certs.Review(ctx, id, status, strings.TrimSpace(req.Remarks), middleware.UserID(c))
	switch err {
	case nil:
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Application not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "Application has already been reviewed"})
	default:
		c.Logger().Errorf("certificate review: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while reviewing application"})
	}

	cert, err := h.Certs.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("certificate review reload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while reviewing application"})
	}
	return c.JSON(http.StatusOK, toCertResp(cert))
}

// Issue marks an approved application ISSUED and publishes a
// certificate.issued event for the audit consumer.  Publish failures
// are logged and ignored: the certificate is issued either way.
func (h *CertificateHandler) Issue(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Certs.Issue(ctx, id)
	switch err {
	case nil:
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Application not found"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "Only approved applications can be issued"})
	default:
		c.Logger().Errorf("certificate issue: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while issuing certificate"})
	}

	cert, err := h.Certs.GetByID(ctx, id)
	if err != nil {
		c.Logger().Errorf("certificate issue reload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while issuing certificate"})
	}

	issuedAt := time.Now().UTC()
	if cert.IssuedAt != nil {
		issuedAt = cert.IssuedAt.UTC()
	}
	_ = queue_publisher.PublishCertificateIssued(ctx, queue.CertificateIssuedEvent{
		CertificateID: cert.ID,
		RefNo:         cert.RefNo,
		CertType:      cert.CertType,
		UserID:        cert.UserID,
		ApplicantName: cert.ApplicantName,
		IssuedBy:      middleware.UserID(c),
		IssuedAt:      issuedAt.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, toCertResp(cert))
}
