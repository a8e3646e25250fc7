package handler

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/middleware"
	"github.com/epanchayat/digital-gram-panchayat/internal/model"
	"github.com/epanchayat/digital-gram-panchayat/internal/pdf"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
)

// CertificateHandler serves certificate applications for citizens and
// the review/issue queue for staff.
type CertificateHandler struct {
	Certs *repository.CertificateRepo
}

func NewCertificateHandler(r *repository.CertificateRepo) *CertificateHandler {
	return &CertificateHandler{Certs: r}
}

type applyCertReq struct {
	CertType      string `json:"certType"`
	ApplicantName string `json:"applicantName"`
	FatherName    string `json:"fatherName"`
	EventDate     string `json:"eventDate"`
	EventPlace    string `json:"eventPlace"`
	Details       string `json:"details"`
}

type certResp struct {
	ID            uint64 `json:"id"`
	RefNo         string `json:"refNo"`
	CertType      string `json:"certType"`
	ApplicantName string `json:"applicantName"`
	FatherName    string `json:"fatherName,omitempty"`
	EventDate     string `json:"eventDate,omitempty"`
	EventPlace    string `json:"eventPlace,omitempty"`
	Details       string `json:"details,omitempty"`
	Status        string `json:"status"`
	Remarks       string `json:"remarks,omitempty"`
	IssuedAt      string `json:"issuedAt,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

func toCertResp(c model.Certificate) certResp {
	out := certResp{
		ID:            c.ID,
		RefNo:         c.RefNo,
		CertType:      c.CertType,
		ApplicantName: c.ApplicantName,
		FatherName:    c.FatherName,
		EventDate:     c.EventDate,
		EventPlace:    c.EventPlace,
		Details:       c.Details,
		Status:        c.Status,
		Remarks:       c.Remarks,
		CreatedAt:     c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// Apply files a new certificate application for the authenticated citizen.
func (h *CertificateHandler) Apply(c echo.Context) error {
	var req applyCertReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.CertType = strings.ToUpper(strings.TrimSpace(req.CertType))
	req.ApplicantName = strings.TrimSpace(req.ApplicantName)
	if !model.ValidCertType(req.CertType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid certificate type"})
	}
	if req.ApplicantName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Applicant name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cert := model.Certificate{
		RefNo:         uuid.NewString(),
		UserID:        middleware.UserID(c),
		CertType:      req.CertType,
		ApplicantName: req.ApplicantName,
		FatherName:    strings.TrimSpace(req.FatherName),
		EventDate:     strings.TrimSpace(req.EventDate),
		EventPlace:    strings.TrimSpace(req.EventPlace),
		Details:       strings.TrimSpace(req.Details),
	}
	id, err := h.Certs.Create(ctx, cert)
	if err != nil {
		c.Logger().Errorf("certificate apply: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while filing application"})
	}
	cert.ID = id
	cert.Status = model.CertStatusPending
	cert.CreatedAt = time.Now().UTC()
	return c.JSON(http.StatusCreated, toCertResp(cert))
}

// ListMine returns the citizen's own applications.
func (h *CertificateHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	certs, err := h.Certs.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		c.Logger().Errorf("certificate list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while listing applications"})
	}
	out := make([]certResp, 0, len(certs))
	for _, cert := range certs {
		out = append(out, toCertResp(cert))
	}
	return c.JSON(http.StatusOK, out)
}

// GetMine returns one of the citizen's own applications by id.
func (h *CertificateHandler) GetMine(c echo.Context) error {
	cert, ok := h.loadOwn(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, toCertResp(cert))
}

// Download streams the issued certificate as a PDF document.  Only the
// applicant can download, and only once the certificate is ISSUED.
func (h *CertificateHandler) Download(c echo.Context) error {
	cert, ok := h.loadOwn(c)
	if !ok {
		return nil
	}
	if cert.Status != model.CertStatusIssued {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Certificate has not been issued yet"})
	}
	var buf bytes.Buffer
	if err := pdf.RenderCertificate(&buf, cert); err != nil {
		c.Logger().Errorf("certificate render: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while generating document"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="certificate-`+cert.RefNo+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// loadOwn fetches the :id application and verifies ownership.  When it
// returns ok=false the error response has already been written.
func (h *CertificateHandler) loadOwn(c echo.Context) (model.Certificate, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
		return model.Certificate{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cert, err := h.Certs.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "Application not found"})
		return model.Certificate{}, false
	}
	if err != nil {
		c.Logger().Errorf("certificate load: %v", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while loading application"})
		return model.Certificate{}, false
	}
	if cert.UserID != middleware.UserID(c) {
		// Not-found rather than forbidden: do not leak other citizens' ids.
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "Application not found"})
		return model.Certificate{}, false
	}
	return cert, true
}
