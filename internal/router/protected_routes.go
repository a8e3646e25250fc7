package router

import (
	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/handler"
	"github.com/epanchayat/digital-gram-panchayat/internal/middleware"
	"github.com/epanchayat/digital-gram-panchayat/internal/model"
)

// Handlers bundles the domain handlers passed to route registration.
type Handlers struct {
	Certificates *handler.CertificateHandler
	Grievances   *handler.GrievanceHandler
	Schemes      *handler.SchemeHandler
	Properties   *handler.PropertyHandler
}

// RegisterProtected registers all authenticated routes in three
// buckets: citizen self-service under /v1, the staff work queue under
// /v1/staff (open to Staff and Officer), and scheme management under
// /v1/officer (Officer only).
func RegisterProtected(e *echo.Echo, h Handlers, jwtSecret string) {
	// Citizen self-service.
	citizen := e.Group("/v1")
	citizen.Use(middleware.JWTAuth(jwtSecret))
	citizen.Use(middleware.RequireRole(model.UserTypeCitizen))

	citizen.POST("/certificates", h.Certificates.Apply)
	citizen.GET("/certificates", h.Certificates.ListMine)
	citizen.GET("/certificates/:id", h.Certificates.GetMine)
	citizen.GET("/certificates/:id/download", h.Certificates.Download)

	citizen.POST("/grievances", h.Grievances.File)
	citizen.GET("/grievances", h.Grievances.ListMine)
	citizen.GET("/grievances/:id", h.Grievances.GetMine)

	citizen.POST("/schemes/:id/applications", h.Schemes.Apply)
	citizen.GET("/scheme-applications", h.Schemes.ListMyApplications)

	citizen.GET("/properties/mine", h.Properties.ListMine)

	// Staff work queue: certificate review/issue, grievance handling,
	// scheme application review, land-record maintenance.  Officers may
	// do everything staff can.
	staff := e.Group("/v1/staff")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole(model.UserTypeStaff, model.UserTypeOfficer))

	staff.GET("/certificates", h.Certificates.ListForReview)
	staff.PATCH("/certificates/:id", h.Certificates.Review)
	staff.POST("/certificates/:id/issue", h.Certificates.Issue)

	staff.GET("/grievances", h.Grievances.ListForStaff)
	staff.PATCH("/grievances/:id", h.Grievances.UpdateStatus)

	staff.GET("/scheme-applications", h.Schemes.ListApplicationsForReview)
	staff.PATCH("/scheme-applications/:id", h.Schemes.ReviewApplication)

	staff.POST("/properties", h.Properties.Create)
	staff.PUT("/properties/:id", h.Properties.Update)

	// Scheme management is reserved for the officer.
	officer := e.Group("/v1/officer")
	officer.Use(middleware.JWTAuth(jwtSecret))
	officer.Use(middleware.RequireRole(model.UserTypeOfficer))

	officer.POST("/schemes", h.Schemes.Create)
	officer.PUT("/schemes/:id", h.Schemes.Update)
	officer.DELETE("/schemes/:id", h.Schemes.Deactivate)
}
