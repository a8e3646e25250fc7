package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/epanchayat/digital-gram-panchayat/internal/config"
	"github.com/epanchayat/digital-gram-panchayat/internal/model"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
	"github.com/epanchayat/digital-gram-panchayat/internal/utils"
)

// UserStore is the persistence surface the auth endpoints need.
// *repository.UserRepo implements it; tests substitute an in-memory
// store.
type UserStore interface {
	Create(ctx context.Context, name, email, password, userType string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	CountByType(ctx context.Context, userType string) (int, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, u UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type userPart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}
type authResp struct {
	Token string   `json:"token"`
	User  userPart `json:"user"`
}

const minPasswordLen = 8

// Register creates a Citizen account and logs it in immediately.  The
// user type is fixed: only citizens may self-register; officer and
// staff accounts come into existence through Login.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name, email and password are required"})
	}
	if len(req.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, model.UserTypeCitizen, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "User already exists"})
		}
		c.Logger().Errorf("register: create user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error during registration"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, model.UserTypeCitizen, req.Name)
	if err != nil {
		c.Logger().Errorf("register: sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error during registration"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Token: access.Token,
		User:  userPart{ID: uid, Name: req.Name, Email: req.Email, UserType: model.UserTypeCitizen},
	})
}

// Login authenticates a user of any type.  The checks run in a fixed
// order and the first failure wins:
//
//  1. the requested user type must be known;
//  2. Officer logins must use the configured officer email;
//  3. Staff logins must use one of the configured staff emails;
//  4. the account is looked up, and for Officer/Staff created on the
//     spot if missing (first login doubles as account creation);
//  5. the password must match;
//  6. the stored user type must equal the requested one;
//  7. Staff logins are rejected once the persisted staff count exceeds
//     the seat limit.
//
// The seat-limit check deliberately runs after auto-provisioning, so
// the account that pushes the count over the limit is persisted even
// though its login fails: the cap gates logins, not records.  An
// auto-provisioned account is likewise not rolled back when a later
// check fails.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !model.ValidUserType(req.UserType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user type"})
	}
	if req.UserType == model.UserTypeOfficer && req.Email != h.Cfg.OfficerEmail {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid officer credentials"})
	}
	if req.UserType == model.UserTypeStaff && !h.Cfg.IsStaffEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid staff credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err == sql.ErrNoRows {
		if req.UserType == model.UserTypeCitizen {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid credentials"})
		}
		// First login for an allow-listed Officer/Staff email: create
		// the account now with the supplied password and the user type
		// as its display name, then continue as if it pre-existed.
		uid, err := h.Users.Create(ctx, req.UserType, req.Email, req.Password, req.UserType, h.Cfg.BcryptCost)
		if err != nil {
			c.Logger().Errorf("login: auto-provision %s: %v", req.UserType, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error during login"})
		}
		u, err = h.Users.GetByID(ctx, uid)
		if err != nil {
			c.Logger().Errorf("login: load provisioned user: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error during login"})
		}
	} else if err != nil {
		c.Logger().Errorf("login: query user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error during login"})
	}

	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid credentials"})
	}
	if u.UserType != req.UserType {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User type mismatch"})
	}
	if req.UserType == model.UserTypeStaff {
		n, err := h.Users.CountByType(ctx, model.UserTypeStaff)
		if err != nil {
			c.Logger().Errorf("login: count staff: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error during login"})
		}
		if n > h.Cfg.StaffSeatLimit {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Staff login limit exceeded"})
		}
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.UserType, u.Name)
	if err != nil {
		c.Logger().Errorf("login: sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error during login"})
	}

	return c.JSON(http.StatusOK, authResp{
		Token: access.Token,
		User:  userPart{ID: u.ID, Name: u.Name, Email: u.Email, UserType: u.UserType},
	})
}

// Me returns the account behind the bearer token.  The endpoint does
// its own token extraction rather than relying on middleware so its
// 401/404 responses match the documented contract exactly.
func (h *AuthHandler) Me(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token, authorization denied"})
	}
	claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token is not valid"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err == sql.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
	}
	if err != nil {
		c.Logger().Errorf("me: load user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error while fetching user data"})
	}

	// Password hash never leaves the server; only public fields go out.
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Name: u.Name, Email: u.Email, UserType: u.UserType})
}
