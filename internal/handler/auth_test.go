package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/epanchayat/digital-gram-panchayat/internal/config"
	"github.com/epanchayat/digital-gram-panchayat/internal/model"
	"github.com/epanchayat/digital-gram-panchayat/internal/repository"
	"github.com/epanchayat/digital-gram-panchayat/internal/utils"
)

const (
	testSecret   = "handler-test-secret"
	officerEmail = "officer@epanchayat.com"
	staff1Email  = "staff1@epanchayat.com"
	staff2Email  = "staff2@epanchayat.com"
)

// fakeUserStore is an in-memory UserStore with the same error
// contract as repository.UserRepo.
type fakeUserStore struct {
	nextID  uint64
	byID    map[uint64]model.User
	failAll bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[uint64]model.User{}}
}

var errStoreDown = sql.ErrConnDone

func (f *fakeUserStore) Create(_ context.Context, name, email, password, userType string, _ int) (uint64, error) {
	if f.failAll {
		return 0, errStoreDown
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		return 0, err
	}
	f.nextID++
	f.byID[f.nextID] = model.User{
		ID: f.nextID, Name: name, Email: email, PasswordHash: hash, UserType: userType,
	}
	return f.nextID, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	if f.failAll {
		return model.User{}, errStoreDown
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	if f.failAll {
		return model.User{}, errStoreDown
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) CountByType(_ context.Context, userType string) (int, error) {
	if f.failAll {
		return 0, errStoreDown
	}
	n := 0
	for _, u := range f.byID {
		if u.UserType == userType {
			n++
		}
	}
	return n, nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      testSecret,
		BcryptCost:     bcrypt.MinCost,
		OfficerEmail:   officerEmail,
		StaffEmails:    []string{staff1Email, staff2Email},
		StaffSeatLimit: 2,
	}
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func decodeAuthResp(t *testing.T, rec *httptest.ResponseRecorder) authResp {
	t.Helper()
	var out authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func errMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out["error"]
}

func TestRegister(t *testing.T) {
	t.Run("Should create a citizen and log them in", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@x.com","password":"password1"}`, nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeAuthResp(t, rec)
		assert.Equal(t, "Asha", resp.User.Name)
		assert.Equal(t, "asha@x.com", resp.User.Email)
		assert.Equal(t, model.UserTypeCitizen, resp.User.UserType)

		claims, err := utils.ParseAccessToken(testSecret, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, model.UserTypeCitizen, claims.UserType)
		assert.Equal(t, "Asha", claims.Name)
	})
	t.Run("Should reject a password shorter than 8 characters", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@x.com","password":"short"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Password must be at least 8 characters", errMessage(t, rec))
	})
	t.Run("Should reject a duplicate email without altering the record", func(t *testing.T) {
		store := newFakeUserStore()
		h := NewAuthHandler(testConfig(), store)
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@x.com","password":"password1"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		existing, err := store.GetByEmail(context.Background(), "asha@x.com")
		require.NoError(t, err)

		rec = doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"Impostor","email":"asha@x.com","password":"password2"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User already exists", errMessage(t, rec))

		after, err := store.GetByEmail(context.Background(), "asha@x.com")
		require.NoError(t, err)
		assert.Equal(t, existing, after)
	})
	t.Run("Should require name, email and password", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"email":"asha@x.com","password":"password1"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("Should return a generic 500 on store failure", func(t *testing.T) {
		store := newFakeUserStore()
		store.failAll = true
		h := NewAuthHandler(testConfig(), store)
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@x.com","password":"password1"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server error during registration", errMessage(t, rec))
	})
}

func TestLogin(t *testing.T) {
	registerCitizen := func(t *testing.T, h *AuthHandler, name, email, password string) {
		t.Helper()
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("Should reject an unknown user type", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"asha@x.com","password":"password1","userType":"Admin"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid user type", errMessage(t, rec))
	})
	t.Run("Should reject an officer login from a non-allow-listed email", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"someone@x.com","password":"password1","userType":"Officer"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid officer credentials", errMessage(t, rec))
	})
	t.Run("Should reject a staff login from a non-allow-listed email", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"someone@x.com","password":"password1","userType":"Staff"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid staff credentials", errMessage(t, rec))
	})
	t.Run("Should reject an unknown citizen", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"ghost@x.com","password":"password1","userType":"Citizen"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid credentials", errMessage(t, rec))
	})
	t.Run("Should reject a wrong password", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		registerCitizen(t, h, "Asha", "asha@x.com", "password1")

		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"asha@x.com","password":"password2","userType":"Citizen"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid credentials", errMessage(t, rec))
	})
	t.Run("Should log in a registered citizen", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		registerCitizen(t, h, "Asha", "asha@x.com", "password1")

		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"asha@x.com","password":"password1","userType":"Citizen"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeAuthResp(t, rec)
		assert.Equal(t, model.UserTypeCitizen, resp.User.UserType)
		_, err := utils.ParseAccessToken(testSecret, resp.Token)
		assert.NoError(t, err)
	})
	t.Run("Should reject a user type mismatch", func(t *testing.T) {
		// A citizen who registered with the officer's email still
		// cannot log in as Officer.
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		registerCitizen(t, h, "Sneaky", officerEmail, "password1")

		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"`+officerEmail+`","password":"password1","userType":"Officer"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User type mismatch", errMessage(t, rec))
	})
	t.Run("Should auto-provision the officer on first login", func(t *testing.T) {
		store := newFakeUserStore()
		h := NewAuthHandler(testConfig(), store)
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"`+officerEmail+`","password":"anything8+","userType":"Officer"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeAuthResp(t, rec)
		assert.Equal(t, model.UserTypeOfficer, resp.User.UserType)
		assert.Equal(t, "Officer", resp.User.Name, "name defaults to the user type")

		u, err := store.GetByEmail(context.Background(), officerEmail)
		require.NoError(t, err)
		assert.Equal(t, model.UserTypeOfficer, u.UserType)
	})
	t.Run("Should fix the officer password to the first attempt", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"`+officerEmail+`","password":"first-password","userType":"Officer"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"`+officerEmail+`","password":"second-password","userType":"Officer"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid credentials", errMessage(t, rec))
	})
	t.Run("Should allow staff logins up to the seat limit", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		for _, email := range []string{staff1Email, staff2Email} {
			rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
				`{"email":"`+email+`","password":"password1","userType":"Staff"}`, nil)
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
	t.Run("Should reject staff logins once the persisted count exceeds the cap", func(t *testing.T) {
		store := newFakeUserStore()
		// Three staff records already persisted: the cap gates logins,
		// not record creation, so all three exist.
		for _, email := range []string{staff1Email, staff2Email, "staff3@epanchayat.com"} {
			_, err := store.Create(context.Background(), "Staff", email, "password1", model.UserTypeStaff, bcrypt.MinCost)
			require.NoError(t, err)
		}
		h := NewAuthHandler(testConfig(), store)

		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"`+staff1Email+`","password":"password1","userType":"Staff"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Staff login limit exceeded", errMessage(t, rec))
	})
	t.Run("Should keep the auto-provisioned account when a later check fails", func(t *testing.T) {
		store := newFakeUserStore()
		for _, email := range []string{staff1Email, "staff3@epanchayat.com"} {
			_, err := store.Create(context.Background(), "Staff", email, "password1", model.UserTypeStaff, bcrypt.MinCost)
			require.NoError(t, err)
		}
		h := NewAuthHandler(testConfig(), store)

		// First login for staff2 auto-provisions a third record, which
		// pushes the count to 3 and fails the cap check -- but the
		// record stays.
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"`+staff2Email+`","password":"password1","userType":"Staff"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Staff login limit exceeded", errMessage(t, rec))

		_, err := store.GetByEmail(context.Background(), staff2Email)
		assert.NoError(t, err, "auto-provisioned account is not rolled back")
	})
	t.Run("Should return a generic 500 on store failure", func(t *testing.T) {
		store := newFakeUserStore()
		store.failAll = true
		h := NewAuthHandler(testConfig(), store)
		rec := doJSON(t, h.Login, http.MethodPost, "/auth/login",
			`{"email":"asha@x.com","password":"password1","userType":"Citizen"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server error during login", errMessage(t, rec))
	})
}

func TestMe(t *testing.T) {
	bearer := func(token string) http.Header {
		return http.Header{echo.HeaderAuthorization: []string{"Bearer " + token}}
	}

	t.Run("Should reject a request without a token", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Me, http.MethodGet, "/auth/user/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "No token, authorization denied", errMessage(t, rec))
	})
	t.Run("Should reject an invalid token", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Me, http.MethodGet, "/auth/user/me", "", bearer("garbage"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Token is not valid", errMessage(t, rec))
	})
	t.Run("Should reject a token minted with another secret", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		access, err := utils.NewAccessToken("other-secret", 1, model.UserTypeCitizen, "Asha")
		require.NoError(t, err)
		rec := doJSON(t, h.Me, http.MethodGet, "/auth/user/me", "", bearer(access.Token))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("Should return 404 when the user no longer exists", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		access, err := utils.NewAccessToken(testSecret, 99, model.UserTypeCitizen, "Ghost")
		require.NoError(t, err)
		rec := doJSON(t, h.Me, http.MethodGet, "/auth/user/me", "", bearer(access.Token))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", errMessage(t, rec))
	})
	t.Run("Should return the public fields of the current user", func(t *testing.T) {
		h := NewAuthHandler(testConfig(), newFakeUserStore())
		rec := doJSON(t, h.Register, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@x.com","password":"password1"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		token := decodeAuthResp(t, rec).Token

		rec = doJSON(t, h.Me, http.MethodGet, "/auth/user/me", "", bearer(token))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Asha", body["name"])
		assert.Equal(t, "asha@x.com", body["email"])
		assert.Equal(t, model.UserTypeCitizen, body["userType"])
		assert.NotContains(t, rec.Body.String(), "password")
	})
}
