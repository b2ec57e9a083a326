package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/echofinder/api/internal/auth"
	"github.com/echofinder/api/internal/database/models"
	"github.com/echofinder/api/internal/security"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestPrefixSalt = "test-prefix-salt"
	TestSuffixSalt = "test-suffix-salt"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Invite{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewTestHasher creates a token hasher with fixed test salts
func NewTestHasher(t *testing.T) *security.TokenHasher {
	t.Helper()

	hasher, err := security.NewTokenHasher(TestPrefixSalt, TestSuffixSalt)
	if err != nil {
		t.Fatalf("failed to create test hasher: %v", err)
	}
	return hasher
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// CreateTestAdmin creates an active admin user
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUser(t, db, "admin-"+uuid.New().String()[:8]+"@example.com", models.RoleAdmin)
}

// CreateTestUser creates an active user with the given email and role
func CreateTestUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) *models.User {
	t.Helper()

	user := models.NewUser(email, role, models.StatusActive)
	user.ID = uuid.New()

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestInvite creates a pending invite expiring in 7 days and returns it
// together with its raw token
func CreateTestInvite(t *testing.T, db *gorm.DB, hasher *security.TokenHasher, email string, inviter *models.User) (*models.Invite, string) {
	t.Helper()

	rawToken := "test-invite-token-" + uuid.New().String()
	tokenHash, err := hasher.Hash(rawToken)
	if err != nil {
		t.Fatalf("failed to hash test token: %v", err)
	}

	invite := models.NewInvite(email, tokenHash, models.RoleUser, inviter.ID, time.Now().Add(7*24*time.Hour))
	if err := db.Create(invite).Error; err != nil {
		t.Fatalf("failed to create test invite: %v", err)
	}

	return invite, rawToken
}

// GenerateTestToken generates a valid session token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	Hasher     *security.TokenHasher
	JWTService *auth.JWTService
	Admin      *models.User
	AdminToken string
}

// NewTestContext creates a complete test setup with DB, hasher, admin, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	hasher := NewTestHasher(t)
	jwtService := CreateTestJWTService()
	admin := CreateTestAdmin(t, db)
	token := GenerateTestToken(t, jwtService, admin)

	return &TestSetup{
		DB:         db,
		Hasher:     hasher,
		JWTService: jwtService,
		Admin:      admin,
		AdminToken: token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
