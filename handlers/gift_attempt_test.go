package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"grabbi-storefront/database"
	"grabbi-storefront/dtos"
	"grabbi-storefront/middleware"
	"grabbi-storefront/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func freshJournal(t *testing.T) *database.Journal {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	// Each connection to :memory: is a separate database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database.NewJournal(db)
}

// setupJournalRouter mounts the gift endpoint with a journalled flow next to
// the admin attempt endpoints.
func setupJournalRouter(e *testEnv, journal *database.Journal) *gin.Engine {
	r := gin.New()
	flow := e.flow()
	flow.Journal = journal
	rewards := &RewardHandler{API: e.backend.client(), Flow: flow}
	attempts := &GiftAttemptHandler{Journal: journal}

	api := r.Group("/api")
	api.Use(middleware.SessionAuth(e.sessions, e.logger))
	api.POST("/rewards/:id/gift", rewards.GiftReward)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/gift-attempts", attempts.GetAttempts)
	admin.GET("/gift-attempts/:id", attempts.GetAttempt)
	return r
}

func TestGiftAttemptsJournalled(t *testing.T) {
	e := newTestEnv(t)
	journal := freshJournal(t)
	router := setupJournalRouter(e, journal)
	customer := e.seedSession(t, testCustomer())
	admin := e.seedSession(t, adminIdentity())

	seedReward(e, giftableReward())
	e.backend.respond("GET", "/redeemedreward/check-username/alice", http.StatusOK, 42)
	e.backend.respond("PUT", "/api/user/update", http.StatusOK, nil)
	e.backend.respond("POST", "/redeemedreward", http.StatusCreated, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/rewards/3/gift", map[string]string{"recipient": "alice"}, customer))
	if w.Code != http.StatusOK {
		t.Fatalf("expected gift to succeed, got %d: %s", w.Code, w.Body.String())
	}
	attemptID, _ := parseResponse(w)["attemptId"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/rewards/3/gift", map[string]string{"recipient": "ghost"}, customer))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected unknown recipient to fail, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/gift-attempts", nil, admin))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["total"] != float64(2) {
		t.Errorf("expected 2 attempts, got %v", resp["total"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/gift-attempts?status=completed", nil, admin))
	resp = parseResponse(w)
	if resp["total"] != float64(1) {
		t.Errorf("expected 1 completed attempt, got %v", resp["total"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/gift-attempts/"+attemptID, nil, admin))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	attempt := parseResponse(w)
	if attempt["status"] != string(models.AttemptCompleted) || attempt["recipient_id"] != float64(42) {
		t.Errorf("unexpected attempt: %v", attempt)
	}
	if attempt["balance_before"] != float64(500) || attempt["balance_after"] != float64(300) {
		t.Errorf("expected balance 500 -> 300, got %v -> %v", attempt["balance_before"], attempt["balance_after"])
	}

	puts := e.backend.callsTo("PUT", "/api/user/update")
	if len(puts) != 1 || puts[0].IdempotencyKey != attemptID {
		t.Errorf("expected the attempt ID as idempotency key, got %+v", puts)
	}
}

func TestGetAttemptsInvalidFilter(t *testing.T) {
	e := newTestEnv(t)
	router := setupJournalRouter(e, freshJournal(t))
	admin := e.seedSession(t, adminIdentity())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/gift-attempts?status=refunded", nil, admin))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetAttemptNotFound(t *testing.T) {
	e := newTestEnv(t)
	router := setupJournalRouter(e, freshJournal(t))
	admin := e.seedSession(t, adminIdentity())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/gift-attempts/"+uuid.NewString(), nil, admin))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/gift-attempts/not-a-uuid", nil, admin))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGiftAttemptsRequireAdmin(t *testing.T) {
	e := newTestEnv(t)
	router := setupJournalRouter(e, freshJournal(t))
	staff := e.seedSession(t, dtos.Identity{ID: 2, Role: dtos.RoleStaff})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/gift-attempts", nil, staff))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}
