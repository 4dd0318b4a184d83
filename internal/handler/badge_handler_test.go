package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/clawlink/clawlink/internal/testutil"
	"github.com/gin-gonic/gin"
)

func newBadgeHandlerForTest(t *testing.T) *BadgeHandler {
	db := testutil.NewDB(t)
	badgeRepo := repository.NewBadgeRepository(db)
	if err := badgeRepo.SeedSystemBadges(); err != nil {
		t.Fatalf("seed badges: %v", err)
	}
	return NewBadgeHandler(service.NewBadgeService(badgeRepo))
}

func TestBadgeHandler_List_ReturnsSeededCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newBadgeHandlerForTest(t)
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.GET("/api/badges", h.List)

	c.Request, _ = http.NewRequest("GET", "/api/badges", nil)
	r.ServeHTTP(w, c.Request)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBadgeHandler_Get_UnknownSlugIsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newBadgeHandlerForTest(t)
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.GET("/api/badges/:slug", h.Get)

	c.Request, _ = http.NewRequest("GET", "/api/badges/does-not-exist", nil)
	r.ServeHTTP(w, c.Request)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBadgeHandler_Award_RejectsMissingBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newBadgeHandlerForTest(t)
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.POST("/api/badges/award", h.Award)

	c.Request, _ = http.NewRequest("POST", "/api/badges/award", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, c.Request)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBadgeHandler_Award_ThenListForAgent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newBadgeHandlerForTest(t)
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	r.POST("/api/badges/award", h.Award)
	r.GET("/api/badges/agent/:id", h.ListForAgent)

	body := `{"agentId":"agent-a","slug":"verified"}`
	c.Request, _ = http.NewRequest("POST", "/api/badges/award", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, c.Request)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("GET", "/api/badges/agent/agent-a", nil)
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	if !strings.Contains(w2.Body.String(), "verified") {
		t.Fatalf("expected body to contain awarded badge, got %s", w2.Body.String())
	}
}
