package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/jimmyhealer/shovel-hero/internal/audit/domain"
	auditrepository "github.com/jimmyhealer/shovel-hero/internal/audit/repository"
	auditservice "github.com/jimmyhealer/shovel-hero/internal/audit/service"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	"github.com/jimmyhealer/shovel-hero/internal/config"
	"github.com/jimmyhealer/shovel-hero/internal/identity"
	identitydomain "github.com/jimmyhealer/shovel-hero/internal/identity/domain"
	identityrepository "github.com/jimmyhealer/shovel-hero/internal/identity/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testAdminPassword = "open-sesame"

func newAuthTestServer(t *testing.T) (*Server, *gin.Engine, *identitydomain.AdminUser) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&identitydomain.AdminUser{}, &auditdomain.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	genID, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	// Token expiry is checked against wall-clock time during parsing, so
	// the manual clock anchors at real now rather than a fixed date.
	manual := clock.NewManual(time.Now().UTC())

	hash, err := identity.HashPassword(testAdminPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admins := identityrepository.Provide(db)
	admin := &identitydomain.AdminUser{
		ID:           genID.Generate(),
		Email:        "ops@shovelhero.local",
		DisplayName:  "Ops",
		PasswordHash: hash,
		CreatedAt:    manual.Now(),
	}
	if err := admins.Create(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	s := &Server{
		cfg: config.Config{
			JWTSecret:  "test-secret",
			SessionTTL: time.Hour,
		},
		log:    zap.NewNop(),
		clock:  manual,
		admins: admins,
		auditSvc: auditservice.NewRecorder(auditservice.Params{
			DB:    db,
			Log:   zap.NewNop(),
			GenID: genID,
			Repo:  auditrepository.Provide(),
		}),
	}

	engine := gin.New()
	engine.POST("/api/admin/login", s.AdminLogin)
	engine.GET("/api/admin/whoami", s.AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": s.adminEmail(c)})
	})
	return s, engine, admin
}

func login(t *testing.T, engine *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAdminLoginIssuesUsableToken(t *testing.T) {
	_, engine, admin := newAuthTestServer(t)

	rec := login(t, engine, admin.Email, testAdminPassword)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	who := httptest.NewRecorder()
	engine.ServeHTTP(who, req)
	if who.Code != http.StatusOK {
		t.Fatalf("whoami status %d: %s", who.Code, who.Body.String())
	}
	var identityResp struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(who.Body.Bytes(), &identityResp); err != nil {
		t.Fatalf("decode whoami response: %v", err)
	}
	if identityResp.Email != admin.Email {
		t.Fatalf("whoami returned %q, want %q", identityResp.Email, admin.Email)
	}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	_, engine, admin := newAuthTestServer(t)

	if rec := login(t, engine, admin.Email, "wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status %d", rec.Code)
	}
	if rec := login(t, engine, "nobody@shovelhero.local", testAdminPassword); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email status %d", rec.Code)
	}
}

func TestAdminRequiredRejectsBadTokens(t *testing.T) {
	s, engine, admin := newAuthTestServer(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}

	t.Run("expired token", func(t *testing.T) {
		s.cfg.SessionTTL = -time.Minute
		rec := login(t, engine, admin.Email, testAdminPassword)
		if rec.Code != http.StatusOK {
			t.Fatalf("login status %d", rec.Code)
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/admin/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		who := httptest.NewRecorder()
		engine.ServeHTTP(who, req)
		if who.Code != http.StatusUnauthorized {
			t.Fatalf("expired token status %d", who.Code)
		}
	})
}
