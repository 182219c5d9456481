package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 配置测试 ====================

func TestSetJWTConfig(t *testing.T) {
	original := GetJWTConfig()
	defer SetJWTConfig(original)

	SetJWTConfig(&JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  10 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "test-issuer",
	})

	if GetJWTConfig().AccessTokenTTL != 10*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 10m", GetJWTConfig().AccessTokenTTL)
	}

	// 新配置下签发的 Token 带新签发者，且能用同一配置解析
	token, err := GenerateAccessToken(1, "stu@example.edu", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("Issuer = %s, want test-issuer", claims.Issuer)
	}
	if claims.UserID != 1 {
		t.Errorf("UserID = %d, want 1", claims.UserID)
	}
}

// ==================== 中间件测试 ====================

func setupAuthedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "email": CurrentEmail(c)})
	})
	r.GET("/admin", JWTAuth(), RequireRole("moderator"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": 0})
	})
	return r
}

func doAuthed(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := setupAuthedRouter()

	access, err := GenerateAccessToken(7, "stu@example.edu", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if w := doAuthed(r, "/me", "Bearer "+access); w.Code != http.StatusOK {
		t.Errorf("带有效 Token status = %d, want 200", w.Code)
	}

	if w := doAuthed(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("无 Token status = %d, want 401", w.Code)
	}
	if w := doAuthed(r, "/me", "Bearer garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("非法 Token status = %d, want 401", w.Code)
	}
	if w := doAuthed(r, "/me", "Basic "+access); w.Code != http.StatusUnauthorized {
		t.Errorf("非 Bearer 头 status = %d, want 401", w.Code)
	}

	// Refresh Token 不能当 Access Token 用
	refresh, err := GenerateRefreshToken(7, "stu@example.edu", "student")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	if w := doAuthed(r, "/me", "Bearer "+refresh); w.Code != http.StatusUnauthorized {
		t.Errorf("Refresh Token status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := setupAuthedRouter()

	student, _ := GenerateAccessToken(7, "stu@example.edu", "student")
	moderator, _ := GenerateAccessToken(1, "mod@example.edu", "moderator")

	if w := doAuthed(r, "/admin", "Bearer "+student); w.Code != http.StatusForbidden {
		t.Errorf("学生访问审核接口 status = %d, want 403", w.Code)
	}
	if w := doAuthed(r, "/admin", "Bearer "+moderator); w.Code != http.StatusOK {
		t.Errorf("审核员访问 status = %d, want 200", w.Code)
	}
}
