package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"sublet_hub_v1_202608/internal/api/dto"
	"sublet_hub_v1_202608/internal/middleware"
	"sublet_hub_v1_202608/internal/model"
	"sublet_hub_v1_202608/internal/repository"
)

// ==================== 测试辅助函数 ====================

func newAuthTest(t *testing.T) (*AuthService, *gorm.DB) {
	db := setupServiceTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))
	return svc, db
}

func registerUser(t *testing.T, svc *AuthService, email, password string) *dto.UserInfo {
	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: password,
		Nickname: "测试学生",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return user
}

// ==================== 注册测试 ====================

func TestAuthService_Register(t *testing.T) {
	svc, db := newAuthTest(t)

	user := registerUser(t, svc, "stu@example.edu", "super-secret-1")

	if user.Email != "stu@example.edu" {
		t.Errorf("Email = %s", user.Email)
	}
	if user.Role != model.RoleStudent {
		t.Errorf("Role = %s, want %s", user.Role, model.RoleStudent)
	}

	// 密码只存哈希
	var stored model.SysUser
	db.First(&stored, user.ID)
	if stored.Password == "super-secret-1" {
		t.Error("密码不应明文入库")
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc, _ := newAuthTest(t)

	registerUser(t, svc, "stu@example.edu", "super-secret-1")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "stu@example.edu",
		Password: "another-secret",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

// ==================== 登录测试 ====================

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthTest(t)
	ctx := context.Background()

	registerUser(t, svc, "stu@example.edu", "super-secret-1")

	resp, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "stu@example.edu",
		Password: "super-secret-1",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("Token 对不应为空")
	}

	claims, err := middleware.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Email != "stu@example.edu" {
		t.Errorf("claims.Email = %s", claims.Email)
	}
	if claims.Subject != "access" {
		t.Errorf("Subject = %s, want access", claims.Subject)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newAuthTest(t)

	registerUser(t, svc, "stu@example.edu", "super-secret-1")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu@example.edu",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newAuthTest(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.edu",
		Password: "whatever-pass",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Login_DisabledUser(t *testing.T) {
	svc, db := newAuthTest(t)

	user := registerUser(t, svc, "stu@example.edu", "super-secret-1")
	db.Model(&model.SysUser{}).Where("id = ?", user.ID).Update("status", model.UserStatusDisabled)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "stu@example.edu",
		Password: "super-secret-1",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("error = %v, want ErrUserDisabled", err)
	}
}

// ==================== Token 刷新测试 ====================

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _ := newAuthTest(t)
	ctx := context.Background()

	registerUser(t, svc, "stu@example.edu", "super-secret-1")
	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "stu@example.edu",
		Password: "super-secret-1",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	resp, err := svc.RefreshToken(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("新 AccessToken 不应为空")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _ := newAuthTest(t)
	ctx := context.Background()

	registerUser(t, svc, "stu@example.edu", "super-secret-1")
	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "stu@example.edu",
		Password: "super-secret-1",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// Access Token 不能当 Refresh Token 用
	_, err = svc.RefreshToken(ctx, login.AccessToken)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc, _ := newAuthTest(t)

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}
