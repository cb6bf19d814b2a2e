package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"clinic-scheduling-api/config"
	"clinic-scheduling-api/internal/delivery/dto"
	"clinic-scheduling-api/internal/domain/entity"
	"clinic-scheduling-api/pkg/jwt"

	"github.com/redis/go-redis/v9"
)

// These tests exercise the token lifecycle against a real redis. They
// skip when REDIS_ADDR is not set.
func setupAuth(t *testing.T) (AuthUsecase, *jwt.JWTService, *redis.Client) {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 9})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	uc := NewAuthUsecase(testLogger(), newMockUserRepo(), jwtService, client, noopAuditService{})
	return uc, jwtService, client
}

func registerAndLogin(t *testing.T, uc AuthUsecase) *dto.TokenResponse {
	t.Helper()

	email := fmt.Sprintf("member-%d@clinic.example", time.Now().UnixNano())
	if _, err := uc.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: "longenough",
		FullName: "Test Member",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tokens, err := uc.Login(context.Background(), &dto.LoginRequest{Email: email, Password: "longenough"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return tokens
}

func TestLoginStoresTokens(t *testing.T) {
	uc, jwtService, client := setupAuth(t)
	tokens := registerAndLogin(t, uc)

	claims, err := jwtService.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.Role != entity.RoleMember {
		t.Fatalf("role = %q, want member", claims.Role)
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", claims.UserID, claims.TokenID)
	exists, err := client.Exists(context.Background(), accessKey).Result()
	if err != nil || exists != 1 {
		t.Fatalf("access key missing: exists=%d err=%v", exists, err)
	}
}

func TestLogoutRevokesAccessAndRefresh(t *testing.T) {
	uc, jwtService, client := setupAuth(t)
	tokens := registerAndLogin(t, uc)

	accessClaims, err := jwtService.ValidateToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}

	if err := uc.Logout(context.Background(), accessClaims.UserID, accessClaims.TokenID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	accessKey := fmt.Sprintf("access_token:%s:%s", accessClaims.UserID, accessClaims.TokenID)
	if exists, _ := client.Exists(context.Background(), accessKey).Result(); exists != 0 {
		t.Fatal("access token still valid after logout")
	}

	refreshKeys, err := client.Keys(context.Background(), fmt.Sprintf("refresh_token:%s:*", accessClaims.UserID)).Result()
	if err != nil {
		t.Fatalf("list refresh keys: %v", err)
	}
	if len(refreshKeys) != 0 {
		t.Fatalf("refresh tokens survived logout: %v", refreshKeys)
	}

	// The surviving refresh JWT must be unusable.
	_, err = uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("refresh after logout: got %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	uc, _, _ := setupAuth(t)
	tokens := registerAndLogin(t, uc)

	fresh, err := uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.AccessToken == tokens.AccessToken {
		t.Fatal("access token not rotated")
	}

	// The old refresh token is single-use.
	_, err = uc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("reuse of rotated refresh token: got %v, want ErrTokenRevoked", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _, _ := setupAuth(t)

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@clinic.example", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}
