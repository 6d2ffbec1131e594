package services

import (
	"context"
	"testing"
	"time"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/requestdata"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)
	return NewAuthService(db, log, userRepo, tokenRepo, "test-secret", time.Hour, 24*time.Hour)
}

func registerUser(t *testing.T, svc AuthService, email, role string) *types.User {
	t.Helper()
	user := &types.User{
		FirstName: "Ada",
		LastName:  "Bramwell",
		Email:     email,
		Password:  "correct horse battery",
		Role:      role,
	}
	if err := svc.Register(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	svc := newAuthFixture(t)
	user := registerUser(t, svc, "ada@example.com", "")

	if user.Password == "correct horse battery" {
		t.Fatalf("password stored in plain text")
	}
	if user.Role != types.RoleAssessor {
		t.Fatalf("want default role %q, got %q", types.RoleAssessor, user.Role)
	}
}

func TestRegisterRejectsDuplicateEmailAndUnknownRole(t *testing.T) {
	svc := newAuthFixture(t)
	registerUser(t, svc, "ada@example.com", types.RoleAdmin)

	dup := &types.User{FirstName: "Ada", LastName: "B", Email: "ADA@example.com", Password: "another password"}
	if err := svc.Register(context.Background(), dup); err == nil {
		t.Fatalf("want duplicate email rejected")
	}

	bad := &types.User{FirstName: "Eve", LastName: "B", Email: "eve@example.com", Password: "password123", Role: "superuser"}
	if err := svc.Register(context.Background(), bad); err == nil {
		t.Fatalf("want unknown role rejected")
	}
}

func TestLoginRefreshLogoutRoundTrip(t *testing.T) {
	svc := newAuthFixture(t)
	user := registerUser(t, svc, "ada@example.com", types.RoleAdmin)
	ctx := context.Background()

	access, refresh, err := svc.Login(ctx, "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("empty token pair")
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	rd := requestdata.GetRequestData(authed)
	if rd == nil || rd.UserID != user.ID || rd.Role != types.RoleAdmin {
		t.Fatalf("bad request data: %+v", rd)
	}

	refreshCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	access2, refresh2, err := svc.Refresh(refreshCtx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatalf("refresh token not rotated")
	}

	// the old refresh token must be dead after rotation
	staleCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh})
	if _, _, err := svc.Refresh(staleCtx); err == nil {
		t.Fatalf("want rotated-out refresh token rejected")
	}

	if err := svc.Logout(authed); err != nil {
		t.Fatalf("logout: %v", err)
	}
	deadCtx := requestdata.WithRequestData(ctx, &requestdata.RequestData{RefreshToken: refresh2})
	if _, _, err := svc.Refresh(deadCtx); err == nil {
		t.Fatalf("want refresh rejected after logout")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newAuthFixture(t)
	registerUser(t, svc, "ada@example.com", types.RoleAdmin)

	if _, _, err := svc.Login(context.Background(), "ada@example.com", "wrong"); err == nil {
		t.Fatalf("want wrong password rejected")
	}
}
