package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitit/internal/auth"
	"github.com/mmynk/splitit/internal/middleware"
	"github.com/mmynk/splitit/internal/storage"
	"github.com/mmynk/splitit/internal/storage/memory"
	"github.com/mmynk/splitit/pkg/api"
	"github.com/mmynk/splitit/pkg/api/apiconnect"
)

func setupAuthServer(t *testing.T) (apiconnect.AuthServiceClient, apiconnect.SummaryServiceClient) {
	t.Helper()

	repo := storage.NewRepository(memory.New(), nil)
	jwtManager := auth.NewJWTManager("test-secret-test-secret-test-secret", time.Hour)
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(repo), repo, jwtManager, nil)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc,
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))
	mux.Handle(apiconnect.NewSummaryServiceHandler(NewSummaryService(repo),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		apiconnect.NewSummaryServiceClient(http.DefaultClient, server.URL)
}

func TestAuthFlow(t *testing.T) {
	client, summary := setupAuthServer(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "asha@example.com",
		DisplayName: "Asha",
		Password:    "correct horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.Token == "" || reg.Msg.User.ID == "" {
		t.Fatalf("expected token and user, got %+v", reg.Msg)
	}

	_, err = client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "asha@example.com",
		DisplayName: "Asha again",
		Password:    "correct horse",
	}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "asha@example.com", Password: "wrong password"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	login, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "asha@example.com", Password: "correct horse"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// GetCurrentUser needs the token
	_, err = client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	req := connect.NewRequest(&api.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	me, err := client.GetCurrentUser(ctx, req)
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.DisplayName != "Asha" || me.Msg.User.Email != "asha@example.com" {
		t.Errorf("unexpected user: %+v", me.Msg.User)
	}

	// Protected services reject anonymous calls
	_, err = summary.GetSummary(ctx, connect.NewRequest(&api.GetSummaryRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	authed := connect.NewRequest(&api.GetSummaryRequest{})
	authed.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	if _, err := summary.GetSummary(ctx, authed); err != nil {
		t.Errorf("GetSummary with token failed: %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	client, _ := setupAuthServer(t)

	tests := []struct {
		name string
		req  *api.RegisterRequest
	}{
		{name: "missing email", req: &api.RegisterRequest{DisplayName: "A", Password: "correct horse"}},
		{name: "missing display name", req: &api.RegisterRequest{Email: "a@example.com", Password: "correct horse"}},
		{name: "weak password", req: &api.RegisterRequest{Email: "a@example.com", DisplayName: "A", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Register(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}
