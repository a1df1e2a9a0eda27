package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitit/internal/events"
	"github.com/mmynk/splitit/internal/storage"
	"github.com/mmynk/splitit/internal/storage/memory"
	"github.com/mmynk/splitit/pkg/api"
	"github.com/mmynk/splitit/pkg/api/apiconnect"
)

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type testClients struct {
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
	summary  apiconnect.SummaryServiceClient
	repo     *storage.Repository
	events   *recorder
}

// setupTestServer serves all settlement services over an in-memory store.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	repo := storage.NewRepository(memory.New(), nil)
	rec := &recorder{}

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(repo, rec)))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(repo, rec)))
	mux.Handle(apiconnect.NewSummaryServiceHandler(NewSummaryService(repo)))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testClients{
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		summary:  apiconnect.NewSummaryServiceClient(http.DefaultClient, server.URL),
		repo:     repo,
		events:   rec,
	}
}

func (c *testClients) createGroup(t *testing.T, name string, participants ...string) *api.Group {
	t.Helper()
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:         name,
		Participants: participants,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func (c *testClients) addExpense(t *testing.T, groupID, paidBy, amount, description string) *api.Expense {
	t.Helper()
	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupID:     groupID,
		PaidBy:      paidBy,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

// participantID finds a participant by display name.
func participantID(t *testing.T, g *api.Group, name string) string {
	t.Helper()
	for _, p := range g.Participants {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("participant %q not in group", name)
	return ""
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code: expected %v, got %v (%v)", want, got, err)
	}
}
