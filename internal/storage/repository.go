package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/splitit/internal/models"
)

var storageErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "splitit_storage_errors_total",
		Help: "Storage reads and writes that failed and were swallowed",
	},
	[]string{"op"},
)

// Repository stores groups, expenses, app state and users as JSON collections
// in a KV.
//
// Group, expense and app state operations never fail from the caller's point
// of view: read failures yield an empty collection and write failures are
// logged and dropped. Callers must not assume a write succeeded. User
// operations return errors because authentication cannot tolerate lost accounts.
type Repository struct {
	kv     KV
	logger *slog.Logger

	// mu serializes read-modify-write cycles on whole collections.
	mu sync.Mutex
}

// NewRepository creates a repository over the given KV backend.
func NewRepository(kv KV, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{kv: kv, logger: logger}
}

// Close closes the underlying KV.
func (r *Repository) Close() error {
	return r.kv.Close()
}

func (r *Repository) read(ctx context.Context, key string, v any) error {
	data, err := r.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// load decodes key into v, reporting whether a stored value was used.
// Missing keys are normal; any other failure is logged and counted.
func (r *Repository) load(ctx context.Context, op, key string, v any) bool {
	err := r.read(ctx, key, v)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrNotFound) {
		storageErrors.WithLabelValues(op).Inc()
		r.logger.Error("Storage read failed", "op", op, "key", key, "error", err)
	}
	return false
}

// save encodes v under key. Failures are logged, counted and swallowed.
func (r *Repository) save(ctx context.Context, op, key string, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = r.kv.Set(ctx, key, data)
	}
	if err != nil {
		storageErrors.WithLabelValues(op).Inc()
		r.logger.Error("Storage write failed", "op", op, "key", key, "error", err)
	}
}

// Groups returns every stored group. Read failures yield an empty list.
func (r *Repository) Groups(ctx context.Context) []models.Group {
	var groups []models.Group
	if !r.load(ctx, "get_groups", KeyGroups, &groups) || groups == nil {
		return []models.Group{}
	}
	return groups
}

// SaveGroups replaces the whole group collection.
func (r *Repository) SaveGroups(ctx context.Context, groups []models.Group) {
	r.save(ctx, "save_groups", KeyGroups, groups)
}

// Group returns the group with the given ID.
func (r *Repository) Group(ctx context.Context, groupID string) (models.Group, bool) {
	for _, g := range r.Groups(ctx) {
		if g.ID == groupID {
			return g, true
		}
	}
	return models.Group{}, false
}

// AddGroup appends a group to the collection.
func (r *Repository) AddGroup(ctx context.Context, group models.Group) {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups := r.Groups(ctx)
	groups = append(groups, group)
	r.SaveGroups(ctx, groups)
}

// UpdateGroup replaces the stored group with the same ID.
// Unknown IDs are ignored.
func (r *Repository) UpdateGroup(ctx context.Context, group models.Group) {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups := r.Groups(ctx)
	for i := range groups {
		if groups[i].ID == group.ID {
			groups[i] = group
			r.SaveGroups(ctx, groups)
			return
		}
	}
}

// ModifyGroup applies fn to a copy of the stored group and saves the result
// under the collection lock. It returns an error wrapping ErrNotFound for
// unknown IDs, and fn's error unchanged, in which case nothing is saved.
func (r *Repository) ModifyGroup(ctx context.Context, groupID string, fn func(*models.Group) error) (models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.modifyGroup(ctx, groupID, fn)
}

// ModifyGroupExpenses is ModifyGroup followed by rewriting the expenses
// collection with apply, under the same lock. apply only runs when the group
// exists and fn succeeds.
func (r *Repository) ModifyGroupExpenses(
	ctx context.Context,
	groupID string,
	fn func(*models.Group) error,
	apply func([]models.Expense) []models.Expense,
) (models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, err := r.modifyGroup(ctx, groupID, fn)
	if err != nil {
		return models.Group{}, err
	}
	r.SaveExpenses(ctx, apply(r.Expenses(ctx)))
	return group, nil
}

func (r *Repository) modifyGroup(ctx context.Context, groupID string, fn func(*models.Group) error) (models.Group, error) {
	groups := r.Groups(ctx)
	for i := range groups {
		if groups[i].ID != groupID {
			continue
		}
		g := groups[i].Clone()
		if err := fn(&g); err != nil {
			return models.Group{}, err
		}
		groups[i] = g
		r.SaveGroups(ctx, groups)
		return g, nil
	}
	return models.Group{}, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
}

// DeleteGroup removes the group with the given ID.
func (r *Repository) DeleteGroup(ctx context.Context, groupID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteGroup(ctx, groupID)
}

// DeleteGroupWithExpenses removes a group and every expense recorded for it
// under one lock.
func (r *Repository) DeleteGroupWithExpenses(ctx context.Context, groupID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteGroup(ctx, groupID)
	r.SaveExpenses(ctx, filterExpenses(r.Expenses(ctx), func(e models.Expense) bool { return e.GroupID == groupID }))
}

func (r *Repository) deleteGroup(ctx context.Context, groupID string) {
	groups := r.Groups(ctx)
	filtered := groups[:0]
	for _, g := range groups {
		if g.ID != groupID {
			filtered = append(filtered, g)
		}
	}
	r.SaveGroups(ctx, filtered)
}

// Expenses returns every stored expense. Read failures yield an empty list.
func (r *Repository) Expenses(ctx context.Context) []models.Expense {
	var expenses []models.Expense
	if !r.load(ctx, "get_expenses", KeyExpenses, &expenses) || expenses == nil {
		return []models.Expense{}
	}
	return expenses
}

// ExpensesByGroup returns the stored expenses of one group.
func (r *Repository) ExpensesByGroup(ctx context.Context, groupID string) []models.Expense {
	var out []models.Expense
	for _, e := range r.Expenses(ctx) {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out
}

// SaveExpenses replaces the whole expense collection.
func (r *Repository) SaveExpenses(ctx context.Context, expenses []models.Expense) {
	r.save(ctx, "save_expenses", KeyExpenses, expenses)
}

// AddExpense appends an expense to the collection.
func (r *Repository) AddExpense(ctx context.Context, expense models.Expense) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expenses := r.Expenses(ctx)
	expenses = append(expenses, expense)
	r.SaveExpenses(ctx, expenses)
}

// UpdateExpense replaces the stored expense with the same ID.
// Unknown IDs are ignored.
func (r *Repository) UpdateExpense(ctx context.Context, expense models.Expense) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expenses := r.Expenses(ctx)
	for i := range expenses {
		if expenses[i].ID == expense.ID {
			expenses[i] = expense
			r.SaveExpenses(ctx, expenses)
			return
		}
	}
}

// DeleteExpense removes the expense with the given ID.
func (r *Repository) DeleteExpense(ctx context.Context, expenseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.SaveExpenses(ctx, filterExpenses(r.Expenses(ctx), func(e models.Expense) bool { return e.ID == expenseID }))
}

// filterExpenses drops the expenses matching match, reusing the slice.
func filterExpenses(expenses []models.Expense, match func(models.Expense) bool) []models.Expense {
	filtered := expenses[:0]
	for _, e := range expenses {
		if !match(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// AppState returns the stored app state, or the defaults when none is stored
// or it cannot be read. Fields missing from the stored record take their
// default value.
func (r *Repository) AppState(ctx context.Context) models.AppState {
	var state models.AppState
	if !r.load(ctx, "get_app_state", KeyAppState, &state) {
		return models.DefaultAppState()
	}
	return state.WithDefaults(models.DefaultAppState())
}

// SaveAppState replaces the app state.
func (r *Repository) SaveAppState(ctx context.Context, state models.AppState) {
	r.save(ctx, "save_app_state", KeyAppState, state)
}

// InitAppState stores state unless an app state is already stored, and
// returns whichever is now in effect. A stored record keeps its values; its
// empty fields are filled from state and saved back.
func (r *Repository) InitAppState(ctx context.Context, state models.AppState) models.AppState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state = state.WithDefaults(models.DefaultAppState())

	var stored models.AppState
	if !r.load(ctx, "get_app_state", KeyAppState, &stored) {
		r.SaveAppState(ctx, state)
		return state
	}

	merged := stored.WithDefaults(state)
	if merged != stored {
		r.SaveAppState(ctx, merged)
	}
	return merged
}

// ClearAll removes every collection.
func (r *Repository) ClearAll(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kv.Delete(ctx, AllKeys...); err != nil {
		storageErrors.WithLabelValues("clear_all").Inc()
		r.logger.Error("Storage clear failed", "error", err)
	}
}

func (r *Repository) users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.read(ctx, KeyUsers, &users)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

// CreateUser stores a new user account.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.users(ctx)
	if err != nil {
		return err
	}
	users = append(users, *user)

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := r.kv.Set(ctx, KeyUsers, data); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address, ignoring case.
// Returns an error wrapping ErrNotFound when there is no such user.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
}

// GetUserByID retrieves a user by ID.
// Returns an error wrapping ErrNotFound when there is no such user.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := r.users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
}
