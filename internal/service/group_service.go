package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/splitit/internal/calculator"
	"github.com/mmynk/splitit/internal/events"
	"github.com/mmynk/splitit/internal/models"
	"github.com/mmynk/splitit/internal/storage"
	"github.com/mmynk/splitit/pkg/api"
	"github.com/mmynk/splitit/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	repo   *storage.Repository
	events events.Publisher
}

// NewGroupService creates a new GroupService over the given repository.
func NewGroupService(repo *storage.Repository, publisher events.Publisher) *GroupService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &GroupService{repo: repo, events: publisher}
}

// newParticipants validates display names and assigns IDs.
func newParticipants(names []string) ([]models.Participant, error) {
	seen := make(map[string]bool, len(names))
	participants := make([]models.Participant, 0, len(names))
	for _, raw := range names {
		name := normalizeName(raw)
		if name == "" {
			return nil, fmt.Errorf("participant %w", ErrNameRequired)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, name)
		}
		seen[key] = true
		participants = append(participants, models.Participant{ID: uuid.NewString(), Name: name})
	}
	if len(participants) < 2 {
		return nil, ErrTooFewParticipants
	}
	return participants, nil
}

func (s *GroupService) group(ctx context.Context, groupID string) (models.Group, error) {
	if groupID == "" {
		return models.Group{}, ErrGroupIDRequired
	}
	group, ok := s.repo.Group(ctx, groupID)
	if !ok {
		return models.Group{}, ErrGroupNotFound
	}
	return group, nil
}

// modify wraps Repository.ModifyGroup, translating a missing group.
func (s *GroupService) modify(ctx context.Context, groupID string, fn func(*models.Group) error) (models.Group, error) {
	if groupID == "" {
		return models.Group{}, ErrGroupIDRequired
	}
	return translateNotFound(s.repo.ModifyGroup(ctx, groupID, fn))
}

// modifyWithExpenses changes a group snapshot and the expenses collection
// together.
func (s *GroupService) modifyWithExpenses(
	ctx context.Context,
	groupID string,
	fn func(*models.Group) error,
	apply func([]models.Expense) []models.Expense,
) (models.Group, error) {
	if groupID == "" {
		return models.Group{}, ErrGroupIDRequired
	}
	return translateNotFound(s.repo.ModifyGroupExpenses(ctx, groupID, fn, apply))
}

func translateNotFound(group models.Group, err error) (models.Group, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
	)

	name := normalizeName(req.Msg.Name)
	if name == "" {
		return nil, connectError(ErrNameRequired)
	}
	participants, err := newParticipants(req.Msg.Participants)
	if err != nil {
		return nil, connectError(err)
	}

	group := models.Group{
		ID:           uuid.NewString(),
		Name:         name,
		Participants: participants,
		Expenses:     []models.Expense{},
		CreatedAt:    time.Now().UTC(),
	}
	s.repo.AddGroup(ctx, group)
	publish(ctx, s.events, group.ID, "group.created")

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.group(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{
		Group:    toAPIGroup(group),
		Expenses: toAPIExpenses(group, group.Expenses),
	}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups := s.repo.Groups(ctx)

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = toAPIGroup(g)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames an existing group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	name := normalizeName(req.Msg.Name)
	if name == "" {
		return nil, connectError(ErrNameRequired)
	}

	group, err := s.modify(ctx, req.Msg.GroupID, func(g *models.Group) error {
		g.Name = name
		return nil
	})
	if err != nil {
		slog.Error("UpdateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}
	publish(ctx, s.events, group.ID, "group.renamed")

	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(group)}), nil
}

// DeleteGroup removes a group and every expense recorded for it.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if _, err := s.group(ctx, req.Msg.GroupID); err != nil {
		return nil, connectError(err)
	}

	s.repo.DeleteGroupWithExpenses(ctx, req.Msg.GroupID)
	publish(ctx, s.events, req.Msg.GroupID, "group.deleted")

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddParticipant appends a uniquely named participant.
func (s *GroupService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	slog.Info("AddParticipant request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	name := normalizeName(req.Msg.Name)
	if name == "" {
		return nil, connectError(ErrNameRequired)
	}

	participant := models.Participant{ID: uuid.NewString(), Name: name}
	group, err := s.modify(ctx, req.Msg.GroupID, func(g *models.Group) error {
		for _, p := range g.Participants {
			if strings.EqualFold(p.Name, name) {
				return fmt.Errorf("%w: %q", ErrDuplicateParticipant, name)
			}
		}
		g.Participants = append(g.Participants, participant)
		return nil
	})
	if err != nil {
		slog.Error("AddParticipant failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}
	publish(ctx, s.events, group.ID, "participant.added")

	return connect.NewResponse(&api.AddParticipantResponse{
		Group:       toAPIGroup(group),
		Participant: api.Participant{ID: participant.ID, Name: participant.Name},
	}), nil
}

// RemoveParticipant drops a participant that no expense refers to. A group
// never shrinks below two participants.
func (s *GroupService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	slog.Info("RemoveParticipant request received",
		"group_id", req.Msg.GroupID,
		"participant_id", req.Msg.ParticipantID,
	)

	group, err := s.modify(ctx, req.Msg.GroupID, func(g *models.Group) error {
		if !g.HasParticipant(req.Msg.ParticipantID) {
			return ErrParticipantNotFound
		}
		for _, e := range g.Expenses {
			if e.PaidBy == req.Msg.ParticipantID {
				return fmt.Errorf("%w: %s", ErrParticipantInUse, e.Description)
			}
		}
		// Expenses are split over every participant.
		if len(g.Expenses) > 0 {
			return fmt.Errorf("%w: group has %d expenses", ErrParticipantInUse, len(g.Expenses))
		}
		if len(g.Participants) <= 2 {
			return connect.NewError(connect.CodeFailedPrecondition, ErrTooFewParticipants)
		}

		kept := g.Participants[:0]
		for _, p := range g.Participants {
			if p.ID != req.Msg.ParticipantID {
				kept = append(kept, p)
			}
		}
		g.Participants = kept
		return nil
	})
	if err != nil {
		slog.Error("RemoveParticipant failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}
	publish(ctx, s.events, group.ID, "participant.removed")

	return connect.NewResponse(&api.RemoveParticipantResponse{Group: toAPIGroup(group)}), nil
}

// GetGroupBalances computes every settlement view from a freshly read snapshot.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	group, err := s.group(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, connectError(err)
	}

	for _, d := range calculator.Reconcile(group) {
		slog.Warn("Exact view does not reconcile with net balance",
			"group_id", groupID,
			"participant_id", d.ParticipantID,
			"net", d.Net.String(),
			"pairwise", d.Pairwise.String(),
		)
	}

	resp := &api.GetGroupBalancesResponse{
		GroupID:   group.ID,
		GroupName: group.Name,
		Currency:  s.repo.AppState(ctx).Currency,
		Net:       toAPINetBalances(group, calculator.NetBalances(group)),
		Transfers: toAPITransfers(group, calculator.SimplifyDebts(group)),
		Exact:     toAPITransfers(group, calculator.ExactBalances(group)),
		Summary:   toAPISummary(group, calculator.Summarize(group)),
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses", len(group.Expenses),
		"transfers", len(resp.Transfers),
	)

	return connect.NewResponse(resp), nil
}
