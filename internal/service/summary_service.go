package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitit/internal/calculator"
	"github.com/mmynk/splitit/internal/storage"
	"github.com/mmynk/splitit/pkg/api"
	"github.com/mmynk/splitit/pkg/api/apiconnect"
)

// SummaryService implements the Connect SummaryService: who pays whom across
// every group.
type SummaryService struct {
	apiconnect.UnimplementedSummaryServiceHandler
	repo *storage.Repository
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(repo *storage.Repository) *SummaryService {
	return &SummaryService{repo: repo}
}

// GetSummary returns the greedy transfer list of every group and the total
// still outstanding. Settled groups are included with no transfers.
func (s *SummaryService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	groups := s.repo.Groups(ctx)

	settlements := make([]api.GroupSettlement, 0, len(groups))
	pending := 0
	outstanding := decimal.Zero
	for _, g := range groups {
		transfers := toAPITransfers(g, calculator.SimplifyDebts(g))
		pending += len(transfers)
		for _, t := range transfers {
			outstanding = outstanding.Add(t.Amount)
		}
		settlements = append(settlements, api.GroupSettlement{
			GroupID:   g.ID,
			GroupName: g.Name,
			Transfers: transfers,
		})
	}

	slog.Info("GetSummary successful",
		"groups", len(groups),
		"transfers", pending,
		"outstanding", outstanding.StringFixed(calculator.MinorUnitPlaces),
	)

	return connect.NewResponse(&api.GetSummaryResponse{
		Currency:         s.repo.AppState(ctx).Currency,
		Groups:           settlements,
		TotalOutstanding: calculator.RoundMoney(outstanding),
	}), nil
}
