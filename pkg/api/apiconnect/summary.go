package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitit/pkg/api"
)

// SummaryServiceHandler is implemented by the server side of SummaryService.
type SummaryServiceHandler interface {
	// GetSummary returns the greedy transfers of every group.
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// SummaryServiceClient is a client for SummaryService.
type SummaryServiceClient interface {
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewSummaryServiceClient constructs a client for SummaryService. baseURL is the server root,
// e.g. http://localhost:8080.
func NewSummaryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SummaryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &summaryServiceClient{
		getSummary: connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](
			httpClient,
			baseURL+SummaryServiceGetSummaryProcedure,
			opts...,
		),
	}
}

type summaryServiceClient struct {
	getSummary *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

func (c *summaryServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

// NewSummaryServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSummaryServiceHandler(svc SummaryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getSummaryHandler := connect.NewUnaryHandler(
		SummaryServiceGetSummaryProcedure,
		svc.GetSummary,
		opts...,
	)
	return "/" + SummaryServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SummaryServiceGetSummaryProcedure:
			getSummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSummaryServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSummaryServiceHandler struct{}

func (UnimplementedSummaryServiceHandler) GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitit.v1.SummaryService.GetSummary is not implemented"))
}
