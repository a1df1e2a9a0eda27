// Package apiconnect provides Connect handlers and clients for the splitit
// services. Every handler and client speaks JSON through api.JSONCodec.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/splitit/pkg/api"
)

const (
	GroupServiceName   = "splitit.v1.GroupService"
	ExpenseServiceName = "splitit.v1.ExpenseService"
	SummaryServiceName = "splitit.v1.SummaryService"
	AuthServiceName    = "splitit.v1.AuthService"
)

const (
	GroupServiceCreateGroupProcedure       = "/splitit.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure          = "/splitit.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure        = "/splitit.v1.GroupService/ListGroups"
	GroupServiceUpdateGroupProcedure       = "/splitit.v1.GroupService/UpdateGroup"
	GroupServiceDeleteGroupProcedure       = "/splitit.v1.GroupService/DeleteGroup"
	GroupServiceAddParticipantProcedure    = "/splitit.v1.GroupService/AddParticipant"
	GroupServiceRemoveParticipantProcedure = "/splitit.v1.GroupService/RemoveParticipant"
	GroupServiceGetGroupBalancesProcedure  = "/splitit.v1.GroupService/GetGroupBalances"

	ExpenseServiceAddExpenseProcedure    = "/splitit.v1.ExpenseService/AddExpense"
	ExpenseServiceUpdateExpenseProcedure = "/splitit.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/splitit.v1.ExpenseService/DeleteExpense"
	ExpenseServiceListExpensesProcedure  = "/splitit.v1.ExpenseService/ListExpenses"

	SummaryServiceGetSummaryProcedure = "/splitit.v1.SummaryService/GetSummary"

	AuthServiceRegisterProcedure       = "/splitit.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/splitit.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/splitit.v1.AuthService/GetCurrentUser"
)

// codec is prepended so callers can still override it.
var codec = connect.WithCodec(api.JSONCodec{})

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{codec}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{codec}, opts...)
}
