package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

const (
	UserServiceName    = "splitledger.v1.UserService"
	GroupServiceName   = "splitledger.v1.GroupService"
	ExpenseServiceName = "splitledger.v1.ExpenseService"
	BalanceServiceName = "splitledger.v1.BalanceService"
)

// Fully-qualified procedure names, used as URL paths and in interceptors.
const (
	UserServiceCreateUserProcedure = "/splitledger.v1.UserService/CreateUser"
	UserServiceGetUserProcedure    = "/splitledger.v1.UserService/GetUser"
	UserServiceListUsersProcedure  = "/splitledger.v1.UserService/ListUsers"

	GroupServiceCreateGroupProcedure = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure    = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/splitledger.v1.GroupService/ListGroups"

	ExpenseServiceCreateExpenseProcedure = "/splitledger.v1.ExpenseService/CreateExpense"
	ExpenseServiceListExpensesProcedure  = "/splitledger.v1.ExpenseService/ListExpenses"

	BalanceServiceGetUserBalanceProcedure   = "/splitledger.v1.BalanceService/GetUserBalance"
	BalanceServiceGetAllBalancesProcedure   = "/splitledger.v1.BalanceService/GetAllBalances"
	BalanceServiceGetGroupBalancesProcedure = "/splitledger.v1.BalanceService/GetGroupBalances"
)

var readOnly = connect.WithIdempotency(connect.IdempotencyNoSideEffects)

// route dispatches a service's requests to its procedure handlers by path.
func route(handlers map[string]*connect.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{WithJSON()}, opts...)
}

// UserServiceHandler is implemented by the user service.
type UserServiceHandler interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewUserServiceHandler returns the path prefix to mount svc on and its handler.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + UserServiceName + "/", route(map[string]*connect.Handler{
		UserServiceCreateUserProcedure: connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, opts...),
		UserServiceGetUserProcedure:    connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, append(opts, readOnly)...),
		UserServiceListUsersProcedure:  connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, append(opts, readOnly)...),
	})
}

// UserServiceClient calls a remote user service.
type UserServiceClient interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

type userServiceClient struct {
	createUser *connect.Client[api.CreateUserRequest, api.CreateUserResponse]
	getUser    *connect.Client[api.GetUserRequest, api.GetUserResponse]
	listUsers  *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
}

// NewUserServiceClient returns a client for the user service at baseURL.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &userServiceClient{
		createUser: connect.NewClient[api.CreateUserRequest, api.CreateUserResponse](httpClient, baseURL+UserServiceCreateUserProcedure, opts...),
		getUser:    connect.NewClient[api.GetUserRequest, api.GetUserResponse](httpClient, baseURL+UserServiceGetUserProcedure, opts...),
		listUsers:  connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](httpClient, baseURL+UserServiceListUsersProcedure, opts...),
	}
}

func (c *userServiceClient) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *userServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the group service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
}

// NewGroupServiceHandler returns the path prefix to mount svc on and its handler.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", route(map[string]*connect.Handler{
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, append(opts, readOnly)...),
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, append(opts, readOnly)...),
	})
}

// GroupServiceClient calls a remote group service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
}

type groupServiceClient struct {
	createGroup *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup    *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups  *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
}

// NewGroupServiceClient returns a client for the group service at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:    connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:  connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
	}
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the expense service.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

// NewExpenseServiceHandler returns the path prefix to mount svc on and its handler.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ExpenseServiceName + "/", route(map[string]*connect.Handler{
		ExpenseServiceCreateExpenseProcedure: connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceListExpensesProcedure:  connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, append(opts, readOnly)...),
	})
}

// ExpenseServiceClient calls a remote expense service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

type expenseServiceClient struct {
	createExpense *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
}

// NewExpenseServiceClient returns a client for the expense service at baseURL.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense: connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
	}
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// BalanceServiceHandler is implemented by the balance service.
type BalanceServiceHandler interface {
	GetUserBalance(context.Context, *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error)
	GetAllBalances(context.Context, *connect.Request[api.GetAllBalancesRequest]) (*connect.Response[api.GetAllBalancesResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

// NewBalanceServiceHandler returns the path prefix to mount svc on and its handler.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(handlerOptions(opts), readOnly)
	return "/" + BalanceServiceName + "/", route(map[string]*connect.Handler{
		BalanceServiceGetUserBalanceProcedure:   connect.NewUnaryHandler(BalanceServiceGetUserBalanceProcedure, svc.GetUserBalance, opts...),
		BalanceServiceGetAllBalancesProcedure:   connect.NewUnaryHandler(BalanceServiceGetAllBalancesProcedure, svc.GetAllBalances, opts...),
		BalanceServiceGetGroupBalancesProcedure: connect.NewUnaryHandler(BalanceServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts...),
	})
}

// BalanceServiceClient calls a remote balance service.
type BalanceServiceClient interface {
	GetUserBalance(context.Context, *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error)
	GetAllBalances(context.Context, *connect.Request[api.GetAllBalancesRequest]) (*connect.Response[api.GetAllBalancesResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
}

type balanceServiceClient struct {
	getUserBalance   *connect.Client[api.GetUserBalanceRequest, api.GetUserBalanceResponse]
	getAllBalances   *connect.Client[api.GetAllBalancesRequest, api.GetAllBalancesResponse]
	getGroupBalances *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
}

// NewBalanceServiceClient returns a client for the balance service at baseURL.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &balanceServiceClient{
		getUserBalance:   connect.NewClient[api.GetUserBalanceRequest, api.GetUserBalanceResponse](httpClient, baseURL+BalanceServiceGetUserBalanceProcedure, opts...),
		getAllBalances:   connect.NewClient[api.GetAllBalancesRequest, api.GetAllBalancesResponse](httpClient, baseURL+BalanceServiceGetAllBalancesProcedure, opts...),
		getGroupBalances: connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL+BalanceServiceGetGroupBalancesProcedure, opts...),
	}
}

func (c *balanceServiceClient) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	return c.getUserBalance.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetAllBalances(ctx context.Context, req *connect.Request[api.GetAllBalancesRequest]) (*connect.Response[api.GetAllBalancesResponse], error) {
	return c.getAllBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}
