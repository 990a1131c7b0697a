package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// recordingPublisher keeps published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.ExpenseCreated
	err    error
}

func (p *recordingPublisher) PublishExpenseCreated(_ context.Context, e *events.ExpenseCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []*events.ExpenseCreated {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*events.ExpenseCreated(nil), p.events...)
}

type testEnv struct {
	store     *sqlite.SQLiteStore
	publisher *recordingPublisher
	users     apiconnect.UserServiceClient
	groups    apiconnect.GroupServiceClient
	expenses  apiconnect.ExpenseServiceClient
	balances  apiconnect.BalanceServiceClient
}

// setupTestServer serves all four services over httptest backed by a
// temporary SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	publisher := &recordingPublisher{}

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewUserServiceHandler(NewUserService(store)))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store)))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, publisher)))
	mux.Handle(apiconnect.NewBalanceServiceHandler(NewBalanceService(store)))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:     store,
		publisher: publisher,
		users:     apiconnect.NewUserServiceClient(http.DefaultClient, server.URL),
		groups:    apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:  apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		balances:  apiconnect.NewBalanceServiceClient(http.DefaultClient, server.URL),
	}
}

var userSeq int

func (e *testEnv) createUser(t *testing.T, name string) string {
	t.Helper()
	userSeq++
	resp, err := e.users.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{
		Name:  name,
		Email: fmt.Sprintf("%s.%d@example.com", name, userSeq),
	}))
	require.NoError(t, err, "CreateUser failed")
	return resp.Msg.User.ID
}

func (e *testEnv) createGroup(t *testing.T, name string, members ...string) string {
	t.Helper()
	resp, err := e.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:      name,
		MemberIDs: members,
	}))
	require.NoError(t, err, "CreateGroup failed")
	return resp.Msg.Group.ID
}

func (e *testEnv) createExpense(t *testing.T, req *api.CreateExpenseRequest) *api.Expense {
	t.Helper()
	resp, err := e.expenses.CreateExpense(context.Background(), connect.NewRequest(req))
	require.NoError(t, err, "CreateExpense failed")
	return resp.Msg.Expense
}

func equal(ids ...string) []*api.SplitEntry {
	entries := make([]*api.SplitEntry, len(ids))
	for i, id := range ids {
		entries[i] = &api.SplitEntry{UserID: id}
	}
	return entries
}

// valued builds split entries from alternating user id and value arguments.
func valued(pairs ...string) []*api.SplitEntry {
	entries := make([]*api.SplitEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, &api.SplitEntry{UserID: pairs[i], Value: pairs[i+1]})
	}
	return entries
}

func splitAmounts(e *api.Expense) []string {
	out := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		out[i] = s.Amount
	}
	return out
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), "unexpected error: %v", err)
}
