package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	alice := env.createUser(t, "Alice")
	bob := env.createUser(t, "Bob")

	resp, err := env.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{
		Name:        "Roommates",
		Description: "Flat 4B",
		MemberIDs:   []string{alice, bob},
	}))
	require.NoError(t, err)
	group := resp.Msg.Group
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, "Roommates", group.Name)
	assert.Equal(t, "Flat 4B", group.Description)
	assert.Equal(t, []string{alice, bob}, group.MemberIDs)
	assert.NotZero(t, group.CreatedAt)

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{"unknown member", &api.CreateGroupRequest{Name: "Trip", MemberIDs: []string{alice, "ghost"}}},
		{"duplicate member", &api.CreateGroupRequest{Name: "Trip", MemberIDs: []string{alice, alice}}},
		{"no members", &api.CreateGroupRequest{Name: "Trip"}},
		{"missing name", &api.CreateGroupRequest{MemberIDs: []string{alice}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.groups.CreateGroup(ctx, connect.NewRequest(tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGetGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	diana := env.createUser(t, "Diana")
	eve := env.createUser(t, "Eve")
	id := env.createGroup(t, "Work Lunch", diana, eve)

	resp, err := env.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: id}))
	require.NoError(t, err)
	assert.Equal(t, "Work Lunch", resp.Msg.Group.Name)
	assert.Equal(t, []string{diana, eve}, resp.Msg.Group.MemberIDs)

	_, err = env.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "nonexistent"}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestListGroups(t *testing.T) {
	env := setupTestServer(t)

	alice := env.createUser(t, "Alice")
	env.createGroup(t, "Group A", alice)
	env.createGroup(t, "Group B", alice)

	resp, err := env.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Groups, 2)
	assert.Equal(t, "Group A", resp.Msg.Groups[0].Name)
	assert.Equal(t, "Group B", resp.Msg.Groups[1].Name)
}
