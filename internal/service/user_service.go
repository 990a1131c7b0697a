package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

var _ apiconnect.UserServiceHandler = (*UserService)(nil)

// UserService implements the Connect UserService.
type UserService struct {
	store storage.UserStore
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.UserStore) *UserService {
	return &UserService{store: store}
}

// CreateUser registers a new user. Email and phone must be unique.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	slog.Info("CreateUser request received", "email", req.Msg.Email)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	user := &models.User{
		Name:  strings.TrimSpace(req.Msg.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Msg.Email)),
		Phone: strings.TrimSpace(req.Msg.Phone),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Warn("CreateUser failed", "email", user.Email, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("User created", "user_id", user.ID)
	return connect.NewResponse(&api.CreateUserResponse{User: userToAPI(user)}), nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.store.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		slog.Warn("GetUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetUserResponse{User: userToAPI(user)}), nil
}

// ListUsers returns every user, oldest first.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		slog.Error("ListUsers failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = userToAPI(u)
	}

	slog.Info("ListUsers successful", "count", len(users))
	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}
