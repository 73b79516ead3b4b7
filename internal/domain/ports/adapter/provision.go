package adapter

import (
	"context"

	"telegram-panel-store/internal/domain/model"
)

// PanelCredentials is the account created on the hosting panel.
type PanelCredentials struct {
	UserID   int64
	Username string
	Email    string
	Password string
	Domain   string // panel base URL for the user message
}

type PanelServer struct {
	ID   int64
	Name string
}

type PanelUserInfo struct {
	ID       int64
	Username string
	Email    string
	Admin    bool
}

// ProvisioningGateway is the port for the hosting-panel admin API.
type ProvisioningGateway interface {
	CreateUser(ctx context.Context, username, displayName string, admin bool) (*PanelCredentials, error)
	CreateServer(ctx context.Context, userID int64, name string, spec model.ResourceSpec) (*PanelServer, error)
	DeleteUser(ctx context.Context, id int64) error
	DeleteServer(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]PanelUserInfo, error)
	ListServers(ctx context.Context) ([]PanelServer, error)
}
