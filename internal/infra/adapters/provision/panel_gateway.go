// File: internal/infra/adapters/provision/panel_gateway.go
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
)

var _ adapter.ProvisioningGateway = (*PanelGateway)(nil)

// PanelGateway implements adapter.ProvisioningGateway against a
// Pterodactyl-compatible application API (JSON, bearer token).
type PanelGateway struct {
	client     *resty.Client
	domain     string
	eggID      int64
	nestID     int64
	locationID int64
}

type Options struct {
	BaseURL    string
	APIKey     string
	Domain     string // shown to buyers; defaults to BaseURL
	EggID      int64
	NestID     int64
	LocationID int64
}

func NewPanelGateway(opts Options) (*PanelGateway, error) {
	if opts.BaseURL == "" || opts.APIKey == "" {
		return nil, errors.New("panel base url and api key required")
	}
	if opts.Domain == "" {
		opts.Domain = opts.BaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(20 * time.Second).
		SetAuthToken(opts.APIKey).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	return &PanelGateway{
		client:     client,
		domain:     opts.Domain,
		eggID:      opts.EggID,
		nestID:     opts.NestID,
		locationID: opts.LocationID,
	}, nil
}

type userAttributes struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	RootAdmin bool   `json:"root_admin"`
}

type serverAttributes struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (g *PanelGateway) CreateUser(ctx context.Context, username, displayName string, admin bool) (*adapter.PanelCredentials, error) {
	username = strings.ToLower(username)
	password := username + "001"
	email := username + "@gmail.com"

	body := map[string]interface{}{
		"email":      email,
		"username":   username,
		"first_name": displayName,
		"last_name":  "Store",
		"language":   "en",
		"password":   password,
		"root_admin": admin,
	}
	var out struct {
		Attributes userAttributes `json:"attributes"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/api/application/users")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("panel create user: http %d: %s", resp.StatusCode(), resp.String())
	}
	return &adapter.PanelCredentials{
		UserID:   out.Attributes.ID,
		Username: out.Attributes.Username,
		Email:    out.Attributes.Email,
		Password: password,
		Domain:   g.domain,
	}, nil
}

func (g *PanelGateway) CreateServer(ctx context.Context, userID int64, name string, spec model.ResourceSpec) (*adapter.PanelServer, error) {
	// The egg's startup command has to be echoed back verbatim.
	var egg struct {
		Attributes struct {
			Startup string `json:"startup"`
		} `json:"attributes"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&egg).
		Get(fmt.Sprintf("/api/application/nests/%d/eggs/%d", g.nestID, g.eggID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("panel read egg: http %d", resp.StatusCode())
	}

	body := map[string]interface{}{
		"name":         name,
		"description":  "provisioned by store bot",
		"user":         userID,
		"egg":          g.eggID,
		"docker_image": "ghcr.io/parkervcp/yolks:nodejs_20",
		"startup":      egg.Attributes.Startup,
		"environment": map[string]string{
			"INST":        "npm",
			"USER_UPLOAD": "0",
			"AUTO_UPDATE": "0",
			"CMD_RUN":     "npm start",
		},
		"limits": map[string]int{
			"memory": spec.RAM,
			"swap":   0,
			"disk":   spec.Disk,
			"io":     500,
			"cpu":    spec.CPU,
		},
		"feature_limits": map[string]int{
			"databases":   5,
			"backups":     5,
			"allocations": 5,
		},
		"deploy": map[string]interface{}{
			"locations":    []int64{g.locationID},
			"dedicated_ip": false,
			"port_range":   []string{},
		},
	}
	var out struct {
		Attributes serverAttributes `json:"attributes"`
	}
	resp, err = g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/api/application/servers")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("panel create server: http %d: %s", resp.StatusCode(), resp.String())
	}
	return &adapter.PanelServer{ID: out.Attributes.ID, Name: out.Attributes.Name}, nil
}

func (g *PanelGateway) DeleteUser(ctx context.Context, id int64) error {
	resp, err := g.client.R().SetContext(ctx).Delete(fmt.Sprintf("/api/application/users/%d", id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("panel delete user: http %d", resp.StatusCode())
	}
	return nil
}

func (g *PanelGateway) DeleteServer(ctx context.Context, id int64) error {
	resp, err := g.client.R().SetContext(ctx).Delete(fmt.Sprintf("/api/application/servers/%d", id))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("panel delete server: http %d", resp.StatusCode())
	}
	return nil
}

func (g *PanelGateway) ListUsers(ctx context.Context) ([]adapter.PanelUserInfo, error) {
	var out struct {
		Data []struct {
			Attributes userAttributes `json:"attributes"`
		} `json:"data"`
	}
	resp, err := g.client.R().SetContext(ctx).SetResult(&out).Get("/api/application/users")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("panel list users: http %d", resp.StatusCode())
	}
	users := make([]adapter.PanelUserInfo, 0, len(out.Data))
	for _, d := range out.Data {
		users = append(users, adapter.PanelUserInfo{
			ID:       d.Attributes.ID,
			Username: d.Attributes.Username,
			Email:    d.Attributes.Email,
			Admin:    d.Attributes.RootAdmin,
		})
	}
	return users, nil
}

func (g *PanelGateway) ListServers(ctx context.Context) ([]adapter.PanelServer, error) {
	var out struct {
		Data []struct {
			Attributes serverAttributes `json:"attributes"`
		} `json:"data"`
	}
	resp, err := g.client.R().SetContext(ctx).SetResult(&out).Get("/api/application/servers")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("panel list servers: http %d", resp.StatusCode())
	}
	servers := make([]adapter.PanelServer, 0, len(out.Data))
	for _, d := range out.Data {
		servers = append(servers, adapter.PanelServer{ID: d.Attributes.ID, Name: d.Attributes.Name})
	}
	return servers, nil
}
