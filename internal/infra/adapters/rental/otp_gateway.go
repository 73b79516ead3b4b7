// File: internal/infra/adapters/rental/otp_gateway.go
package rental

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"telegram-panel-store/internal/domain/ports/adapter"
)

var _ adapter.RentalGateway = (*OTPGateway)(nil)

// OTPGateway implements adapter.RentalGateway against the virtual-number
// vendor: a single form-encoded endpoint multiplexed by an action field.
type OTPGateway struct {
	client *resty.Client
	apiKey string
}

func NewOTPGateway(baseURL, apiKey string) (*OTPGateway, error) {
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("rental gateway base url and api key required")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")
	return &OTPGateway{client: client, apiKey: apiKey}, nil
}

func (g *OTPGateway) request(ctx context.Context, action string, params map[string]string, out interface{}) error {
	form := map[string]string{"api_key": g.apiKey, "action": action}
	for k, v := range params {
		form[k] = v
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(out).
		Post("/api/produk-otp")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("rental api %s: http %d", action, resp.StatusCode())
	}
	return nil
}

func (g *OTPGateway) ListServices(ctx context.Context) ([]adapter.RentalService, error) {
	var out struct {
		Status bool `json:"status"`
		Data   []struct {
			Code    string `json:"kode_layanan"`
			Name    string `json:"layanan"`
			Country string `json:"kode_negara"`
			Price   int64  `json:"harga"`
			Type    string `json:"tipe"`
		} `json:"data"`
	}
	if err := g.request(ctx, "layanan", nil, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, errors.New("rental service list rejected")
	}
	services := make([]adapter.RentalService, 0, len(out.Data))
	for _, s := range out.Data {
		// Only OTP-type services are rentable here.
		if s.Type != "OTP" {
			continue
		}
		services = append(services, adapter.RentalService{
			Code:    s.Code,
			Name:    s.Name,
			Country: s.Country,
			Price:   s.Price,
		})
	}
	return services, nil
}

func (g *OTPGateway) Order(ctx context.Context, service, operator, country string) (string, string, error) {
	var out struct {
		Status bool `json:"status"`
		Data   struct {
			ID     string `json:"id"`
			Target string `json:"target"`
			Note   string `json:"pesan"`
		} `json:"data"`
	}
	params := map[string]string{
		"layanan":     service,
		"operator":    operator,
		"kode_negara": country,
	}
	if err := g.request(ctx, "pemesanan", params, &out); err != nil {
		return "", "", err
	}
	if !out.Status || out.Data.ID == "" {
		return "", "", fmt.Errorf("rental order rejected: %s", out.Data.Note)
	}
	return out.Data.ID, out.Data.Target, nil
}

func (g *OTPGateway) Status(ctx context.Context, id string) (*adapter.RentalState, error) {
	var out struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
			Note   string `json:"keterangan"`
		} `json:"data"`
	}
	if err := g.request(ctx, "status", map[string]string{"id": id}, &out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, errors.New("rental status rejected")
	}
	state := &adapter.RentalState{Note: out.Data.Note}
	switch out.Data.Status {
	case "Success":
		state.Status = adapter.VendorRentalSuccess
	case "Cancel":
		state.Status = adapter.VendorRentalCancel
	case "Error":
		state.Status = adapter.VendorRentalError
	default:
		state.Status = adapter.VendorRentalPending
	}
	return state, nil
}

func (g *OTPGateway) Cancel(ctx context.Context, id string) error {
	var out struct {
		Status bool `json:"status"`
	}
	if err := g.request(ctx, "cancel", map[string]string{"id": id}, &out); err != nil {
		return err
	}
	if !out.Status {
		return errors.New("rental cancel rejected")
	}
	return nil
}
