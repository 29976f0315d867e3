package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

const shippoBaseURL = "https://api.goshippo.com"

// Shippo is the goshippo.com aggregator. Addresses and parcels are created
// as standalone objects first, then referenced by ID when building the
// shipment; rates come back on the shipment response when async is false.
type Shippo struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewShippo returns a Shippo provider authenticated with the given token.
func NewShippo(apiKey string) *Shippo {
	return &Shippo{
		apiKey:  apiKey,
		baseURL: shippoBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *Shippo) Name() string { return "shippo" }

type shippoObject struct {
	ObjectID string `json:"object_id"`
}

type shippoServiceLevel struct {
	Name string `json:"name"`
}

type shippoRate struct {
	ObjectID      string             `json:"object_id"`
	Provider      string             `json:"provider"`
	ServiceLevel  shippoServiceLevel `json:"servicelevel"`
	Amount        string             `json:"amount"`
	Currency      string             `json:"currency"`
	EstimatedDays int                `json:"estimated_days"`
}

type shippoShipment struct {
	ObjectID string       `json:"object_id"`
	Status   string       `json:"status"`
	Rates    []shippoRate `json:"rates"`
}

type shippoTransaction struct {
	ObjectID       string `json:"object_id"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
	LabelURL       string `json:"label_url"`
	Messages       []struct {
		Text string `json:"text"`
	} `json:"messages"`
	Rate json.RawMessage `json:"rate"`
}

func (s *Shippo) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal shippo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "ShippoToken "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, out)
}

func (s *Shippo) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "ShippoToken "+s.apiKey)

	return s.do(req, out)
}

func (s *Shippo) do(req *http.Request, out interface{}) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shippo request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read shippo response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("shippo returned %d: %s", resp.StatusCode, truncate(string(data), 256))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode shippo response: %w", err)
		}
	}
	return nil
}

func (s *Shippo) createAddress(ctx context.Context, addr Address) (string, error) {
	payload := map[string]string{
		"name":    addr.Name,
		"street1": addr.Street1,
		"street2": addr.Street2,
		"city":    addr.City,
		"state":   addr.State,
		"zip":     addr.Zip,
		"country": defaultString(addr.Country, "US"),
		"phone":   addr.Phone,
		"email":   addr.Email,
	}
	var obj shippoObject
	if err := s.post(ctx, "/addresses/", payload, &obj); err != nil {
		return "", err
	}
	return obj.ObjectID, nil
}

func (s *Shippo) createParcel(ctx context.Context, parcel Parcel) (string, error) {
	payload := map[string]string{
		"length":        formatDim(parcel.Length, 10),
		"width":         formatDim(parcel.Width, 8),
		"height":        formatDim(parcel.Height, 4),
		"distance_unit": "in",
		"weight":        formatDim(parcel.Weight, 1),
		"mass_unit":     "oz",
	}
	var obj shippoObject
	if err := s.post(ctx, "/parcels/", payload, &obj); err != nil {
		return "", err
	}
	return obj.ObjectID, nil
}

// GetRates creates address and parcel objects, then a synchronous shipment,
// and maps the returned rate list.
func (s *Shippo) GetRates(ctx context.Context, from, to Address, parcel Parcel) ([]Rate, error) {
	fromID, err := s.createAddress(ctx, from)
	if err != nil {
		return nil, err
	}
	toID, err := s.createAddress(ctx, to)
	if err != nil {
		return nil, err
	}
	parcelID, err := s.createParcel(ctx, parcel)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"address_from": fromID,
		"address_to":   toID,
		"parcels":      []string{parcelID},
		"async":        false,
	}
	var shipment shippoShipment
	if err := s.post(ctx, "/shipments/", payload, &shipment); err != nil {
		return nil, err
	}

	rates := make([]Rate, 0, len(shipment.Rates))
	for _, r := range shipment.Rates {
		rates = append(rates, Rate{
			RateID:        r.ObjectID,
			Provider:      s.Name(),
			Carrier:       r.Provider,
			Service:       r.ServiceLevel.Name,
			AmountCents:   parseAmountCents(r.Amount),
			Currency:      r.Currency,
			EstimatedDays: r.EstimatedDays,
		})
	}
	return rates, nil
}

// CreateLabel purchases a rate by its object ID through a synchronous
// transaction.
func (s *Shippo) CreateLabel(ctx context.Context, rateID string) (*Label, error) {
	payload := map[string]interface{}{
		"rate":            rateID,
		"label_file_type": "PDF",
		"async":           false,
	}
	var tx shippoTransaction
	if err := s.post(ctx, "/transactions/", payload, &tx); err != nil {
		return nil, err
	}
	if tx.Status != "SUCCESS" {
		msg := "transaction not successful"
		if len(tx.Messages) > 0 {
			msg = tx.Messages[0].Text
		}
		return nil, fmt.Errorf("shippo label purchase failed: %s", msg)
	}

	label := &Label{
		TrackingNumber: tx.TrackingNumber,
		LabelURL:       tx.LabelURL,
	}
	// The rate field is an object on fresh purchases but may collapse to
	// a bare ID string on retries.
	var rate shippoRate
	if err := json.Unmarshal(tx.Rate, &rate); err == nil {
		label.Carrier = rate.Provider
		label.AmountCents = parseAmountCents(rate.Amount)
	}
	return label, nil
}

// GetTracking looks up the tracking state for a carrier/number pair.
func (s *Shippo) GetTracking(ctx context.Context, carrier, trackingNumber string) (*TrackingInfo, error) {
	var track struct {
		TrackingNumber string `json:"tracking_number"`
		TrackingStatus struct {
			Status        string `json:"status"`
			StatusDetails string `json:"status_details"`
		} `json:"tracking_status"`
	}
	path := fmt.Sprintf("/tracks/%s/%s", carrier, trackingNumber)
	if err := s.get(ctx, path, &track); err != nil {
		return nil, err
	}
	return &TrackingInfo{
		TrackingNumber: track.TrackingNumber,
		Status:         track.TrackingStatus.Status,
		StatusDetail:   track.TrackingStatus.StatusDetails,
	}, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func formatDim(v, fallback float64) string {
	if v <= 0 {
		v = fallback
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseAmountCents converts a decimal money string like "7.33" to cents.
func parseAmountCents(amount string) int64 {
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
