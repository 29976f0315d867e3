package shipping

import (
	"context"
	"strings"
	"testing"
)

func TestStubRatesAreDeterministic(t *testing.T) {
	stub := NewStub()
	to := Address{Zip: "94107"}
	parcel := Parcel{Weight: 8}

	first, err := stub.GetRates(context.Background(), Address{}, to, parcel)
	if err != nil {
		t.Fatalf("GetRates failed: %v", err)
	}
	second, err := stub.GetRates(context.Background(), Address{}, to, parcel)
	if err != nil {
		t.Fatalf("GetRates failed: %v", err)
	}

	if len(first) != 2 {
		t.Fatalf("expected 2 stub rates, got %d", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("rate %d not deterministic: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].AmountCents != 499+8*50 {
		t.Errorf("ground rate = %d, want weight-based price", first[0].AmountCents)
	}
}

func TestStubLabelStableTrackingNumber(t *testing.T) {
	stub := NewStub()
	a, err := stub.CreateLabel(context.Background(), "stub-ground-94107")
	if err != nil {
		t.Fatalf("CreateLabel failed: %v", err)
	}
	b, _ := stub.CreateLabel(context.Background(), "stub-ground-94107")
	if a.TrackingNumber != b.TrackingNumber {
		t.Errorf("tracking numbers differ for same rate: %s vs %s", a.TrackingNumber, b.TrackingNumber)
	}
	if !strings.HasPrefix(a.TrackingNumber, "STUB") {
		t.Errorf("tracking number %q missing STUB prefix", a.TrackingNumber)
	}

	if _, err := stub.CreateLabel(context.Background(), ""); err == nil {
		t.Error("expected error for empty rate id")
	}
}

func TestForProvider(t *testing.T) {
	cases := []struct {
		provider string
		apiKey   string
		wantName string
		wantErr  bool
	}{
		{"shippo", "shippo_test_abc", "shippo", false},
		{"easypost", "EZTK123", "easypost", false},
		{"stub", "", "stub", false},
		{"", "", "stub", false},
		{"shippo", "", "", true},
		{"easypost", "", "", true},
		{"fedex-direct", "k", "", true},
	}
	for _, tc := range cases {
		p, err := ForProvider(tc.provider, tc.apiKey)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ForProvider(%q) expected error", tc.provider)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForProvider(%q) failed: %v", tc.provider, err)
			continue
		}
		if p.Name() != tc.wantName {
			t.Errorf("ForProvider(%q).Name() = %q, want %q", tc.provider, p.Name(), tc.wantName)
		}
	}
}

func TestValidateKeyFormat(t *testing.T) {
	if err := ValidateKeyFormat("shippo", "shippo_test_0123456789abcdef"); err != nil {
		t.Errorf("valid shippo key rejected: %v", err)
	}
	if err := ValidateKeyFormat("shippo", "sk_live_nope"); err == nil {
		t.Error("non-shippo prefix accepted")
	}
	if err := ValidateKeyFormat("easypost", "EZTKshort"); err != nil {
		t.Errorf("EZTK-prefixed key rejected: %v", err)
	}
	if err := ValidateKeyFormat("easypost", "short"); err == nil {
		t.Error("short unprefixed easypost key accepted")
	}
	if err := ValidateKeyFormat("stub", ""); err != nil {
		t.Errorf("stub should accept empty key: %v", err)
	}
	if err := ValidateKeyFormat("dhl", "abc"); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestParseAmountCents(t *testing.T) {
	cases := map[string]int64{
		"7.33":    733,
		"0.01":    1,
		"12":      1200,
		"":        0,
		"garbage": 0,
	}
	for in, want := range cases {
		if got := parseAmountCents(in); got != want {
			t.Errorf("parseAmountCents(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSplitEasyPostRateID(t *testing.T) {
	shipment, rate, err := splitEasyPostRateID("shp_123:rate_456")
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if shipment != "shp_123" || rate != "rate_456" {
		t.Errorf("got %q/%q", shipment, rate)
	}
	if _, _, err := splitEasyPostRateID("rate_456"); err == nil {
		t.Error("expected error for id without shipment prefix")
	}
}
