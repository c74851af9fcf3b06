package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func fakeCoinGecko(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestFetchRate(t *testing.T) {
	server := fakeCoinGecko(t, `{"bitcoin":{"usd":50000}}`, http.StatusOK)
	defer server.Close()

	client := NewClient(server.URL)
	rate, err := client.FetchRate(context.Background(), "BTC", "USD")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if rate != 50000 {
		t.Errorf("Expected rate 50000, got %f", rate)
	}
}

func TestFetchRate_UnsupportedSymbol(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")

	if _, err := client.FetchRate(context.Background(), "DOGE", "USD"); err == nil {
		t.Error("Expected error for unsupported symbol")
	}
}

func TestConvertToCrypto(t *testing.T) {
	server := fakeCoinGecko(t, `{"bitcoin":{"usd":50000}}`, http.StatusOK)
	defer server.Close()

	client := NewClient(server.URL)
	conversion := client.ConvertToCrypto(context.Background(), 100, "USD", "BTC")
	if conversion == nil {
		t.Fatal("Expected a conversion, got nil")
	}
	if conversion.CryptoAmount != 0.002 {
		t.Errorf("Expected 0.002 BTC, got %f", conversion.CryptoAmount)
	}
	if conversion.Rate != 50000 {
		t.Errorf("Expected rate 50000, got %f", conversion.Rate)
	}
}

func TestConvertToCrypto_NilOnFailure(t *testing.T) {
	server := fakeCoinGecko(t, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	defer server.Close()

	client := NewClient(server.URL)
	if conversion := client.ConvertToCrypto(context.Background(), 100, "USD", "BTC"); conversion != nil {
		t.Errorf("Expected nil on lookup failure, got %+v", conversion)
	}

	if conversion := client.ConvertToCrypto(context.Background(), 100, "USD", "DOGE"); conversion != nil {
		t.Errorf("Expected nil for unsupported symbol, got %+v", conversion)
	}
}

func TestFormatCryptoAmount(t *testing.T) {
	if got := FormatCryptoAmount(1.23456789, "BTC"); got != "1.23456789" {
		t.Errorf("Expected 1.23456789, got %s", got)
	}
	if got := FormatCryptoAmount(1.23456789, "USDT"); got != "1.23" {
		t.Errorf("Expected 1.23, got %s", got)
	}
	if got := FormatCryptoAmount(1.23456789, "usdc"); got != "1.23" {
		t.Errorf("Expected stablecoin formatting to be case-insensitive, got %s", got)
	}
	if got := FormatCryptoAmount(2, "ETH"); got != "2.00000000" {
		t.Errorf("Expected 2.00000000, got %s", got)
	}
}

func TestCryptoSymbol(t *testing.T) {
	if got := CryptoSymbol("BTC"); got != "₿" {
		t.Errorf("Expected BTC symbol, got %s", got)
	}
	if got := CryptoSymbol("usdt"); got != "USDT" {
		t.Errorf("Expected USDT, got %s", got)
	}
}
