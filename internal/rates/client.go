package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko asset ids for the crypto types a payment method may carry.
var cryptoIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"USDC": "usd-coin",
	"BNB":  "binancecoin",
	"SOL":  "solana",
}

var currencyCodes = map[string]string{
	"USD": "usd",
	"EUR": "eur",
	"GBP": "gbp",
	"NGN": "ngn",
	"CAD": "cad",
	"AUD": "aud",
	"JPY": "jpy",
}

// Conversion is an advisory fiat-to-crypto quote for display at payment
// time. It carries no settlement guarantee.
type Conversion struct {
	CryptoAmount float64   `json:"cryptoAmount"`
	Rate         float64   `json:"rate"`
	AsOf         time.Time `json:"asOf"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchRate returns the price of one unit of the crypto asset in the given
// fiat currency.
func (c *Client) FetchRate(ctx context.Context, cryptoType, fiatCurrency string) (float64, error) {
	cryptoID, ok := cryptoIDs[strings.ToUpper(cryptoType)]
	if !ok {
		return 0, fmt.Errorf("unsupported cryptocurrency: %s", cryptoType)
	}
	currency, ok := currencyCodes[strings.ToUpper(fiatCurrency)]
	if !ok {
		currency = strings.ToLower(fiatCurrency)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		c.baseURL, url.QueryEscape(cryptoID), url.QueryEscape(currency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate lookup failed with status %d", resp.StatusCode)
	}

	var prices map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return 0, err
	}

	rate, ok := prices[cryptoID][currency]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("no rate for %s in %s", cryptoID, currency)
	}
	return rate, nil
}

// ConvertToCrypto converts a fiat amount to the given crypto asset. Returns
// nil when the symbol is unsupported or the lookup fails: callers render an
// "unable to fetch conversion rate" state instead of crashing.
func (c *Client) ConvertToCrypto(ctx context.Context, fiatAmount float64, fiatCurrency, cryptoType string) *Conversion {
	rate, err := c.FetchRate(ctx, cryptoType, fiatCurrency)
	if err != nil {
		return nil
	}
	return &Conversion{
		CryptoAmount: fiatAmount / rate,
		Rate:         rate,
		AsOf:         time.Now(),
	}
}

// FormatCryptoAmount renders an amount with the decimal places conventional
// for the asset: stablecoins 2, everything else 8.
func FormatCryptoAmount(amount float64, cryptoType string) string {
	decimals := 8
	switch strings.ToUpper(cryptoType) {
	case "USDT", "USDC":
		decimals = 2
	}
	return strconv.FormatFloat(amount, 'f', decimals, 64)
}

// CryptoSymbol returns the display symbol for an asset.
func CryptoSymbol(cryptoType string) string {
	switch strings.ToUpper(cryptoType) {
	case "BTC":
		return "₿"
	case "ETH":
		return "Ξ"
	default:
		return strings.ToUpper(cryptoType)
	}
}
