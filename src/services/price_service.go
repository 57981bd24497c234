// src/services/price_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/billfolio/backend/src/logger"
	"golang.org/x/net/publicsuffix"
)

// ErrQuoteUnavailable is returned when the quotation API answers with a
// non-success status or an empty result set.
var ErrQuoteUnavailable = errors.New("fund quote unavailable")

const (
	quoteEndpoint = "https://api.fund.eastmoney.com/f10/lsjz"

	// The API wraps its JSON payload in a JSONP-style callback envelope; we
	// pin the callback name so the envelope is predictable to strip.
	quoteCallback = "thecallback"

	quoteDateLayout = "2006-01-02"
	quoteCurrency   = "CNY"
)

// Fund NAVs are published against the exchange's local time.
var quoteLocation = time.FixedZone("CST", 8*60*60)

var fundCodeRegex = regexp.MustCompile(`\d{6}`)

// quoteResponse mirrors the quotation API's JSON envelope; only the NAV
// record list is read.
type quoteResponse struct {
	Data struct {
		Records []struct {
			Date     string `json:"FSRQ"`
			NetValue string `json:"DWJZ"`
		} `json:"LSJZList"`
	} `json:"Data"`
}

// fundPriceServiceImpl implements FundPriceService against the public fund
// quotation API.
type fundPriceServiceImpl struct {
	httpClient http.Client
	baseURL    string
}

// NewFundPriceService creates a new instance of the fund price service with
// a cookie jar, which the quote host expects from browser-like clients.
func NewFundPriceService() FundPriceService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}
	return &fundPriceServiceImpl{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		baseURL: quoteEndpoint,
	}
}

func (s *fundPriceServiceImpl) LatestPrice(ticker string) (*FundQuote, error) {
	return s.fetchQuote(ticker, time.Time{})
}

func (s *fundPriceServiceImpl) HistoricalPrice(ticker string, date time.Time) (*FundQuote, error) {
	return s.fetchQuote(ticker, date)
}

// fetchQuote queries a single NAV record for the ticker's six-digit fund
// code, at the given date or the latest available when date is zero.
func (s *fundPriceServiceImpl) fetchQuote(ticker string, date time.Time) (*FundQuote, error) {
	code := fundCodeRegex.FindString(ticker)
	if code == "" {
		return nil, fmt.Errorf("%w: ticker %q carries no six-digit fund code", ErrQuoteUnavailable, ticker)
	}

	params := url.Values{}
	params.Set("callback", quoteCallback)
	params.Set("fundCode", code)
	params.Set("pageIndex", "1")
	params.Set("pageSize", "1")
	if !date.IsZero() {
		day := date.Format(quoteDateLayout)
		params.Set("startDate", day)
		params.Set("endDate", day)
	}

	req, err := http.NewRequest("GET", s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// The quote host rejects requests without a browser-like UA and Referer.
	req.Header.Set("Referer", "https://fundf10.eastmoney.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/106.0.0.0 Safari/537.36")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call quote API for fund %s: %w", code, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote response for fund %s: %w", code, err)
	}

	quote, err := parseQuoteResponse(resp.StatusCode, body)
	if err != nil {
		return nil, err
	}
	logger.L.Debug("Fetched fund quote", "fundCode", code, "asOf", quote.AsOf, "price", quote.Price)
	return quote, nil
}

// parseQuoteResponse strips the callback envelope, decodes the JSON payload
// and extracts the single NAV record.
func parseQuoteResponse(statusCode int, body []byte) (*FundQuote, error) {
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: quote API returned status %d", ErrQuoteUnavailable, statusCode)
	}

	payload := strings.TrimSpace(string(body))
	payload = strings.TrimPrefix(payload, quoteCallback+"(")
	payload = strings.TrimSuffix(payload, ")")

	var decoded quoteResponse
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if len(decoded.Data.Records) == 0 {
		return nil, fmt.Errorf("%w: quote API returned no records", ErrQuoteUnavailable)
	}

	record := decoded.Data.Records[0]
	price, err := decimal.NewFromString(record.NetValue)
	if err != nil {
		return nil, fmt.Errorf("invalid net value %q in quote response: %w", record.NetValue, err)
	}
	asOf, err := time.ParseInLocation(quoteDateLayout, record.Date, quoteLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid trade date %q in quote response: %w", record.Date, err)
	}

	return &FundQuote{Price: price, AsOf: asOf, Currency: quoteCurrency}, nil
}
