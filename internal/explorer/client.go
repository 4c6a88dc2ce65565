// Package explorer talks to Etherscan-compatible block explorer APIs to verify
// contract source code.
package explorer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	ErrVerificationFailed  = errors.New("contract verification failed")
	ErrVerificationTimeout = errors.New("contract verification did not finish")
	ErrMissingAPIKey       = errors.New("explorer api key is not configured")
)

const (
	statusOK        = "1"
	resultPassed    = "Pass - Verified"
	pendingPrefix   = "pending"
	alreadyVerified = "already verified"
)

type (
	// Request is one verifysourcecode submission.
	Request struct {
		Address common.Address
		// StandardJSONInput is the solc standard-JSON input the contract was compiled from.
		StandardJSONInput []byte
		// ContractName is the fully qualified "<source>:<name>".
		ContractName string
		// CompilerVersion is the long solc version without the leading "v".
		CompilerVersion string
		// ConstructorArgs are ABI-encoded.
		ConstructorArgs []byte
	}

	Result struct {
		GUID            string
		AlreadyVerified bool
	}

	Client struct {
		apiURL       string
		apiKey       string
		chainID      uint64
		pollInterval time.Duration
		maxAttempts  int
		http         *retryablehttp.Client
		logger       *slog.Logger
	}

	response struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Result  json.RawMessage `json:"result"`
	}
)

// NewClient creates a client for one network's explorer. HTTP requests are retried on
// connection errors, 429 and 5xx responses.
func NewClient(explorer configs.Explorer, chainID uint64, settings configs.Verify) (*Client, error) {
	if explorer.APIURL == "" {
		return nil, errors.New("explorer api-url is not configured")
	}
	if explorer.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	log := logger.Named("explorer")

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = settings.HTTPRetries
	httpClient.RetryWaitMin = 500 * time.Millisecond
	httpClient.RetryWaitMax = 5 * time.Second
	httpClient.Logger = log

	maxAttempts := settings.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	return &Client{
		apiURL:       explorer.APIURL,
		apiKey:       explorer.APIKey,
		chainID:      chainID,
		pollInterval: settings.PollInterval,
		maxAttempts:  maxAttempts,
		http:         httpClient,
		logger:       log,
	}, nil
}

// Verify submits req and polls until the explorer accepts or rejects it.
// A contract the explorer already knows counts as verified.
func (c *Client) Verify(ctx context.Context, req Request) (Result, error) {
	guid, err := c.Submit(ctx, req)
	if err != nil {
		if errors.Is(err, errAlreadyVerified) {
			c.logger.With("address", req.Address.Hex()).Info("contract is already verified")
			return Result{AlreadyVerified: true}, nil
		}
		return Result{}, err
	}

	c.logger.With("address", req.Address.Hex()).With("guid", guid).Info("verification submitted")

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := sleep(ctx, c.pollInterval); err != nil {
			return Result{}, err
		}

		done, err := c.CheckStatus(ctx, guid)
		if err != nil {
			if errors.Is(err, errAlreadyVerified) {
				return Result{GUID: guid, AlreadyVerified: true}, nil
			}
			return Result{}, err
		}
		if done {
			c.logger.With("address", req.Address.Hex()).With("guid", guid).Info("contract verified")
			return Result{GUID: guid}, nil
		}

		c.logger.With("guid", guid).With("attempt", attempt).Debug("verification pending")
	}

	return Result{}, fmt.Errorf("%w: guid %s still pending after %d checks", ErrVerificationTimeout, guid, c.maxAttempts)
}

var errAlreadyVerified = errors.New(alreadyVerified)

// Submit sends a verifysourcecode request and returns the explorer's GUID.
func (c *Client) Submit(ctx context.Context, req Request) (string, error) {
	form := url.Values{}
	form.Set("codeformat", "solidity-standard-json-input")
	form.Set("sourceCode", string(req.StandardJSONInput))
	form.Set("contractaddress", req.Address.Hex())
	form.Set("contractname", req.ContractName)
	form.Set("compilerversion", "v"+strings.TrimPrefix(req.CompilerVersion, "v"))
	// Etherscan spells this parameter with a typo.
	form.Set("constructorArguements", hex.EncodeToString(req.ConstructorArgs))

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("verifysourcecode", nil), []byte(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build verification request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(httpReq)
	if err != nil {
		return "", err
	}

	result := resp.resultString()
	if resp.Status != statusOK {
		if isAlreadyVerified(result) || isAlreadyVerified(resp.Message) {
			return "", errAlreadyVerified
		}
		return "", fmt.Errorf("%w: %s: %s", ErrVerificationFailed, resp.Message, result)
	}

	return result, nil
}

// CheckStatus reports whether the submission guid passed. A pending submission
// returns false without error; a rejected one returns ErrVerificationFailed.
func (c *Client) CheckStatus(ctx context.Context, guid string) (bool, error) {
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("checkverifystatus", url.Values{"guid": {guid}}), nil)
	if err != nil {
		return false, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return false, err
	}

	result := resp.resultString()
	switch {
	case result == resultPassed:
		return true, nil
	case strings.HasPrefix(strings.ToLower(result), pendingPrefix):
		return false, nil
	case isAlreadyVerified(result):
		return false, errAlreadyVerified
	default:
		return false, fmt.Errorf("%w: %s", ErrVerificationFailed, result)
	}
}

func (c *Client) endpoint(action string, extra url.Values) string {
	query := url.Values{}
	query.Set("module", "contract")
	query.Set("action", action)
	query.Set("apikey", c.apiKey)
	query.Set("chainid", strconv.FormatUint(c.chainID, 10))
	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	separator := "?"
	if strings.Contains(c.apiURL, "?") {
		separator = "&"
	}
	return c.apiURL + separator + query.Encode()
}

func (c *Client) do(req *retryablehttp.Request) (response, error) {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("explorer request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return response{}, fmt.Errorf("failed to read explorer response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return response{}, fmt.Errorf("explorer returned HTTP %d: %s", httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return response{}, fmt.Errorf("failed to decode explorer response: %w", err)
	}

	return resp, nil
}

func (r response) resultString() string {
	var s string
	if err := json.Unmarshal(r.Result, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Result))
}

func isAlreadyVerified(message string) bool {
	return strings.Contains(strings.ToLower(message), alreadyVerified)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
