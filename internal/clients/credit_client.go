// Package clients implements the HTTP collaborators behind their port
// interfaces. Every remote call runs through a circuit breaker; the fallback
// on an open circuit is call-specific.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/apperrors"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portsclients "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/clients"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/middleware"
	"github.com/sony/gobreaker/v2"
)

// CreditClient queries the credit-products service through the gateway.
type CreditClient struct {
	baseURL         string
	httpClient      *http.Client
	balancesBreaker *gobreaker.CircuitBreaker[[]dto.CreditBalance]
	debtBreaker     *gobreaker.CircuitBreaker[bool]
}

// NewCreditClient builds a credit gateway client. failureThreshold is the
// number of consecutive failures that opens each breaker.
func NewCreditClient(baseURL string, timeout time.Duration, failureThreshold uint32) *CreditClient {
	readyToTrip := func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= failureThreshold
	}
	return &CreditClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		balancesBreaker: gobreaker.NewCircuitBreaker[[]dto.CreditBalance](gobreaker.Settings{
			Name:        "credit-balances",
			ReadyToTrip: readyToTrip,
		}),
		debtBreaker: gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
			Name:        "credit-debt",
			ReadyToTrip: readyToTrip,
		}),
	}
}

var _ portsclients.CreditGateway = (*CreditClient)(nil)

// GetAllBalances returns the customer's credit balances. A breaker-open or
// transport failure degrades to an empty slice: for eligibility purposes an
// unreachable credit service reads as "no credit products".
func (c *CreditClient) GetAllBalances(ctx context.Context, customerID string) ([]dto.CreditBalance, error) {
	if customerID == "" {
		return nil, apperrors.NewValidation("Customer ID is required")
	}

	url := fmt.Sprintf("%s/credits/balanceByCustomer/%s/%s", c.baseURL, customerID, domain.Personal)
	balances, err := c.balancesBreaker.Execute(func() ([]dto.CreditBalance, error) {
		var out []dto.CreditBalance
		if err := c.getJSON(ctx, url, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Credit balances unavailable, treating as no credit products",
			slog.String("customer_id", customerID), slog.String("error", err.Error()))
		return []dto.CreditBalance{}, nil
	}
	return balances, nil
}

// HasOverdueDebt reports whether the customer has overdue debt. There is no
// safe fallback: an unknown debt state must never be treated as "no debt", so
// breaker-open and transport failures surface as ErrUnavailable.
func (c *CreditClient) HasOverdueDebt(ctx context.Context, customerID string, customerType domain.CustomerType) (bool, error) {
	url := fmt.Sprintf("%s/credits/hasDebt/%s/%s", c.baseURL, customerID, customerType)
	hasDebt, err := c.debtBreaker.Execute(func() (bool, error) {
		var out bool
		if err := c.getJSON(ctx, url, &out); err != nil {
			return false, err
		}
		return out, nil
	})
	if err != nil {
		return false, fmt.Errorf("credit service not responding: %w", apperrors.ErrUnavailable)
	}
	return hasDebt, nil
}

func (c *CreditClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("credit service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
