package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/domain"
	portsclients "github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/core/ports/clients"
	"github.com/NTT-Botcamp-W3/bank-products-current-accounts/internal/dto"
	"github.com/sony/gobreaker/v2"
)

// accountTypePaths routes the credit leg of a transfer to the sibling service
// that owns the target account.
var accountTypePaths = map[domain.AccountType]string{
	domain.CurrentAccount: "currentAccounts",
	domain.SavingAccount:  "savingAccounts",
	domain.FixedAccount:   "fixedAccounts",
}

// PeerAccountClient posts transactions to sibling account-product services.
type PeerAccountClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[int64]
}

// NewPeerAccountClient builds a peer account gateway client.
func NewPeerAccountClient(baseURL string, timeout time.Duration, failureThreshold uint32) *PeerAccountClient {
	return &PeerAccountClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
			Name: "peer-accounts",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failureThreshold
			},
		}),
	}
}

var _ portsclients.PeerAccountGateway = (*PeerAccountClient)(nil)

// CreateTransaction posts a transaction to the service owning accountType and
// returns the remote operation number. Any failure, breaker-open included,
// propagates to the caller so the transfer can compensate.
func (c *PeerAccountClient) CreateTransaction(ctx context.Context, accountType domain.AccountType, txnReq dto.CreateTransactionRequest) (int64, error) {
	path, ok := accountTypePaths[accountType]
	if !ok {
		return 0, fmt.Errorf("unknown target account type %q", accountType)
	}

	url := fmt.Sprintf("%s/%s/transaction", c.baseURL, path)
	return c.breaker.Execute(func() (int64, error) {
		body, err := json.Marshal(txnReq)
		if err != nil {
			return 0, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return 0, fmt.Errorf("peer account service returned status %d", resp.StatusCode)
		}

		var operationNumber int64
		if err := json.NewDecoder(resp.Body).Decode(&operationNumber); err != nil {
			return 0, err
		}
		return operationNumber, nil
	})
}
