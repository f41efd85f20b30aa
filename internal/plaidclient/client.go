// Package plaidclient wraps the Plaid SDK with the small surface the
// tracker needs: the one-time link flow, identity lookup for registration
// and windowed transaction fetches.
package plaidclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"

	"github.com/juanegido/finance-tracker/internal/registry"
	"github.com/juanegido/finance-tracker/internal/syncer"
)

var (
	// ErrCredentialInvalid means the provider rejected an access token.
	// User-correctable: the account has to be re-linked.
	ErrCredentialInvalid = errors.New("plaid: credential invalid")

	// ErrLinkExchange means the one-time link flow failed. Retryable by
	// repeating the flow.
	ErrLinkExchange = errors.New("plaid: link exchange failed")
)

const dateLayout = "2006-01-02"

// transactionsPageSize is the maximum page size Plaid allows on
// /transactions/get.
const transactionsPageSize = 500

// Client talks to the Plaid API for one client-id/secret pair.
type Client struct {
	api *plaid.APIClient
}

// New builds a Plaid client for the given environment ("sandbox" or
// "production").
func New(clientID, secret, env string) *Client {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	if env == "production" {
		cfg.UseEnvironment(plaid.Production)
	} else {
		cfg.UseEnvironment(plaid.Sandbox)
	}
	return &Client{api: plaid.NewAPIClient(cfg)}
}

// CreateLinkToken creates a Link token for the browser-based account linking
// flow.
func (c *Client) CreateLinkToken(ctx context.Context, clientUserID string) (string, error) {
	user := plaid.LinkTokenCreateRequestUser{ClientUserId: clientUserID}
	req := plaid.NewLinkTokenCreateRequest("Finance Tracker", "en", []plaid.CountryCode{plaid.COUNTRYCODE_US}, user)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, _, err := c.api.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", fmt.Errorf("CreateLinkToken: %w: %w", ErrLinkExchange, err)
	}
	return resp.GetLinkToken(), nil
}

// ExchangePublicToken exchanges the public token from a completed Link flow
// for a long-lived access token.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)

	resp, _, err := c.api.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", fmt.Errorf("ExchangePublicToken: %w: %w", ErrLinkExchange, err)
	}
	return resp.GetAccessToken(), nil
}

// GetIdentity resolves the institution name and sub-account list for an
// access token.
func (c *Client) GetIdentity(ctx context.Context, accessToken string) (*registry.Identity, error) {
	accountsReq := plaid.NewAccountsGetRequest(accessToken)
	accountsResp, _, err := c.api.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*accountsReq).Execute()
	if err != nil {
		return nil, fmt.Errorf("GetIdentity: accounts/get: %w: %w", ErrCredentialInvalid, err)
	}

	itemReq := plaid.NewItemGetRequest(accessToken)
	itemResp, _, err := c.api.PlaidApi.ItemGet(ctx).ItemGetRequest(*itemReq).Execute()
	if err != nil {
		return nil, fmt.Errorf("GetIdentity: item/get: %w: %w", ErrCredentialInvalid, err)
	}

	institution := "Unknown Institution"
	item := itemResp.GetItem()
	if instID, ok := item.GetInstitutionIdOk(); ok && *instID != "" {
		instReq := plaid.NewInstitutionsGetByIdRequest(*instID, []plaid.CountryCode{plaid.COUNTRYCODE_US})
		instResp, _, err := c.api.PlaidApi.InstitutionsGetById(ctx).InstitutionsGetByIdRequest(*instReq).Execute()
		if err != nil {
			return nil, fmt.Errorf("GetIdentity: institutions/get_by_id: %w", err)
		}
		inst := instResp.GetInstitution()
		institution = inst.GetName()
	}

	accounts := accountsResp.GetAccounts()
	subs := make([]registry.SubAccount, 0, len(accounts))
	for _, a := range accounts {
		subs = append(subs, registry.SubAccount{
			AccountID: a.GetAccountId(),
			Name:      a.GetName(),
			Type:      string(a.GetType()),
			Subtype:   string(a.GetSubtype()),
			Mask:      a.GetMask(),
		})
	}

	return &registry.Identity{InstitutionName: institution, SubAccounts: subs}, nil
}

// GetTransactions fetches all transactions for the access token within
// [start, end], paging through /transactions/get until the reported total is
// reached. Order follows the provider's response order.
func (c *Client) GetTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]syncer.Transaction, error) {
	var out []syncer.Transaction
	for {
		req := plaid.NewTransactionsGetRequest(accessToken, start.Format(dateLayout), end.Format(dateLayout))
		req.SetOptions(plaid.TransactionsGetRequestOptions{
			Count:  plaid.PtrInt32(transactionsPageSize),
			Offset: plaid.PtrInt32(int32(len(out))),
		})

		resp, _, err := c.api.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*req).Execute()
		if err != nil {
			return nil, fmt.Errorf("GetTransactions: %w", err)
		}

		page := resp.GetTransactions()
		for _, t := range page {
			out = append(out, syncer.Transaction{
				ID:     t.GetTransactionId(),
				Date:   t.GetDate(),
				Name:   t.GetName(),
				Amount: t.GetAmount(),
			})
		}

		if len(page) == 0 || int32(len(out)) >= resp.GetTotalTransactions() {
			break
		}
	}
	return out, nil
}

var (
	_ registry.IdentitySource  = (*Client)(nil)
	_ syncer.TransactionSource = (*Client)(nil)
)
