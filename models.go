package monzo

import (
	"encoding/json"
	"fmt"
	"time"
)

// Account is a bank account exposed by GET /accounts.
type Account struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          *string    `json:"id"`
		Description *string    `json:"description"`
		Created     *time.Time `json:"created"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.ID == nil:
		return missingField("id")
	case raw.Description == nil:
		return missingField("description")
	case raw.Created == nil:
		return missingField("created")
	}

	*a = Account{
		ID:          *raw.ID,
		Description: *raw.Description,
		Created:     *raw.Created,
	}
	return nil
}

// Balance is the response of GET /balance. Amounts are in minor units of
// the currency, eg. pennies for GBP or cents for EUR and USD.
type Balance struct {
	Balance int64 `json:"balance"`
	// ISO 4217 currency code.
	Currency string `json:"currency"`
	// Spent from the account today, counted from approx 4am.
	SpendToday int64 `json:"spend_today"`
}

func (b *Balance) UnmarshalJSON(data []byte) error {
	var raw struct {
		Balance    *int64  `json:"balance"`
		Currency   *string `json:"currency"`
		SpendToday *int64  `json:"spend_today"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Balance == nil:
		return missingField("balance")
	case raw.Currency == nil:
		return missingField("currency")
	case raw.SpendToday == nil:
		return missingField("spend_today")
	}

	*b = Balance{
		Balance:    *raw.Balance,
		Currency:   *raw.Currency,
		SpendToday: *raw.SpendToday,
	}
	return nil
}

// Transaction is a single movement of money on an account.
type Transaction struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"` // minor units, negative for debits
	Currency       string            `json:"currency"`
	Description    string            `json:"description"`
	Created        time.Time         `json:"created"`
	Metadata       map[string]string `json:"metadata"`
	AccountBalance int64             `json:"account_balance"`
	Merchant       *string           `json:"merchant"`
	Notes          string            `json:"notes"`
	IsLoad         bool              `json:"is_load"`
	Settled        *time.Time        `json:"settled"` // nil until the transaction settles
	Category       string            `json:"category"`
	DeclineReason  *string           `json:"decline_reason"`
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             *string           `json:"id"`
		Amount         *int64            `json:"amount"`
		Currency       *string           `json:"currency"`
		Description    string            `json:"description"`
		Created        *time.Time        `json:"created"`
		Metadata       map[string]string `json:"metadata"`
		AccountBalance int64             `json:"account_balance"`
		Merchant       *string           `json:"merchant"`
		Notes          string            `json:"notes"`
		IsLoad         bool              `json:"is_load"`
		Settled        *string           `json:"settled"`
		Category       string            `json:"category"`
		DeclineReason  *string           `json:"decline_reason"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.ID == nil:
		return missingField("id")
	case raw.Amount == nil:
		return missingField("amount")
	case raw.Currency == nil:
		return missingField("currency")
	case raw.Created == nil:
		return missingField("created")
	}

	// The API sends an empty string for unsettled transactions.
	var settled *time.Time
	if raw.Settled != nil && *raw.Settled != "" {
		parsed, err := time.Parse(time.RFC3339Nano, *raw.Settled)
		if err != nil {
			return fmt.Errorf("failed to parse settled '%s': %w", *raw.Settled, err)
		}
		settled = &parsed
	}

	*t = Transaction{
		ID:             *raw.ID,
		Amount:         *raw.Amount,
		Currency:       *raw.Currency,
		Description:    raw.Description,
		Created:        *raw.Created,
		Metadata:       raw.Metadata,
		AccountBalance: raw.AccountBalance,
		Merchant:       raw.Merchant,
		Notes:          raw.Notes,
		IsLoad:         raw.IsLoad,
		Settled:        settled,
		Category:       raw.Category,
		DeclineReason:  raw.DeclineReason,
	}
	return nil
}

// Pot is a savings pot separated from the main balance.
type Pot struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Style    string    `json:"style"`
	Balance  int64     `json:"balance"`
	Currency string    `json:"currency"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Deleted  bool      `json:"deleted"`
}

func (p *Pot) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       *string    `json:"id"`
		Name     *string    `json:"name"`
		Style    string     `json:"style"`
		Balance  *int64     `json:"balance"`
		Currency *string    `json:"currency"`
		Created  *time.Time `json:"created"`
		Updated  time.Time  `json:"updated"`
		Deleted  bool       `json:"deleted"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.ID == nil:
		return missingField("id")
	case raw.Name == nil:
		return missingField("name")
	case raw.Balance == nil:
		return missingField("balance")
	case raw.Currency == nil:
		return missingField("currency")
	case raw.Created == nil:
		return missingField("created")
	}

	*p = Pot{
		ID:       *raw.ID,
		Name:     *raw.Name,
		Style:    raw.Style,
		Balance:  *raw.Balance,
		Currency: *raw.Currency,
		Created:  *raw.Created,
		Updated:  raw.Updated,
		Deleted:  raw.Deleted,
	}
	return nil
}
