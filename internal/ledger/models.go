package ledger

import "time"

// Transaction types recorded in the ledger.
const (
	TypeTrade    = "trade"
	TypePurchase = "purchase"
)

// Transaction is an immutable record of a completed settlement. Once
// appended it is never mutated or deleted.
type Transaction struct {
	ID              uint64    `json:"id"`
	Buyer           string    `json:"buyer"`
	Seller          string    `json:"seller"`
	CreditID        uint64    `json:"credit_id"`
	Amount          float64   `json:"amount"`
	PricePerUnit    float64   `json:"price_per_unit"`
	ProjectName     string    `json:"project_name"`
	TransactionType string    `json:"transaction_type"`
	Timestamp       time.Time `json:"transaction_time"`
}
