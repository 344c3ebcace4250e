package trading

// TradeOffer is an open offer to sell unused carbon allowance. An offer in
// the book always has Amount > 0; it is removed the moment a settlement
// takes its full remaining amount.
type TradeOffer struct {
	ID           uint64 `json:"id"`
	Seller       string `json:"seller"`
	Amount       uint64 `json:"amount"`
	PricePerUnit uint64 `json:"price_per_unit"`
}
