package trading

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/ledger"
)

// commissionRate is retained from every settlement and credited nowhere:
// the commission is burned, not redistributed.
const commissionRate = 0.05

// Service exposes the allowance trade book operations. Every method runs
// under the engine-wide mutex, so a settlement commits all of its balance
// and book mutations in one critical section or not at all.
type Service struct {
	mu       *sync.Mutex
	book     *Book
	accounts *accounts.Store
	ledger   *ledger.Store
	history  accounts.HistoryRecorder
	logger   *zap.Logger
}

func NewService(mu *sync.Mutex, book *Book, accountStore *accounts.Store, ledgerStore *ledger.Store, history accounts.HistoryRecorder, logger *zap.Logger) *Service {
	return &Service{
		mu:       mu,
		book:     book,
		accounts: accountStore,
		ledger:   ledgerStore,
		history:  history,
		logger:   logger,
	}
}

// CreateOffer opens a trade offer selling part of the caller's available
// allowance. The trade id is allocated only after all validation passes.
func (s *Service) CreateOffer(seller string, amount, pricePerUnit uint64) (uint64, error) {
	if amount == 0 {
		return 0, ErrZeroAmount
	}
	if pricePerUnit == 0 {
		return 0, ErrZeroPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts.Get(seller)
	if !ok {
		return 0, accounts.ErrNotFound
	}
	if available := account.Available(); amount > available {
		return 0, &InsufficientAllowanceError{Available: available}
	}

	id := s.book.Insert(seller, amount, pricePerUnit)
	s.logger.Info("trade offer created",
		zap.Uint64("trade_id", id),
		zap.String("seller", seller),
		zap.Uint64("amount", amount),
		zap.Uint64("price_per_unit", pricePerUnit))
	return id, nil
}

// ListOffers returns all open offers in insertion order.
func (s *Service) ListOffers() []TradeOffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.List()
}

// Settle buys amount units from an open offer. The buyer pays
// amount * price tokens; the seller receives the total minus a 5%
// commission (floored), which is burned; the buyer's allowance grows by
// amount. A full-amount settlement removes the offer, a partial one
// decrements it. Nothing is mutated until every check has passed.
func (s *Service) Settle(buyer string, tradeID, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.book.Get(tradeID)
	if !ok {
		return ErrOfferNotFound
	}
	if offer.Seller == buyer {
		return ErrSelfTrade
	}
	if amount > offer.Amount {
		return &ExceedsOfferError{Available: offer.Amount}
	}

	if offer.PricePerUnit != 0 && amount > math.MaxUint64/offer.PricePerUnit {
		return ErrCostOverflow
	}
	totalCost := amount * offer.PricePerUnit

	buyerAccount, ok := s.accounts.Get(buyer)
	if !ok {
		return accounts.ErrNotFound
	}
	if buyerAccount.Tokens < totalCost {
		return &InsufficientFundsError{Required: totalCost, Available: buyerAccount.Tokens}
	}

	sellerAccount, ok := s.accounts.Get(offer.Seller)
	if !ok {
		return accounts.ErrNotFound
	}

	commission := uint64(float64(totalCost) * commissionRate)
	earnings := totalCost - commission

	newBuyerAllowance, err := accounts.AddChecked(buyerAccount.CarbonAllowance, amount)
	if err != nil {
		return err
	}
	newSellerTokens, err := accounts.AddChecked(sellerAccount.Tokens, earnings)
	if err != nil {
		return err
	}

	// All checks passed; commit every mutation together.
	now := time.Now()
	seller := offer.Seller
	pricePerUnit := offer.PricePerUnit
	buyerAccount.Tokens -= totalCost
	buyerAccount.CarbonAllowance = newBuyerAllowance
	sellerAccount.Tokens = newSellerTokens
	s.book.Reduce(tradeID, amount)
	s.history.AppendTokenPoint(buyer, buyerAccount.Tokens, now)
	s.history.AppendTokenPoint(seller, sellerAccount.Tokens, now)
	s.ledger.Append(ledger.Transaction{
		Buyer:           buyer,
		Seller:          seller,
		CreditID:        tradeID,
		Amount:          float64(amount),
		PricePerUnit:    float64(pricePerUnit),
		TransactionType: ledger.TypeTrade,
		Timestamp:       now,
	})

	s.logger.Info("trade settled",
		zap.Uint64("trade_id", tradeID),
		zap.String("buyer", buyer),
		zap.String("seller", seller),
		zap.Uint64("amount", amount),
		zap.Uint64("total_cost", totalCost),
		zap.Uint64("commission", commission))
	return nil
}
