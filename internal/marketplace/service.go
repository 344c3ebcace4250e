package marketplace

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/ledger"
)

// ListRequest carries the fields of a new credit listing.
type ListRequest struct {
	Amount        float64       `json:"amount"`
	PricePerUnit  float64       `json:"price_per_unit"`
	CreditType    CreditType    `json:"credit_type"`
	Certification Certification `json:"certification"`
	ProjectName   string        `json:"project_name"`
	VintageYear   int           `json:"vintage_year"`
	Description   string        `json:"description"`
}

// Service exposes the credit marketplace operations under the engine-wide
// mutex.
type Service struct {
	mu       *sync.Mutex
	store    *Store
	accounts *accounts.Store
	ledger   *ledger.Store
	logger   *zap.Logger
}

func NewService(mu *sync.Mutex, store *Store, accountStore *accounts.Store, ledgerStore *ledger.Store, logger *zap.Logger) *Service {
	return &Service{
		mu:       mu,
		store:    store,
		accounts: accountStore,
		ledger:   ledgerStore,
		logger:   logger,
	}
}

// List creates a credit listing backed by the seller's available allowance.
// The credit id is allocated only after all validation passes.
func (s *Service) List(seller string, req ListRequest) (uint64, error) {
	if req.Amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if req.PricePerUnit <= 0 {
		return 0, ErrInvalidPrice
	}
	if !ValidCreditType(req.CreditType) {
		return 0, ErrInvalidCreditType
	}
	if !ValidCertification(req.Certification) {
		return 0, ErrInvalidCertification
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts.Get(seller)
	if !ok {
		return 0, accounts.ErrNotFound
	}
	if float64(account.Available()) < req.Amount {
		return 0, ErrInsufficientAllowance
	}

	id := s.store.Insert(CarbonCredit{
		Seller:        seller,
		Amount:        req.Amount,
		PricePerUnit:  req.PricePerUnit,
		CreditType:    req.CreditType,
		Certification: req.Certification,
		ProjectName:   req.ProjectName,
		VintageYear:   req.VintageYear,
		Description:   req.Description,
		CreatedAt:     time.Now(),
		IsActive:      true,
	})

	s.logger.Info("carbon credit listed",
		zap.Uint64("credit_id", id),
		zap.String("seller", seller),
		zap.Float64("amount", req.Amount),
		zap.String("credit_type", string(req.CreditType)))
	return id, nil
}

// ListActive returns every active credit in insertion order.
func (s *Service) ListActive() []CarbonCredit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListActive()
}

// Purchase buys part or all of an active credit and records the
// transaction. A full-amount purchase deactivates the credit; a partial
// one decrements it. No token balance moves in this flow: settlement in
// tokens exists only in the allowance trade book.
func (s *Service) Purchase(buyer string, creditID uint64, amount float64) (uint64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	credit, ok := s.store.Get(creditID)
	if !ok || !credit.IsActive {
		return 0, ErrNotActive
	}
	if credit.Seller == buyer {
		return 0, ErrSelfPurchase
	}
	if amount > credit.Amount {
		return 0, &ExceedsAvailableError{Available: credit.Amount}
	}
	if _, ok := s.accounts.Get(buyer); !ok {
		return 0, accounts.ErrNotFound
	}

	if amount == credit.Amount {
		credit.Amount = 0
		credit.IsActive = false
	} else {
		credit.Amount -= amount
	}

	txID := s.ledger.Append(ledger.Transaction{
		Buyer:           buyer,
		Seller:          credit.Seller,
		CreditID:        creditID,
		Amount:          amount,
		PricePerUnit:    credit.PricePerUnit,
		ProjectName:     credit.ProjectName,
		TransactionType: ledger.TypePurchase,
		Timestamp:       time.Now(),
	})

	s.logger.Info("carbon credit purchased",
		zap.Uint64("credit_id", creditID),
		zap.Uint64("transaction_id", txID),
		zap.String("buyer", buyer),
		zap.Float64("amount", amount),
		zap.Bool("deactivated", !credit.IsActive))
	return txID, nil
}
