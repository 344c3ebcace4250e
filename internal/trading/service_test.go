package trading

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/ledger"
)

type noopRecorder struct{}

func (noopRecorder) AppendTokenPoint(string, uint64, time.Time)    {}
func (noopRecorder) AppendEmissionPoint(string, uint64, time.Time) {}

type fixture struct {
	svc      *Service
	accounts *accounts.Store
	ledger   *ledger.Store
	book     *Book
}

func newFixture() *fixture {
	accountStore := accounts.NewStore()
	ledgerStore := ledger.NewStore()
	book := NewBook()
	svc := NewService(&sync.Mutex{}, book, accountStore, ledgerStore, noopRecorder{}, zap.NewNop())
	return &fixture{svc: svc, accounts: accountStore, ledger: ledgerStore, book: book}
}

func (f *fixture) addAccount(principal string, allowance, emitted, tokens uint64) {
	f.accounts.Put(&accounts.Account{
		Principal:       principal,
		CarbonAllowance: allowance,
		CarbonEmitted:   emitted,
		Tokens:          tokens,
	})
}

func TestCreateOfferValidation(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 0)

	_, err := f.svc.CreateOffer("alice", 0, 5)
	assert.ErrorIs(t, err, ErrZeroAmount)

	_, err = f.svc.CreateOffer("alice", 10, 0)
	assert.ErrorIs(t, err, ErrZeroPrice)

	_, err = f.svc.CreateOffer("nobody", 10, 5)
	assert.ErrorIs(t, err, accounts.ErrNotFound)
}

func TestCreateOfferBoundedByAvailableAllowance(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 400, 0)

	_, err := f.svc.CreateOffer("alice", 601, 5)
	var insufficient *InsufficientAllowanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint64(600), insufficient.Available)

	id, err := f.svc.CreateOffer("alice", 600, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
}

func TestSettlePartialFill(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 0)
	f.addAccount("bob", 1000, 0, 400)

	id, err := f.svc.CreateOffer("alice", 100, 5)
	require.NoError(t, err)

	require.NoError(t, f.svc.Settle("bob", id, 40))

	// Buyer pays 200 tokens and gains 40 allowance; the seller receives
	// 200 minus the 5% commission.
	bob, _ := f.accounts.Get("bob")
	assert.Equal(t, uint64(200), bob.Tokens)
	assert.Equal(t, uint64(1040), bob.CarbonAllowance)

	alice, _ := f.accounts.Get("alice")
	assert.Equal(t, uint64(190), alice.Tokens)

	offer, ok := f.book.Get(id)
	require.True(t, ok)
	assert.Equal(t, uint64(60), offer.Amount)

	transactions := f.ledger.All()
	require.Len(t, transactions, 1)
	assert.Equal(t, ledger.TypeTrade, transactions[0].TransactionType)
	assert.Equal(t, "bob", transactions[0].Buyer)
	assert.Equal(t, "alice", transactions[0].Seller)
	assert.Equal(t, float64(40), transactions[0].Amount)
}

func TestSettleFullFillRemovesOffer(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 0)
	f.addAccount("bob", 1000, 0, 500)

	id, err := f.svc.CreateOffer("alice", 100, 5)
	require.NoError(t, err)

	require.NoError(t, f.svc.Settle("bob", id, 100))

	_, ok := f.book.Get(id)
	assert.False(t, ok)
	assert.Empty(t, f.svc.ListOffers())
}

func TestSettleSelfTrade(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 500)

	id, err := f.svc.CreateOffer("alice", 100, 5)
	require.NoError(t, err)

	err = f.svc.Settle("alice", id, 10)
	assert.ErrorIs(t, err, ErrSelfTrade)
}

func TestSettleExceedsOffer(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 0)
	f.addAccount("bob", 1000, 0, 10000)

	id, err := f.svc.CreateOffer("alice", 100, 5)
	require.NoError(t, err)

	err = f.svc.Settle("bob", id, 101)
	var exceeds *ExceedsOfferError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, uint64(100), exceeds.Available)
}

func TestSettleInsufficientFundsLeavesStateUnchanged(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 0)
	f.addAccount("bob", 1000, 0, 199)

	id, err := f.svc.CreateOffer("alice", 100, 5)
	require.NoError(t, err)

	err = f.svc.Settle("bob", id, 40)
	var funds *InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, uint64(200), funds.Required)
	assert.Equal(t, uint64(199), funds.Available)

	bob, _ := f.accounts.Get("bob")
	assert.Equal(t, uint64(199), bob.Tokens)
	assert.Equal(t, uint64(1000), bob.CarbonAllowance)
	offer, _ := f.book.Get(id)
	assert.Equal(t, uint64(100), offer.Amount)
	assert.Empty(t, f.ledger.All())
}

func TestSettleUnknownOffer(t *testing.T) {
	f := newFixture()
	f.addAccount("bob", 1000, 0, 500)

	err := f.svc.Settle("bob", 42, 10)
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestSettleZeroAmount(t *testing.T) {
	f := newFixture()

	err := f.svc.Settle("bob", 1, 0)
	assert.ErrorIs(t, err, ErrZeroAmount)
}

func TestSettleCommissionTruncates(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 0)
	f.addAccount("bob", 1000, 0, 100)

	// 3 units at 9 tokens: cost 27, commission floor(1.35) = 1.
	id, err := f.svc.CreateOffer("alice", 10, 9)
	require.NoError(t, err)
	require.NoError(t, f.svc.Settle("bob", id, 3))

	alice, _ := f.accounts.Get("alice")
	assert.Equal(t, uint64(26), alice.Tokens)
	bob, _ := f.accounts.Get("bob")
	assert.Equal(t, uint64(73), bob.Tokens)
}

func TestBookSnapshotRestorePreservesCounter(t *testing.T) {
	f := newFixture()
	f.addAccount("alice", 1000, 0, 0)

	_, err := f.svc.CreateOffer("alice", 10, 5)
	require.NoError(t, err)
	id2, err := f.svc.CreateOffer("alice", 20, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id2)

	state := f.book.Snapshot()

	restored := NewBook()
	restored.Restore(state)
	assert.Equal(t, f.book.List(), restored.List())
	assert.Equal(t, uint64(3), restored.Insert("alice", 5, 5))
}
