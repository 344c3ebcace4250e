package accounts

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder captures history points appended by the service.
type recorder struct {
	tokenPoints    []uint64
	emissionPoints []uint64
}

func (r *recorder) AppendTokenPoint(_ string, balance uint64, _ time.Time) {
	r.tokenPoints = append(r.tokenPoints, balance)
}

func (r *recorder) AppendEmissionPoint(_ string, emitted uint64, _ time.Time) {
	r.emissionPoints = append(r.emissionPoints, emitted)
}

func newTestService() (*Service, *Store, *recorder) {
	store := NewStore()
	rec := &recorder{}
	svc := NewService(&sync.Mutex{}, store, rec, zap.NewNop(), 1000, 100)
	return svc, store, rec
}

func TestRegisterGrantsDefaults(t *testing.T) {
	svc, _, rec := newTestService()

	account, err := svc.Register("alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", account.Principal)
	assert.Equal(t, uint64(1000), account.CarbonAllowance)
	assert.Equal(t, uint64(0), account.CarbonEmitted)
	assert.Equal(t, uint64(100), account.Tokens)
	assert.Equal(t, []uint64{100}, rec.tokenPoints)
}

func TestRegisterRejectsAnonymous(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.Register(AnonymousPrincipal)
	assert.ErrorIs(t, err, ErrAnonymous)
	assert.Equal(t, 0, store.Len())
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register("alice")
	require.NoError(t, err)

	_, err = svc.Register("alice")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestGetUnknownPrincipal(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordEmissionWithinAllowance(t *testing.T) {
	svc, _, rec := newTestService()

	_, err := svc.Register("alice")
	require.NoError(t, err)

	require.NoError(t, svc.RecordEmission("alice", 400))
	require.NoError(t, svc.RecordEmission("alice", 600))

	account, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), account.CarbonEmitted)
	assert.Equal(t, uint64(0), account.Available())
	assert.Equal(t, []uint64{400, 1000}, rec.emissionPoints)
}

func TestRecordEmissionOverAllowanceLeavesStateUnchanged(t *testing.T) {
	svc, _, rec := newTestService()

	_, err := svc.Register("alice")
	require.NoError(t, err)
	require.NoError(t, svc.RecordEmission("alice", 999))

	err = svc.RecordEmission("alice", 2)
	assert.ErrorIs(t, err, ErrAllowanceExceeded)

	account, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(999), account.CarbonEmitted)
	assert.Equal(t, []uint64{999}, rec.emissionPoints)
}

func TestRewardTokens(t *testing.T) {
	svc, _, rec := newTestService()

	_, err := svc.Register("alice")
	require.NoError(t, err)

	require.NoError(t, svc.RewardTokens("alice", 50))

	account, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(150), account.Tokens)
	assert.Equal(t, []uint64{100, 150}, rec.tokenPoints)
}

func TestRewardTokensOverflow(t *testing.T) {
	svc, store, _ := newTestService()

	_, err := svc.Register("alice")
	require.NoError(t, err)
	account, _ := store.Get("alice")
	account.Tokens = ^uint64(0) - 10

	err = svc.RewardTokens("alice", 20)
	assert.ErrorIs(t, err, ErrBalanceOverflow)
	assert.Equal(t, ^uint64(0)-10, account.Tokens)
}

func TestUpdateProfileMergesOnlyPresentFields(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register("alice")
	require.NoError(t, err)

	name := "Alice Green"
	contact := "alice@example.com"
	require.NoError(t, svc.UpdateProfile("alice", ProfileUpdate{DisplayName: &name, Contact: &contact}))

	newName := "Alice G."
	require.NoError(t, svc.UpdateProfile("alice", ProfileUpdate{DisplayName: &newName}))

	account, err := svc.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice G.", account.DisplayName)
	assert.Equal(t, "alice@example.com", account.Contact)
}

func TestUpdateProfileUnknownPrincipal(t *testing.T) {
	svc, _, _ := newTestService()

	name := "ghost"
	err := svc.UpdateProfile("nobody", ProfileUpdate{DisplayName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
