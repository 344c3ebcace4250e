package alerts

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotifier is a mock implementation of the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) AlertCreated(alert Alert) {
	m.Called(alert)
}

type stubUsage struct {
	consumption map[string]float64
	carbon      map[string]float64
}

func (s *stubUsage) UsageSince(principal string, _ time.Time) (float64, float64) {
	return s.consumption[principal], s.carbon[principal]
}

type stubDirectory struct {
	principals []string
}

func (s *stubDirectory) Principals() []string {
	return s.principals
}

func newTestEngine(usage *stubUsage, directory *stubDirectory, notifier Notifier) *Engine {
	if usage == nil {
		usage = &stubUsage{}
	}
	if directory == nil {
		directory = &stubDirectory{}
	}
	return NewEngine(&sync.Mutex{}, usage, directory, notifier, zap.NewNop())
}

func TestCheckThresholdsBothBreachedCreatesOneHighAlert(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	engine.CheckThresholds("alice", 1500, 150)

	alerts := engine.ListForUser("alice")
	require.Len(t, alerts, 1)
	assert.Equal(t, SeverityHigh, alerts[0].Severity)
	assert.Equal(t, StatusNew, alerts[0].Status)
}

func TestCheckThresholdsSingleBreachCreatesMediumAlert(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	engine.CheckThresholds("alice", 1500, 0)
	engine.CheckThresholds("alice", 0, 150)

	alerts := engine.ListForUser("alice")
	require.Len(t, alerts, 2)
	assert.Equal(t, SeverityMedium, alerts[0].Severity)
	assert.Equal(t, SeverityMedium, alerts[1].Severity)
}

func TestCheckThresholdsAtLimitCreatesNothing(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	engine.CheckThresholds("alice", 1000, 100)

	assert.Empty(t, engine.ListForUser("alice"))
}

func TestScanAllRecent(t *testing.T) {
	usage := &stubUsage{
		consumption: map[string]float64{"alice": 80, "bob": 10, "carol": 60},
		carbon:      map[string]float64{"alice": 9, "bob": 1, "carol": 2},
	}
	directory := &stubDirectory{principals: []string{"alice", "bob", "carol"}}
	engine := newTestEngine(usage, directory, nil)

	created := engine.ScanAllRecent()
	assert.Equal(t, 3, created)

	// Alice breached both daily thresholds: one medium and one high alert.
	aliceAlerts := engine.ListForUser("alice")
	require.Len(t, aliceAlerts, 2)
	assert.Equal(t, SeverityMedium, aliceAlerts[0].Severity)
	assert.Equal(t, SeverityHigh, aliceAlerts[1].Severity)

	assert.Empty(t, engine.ListForUser("bob"))
	require.Len(t, engine.ListForUser("carol"), 1)
}

func TestSetStatusTransitions(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	engine.CheckThresholds("alice", 1500, 150)
	id := engine.ListForUser("alice")[0].ID

	require.NoError(t, engine.SetStatus("alice", id, StatusRead))
	assert.Equal(t, StatusRead, engine.ListForUser("alice")[0].Status)

	require.NoError(t, engine.SetStatus("alice", id, StatusResolved))

	// Resolved is terminal.
	err := engine.SetStatus("alice", id, StatusRead)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusResolved, engine.ListForUser("alice")[0].Status)
}

func TestSetStatusRejectsInvalidStatus(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	engine.CheckThresholds("alice", 1500, 150)
	id := engine.ListForUser("alice")[0].ID

	err := engine.SetStatus("alice", id, StatusNew)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = engine.SetStatus("alice", id, Status("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatusForeignAlertIndistinguishableFromMissing(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	engine.CheckThresholds("alice", 1500, 150)
	id := engine.ListForUser("alice")[0].ID

	assert.ErrorIs(t, engine.SetStatus("bob", id, StatusRead), ErrNotFound)
	assert.ErrorIs(t, engine.SetStatus("alice", id+1, StatusRead), ErrNotFound)
	assert.Equal(t, StatusNew, engine.ListForUser("alice")[0].Status)
}

func TestRemove(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	engine.CheckThresholds("alice", 1500, 150)
	id := engine.ListForUser("alice")[0].ID

	assert.ErrorIs(t, engine.Remove("bob", id), ErrNotFound)
	require.NoError(t, engine.Remove("alice", id))
	assert.Empty(t, engine.ListForUser("alice"))
	assert.ErrorIs(t, engine.Remove("alice", id), ErrNotFound)
}

func TestNotifierReceivesCreatedAlerts(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("AlertCreated", mock.AnythingOfType("Alert")).Return()
	engine := newTestEngine(nil, nil, notifier)

	engine.CheckThresholds("alice", 1500, 150)

	notifier.AssertNumberOfCalls(t, "AlertCreated", 1)
}

func TestSnapshotRestorePreservesCounter(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	engine.CheckThresholds("alice", 1500, 0)
	engine.CheckThresholds("alice", 0, 150)

	state := engine.Snapshot()
	require.Len(t, state.Alerts, 2)
	assert.Equal(t, uint64(3), state.NextID)

	restored := newTestEngine(nil, nil, nil)
	restored.Restore(state)
	restored.CheckThresholds("alice", 1500, 150)

	alerts := restored.ListForUser("alice")
	require.Len(t, alerts, 3)
	assert.Equal(t, uint64(3), alerts[2].ID)
}
