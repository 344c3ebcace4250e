package reports

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/ledger"
	"green-gauge/green-gauge-backend/internal/telemetry"
)

func newTestService() (*Service, *ledger.Store, *telemetry.Store) {
	mu := &sync.Mutex{}
	ledgerStore := ledger.NewStore()
	telemetryStore := telemetry.NewStore()

	ledgerSvc := ledger.NewService(mu, ledgerStore)
	telemetrySvc := telemetry.NewService(mu, telemetryStore, accounts.NewStore(), nil, zap.NewNop())

	return NewService(ledgerSvc, telemetrySvc, zap.NewNop()), ledgerStore, telemetryStore
}

func TestWriteTransactionsCSV(t *testing.T) {
	svc, ledgerStore, _ := newTestService()
	ledgerStore.Append(ledger.Transaction{
		Buyer:           "bob",
		Seller:          "alice",
		Amount:          40,
		PricePerUnit:    5,
		ProjectName:     "Riverside Reforestation",
		TransactionType: ledger.TypeTrade,
		Timestamp:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTransactions(&buf, "alice", FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Buyer")
	assert.Contains(t, lines[1], "bob")
	assert.Contains(t, lines[1], "trade")
	assert.Contains(t, lines[1], "Riverside Reforestation")
}

func TestWriteTransactionsFiltersByPrincipal(t *testing.T) {
	svc, ledgerStore, _ := newTestService()
	ledgerStore.Append(ledger.Transaction{Buyer: "bob", Seller: "alice", TransactionType: ledger.TypeTrade})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTransactions(&buf, "carol", FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestWriteEfficiencyCSV(t *testing.T) {
	svc, _, telemetryStore := newTestService()
	telemetryStore.AppendPoint(telemetry.DataPoint{
		Principal:         "alice",
		EnergyConsumption: 100,
		CarbonEmitted:     25,
		Timestamp:         time.Now(),
	})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteEfficiency(&buf, "alice", 7, FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "75.0")
}

func TestWriteExcelProducesWorkbook(t *testing.T) {
	svc, ledgerStore, _ := newTestService()
	ledgerStore.Append(ledger.Transaction{Buyer: "bob", Seller: "alice", TransactionType: ledger.TypeTrade})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTransactions(&buf, "alice", FormatExcel))
	// XLSX files are zip archives.
	assert.Equal(t, "PK", buf.String()[:2])
}

func TestWritePDFProducesDocument(t *testing.T) {
	svc, ledgerStore, _ := newTestService()
	ledgerStore.Append(ledger.Transaction{Buyer: "bob", Seller: "alice", TransactionType: ledger.TypeTrade})

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTransactions(&buf, "alice", FormatPDF))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestUnsupportedFormat(t *testing.T) {
	svc, _, _ := newTestService()

	var buf bytes.Buffer
	err := svc.WriteTransactions(&buf, "alice", Format("docx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = svc.WriteEfficiency(&buf, "alice", 7, Format("docx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestContentTypes(t *testing.T) {
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Contains(t, FormatExcel.ContentType(), "spreadsheet")
}
