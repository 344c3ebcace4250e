package reports

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/ledger"
	"green-gauge/green-gauge-backend/internal/reports/export"
	"green-gauge/green-gauge-backend/internal/telemetry"
)

// Format identifies a report output format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

// ErrUnsupportedFormat is returned for a format outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Valid reports whether the format is one of csv, xlsx or pdf.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatExcel || f == FormatPDF
}

// Service renders a caller's transaction history and efficiency metrics as
// downloadable documents.
type Service struct {
	ledger    *ledger.Service
	telemetry *telemetry.Service
	logger    *zap.Logger
}

func NewService(ledgerSvc *ledger.Service, telemetrySvc *telemetry.Service, logger *zap.Logger) *Service {
	return &Service{ledger: ledgerSvc, telemetry: telemetrySvc, logger: logger}
}

var transactionColumns = []string{
	"ID", "Type", "Buyer", "Seller", "Credit ID", "Amount", "Price Per Unit", "Project", "Timestamp",
}

// WriteTransactions renders the caller's transaction history to w.
func (s *Service) WriteTransactions(w io.Writer, principal string, format Format) error {
	if !format.Valid() {
		return ErrUnsupportedFormat
	}

	transactions := s.ledger.History(principal)
	rows := make([][]any, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, []any{
			tx.ID,
			tx.TransactionType,
			tx.Buyer,
			tx.Seller,
			tx.CreditID,
			tx.Amount,
			tx.PricePerUnit,
			tx.ProjectName,
			tx.Timestamp.Format(time.RFC3339),
		})
	}

	s.logger.Info("transaction report generated",
		zap.String("principal", principal),
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)))

	return s.write(w, "Transactions", "Transaction History", format, transactionColumns, rows)
}

var efficiencyColumns = []string{"Date", "Energy Consumption", "Carbon Emitted", "Efficiency Score"}

// WriteEfficiency renders the caller's daily efficiency metrics to w.
func (s *Service) WriteEfficiency(w io.Writer, principal string, windowDays int, format Format) error {
	if !format.Valid() {
		return ErrUnsupportedFormat
	}

	metrics := s.telemetry.EfficiencyMetrics(principal, windowDays)
	rows := make([][]any, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []any{
			m.Date,
			fmt.Sprintf("%.2f", m.Consumption),
			fmt.Sprintf("%.2f", m.Carbon),
			fmt.Sprintf("%.1f", m.Score),
		})
	}

	s.logger.Info("efficiency report generated",
		zap.String("principal", principal),
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)))

	return s.write(w, "Efficiency", "Energy Efficiency Report", format, efficiencyColumns, rows)
}

func (s *Service) write(w io.Writer, sheet, title string, format Format, columns []string, rows [][]any) error {
	switch format {
	case FormatExcel:
		return export.WriteExcel(w, sheet, columns, rows)
	case FormatPDF:
		return export.WritePDF(w, title, columns, rows)
	default:
		return export.WriteCSV(w, columns, rows)
	}
}
