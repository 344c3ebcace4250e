package seed

import (
	"fmt"

	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/marketplace"
	"green-gauge/green-gauge-backend/internal/telemetry"
	"green-gauge/green-gauge-backend/internal/trading"
)

// Services bundles the public APIs the seed runs through. Seeding never
// touches a store directly, so every fixture obeys the same validation as a
// real request.
type Services struct {
	Accounts    *accounts.Service
	Trading     *trading.Service
	Marketplace *marketplace.Service
	Telemetry   *telemetry.Service
}

// Run loads a small demo data set: three accounts with telemetry, an open
// trade offer and two credit listings. Safe to skip on a restored snapshot;
// duplicate registration aborts the run.
func Run(s Services, logger *zap.Logger) error {
	principals := []struct {
		principal   string
		displayName string
	}{
		{"demo-alice", "Alice Green"},
		{"demo-bob", "Bob Rivers"},
		{"demo-carol", "Carol Fields"},
	}

	for _, p := range principals {
		if _, err := s.Accounts.Register(p.principal); err != nil {
			return fmt.Errorf("failed to register %s: %w", p.principal, err)
		}
		name := p.displayName
		if err := s.Accounts.UpdateProfile(p.principal, accounts.ProfileUpdate{DisplayName: &name}); err != nil {
			return fmt.Errorf("failed to set profile for %s: %w", p.principal, err)
		}
	}

	samples := []struct {
		principal   string
		device      string
		consumption float64
		carbon      float64
	}{
		{"demo-alice", "meter-a1", 42.5, 3.1},
		{"demo-alice", "meter-a1", 55.0, 4.8},
		{"demo-bob", "meter-b1", 120.0, 14.2},
		{"demo-carol", "meter-c1", 18.75, 0.9},
	}
	for _, smp := range samples {
		if _, err := s.Telemetry.AddDataPoint(smp.principal, smp.device, smp.consumption, smp.carbon); err != nil {
			return fmt.Errorf("failed to ingest sample for %s: %w", smp.principal, err)
		}
	}

	if _, err := s.Trading.CreateOffer("demo-alice", 100, 5); err != nil {
		return fmt.Errorf("failed to create demo offer: %w", err)
	}

	listings := []struct {
		seller string
		req    marketplace.ListRequest
	}{
		{"demo-bob", marketplace.ListRequest{
			Amount:        250,
			PricePerUnit:  4.5,
			CreditType:    marketplace.CreditForestry,
			Certification: marketplace.CertVerra,
			ProjectName:   "Riverside Reforestation",
			VintageYear:   2025,
			Description:   "Mixed-species reforestation along the east bank",
		}},
		{"demo-carol", marketplace.ListRequest{
			Amount:        80,
			PricePerUnit:  6.0,
			CreditType:    marketplace.CreditRenewable,
			Certification: marketplace.CertGold,
			ProjectName:   "Hilltop Wind Cooperative",
			VintageYear:   2026,
			Description:   "Community-owned wind generation offsets",
		}},
	}
	for _, l := range listings {
		if _, err := s.Marketplace.List(l.seller, l.req); err != nil {
			return fmt.Errorf("failed to list demo credit for %s: %w", l.seller, err)
		}
	}

	logger.Info("demo data seeded",
		zap.Int("accounts", len(principals)),
		zap.Int("samples", len(samples)),
		zap.Int("credits", len(listings)))
	return nil
}
