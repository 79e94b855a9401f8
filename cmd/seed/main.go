package main

import (
	"fmt"
	"log"
	"time"

	"admitly/internal/auth"
	"admitly/internal/events"
	"admitly/internal/shared/config"
	"admitly/internal/shared/database"
	"admitly/internal/tickets"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Admitly Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"scan_events",
		"queued_scans",
		"tickets",
		"events",
		"scanners",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	if err := s.SeedScanners(); err != nil {
		return fmt.Errorf("failed to seed scanners: %w", err)
	}

	eventIDs, err := s.SeedEvents()
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedTickets(eventIDs); err != nil {
		return fmt.Errorf("failed to seed tickets: %w", err)
	}

	return nil
}

// SeedScanners enrolls gate devices for local testing
func (s *Seeder) SeedScanners() error {
	seedScanners := []struct {
		deviceID string
		label    string
		secret   string
		role     string
	}{
		{"gate-north-01", "North Entrance Gate 1", "gate-secret-01", "GATE"},
		{"gate-north-02", "North Entrance Gate 2", "gate-secret-02", "GATE"},
		{"ops-console-01", "Operations Console", "admin-secret-01", "ADMIN"},
	}

	for _, sc := range seedScanners {
		hashed, err := bcrypt.GenerateFromPassword([]byte(sc.secret), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash secret for %s: %w", sc.deviceID, err)
		}

		scanner := auth.Scanner{
			DeviceID: sc.deviceID,
			Label:    sc.label,
			Secret:   string(hashed),
			Role:     sc.role,
			Active:   true,
		}
		if err := s.db.PostgreSQL.Create(&scanner).Error; err != nil {
			return fmt.Errorf("failed to create scanner %s: %w", sc.deviceID, err)
		}
		fmt.Printf("  Created scanner: %s (%s) secret: %s\n", sc.deviceID, sc.role, sc.secret)
	}

	return nil
}

// SeedEvents creates one active event and one upcoming event
func (s *Seeder) SeedEvents() ([]uuid.UUID, error) {
	now := time.Now()

	seedEvents := []events.Event{
		{
			Name:     "Summer Music Festival",
			Venue:    "Riverside Arena",
			StartsAt: now.Add(-2 * time.Hour),
			EndsAt:   now.Add(10 * time.Hour),
			Status:   events.StatusActive,
		},
		{
			Name:     "Tech Conference 2026",
			Venue:    "Convention Center Hall B",
			StartsAt: now.Add(14 * 24 * time.Hour),
			EndsAt:   now.Add(16 * 24 * time.Hour),
			Status:   events.StatusUpcoming,
		},
	}

	ids := make([]uuid.UUID, 0, len(seedEvents))
	for i := range seedEvents {
		if err := s.db.PostgreSQL.Create(&seedEvents[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create event %q: %w", seedEvents[i].Name, err)
		}
		fmt.Printf("  Created event: %s (%s)\n", seedEvents[i].Name, seedEvents[i].Status)
		ids = append(ids, seedEvents[i].ID)
	}

	return ids, nil
}

// SeedTickets creates tickets covering the admission states gate testing needs
func (s *Seeder) SeedTickets(eventIDs []uuid.UUID) error {
	if len(eventIDs) == 0 {
		return fmt.Errorf("no events to attach tickets to")
	}
	activeEvent := eventIDs[0]

	scannedAt := time.Now().Add(-30 * time.Minute)

	seedTickets := []tickets.Ticket{
		// Fresh single-entry tickets
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0001",
			Code:         "SCAN-FRESH-0001",
			HolderName:   "Alice Morgan",
			Status:       tickets.StatusPaid,
			MaxScans:     1,
		},
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0002",
			Code:         "SCAN-FRESH-0002",
			HolderName:   "Ben Okafor",
			Status:       tickets.StatusIssued,
			MaxScans:     1,
		},
		// Already fully used: second scan must be rejected
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0003",
			Code:         "SCAN-USED-0003",
			HolderName:   "Carla Diaz",
			Status:       tickets.StatusUsed,
			ScanCount:    1,
			MaxScans:     1,
			FirstScanAt:  &scannedAt,
			LastScanAt:   &scannedAt,
		},
		// Multi-entry pass, partially consumed
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0004",
			Code:         "SCAN-MULTI-0004",
			HolderName:   "Dan Petrov",
			Status:       tickets.StatusPaid,
			ScanCount:    1,
			MaxScans:     3,
			FirstScanAt:  &scannedAt,
			LastScanAt:   &scannedAt,
		},
		// Unlimited re-entry staff pass
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0005",
			Code:         "SCAN-STAFF-0005",
			HolderName:   "Eve Lindqvist",
			Status:       tickets.StatusPaid,
			MaxScans:     0,
		},
		// Not admissible: payment never completed
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0006",
			Code:         "SCAN-UNPAID-0006",
			HolderName:   "Frank Huang",
			Status:       tickets.StatusPendingPayment,
			MaxScans:     1,
		},
		// Not admissible: revoked after a chargeback
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0007",
			Code:         "SCAN-REVOKED-0007",
			HolderName:   "Grace Adeyemi",
			Status:       tickets.StatusRevoked,
			MaxScans:     1,
		},
		// Not admissible: refunded
		{
			EventID:      activeEvent,
			TicketNumber: "TKT-0008",
			Code:         "SCAN-REFUND-0008",
			HolderName:   "Hugo Martins",
			Status:       tickets.StatusRefunded,
			MaxScans:     1,
		},
	}

	for i := range seedTickets {
		if err := s.db.PostgreSQL.Create(&seedTickets[i]).Error; err != nil {
			return fmt.Errorf("failed to create ticket %s: %w", seedTickets[i].Code, err)
		}
		fmt.Printf("  Created ticket: %s [%s] scans %d/%d\n",
			seedTickets[i].Code, seedTickets[i].Status,
			seedTickets[i].ScanCount, seedTickets[i].MaxScans)
	}

	return nil
}
