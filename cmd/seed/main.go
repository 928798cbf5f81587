package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"classbook/internal/shared/config"
	"classbook/internal/shared/constants"
	"classbook/internal/shared/database"
	"classbook/internal/slots"
	"classbook/internal/users"
	"classbook/pkg/cache"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "qwerty"

type Seeder struct {
	db  *database.DB
	cfg *config.Config
}

func main() {
	keep := flag.Bool("keep", false, "seed without truncating existing tables")
	flag.Parse()

	fmt.Println("🌱 Starting Classbook Database Seeder...")
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, cfg: cfg}

	if !*keep {
		fmt.Println("\n🧹 Cleaning database...")
		if err := seeder.CleanDatabase(); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
		fmt.Println("✅ Database cleaned successfully")
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{"bookings", "cart_items", "slots", "users"}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.SeedUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.SeedSlots(ctx); err != nil {
		return fmt.Errorf("failed to seed slots: %w", err)
	}

	if err := cache.NewService(s.db.Redis).DeletePattern(ctx, constants.PATTERN_INVALIDATE_SLOTS); err != nil {
		log.Printf("Warning: failed to clear slot cache: %v", err)
	}
	return nil
}

// SeedUsers creates the admin account plus two regular users
func (s *Seeder) SeedUsers(ctx context.Context) error {
	fmt.Println("  👤 Seeding users...")

	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminEmail := "admin@classbook.local"
	if len(s.cfg.Auth.AdminEmails) > 0 {
		adminEmail = s.cfg.Auth.AdminEmails[0]
	}

	accounts := []struct {
		email string
		role  users.Role
	}{
		{adminEmail, users.RoleAdmin},
		{"student1@classbook.local", users.RoleUser},
		{"student2@classbook.local", users.RoleUser},
	}

	for _, account := range accounts {
		user := users.User{
			Email:     account.email,
			Password:  string(hashed),
			Role:      account.role,
			Confirmed: true,
		}
		if err := s.db.PostgreSQL.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", account.email, err)
		}
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}
	return nil
}

// SeedSlots creates a week of classes through the slot service so input
// gets the same normalization as the API
func (s *Seeder) SeedSlots(ctx context.Context) error {
	fmt.Println("  📅 Seeding slots...")

	service := slots.NewService(slots.NewRepository(s.db.PostgreSQL), cache.NewService(nil), time.Minute)

	timetable := []slots.CreateSlotRequest{
		{DayOfWeek: "monday", GroupType: "kids", StartTime: "16:00", EndTime: "17:00", PriceCents: 1200, Capacity: 10},
		{DayOfWeek: "Monday", GroupType: "adults", StartTime: "18:30", EndTime: "19:45", PriceCents: 1800, Capacity: 14},
		{DayOfWeek: "tue", GroupType: "teens", StartTime: "17:00", EndTime: "18:00", PriceCents: 1500, Capacity: 12},
		{DayOfWeek: "Wednesday", GroupType: "kids", StartTime: "16:00", EndTime: "17:00", PriceCents: 1200, Capacity: 10},
		{DayOfWeek: "Wednesday", GroupType: "adults", StartTime: "19:00", EndTime: "20:15", PriceCents: 1800, Capacity: 14},
		{DayOfWeek: "thursday", GroupType: "seniors", StartTime: "10:00", EndTime: "11:00", PriceCents: 1000, Capacity: 0},
		{DayOfWeek: "Friday", GroupType: "teens", StartTime: "17:00", EndTime: "18:00", PriceCents: 1500, Capacity: 12},
		{DayOfWeek: "Saturday", GroupType: "adults", StartTime: "09:30", EndTime: "11:00", PriceCents: 2200, Capacity: 20},
		{DayOfWeek: "sun", GroupType: "kids", StartTime: "11:00", EndTime: "12:00", PriceCents: 1200, Capacity: 10},
	}

	for i := range timetable {
		slot, err := service.CreateSlot(ctx, &timetable[i])
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		fmt.Printf("    ✅ Created slot: %s %s %s-%s\n", slot.DayOfWeek, slot.GroupType, slot.StartTime, slot.EndTime)
	}
	return nil
}
