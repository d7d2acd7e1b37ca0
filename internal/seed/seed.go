// Package seed bootstraps a runnable instance: a default admin account and,
// in development, a handful of sample demands.
package seed

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	"github.com/jimmyhealer/shovel-hero/internal/identity"
	identitydomain "github.com/jimmyhealer/shovel-hero/internal/identity/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@shovelhero.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Relief Admin"
)

// EnsureAdmin creates an admin account when none exists. Credentials come
// from ADMIN_EMAIL / ADMIN_PASSWORD, falling back to development defaults.
func EnsureAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	if email == "" {
		email = defaultAdminEmail
	}
	pass := os.Getenv("ADMIN_PASSWORD")
	if pass == "" {
		pass = defaultAdminPassword
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&identitydomain.AdminUser{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := identity.HashPassword(pass)
		if err != nil {
			return err
		}
		admin := identitydomain.AdminUser{
			ID:           node.Generate(),
			Email:        email,
			DisplayName:  defaultAdminDisplay,
			PasswordHash: hashed,
			CreatedAt:    time.Now().UTC(),
		}
		return tx.WithContext(ctx).Create(&admin).Error
	})
}

// EnsureSampleDemands inserts a small visible demand set into an empty
// development database so the map is not blank on first run.
func EnsureSampleDemands(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&demanddomain.Demand{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		samples := []demanddomain.Demand{
			{
				ID:          node.Generate(),
				Type:        demanddomain.TypeHuman,
				Title:       "Mud cleanup crew",
				Description: "Help shoveling mud out of flooded homes near the station.",
				Region:      "guangfu",
				Contact:     demanddomain.Contact{Name: "Lin", Phone: "0912345678"},
				HumanNeed:   demanddomain.HumanNeed{Required: 20, RiskNotes: "Bring rubber boots."},
				CreatedAt:   now,
				UpdatedAt:   now,
				PublishTime: now,
			},
			{
				ID:          node.Generate(),
				Type:        demanddomain.TypeSupply,
				Title:       "Drinking water",
				Description: "Bottled water for the volunteer staging area.",
				Region:      "guangfu",
				Contact:     demanddomain.Contact{Name: "Chen", Phone: "0987654321"},
				SupplyItems: datatypes.JSONSlice[demanddomain.SupplyItem]{
					{ItemName: "water", Quantity: 200, Unit: "bottle"},
					{ItemName: "work gloves", Quantity: 50, Unit: "pair"},
				},
				CreatedAt:   now,
				UpdatedAt:   now,
				PublishTime: now,
			},
			{
				ID:          node.Generate(),
				Type:        demanddomain.TypeSiteStay,
				Title:       "Overnight shelter",
				Description: "Community center offers floor space for out-of-town volunteers.",
				Region:      "fenglin",
				Contact:     demanddomain.Contact{Name: "Wu", Phone: "0911222333"},
				CreatedAt:   now,
				UpdatedAt:   now,
				PublishTime: now,
			},
		}
		return tx.WithContext(ctx).Create(&samples).Error
	})
}
