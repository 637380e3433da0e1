package main

import (
	"context"
	"os"
	"strings"

	"calligraphy-cms/config"
	"calligraphy-cms/database"
	authapi "calligraphy-cms/internal/api/auth"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
	"calligraphy-cms/internal/infra/logger"
	"calligraphy-cms/internal/store"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	seedTiersFile     string
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load tier definitions and create the first admin account",
	Long: `seed upserts the membership tiers from a YAML file and, when
--admin-email is given, creates that admin account (or promotes an existing
user to admin).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadEnvFor("DB_URL")
		if _, err := setupLogger(cfg); err != nil {
			return err
		}
		db, err := database.InitDB(cfg.DBURL, false)
		if err != nil {
			return err
		}
		st := store.New(db)
		ctx := cmd.Context()

		if seedTiersFile != "" {
			n, err := seedTiers(ctx, st, seedTiersFile)
			if err != nil {
				return err
			}
			logger.Info("seeded %d tiers from %s", n, seedTiersFile)
		}
		if seedAdminEmail != "" {
			if err := seedAdmin(ctx, st, seedAdminEmail, seedAdminPassword); err != nil {
				return err
			}
			logger.Info("admin account ready: %s", seedAdminEmail)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedTiersFile, "tiers", "seed/tiers.yaml", "tier definitions (YAML); empty skips tiers")
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "", "email of the admin account to create")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password for a newly created admin")
}

type tierSeeder interface {
	UpsertTier(ctx context.Context, t *membership.Tier) error
}

func seedTiers(ctx context.Context, s tierSeeder, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open tiers file")
	}
	defer f.Close()

	tiers, err := membership.LoadTiers(f)
	if err != nil {
		return 0, err
	}
	for i := range tiers {
		if err := s.UpsertTier(ctx, &tiers[i]); err != nil {
			return 0, err
		}
	}
	return len(tiers), nil
}

type adminSeeder interface {
	GetUserByEmail(ctx context.Context, email string) (*users.User, error)
	CreateUser(ctx context.Context, u *users.User) error
	SetUserRole(ctx context.Context, id uint, role string) error
}

func seedAdmin(ctx context.Context, s adminSeeder, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		return s.SetUserRole(ctx, existing.ID, users.RoleAdmin)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	if !users.IsPasswordStrong(password) {
		return errors.New("--admin-password needs eight characters with a letter and a digit")
	}
	hash, err := authapi.HashPassword(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return s.CreateUser(ctx, &users.User{
		Name:         "Administrator",
		Email:        email,
		Password:     &hash,
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleAdmin,
	})
}
