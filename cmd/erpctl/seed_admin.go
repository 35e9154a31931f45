package main

import (
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/bluestar-trading/erp_backend/internal/core/services"
	"github.com/bluestar-trading/erp_backend/internal/dto"
	"github.com/bluestar-trading/erp_backend/internal/repositories/database/pgsql"
	"github.com/bluestar-trading/erp_backend/internal/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// seedActor is recorded as the creator of the bootstrap admin.
const seedActor = "erpctl"

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the first admin account",
	Long: `Creates an admin user. When --password is omitted a random password is
generated and printed once; change it after the first sign-in.`,
	Example: `  erpctl seed-admin --username owner --full-name "Ravi Kumar" --telegram-chat-id 123456789`,
	RunE:    runSeedAdmin,
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	seedAdminCmd.Flags().String("username", "admin", "Login name")
	seedAdminCmd.Flags().String("full-name", "Administrator", "Display name")
	seedAdminCmd.Flags().String("email", "", "Email address")
	seedAdminCmd.Flags().String("password", "", "Password (generated when empty)")
	seedAdminCmd.Flags().String("telegram-chat-id", "", "Telegram chat that receives draft alerts")
}

func runSeedAdmin(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")
	fullName, _ := cmd.Flags().GetString("full-name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	chatID, _ := cmd.Flags().GetString("telegram-chat-id")

	generated := false
	if password == "" {
		p, err := utils.GenerateTemporaryPassword(12)
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		password, generated = p, true
	}

	cfg, err := loadDatabaseConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := pgsql.NewRepositoryProvider(pool)
	userService := services.NewUserService(repos.UserRepo, services.TokenSettings{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiryDuration,
		Issuer: cfg.JWTIssuer,
	})

	req := dto.CreateUserRequest{
		Username: username,
		Password: password,
		FullName: fullName,
		Role:     domain.RoleAdmin,
	}
	if email != "" {
		req.Email = &email
	}
	if chatID != "" {
		req.TelegramChatID = &chatID
	}

	user, err := userService.CreateUser(ctx, req, seedActor)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info().Str("user_id", user.UserID).Str("username", user.Username).Msg("Admin created")
	if generated {
		fmt.Fprintf(cmd.OutOrStdout(), "Temporary password for %s: %s\n", user.Username, password)
	}
	return nil
}
