package main

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/client-portal/internal/database"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/logging"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/models"
	"github.com/ahmetcoskunkizilkaya/client-portal/internal/services"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		defer closeDB()
		color.Green("Schema is up to date (%d models)", len(models.All()))
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete system logs and webhook deliveries past retention",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := connect(); err != nil {
			return err
		}
		defer closeDB()
		logging.Prune(database.DB, cfg.LogRetention)
		color.Green("Pruned records older than %s", cfg.LogRetention)
		return nil
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a portal account",
	Long: `Create a password account for the portal.

Examples:
  portal create-user --email pm@agency.io --name "Dana" --role team_member --password s3cretpass
  portal create-user --email owner@acme.io --role client --client <client-id> --password s3cretpass`,
	RunE: runCreateUser,
}

var (
	userEmail    string
	userName     string
	userRole     string
	userPassword string
	userClientID string
)

func init() {
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "Account email (required)")
	createUserCmd.Flags().StringVar(&userName, "name", "", "Display name")
	createUserCmd.Flags().StringVar(&userRole, "role", string(models.RoleTeamMember), "admin, team_member or client")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "Password, at least 8 characters (required)")
	createUserCmd.Flags().StringVar(&userClientID, "client", "", "Client organization ID for client accounts")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	role := models.Role(strings.ToLower(userRole))
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", userRole)
	}

	var clientID *uuid.UUID
	if userClientID != "" {
		id, err := uuid.Parse(userClientID)
		if err != nil {
			return fmt.Errorf("invalid client id: %w", err)
		}
		clientID = &id
	}

	if err := connect(); err != nil {
		return err
	}
	defer closeDB()

	if clientID != nil {
		if err := database.DB.First(&models.Client{}, "id = ?", *clientID).Error; err != nil {
			return fmt.Errorf("client %s: %w", clientID, err)
		}
	}

	authService := services.NewAuthService(database.DB, cfg)
	user, err := authService.CreateUser(userName, userEmail, userPassword, role)
	if err != nil {
		return err
	}
	if clientID != nil {
		if err := database.DB.Model(user).Update("client_id", *clientID).Error; err != nil {
			return fmt.Errorf("failed to link client: %w", err)
		}
	}

	color.Green("Created %s %s", user.Role, user.Email)
	fmt.Printf("  id: %s\n", user.ID)
	if clientID != nil {
		fmt.Printf("  client: %s\n", clientID)
	}
	return nil
}
