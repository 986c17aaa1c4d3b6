// cmd/admin/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/clearmind-health/clearmind/internal/auth"
	"github.com/clearmind-health/clearmind/internal/config"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/clearmind-health/clearmind/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	email    string
	name     string
	password string
	orgName  string
	orgSlug  string
)

func init() {
	createSuperAdminCmd.Flags().StringVarP(&email, "email", "e", "", "Email address for the super admin")
	createSuperAdminCmd.Flags().StringVarP(&name, "name", "n", "", "Display name for the super admin")
	createSuperAdminCmd.Flags().StringVarP(&password, "password", "p", "", "Password for the super admin")
	createSuperAdminCmd.MarkFlagRequired("email")
	createSuperAdminCmd.MarkFlagRequired("name")
	createSuperAdminCmd.MarkFlagRequired("password")

	createOrgCmd.Flags().StringVarP(&orgName, "name", "n", "", "Organization name")
	createOrgCmd.Flags().StringVarP(&orgSlug, "slug", "s", "", "URL slug (derived from the name when omitted)")
	createOrgCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(createSuperAdminCmd)
	rootCmd.AddCommand(createOrgCmd)
}

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator tooling for the ClearMind platform",
	Long:  `Bootstrap and maintenance commands that run against the database directly.`,
}

var createSuperAdminCmd = &cobra.Command{
	Use:   "create-super-admin",
	Short: "Create a platform super admin account",
	Long: `Create a user with the super_admin role and a password credential.
Super admins hold no organization membership; they pass every organization
gate by virtue of their global role.`,
	Run: func(cmd *cobra.Command, args []string) {
		db := mustOpenDB()
		ctx := context.Background()

		users := repository.NewUserRepository(db)
		credentials := repository.NewCredentialRepository(db)
		hasher := auth.NewPasswordHasher()

		tx, err := users.Begin(ctx)
		if err != nil {
			log.Fatalf("Failed to start transaction: %v", err)
		}
		defer tx.Rollback()

		user := &model.User{
			Email:         email,
			Name:          name,
			Role:          model.RoleSuperAdmin,
			IsActive:      true,
			EmailVerified: true,
		}
		if err := users.WithTx(tx).Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}

		hashed, err := hasher.Hash(password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		if err := credentials.WithTx(tx).Create(ctx, &model.Credential{
			UserID:   user.ID,
			Kind:     model.CredentialHashpass,
			Material: hashed,
			IsActive: true,
		}); err != nil {
			log.Fatalf("Failed to create credential: %v", err)
		}

		if err := tx.Commit(); err != nil {
			log.Fatalf("Failed to commit: %v", err)
		}

		fmt.Printf("Super admin %s created (%s)\n", user.Email, user.ID)
	},
}

var createOrgCmd = &cobra.Command{
	Use:   "create-org",
	Short: "Create an organization",
	Run: func(cmd *cobra.Command, args []string) {
		db := mustOpenDB()
		ctx := context.Background()

		orgs := service.NewOrganizationService(repository.NewOrganizationRepository(db))

		org, err := orgs.Create(ctx, service.CreateOrganizationInput{
			Name: orgName,
			Slug: orgSlug,
		})
		if err != nil {
			log.Fatalf("Failed to create organization: %v", err)
		}

		fmt.Printf("Organization %s created (%s, slug %s)\n", org.Name, org.ID, org.Slug)
	},
}

func mustOpenDB() *gorm.DB {
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
