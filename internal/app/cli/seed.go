package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	adminusecase "price_backend/internal/feature/admin/usecase"
	authadapters "price_backend/internal/feature/auth/adapters"
	"price_backend/internal/platform/db"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "create the default admin account if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(gdb); err != nil {
				logrus.WithError(err).Error("failed to close database")
			}
		}()

		uc := adminusecase.NewAdminUsecase(authadapters.NewUserRepository(gdb), nil, nil)
		created, err := uc.EnsureAdmin(cmd.Context(), cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		log := logrus.WithField("email", cfg.Admin.Email)
		if created {
			log.Info("default admin created")
		} else {
			log.Info("default admin already exists")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
