package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"price_backend/internal/platform/db"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "perform database migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		action, _ := cmd.Flags().GetString("action")

		gdb, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(gdb); err != nil {
				logrus.WithError(err).Error("failed to close database")
			}
		}()

		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return db.Migrate(cmd.Context(), sqlDB, action, args...)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().String("action", "up", "action up|up-by-one|down|redo|reset|status|version")
}
