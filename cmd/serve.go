// cmd/serve.go
package cmd

import (
	"github.com/spf13/cobra"

	"equiptrack/app"
	"equiptrack/config"
	"equiptrack/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		a := app.MustNew(cfg)
		defer a.Close()

		routes.RegisterRoutes(a.Router, a)
		return a.Router.Run(":" + cfg.Port)
	},
}
