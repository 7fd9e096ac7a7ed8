// cmd/syncfix.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equiptrack/config"
	"equiptrack/services"
	"equiptrack/store"
)

// syncfix 清掉过期的物品级审批覆盖，让部门默认值重新生效
var syncfixCmd = &cobra.Command{
	Use:   "syncfix",
	Short: "Re-apply department approval defaults over item overrides",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		svc := services.New(st, nil, logger, nil, nil)
		n, err := svc.SyncApprovalPolicies(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("synced approval policy for %d departments\n", n)
		return nil
	},
}
