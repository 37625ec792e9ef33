package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/TanushriS/IntelliQRHelp/internal/notify"
)

var sosCmd = &cobra.Command{
	Use:   "sos",
	Short: "SOS notifications",
}

var sosSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send the SOS message to the configured chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := partialConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		if err := notify.NewTelegramNotifier(cfg.SOS, log).SendSOS(ctx); err != nil {
			if errors.Is(err, notify.ErrNotConfigured) {
				return err
			}
			return errors.New(notify.UserMessage(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "SOS notification sent")
		return nil
	},
}

func init() {
	sosCmd.AddCommand(sosSendCmd)
	rootCmd.AddCommand(sosCmd)
}

