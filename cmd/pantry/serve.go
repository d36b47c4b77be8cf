package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pantryrpc "pantry/rpc"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions and matches over pantryrpc",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.v.BindPFlag(cfgKeyAddr, cmd.Flags().Lookup("addr")); err != nil {
				return err
			}
			addr := a.v.GetString(cfgKeyAddr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var lc net.ListenConfig
			ln, err := lc.Listen(ctx, "tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			a.logger.Info("serving pantryrpc",
				zap.String("addr", ln.Addr().String()),
				zap.Stringer("policy", a.conv.Policy()))

			srv := pantryrpc.NewServer(pantryrpc.NewHandler(a.conv, a.logger), a.logger)
			if err := srv.Serve(ctx, ln); err != nil {
				return err
			}
			a.logger.Info("shutting down")
			return nil
		},
	}
	cmd.Flags().String("addr", defaultAddr, "listen address")
	return cmd
}
