package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rohankumardubey/scidb/config"
	"github.com/rohankumardubey/scidb/libs/log"
	"github.com/rohankumardubey/scidb/network"
)

func main() {
	var (
		configFile string
		listenAddr string
		instanceID uint64
		peerAddrs  []string
		jsonLogs   bool
	)

	cmd := &cobra.Command{
		Use:   "scidbnet",
		Short: "Run the internode messaging daemon",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger := log.NewLogger(os.Stderr)
			if jsonLogs {
				logger = log.NewJSONLogger(os.Stderr)
			}

			cfg, err := config.LoadNetworkConfig(configFile)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddress = listenAddr
			}
			if err := cfg.ValidateBasic(); err != nil {
				return err
			}

			mgr := network.NewManager(cfg, network.InstanceID(instanceID),
				network.PrometheusMetrics("scidb"))
			mgr.SetLogger(logger.With("module", "network"))
			if err := mgr.Start(); err != nil {
				return err
			}
			defer func() { _ = mgr.Stop() }()

			// Peers are given as id@host:port.
			for _, p := range peerAddrs {
				var id uint64
				var addr string
				if _, err := fmt.Sscanf(p, "%d@%s", &id, &addr); err != nil {
					return fmt.Errorf("bad peer %q (want id@host:port): %w", p, err)
				}
				host, port, err := network.HostPort(addr)
				if err != nil {
					return err
				}
				if err := mgr.RegisterPeer(network.InstanceID(id), host, port); err != nil {
					return err
				}
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			logger.Info("Shutting down", "signal", sig)
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a TOML network config")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	cmd.Flags().Uint64Var(&instanceID, "instance-id", 0, "this instance's id")
	cmd.Flags().StringSliceVar(&peerAddrs, "peer", nil, "peer as id@host:port (repeatable)")
	cmd.Flags().BoolVar(&jsonLogs, "log-json", false, "emit JSON logs")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
