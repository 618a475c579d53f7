package main

import (
	"fmt"
	"os"

	"alliedparts/internal/config"
	"alliedparts/internal/logger"
	"alliedparts/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	loadConfig := func() (*config.Config, error) {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		cfg, err := config.Load(files...)
		if err != nil {
			return nil, err
		}
		logger.InitLogger(os.Stderr, logger.ParseLevel(cfg.LogLevel))
		return cfg, nil
	}

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return server.Run(cmd.Context(), cfg)
	}

	root := &cobra.Command{
		Use:           "alliedparts",
		Short:         "Allied Parts e-commerce API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  serve,
	})

	root.AddCommand(&cobra.Command{
		Use:   "make-admin [uid]",
		Short: "Grant the admin role to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			res, err := server.PromoteToAdmin(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return fmt.Errorf("user %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", args[0])
			return nil
		},
	})

	return root
}
