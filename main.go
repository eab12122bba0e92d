package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	logx "github.com/damsole-chat/server/pkg/logger"
)

var (
	envFile string
	cfg     AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "damsole-chat",
	Short: "Damsole support and lead-capture chatbot",
	Long: `Damsole support chatbot.

It answers questions about the business and, once a visitor wants something
built, collects their contact and project details and hands them to the team.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(envFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logx.Init(logx.LoggerOpts{Environment: cfg.Env(), Level: cfg.LogLevel})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file to load")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(leadsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
