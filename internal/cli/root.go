// Package cli wires the cobra command tree and assembles the
// application from configuration.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docchat/internal/logger"
	"docchat/internal/tui"
)

var (
	cfgPath     string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your PDF documents",
	Long: `docchat ingests PDF documents into named profiles and answers
questions grounded in their content using a local Ollama backend.
Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default: ./config.yaml, then ~/.config/docchat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func runChat(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(verboseFlag)
	sess, cleanup, err := buildSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := tea.NewProgram(tui.New(sess), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running chat: %w", err)
	}
	return nil
}
