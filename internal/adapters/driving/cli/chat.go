package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docchat-io/docchat/internal/adapters/driving/tui"
)

var (
	chatUser    string
	chatSession int64
	chatTopK    int
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the document in an interactive terminal session",
	Long: `Launches the interactive terminal chat. Answers stream in as they
are generated.

Controls:
  Enter   - Send the question
  Ctrl+C  - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "local", "owner of the conversation")
	chatCmd.Flags().Int64VarP(&chatSession, "session", "s", 0, "session to continue (0 starts a new one)")
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", 0, "passages to retrieve (0 uses the configured default)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery so terminal state is not left broken without a trace.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.retrieval.Prepare(cmd.Context()); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	model := tui.New(a.chat, chatUser, chatTopK, chatSession)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	if m, ok := final.(tui.Model); ok && m.SessionID() != 0 {
		cmd.Printf("Continue with: docchat chat --session %d\n", m.SessionID())
	}
	return nil
}
