package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docchat-io/docchat/internal/core/domain"
)

var (
	askUser    string
	askSession int64
	askTopK    int
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Long: `Runs one blocking chat exchange against the indexed document and
prints the full answer. The exchange is persisted, so a follow-up with
--session continues the same conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", "local", "owner of the conversation")
	askCmd.Flags().Int64VarP(&askSession, "session", "s", 0, "session to continue (0 starts a new one)")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "passages to retrieve (0 uses the configured default)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print the retrieved passages after the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := a.retrieval.Prepare(ctx); err != nil {
		return fmt.Errorf("preparing index: %w", err)
	}

	reply, err := a.chat.Ask(ctx, domain.ChatRequest{
		Owner:     askUser,
		Question:  args[0],
		SessionID: askSession,
		TopK:      askTopK,
	})
	if err != nil {
		return err
	}

	cmd.Println(reply.Reply)
	if askSources && len(reply.SourcesUsed) > 0 {
		cmd.Println()
		for i, src := range reply.SourcesUsed {
			cmd.Printf("[%d] %s\n", i+1, src)
		}
	}
	cmd.Printf("\n(session %d)\n", reply.SessionID)
	return nil
}
