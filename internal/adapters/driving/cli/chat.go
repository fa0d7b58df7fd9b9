package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
)

var (
	chatUser        string
	chatSession     string
	chatRole        string
	chatPreferences string
	chatActivity    string
	chatJSON        bool
	chatTrace       bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [query]",
	Short: "Ask a question",
	Long: `Answers a question by routing it to the best-matching knowledge corpus
and generating a response grounded in the retrieved evidence. Questions
with no matching corpus are answered from persona and chat memory alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "user ID scoping chat memory")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "session ID grouping the conversation")
	chatCmd.Flags().StringVar(&chatRole, "role", "", "persona role override")
	chatCmd.Flags().StringVar(&chatPreferences, "preferences", "", "persona preferences override")
	chatCmd.Flags().StringVar(&chatActivity, "activity", "", "persona activity override")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output the result as JSON")
	chatCmd.Flags().BoolVar(&chatTrace, "trace", false, "print the routing trace")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	service, err := requireChat()
	if err != nil {
		return err
	}

	req := driving.AnswerRequest{
		Query:     args[0],
		UserID:    chatUser,
		SessionID: chatSession,
		Persona: domain.Persona{
			Role:        chatRole,
			Preferences: chatPreferences,
			Activity:    chatActivity,
		},
	}

	result, err := service.Answer(context.Background(), req)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if chatJSON {
		return outputChatJSON(cmd, result)
	}

	cmd.Println(result.Response)

	if chatTrace {
		cmd.Println()
		printTrace(cmd, result)
	}

	return nil
}

func outputChatJSON(cmd *cobra.Command, result driving.AnswerResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printTrace(cmd *cobra.Command, result driving.AnswerResult) {
	trace := result.Trace
	cmd.Println("Trace:")
	cmd.Printf("  Session: %s\n", result.SessionID)
	if trace.Routing.Fallback {
		cmd.Printf("  Route: fallback (best score %.2f)\n", trace.Routing.Confidence)
	} else {
		cmd.Printf("  Route: %s (%.2f)\n", trace.Routing.Corpus, trace.Routing.Confidence)
	}
	cmd.Printf("  Evidence: %d chunks, %d memory turns\n", trace.EvidenceCount, trace.HistoryCount)
	if trace.Truncated {
		cmd.Println("  Context was truncated to budget")
	}
	cmd.Printf("  Elapsed: %s\n", trace.Elapsed)
}
