package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/damsole-chat/server/internal/agent/dialogue"
	errx "github.com/damsole-chat/server/internal/core/error"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the chatbot in the terminal",
	Long: `Starts a local conversation against the same dialogue engine the server uses.
Sessions stay in memory. Type "exit" or press Ctrl-D to quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "cli", "Session identity used for the conversation")
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg, appOptions{forceMemory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if _, err := a.engine.Handle(ctx, chatSessionID, dialogue.ResetSentinel); err != nil {
		return err
	}
	fmt.Fprintln(out, "bot> "+dialogue.GreetingReply)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}

		reply, err := a.engine.Handle(ctx, chatSessionID, line)
		if err != nil {
			fmt.Fprintln(out, "bot> "+errx.MessageOf(err))
			continue
		}
		fmt.Fprintln(out, "bot> "+reply.Text)
		if reply.ShowSuggestions {
			for _, s := range reply.Suggestions {
				fmt.Fprintln(out, "     - "+s)
			}
		}
	}
}
