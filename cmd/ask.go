package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AddisenK/ai-assistant/pkg/assistant"
	"github.com/AddisenK/ai-assistant/pkg/config"
)

var questionText string

// askCmd sends one question, or starts an interactive loop, against the
// configured assistant backend.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question or start an interactive chat",
	Run: func(cmd *cobra.Command, args []string) {
		question := resolveQuestion(args)

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		client, err := assistant.New(cfg.Assistant)
		if err != nil {
			fmt.Printf("failed to initialize assistant: %v\n", err)
			return
		}

		ctx := context.Background()
		if question != "" {
			runSingleQuestion(ctx, client, question)
			return
		}

		runInteractive(ctx, client)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&questionText, "question", "q", "", "question text to send")
}

func resolveQuestion(args []string) string {
	if value := strings.TrimSpace(questionText); value != "" {
		return value
	}

	return strings.TrimSpace(strings.Join(args, " "))
}

func runSingleQuestion(ctx context.Context, client assistant.Client, question string) {
	reply, err := client.Ask(ctx, question, "")
	if err != nil {
		fmt.Printf("ask failed: %v\n", err)
		return
	}

	fmt.Println(reply)
}

func runInteractive(ctx context.Context, client assistant.Client) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Printf("input error: %v\n", err)
			}
			return
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isExitCommand(question) {
			return
		}

		reply, err := client.Ask(ctx, question, "")
		if err != nil {
			fmt.Printf("ask failed: %v\n", err)
			continue
		}

		fmt.Println(reply)
		fmt.Println()
	}
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit":
		return true
	default:
		return false
	}
}
