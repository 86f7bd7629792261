package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mariana/devlink-assistant/internal/interview"
	"github.com/mariana/devlink-assistant/internal/kv"
	"github.com/mariana/devlink-assistant/internal/llm"
)

var (
	interviewTopic     string
	interviewQuestions int
	interviewUser      string
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a simulated technical interview in the terminal",
	Long: `Run a question-and-answer interview round on a chosen topic. Each answer
is scored 0-10 with short feedback; the total is printed at the end.`,
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().StringVar(&interviewTopic, "topic", "", "Interview topic (required)")
	interviewCmd.Flags().IntVar(&interviewQuestions, "questions", 0, "Number of questions (default 5)")
	interviewCmd.Flags().StringVar(&interviewUser, "user", "local", "Session owner identifier")
	_ = interviewCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadOptions()
	if err != nil {
		return err
	}
	apiKey, err := requireAPIKey(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	client, err := llm.NewGeminiClient(ctx, apiKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var store kv.Store
	if cfg.RedisURL != "" {
		redisStore, err := kv.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = redisStore.Close() }()
		store = redisStore
	} else {
		store = kv.NewMemory()
	}

	sim := interview.NewSimulator(client)
	session, err := interview.Resume(ctx, interviewUser, sim, store)
	if err != nil {
		return err
	}
	if session != nil {
		fmt.Printf("Resuming your %s interview (%d%% done).\n\n", session.Topic(), session.Progress())
	} else {
		questions := interviewQuestions
		if questions <= 0 {
			questions = cfg.MaxInterviewQuestions
		}
		session = interview.NewSession(interviewUser, interviewTopic, questions, sim, store)
		fmt.Printf("Starting a %s interview, %d questions. Good luck!\n\n", interviewTopic, questions)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for !session.Finished() {
		question, err := session.Ask(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate question: %w", err)
		}
		fmt.Println(question)

		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				fmt.Println("\nSession saved. Run the command again to resume.")
				return scanner.Err()
			}
			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				continue
			}

			eval, err := session.Answer(ctx, answer)
			if err != nil {
				// State is unchanged on failure; the same answer can be resent.
				fmt.Printf("Evaluation failed (%v), try again.\n", err)
				continue
			}
			fmt.Printf("\nScore: %d/10\n%s\n\n", eval.Score, eval.Feedback)
			break
		}
	}

	total, questions := session.Score()
	fmt.Printf("Interview complete! Total score: %d/%d\n", total, questions*10)
	return session.Discard(ctx)
}
