package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mariana/devlink-assistant/internal/conversation"
	"github.com/mariana/devlink-assistant/internal/draft"
	"github.com/mariana/devlink-assistant/internal/kv"
	"github.com/mariana/devlink-assistant/internal/preview"
	"github.com/mariana/devlink-assistant/internal/schemas"
	"github.com/mariana/devlink-assistant/internal/transcript"
	"github.com/mariana/devlink-assistant/internal/types"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Build a resume in an interactive terminal conversation",
	Long: `Run the guided resume conversation in the terminal. Progress is saved
as a draft after each answer, so an interrupted session resumes where it
left off. The finished resume is printed as Markdown.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatUser, "user", "local", "Draft owner identifier")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadOptions()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()

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

	drafts := draft.NewStore(store)
	saver := draft.NewSaver(drafts, cfg.DraftDebounce(), logger)
	defer saver.Close()

	state, record, log, err := openConversation(ctx, drafts)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for !state.Terminal() {
		fmt.Print("> ")
		if !scanner.Scan() {
			// EOF leaves the debounced draft behind for next time.
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		log.AppendMessage(transcript.RoleUser, input)
		result, err := conversation.Advance(state, record, input)
		if err != nil {
			var unknown *conversation.ErrUnknownSubStep
			if !errors.As(err, &unknown) {
				return err
			}
			logger.Warn().Err(err).Msg("conversation position recovered")
		}
		reply := log.AppendMessage(transcript.RoleAssistant, result.Reply)
		state, record = result.State.WithActiveQuestion(reply.ID), result.Record

		fmt.Println(result.Reply)
		saver.Schedule(chatUser, draft.Draft{
			State:      state,
			Record:     record,
			Transcript: log.All(),
			Progress:   conversation.Progress(state),
		})
	}

	// The record is complete; persist once more and print the result.
	saver.Flush()
	if err := schemas.ValidateResume(record); err != nil {
		logger.Warn().Err(err).Msg("finished record failed validation")
	}
	fmt.Println()
	fmt.Println(preview.Render(record))
	return drafts.Discard(ctx, chatUser)
}

// openConversation resumes an unfinished draft or starts fresh, printing the
// appropriate opening line either way.
func openConversation(ctx context.Context, drafts *draft.Store) (conversation.State, types.ConversationRecord, *transcript.Log, error) {
	d, err := drafts.Load(ctx, chatUser)
	if err != nil {
		return conversation.State{}, types.ConversationRecord{}, nil, err
	}
	if d != nil && d.Resumable() {
		fmt.Printf("Welcome back! Resuming your draft (%d%% done).\n", d.Progress)
		fmt.Println(conversation.Prompt(d.State))
		return d.State, d.Record, transcript.Restore(d.Transcript), nil
	}

	state := conversation.NewState()
	log := transcript.NewLog()
	opening := log.AppendMessage(transcript.RoleAssistant, conversation.Prompt(state))
	fmt.Println(opening.Text)
	return state.WithActiveQuestion(opening.ID), types.ConversationRecord{}, log, nil
}
