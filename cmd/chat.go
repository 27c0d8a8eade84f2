package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bububa/instructor-go/pkg/instructor"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/medassist/medichat/agents"
	"github.com/medassist/medichat/agents/orchestrator"
	"github.com/medassist/medichat/components/systemprompt/house"
	"github.com/medassist/medichat/config"
	"github.com/medassist/medichat/schema"
	"github.com/medassist/medichat/session"
	"github.com/medassist/medichat/tools"
	"github.com/medassist/medichat/tools/retrieval"
	"github.com/medassist/medichat/tools/websearch"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	openaiCfg := openai.DefaultConfig(cfg.Model.APIKey)
	openaiCfg.BaseURL = cfg.Model.BaseURL
	chatClient := openai.NewClientWithConfig(openaiCfg)
	instructorClient := instructor.FromOpenAI(chatClient,
		instructor.WithMode(instructor.ModeJSON),
		instructor.WithMaxRetries(3),
		instructor.WithValidation(),
	)

	genaiClient, err := newGenAIClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create search client: %w", err)
	}
	defer genaiClient.Close()

	emb, err := newEmbedder(cfg, genaiClient)
	if err != nil {
		return err
	}
	engine, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	storeCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Store)
	err = ensureStore(storeCtx, cfg, engine)
	cancel()
	if err != nil {
		return err
	}

	synthesizer := agents.NewAgent[schema.String, retrieval.Output](
		agents.WithClient(instructorClient),
		agents.WithModel(cfg.Model.ID),
		agents.WithTemperature(0.2),
		agents.WithSystemPromptGenerator(house.New()),
		agents.WithName("retrieval-synthesizer"),
	)

	hooks := toolHooks(cfg.Model.TracingDisabled)
	retrievalTool := retrieval.New(emb, engine, synthesizer, hooks...).
		Configure(
			retrieval.WithCollection(cfg.Store.Collection),
			retrieval.WithTopK(cfg.Store.TopK),
		)
	searchTool := websearch.New(
		websearch.NewGenerativeModel(genaiClient, cfg.Search.ID),
		hooks...,
	)

	orc := orchestrator.New(
		orchestrator.WithClient(chatClient),
		orchestrator.WithModel(cfg.Model.ID),
		orchestrator.WithTools(retrievalTool, searchTool),
		orchestrator.WithName("medichat"),
	)

	sess := session.New(orc, session.WithLogger(logger))
	defer sess.Close()

	fmt.Println("medichat ready. Type a question, or \"exit\" to quit.")
	fmt.Println("Suggestions:")
	for _, s := range session.Starters() {
		fmt.Printf("  [%s] %s\n", s.Label, s.Message)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		msgCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Generate)
		reply, err := sess.OnMessage(msgCtx, line)
		cancel()
		if err != nil {
			fmt.Printf("assistant> Sorry, something went wrong: %v\n", err)
			continue
		}
		fmt.Printf("assistant> %s\n", reply)
	}
	return scanner.Err()
}

// toolHooks logs tool dispatch at debug level and failures at warn. With
// tracing disabled only failures are logged.
func toolHooks(tracingDisabled bool) []tools.Option {
	hooks := []tools.Option{
		tools.WithErrorHook(func(ctx context.Context, name, arguments string, err error) {
			logger.Warn("tool failed", slog.String("tool", name), slog.Any("error", err))
		}),
	}
	if tracingDisabled {
		return hooks
	}
	return append(hooks,
		tools.WithStartHook(func(ctx context.Context, name, arguments string) {
			logger.Debug("tool call", slog.String("tool", name), slog.String("arguments", arguments))
		}),
		tools.WithEndHook(func(ctx context.Context, name, arguments, result string) {
			logger.Debug("tool result", slog.String("tool", name), slog.Int("size", len(result)))
		}),
	)
}
