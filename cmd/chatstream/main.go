// Command chatstream is a terminal chat client for configurable chat
// endpoints. It streams assistant replies into the transcript as they
// decode, supporting SSE, concatenated-JSON, and plain text response
// bodies.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/cecil-the-coder/chat-stream-kit/pkg/chat"
	"github.com/cecil-the-coder/chat-stream-kit/pkg/config"
	httpkit "github.com/cecil-the-coder/chat-stream-kit/pkg/http"
	"github.com/cecil-the-coder/chat-stream-kit/pkg/ratelimit"
	"github.com/cecil-the-coder/chat-stream-kit/pkg/streaming"
)

var (
	flagConfig   string
	flagEndpoint string
	flagStream   string
	flagBearer   string
)

var rootCmd = &cobra.Command{
	Use:   "chatstream",
	Short: "Chat with a streaming chat endpoint from the terminal",
	Long: `chatstream talks to a configurable chat completion endpoint and
renders assistant replies incrementally as the response streams in.`,
	RunE:          runChat,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file")
	rootCmd.Flags().StringVarP(&flagEndpoint, "endpoint", "e", "", "chat endpoint URL (overrides config)")
	rootCmd.Flags().StringVarP(&flagStream, "stream", "s", "", "streaming mode: none, sse, or auto (overrides config)")
	rootCmd.Flags().StringVar(&flagBearer, "token", "", "bearer token for the endpoint (overrides config)")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("chatstream failed")
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagEndpoint != "" {
		cfg.Endpoint.URL = flagEndpoint
	}
	if flagStream != "" {
		cfg.Stream = streaming.StreamMode(flagStream)
	}
	if flagBearer != "" {
		cfg.Endpoint.BearerToken = flagBearer
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	client := httpkit.NewClient(httpkit.ClientConfig{
		Headers:        cfg.Endpoint.Headers,
		BearerToken:    cfg.Endpoint.BearerToken,
		RequestTimeout: time.Duration(cfg.Endpoint.TimeoutSeconds) * time.Second,
	})

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		})
	}

	session := chat.NewSession(cfg, client, limiter, log.Logger)

	program := tea.NewProgram(newChatModel(session, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat UI: %w", err)
	}
	return nil
}
