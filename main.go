// Command careerbot asks the reply cascade a single question from the
// command line, e.g. `go run . "how do I prepare for an interview?"`.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/RichardoC/careerbot/internal/config"
	"github.com/RichardoC/careerbot/internal/llm"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: careerbot <question>")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	service := llm.NewService(
		llm.NewProvider(ctx, cfg, logger),
		logger,
		llm.WithTimeout(cfg.ProviderTimeout),
	)

	fmt.Println(service.GenerateReply(ctx, strings.Join(os.Args[1:], " ")))
}
