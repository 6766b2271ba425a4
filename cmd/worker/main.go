// Command worker runs a Temporal worker hosting the contract analysis
// workflow and activities.
package main

import (
	"flag"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	"github.com/ahrav/contract-iq/internal/routing"
	"github.com/ahrav/contract-iq/internal/worker"
	"github.com/ahrav/contract-iq/internal/workflow"
	"github.com/ahrav/contract-iq/pkg/events"
)

func main() {
	var (
		temporalAddr = flag.String("temporal", client.DefaultHostPort, "Temporal server address")
		configPath   = flag.String("config", "", "optional YAML config file")
		useStub      = flag.Bool("stub", false, "route all agents to the deterministic stub provider")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := configuration.DefaultConfig()
	if *configPath != "" {
		loaded, err := configuration.LoadFile(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	llmClient, err := worker.InitializeLLMClient(cfg)
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}

	table := routing.DefaultTable()
	if *useStub {
		table = routing.StubTable()
	}

	c, err := client.Dial(client.Options{HostPort: *temporalAddr})
	if err != nil {
		logger.Error("failed to connect to Temporal", "address", *temporalAddr, "error", err)
		os.Exit(1)
	}
	defer c.Close()

	w := sdkworker.New(c, workflow.TaskQueue, sdkworker.Options{})
	worker.RegisterAll(w, llmClient, table, events.NewNoOpEventSink())

	logger.Info("worker starting", "task_queue", workflow.TaskQueue)
	if err := w.Run(sdkworker.InterruptCh()); err != nil {
		logger.Error("worker exited", "error", err)
		os.Exit(1)
	}
}
