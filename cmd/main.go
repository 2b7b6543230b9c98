package main

import (
	"bufio"
	"chat-mock/internal"
	"chat-mock/runtime"
	"chat-mock/runtime/workers"
	"chat-mock/seed"
	"chat-mock/services"
	"chat-mock/sink"
	"chat-mock/ui"
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the store, its workers and the terminal shell, then reads commands
// from stdin until quit, EOF or a signal. Returning instead of exiting lets the
// deferred shutdown run.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	seedValue := config.SeedValue(time.Now())
	rng := rand.New(rand.NewSource(seedValue))
	clock := runtime.SystemClock{}

	// 2. Mock data
	localUser := seed.LocalUser()
	chats := seed.NewGenerator(rng, clock.Now()).Chats(config.ExtraChats)
	log.Info("Chats seeded", "count", len(chats), "seed", seedValue)

	// 3. Store, supervision & sinks
	presenter := ui.NewPresenter(os.Stdout, localUser, clock, true)
	orchestrator := runtime.NewOrchestrator(
		log,
		workers.NewSupervisor(log, config.RestartInterval),
		runtime.NewRegistry(),
		clock,
		runtime.NewRandomTrigger(rng, config.ReplyProbability),
		localUser,
		chats,
		config.BufferSize,
		config.ReplyDelay,
		config.SinkTimeout,
	)
	orchestrator.Add(sink.NewNotificationSink(presenter, log))
	orchestrator.Monitor(config.MetricInterval, config.LowCapacity)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = orchestrator.Start(ctx)
	}()
	defer func() {
		orchestrator.Stop()
		<-done
		log.Info("Program stopped cleanly")
	}()

	// 5. Shell
	service := services.NewChatService(
		log, orchestrator.Store(), presenter, orchestrator, orchestrator.Timeline(), config.IsNarrow)
	if _, err := service.Handle(ctx, "list"); err != nil {
		return err
	}
	presenter.Printf("Type help for commands.\n")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down gracefully...")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := service.Handle(ctx, line)
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			if quit {
				return nil
			}
		}
	}
}
