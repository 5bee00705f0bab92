// dashctl is a terminal dashboard for the prediction API. It renders
// the market snapshot, latest prediction, history and accuracy views,
// and can trigger an analysis run and follow it to completion.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"SolPulse/internal/dashboard"
	xlogger "SolPulse/pkg/logger"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "dashboard API base URL")
	runFlag := flag.Bool("run", false, "trigger a new analysis run and follow it")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	logLevel := flag.String("log-level", "warn", "log level")
	historyLimit := flag.Int("history", 20, "history rows to fetch")
	flag.Parse()

	logger, err := xlogger.New(&xlogger.Config{
		Level:  *logLevel,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := dashboard.NewClient(*apiURL)
	view := newTermView(os.Stdout, !*noColor)
	coord := dashboard.NewCoordinator(client, view, dashboard.RealClock{}, logger,
		dashboard.WithHistoryLimit(*historyLimit))

	coord.Load(ctx)

	if *runFlag {
		coord.Trigger(ctx)
		// Follow the run until it settles or the user interrupts.
		if err := coord.Wait(ctx); err != nil {
			coord.Stop()
			os.Exit(130)
		}
		return
	}

	interact(ctx, coord)
}

// interact reads single-letter commands from stdin. A run already in
// flight on the server keeps being followed in the background.
func interact(ctx context.Context, coord *dashboard.Coordinator) {
	fmt.Println("commands: [t] trigger run  [r] reload  [q] quit")

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			coord.Stop()
			return
		case line, ok := <-lines:
			if !ok {
				coord.Stop()
				return
			}
			switch line {
			case "t":
				coord.Trigger(ctx)
			case "r":
				coord.Load(ctx)
			case "q":
				coord.Stop()
				return
			}
		}
	}
}
