// Command urlcheck submits one URL to a running analyzer server and prints what
// the form page would show.
// Usage: go run ./cmd/urlcheck -url example.com [-backend http://127.0.0.1:8000]
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/raysh454/urlanalyzer/internal/cli"
	"github.com/raysh454/urlanalyzer/internal/formctl"
	"github.com/raysh454/urlanalyzer/internal/logging"
	"github.com/raysh454/urlanalyzer/internal/webclient"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "urlcheck: %v\n", err)
		fmt.Fprintln(os.Stderr, "usage: urlcheck -url <url> [-backend <base url>] [-serialize]")
		os.Exit(2)
	}
	logger := logging.NewLogger(os.Stderr, "urlcheck", logging.DebugEnabled(os.Getenv("DEVELOPMENT_ENV")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	wc, err := webclient.NewWebClient(webclient.Config{Client: webclient.ClientNetHTTP}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "urlcheck: %v\n", err)
		os.Exit(1)
	}
	defer wc.Close()

	transport, err := formctl.NewHTTPTransport(wc, args.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "urlcheck: %v\n", err)
		os.Exit(1)
	}
	cfg := formctl.DefaultConfig()
	cfg.SerializeSubmissions = args.Serialize
	view := formctl.NewTextRenderer(os.Stdout, args.URL)
	ctl, err := formctl.NewController(cfg, transport, view, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "urlcheck: %v\n", err)
		os.Exit(1)
	}

	in := bufio.NewReader(os.Stdin)
	outcome := ctl.Submit(ctx)
	for outcome == formctl.OutcomePending && ctx.Err() == nil {
		fmt.Print("Retry? [y/N] ")
		line, _ := in.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(line), "y") {
			break
		}
		outcome = ctl.Retry(ctx)
	}

	switch outcome {
	case formctl.OutcomeSuccess:
	case formctl.OutcomePending:
		os.Exit(3)
	default:
		os.Exit(1)
	}
}
