package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/pergola"
	"github.com/aretw0/pergola/internal/logging"
	"github.com/aretw0/pergola/internal/presentation/graph"
	"github.com/aretw0/pergola/internal/presentation/tui"
	"github.com/aretw0/pergola/pkg/adapters/memory"
	"github.com/aretw0/pergola/pkg/domain"
	"github.com/aretw0/pergola/pkg/fetch"
)

// WalkOptions contains all the configuration for the walk command.
type WalkOptions struct {
	StartURL   string
	ConfigPath string
	Debug      bool
}

// RunWalk starts an interactive session that walks a site through the
// engine: fetch the start page, boot, then navigate on user input.
func RunWalk(opts WalkOptions) error {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	level := cfg.Level()
	if opts.Debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	browser := memory.NewBrowser(opts.StartURL)
	engineOpts, cleanup, err := cfg.Options(browser, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.Debug {
		engineOpts = append(engineOpts, pergola.WithLifecycleHooks(DebugHooks(logger)))
	}
	if len(cfg.Transitions) > 0 {
		engineOpts = append(engineOpts, pergola.WithTransitions(cfg.BuildTransitions(nil, nil)...))
	}

	engine, err := pergola.New(engineOpts...)
	if err != nil {
		return fmt.Errorf("error initializing engine: %w", err)
	}
	defer engine.Destroy()

	ctx := context.Background()

	clientOpts := []fetch.Option{fetch.WithLogger(logger)}
	if d := cfg.Timeout(); d > 0 {
		clientOpts = append(clientOpts, fetch.WithTimeout(d))
	}
	client := fetch.New(clientOpts...)
	markup, err := client.Fetch(ctx, opts.StartURL)
	if err != nil {
		return fmt.Errorf("error fetching start page: %w", err)
	}
	if err := engine.Boot(ctx, markup); err != nil {
		return fmt.Errorf("error booting engine: %w", err)
	}

	tui.PrintBanner()
	render := tui.NewRenderer()
	printPage(render, engine.CurrentPage())

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		input := strings.TrimSpace(line)

		switch {
		case input == "":
			continue
		case input == "exit" || input == "quit":
			fmt.Println("Bye!")
			return nil
		case input == "history":
			for _, entry := range engine.History() {
				fmt.Printf("  %d  %s  (%s)\n", entry.Index, entry.URL, entry.Namespace)
			}
		case input == "graph":
			fmt.Print(graph.GenerateMermaid(engine.Transitions(), nil))
		case strings.HasPrefix(input, "prefetch "):
			url := strings.TrimSpace(strings.TrimPrefix(input, "prefetch "))
			if err := engine.Prefetch(ctx, url); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case input == "help":
			fmt.Println("Commands: <url> | prefetch <url> | history | graph | exit")
		default:
			if err := engine.Navigate(ctx, input, domain.ScriptTrigger); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			printPage(render, engine.CurrentPage())
		}
	}
}

func printPage(render func(string) (string, error), page *domain.Page) {
	if page == nil {
		return
	}
	md := fmt.Sprintf("# %s\n\n- URL: `%s`\n- Namespace: `%s`\n",
		page.Title, page.URL, page.Namespace)
	out, err := render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
