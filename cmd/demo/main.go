// Command demo drives the relay client against a Chat Completions
// backend from the command line, playing the role of a hosting
// application. In streaming mode it prints deltas as they arrive;
// reasoning deltas are dimmed to tell them apart from answer text.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Decadesice/LightFlow/pkg/api"
	"github.com/Decadesice/LightFlow/pkg/relay"
)

func main() {
	url := flag.String("url", "http://localhost:9090", "Chat Completions backend URL")
	key := flag.String("key", "", "backend API key")
	model := flag.String("model", "mock-model", "model name")
	prompt := flag.String("prompt", "Say hello.", "user prompt")
	reasoning := flag.Bool("reasoning", false, "request reasoning output")
	blocking := flag.Bool("blocking", false, "use blocking mode instead of streaming")
	timeout := flag.Duration("timeout", 120*time.Second, "blocking call timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := relay.New(*url, *key, *timeout)
	defer client.Close()

	messages := []api.Message{
		{Role: "user", Content: api.TextContent(*prompt)},
	}

	if *blocking {
		if err := runBlocking(ctx, client, *model, messages, *reasoning); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := runStreaming(ctx, client, *model, messages, *reasoning); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runBlocking(ctx context.Context, client *relay.Client, model string, messages []api.Message, reasoning bool) error {
	resp, err := client.Complete(ctx, model, messages, reasoning)
	if err != nil {
		return err
	}

	for _, choice := range resp.Choices {
		if rc := choice.Message.ReasoningContent; rc != nil && *rc != "" {
			fmt.Printf("\x1b[2m%s\x1b[0m\n\n", *rc)
		}
		fmt.Println(choice.Message.Content)
	}
	return nil
}

func runStreaming(ctx context.Context, client *relay.Client, model string, messages []api.Message, reasoning bool) error {
	inReasoning := false

	sink := relay.SinkFunc(func(update api.Update) error {
		switch {
		case update.Done:
			if inReasoning {
				fmt.Print("\x1b[0m")
			}
			fmt.Println()
		case update.ReasoningContent != nil && *update.ReasoningContent != "":
			if !inReasoning {
				fmt.Print("\x1b[2m")
				inReasoning = true
			}
			fmt.Print(*update.ReasoningContent)
		case update.Content != nil && *update.Content != "":
			if inReasoning {
				fmt.Print("\x1b[0m\n\n")
				inReasoning = false
			}
			fmt.Print(*update.Content)
		}
		return nil
	})

	return client.Stream(ctx, model, messages, reasoning, sink)
}
