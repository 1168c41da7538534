package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alfredjeanlab/loom/internal/events"
	"github.com/alfredjeanlab/loom/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch [topic-pattern]",
	Short:   "Tail live events from the server",
	GroupID: "system",
	Long: `Watch tails mutation events as they happen. The optional topic pattern
uses NATS-style wildcards ('*' matches one segment, '>' matches the rest),
for example "loom.task.*" or "loom.>". The default watches everything.

When a NATS URL is configured (--nats, LOOM_NATS_URL, or the active
remote), events arrive over NATS; otherwise the server's SSE stream is
used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := "loom.>"
		if len(args) == 1 {
			topic = args[0]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("LOOM_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}

		if natsURL != "" {
			return watchNATS(ctx, natsURL, topic)
		}
		return watchSSE(ctx, topic)
	},
}

// watchNATS subscribes directly to the NATS subject and prints each event.
func watchNATS(ctx context.Context, natsURL, topic string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			printWatchEvent(topic, data)
		}
	}
}

// watchSSE consumes the server's SSE endpoint, reconnecting with
// Last-Event-ID after a dropped connection so no events are missed.
func watchSSE(ctx context.Context, topic string) error {
	lastEventID := ""
	for {
		err := streamSSEOnce(ctx, topic, &lastEventID)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Printf("sse: stream error, reconnecting: %v", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func streamSSEOnce(ctx context.Context, topic string, lastEventID *string) error {
	q := url.Values{}
	if topic != "" {
		q.Set("topics", topic)
	}
	streamURL := strings.TrimSuffix(serverURL, "/") + "/v1/events/stream?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return err
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	if *lastEventID != "" {
		req.Header.Set("Last-Event-ID", *lastEventID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var eventTopic string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "id:"):
			*lastEventID = sseFieldValue(line, "id:")
		case strings.HasPrefix(line, "event:"):
			eventTopic = sseFieldValue(line, "event:")
		case strings.HasPrefix(line, "data:"):
			printWatchEvent(eventTopic, []byte(sseFieldValue(line, "data:")))
		case line == "":
			eventTopic = ""
		}
	}
	return scanner.Err()
}

// sseFieldValue strips the field prefix and the optional space after the
// colon that some SSE servers emit.
func sseFieldValue(line, prefix string) string {
	return strings.TrimPrefix(strings.TrimPrefix(line, prefix), " ")
}

func printWatchEvent(topic string, data []byte) {
	ts := ui.RenderMuted(time.Now().Format("15:04:05"))
	if jsonOutput {
		fmt.Printf("%s\n", data)
		return
	}
	fmt.Printf("%s  %s  %s\n", ts, ui.RenderAccent(topic), data)
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS URL for event-driven watching")
}
