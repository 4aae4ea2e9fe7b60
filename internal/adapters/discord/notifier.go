// Package discord delivers notifications to per-channel Discord webhooks.
// Sends are queued onto a background dispatcher so a slow webhook never
// blocks a financial operation.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vitaops/vita/internal/core/domain"
	"github.com/vitaops/vita/internal/core/ports"
)

const (
	requestTimeout = 15 * time.Second
	queueSize      = 256
	// Discord rejects message content above this length.
	maxContentLength = 2000
)

type message struct {
	webhookURL string
	content    string
}

// Notifier posts messages to Discord webhooks, one URL per channel.
// Channels without a configured URL are dropped silently.
type Notifier struct {
	http     *resty.Client
	webhooks map[domain.Channel]string
	queue    chan message
	done     chan struct{}
	logger   *slog.Logger
}

// NewNotifier creates the notifier and starts its dispatcher goroutine.
// Call Close to flush and stop it.
func NewNotifier(webhooks map[domain.Channel]string, logger *slog.Logger) *Notifier {
	n := &Notifier{
		http:     resty.New().SetTimeout(requestTimeout),
		webhooks: webhooks,
		queue:    make(chan message, queueSize),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go n.dispatch()
	return n
}

var _ ports.Notifier = (*Notifier)(nil)

// Send enqueues a message for delivery. It returns an error only when the
// queue is full; enqueueing never blocks.
func (n *Notifier) Send(_ context.Context, channel domain.Channel, content string) error {
	webhookURL, ok := n.webhooks[channel]
	if !ok || webhookURL == "" {
		return nil
	}

	for _, chunk := range splitContent(content) {
		select {
		case n.queue <- message{webhookURL: webhookURL, content: chunk}:
		default:
			return fmt.Errorf("notification queue full, dropping message for channel %q", channel)
		}
	}
	return nil
}

// Close stops accepting messages, flushes the queue, and waits for the
// dispatcher to exit.
func (n *Notifier) Close() {
	close(n.queue)
	<-n.done
}

func (n *Notifier) dispatch() {
	defer close(n.done)
	for msg := range n.queue {
		n.deliver(msg)
	}
}

func (n *Notifier) deliver(msg message) {
	resp, err := n.http.R().
		SetBody(map[string]string{"content": msg.content}).
		Post(msg.webhookURL)
	if err != nil {
		n.logger.Warn("Failed to deliver Discord notification", slog.String("error", err.Error()))
		return
	}
	if resp.IsError() {
		n.logger.Warn("Discord webhook rejected notification",
			slog.String("status", resp.Status()),
			slog.String("body", resp.String()))
	}
}

// splitContent breaks a message on line boundaries so every chunk fits the
// Discord content limit.
func splitContent(content string) []string {
	if len(content) <= maxContentLength {
		return []string{content}
	}

	var chunks []string
	for len(content) > maxContentLength {
		cut := maxContentLength
		for i := maxContentLength; i > 0; i-- {
			if content[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, content[:cut])
		content = content[cut:]
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}
