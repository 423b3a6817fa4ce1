package nostrlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"golang.org/x/sync/errgroup"

	"opencourier/internal/pkg/metrics"
)

// DefaultQueryTimeout bounds every relay round trip. Relays that do not
// answer in time simply contribute nothing to the result set.
const DefaultQueryTimeout = 5 * time.Second

// ErrAllRelaysFailed is returned from a write when no relay accepted the
// event. Reads never return it; they degrade to whatever subset answered.
var ErrAllRelaysFailed = errors.New("no relay accepted the event")

// Client maintains connections to the configured relays and owns the system
// signing key. Connections are dialed lazily and reused.
type Client struct {
	relayURLs    []string
	secretKey    string
	queryTimeout time.Duration
	logger       *slog.Logger

	mu     sync.Mutex
	relays map[string]*nostr.Relay
}

// NewClient creates a relay client. An empty secretKey generates a fresh
// one, which is enough for a single-operator deployment where events are
// only verified against the operator's own key.
func NewClient(relayURLs []string, secretKey string, queryTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	if len(relayURLs) == 0 {
		return nil, errors.New("at least one relay URL is required")
	}
	if secretKey == "" {
		secretKey = nostr.GeneratePrivateKey()
	}
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}

	return &Client{
		relayURLs:    relayURLs,
		secretKey:    secretKey,
		queryTimeout: queryTimeout,
		logger:       logger,
		relays:       make(map[string]*nostr.Relay),
	}, nil
}

func (c *Client) relay(ctx context.Context, url string) (*nostr.Relay, error) {
	c.mu.Lock()
	if relay, ok := c.relays[url]; ok && relay.IsConnected() {
		c.mu.Unlock()
		return relay, nil
	}
	c.mu.Unlock()

	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", url, err)
	}

	c.mu.Lock()
	c.relays[url] = relay
	c.mu.Unlock()
	return relay, nil
}

// QueryAll sends the filter to every relay, merges the responses and
// deduplicates them by event id. Relay failures are logged and skipped; an
// empty result with no reachable relay is indistinguishable from an empty
// log, which is the degraded-read behavior the callers expect.
func (c *Client) QueryAll(ctx context.Context, filter nostr.Filter) []*nostr.Event {
	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	var mu sync.Mutex
	seen := make(map[string]*nostr.Event)

	g, ctx := errgroup.WithContext(ctx)
	for _, url := range c.relayURLs {
		g.Go(func() error {
			relay, err := c.relay(ctx, url)
			if err != nil {
				c.logger.Warn("relay unreachable", "relay", url, "error", err)
				return nil
			}

			events, err := relay.QuerySync(ctx, filter)
			if err != nil {
				c.logger.Warn("relay query failed", "relay", url, "error", err)
				return nil
			}

			mu.Lock()
			for _, event := range events {
				seen[event.ID] = event
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]*nostr.Event, 0, len(seen))
	for _, event := range seen {
		merged = append(merged, event)
	}
	return merged
}

// Publish signs the event and sends it to every relay. The write succeeds
// when at least one relay accepts it; replication to the rest is best
// effort.
func (c *Client) Publish(ctx context.Context, event *nostr.Event) error {
	if err := event.Sign(c.secretKey); err != nil {
		return fmt.Errorf("signing event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.queryTimeout)
	defer cancel()

	var accepted int
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, url := range c.relayURLs {
		g.Go(func() error {
			relay, err := c.relay(ctx, url)
			if err != nil {
				c.logger.Warn("relay unreachable", "relay", url, "error", err)
				return nil
			}
			if err := relay.Publish(ctx, *event); err != nil {
				c.logger.Warn("relay rejected event", "relay", url, "kind", event.Kind, "error", err)
				return nil
			}

			mu.Lock()
			accepted++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if accepted == 0 {
		metrics.PublishFailuresTotal.Inc()
		return ErrAllRelaysFailed
	}

	metrics.EventsPublishedTotal.Inc()
	return nil
}
