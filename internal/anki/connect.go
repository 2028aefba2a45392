package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal/logging"
)

const (
	// DefaultConnectURL is where the AnkiConnect add-on listens
	DefaultConnectURL = "http://localhost:8765"

	ankiConnectVersion = 6
	connectTimeout     = 30 * time.Second
)

// ConnectClient talks to the AnkiConnect add-on. Connection failures trip a
// circuit breaker so a closed Anki fails fast instead of timing out on
// every remaining note.
type ConnectClient struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

type connectRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type connectResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// NewConnectClient creates a client for the AnkiConnect endpoint at url
func NewConnectClient(url string, timeout time.Duration, logger *zap.Logger) *ConnectClient {
	if url == "" {
		url = DefaultConnectURL
	}
	if timeout <= 0 {
		timeout = connectTimeout
	}
	logger = logging.OrNop(logger)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ankiconnect",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A rejected note proves Anki is up
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrSinkUnreachable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &ConnectClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// Version returns the AnkiConnect API version
func (c *ConnectClient) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// Ping checks that AnkiConnect answers
func (c *ConnectClient) Ping(ctx context.Context) error {
	version, err := c.Version(ctx)
	if err != nil {
		return err
	}
	c.logger.Debug("AnkiConnect reachable", zap.String("url", c.url), zap.Int("version", version))
	return nil
}

// DeckNames lists all decks
func (c *ConnectClient) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// CreateDeck implements Sink. AnkiConnect normally returns the id of an
// existing deck; an "already exists" error is treated the same way.
func (c *ConnectClient) CreateDeck(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.invoke(ctx, "createDeck", map[string]string{"deck": name}, &id)
	if err != nil {
		if errors.Is(err, ErrItemRejected) && strings.Contains(strings.ToLower(err.Error()), "already exists") {
			c.logger.Info("Using existing deck", zap.String("deck", name))
			return 0, nil
		}
		return 0, err
	}
	return id, nil
}

// AddNote implements Sink
func (c *ConnectClient) AddNote(ctx context.Context, note Note) (int64, error) {
	var id *int64
	if err := c.invoke(ctx, "addNote", map[string]Note{"note": note}, &id); err != nil {
		return 0, err
	}
	if id == nil {
		return 0, fmt.Errorf("%w: note %q was not added", ErrItemRejected, note.Front())
	}
	return *id, nil
}

// invoke performs one action through the circuit breaker
func (c *ConnectClient) invoke(ctx context.Context, action string, params, result any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, action, params, result)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %w", ErrSinkUnreachable, c.url, err)
	}
	return err
}

func (c *ConnectClient) do(ctx context.Context, action string, params, result any) error {
	body, err := json.Marshal(connectRequest{
		Action:  action,
		Version: ankiConnectVersion,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSinkUnreachable, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status code: %d", ErrSinkUnreachable, action, resp.StatusCode)
	}

	var decoded connectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("%w: %s: failed to decode response: %w", ErrSinkUnreachable, action, err)
	}
	if decoded.Error != nil {
		return fmt.Errorf("%w: %s: %s", ErrItemRejected, action, *decoded.Error)
	}

	if result != nil && len(decoded.Result) > 0 {
		if err := json.Unmarshal(decoded.Result, result); err != nil {
			return fmt.Errorf("%s: failed to decode result: %w", action, err)
		}
	}
	return nil
}
