// Package discord connects the bot to Discord through discordgo: a gateway
// session that delivers MESSAGE_CREATE events and the few REST calls the bot
// needs.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"solana-scan-bot/internal/observability"
)

// Intents is the intent set sent in IDENTIFY. Message content is privileged
// and must be enabled for the application.
const Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

var errClosed = errors.New("discord client closed")

// fatalCloseCodes are gateway close codes after which reconnecting cannot
// succeed without operator action.
var fatalCloseCodes = map[int]string{
	4004: "authentication failed",
	4010: "invalid shard",
	4011: "sharding required",
	4012: "invalid api version",
	4013: "invalid intents",
	4014: "disallowed intents",
}

// IsFatal reports whether err means the session can never be established
// with the current token and intents.
func IsFatal(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		_, ok := fatalCloseCodes[closeErr.Code]
		return ok
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusUnauthorized
	}
	return false
}

// Config configures gateway connection behavior.
type Config struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// Timeout bounds a single REST request.
	Timeout time.Duration
	// Buffer is the capacity of the message channel.
	Buffer int
}

// DefaultConfig returns default connection configuration.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		Timeout:           10 * time.Second,
		Buffer:            256,
	}
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient sets the http.Client used for REST calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.session.Client = client
	}
}

// Client owns one discordgo session.
type Client struct {
	session *discordgo.Session
	config  Config

	messages     chan *discordgo.Message
	disconnected chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
}

var loggerOnce sync.Once

// New creates a client for a bot token. Call Run to connect.
func New(token string, config *Config, opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}

	loggerOnce.Do(func() { discordgo.Logger = logBridge })

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	session.ShouldReconnectOnError = false
	session.StateEnabled = false
	session.SyncEvents = true
	session.LogLevel = discordgo.LogWarning
	session.Client.Timeout = cfg.Timeout

	c := &Client{
		session:      session,
		config:       cfg,
		messages:     make(chan *discordgo.Message, cfg.Buffer),
		disconnected: make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	session.AddHandler(c.onEvent)
	session.AddHandler(c.onReady)
	session.AddHandler(c.onMessageCreate)
	session.AddHandler(c.onDisconnect)
	return c, nil
}

// Messages returns the channel of received messages. It is never closed;
// stop reading when Run returns.
func (c *Client) Messages() <-chan *discordgo.Message {
	return c.messages
}

// Run opens the gateway and keeps it open, reconnecting with exponential
// backoff, until ctx is cancelled or Close is called. A fatal close code or
// an unauthorized token ends Run with that error.
func (c *Client) Run(ctx context.Context) error {
	delay := c.config.ReconnectDelay
	for {
		err := c.open()
		if err == nil {
			delay = c.config.ReconnectDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.done:
				return nil
			case <-c.disconnected:
			}
		} else if IsFatal(err) {
			log.Error().Err(err).Msg("gateway rejected the session")
			return fmt.Errorf("gateway: %w", err)
		}

		if c.isClosed() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Warn().Err(err).Dur("delay", delay).Msg("gateway session ended, reconnecting")
		observability.RecordGatewayReconnect()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case <-time.After(delay):
		}

		// Exponential backoff
		delay *= 2
		if delay > c.config.MaxReconnectDelay {
			delay = c.config.MaxReconnectDelay
		}
	}
}

func (c *Client) open() error {
	select {
	case <-c.disconnected:
	default:
	}
	if c.isClosed() {
		return errClosed
	}

	err := c.session.Open()
	if errors.Is(err, discordgo.ErrWSAlreadyOpen) {
		return nil
	}
	if err != nil {
		return err
	}

	// Close may have run while Open held the session lock.
	if c.isClosed() {
		c.session.Close()
		return errClosed
	}
	return nil
}

// Close stops the client. It is safe to call more than once and
// concurrently with Run.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.session.Close()
	})
	return err
}

func (c *Client) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// CurrentUser returns the bot's own user.
func (c *Client) CurrentUser(ctx context.Context) (*discordgo.User, error) {
	u, err := c.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return u, nil
}

// DisplayName resolves a user id to its display name.
func (c *Client) DisplayName(ctx context.Context, userID uint64) (string, error) {
	id := FormatID(userID)
	u, err := c.session.User(id, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("get user %s: %w", id, err)
	}
	return DisplayName(u), nil
}

// SendMessage posts a message to a channel.
func (c *Client) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	m, err := c.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("create message in %s: %w", channelID, err)
	}
	return m, nil
}

func (c *Client) onEvent(_ *discordgo.Session, e *discordgo.Event) {
	if e.Type != "" {
		observability.RecordGatewayEvent(e.Type)
	}
}

func (c *Client) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	ev := log.Info().Str("session_id", r.SessionID)
	if r.User != nil {
		ev = ev.Str("user", r.User.Username)
	}
	ev.Msg("gateway ready")
}

func (c *Client) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Message == nil {
		return
	}
	select {
	case c.messages <- m.Message:
	case <-c.done:
	}
}

func (c *Client) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	select {
	case c.disconnected <- struct{}{}:
	default:
	}
}

func logBridge(level, _ int, format string, a ...interface{}) {
	switch level {
	case discordgo.LogError:
		log.Error().Str("component", "discordgo").Msgf(format, a...)
	case discordgo.LogWarning:
		log.Warn().Str("component", "discordgo").Msgf(format, a...)
	case discordgo.LogInformational:
		log.Info().Str("component", "discordgo").Msgf(format, a...)
	default:
		log.Debug().Str("component", "discordgo").Msgf(format, a...)
	}
}
