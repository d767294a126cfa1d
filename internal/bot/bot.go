// Package bot turns inbound chat messages into scan replies.
package bot

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"

	"solana-scan-bot/internal/discord"
	"solana-scan-bot/internal/observability"
	"solana-scan-bot/internal/presenter"
	"solana-scan-bot/internal/providers"
	"solana-scan-bot/internal/scanner"
)

// PingCommand is answered with "pong".
const PingCommand = "!test"

// Scanner runs a scan for an extracted identifier.
type Scanner interface {
	Scan(ctx context.Context, req scanner.Request) (presenter.Message, error)
}

// Sender posts messages to a channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
}

// Handler processes MESSAGE_CREATE events.
type Handler struct {
	selfID  string
	scanner Scanner
	sender  Sender
}

// NewHandler creates a Handler. Messages authored by selfID are ignored.
func NewHandler(selfID string, s Scanner, sender Sender) *Handler {
	return &Handler{selfID: selfID, scanner: s, sender: sender}
}

// Run handles every message from msgs on its own goroutine until msgs is
// closed or ctx is done, then waits for in-flight handlers.
func (h *Handler) Run(ctx context.Context, msgs <-chan *discordgo.Message) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.Handle(ctx, m)
			}()
		}
	}
}

// Handle processes a single message. Failures are logged, never replied.
func (h *Handler) Handle(ctx context.Context, m *discordgo.Message) {
	if m.Author == nil || m.Author.ID == h.selfID {
		return
	}

	ctx, _ = observability.WithRequestID(ctx)
	logger := observability.Logger(ctx)

	if m.GuildID == "" {
		logger.Debug().Str("channel_id", m.ChannelID).Msg("message without guild ignored")
		return
	}

	if m.Content == PingCommand {
		h.reply(ctx, m, discord.ReplyTo(m, "pong"))
		return
	}

	id, ok := ExtractIdentifier(m.Content)
	if !ok {
		return
	}

	guildID, err := discord.ParseID(m.GuildID)
	if err != nil {
		logger.Warn().Err(err).Msg("bad guild id")
		return
	}
	userID, err := discord.ParseID(m.Author.ID)
	if err != nil {
		logger.Warn().Err(err).Msg("bad author id")
		return
	}

	msg, err := h.scanner.Scan(ctx, scanner.Request{
		Identifier: id,
		GuildID:    guildID,
		UserID:     userID,
		Author: presenter.Author{
			ID:          userID,
			DisplayName: discord.DisplayName(m.Author),
			AvatarURL:   discord.AvatarURL(m.Author),
		},
	})
	if err != nil {
		ev := logger.Error()
		if isUnknownToken(err) {
			ev = logger.Info()
		}
		ev.Err(err).Str("identifier", id.String()).Msg("scan failed")
		return
	}

	h.reply(ctx, m, discord.ReplyTo(m, msg.Content, ToEmbed(msg.Embed)))
}

// isUnknownToken reports whether the scan failed only because no provider
// knows the token.
func isUnknownToken(err error) bool {
	var noPair *providers.ActivePairNotFoundError
	return providers.IsKind(err, providers.KindNotFound) || errors.As(err, &noPair)
}

func (h *Handler) reply(ctx context.Context, m *discordgo.Message, send *discordgo.MessageSend) {
	if _, err := h.sender.SendMessage(ctx, m.ChannelID, send); err != nil {
		observability.Logger(ctx).Error().Err(err).Str("channel_id", m.ChannelID).Msg("send reply failed")
	}
}

// ToEmbed converts a rendered panel to its Discord form.
func ToEmbed(e presenter.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if e.Thumbnail != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
	}
	if e.FooterText != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.FooterText, IconURL: e.FooterIcon}
	}
	return out
}
