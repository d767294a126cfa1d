package discord

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// ParseID converts a snowflake string to its numeric form.
func ParseID(id string) (uint64, error) {
	v, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse snowflake %q: %w", id, err)
	}
	return v, nil
}

// FormatID converts a numeric snowflake to the string form the API uses.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// DisplayName returns the global display name, falling back to the username.
func DisplayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// AvatarURL returns the CDN url of the user's avatar, or "" when unset.
func AvatarURL(u *discordgo.User) string {
	if u == nil || u.Avatar == "" {
		return ""
	}
	return u.AvatarURL("")
}

// ReplyTo builds a reply to m that does not ping anyone.
func ReplyTo(m *discordgo.Message, content string, embeds ...*discordgo.MessageEmbed) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         content,
		Embeds:          embeds,
		Reference:       m.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}
}
