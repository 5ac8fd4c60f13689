package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/faideww/fishing-tweaks/internal/fish"
	"github.com/faideww/fishing-tweaks/internal/ratelimit"
	"github.com/faideww/fishing-tweaks/internal/store"
)

type module struct {
	s          *discordgo.Session
	appId      string
	scopeGuild string
	playerId   string
	catalog    *fish.Catalog
	store      store.Store
	thresholds fish.Thresholds
	lim        *ratelimit.Limiter[ratelimit.Member]
	logger     *slog.Logger
}

// responder is the part of *discordgo.Session that answers interactions.
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

type Options struct {
	AppId      string
	ScopeGuild string
	PlayerId   string
	Thresholds fish.Thresholds
}

func Setup(
	session *discordgo.Session,
	opts Options,
	catalog *fish.Catalog,
	st store.Store,
	lim *ratelimit.Limiter[ratelimit.Member],
	logger *slog.Logger,
) (func(), error) {
	m := &module{
		s:          session,
		appId:      opts.AppId,
		scopeGuild: opts.ScopeGuild,
		playerId:   opts.PlayerId,
		catalog:    catalog,
		store:      st,
		thresholds: opts.Thresholds,
		lim:        lim,
		logger:     logger,
	}

	created, err := session.ApplicationCommandBulkOverwrite(m.appId, m.scopeGuild, commandDefs())
	if err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	for _, c := range created {
		logger.Info("command active", "name", c.Name, "description", c.Description)
	}

	remove := session.AddHandler(m.onInteraction)

	return remove, nil
}

func (m *module) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "catches":
		m.handleCatches(s, i)
	case "familiar":
		m.handleFamiliar(s, i)
	}
}

// begin applies the per-user cooldown and defers the response. It returns
// false when the interaction has already been answered.
func (m *module) begin(s responder, i *discordgo.InteractionCreate) bool {
	if ok, rem := m.lim.Try(ratelimit.Member{GuildId: i.GuildID, UserId: userId(i)}); !ok {
		if err := respondEphemeral(s, i, fmt.Sprintf("⏳ Counting fish… try again in %s.", pretty(rem))); err != nil {
			m.logREST("cooldown response failed", err)
		}
		return false
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		m.logREST("defer response failed", err)
		return false
	}
	return true
}

func (m *module) loadStats(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (*fish.Statistics, bool) {
	stats, err := fish.LoadStatistics(ctx, m.store, m.playerId)
	if err != nil {
		m.logger.Error("failed to load statistics", "player", m.playerId, "error", err)
		m.editResponseText(s, i, "Error loading catch records.")
		return nil, false
	}
	return stats, true
}

func (m *module) handleCatches(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.begin(s, i) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, ok := m.loadStats(ctx, s, i)
	if !ok {
		return
	}

	kind, filtered := optionString(i, "fish")
	if filtered {
		k := fish.Kind(kind)
		if stats.Record(k).IsZero() {
			m.editResponseText(s, i, m.unknownText(kind))
			return
		}
		embed := &discordgo.MessageEmbed{
			Title:       "🎣 Catch record",
			Description: catchDetail(m.catalog, k, stats.Record(k)),
			Color:       ColorForTier(TierFor(stats, k, m.thresholds)),
		}
		if sp, ok := m.catalog.Get(k); ok && sp.Image != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: sp.Image}
		}
		if evs, err := m.store.RecentEvents(ctx, m.playerId, k, 1); err == nil && len(evs) > 0 {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: "Last recorded " + evs[0].RecordedAt.Format(time.DateTime)}
		}
		m.editEmbed(s, i, embed)
		return
	}

	desc := catchList(m.catalog, stats)
	if desc == "" {
		m.editResponseText(s, i, "No catches recorded yet.")
		return
	}

	m.editEmbed(s, i, &discordgo.MessageEmbed{
		Title:       "🎣 Catch records",
		Description: desc,
		Color:       0x3498DB,
	})
}

func (m *module) handleFamiliar(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !m.begin(s, i) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, ok := m.loadStats(ctx, s, i)
	if !ok {
		return
	}

	key, _ := optionString(i, "fish")
	k := fish.Kind(key)
	if _, known := m.catalog.Get(k); !known && stats.Record(k).IsZero() {
		m.editResponseText(s, i, m.unknownText(key))
		return
	}

	tier := TierFor(stats, k, m.thresholds)
	m.editEmbed(s, i, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s · %s", m.catalog.NameOf(k), tier.String()),
		Description: familiarText(m.catalog, stats, k, m.thresholds),
		Color:       ColorForTier(tier),
	})
}

func (m *module) unknownText(key string) string {
	if k, ok := m.catalog.Suggest(key); ok {
		return fmt.Sprintf("No records for '%s'. Did you mean '%s'?", key, k)
	}
	return fmt.Sprintf("No records for '%s'.", key)
}

func (m *module) editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		m.logREST("edit failed", err)
	}
}

func (m *module) logREST(msg string, err error) {
	if rerr, ok := err.(*discordgo.RESTError); ok && rerr.Message != nil {
		m.logger.Error(msg, "code", rerr.Message.Code, "msg", rerr.Message.Message)
	} else {
		m.logger.Error(msg, "error", err)
	}
}

func optionString(i *discordgo.InteractionCreate, name string) (string, bool) {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue(), true
		}
	}
	return "", false
}

func userId(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respondEphemeral(s responder, i *discordgo.InteractionCreate, msg string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (m *module) editResponseText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		m.logREST("edit failed", err)
	}
}

func pretty(d time.Duration) string {
	// mm:ss
	if d < 0 {
		d = 0
	}
	m := int(d / time.Minute)
	s := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%d:%02d", m, s)
}
