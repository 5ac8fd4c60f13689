package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/faideww/fishing-tweaks/internal/bot"
	"github.com/faideww/fishing-tweaks/internal/fish"
	"github.com/faideww/fishing-tweaks/internal/ratelimit"
	"github.com/faideww/fishing-tweaks/internal/store"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger := NewLogger(parseLevel(config.LogLevel))

	catalog, err := fish.LoadCatalogFromJSON(config.CatalogJson)
	if err != nil {
		log.Fatal("failed to load catalog: ", err)
	}

	st, err := store.OpenSQLite(config.DBPath)
	if err != nil {
		log.Fatal("failed to open store: ", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	stats, err := fish.LoadStatistics(ctx, st, config.PlayerId)
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("catch records loaded", "player", config.PlayerId, "fish", stats.Len(), "catalog", catalog.Count())

	session, err := discordgo.New("Bot " + config.DiscordToken)
	if err != nil {
		log.Fatal("failed to start session: ", err)
	}

	if err := session.Open(); err != nil {
		log.Fatal("failed to open session connection: ", err)
	}
	defer session.Close()

	lim := ratelimit.NewLimiter[ratelimit.Member](
		time.Duration(config.CooldownStatsMin)*time.Second,
		time.Duration(config.CooldownStatsMax)*time.Second,
		nil,
	)
	teardown, err := bot.Setup(session, bot.Options{
		AppId:      session.State.User.ID,
		ScopeGuild: config.DevGuild,
		PlayerId:   config.PlayerId,
		Thresholds: config.Thresholds(),
	}, catalog, st, lim, logger)
	if err != nil {
		log.Fatal("failed to setup bot: ", err)
	}
	defer teardown()

	logger.Info("bot is running")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}
