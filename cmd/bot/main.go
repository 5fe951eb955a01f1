package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/clients/rostersync"
	"github.com/frostveil/rosterbot/internal/config"
	"github.com/frostveil/rosterbot/internal/discord/collab"
	"github.com/frostveil/rosterbot/internal/discord/core"
	"github.com/frostveil/rosterbot/internal/discord/handlers"
	"github.com/frostveil/rosterbot/internal/discord/middleware"
	domainchar "github.com/frostveil/rosterbot/internal/domain/character"
	"github.com/frostveil/rosterbot/internal/repositories/applications"
	"github.com/frostveil/rosterbot/internal/repositories/characters"
	"github.com/frostveil/rosterbot/internal/repositories/roster"
	"github.com/frostveil/rosterbot/internal/repositories/timezones"
	"github.com/frostveil/rosterbot/internal/services"
	"github.com/frostveil/rosterbot/internal/session"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord session")
	}

	providerConfig := &services.ProviderConfig{
		Caps: domainchar.Caps{
			MainSubclasses:   cfg.Roster.MaxSubclasses,
			Alts:             cfg.Roster.MaxAlts,
			SubclassesPerAlt: cfg.Roster.SubclassesPerAlt,
		},
		GatedGuild:    cfg.Roster.GatedGuild,
		VoteThreshold: cfg.Vote.Threshold,
		Sessions: &session.Config{
			TTL:           cfg.Session.TTL,
			SweepInterval: cfg.Session.SweepInterval,
		},
		Logger: log,
	}

	// Redis is preferred; a missing or unreachable Redis falls back to
	// in-memory repositories so the bot still comes up.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, parseErr := redis.ParseURL(cfg.Redis.URL)
		if parseErr != nil {
			log.Warn().Err(parseErr).Msg("failed to parse Redis URL, using in-memory repositories")
		} else {
			redisClient = redis.NewClient(opts)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			pingErr := redisClient.Ping(ctx).Err()
			cancel()

			if pingErr != nil {
				log.Warn().Err(pingErr).Msg("failed to connect to Redis, using in-memory repositories")
				_ = redisClient.Close()
				redisClient = nil
			} else {
				log.Info().Msg("connected to Redis")
				providerConfig.CharacterRepository = characters.NewRedis(redisClient)
				providerConfig.RosterRepository = roster.NewRedis(redisClient)
				providerConfig.TimezoneRepository = timezones.NewRedis(redisClient)
				providerConfig.ApplicationRepository = applications.NewRedis(redisClient)
			}
		}
	} else {
		log.Info().Msg("no REDIS_URL set, using in-memory repositories")
	}

	charRepo := providerConfig.CharacterRepository
	if charRepo == nil {
		charRepo = characters.NewInMemory()
		providerConfig.CharacterRepository = charRepo
	}

	providerConfig.Grants = collab.NewRoleGrants(&collab.RoleGrantsConfig{
		Session:    dg,
		GuildID:    cfg.Discord.GuildID,
		ClassRoles: roleMappings(cfg.Discord.ClassRoles),
		GuildRoles: roleMappings(cfg.Discord.GuildRoles),
		Logger:     log,
	})
	providerConfig.Names = collab.NewDisplayNames(dg, cfg.Discord.GuildID)
	providerConfig.Activity = collab.NewActivityLog(dg, cfg.Discord.ActivityChannelID, log)
	providerConfig.Notifier = collab.NewBallotNotifier(&collab.BallotNotifierConfig{
		Session:    dg,
		ChannelID:  cfg.Discord.BallotChannelID,
		Characters: charRepo,
		Logger:     log,
	}, handlers.BallotDomain)
	providerConfig.Admins = collab.NewAdminChecker(dg, cfg.Discord.GuildID, cfg.Discord.AdminRoleID)
	providerConfig.Sync = rostersync.New(&rostersync.Config{
		BaseURL: cfg.Sync.URL,
		Logger:  log,
	})

	provider := services.NewProvider(providerConfig)
	defer provider.Stop()

	pipeline := core.NewPipeline(log)
	pipeline.Use(
		middleware.Recovery(log),
		middleware.Logging(log),
		middleware.RequireGuild(cfg.Discord.GuildID),
	)

	rosterHandler := handlers.NewRosterHandler(&handlers.RosterHandlerConfig{
		CharacterService:   provider.CharacterService,
		ApplicationService: provider.ApplicationService,
		Logger:             log,
	})
	rosterHandler.RegisterRoutes(pipeline)

	ballotHandler := handlers.NewBallotHandler(&handlers.BallotHandlerConfig{
		ApplicationService: provider.ApplicationService,
		Logger:             log,
	})
	ballotHandler.RegisterRoutes(pipeline)

	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if err := pipeline.Execute(context.Background(), s, i); err != nil {
			log.Error().Err(err).Msg("failed to handle interaction")
		}
	})

	if err := dg.Open(); err != nil {
		log.Fatal().Err(err).Msg("failed to open Discord connection")
	}
	defer func() {
		if err := dg.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close Discord connection")
		}
	}()

	if err := handlers.RegisterCommands(dg, cfg.Discord.AppID, cfg.Discord.GuildID); err != nil {
		log.Fatal().Err(err).Msg("failed to register commands")
	}
	log.Info().Str("guild_id", cfg.Discord.GuildID).Msg("commands registered")

	// Pending applications survive restarts in the repository; repost
	// their ballots so the buttons work again.
	if err := provider.ApplicationService.Restore(context.Background()); err != nil {
		log.Warn().Err(err).Msg("failed to restore pending ballots")
	}

	log.Info().Msg("bot is running, press CTRL-C to exit")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info().Msg("shutting down")

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close Redis connection")
		}
	}
}

func roleMappings(m map[string]string) []collab.RoleMapping {
	mappings := make([]collab.RoleMapping, 0, len(m))
	for name, roleID := range m {
		mappings = append(mappings, collab.RoleMapping{Name: name, RoleID: roleID})
	}
	return mappings
}
