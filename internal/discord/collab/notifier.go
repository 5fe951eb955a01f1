package collab

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/frostveil/rosterbot/internal/discord/builders"
	"github.com/frostveil/rosterbot/internal/discord/core"
	"github.com/frostveil/rosterbot/internal/domain/application"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	"github.com/frostveil/rosterbot/internal/repositories/characters"
)

// BallotNotifier renders guild-application ballots in the moderator
// channel: an embed with the applicant's character plus vote and override
// buttons.
type BallotNotifier struct {
	session   *discordgo.Session
	channelID string
	chars     characters.Repository
	ids       *core.CustomIDBuilder
	log       zerolog.Logger
}

// BallotNotifierConfig holds the notifier's dependencies.
type BallotNotifierConfig struct {
	Session    *discordgo.Session
	ChannelID  string
	Characters characters.Repository
	Logger     zerolog.Logger
}

// NewBallotNotifier creates a Discord-backed ballot notifier. BallotDomain
// must match the handler that serves the buttons.
func NewBallotNotifier(cfg *BallotNotifierConfig, ballotDomain string) *BallotNotifier {
	if cfg == nil || cfg.Session == nil {
		panic("discord session is required")
	}
	if cfg.Characters == nil {
		panic("character repository is required")
	}
	return &BallotNotifier{
		session:   cfg.Session,
		channelID: cfg.ChannelID,
		chars:     cfg.Characters,
		ids:       core.NewCustomIDBuilder(ballotDomain),
		log:       cfg.Logger,
	}
}

func (n *BallotNotifier) PostBallot(ctx context.Context, app *application.Application) (string, string, error) {
	if n.channelID == "" {
		return "", "", rosterr.FailedPrecondition("no ballot channel configured")
	}

	embed, components := n.render(ctx, app)
	msg, err := n.session.ChannelMessageSendComplex(n.channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to post ballot: %w", err)
	}
	return n.channelID, msg.ID, nil
}

func (n *BallotNotifier) UpdateBallot(ctx context.Context, app *application.Application) error {
	embed, components := n.render(ctx, app)
	_, err := n.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    app.ChannelID,
		ID:         app.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to edit ballot: %w", err)
	}
	return nil
}

func (n *BallotNotifier) CloseBallot(ctx context.Context, app *application.Application) error {
	embed := n.outcomeEmbed(ctx, app)
	empty := []discordgo.MessageComponent{}
	_, err := n.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    app.ChannelID,
		ID:         app.MessageID,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &empty,
	})
	if err != nil {
		return fmt.Errorf("failed to close ballot: %w", err)
	}
	return nil
}

func (n *BallotNotifier) DeleteBallot(_ context.Context, channelID, messageID string) error {
	err := n.session.ChannelMessageDelete(channelID, messageID)
	if err == nil || isNotFound(err) {
		return nil
	}
	return fmt.Errorf("failed to delete ballot: %w", err)
}

func (n *BallotNotifier) render(ctx context.Context, app *application.Application) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	eb := builders.NewEmbed().
		Title(fmt.Sprintf("Guild application: %s", app.Guild)).
		Color(builders.ColorWarning).
		Description(fmt.Sprintf("<@%s> wants to join **%s**.", app.UserID, app.Guild)).
		Field("Accept", fmt.Sprintf("%d", len(app.AcceptVoters)), true).
		Field("Deny", fmt.Sprintf("%d", len(app.DenyVoters)), true)

	if char, err := n.chars.Get(ctx, app.CharacterID); err == nil {
		eb.Field("Character",
			fmt.Sprintf("%s — %s / %s (%s)", char.Name, char.Class, char.Subclass, char.ScoreBracket),
			false)
	} else {
		n.log.Warn().Err(err).Str("application_id", app.ID).Msg("ballot character lookup failed")
	}

	components := builders.NewComponentBuilder(n.ids).
		SuccessButton("Accept", "vote", string(application.SideAccept)).
		DangerButton("Deny", "vote", string(application.SideDeny)).
		SecondaryButton("Withdraw vote", "retract", "x").
		NewRow().
		PrimaryButton("Override: approve", "override", "approve").
		SecondaryButton("Override: deny", "override", "deny").
		Build()

	return eb.Build(), components
}

func (n *BallotNotifier) outcomeEmbed(ctx context.Context, app *application.Application) *discordgo.MessageEmbed {
	verdict := "denied"
	color := builders.ColorError
	if app.Status == application.StatusApproved {
		verdict = "approved"
		color = builders.ColorSuccess
	}

	how := fmt.Sprintf("by vote (%d accept / %d deny)", len(app.AcceptVoters), len(app.DenyVoters))
	if app.ResolvedBy != "" {
		how = fmt.Sprintf("by <@%s>", app.ResolvedBy)
	}

	eb := builders.NewEmbed().
		Title(fmt.Sprintf("Guild application %s", verdict)).
		Color(color).
		Description(fmt.Sprintf("<@%s>'s application to **%s** was %s %s.", app.UserID, app.Guild, verdict, how))

	if char, err := n.chars.Get(ctx, app.CharacterID); err == nil {
		eb.Field("Character", char.Name, true)
	}
	return eb.Build()
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
