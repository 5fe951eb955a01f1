package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Commands returns the slash command definitions the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        RosterDomain,
			Description: "Manage your guild roster characters",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "register",
					Description: "Register a new character",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "kind",
							Description: "Main or alt character",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Main", Value: "main"},
								{Name: "Alt", Value: "alt"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "profile",
					Description: "Show your registered characters",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "edit",
					Description: "Edit one of your characters",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a character or your whole roster",
				},
			},
		},
	}
}

// RegisterCommands creates the slash commands, scoped to a guild when
// guildID is set.
func RegisterCommands(session *discordgo.Session, appID, guildID string) error {
	for _, cmd := range Commands() {
		if _, err := session.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
			return fmt.Errorf("failed to register command %q: %w", cmd.Name, err)
		}
	}
	return nil
}
