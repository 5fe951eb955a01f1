package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// InteractionContext wraps a Discord interaction with the fields handlers
// actually reach for.
type InteractionContext struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate

	UserID    string
	GuildID   string
	ChannelID string
	Member    *discordgo.Member

	// Context for cancellation and values
	Context context.Context

	options map[string]*discordgo.ApplicationCommandInteractionDataOption
	sub     string
}

// NewInteractionContext creates a new InteractionContext from a Discord
// interaction.
func NewInteractionContext(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) *InteractionContext {
	ic := &InteractionContext{
		Session:     s,
		Interaction: i,
		Context:     ctx,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		options:     make(map[string]*discordgo.ApplicationCommandInteractionDataOption),
	}

	if i.Member != nil {
		ic.Member = i.Member
		ic.UserID = i.Member.User.ID
	} else if i.User != nil {
		ic.UserID = i.User.ID
	}

	if ic.IsCommand() {
		ic.parseOptions(i.ApplicationCommandData().Options)
	}

	return ic
}

func (ic *InteractionContext) parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			ic.sub = opt.Name
			ic.parseOptions(opt.Options)
			continue
		}
		ic.options[opt.Name] = opt
	}
}

// IsCommand checks if this is a slash command interaction
func (ic *InteractionContext) IsCommand() bool {
	return ic.Interaction.Type == discordgo.InteractionApplicationCommand
}

// IsComponent checks if this is a message component interaction
func (ic *InteractionContext) IsComponent() bool {
	return ic.Interaction.Type == discordgo.InteractionMessageComponent
}

// IsModal checks if this is a modal submit interaction
func (ic *InteractionContext) IsModal() bool {
	return ic.Interaction.Type == discordgo.InteractionModalSubmit
}

// GetCommandName returns the command name for slash commands
func (ic *InteractionContext) GetCommandName() string {
	if ic.IsCommand() {
		return ic.Interaction.ApplicationCommandData().Name
	}
	return ""
}

// GetSubcommand returns the subcommand name if present
func (ic *InteractionContext) GetSubcommand() string {
	return ic.sub
}

// GetCustomID returns the custom ID for component and modal interactions
func (ic *InteractionContext) GetCustomID() string {
	if ic.IsComponent() {
		return ic.Interaction.MessageComponentData().CustomID
	}
	if ic.IsModal() {
		return ic.Interaction.ModalSubmitData().CustomID
	}
	return ""
}

// GetStringOption returns a slash-command string option or "".
func (ic *InteractionContext) GetStringOption(name string) string {
	if opt, ok := ic.options[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// SelectedValue returns the first selected value of a select-menu
// interaction.
func (ic *InteractionContext) SelectedValue() string {
	if !ic.IsComponent() {
		return ""
	}
	values := ic.Interaction.MessageComponentData().Values
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// MessageID returns the ID of the message the component sits on.
func (ic *InteractionContext) MessageID() string {
	if ic.Interaction.Message != nil {
		return ic.Interaction.Message.ID
	}
	return ""
}

// ModalInput returns the value of a text input in a modal submit.
func (ic *InteractionContext) ModalInput(customID string) string {
	if !ic.IsModal() {
		return ""
	}
	for _, comp := range ic.Interaction.ModalSubmitData().Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

// WithValue adds a value to the context
func (ic *InteractionContext) WithValue(key, val interface{}) {
	ic.Context = context.WithValue(ic.Context, key, val)
}

// Value retrieves a value from the context
func (ic *InteractionContext) Value(key interface{}) interface{} {
	return ic.Context.Value(key)
}
