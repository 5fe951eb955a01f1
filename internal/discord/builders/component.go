package builders

import (
	"github.com/bwmarrin/discordgo"

	"github.com/frostveil/rosterbot/internal/discord/core"
)

// ComponentBuilder builds Discord message components, packing buttons and
// select menus into action rows of at most five components.
type ComponentBuilder struct {
	rows            []discordgo.MessageComponent
	currentRow      []discordgo.MessageComponent
	customIDBuilder *core.CustomIDBuilder
}

// NewComponentBuilder creates a new component builder for a domain
func NewComponentBuilder(customIDBuilder *core.CustomIDBuilder) *ComponentBuilder {
	return &ComponentBuilder{
		rows:            make([]discordgo.MessageComponent, 0),
		currentRow:      make([]discordgo.MessageComponent, 0, 5),
		customIDBuilder: customIDBuilder,
	}
}

// Button adds a button to the current row
func (b *ComponentBuilder) Button(label string, style discordgo.ButtonStyle, action string, args ...string) *ComponentBuilder {
	id := b.customIDBuilder.Build(action)
	if len(args) > 0 {
		id.WithTarget(args[0]).WithArgs(args[1:]...)
	}

	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: id.MustEncode(),
	})
	return b
}

// DisabledButton adds a disabled button
func (b *ComponentBuilder) DisabledButton(label string, style discordgo.ButtonStyle) *ComponentBuilder {
	b.addComponent(discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: "disabled",
		Disabled: true,
	})
	return b
}

// SelectOption represents an option in a select menu
type SelectOption struct {
	Label       string
	Value       string
	Description string
	Default     bool
}

// SelectMenu adds a single-choice select menu
func (b *ComponentBuilder) SelectMenu(placeholder, action string, options []SelectOption) *ComponentBuilder {
	return b.SelectMenuWithTarget(placeholder, action, "", options)
}

// SelectMenuWithTarget adds a select menu whose custom ID carries a target
func (b *ComponentBuilder) SelectMenuWithTarget(placeholder, action, target string, options []SelectOption) *ComponentBuilder {
	id := b.customIDBuilder.Build(action)
	if target != "" {
		id.WithTarget(target)
	}

	discordOptions := make([]discordgo.SelectMenuOption, len(options))
	for i, opt := range options {
		discordOptions[i] = discordgo.SelectMenuOption{
			Label:       opt.Label,
			Value:       opt.Value,
			Description: opt.Description,
			Default:     opt.Default,
		}
	}

	b.NewRow()
	b.addComponent(discordgo.SelectMenu{
		CustomID:    id.MustEncode(),
		Placeholder: placeholder,
		Options:     discordOptions,
	})
	b.NewRow()
	return b
}

// NewRow starts a new action row
func (b *ComponentBuilder) NewRow() *ComponentBuilder {
	if len(b.currentRow) > 0 {
		b.rows = append(b.rows, discordgo.ActionsRow{Components: b.currentRow})
		b.currentRow = make([]discordgo.MessageComponent, 0, 5)
	}
	return b
}

// Build returns the built components
func (b *ComponentBuilder) Build() []discordgo.MessageComponent {
	b.NewRow()
	return b.rows
}

func (b *ComponentBuilder) addComponent(component discordgo.MessageComponent) {
	if len(b.currentRow) >= 5 {
		b.NewRow()
	}
	b.currentRow = append(b.currentRow, component)
}

// Common button style helpers
func (b *ComponentBuilder) PrimaryButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.PrimaryButton, action, args...)
}

func (b *ComponentBuilder) SecondaryButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.SecondaryButton, action, args...)
}

func (b *ComponentBuilder) SuccessButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.SuccessButton, action, args...)
}

func (b *ComponentBuilder) DangerButton(label, action string, args ...string) *ComponentBuilder {
	return b.Button(label, discordgo.DangerButton, action, args...)
}

// ConfirmationButtons adds Yes/No confirmation buttons
func (b *ComponentBuilder) ConfirmationButtons(confirmAction, cancelAction, targetID string) *ComponentBuilder {
	b.SuccessButton("Yes", confirmAction, targetID)
	b.DangerButton("No", cancelAction, targetID)
	return b
}

// TextInputRow wraps a modal text input in its own action row.
func TextInputRow(customID, label, placeholder string, required bool, maxLength int) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    customID,
				Label:       label,
				Placeholder: placeholder,
				Style:       discordgo.TextInputShort,
				Required:    required,
				MaxLength:   maxLength,
			},
		},
	}
}
