package character

import (
	"context"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	"github.com/frostveil/rosterbot/internal/gamedata"
	"github.com/frostveil/rosterbot/internal/interfaces"
)

// Field identifies which character attribute an edit targets.
type Field string

const (
	FieldName    Field = "name"
	FieldUID     Field = "uid"
	FieldClass   Field = "class"
	FieldBracket Field = "bracket"
	FieldGuild   Field = "guild"
	FieldRoster  Field = "roster"
)

// ValidField reports whether f is an editable field.
func ValidField(f Field) bool {
	switch f {
	case FieldName, FieldUID, FieldClass, FieldBracket, FieldGuild, FieldRoster:
		return true
	}
	return false
}

// EditStep is the edit flow's position.
type EditStep string

const (
	EditStepTarget EditStep = "target"
	EditStepField  EditStep = "field"
	EditStepValue  EditStep = "value"
	// EditStepSubclass re-selects the subclass after a class change.
	EditStepSubclass EditStep = "subclass"
	// EditStepTier picks a tier after a roster item was chosen.
	EditStepTier EditStep = "tier"
	EditStepDone EditStep = "done"
)

// EditState is the edit flow's session payload.
type EditState struct {
	Step        EditStep
	CharacterID string
	Field       Field

	// PendingClass holds the accepted class while the subclass
	// re-selection is outstanding; nothing is written until both land.
	PendingClass string

	// Item is the roster item picked when editing the battle roster.
	Item string
}

// EditPrompt describes the edit UI to render next.
type EditPrompt struct {
	Step    EditStep
	Field   Field
	Options []string

	// Characters populates the target picker at EditStepTarget.
	Characters []*character.Character

	// NeedsModal marks name and UID edits, which collect text input.
	NeedsModal bool
}

// EditOutcome reports a committed edit.
type EditOutcome struct {
	Character *character.Character
	Field     Field
}

func (s *service) StartEdit(ctx context.Context, userID string) (*EditPrompt, error) {
	chars, err := s.chars.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, rosterr.NotFound("you have no registered characters")
	}

	s.edits.Set(userID, EditState{Step: EditStepTarget})

	return &EditPrompt{Step: EditStepTarget, Characters: chars}, nil
}

func (s *service) ChooseEditTarget(ctx context.Context, userID, characterID string) (*EditPrompt, error) {
	st, ok := s.edits.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no edit in progress")
	}
	if st.Step != EditStepTarget {
		return nil, rosterr.FailedPrecondition("an edit target was already chosen")
	}

	char, err := s.chars.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if char.OwnerID != userID {
		return nil, rosterr.PermissionDenied("that character belongs to someone else")
	}

	st.CharacterID = characterID
	st.Step = EditStepField
	s.edits.Set(userID, st)

	return &EditPrompt{Step: EditStepField, Options: editableFieldNames(char)}, nil
}

func (s *service) ChooseEditField(ctx context.Context, userID string, field Field) (*EditPrompt, error) {
	st, ok := s.edits.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no edit in progress")
	}
	if st.Step != EditStepField {
		return nil, rosterr.FailedPrecondition("a field was already chosen")
	}
	if !ValidField(field) {
		return nil, rosterr.Validationf("'%s' is not an editable field", field)
	}

	char, err := s.chars.Get(ctx, st.CharacterID)
	if err != nil {
		return nil, err
	}
	if char.Type.IsSubclass() && (field == FieldName || field == FieldUID || field == FieldGuild) {
		return nil, rosterr.Validation("that field is shared with the parent character")
	}

	st.Field = field
	st.Step = EditStepValue
	s.edits.Set(userID, st)

	prompt := &EditPrompt{Step: EditStepValue, Field: field}
	switch field {
	case FieldName, FieldUID:
		prompt.NeedsModal = true
	case FieldClass:
		prompt.Options = gamedata.ClassNames()
	case FieldBracket:
		prompt.Options = gamedata.ScoreBrackets
	case FieldGuild:
		prompt.Options = gamedata.Guilds
	case FieldRoster:
		prompt.Options = gamedata.RosterItems
	}
	return prompt, nil
}

// ApplyEdit consumes a select-menu value for the pending field. Each field
// commits on its own; there is no aggregate save step.
func (s *service) ApplyEdit(ctx context.Context, userID, value string) (*EditOutcome, error) {
	st, ok := s.edits.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no edit in progress")
	}

	char, err := s.chars.Get(ctx, st.CharacterID)
	if err != nil {
		return nil, err
	}

	switch st.Step {
	case EditStepValue:
		switch st.Field {
		case FieldClass:
			if !gamedata.ValidClass(value) {
				return nil, rosterr.Validationf("'%s' is not a known class", value)
			}
			// A class change invalidates the subclass; hold the class
			// until the replacement subclass is picked.
			st.PendingClass = value
			st.Step = EditStepSubclass
			s.edits.Set(userID, st)
			return &EditOutcome{Field: FieldClass}, nil

		case FieldBracket:
			if !gamedata.ValidBracket(value) {
				return nil, rosterr.Validationf("'%s' is not a known score bracket", value)
			}
			char.ScoreBracket = value
			return s.commitEdit(ctx, userID, char, FieldBracket, value)

		case FieldGuild:
			if !gamedata.ValidGuild(value) {
				return nil, rosterr.Validationf("'%s' is not a known guild", value)
			}
			return s.applyGuildEdit(ctx, userID, char, value)

		case FieldRoster:
			if !gamedata.ValidRosterItem(value) {
				return nil, rosterr.Validationf("'%s' is not a known roster item", value)
			}
			st.Item = value
			st.Step = EditStepTier
			s.edits.Set(userID, st)
			return &EditOutcome{Field: FieldRoster}, nil

		default:
			return nil, rosterr.FailedPreconditionf("field '%s' is edited through a modal", st.Field)
		}

	case EditStepSubclass:
		if !gamedata.ValidSubclass(st.PendingClass, value) {
			return nil, rosterr.Validationf("'%s' is not a subclass of %s", value, st.PendingClass)
		}
		oldClass := char.Class
		char.Class = st.PendingClass
		char.Subclass = value
		outcome, err := s.commitEdit(ctx, userID, char, FieldClass, st.PendingClass+" / "+value)
		if err != nil {
			return nil, err
		}
		if oldClass != char.Class {
			s.addClassRole(ctx, userID, char.Class)
			s.removeClassRoleIfUnused(ctx, userID, oldClass)
		}
		return outcome, nil

	case EditStepTier:
		if !gamedata.ValidTier(value) {
			return nil, rosterr.Validationf("'%s' is not a known tier", value)
		}
		entry := &character.RosterEntry{CharacterID: char.ID, Item: st.Item, Tier: value}
		if err := s.roster.Put(ctx, entry); err != nil {
			return nil, rosterr.Wrap(err, "failed to save roster entry")
		}
		s.edits.Clear(userID)
		s.syncRoster(ctx, userID)
		s.record(ctx, interfaces.ActivityEvent{
			Kind:      "character_edited",
			UserID:    userID,
			Character: char.Name,
			Detail:    "roster: " + st.Item + " -> " + value,
		})
		return &EditOutcome{Character: char, Field: FieldRoster}, nil

	default:
		return nil, rosterr.FailedPrecondition("the edit is not waiting for a selection")
	}
}

// ApplyIdentityEdit consumes a modal value for a name or UID edit. Identity
// fields propagate to the character's subclasses, which mirror them.
func (s *service) ApplyIdentityEdit(ctx context.Context, userID string, field Field, value string) (*EditOutcome, error) {
	st, ok := s.edits.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no edit in progress")
	}
	if st.Step != EditStepValue || st.Field != field {
		return nil, rosterr.FailedPrecondition("the edit is not waiting for that field")
	}

	char, err := s.chars.Get(ctx, st.CharacterID)
	if err != nil {
		return nil, err
	}

	switch field {
	case FieldName:
		if value == "" {
			return nil, rosterr.Validation("your in-game name cannot be empty")
		}
		char.Name = value
	case FieldUID:
		if !character.ValidGameUID(value) {
			return nil, rosterr.Validation("the game UID must contain digits only")
		}
		char.GameUID = value
	default:
		return nil, rosterr.InvalidArgumentf("field '%s' is not a modal field", field)
	}

	outcome, err := s.commitEdit(ctx, userID, char, field, value)
	if err != nil {
		return nil, err
	}

	s.propagateIdentity(ctx, char)

	if field == FieldName && char.Type == character.TypeMain && s.names != nil {
		if err := s.names.UpdateDisplayName(ctx, userID, value); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to update display name")
		}
	}
	return outcome, nil
}

// propagateIdentity copies the shared identity fields onto subclass rows.
func (s *service) propagateIdentity(ctx context.Context, char *character.Character) {
	subs, err := s.chars.GetSubclasses(ctx, char.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("character_id", char.ID).Msg("failed to load subclasses for identity update")
		return
	}
	for _, sub := range subs {
		sub.Name = char.Name
		sub.GameUID = char.GameUID
		if err := s.chars.Update(ctx, sub); err != nil {
			s.log.Warn().Err(err).Str("character_id", sub.ID).Msg("failed to propagate identity to subclass")
		}
	}
}

// applyGuildEdit updates the guild field and, on a main character, runs the
// application gate: a pending application for the old choice is superseded
// and a new one opens when the gated guild is chosen.
func (s *service) applyGuildEdit(ctx context.Context, userID string, char *character.Character, guild string) (*EditOutcome, error) {
	oldGuild := char.Guild
	char.Guild = guild

	outcome, err := s.commitEdit(ctx, userID, char, FieldGuild, guild)
	if err != nil {
		return nil, err
	}

	// Subclasses mirror the parent's guild.
	subs, err := s.chars.GetSubclasses(ctx, char.ID)
	if err == nil {
		for _, sub := range subs {
			sub.Guild = guild
			if err := s.chars.Update(ctx, sub); err != nil {
				s.log.Warn().Err(err).Str("character_id", sub.ID).Msg("failed to propagate guild to subclass")
			}
		}
	}

	if char.Type == character.TypeMain && s.gate != nil && oldGuild != guild {
		if err := s.gate.Supersede(ctx, userID, char.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to supersede pending application")
		}
		if guild == s.gatedGuild {
			if err := s.gate.Open(ctx, userID, char.ID, guild); err != nil {
				s.log.Error().Err(err).Str("user_id", userID).Msg("failed to open guild application")
			}
		}
	}
	return outcome, nil
}

// commitEdit persists the modified character, clears the session and fires
// the shared side effects.
func (s *service) commitEdit(ctx context.Context, userID string, char *character.Character, field Field, detail string) (*EditOutcome, error) {
	if err := s.chars.Update(ctx, char); err != nil {
		s.log.Error().Err(err).Str("character_id", char.ID).Msg("failed to update character")
		return nil, rosterr.Wrap(err, "failed to save your changes")
	}

	s.edits.Clear(userID)
	s.syncRoster(ctx, userID)
	s.record(ctx, interfaces.ActivityEvent{
		Kind:      "character_edited",
		UserID:    userID,
		Character: char.Name,
		Detail:    string(field) + " -> " + detail,
	})

	s.log.Info().Str("user_id", userID).Str("character_id", char.ID).Str("field", string(field)).Msg("character edited")

	return &EditOutcome{Character: char, Field: field}, nil
}

// CurrentEditPrompt re-derives the prompt for the edit flow's current
// position.
func (s *service) CurrentEditPrompt(ctx context.Context, userID string) (*EditPrompt, error) {
	st, ok := s.edits.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no edit in progress")
	}

	switch st.Step {
	case EditStepTarget:
		chars, err := s.chars.GetByOwner(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &EditPrompt{Step: EditStepTarget, Characters: chars}, nil

	case EditStepField:
		char, err := s.chars.Get(ctx, st.CharacterID)
		if err != nil {
			return nil, err
		}
		return &EditPrompt{Step: EditStepField, Options: editableFieldNames(char)}, nil

	case EditStepSubclass:
		return &EditPrompt{
			Step:    EditStepSubclass,
			Field:   FieldClass,
			Options: gamedata.SubclassesOf(st.PendingClass),
		}, nil

	case EditStepTier:
		return &EditPrompt{Step: EditStepTier, Field: FieldRoster, Options: gamedata.Tiers}, nil

	default:
		return &EditPrompt{Step: st.Step, Field: st.Field}, nil
	}
}

func (s *service) CancelEdit(userID string) {
	s.edits.Clear(userID)
}

// editableFieldNames lists the fields the picker offers for a character.
// Subclasses only own their class, bracket and roster.
func editableFieldNames(char *character.Character) []string {
	if char.Type.IsSubclass() {
		return []string{string(FieldClass), string(FieldBracket), string(FieldRoster)}
	}
	return []string{
		string(FieldName), string(FieldUID), string(FieldClass),
		string(FieldBracket), string(FieldGuild), string(FieldRoster),
	}
}
