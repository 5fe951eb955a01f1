package character

import (
	"context"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	"github.com/frostveil/rosterbot/internal/gamedata"
	"github.com/frostveil/rosterbot/internal/interfaces"
	"github.com/frostveil/rosterbot/internal/repositories/timezones"
)

// Kind selects which registration flow is running.
type Kind string

const (
	KindMain     Kind = "main"
	KindAlt      Kind = "alt"
	KindSubclass Kind = "subclass"
)

// Step is a wizard position. Transitions follow the fixed per-flow order
// returned by flowOrder; there is no way to reach a step out of sequence.
type Step string

const (
	StepRegion   Step = "region"
	StepCountry  Step = "country"
	StepTimezone Step = "timezone"
	StepClass    Step = "class"
	StepSubclass Step = "subclass"
	StepBracket  Step = "bracket"
	StepRoster   Step = "roster"
	StepGuild    Step = "guild"
	StepIdentity Step = "identity"
	StepDone     Step = "done"
)

// State is the wizard's session payload: everything captured so far plus
// the current step marker.
type State struct {
	Kind     Kind
	ParentID string // subclass flows only
	Step     Step

	Region   string
	Country  string
	Timezone string
	// TimezoneSaved marks a timezone carried over from a previous
	// registration, skipping the capture steps.
	TimezoneSaved bool

	Class    string
	Subclass string
	Bracket  string

	RosterIndex int
	RosterPicks map[string]string // item -> tier

	Guild string
}

// Prompt describes the UI the handler should render next.
type Prompt struct {
	Kind    Kind
	Step    Step
	Options []string

	// RosterItem is the item being asked about when Step is StepRoster.
	RosterItem string
	Skippable  bool

	// NeedsModal marks the identity step, which collects name and UID
	// through a modal instead of a select.
	NeedsModal bool

	// Character is set once the flow has committed (Step is StepDone).
	Character *character.Character
}

// flowOrder returns the fixed step sequence for the session's flow.
func flowOrder(st *State) []Step {
	switch st.Kind {
	case KindSubclass:
		return []Step{StepClass, StepSubclass, StepBracket}
	case KindAlt:
		if st.TimezoneSaved {
			return []Step{StepClass, StepSubclass, StepBracket, StepRoster, StepGuild, StepIdentity}
		}
		return []Step{StepRegion, StepCountry, StepTimezone, StepClass, StepSubclass, StepBracket, StepRoster, StepGuild, StepIdentity}
	default:
		return []Step{StepRegion, StepCountry, StepTimezone, StepClass, StepSubclass, StepBracket, StepRoster, StepGuild, StepIdentity}
	}
}

func nextStep(st *State) Step {
	order := flowOrder(st)
	for i, step := range order {
		if step == st.Step {
			if i+1 < len(order) {
				return order[i+1]
			}
			return StepDone
		}
	}
	return order[0]
}

func prevStep(st *State) (Step, bool) {
	order := flowOrder(st)
	for i, step := range order {
		if step == st.Step {
			if i == 0 {
				return "", false
			}
			return order[i-1], true
		}
	}
	return "", false
}

func (s *service) StartRegistration(ctx context.Context, userID string, kind Kind, parentID string) (*Prompt, error) {
	if userID == "" {
		return nil, rosterr.InvalidArgument("user ID is required")
	}

	st := State{Kind: kind, RosterPicks: make(map[string]string)}

	switch kind {
	case KindMain:
		if _, err := s.chars.GetMain(ctx, userID); err == nil {
			return nil, rosterr.FailedPrecondition("you already have a main character")
		} else if !rosterr.IsNotFound(err) {
			return nil, rosterr.Wrap(err, "failed to check existing main")
		}

	case KindAlt:
		alts, err := s.chars.GetAlts(ctx, userID)
		if err != nil {
			return nil, rosterr.Wrap(err, "failed to check existing alts")
		}
		if len(alts) >= s.caps.Alts {
			return nil, rosterr.FailedPreconditionf("you already have %d alt characters", s.caps.Alts)
		}
		if tz, err := s.timezones.Get(ctx, userID); err == nil {
			st.TimezoneSaved = true
			st.Region = tz.Region
			st.Country = tz.Country
			st.Timezone = tz.Timezone
		} else if !rosterr.IsNotFound(err) {
			return nil, rosterr.Wrap(err, "failed to load saved timezone")
		}

	case KindSubclass:
		parent, err := s.chars.Get(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.OwnerID != userID {
			return nil, rosterr.PermissionDenied("that character belongs to someone else")
		}
		if parent.Type.IsSubclass() {
			return nil, rosterr.InvalidArgument("subclasses cannot have their own subclasses")
		}
		count, err := s.chars.CountSubclasses(ctx, parentID)
		if err != nil {
			return nil, rosterr.Wrap(err, "failed to count subclasses")
		}
		cap := s.caps.MainSubclasses
		if parent.Type == character.TypeAlt {
			cap = s.caps.SubclassesPerAlt
		}
		if count >= cap {
			return nil, rosterr.FailedPreconditionf("that character already has %d subclasses", cap)
		}
		st.ParentID = parentID

	default:
		return nil, rosterr.InvalidArgumentf("unknown registration kind '%s'", kind)
	}

	st.Step = flowOrder(&st)[0]
	// Starting a flow replaces any in-flight session for the same pair.
	s.registrations.Set(userID, st)

	s.log.Info().Str("user_id", userID).Str("kind", string(kind)).Msg("registration started")

	return s.promptFor(&st), nil
}

func (s *service) Choose(ctx context.Context, userID, value string) (*Prompt, error) {
	st, ok := s.registrations.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no registration in progress")
	}

	// Validate against the current step only; a rejected value leaves the
	// session untouched so the same prompt can be answered again.
	switch st.Step {
	case StepRegion:
		if !gamedata.ValidRegion(value) {
			return nil, rosterr.Validationf("'%s' is not a known region", value)
		}
		st.Region = value
		st.Country = ""
		st.Timezone = ""
	case StepCountry:
		if !gamedata.ValidCountry(st.Region, value) {
			return nil, rosterr.Validationf("'%s' is not a country in %s", value, st.Region)
		}
		st.Country = value
		st.Timezone = ""
	case StepTimezone:
		if !gamedata.ValidTimezone(st.Region, st.Country, value) {
			return nil, rosterr.Validationf("'%s' is not a timezone in %s", value, st.Country)
		}
		st.Timezone = value
	case StepClass:
		if !gamedata.ValidClass(value) {
			return nil, rosterr.Validationf("'%s' is not a known class", value)
		}
		if st.Class != value {
			st.Subclass = ""
		}
		st.Class = value
	case StepSubclass:
		if !gamedata.ValidSubclass(st.Class, value) {
			return nil, rosterr.Validationf("'%s' is not a subclass of %s", value, st.Class)
		}
		st.Subclass = value
	case StepBracket:
		if !gamedata.ValidBracket(value) {
			return nil, rosterr.Validationf("'%s' is not a known score bracket", value)
		}
		st.Bracket = value
	case StepRoster:
		if !gamedata.ValidTier(value) {
			return nil, rosterr.Validationf("'%s' is not a known tier", value)
		}
		if st.RosterPicks == nil {
			st.RosterPicks = make(map[string]string)
		}
		st.RosterPicks[gamedata.RosterItems[st.RosterIndex]] = value
	case StepGuild:
		if !gamedata.ValidGuild(value) {
			return nil, rosterr.Validationf("'%s' is not a known guild", value)
		}
		st.Guild = value
	default:
		return nil, rosterr.FailedPreconditionf("step '%s' does not take a selection", st.Step)
	}

	s.advance(&st)

	// Subclass flows end at the bracket step and commit right away; the
	// identity fields come from the parent, not the user.
	if st.Kind == KindSubclass && st.Step == StepDone {
		s.registrations.Set(userID, st)
		return s.commitSubclass(ctx, userID, &st)
	}

	s.registrations.Set(userID, st)
	return s.promptFor(&st), nil
}

func (s *service) SkipRosterItem(_ context.Context, userID string) (*Prompt, error) {
	st, ok := s.registrations.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no registration in progress")
	}
	if st.Step != StepRoster {
		return nil, rosterr.FailedPrecondition("nothing to skip at this step")
	}

	s.advance(&st)
	s.registrations.Set(userID, st)

	return s.promptFor(&st), nil
}

// advance moves to the next step, looping within the roster prompts until
// every configured item has been answered or skipped.
func (s *service) advance(st *State) {
	if st.Step == StepRoster {
		st.RosterIndex++
		if st.RosterIndex < len(gamedata.RosterItems) {
			return
		}
	}
	st.Step = nextStep(st)
	if st.Step == StepRoster {
		st.RosterIndex = 0
	}
}

func (s *service) Back(_ context.Context, userID string) (*Prompt, error) {
	st, ok := s.registrations.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no registration in progress")
	}

	// Backing up within the roster prompts drops the most recently
	// accepted selection; a back-then-forward round trip re-asks it.
	if st.Step == StepRoster && st.RosterIndex > 0 {
		st.RosterIndex--
		delete(st.RosterPicks, gamedata.RosterItems[st.RosterIndex])
		s.registrations.Set(userID, st)
		return s.promptFor(&st), nil
	}

	prev, ok := prevStep(&st)
	if !ok {
		// Already at the first step; re-render it.
		return s.promptFor(&st), nil
	}

	st.Step = prev
	if st.Step == StepRoster {
		st.RosterIndex = len(gamedata.RosterItems) - 1
	}
	s.registrations.Set(userID, st)

	return s.promptFor(&st), nil
}

func (s *service) CurrentPrompt(_ context.Context, userID string) (*Prompt, error) {
	st, ok := s.registrations.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no registration in progress")
	}
	return s.promptFor(&st), nil
}

func (s *service) CancelRegistration(userID string) {
	s.registrations.Clear(userID)
}

func (s *service) Commit(ctx context.Context, userID, name, gameUID string) (*character.Character, error) {
	st, ok := s.registrations.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no registration in progress")
	}

	if st.Kind == KindSubclass {
		return s.commitSubclassPrompt(ctx, userID, &st)
	}

	if st.Step != StepIdentity {
		return nil, rosterr.FailedPrecondition("the registration is not at the final step")
	}
	if name == "" {
		return nil, rosterr.Validation("your in-game name cannot be empty")
	}
	if !character.ValidGameUID(gameUID) {
		return nil, rosterr.Validation("the game UID must contain digits only")
	}

	// Caps are re-checked here so nothing is written when a parallel
	// registration got there first.
	charType := character.TypeMain
	if st.Kind == KindAlt {
		charType = character.TypeAlt
		alts, err := s.chars.GetAlts(ctx, userID)
		if err != nil {
			return nil, rosterr.Wrap(err, "failed to check existing alts")
		}
		if len(alts) >= s.caps.Alts {
			return nil, rosterr.FailedPreconditionf("you already have %d alt characters", s.caps.Alts)
		}
	} else {
		if _, err := s.chars.GetMain(ctx, userID); err == nil {
			return nil, rosterr.FailedPrecondition("you already have a main character")
		} else if !rosterr.IsNotFound(err) {
			return nil, rosterr.Wrap(err, "failed to check existing main")
		}
	}

	guild := st.Guild
	if guild == "" {
		guild = character.GuildNone
	}

	char := &character.Character{
		ID:           s.uuid.New(),
		OwnerID:      userID,
		Name:         name,
		GameUID:      gameUID,
		Class:        st.Class,
		Subclass:     st.Subclass,
		ScoreBracket: st.Bracket,
		Guild:        guild,
		Type:         charType,
	}

	// The session survives a failed create so the captured answers are
	// not lost; the user can resubmit the modal.
	if err := s.chars.Create(ctx, char); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create character")
		return nil, rosterr.Wrap(err, "failed to save your character")
	}

	// Roster rows are best-effort sequential; a failed row is logged and
	// the rest still land.
	for _, item := range gamedata.RosterItems {
		tier, picked := st.RosterPicks[item]
		if !picked {
			continue
		}
		entry := &character.RosterEntry{CharacterID: char.ID, Item: item, Tier: tier}
		if err := s.roster.Put(ctx, entry); err != nil {
			s.log.Error().Err(err).Str("character_id", char.ID).Str("item", item).Msg("failed to save roster entry")
		}
	}

	if !st.TimezoneSaved && st.Timezone != "" {
		rec := &timezones.Record{UserID: userID, Region: st.Region, Country: st.Country, Timezone: st.Timezone}
		if err := s.timezones.Set(ctx, rec); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to save timezone")
		}
	}

	s.registrations.Clear(userID)

	s.addClassRole(ctx, userID, char.Class)
	if charType == character.TypeMain {
		if s.names != nil {
			if err := s.names.UpdateDisplayName(ctx, userID, name); err != nil {
				s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to update display name")
			}
		}
		if s.gate != nil && guild == s.gatedGuild {
			if err := s.gate.Open(ctx, userID, char.ID, guild); err != nil {
				s.log.Error().Err(err).Str("user_id", userID).Msg("failed to open guild application")
			}
		}
	}
	s.syncRoster(ctx, userID)
	s.record(ctx, interfaces.ActivityEvent{
		Kind:      "character_registered",
		UserID:    userID,
		Character: char.Name,
		Detail:    string(charType) + " / " + char.Class,
	})

	s.log.Info().Str("user_id", userID).Str("character_id", char.ID).Str("type", string(charType)).Msg("character registered")

	return char, nil
}

// commitSubclassPrompt adapts commitSubclass for callers going through
// Commit directly.
func (s *service) commitSubclassPrompt(ctx context.Context, userID string, st *State) (*character.Character, error) {
	prompt, err := s.commitSubclass(ctx, userID, st)
	if err != nil {
		return nil, err
	}
	return prompt.Character, nil
}

func (s *service) commitSubclass(ctx context.Context, userID string, st *State) (*Prompt, error) {
	parent, err := s.chars.Get(ctx, st.ParentID)
	if err != nil {
		// Session stays so the user can retry once the cause is fixed.
		return nil, err
	}

	count, err := s.chars.CountSubclasses(ctx, st.ParentID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to count subclasses")
	}
	cap := s.caps.MainSubclasses
	if parent.Type == character.TypeAlt {
		cap = s.caps.SubclassesPerAlt
	}
	if count >= cap {
		return nil, rosterr.FailedPreconditionf("that character already has %d subclasses", cap)
	}

	// A subclass shares the parent's identity fields; only class,
	// subclass and bracket are its own.
	char := &character.Character{
		ID:           s.uuid.New(),
		OwnerID:      userID,
		Name:         parent.Name,
		GameUID:      parent.GameUID,
		Class:        st.Class,
		Subclass:     st.Subclass,
		ScoreBracket: st.Bracket,
		Guild:        parent.Guild,
		Type:         parent.Type.SubclassOf(),
		ParentID:     parent.ID,
	}

	if err := s.chars.Create(ctx, char); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create subclass")
		return nil, rosterr.Wrap(err, "failed to save your subclass")
	}

	s.registrations.Clear(userID)

	s.addClassRole(ctx, userID, char.Class)
	s.syncRoster(ctx, userID)
	s.record(ctx, interfaces.ActivityEvent{
		Kind:      "subclass_registered",
		UserID:    userID,
		Character: char.Name,
		Detail:    char.Class + " / " + char.Subclass,
	})

	s.log.Info().Str("user_id", userID).Str("character_id", char.ID).Str("parent_id", parent.ID).Msg("subclass registered")

	return &Prompt{Kind: st.Kind, Step: StepDone, Character: char}, nil
}

func (s *service) promptFor(st *State) *Prompt {
	p := &Prompt{Kind: st.Kind, Step: st.Step}

	switch st.Step {
	case StepRegion:
		p.Options = gamedata.RegionNames()
	case StepCountry:
		p.Options = gamedata.CountriesOf(st.Region)
	case StepTimezone:
		p.Options = gamedata.TimezonesOf(st.Region, st.Country)
	case StepClass:
		p.Options = gamedata.ClassNames()
	case StepSubclass:
		p.Options = gamedata.SubclassesOf(st.Class)
	case StepBracket:
		p.Options = gamedata.ScoreBrackets
	case StepRoster:
		p.RosterItem = gamedata.RosterItems[st.RosterIndex]
		p.Options = gamedata.Tiers
		p.Skippable = true
	case StepGuild:
		p.Options = gamedata.Guilds
	case StepIdentity:
		p.NeedsModal = true
	}

	return p
}
