package character

import (
	"context"

	"github.com/frostveil/rosterbot/internal/domain/character"
	rosterr "github.com/frostveil/rosterbot/internal/errors"
	"github.com/frostveil/rosterbot/internal/interfaces"
)

// RemoveTargetAll asks for the user's entire roster instead of one
// character.
const RemoveTargetAll = "all"

// RemoveStep is the removal flow's position.
type RemoveStep string

const (
	RemoveStepTarget  RemoveStep = "target"
	RemoveStepConfirm RemoveStep = "confirm"
)

// RemoveState is the removal flow's session payload.
type RemoveState struct {
	Step RemoveStep
	// TargetID is a character ID or RemoveTargetAll.
	TargetID string
}

// RemovePrompt describes the removal UI to render next.
type RemovePrompt struct {
	Step       RemoveStep
	Characters []*character.Character

	// Target and CascadeCount describe what the confirm step will delete.
	Target       *character.Character
	TargetAll    bool
	CascadeCount int
}

// RemoveOutcome reports a completed removal.
type RemoveOutcome struct {
	RemovedIDs []string
	RemovedAll bool
}

func (s *service) StartRemoval(ctx context.Context, userID string) (*RemovePrompt, error) {
	chars, err := s.chars.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chars) == 0 {
		return nil, rosterr.NotFound("you have no registered characters")
	}

	s.removals.Set(userID, RemoveState{Step: RemoveStepTarget})

	return &RemovePrompt{Step: RemoveStepTarget, Characters: chars}, nil
}

func (s *service) ChooseRemovalTarget(ctx context.Context, userID, target string) (*RemovePrompt, error) {
	st, ok := s.removals.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no removal in progress")
	}
	if st.Step != RemoveStepTarget {
		return nil, rosterr.FailedPrecondition("a removal target was already chosen")
	}

	prompt := &RemovePrompt{Step: RemoveStepConfirm}

	if target == RemoveTargetAll {
		prompt.TargetAll = true
	} else {
		char, err := s.chars.Get(ctx, target)
		if err != nil {
			return nil, err
		}
		if char.OwnerID != userID {
			return nil, rosterr.PermissionDenied("that character belongs to someone else")
		}
		prompt.Target = char
		if !char.Type.IsSubclass() {
			count, err := s.chars.CountSubclasses(ctx, char.ID)
			if err == nil {
				prompt.CascadeCount = count
			}
		}
	}

	st.TargetID = target
	st.Step = RemoveStepConfirm
	s.removals.Set(userID, st)

	return prompt, nil
}

func (s *service) ConfirmRemoval(ctx context.Context, userID string) (*RemoveOutcome, error) {
	st, ok := s.removals.Get(userID)
	if !ok {
		return nil, rosterr.NotFound("no removal in progress")
	}
	if st.Step != RemoveStepConfirm {
		return nil, rosterr.FailedPrecondition("nothing has been chosen to remove")
	}

	if st.TargetID == RemoveTargetAll {
		return s.removeAll(ctx, userID)
	}
	return s.removeOne(ctx, userID, st.TargetID)
}

func (s *service) removeAll(ctx context.Context, userID string) (*RemoveOutcome, error) {
	chars, err := s.chars.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	removedIDs, err := s.chars.DeleteByOwner(ctx, userID)
	if err != nil {
		return nil, rosterr.Wrap(err, "failed to remove your characters")
	}

	for _, id := range removedIDs {
		if err := s.roster.DeleteByCharacter(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("character_id", id).Msg("failed to delete roster entries")
		}
	}
	if err := s.timezones.Delete(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to delete saved timezone")
	}

	s.removals.Clear(userID)

	// Revoke every class role the removed roster held.
	if s.grants != nil {
		for _, class := range character.ClassesInUse(chars) {
			if err := s.grants.RemoveClassRole(ctx, userID, class); err != nil {
				s.log.Warn().Err(err).Str("user_id", userID).Str("class", class).Msg("failed to remove class role")
			}
		}
	}

	s.syncRoster(ctx, userID)
	s.record(ctx, interfaces.ActivityEvent{
		Kind:   "characters_removed",
		UserID: userID,
		Detail: "entire roster",
	})

	s.log.Info().Str("user_id", userID).Int("removed", len(removedIDs)).Msg("roster removed")

	return &RemoveOutcome{RemovedIDs: removedIDs, RemovedAll: true}, nil
}

func (s *service) removeOne(ctx context.Context, userID, characterID string) (*RemoveOutcome, error) {
	char, err := s.chars.Get(ctx, characterID)
	if err != nil {
		return nil, err
	}
	if char.OwnerID != userID {
		return nil, rosterr.PermissionDenied("that character belongs to someone else")
	}

	// Subclasses go first so no orphan rows are left if we stop midway.
	var removed []*character.Character
	if !char.Type.IsSubclass() {
		subs, err := s.chars.GetSubclasses(ctx, characterID)
		if err != nil {
			return nil, rosterr.Wrap(err, "failed to load subclasses")
		}
		for _, sub := range subs {
			if err := s.chars.Delete(ctx, sub.ID); err != nil {
				return nil, rosterr.Wrap(err, "failed to remove a subclass")
			}
			removed = append(removed, sub)
		}
	}
	if err := s.chars.Delete(ctx, characterID); err != nil {
		return nil, rosterr.Wrap(err, "failed to remove the character")
	}
	removed = append(removed, char)

	removedIDs := make([]string, 0, len(removed))
	for _, c := range removed {
		removedIDs = append(removedIDs, c.ID)
		if err := s.roster.DeleteByCharacter(ctx, c.ID); err != nil {
			s.log.Warn().Err(err).Str("character_id", c.ID).Msg("failed to delete roster entries")
		}
	}

	s.removals.Clear(userID)

	for _, c := range removed {
		s.removeClassRoleIfUnused(ctx, userID, c.Class)
	}

	s.syncRoster(ctx, userID)
	s.record(ctx, interfaces.ActivityEvent{
		Kind:      "character_removed",
		UserID:    userID,
		Character: char.Name,
		Detail:    string(char.Type),
	})

	s.log.Info().Str("user_id", userID).Str("character_id", characterID).Int("removed", len(removedIDs)).Msg("character removed")

	return &RemoveOutcome{RemovedIDs: removedIDs}, nil
}

func (s *service) CancelRemoval(userID string) {
	s.removals.Clear(userID)
}
