package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomID_EncodeRoundTrip(t *testing.T) {
	encoded, err := NewCustomID("roster", "choose").
		WithTarget("char-1").
		WithArgs("extra").
		Encode()
	require.NoError(t, err)
	assert.Equal(t, "roster:choose:char-1:extra", encoded)

	parsed, err := ParseCustomID(encoded)
	require.NoError(t, err)
	assert.Equal(t, "roster", parsed.Domain)
	assert.Equal(t, "choose", parsed.Action)
	assert.Equal(t, "char-1", parsed.Target)
	assert.Equal(t, []string{"extra"}, parsed.Args)
}

func TestCustomID_EncodeRequiresDomainAndAction(t *testing.T) {
	_, err := (&CustomID{Action: "choose"}).Encode()
	assert.Error(t, err)

	_, err = (&CustomID{Domain: "roster"}).Encode()
	assert.Error(t, err)
}

func TestCustomID_ArgsRequireTarget(t *testing.T) {
	_, err := NewCustomID("roster", "choose").WithArgs("orphan").Encode()
	assert.Error(t, err)
}

func TestCustomID_EncodeRejectsOverlongIDs(t *testing.T) {
	_, err := NewCustomID("roster", "choose").
		WithTarget(strings.Repeat("x", MaxCustomIDLength)).
		Encode()
	assert.Error(t, err)
}

func TestParseCustomID_Minimal(t *testing.T) {
	parsed, err := ParseCustomID("ballot:vote")
	require.NoError(t, err)
	assert.Equal(t, "ballot", parsed.Domain)
	assert.Equal(t, "vote", parsed.Action)
	assert.Empty(t, parsed.Target)
	assert.Empty(t, parsed.Args)
}

func TestParseCustomID_Invalid(t *testing.T) {
	_, err := ParseCustomID("")
	assert.Error(t, err)

	_, err = ParseCustomID("justonepart")
	assert.Error(t, err)
}

func TestCustomID_ArgOutOfRange(t *testing.T) {
	id := &CustomID{Domain: "roster", Action: "choose", Target: "t", Args: []string{"a"}}
	assert.Equal(t, "a", id.Arg(0))
	assert.Equal(t, "", id.Arg(1))
	assert.Equal(t, "", id.Arg(-1))
}

func TestCustomIDBuilder(t *testing.T) {
	b := NewCustomIDBuilder("ballot")

	assert.Equal(t, "ballot:retract", b.Action("retract"))
	assert.Equal(t, "ballot:vote:accept", b.Button("vote", "accept"))
	assert.Equal(t, "ballot:vote:accept:now", b.Button("vote", "accept", "now"))
	assert.Equal(t, "ballot:override:approve", b.Modal("override", "approve"))
}
