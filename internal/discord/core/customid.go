package core

import (
	"fmt"
	"strings"
)

const (
	// CustomIDSeparator is the character used to separate parts
	CustomIDSeparator = ":"

	// MaxCustomIDLength is Discord's limit for custom IDs
	MaxCustomIDLength = 100
)

// CustomID is a parsed component custom ID: domain, action, then an
// optional target and args. Session state lives server-side, so the ID
// only needs to say which handler runs and on what.
type CustomID struct {
	// Domain is the top-level category (e.g., "roster", "ballot")
	Domain string

	// Action is the specific action (e.g., "choose", "vote")
	Action string

	// Target is the primary target of the action (e.g., a character ID)
	Target string

	// Args are additional arguments
	Args []string
}

// NewCustomID creates a new CustomID
func NewCustomID(domain, action string) *CustomID {
	return &CustomID{Domain: domain, Action: action}
}

// WithTarget sets the target
func (c *CustomID) WithTarget(target string) *CustomID {
	c.Target = target
	return c
}

// WithArgs adds arguments
func (c *CustomID) WithArgs(args ...string) *CustomID {
	c.Args = append(c.Args, args...)
	return c
}

// Encode converts the CustomID to a string
func (c *CustomID) Encode() (string, error) {
	if c.Domain == "" || c.Action == "" {
		return "", fmt.Errorf("custom ID requires a domain and an action")
	}
	if c.Target == "" && len(c.Args) > 0 {
		return "", fmt.Errorf("custom ID args require a target")
	}

	parts := []string{c.Domain, c.Action}
	if c.Target != "" {
		parts = append(parts, c.Target)
	}
	parts = append(parts, c.Args...)

	result := strings.Join(parts, CustomIDSeparator)
	if len(result) > MaxCustomIDLength {
		return "", fmt.Errorf("custom ID exceeds maximum length of %d characters", MaxCustomIDLength)
	}
	return result, nil
}

// MustEncode is like Encode but panics on error
func (c *CustomID) MustEncode() string {
	result, err := c.Encode()
	if err != nil {
		panic(err)
	}
	return result
}

// ParseCustomID parses a custom ID string
func ParseCustomID(customID string) (*CustomID, error) {
	if customID == "" {
		return nil, fmt.Errorf("empty custom ID")
	}

	parts := strings.Split(customID, CustomIDSeparator)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid custom ID format: expected at least domain:action")
	}

	result := &CustomID{Domain: parts[0], Action: parts[1]}
	if len(parts) > 2 {
		result.Target = parts[2]
	}
	if len(parts) > 3 {
		result.Args = parts[3:]
	}
	return result, nil
}

// Arg returns the i-th arg or "" when absent.
func (c *CustomID) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// CustomIDBuilder provides a fluent interface for building custom IDs
// within one domain.
type CustomIDBuilder struct {
	domain string
}

// NewCustomIDBuilder creates a new builder for a domain
func NewCustomIDBuilder(domain string) *CustomIDBuilder {
	return &CustomIDBuilder{domain: domain}
}

// Build creates a CustomID for an action
func (b *CustomIDBuilder) Build(action string) *CustomID {
	return NewCustomID(b.domain, action)
}

// Action creates an action custom ID with no target.
func (b *CustomIDBuilder) Action(action string) string {
	return NewCustomID(b.domain, action).MustEncode()
}

// Button creates a button custom ID
func (b *CustomIDBuilder) Button(action, target string, args ...string) string {
	return NewCustomID(b.domain, action).
		WithTarget(target).
		WithArgs(args...).
		MustEncode()
}

// Modal creates a modal custom ID
func (b *CustomIDBuilder) Modal(action, target string) string {
	return NewCustomID(b.domain, action).
		WithTarget(target).
		MustEncode()
}
