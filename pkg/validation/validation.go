// Package validation provides input validation and sanitization for network messages.
package validation

import (
	"encoding/json"
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Message size and content limits
const (
	MaxMessageSize    = 64 * 1024 // 64KB max message
	MaxPlayerNameLen  = 32
	MaxMessagesPerMin = 600 // input messages arrive at frame rate
)

// Regular expressions for input validation
var (
	// Allow alphanumeric, spaces, hyphens, underscores, and basic punctuation for player names
	validPlayerNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.<>()]+$`)
)

// MessageValidator provides validation for different message types
type MessageValidator struct {
	rateLimiter *RateLimiter
}

// NewMessageValidator creates a new message validator with rate limiting
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{
		rateLimiter: NewRateLimiter(MaxMessagesPerMin, time.Minute),
	}
}

// Close releases resources used by the message validator
func (v *MessageValidator) Close() {
	if v.rateLimiter != nil {
		v.rateLimiter.Close()
	}
}

// ValidateMessage validates a raw message against size and format constraints
func (v *MessageValidator) ValidateMessage(data []byte, clientID string) error {
	if len(data) > MaxMessageSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(data), MaxMessageSize)
	}

	if !json.Valid(data) {
		return fmt.Errorf("invalid JSON format")
	}

	if !v.rateLimiter.Allow(clientID) {
		return fmt.Errorf("rate limit exceeded: max %d messages per minute", MaxMessagesPerMin)
	}

	return nil
}

// ValidatePlayerName validates and sanitizes a player name
func ValidatePlayerName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("player name cannot be empty")
	}

	if len(name) > MaxPlayerNameLen {
		return "", fmt.Errorf("player name too long: %d characters (max %d)", len(name), MaxPlayerNameLen)
	}

	if !utf8.ValidString(name) {
		return "", fmt.Errorf("player name contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("player name cannot be only whitespace")
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("player name contains control characters")
		}
	}

	if !validPlayerNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("player name contains invalid characters (only alphanumeric, spaces, hyphens, underscores, and basic punctuation allowed)")
	}

	// Escape HTML to prevent XSS
	sanitized := html.EscapeString(trimmed)

	return sanitized, nil
}

// ValidateWorldPosition checks that a clicked world coordinate is finite and
// inside the playable square centered on the origin.
func ValidateWorldPosition(x, y, worldSize float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return fmt.Errorf("position (%v, %v) is not finite", x, y)
	}
	half := worldSize / 2
	if x < -half || x > half || y < -half || y > half {
		return fmt.Errorf("position (%v, %v) outside world bounds ±%v", x, y, half)
	}
	return nil
}

// ValidateKeyIndex validates a directional key index from a control message
func ValidateKeyIndex(index int) error {
	if index < 0 || index >= 4 {
		return fmt.Errorf("invalid key index: %d (must be 0-3)", index)
	}
	return nil
}
