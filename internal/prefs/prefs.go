// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prefs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/healthmate-tui/internal/storage"
)

// StorageKey is the fixed key the preferences blob lives under.
const StorageKey = "healthmate_settings"

// =============================================================================
// FONT SIZE
// =============================================================================

// FontSize is the text size preference.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
	FontXLarge FontSize = "xlarge"
)

// FontSizes lists the sizes in ascending order.
var FontSizes = []FontSize{FontSmall, FontMedium, FontLarge, FontXLarge}

// Valid reports whether f is one of the known sizes.
func (f FontSize) Valid() bool {
	for _, s := range FontSizes {
		if f == s {
			return true
		}
	}
	return false
}

// Next returns the following size, wrapping from xlarge to small.
func (f FontSize) Next() FontSize {
	for i, s := range FontSizes {
		if f == s {
			return FontSizes[(i+1)%len(FontSizes)]
		}
	}
	return FontMedium
}

// Prev returns the preceding size, wrapping from small to xlarge.
func (f FontSize) Prev() FontSize {
	for i, s := range FontSizes {
		if f == s {
			return FontSizes[(i+len(FontSizes)-1)%len(FontSizes)]
		}
	}
	return FontMedium
}

// =============================================================================
// PREFERENCES
// =============================================================================

// Preferences is the persisted settings record.
type Preferences struct {
	SoundEnabled    bool     `json:"soundEnabled"`
	DarkMode        bool     `json:"darkMode"`
	AutoSuggestions bool     `json:"autoSuggestions"`
	FontSize        FontSize `json:"fontSize"`
}

// Defaults returns the built-in preferences.
func Defaults() Preferences {
	return Preferences{
		SoundEnabled:    true,
		DarkMode:        false,
		AutoSuggestions: true,
		FontSize:        FontMedium,
	}
}

// Decode builds Preferences from a stored blob. Each field is decoded on its
// own and falls back to its default when missing or of the wrong type. A blob
// that is not a JSON object yields the defaults and an error.
func Decode(blob string) (Preferences, error) {
	p := Defaults()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &fields); err != nil {
		return p, fmt.Errorf("malformed preferences blob: %w", err)
	}

	decodeBool(fields, "soundEnabled", &p.SoundEnabled)
	decodeBool(fields, "darkMode", &p.DarkMode)
	decodeBool(fields, "autoSuggestions", &p.AutoSuggestions)

	if raw, ok := fields["fontSize"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && FontSize(s).Valid() {
			p.FontSize = FontSize(s)
		}
	}
	return p, nil
}

func decodeBool(fields map[string]json.RawMessage, name string, dst *bool) {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// Encode serialises p verbatim.
func (p Preferences) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode preferences: %w", err)
	}
	return string(raw), nil
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the in-memory preferences and their persistence.
type Manager struct {
	store storage.Store

	mu      sync.RWMutex
	current Preferences
}

// NewManager returns a manager holding the defaults. Call Load to replay
// what was persisted.
func NewManager(store storage.Store) *Manager {
	return &Manager{store: store, current: Defaults()}
}

// Load reads the persisted blob. An absent blob keeps the defaults. A
// malformed blob is logged and also leaves the defaults in place; only a
// failing store is reported as an error.
func (m *Manager) Load() (Preferences, error) {
	blob, ok, err := m.store.Get(StorageKey)
	if err != nil {
		return m.Current(), fmt.Errorf("failed to read preferences: %w", err)
	}

	p := Defaults()
	if ok {
		decoded, decodeErr := Decode(blob)
		if decodeErr != nil {
			log.Warn().Err(decodeErr).Msg("preferences reset to defaults")
		}
		p = decoded
	}

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()
	return p, nil
}

// Save persists p and makes it current.
func (m *Manager) Save(p Preferences) error {
	blob, err := p.Encode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.current = p
	m.mu.Unlock()

	if err := m.store.Set(StorageKey, blob); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	log.Debug().Str("preferences", blob).Msg("preferences saved")
	return nil
}

// Current returns a copy of the in-memory preferences.
func (m *Manager) Current() Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *Manager) update(fn func(*Preferences)) (Preferences, error) {
	p := m.Current()
	fn(&p)
	return p, m.Save(p)
}

// SetSound toggles the notification tone.
func (m *Manager) SetSound(enabled bool) (Preferences, error) {
	return m.update(func(p *Preferences) { p.SoundEnabled = enabled })
}

// SetDarkMode toggles dark mode.
func (m *Manager) SetDarkMode(enabled bool) (Preferences, error) {
	return m.update(func(p *Preferences) { p.DarkMode = enabled })
}

// SetAutoSuggestions toggles the suggestion panel.
func (m *Manager) SetAutoSuggestions(enabled bool) (Preferences, error) {
	return m.update(func(p *Preferences) { p.AutoSuggestions = enabled })
}

// SetFontSize changes the font size. Unknown sizes are rejected.
func (m *Manager) SetFontSize(size FontSize) (Preferences, error) {
	if !size.Valid() {
		return m.Current(), fmt.Errorf("unknown font size %q", size)
	}
	return m.update(func(p *Preferences) { p.FontSize = size })
}

// Reset restores and persists the defaults.
func (m *Manager) Reset() (Preferences, error) {
	p := Defaults()
	return p, m.Save(p)
}

// =============================================================================
// KEY ACCESS
// =============================================================================

// Keys lists the settable preference names.
var Keys = []string{"soundEnabled", "darkMode", "autoSuggestions", "fontSize"}

func canonicalKey(key string) (string, bool) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(key))
	for _, k := range Keys {
		if strings.ToLower(k) == norm {
			return k, true
		}
	}
	return "", false
}

// Get returns the named preference formatted for display.
func (p Preferences) Get(key string) (string, error) {
	k, ok := canonicalKey(key)
	if !ok {
		return "", fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	switch k {
	case "soundEnabled":
		return strconv.FormatBool(p.SoundEnabled), nil
	case "darkMode":
		return strconv.FormatBool(p.DarkMode), nil
	case "autoSuggestions":
		return strconv.FormatBool(p.AutoSuggestions), nil
	default:
		return string(p.FontSize), nil
	}
}

// Set parses value and applies it to the named preference through the
// matching setter, so the change is persisted.
func (m *Manager) Set(key, value string) (Preferences, error) {
	k, ok := canonicalKey(key)
	if !ok {
		return m.Current(), fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	if k == "fontSize" {
		return m.SetFontSize(FontSize(strings.ToLower(value)))
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return m.Current(), fmt.Errorf("%s expects true or false, got %q", k, value)
	}
	switch k {
	case "soundEnabled":
		return m.SetSound(b)
	case "darkMode":
		return m.SetDarkMode(b)
	default:
		return m.SetAutoSuggestions(b)
	}
}
