// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/healthmate-tui/internal/prefs"
)

// Marker names mirror the class names a page would carry.
const (
	MarkerDarkMode   = "dark-mode"
	FontMarkerPrefix = "font-"
)

// FontProfile is the terminal rendition of a font size.
type FontProfile struct {
	// BubblePadding is vertical, horizontal padding inside message bubbles.
	BubblePadding [2]int
	// Spacing is the number of blank lines between messages.
	Spacing int
	// Bold renders message bodies in bold.
	Bold bool
}

// FontProfiles maps each font size to its profile.
var FontProfiles = map[prefs.FontSize]FontProfile{
	prefs.FontSmall:  {BubblePadding: [2]int{0, 1}, Spacing: 0},
	prefs.FontMedium: {BubblePadding: [2]int{0, 2}, Spacing: 1},
	prefs.FontLarge:  {BubblePadding: [2]int{1, 2}, Spacing: 1, Bold: true},
	prefs.FontXLarge: {BubblePadding: [2]int{1, 3}, Spacing: 2, Bold: true},
}

// Theme holds all the styled components for the application.
type Theme struct {
	renderer *lipgloss.Renderer

	// Applied preferences
	DarkMode bool
	FontSize prefs.FontSize
	Profile  FontProfile

	// Terminal capabilities
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER / STATUS STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble  lipgloss.Style
	BotBubble   lipgloss.Style
	UserLabel   lipgloss.Style
	BotLabel    lipgloss.Style
	Timestamp   lipgloss.Style
	MessageBody lipgloss.Style
	Typing      lipgloss.Style
	EmptyState  lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	SendEnabled    lipgloss.Style
	SendDisabled   lipgloss.Style
	Recording      lipgloss.Style

	// ==========================================================================
	// PANEL STYLES
	// ==========================================================================

	Panel        lipgloss.Style
	PanelTitle   lipgloss.Style
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style
	Row          lipgloss.Style
	RowSelected  lipgloss.Style
	ToggleOn     lipgloss.Style
	ToggleOff    lipgloss.Style
	ConfirmBox   lipgloss.Style
	Hint         lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// NewTheme creates a theme rendering for out with the given preferences
// applied. A nil out means stdout.
func NewTheme(out io.Writer, darkMode bool, size prefs.FontSize) *Theme {
	if out == nil {
		out = os.Stdout
	}
	r := lipgloss.NewRenderer(out)

	t := &Theme{
		renderer:     r,
		ColorProfile: r.ColorProfile(),
	}
	t.DarkMode = darkMode
	r.SetHasDarkBackground(darkMode)
	t.setFont(size)
	t.initStyles()
	return t
}

// Renderer returns the renderer every style is bound to.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// ApplyDarkMode sets the single dark mode flag.
func (t *Theme) ApplyDarkMode(on bool) {
	t.DarkMode = on
	t.renderer.SetHasDarkBackground(on)
}

// ApplyFontSize replaces the active font profile. Unknown sizes fall back to
// medium.
func (t *Theme) ApplyFontSize(size prefs.FontSize) {
	t.setFont(size)
	t.initStyles()
}

// Apply replays a full preference record onto the theme.
func (t *Theme) Apply(p prefs.Preferences) {
	t.ApplyDarkMode(p.DarkMode)
	t.ApplyFontSize(p.FontSize)
}

func (t *Theme) setFont(size prefs.FontSize) {
	if !size.Valid() {
		size = prefs.FontMedium
	}
	t.FontSize = size
	t.Profile = FontProfiles[size]
}

// Markers lists the active document markers: the dark mode marker when
// enabled and exactly one font marker.
func (t *Theme) Markers() []string {
	var markers []string
	if t.DarkMode {
		markers = append(markers, MarkerDarkMode)
	}
	return append(markers, FontMarkerPrefix+string(t.FontSize))
}

// GlamourStyle names the glamour standard style matching dark mode.
func (t *Theme) GlamourStyle() string {
	if t.DarkMode {
		return "dark"
	}
	return "light"
}

// initStyles builds every style on the theme's renderer.
func (t *Theme) initStyles() {
	r := t.renderer
	pad := t.Profile.BubblePadding

	// Header
	t.Header = r.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = r.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.HeaderSubtitle = r.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.StatusBar = r.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = r.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = r.NewStyle().
		Foreground(TextMuted)

	// Message bubbles
	t.UserBubble = r.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(pad[0], pad[1]).
		MarginLeft(4)

	t.BotBubble = r.NewStyle().
		Foreground(BotBubbleFg).
		Background(BotBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(pad[0], pad[1]).
		MarginRight(4)

	t.UserLabel = r.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.BotLabel = r.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.Timestamp = r.NewStyle().
		Foreground(TextMuted)

	t.MessageBody = r.NewStyle().
		Bold(t.Profile.Bold)

	t.Typing = r.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.EmptyState = r.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Align(lipgloss.Center)

	// Input area
	t.InputContainer = r.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SendEnabled = r.NewStyle().
		Foreground(Teal).
		Bold(true)

	// Disabled send is only de-emphasised.
	t.SendDisabled = r.NewStyle().
		Foreground(TextMuted).
		Faint(true)

	t.Recording = r.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Panels
	t.Panel = r.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelTitle = r.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.Chip = r.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceBright).
		Padding(0, 1)

	t.ChipSelected = r.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true).
		Padding(0, 1)

	t.Row = r.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.RowSelected = r.NewStyle().
		Foreground(Teal).
		Bold(true).
		PaddingLeft(2)

	t.ToggleOn = r.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ToggleOff = r.NewStyle().
		Foreground(TextMuted)

	t.ConfirmBox = r.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.Hint = r.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Toasts
	toast := r.NewStyle().
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 2)
	t.ToastInfo = toast.Background(Cyan)
	t.ToastSuccess = toast.Background(Emerald)
	t.ToastWarning = toast.Background(Amber)
	t.ToastError = toast.Background(Rose)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
