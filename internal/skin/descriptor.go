// SPDX-License-Identifier: MIT
/*
Package skin defines the immutable, validated in-memory representation of
one skin's layout and the classification of a skin into its handler kind.

A Descriptor is produced once per skin activation by an external source
(see Source) and is never re-read or mutated mid-skin. Optional visual
elements are modeled as nullable sub-descriptors: a sub-descriptor is
either fully present or absent, never partially valid. All per-frame code
works from the resolved descriptor; nothing re-checks field presence in
the hot path.
*/
package skin

import "image"

// Point is a screen position in pixels.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Color is an RGB triple. Skins have no alpha in config; transparency
// comes from the image assets.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Descriptor is the immutable configuration of one skin.
type Descriptor struct {
	Name   string `yaml:"name"`
	Screen Size   `yaml:"screen"`

	// Static artwork references, resolved through Assets.
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"` // Drawn above everything (mask)

	// Meter needle geometry, one entry per channel.
	Meters []Meter `yaml:"meters"`

	// Optional animated elements. Presence drives classification.
	Spectrum  *Spectrum `yaml:"spectrum"`
	Vinyl     *Vinyl    `yaml:"vinyl"`
	ReelLeft  *Reel     `yaml:"reel_left"`
	ReelRight *Reel     `yaml:"reel_right"`
	Tonearm   *Tonearm  `yaml:"tonearm"`
	AlbumArt  *AlbumArt `yaml:"albumart"`

	// Text overlay fields.
	Artist     *TextField `yaml:"artist"`
	Title      *TextField `yaml:"title"`
	Album      *TextField `yaml:"album"`
	SampleInfo *TextField `yaml:"sample_info"`
	// Skin-wide scroll speed in px/s; per-field values take priority.
	ScrollSpeed float64 `yaml:"scroll_speed"`

	// Time and status overlays.
	Time       *TimeDisplay `yaml:"time"`
	Volume     *Indicator   `yaml:"volume"`
	Mute       *Indicator   `yaml:"mute"`
	Shuffle    *Indicator   `yaml:"shuffle"`
	Repeat     *Indicator   `yaml:"repeat"`
	PlayState  *Indicator   `yaml:"playstate"`
	Progress   *Progress    `yaml:"progress"`
	FormatIcon *FormatIcon  `yaml:"format_icon"`

	FontColor Color `yaml:"font_color"`
}

// Meter describes one VU needle: its pivot, sweep and image.
type Meter struct {
	Channel  int     `yaml:"channel"`
	Image    string  `yaml:"image"`
	Pivot    Point   `yaml:"pivot"`
	AngleMin float64 `yaml:"angle_min"` // Needle angle at level 0
	AngleMax float64 `yaml:"angle_max"` // Needle angle at level 1
}

// Spectrum describes the spectrum analyzer region.
type Spectrum struct {
	Pos   Point `yaml:"pos"`
	Size  Size  `yaml:"size"`
	Bars  int   `yaml:"bars"`
	Gap   int   `yaml:"gap"`
	Color Color `yaml:"color"`
}

// Vinyl describes the rotating platter disc. Center is the rotation pivot
// on screen; without it the disc is drawn statically at Pos.
type Vinyl struct {
	Image     string  `yaml:"image"`
	Pos       Point   `yaml:"pos"`
	Center    *Point  `yaml:"center"`
	RPM       float64 `yaml:"rpm"`
	Direction string  `yaml:"direction"` // cw|ccw
}

// Reel describes one cassette reel. Center is the rotation pivot; a reel
// without a center is static decoration.
type Reel struct {
	Image  string  `yaml:"image"`
	Pos    Point   `yaml:"pos"`
	Center *Point  `yaml:"center"`
	RPM    float64 `yaml:"rpm"`
}

// Tonearm describes the arm that tracks playback progress. Angles follow
// the engine convention: 0 = right, negative = clockwise. AngleStart and
// AngleEnd are author-supplied and may be in either order.
type Tonearm struct {
	Image       string  `yaml:"image"`
	PivotScreen Point   `yaml:"pivot_screen"` // Rotation pivot on screen
	PivotImage  Point   `yaml:"pivot_image"`  // Rotation pivot within the image
	AngleRest   float64 `yaml:"angle_rest"`
	AngleStart  float64 `yaml:"angle_start"` // Angle at 0% progress
	AngleEnd    float64 `yaml:"angle_end"`   // Angle at 100% progress
	DropSec     float64 `yaml:"drop_duration"`
	LiftSec     float64 `yaml:"lift_duration"`
}

// AlbumArt describes the cover art slot. When Rotation is set the art
// spins at RPM; combined with a vinyl it phase-locks to the platter.
type AlbumArt struct {
	Pos      Point   `yaml:"pos"`
	Dim      Size    `yaml:"dim"`
	Circle   bool    `yaml:"circle"`
	Border   int     `yaml:"border"`
	Rotation bool    `yaml:"rotation"`
	RPM      float64 `yaml:"rpm"`
}

// TextField describes one scrolling text overlay. Speed, when non-nil,
// overrides the skin-wide scroll speed.
type TextField struct {
	Pos      Point    `yaml:"pos"`
	MaxWidth int      `yaml:"max_width"`
	Color    *Color   `yaml:"color"`
	Center   bool     `yaml:"center"`
	Speed    *float64 `yaml:"speed"`
}

// TimeDisplay describes the elapsed/remaining time overlay.
type TimeDisplay struct {
	Pos   Point  `yaml:"pos"`
	Color *Color `yaml:"color"`
	// What to show: "elapsed", "remaining" or "total".
	Mode string `yaml:"mode"`
}

// IndicatorStyle selects how a status indicator is drawn.
type IndicatorStyle string

const (
	StyleGlyph IndicatorStyle = "glyph" // Colored glyph from the font
	StyleImage IndicatorStyle = "image" // Per-state image
)

// Indicator describes a status glyph (volume, mute, shuffle, repeat,
// play-state). Images maps state names to asset names for StyleImage.
type Indicator struct {
	Pos    Point             `yaml:"pos"`
	Dim    Size              `yaml:"dim"`
	Style  IndicatorStyle    `yaml:"style"`
	Color  *Color            `yaml:"color"`
	Images map[string]string `yaml:"images"`
}

// ProgressStyle selects the geometry of the progress display.
type ProgressStyle string

const (
	ProgressSlider  ProgressStyle = "slider"
	ProgressArc     ProgressStyle = "arc"
	ProgressKnob    ProgressStyle = "knob"
	ProgressNumeric ProgressStyle = "numeric"
)

// Progress describes the playback progress display. All styles share the
// same 0-100% value; the style only changes the geometry it is mapped to.
type Progress struct {
	Pos        Point         `yaml:"pos"`
	Size       Size          `yaml:"size"`
	Style      ProgressStyle `yaml:"style"`
	Color      *Color        `yaml:"color"`
	AngleStart float64       `yaml:"angle_start"` // arc/knob only
	AngleEnd   float64       `yaml:"angle_end"`   // arc/knob only
	KnobImage  string        `yaml:"knob_image"`
}

// FormatIcon describes the track-format icon slot (flac, dsd, ...).
type FormatIcon struct {
	Pos   Point  `yaml:"pos"`
	Dim   Size   `yaml:"dim"`
	Color *Color `yaml:"color"`
}

// Assets resolves image references in a Descriptor to decoded images.
// Implementations are external collaborators; the engine loads assets
// only at skin activation, never in the steady-state loop.
type Assets interface {
	Image(name string) (*image.RGBA, error)
}

// Source produces validated descriptors. The on-disk skin format is an
// external concern; the engine consumes whatever a Source yields.
type Source interface {
	Names() ([]string, error)
	Load(name string) (*Descriptor, error)
}
