// SPDX-License-Identifier: MIT
package handler

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"vumeter/internal/config"
	"vumeter/internal/log"
	"vumeter/internal/meta"
	"vumeter/internal/render"
	"vumeter/internal/skin"
)

// base carries the renderers every handler kind shares: needles,
// spectrum, text overlays, indicators, time/progress, album art slot and
// the foreground mask. Turntable and cassette embed it and add their
// mechanical elements.
type base struct {
	logger *log.Logger
	desc   *skin.Descriptor
	assets skin.Assets
	art    ArtProvider
	cfg    *config.Config
	store  *meta.Store

	comp    *render.Compositor
	persist *persistence

	needles     []*Needle
	needleLayer *render.Layer
	spectrum    *render.SpectrumRenderer

	textLayer *render.Layer
	scrollers []*boundScroller

	indLayer  *render.Layer
	volume    *render.VolumeBar
	mute      *render.StateIndicator
	shuffle   *render.StateIndicator
	repeat    *render.StateIndicator
	playstate *render.StateIndicator
	progress  *render.ProgressRenderer

	metaLayer  *render.Layer
	timeR      *render.TimeRenderer
	lastFormat string

	artLayer *render.Layer
	artRef   string

	lastLevelsAt time.Time
	damage       []image.Rectangle
}

// boundScroller ties a scroller to the track field it displays.
type boundScroller struct {
	sc    *render.Scroller
	field func(*meta.Track) string
}

func newBase(d *skin.Descriptor, assets skin.Assets, art ArtProvider, cfg *config.Config, store *meta.Store, logger *log.Logger) (*base, error) {
	bg, err := assets.Image(d.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	b := &base{
		logger:  logger,
		desc:    d,
		assets:  assets,
		art:     art,
		cfg:     cfg,
		store:   store,
		comp:    render.NewCompositor(d.Screen.W, d.Screen.H, bg, logger),
		persist: newPersistence(cfg.Render),
	}

	if err := b.buildNeedles(); err != nil {
		return nil, err
	}
	if d.Spectrum != nil {
		r := image.Rect(d.Spectrum.Pos.X, d.Spectrum.Pos.Y,
			d.Spectrum.Pos.X+d.Spectrum.Size.W, d.Spectrum.Pos.Y+d.Spectrum.Size.H)
		layer := b.comp.AddLayer("spectrum", render.ZNeedles, r)
		b.spectrum = render.NewSpectrum(d.Spectrum, layer, logger)
	}
	b.buildText()
	if err := b.buildIndicators(); err != nil {
		return nil, err
	}
	// Rotating art is the turntable handler's spinner; only static art
	// gets the plain slot layer.
	if d.AlbumArt != nil && !d.AlbumArt.Rotation {
		r := image.Rect(d.AlbumArt.Pos.X, d.AlbumArt.Pos.Y,
			d.AlbumArt.Pos.X+d.AlbumArt.Dim.W, d.AlbumArt.Pos.Y+d.AlbumArt.Dim.H)
		b.artLayer = b.comp.AddLayer("albumart", render.ZAlbumArt, r)
	}
	if d.Foreground != "" {
		fg, err := assets.Image(d.Foreground)
		if err != nil {
			return nil, fmt.Errorf("foreground: %w", err)
		}
		layer := b.comp.AddLayer("foreground", render.ZForeground, image.Rectangle{})
		layer.Surface().Blit(render.Scale(fg, d.Screen.W, d.Screen.H), image.Point{})
		layer.MarkDirty()
	}
	return b, nil
}

func (b *base) buildNeedles() error {
	if len(b.desc.Meters) == 0 {
		return nil
	}
	b.needleLayer = b.comp.AddLayer("needles", render.ZNeedles, image.Rectangle{})
	for i := range b.desc.Meters {
		m := &b.desc.Meters[i]
		img, err := b.assets.Image(m.Image)
		if err != nil {
			return fmt.Errorf("meter %d: %w", i, err)
		}
		b.needles = append(b.needles, NewNeedle(m, img, image.Point{}, b.logger))
	}
	return nil
}

func (b *base) buildText() {
	fields := []struct {
		f     *skin.TextField
		value func(*meta.Track) string
	}{
		{b.desc.Artist, func(t *meta.Track) string { return t.Artist }},
		{b.desc.Title, func(t *meta.Track) string { return t.Title }},
		{b.desc.Album, func(t *meta.Track) string { return t.Album }},
		{b.desc.SampleInfo, func(t *meta.Track) string { return t.SampleInfo }},
	}
	for _, fd := range fields {
		if fd.f == nil {
			continue
		}
		if b.textLayer == nil {
			b.textLayer = b.comp.AddLayer("text", render.ZText, image.Rectangle{})
		}
		b.scrollers = append(b.scrollers, &boundScroller{
			sc:    render.NewScroller(fd.f, b.desc.ScrollSpeed, b.desc.FontColor, b.logger),
			field: fd.value,
		})
	}
}

func (b *base) buildIndicators() error {
	d := b.desc
	needInd := d.Volume != nil || d.Mute != nil || d.Shuffle != nil ||
		d.Repeat != nil || d.PlayState != nil || d.Progress != nil
	if needInd {
		b.indLayer = b.comp.AddLayer("indicators", render.ZIndicators, image.Rectangle{})
	}
	var err error
	if d.Volume != nil {
		b.volume = render.NewVolumeBar(d.Volume)
	}
	if d.Mute != nil {
		b.mute, err = render.NewStateIndicator(d.Mute, b.assets,
			[]string{"off", "muted", "zero"}, render.LEDColorsMute, b.logger)
		if err != nil {
			return err
		}
	}
	if d.Shuffle != nil {
		b.shuffle, err = render.NewStateIndicator(d.Shuffle, b.assets,
			[]string{"off", "on"}, render.LEDColorsOnOff, b.logger)
		if err != nil {
			return err
		}
	}
	if d.Repeat != nil {
		b.repeat, err = render.NewStateIndicator(d.Repeat, b.assets,
			[]string{"off", "all", "single"}, render.LEDColorsRepeat, b.logger)
		if err != nil {
			return err
		}
	}
	if d.PlayState != nil {
		b.playstate, err = render.NewStateIndicator(d.PlayState, b.assets,
			[]string{"stop", "play", "pause"}, render.LEDColorsPlayState, b.logger)
		if err != nil {
			return err
		}
	}
	if d.Progress != nil {
		b.progress, err = render.NewProgressRenderer(d.Progress, b.assets)
		if err != nil {
			return err
		}
	}
	if d.Time != nil || d.FormatIcon != nil {
		b.metaLayer = b.comp.AddLayer("meta", render.ZMeta, image.Rectangle{})
	}
	if d.Time != nil {
		b.timeR = render.NewTimeRenderer(d.Time)
	}
	return nil
}

func (b *base) Name() string              { return b.desc.Name }
func (b *base) Frame() *image.RGBA        { return b.comp.Frame() }
func (b *base) Damage() []image.Rectangle { return b.damage }

// renderCommon runs the renderers shared by all handler kinds for one
// frame. Mechanical elements are the embedding handler's business.
func (b *base) renderCommon(fi render.FrameInfo, st *meta.PlaybackState) {
	lv := b.store.Levels()

	// Needles and spectrum recompute on the sub-rate only, and not at all
	// when no new audio sample arrived since the last recompute.
	if fi.Recompute && (lv.At != b.lastLevelsAt || fi.Index == 0) {
		b.lastLevelsAt = lv.At
		b.renderLevels(lv)
	}

	for _, bs := range b.scrollers {
		bs.sc.SetText(bs.field(&st.Track))
		if bs.sc.Tick(fi.Now) {
			bs.sc.Draw(b.textLayer)
		}
	}

	if b.indLayer != nil {
		if b.volume != nil {
			b.volume.Render(b.indLayer, st.Volume)
		}
		if b.mute != nil {
			b.mute.Render(b.indLayer, render.MuteState(st))
		}
		if b.shuffle != nil {
			shuffle := 0
			if st.Shuffle {
				shuffle = 1
			}
			b.shuffle.Render(b.indLayer, shuffle)
		}
		if b.repeat != nil {
			b.repeat.Render(b.indLayer, int(st.Repeat))
		}
		if b.playstate != nil {
			b.playstate.Render(b.indLayer, render.PlayState(st))
		}
		if b.progress != nil {
			if p, ok := st.ProgressFor(b.cfg.Progress.QueueMode, fi.Now); ok {
				b.progress.Render(b.indLayer, p)
			}
		}
	}

	if b.metaLayer != nil {
		if b.timeR != nil {
			b.timeR.Render(b.metaLayer, b.timeString(st, fi.Now))
		}
		b.renderFormatIcon(st)
	}

	b.renderAlbumArt(st)
}

// renderLevels drives the needles and spectrum from one level snapshot.
// A single meter takes the mono mix; with two or more, channel 0 is left
// and channel 1 right.
func (b *base) renderLevels(lv *meta.Levels) {
	for _, n := range b.needles {
		var level float64
		switch {
		case len(b.needles) == 1:
			level = lv.Mono()
		case n.desc.Channel == 0:
			level = lv.Left
		case n.desc.Channel == 1:
			level = lv.Right
		default:
			level = lv.Mono()
		}
		n.Render(b.needleLayer, level)
	}
	if b.spectrum != nil {
		b.spectrum.Render(lv.Bands)
	}
}

// timeString resolves the time display for this frame, honoring the
// display mode and the persistence window behavior.
func (b *base) timeString(st *meta.PlaybackState, now time.Time) string {
	var s string
	switch b.desc.Time.Mode {
	case "remaining":
		s = "-" + render.FormatClock(st.Remaining(now))
	case "total":
		s = render.FormatClock(st.Track.DurationSec)
	default:
		s = render.FormatClock(st.Position(now))
	}
	return b.persist.TimeString(st, now, s)
}

func (b *base) renderFormatIcon(st *meta.PlaybackState) {
	fi := b.desc.FormatIcon
	if fi == nil || st.Track.Format == b.lastFormat {
		return
	}
	b.lastFormat = st.Track.Format
	surf := b.metaLayer.Surface()
	box := image.Rect(fi.Pos.X, fi.Pos.Y, fi.Pos.X+fi.Dim.W, fi.Pos.Y+fi.Dim.H)
	surf.Clear(box)
	c := color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 255}
	if fi.Color != nil {
		c = color.RGBA{R: fi.Color.R, G: fi.Color.G, B: fi.Color.B, A: 255}
	}
	render.DrawText(surf, st.Track.Format, image.Point{X: fi.Pos.X, Y: fi.Pos.Y}, c)
	b.metaLayer.MarkDirty()
}

// renderAlbumArt refreshes the static art slot when the track's art
// reference changes. Rotating art is the turntable handler's job; it
// claims the slot by leaving desc.AlbumArt handling to its own spinner.
func (b *base) renderAlbumArt(st *meta.PlaybackState) {
	d := b.desc.AlbumArt
	if d == nil || b.artLayer == nil || st.Track.AlbumArtRef == b.artRef {
		return
	}
	b.artRef = st.Track.AlbumArtRef
	img := b.fetchArt(b.artRef, d)
	b.artLayer.Clear()
	if img != nil {
		b.artLayer.Surface().Blit(img, image.Point{X: d.Border, Y: d.Border})
	}
	b.artLayer.MarkDirty()
}

// fetchArt resolves and shapes the art image, nil when unavailable.
func (b *base) fetchArt(ref string, d *skin.AlbumArt) *image.RGBA {
	if ref == "" || b.art == nil {
		return nil
	}
	img, err := b.art.Art(ref)
	if err != nil {
		b.logger.Warnf("album art %q: %v", ref, err)
		return nil
	}
	w, h := d.Dim.W-2*d.Border, d.Dim.H-2*d.Border
	if w < 1 || h < 1 {
		w, h = d.Dim.W, d.Dim.H
	}
	img = render.Scale(img, w, h)
	if d.Circle {
		img = render.CircleCrop(img)
	}
	return img
}

// finish folds the frame together and records the damage.
func (b *base) finish() {
	b.damage = b.comp.Composite()
}
