// SPDX-License-Identifier: MIT
package skin

import (
	"os"
	"path/filepath"
	"testing"

	"vumeter/internal/log"
)

func baseDescriptor() *Descriptor {
	return &Descriptor{
		Name:       "test",
		Screen:     Size{W: 480, H: 320},
		Background: "bgr.png",
		Meters: []Meter{
			{Channel: 0, Image: "needle.png", Pivot: Point{X: 120, Y: 200}, AngleMin: 135, AngleMax: 45},
			{Channel: 1, Image: "needle.png", Pivot: Point{X: 360, Y: 200}, AngleMin: 135, AngleMax: 45},
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Descriptor)
		want  Kind
	}{
		{"plain meters", func(d *Descriptor) {}, KindBasic},
		{"static vinyl stays basic", func(d *Descriptor) {
			d.Vinyl = &Vinyl{Image: "disc.png"}
		}, KindBasic},
		{"vinyl with center", func(d *Descriptor) {
			d.Vinyl = &Vinyl{Image: "disc.png", Center: &Point{X: 240, Y: 160}, RPM: 6}
		}, KindTurntable},
		{"tonearm alone", func(d *Descriptor) {
			d.Tonearm = &Tonearm{Image: "arm.png", AngleStart: 24, AngleEnd: -2}
		}, KindTurntable},
		{"rotating album art", func(d *Descriptor) {
			d.AlbumArt = &AlbumArt{Dim: Size{W: 200, H: 200}, Rotation: true, RPM: 6}
		}, KindTurntable},
		{"static album art stays basic", func(d *Descriptor) {
			d.AlbumArt = &AlbumArt{Dim: Size{W: 200, H: 200}}
		}, KindBasic},
		{"left reel with center", func(d *Descriptor) {
			d.ReelLeft = &Reel{Image: "reel.png", Center: &Point{X: 137, Y: 187}, RPM: 20}
		}, KindCassette},
		{"both reels", func(d *Descriptor) {
			d.ReelLeft = &Reel{Image: "reel.png", Center: &Point{X: 137, Y: 187}, RPM: 20}
			d.ReelRight = &Reel{Image: "reel.png", Center: &Point{X: 343, Y: 187}, RPM: 20}
		}, KindCassette},
		{"centerless reel stays basic", func(d *Descriptor) {
			d.ReelLeft = &Reel{Image: "reel.png"}
		}, KindBasic},
		{"tonearm wins over reels", func(d *Descriptor) {
			d.Tonearm = &Tonearm{Image: "arm.png", AngleStart: 24, AngleEnd: -2}
			d.ReelLeft = &Reel{Image: "reel.png", Center: &Point{X: 137, Y: 187}, RPM: 20}
		}, KindTurntable},
		{"vinyl center wins over reels", func(d *Descriptor) {
			d.Vinyl = &Vinyl{Image: "disc.png", Center: &Point{X: 240, Y: 160}, RPM: 6}
			d.ReelRight = &Reel{Image: "reel.png", Center: &Point{X: 343, Y: 187}, RPM: 20}
		}, KindTurntable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDescriptor()
			tt.setup(d)
			if got := Classify(d); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateHardErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Descriptor)
	}{
		{"no name", func(d *Descriptor) { d.Name = "" }},
		{"zero screen", func(d *Descriptor) { d.Screen = Size{} }},
		{"no background", func(d *Descriptor) { d.Background = "" }},
		{"meter without image", func(d *Descriptor) { d.Meters[0].Image = "" }},
		{"meter with zero sweep", func(d *Descriptor) { d.Meters[1].AngleMax = d.Meters[1].AngleMin }},
		{"tonearm without image", func(d *Descriptor) {
			d.Tonearm = &Tonearm{AngleStart: 24, AngleEnd: -2}
		}},
		{"tonearm with equal angles", func(d *Descriptor) {
			d.Tonearm = &Tonearm{Image: "arm.png", AngleStart: 10, AngleEnd: 10}
		}},
		{"reel without image", func(d *Descriptor) {
			d.ReelRight = &Reel{Center: &Point{X: 343, Y: 187}}
		}},
		{"spectrum without bars", func(d *Descriptor) {
			d.Spectrum = &Spectrum{Size: Size{W: 200, H: 80}}
		}},
		{"unknown progress style", func(d *Descriptor) {
			d.Progress = &Progress{Style: "dial"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDescriptor()
			tt.setup(d)
			if err := Validate(d, log.Discard()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateDefaultsProgressStyle(t *testing.T) {
	d := baseDescriptor()
	d.Progress = &Progress{Size: Size{W: 200, H: 6}}
	if err := Validate(d, log.Discard()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if d.Progress.Style != ProgressSlider {
		t.Errorf("progress style = %q, want slider default", d.Progress.Style)
	}
}

func TestValidateAllowsMixedMarkers(t *testing.T) {
	// Mixed markers warn but still load; classification resolves them.
	d := baseDescriptor()
	d.Tonearm = &Tonearm{Image: "arm.png", AngleStart: 24, AngleEnd: -2}
	d.ReelLeft = &Reel{Image: "reel.png", Center: &Point{X: 137, Y: 187}}
	if err := Validate(d, log.Discard()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := Classify(d); got != KindTurntable {
		t.Errorf("Classify() = %s, want turntable", got)
	}
}

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	writeSkin := func(name, yaml string) {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "skin.yaml"), []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeSkin("tape", `
screen: {w: 480, h: 320}
background: bgr.png
meters:
  - {channel: 0, image: needle.png, pivot: {x: 120, y: 200}, angle_min: 135, angle_max: 45}
reel_left:
  image: reel.png
  center: {x: 137, y: 187}
  rpm: 20
`)
	writeSkin("deck", `
screen: {w: 800, h: 480}
background: bgr.png
vinyl:
  image: disc.png
  center: {x: 400, y: 240}
  rpm: 6
tonearm:
  image: arm.png
  pivot_screen: {x: 650, y: 90}
  angle_rest: 38
  angle_start: 24
  angle_end: -2
  drop_duration: 1.5
  lift_duration: 1.0
`)
	// A stray non-skin directory is ignored.
	if err := os.MkdirAll(filepath.Join(root, "fonts"), 0o755); err != nil {
		t.Fatal(err)
	}

	src := NewDirSource(root, log.Discard())
	names, err := src.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 || names[0] != "deck" || names[1] != "tape" {
		t.Errorf("Names() = %v, want [deck tape]", names)
	}

	tape, err := src.Load("tape")
	if err != nil {
		t.Fatalf("Load(tape): %v", err)
	}
	if tape.Name != "tape" {
		t.Errorf("name = %q, want directory name fallback", tape.Name)
	}
	if got := Classify(tape); got != KindCassette {
		t.Errorf("Classify(tape) = %s, want cassette", got)
	}
	if tape.ReelLeft.Center.X != 137 || tape.ReelLeft.Center.Y != 187 {
		t.Errorf("reel center = %+v", tape.ReelLeft.Center)
	}

	deck, err := src.Load("deck")
	if err != nil {
		t.Fatalf("Load(deck): %v", err)
	}
	if got := Classify(deck); got != KindTurntable {
		t.Errorf("Classify(deck) = %s, want turntable", got)
	}
	if deck.Tonearm.DropSec != 1.5 {
		t.Errorf("drop duration = %f, want 1.5", deck.Tonearm.DropSec)
	}

	if _, err := src.Load("missing"); err == nil {
		t.Error("expected error for unknown skin")
	}
}

func TestMemSource(t *testing.T) {
	src := NewMemSource(baseDescriptor())
	names, err := src.Names()
	if err != nil || len(names) != 1 || names[0] != "test" {
		t.Fatalf("Names() = %v, %v", names, err)
	}
	if _, err := src.Load("test"); err != nil {
		t.Errorf("Load: %v", err)
	}
	if _, err := src.Load("other"); err == nil {
		t.Error("expected error for unknown skin")
	}
}
