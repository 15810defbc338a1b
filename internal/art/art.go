// SPDX-License-Identifier: MIT

// Package art resolves album-art references pushed by the player. A
// reference is either an HTTP(S) URL or a local file path; the decoded
// image is cached so repeated pushes for the same track fetch once.
package art

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"
	"time"

	"vumeter/internal/log"
)

// Fetcher loads and decodes album art. Safe for use from the single
// render goroutine; fetching happens at track-change time, never per
// frame.
type Fetcher struct {
	client *http.Client
	logger *log.Logger

	lastRef string
	lastImg *image.RGBA
}

// NewFetcher returns a fetcher with a bounded request timeout.
func NewFetcher(logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Fetcher{
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger.Component("art"),
	}
}

// Art resolves one reference to a decoded image.
func (f *Fetcher) Art(ref string) (*image.RGBA, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty album art reference")
	}
	if ref == f.lastRef && f.lastImg != nil {
		return f.lastImg, nil
	}

	var (
		src image.Image
		err error
	)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		src, err = f.fetchHTTP(ref)
	} else {
		src, err = f.loadFile(ref)
	}
	if err != nil {
		return nil, err
	}

	img := toRGBA(src)
	f.lastRef = ref
	f.lastImg = img
	f.logger.Debugf("loaded %s (%dx%d)", ref, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

func (f *Fetcher) fetchHTTP(url string) (image.Image, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album art: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("album art fetch returned %s", resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode album art: %w", err)
	}
	return img, nil
}

func (f *Fetcher) loadFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open album art: %w", err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode album art: %w", err)
	}
	return img, nil
}

func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
