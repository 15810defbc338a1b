// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vumeter/cmd"
	"vumeter/internal/art"
	"vumeter/internal/capture"
	"vumeter/internal/config"
	"vumeter/internal/display"
	"vumeter/internal/handler"
	"vumeter/internal/log"
	"vumeter/internal/meta"
	"vumeter/internal/render"
	"vumeter/internal/skin"
	"vumeter/internal/transport"
	"vumeter/internal/transport/udp"
	"vumeter/internal/tui"
)

// main runs in three phases: startup (config, logger, one-off
// commands), wiring (skin, handlers, collaborators), and the render
// loop under errgroup supervision.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	options, err := cmd.ParseArgs()
	if err != nil {
		return err
	}

	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		return err
	}
	options.Apply(cfg)

	level, _ := log.ParseLevel(cfg.LogLevel)
	if cfg.Debug && level > log.LevelDebug {
		level = log.LevelDebug
	}
	logger := log.New(level, cfg.TraceComponents...)

	source := skin.NewDirSource(options.SkinsDir, logger)

	switch options.Command {
	case "list":
		return listSkins(source)
	case "devices":
		return listDevices()
	case "browse":
		return tui.StartSkinListUI(source)
	}

	return runEngine(options, cfg, source, logger)
}

func listSkins(source skin.Source) error {
	names, err := source.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		d, err := source.Load(name)
		if err != nil {
			fmt.Printf("  %-24s (broken: %v)\n", name, err)
			continue
		}
		fmt.Printf("  %-24s %s, %dx%d\n", name, skin.Classify(d), d.Screen.W, d.Screen.H)
	}
	return nil
}

func listDevices() error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	defer capture.Terminate()
	return capture.ListDevices(os.Stdout)
}

func runEngine(options *cmd.Options, cfg *config.Config, source *skin.DirSource, logger *log.Logger) error {
	// Resolve the skin before touching any device.
	name := options.SkinName
	if name == "" {
		names, err := source.Names()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return fmt.Errorf("no skins found in %s", options.SkinsDir)
		}
		name = names[0]
	}
	desc, err := source.Load(name)
	if err != nil {
		return fmt.Errorf("failed to load skin %q: %w", name, err)
	}

	store := meta.NewStore()
	h, err := handler.New(desc, source.Assets(name), art.NewFetcher(logger), cfg, store, logger)
	if err != nil {
		return fmt.Errorf("failed to build handler for %q: %w", name, err)
	}
	logger.Infof("skin %q (%s), %dx%d at %d fps",
		h.Name(), h.Kind(), desc.Screen.W, desc.Screen.H, cfg.Render.FrameRate)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// Audio capture publishes level snapshots into the store. A missing
	// or failing input device degrades to a silent meter, it never stops
	// the screensaver.
	if cfg.Capture.Enabled {
		if err := startCapture(ctx, g, cfg, store, logger); err != nil {
			logger.Warnf("audio capture unavailable, rendering without levels: %v", err)
		}
	}

	// Remote re-export.
	if cfg.Transport.WSEnabled {
		hub := transport.NewWebSocketTransport(cfg.Transport.WSAddr, store, logger)
		g.Go(func() error {
			ticker := time.NewTicker(100 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					hub.Send(transport.MakeSnapshot(store.State(), store.Levels()))
				case <-ctx.Done():
					return hub.Close()
				}
			}
		})
	}
	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewSender(cfg.Transport.UDPTargetAddress, logger)
		if err != nil {
			return err
		}
		pub, err := udp.NewPublisher(
			time.Duration(cfg.Transport.UDPSendIntervalMS)*time.Millisecond,
			sender, store, logger)
		if err != nil {
			return err
		}
		pub.Start()
		g.Go(func() error {
			<-ctx.Done()
			pub.Close()
			return sender.Close()
		})
	}

	// The render loop runs on its own goroutine and pushes completed
	// frames to the window.
	viewer := display.NewViewer(desc.Screen.W, desc.Screen.H, logger)
	sched := render.NewScheduler(cfg.Render, logger)
	g.Go(func() error {
		return sched.Run(ctx, func(fi render.FrameInfo) {
			h.RenderFrame(fi)
			if len(h.Damage()) > 0 || fi.Index == 0 {
				viewer.Push(h.Frame().Pix)
			}
		})
	})

	// The window loop owns the main thread until the window closes.
	g.Go(func() error {
		defer cancel()
		return viewer.Run(fmt.Sprintf("vumeter - %s", h.Name()))
	})

	return g.Wait()
}

func startCapture(ctx context.Context, g *errgroup.Group, cfg *config.Config, store *meta.Store, logger *log.Logger) error {
	if err := capture.Initialize(); err != nil {
		return err
	}
	engine, err := capture.NewEngine(cfg.Capture, cfg.Recording, store, logger)
	if err != nil {
		capture.Terminate()
		return err
	}
	if err := engine.StartInputStream(); err != nil {
		capture.Terminate()
		return err
	}
	g.Go(func() error {
		<-ctx.Done()
		err := engine.Close()
		capture.Terminate()
		return err
	})
	return nil
}
