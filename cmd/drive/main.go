package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/asset"
	"github.com/lixenwraith/arcade-drive/audio"
	"github.com/lixenwraith/arcade-drive/config"
	"github.com/lixenwraith/arcade-drive/engine"
	"github.com/lixenwraith/arcade-drive/input"
	"github.com/lixenwraith/arcade-drive/logging"
	"github.com/lixenwraith/arcade-drive/parameter"
	"github.com/lixenwraith/arcade-drive/render"
	"github.com/lixenwraith/arcade-drive/telemetry"
)

var (
	configFlag    = flag.String("config", "", "Path to a TOML config (default: ./drive.toml when present)")
	debugFlag     = flag.Bool("debug", false, "Write JSON logs to the configured log file")
	cameraFlag    = flag.String("camera", "", "Camera preset: cinematic, chase")
	muteFlag      = flag.Bool("mute", false, "Start muted")
	telemetryFlag = flag.String("telemetry", "", "Serve telemetry on this address, e.g. 127.0.0.1:8090")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "drive: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig applies command-line overrides on top of the file and environment
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, err
	}
	if *debugFlag {
		cfg.Log.Debug = true
	}
	if *cameraFlag != "" {
		cfg.Camera.Preset = *cameraFlag
	}
	if *telemetryFlag != "" {
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.Addr = *telemetryFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, logFile, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bindings, err := cfg.Bindings()
	if err != nil {
		return err
	}
	tracker := input.NewTracker(bindings, input.WithHold(cfg.Input.Hold, cfg.Input.InitialHold))
	assets := asset.NewTracker()

	player := audio.NewPlayer(audio.WithLogger(log))
	defer player.Close()
	player.SetMuted(*muteFlag)

	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithInput(tracker),
		engine.WithAssets(assets),
	}
	if cfg.Audio.Enabled {
		opts = append(opts, startSounds(ctx, cfg.Audio, player, assets, log)...)
	}

	if cfg.Telemetry.Enabled {
		hub := telemetry.NewHub(telemetry.WithLogger(log))
		defer hub.Close()
		go func() {
			if err := hub.Serve(ctx, cfg.Telemetry.Addr); err != nil {
				log.Error().Err(err).Str("addr", cfg.Telemetry.Addr).Msg("telemetry server stopped")
			}
		}()
		opts = append(opts, engine.WithPublisher(hub, cfg.Telemetry.Every))
	}

	game, err := engine.NewGame(ctx, cfg, opts...)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()

	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			crash(screen, log, "DRIVE CRASHED", r)
		}
	}()

	screen.EnableMouse()
	screen.HideCursor()
	w, h := screen.Size()
	tracker.SetScreenSize(w, h)

	return loop(ctx, screen, game, tracker, player, cfg.Sim, log)
}

// startSounds begins the engine hum and prepares the brake squeal
// Both load in the background and play once ready
func startSounds(ctx context.Context, cfg config.AudioConfig, player *audio.Player, assets *asset.Tracker, log zerolog.Logger) []engine.Option {
	if err := player.Initialize(); err != nil {
		log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		return nil
	}

	engineSound := audio.NewLazy(player, "engine",
		asset.Track(assets, "engine-sound", audio.LoadSound(ctx, cfg.EnginePath, audio.Synth(audio.EngineHum))), log)
	engineSound.SetLoop(true)
	engineSound.SetVolume(cfg.EngineVolume)
	engineSound.Play()

	brakeSound := audio.NewLazy(player, "brake",
		asset.Track(assets, "brake-sound", audio.LoadSound(ctx, cfg.BrakePath, audio.BrakeSqueal)), log)
	brakeSound.SetLoop(true)
	brakeSound.SetVolume(cfg.BrakeVolume)

	return []engine.Option{engine.WithEngineSound(engineSound), engine.WithBrakeSound(brakeSound)}
}

func loop(ctx context.Context, screen tcell.Screen, game *engine.Game, tracker *input.Tracker, player *audio.Player, sim config.SimConfig, log zerolog.Logger) error {
	orchestrator := render.NewOrchestrator(screen)

	eventChan := make(chan tcell.Event, parameter.EventQueueSize)
	// Input polling uses raw goroutine as it interacts directly with the screen
	go func() {
		defer func() {
			if r := recover(); r != nil {
				crash(screen, log, "EVENT POLLER CRASHED", r)
			}
		}()
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	steps := engine.NewLoop(sim.Timestep, sim.MaxSubSteps, engine.NewMonotonicTimeProvider())
	steps.Advance()

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	var status string
	var statusUntil time.Time
	setStatus := func(s string) {
		status = s
		statusUntil = time.Now().Add(parameter.StatusDuration)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			e := tracker.HandleEvent(ev)
			switch {
			case e.Resize:
				orchestrator.Resize(e.X, e.Y)
			case e.Click:
				game.HandleClick(orchestrator.View(game).ScreenToWorld(e.X, e.Y))
			}
			switch e.Action {
			case input.ActionQuit:
				return nil
			case input.ActionCamera:
				setStatus("camera: " + game.CycleCamera())
			case input.ActionMute:
				if player.ToggleMute() {
					setStatus("sound off")
				} else {
					setStatus("sound on")
				}
			case input.ActionReset:
				setStatus("vehicle reset")
			}

		case <-frameTicker.C:
			for n := steps.Advance(); n > 0; n-- {
				game.Tick(steps.Step())
			}
			for _, name := range game.TakeClicks() {
				setStatus(name + " clicked")
			}

			frame := orchestrator.Frame(game)
			frame.Buttons = tracker.Buttons()
			frame.Muted = player.Muted()
			if time.Now().Before(statusUntil) {
				frame.Status = status
			}
			orchestrator.RenderFrame(frame)
		}
	}
}

// crash restores the terminal and reports a panic with its stack
func crash(screen tcell.Screen, log zerolog.Logger, what string, r any) {
	screen.Fini()
	stack := debug.Stack()
	log.Error().Interface("panic", r).Bytes("stack", stack).Msg(what)
	writeCrash(os.Stderr, what, r, stack)
	os.Exit(1)
}

func writeCrash(w io.Writer, what string, r any, stack []byte) {
	fmt.Fprintf(w, "\n\x1b[31m%s: %v\x1b[0m\n", what, r)
	fmt.Fprintf(w, "Stack Trace:\n%s\n", stack)
}
