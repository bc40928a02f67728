package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/itohio/goldr/pkg/config"
	"github.com/itohio/goldr/pkg/link"
	"github.com/itohio/goldr/pkg/publish"
	"github.com/itohio/goldr/pkg/report"
	"github.com/itohio/goldr/pkg/store"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

func main() {
	var (
		portFlag     = flag.StringP("port", "p", "", "Serial port override (e.g., COM3 or /dev/ttyUSB0)")
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag     = flag.Bool("mock", false, "Use simulated device instead of serial port")
		headlessFlag = flag.Bool("headless", false, "Log reports instead of opening a window")
		dbFlag       = flag.String("db", "", "Report history database path (overrides config)")
		mqttFlag     = flag.String("mqtt", "", "MQTT broker URL, e.g. mqtt://localhost:1883/ldr (overrides config)")
		logLevelFlag = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *dbFlag != "" {
		cfg.Store.Path = *dbFlag
	}
	if *mqttFlag != "" {
		cfg.MQTT.URL = *mqttFlag
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}

	log := newLogger(cfg.Log.Level)

	s, cleanup, err := openSinks(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize outputs")
	}
	defer cleanup()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		useMock:    *mockFlag,
		sinks:      s,
		log:        log,
	}

	if *headlessFlag {
		if err := runHeadless(state); err != nil {
			log.Error().Err(err).Msg("Stopped")
			cleanup()
			os.Exit(1)
		}
		return
	}

	application := app.NewWithID("com.itohio.goldr")
	window := application.NewWindow("LDR Monitor")
	window.Resize(fyne.NewSize(480, 260))
	window.CenterOnScreen()
	state.window = window

	window.SetContent(buildUI(state))
	window.SetOnClosed(func() {
		closeChain(state.chain)
	})
	window.ShowAndRun()
}

// openSinks opens the optional report store and MQTT publisher.
func openSinks(cfg *config.Config, log zerolog.Logger) (*sinks, func(), error) {
	s := &sinks{log: log}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		closers = nil
	}

	if cfg.Store.Path != "" {
		repo, err := store.Open(store.Config{
			DBPath:        cfg.Store.Path,
			BatchSize:     cfg.Store.BatchSize,
			FlushInterval: cfg.Store.FlushInterval,
		}, log.With().Str("component", "store").Logger())
		if err != nil {
			return nil, nil, fmt.Errorf("open report store: %w", err)
		}
		s.store = repo
		closers = append(closers, func() {
			if err := repo.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close report store")
			}
		})
	}

	if cfg.MQTT.URL != "" {
		pub, disconnect, err := publish.Connect(cfg.MQTT.URL, cfg.MQTT.ClientID, cfg.MQTT.QoS,
			log.With().Str("component", "mqtt").Logger())
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect MQTT: %w", err)
		}
		s.publisher = pub
		closers = append(closers, disconnect)
	}

	return s, cleanup, nil
}

// newDevice creates the configured device.
func newDevice(state *appState) link.Device {
	if state.useMock {
		return link.NewMock(&state.cfg.Mock)
	}
	dev := link.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, link.DefaultBufferSize)
	dev.SetLogger(state.log)
	return dev
}

// runHeadless logs every summary until interrupted.
func runHeadless(state *appState) error {
	device := newDevice(state)
	if err := device.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	state.log.Info().Bool("mock", state.useMock).Str("port", state.cfg.Serial.Port).Msg("Connected")

	chain := startChain(device, state.cfg, state.useMock, state.sinks)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var interrupted atomic.Bool
	ended := make(chan struct{})
	defer close(ended)

	go func() {
		select {
		case sig := <-sigs:
			interrupted.Store(true)
			state.log.Info().Str("signal", sig.String()).Msg("Received termination signal")
			closeChain(chain)
		case <-ended:
		}
	}()

	consumeChain(chain, state.sinks, func(sum report.Summary) {
		st := sum.Channels[sum.Last.Channel]
		state.log.Info().
			Str("channel", sum.Last.Channel.String()).
			Str("value", sum.Last.Value.String()).
			Int("count", st.Count).
			Float64("mean", st.Mean).
			Dur("interval", sum.Interval).
			Msg("Report")
	})

	if !interrupted.Load() {
		closeChain(chain)
		return fmt.Errorf("device lost: %w", link.ErrNotConnected)
	}
	return nil
}
