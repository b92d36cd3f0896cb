package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-fluid/fluid/pkg/app"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/messaging"
	"github.com/go-fluid/fluid/pkg/messaging/mqttbridge"
)

func init() {
	RegisterCommand(&Command{
		Name:  "play",
		Short: "Play a script in real time",
		Long: `Play a script through the frame loop and print the final state of every
view.

Flags:
  --reverse          Play back to the starting state afterwards
  --duration D       Duration of the reverse pass (default: the forward time)
  --publish TOPIC    Publish playback events to the configured MQTT broker`,
		Usage: "xanim play <script> [--reverse] [--duration D] [--publish TOPIC]",
		Run:   runPlay,
	})
}

// PlaybackEvent is published on the hub when a playback pass starts or
// finishes.
type PlaybackEvent struct {
	Script  string        `json:"script"`
	Phase   string        `json:"phase"`
	Reverse bool          `json:"reverse"`
	Elapsed time.Duration `json:"elapsed"`
}

func runPlay(args []string) error {
	flags, err := parseFlags(args, flagSpec{
		values: []string{"--duration", "--publish"},
		bools:  []string{"--reverse"},
	})
	if err != nil {
		return err
	}
	if len(flags.args) != 1 {
		return fmt.Errorf("script is required\n\nUsage: xanim play <script> [--reverse]")
	}
	var reverseDuration time.Duration
	if v, ok := flags.values["--duration"]; ok {
		if reverseDuration, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("--duration: %w", err)
		}
	}

	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	a, err := app.New(cfg.Config, nil, app.WithLogger(logger))
	if err != nil {
		return err
	}
	prev := fluiderrors.SetHandler(fluiderrors.NewLogHandler(logger))
	defer fluiderrors.SetHandler(prev)

	if topic := flags.values["--publish"]; topic != "" {
		closeBridge, err := publishPlayback(a, logger, topic)
		if err != nil {
			return err
		}
		defer closeBridge()
	}

	l, err := loadScript(flags.args[0], cfg.Config, a.Factory())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := flags.args[0]
	pass := func(reverse bool, start func(done func()) error) error {
		began := time.Now()
		messaging.Publish(a.Hub(), PlaybackEvent{Script: name, Phase: "started", Reverse: reverse})
		finished := false
		if err := start(func() { finished = true }); err != nil {
			return err
		}
		if err := a.RunUntilIdle(ctx); err != nil {
			return err
		}
		if !finished {
			return fmt.Errorf("playback of %s did not complete", name)
		}
		if err := l.pkg.Err(); err != nil {
			return err
		}
		elapsed := time.Since(began)
		messaging.Publish(a.Hub(), PlaybackEvent{Script: name, Phase: "finished", Reverse: reverse, Elapsed: elapsed})
		logger.WithFields(logrus.Fields{"script": name, "reverse": reverse, "elapsed": elapsed}).Info("played")
		return nil
	}

	if err := pass(false, l.pkg.Animate); err != nil {
		return err
	}
	if flags.bools["--reverse"] {
		err := pass(true, func(done func()) error {
			return l.pkg.AnimateReverse(reverseDuration, done)
		})
		if err != nil {
			return err
		}
	}

	for _, v := range l.ordered() {
		printState(1, v)
	}
	return nil
}

// publishPlayback forwards PlaybackEvent from a's hub to topic on the
// configured broker.
func publishPlayback(a *app.App, logger *logrus.Logger, topic string) (func(), error) {
	cfg := a.Config().MQTT
	mqttbridge.RoutePahoLogs(logger)
	client, err := mqttbridge.Dial(cfg)
	if err != nil {
		return nil, err
	}
	bridge, err := mqttbridge.New(a.Hub(), client, mqttbridge.WithConfig(cfg), mqttbridge.WithLogger(logger))
	if err != nil {
		client.Disconnect(250)
		return nil, err
	}
	if err := mqttbridge.Forward[PlaybackEvent](bridge, topic); err != nil {
		bridge.Close()
		client.Disconnect(250)
		return nil, err
	}
	return func() {
		if err := bridge.Close(); err != nil {
			logger.WithError(err).Warn("failed to close bridge")
		}
		client.Disconnect(250)
	}, nil
}
