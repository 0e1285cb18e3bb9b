package cmd

import (
	"github.com/verifyica-go/verifyica/internal/config"
	"github.com/verifyica-go/verifyica/internal/demo"
	"github.com/verifyica-go/verifyica/internal/engine"
	"github.com/verifyica-go/verifyica/internal/introspect"
	"github.com/verifyica-go/verifyica/internal/listener"
	"github.com/verifyica-go/verifyica/internal/telemetry"
)

// buildEngine assembles an Engine over the built-in demo suite, loading
// configFile if non-empty and wiring telemetry when stats is true.
func buildEngine(configFile string, noColor, stats bool) (*engine.Engine, *telemetry.Recorder, error) {
	var cfg config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Config{}
	}

	opts := []engine.Option{
		engine.WithConfig(cfg),
		engine.WithListener(listener.NewConsole(listener.WithConsoleNoColor(noColor))),
	}

	var recorder *telemetry.Recorder
	if stats {
		recorder = telemetry.NewRecorder()
		opts = append(opts, engine.WithTelemetry(recorder))
	}

	return engine.New(demo.Introspector{}, opts...), recorder, nil
}

// selectorsFromArgs treats each positional argument as a class-name
// selector; a real integration would also accept package/method/unique-id
// forms.
func selectorsFromArgs(args []string) []introspect.Selector {
	selectors := make([]introspect.Selector, len(args))
	for i, a := range args {
		selectors[i] = introspect.Selector{ClassName: a}
	}
	return selectors
}
