package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/go-fluid/fluid/pkg/config"
	"github.com/go-fluid/fluid/pkg/script"
	"github.com/go-fluid/fluid/pkg/view"
	"github.com/go-fluid/fluid/pkg/xanimation"
)

// loadSettings resolves fluid.yaml from --config, the project root or the
// working directory, in that order, and builds the logger it describes.
func loadSettings() (*config.Resolved, *logrus.Logger, error) {
	dir := configDir
	if dir == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			if root, err = os.Getwd(); err != nil {
				return nil, nil, err
			}
		}
		dir = root
	}
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, cfg.Log.NewLogger(os.Stderr), nil
}

type loaded struct {
	script *script.Script
	pkg    *xanimation.Package
	views  map[string]*view.View
}

func (l *loaded) ordered() []*view.View {
	return l.script.Ordered(l.views)
}

// loadScript reads and builds the script at path. The configured animation
// duration and easing apply where the script sets none.
func loadScript(path string, cfg *config.Config, factory xanimation.ProviderFactory) (*loaded, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	if s.Duration == nil {
		d := cfg.Animation.Duration
		s.Duration = &d
	}
	if easing := cfg.Animation.Easing; easing != "" && easing != "linear" {
		for i := range s.Chains {
			for j := range s.Chains[i].Steps {
				if s.Chains[i].Steps[j].Easing == nil {
					s.Chains[i].Steps[j].Easing = &easing
				}
			}
		}
	}
	p, views, err := s.Build(factory)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &loaded{script: s, pkg: p, views: views}, nil
}

type flagSpec struct {
	values []string
	bools  []string
}

type parsedFlags struct {
	args   []string
	values map[string]string
	bools  map[string]bool
}

// parseFlags splits args into positional arguments and the flags in spec.
// Value flags accept "--name value" and "--name=value".
func parseFlags(args []string, spec flagSpec) (parsedFlags, error) {
	out := parsedFlags{values: map[string]string{}, bools: map[string]bool{}}
	isValue := func(name string) bool {
		for _, v := range spec.values {
			if v == name {
				return true
			}
		}
		return false
	}
	isBool := func(name string) bool {
		for _, b := range spec.bools {
			if b == name {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			out.args = append(out.args, arg)
			continue
		}
		name, value, hasValue := strings.Cut(arg, "=")
		switch {
		case isBool(name) && !hasValue:
			out.bools[name] = true
		case isValue(name) && hasValue:
			out.values[name] = value
		case isValue(name):
			if i+1 >= len(args) {
				return out, fmt.Errorf("%s requires a value", name)
			}
			out.values[name] = args[i+1]
			i++
		default:
			return out, fmt.Errorf("unknown flag %s", arg)
		}
	}
	return out, nil
}

func (f parsedFlags) intValue(name string, fallback int) (int, error) {
	v, ok := f.values[name]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
