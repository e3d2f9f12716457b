package main

import (
	stderrs "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chriso345/clowncopterize/internal/logger"
	"github.com/chriso345/clowncopterize/source"
)

const (
	envPrefix  = "CLOWNCOPTERIZE"
	configName = ".clowncopterize"
	stdinName  = "<standard input>"
)

// settings is the resolved command configuration. Flags win over
// CLOWNCOPTERIZE_* variables, which win over .clowncopterize.yaml.
type settings struct {
	Write    bool
	List     bool
	Types    []string
	LogLevel string
}

type app struct {
	stdin     io.Reader
	stdout    io.Writer
	configDir string
}

func newRootCmd(a *app) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "clowncopterize [flags] [file.go ...]",
		Short: "Add an aggregate flag for all clowntown options of a struct",
		Long: `clowncopterize rewrites option structs so that one aggregate flag turns on
every boolean Clowntown* option.

A struct is rewritten when its declaration carries a marker comment:

  //clowncopterize:aggregate
  type Cli struct { ... }

  //clowncopterize:aggregate aggregate_flag_name = "i-live-in-clowntown"
  type Cli struct { ... }

or when it is selected with --type. Without files, standard input is read.

Examples:
  clowncopterize cli.go
  clowncopterize -w cli.go flags.go
  clowncopterize -l -t Cli ./cli.go`,
		Version:       buildVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd.Flags(), v); err != nil {
				return err
			}
			s, err := loadSettings(v, a.configDir)
			if err != nil {
				return err
			}
			return a.run(s, args)
		},
	}

	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)

	fs := cmd.Flags()
	fs.BoolP("write", "w", false, "Write the result to the source file instead of stdout")
	fs.BoolP("list", "l", false, "List files whose declarations would change")
	fs.StringSliceP("type", "t", nil, "Rewrite the named struct type even without a marker (repeatable)")
	fs.String("log-level", "", "Log level: trace, debug, info, warn, error")

	return cmd
}

// bindFlags registers the command flags with v under their configuration keys.
func bindFlags(fs *flag.FlagSet, v *viper.Viper) error {
	keys := map[string]string{
		"write":     "write",
		"list":      "list",
		"type":      "types",
		"log-level": "log-level",
	}
	var err error
	fs.VisitAll(func(f *flag.Flag) {
		key, ok := keys[f.Name]
		if !ok || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

func loadSettings(v *viper.Viper, dir string) (settings, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrs.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		logger.Debug("loaded config", "file", v.ConfigFileUsed())
	}

	s := settings{
		Write:    v.GetBool("write"),
		List:     v.GetBool("list"),
		Types:    v.GetStringSlice("types"),
		LogLevel: v.GetString("log-level"),
	}
	if s.LogLevel != "" {
		level, err := logger.ParseLevel(s.LogLevel)
		if err != nil {
			return settings{}, err
		}
		logger.SetLevel(level)
	}
	return s, nil
}

func (a *app) run(s settings, files []string) error {
	opts := source.Options{Types: s.Types}

	if len(files) == 0 {
		if s.Write {
			return stderrs.New("cannot use --write with standard input")
		}
		src, err := io.ReadAll(a.stdin)
		if err != nil {
			return err
		}
		return a.process(stdinName, src, s, opts, 0)
	}

	var errs []error
	for _, path := range files {
		if err := a.processFile(path, s, opts); err != nil {
			logger.Warn("skipping file", "file", path, "error", err)
			errs = append(errs, err)
		}
	}
	return stderrs.Join(errs...)
}

func (a *app) processFile(path string, s settings, opts source.Options) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return a.process(path, src, s, opts, info.Mode().Perm())
}

func (a *app) process(path string, src []byte, s settings, opts source.Options, perm os.FileMode) error {
	res, err := source.Rewrite(path, src, opts)
	if err != nil {
		return err
	}
	changed := len(res.Changed) > 0

	if s.List && changed {
		fmt.Fprintln(a.stdout, path)
	}
	if s.Write && changed {
		if err := os.WriteFile(path, res.Source, perm); err != nil {
			return err
		}
		logger.Info("rewrote file", "file", path, "types", strings.Join(res.Changed, ","))
	}
	if !s.List && !s.Write {
		_, err = a.stdout.Write(res.Source)
	}
	return err
}
