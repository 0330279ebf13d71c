package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
	"github.com/twiced-technology-gmbh/taskwatch/internal/config"
	"github.com/twiced-technology-gmbh/taskwatch/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify the taskwatch configuration",
	Long:  `View the full configuration, get a specific key, or set a value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get func(config.Config) any
	set func(*config.Config, string) error
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"directory": {
			get: func(c config.Config) any { return c.Directory },
			set: func(c *config.Config, v string) error {
				if v == "" {
					c.SetDir("")
					return nil
				}
				dir, err := config.ValidateDirectory(v)
				if err != nil {
					return err
				}
				c.SetDir(dir)
				return nil
			},
		},
		"polling_interval": {
			get: func(c config.Config) any { return c.PollingInterval },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid polling_interval %q: must be milliseconds", v)
				}
				c.PollingInterval = n
				return nil // validation handles range check
			},
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{"directory", "polling_interval"}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}
	cfg := store.Load()

	if done, err := writeData(cfg); done {
		return err
	}

	accessors := configAccessors()
	fmt.Fprintf(os.Stdout, "%-20s %s\n", "file", store.Path())
	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-20s %s\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	val := acc.get(store.Load())

	if done, err := writeData(val); done {
		return err
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	cfg, err := store.Update(func(c *config.Config) error {
		return acc.set(c, value)
	})
	if err != nil {
		return configError(err)
	}

	if done, err := writeData(map[string]any{"key": key, "value": acc.get(cfg)}); done {
		return err
	}
	output.Messagef(os.Stdout, "Set %s = %s", key, formatConfigValue(acc.get(cfg)))
	return nil
}

// configError maps validation failures to INVALID_INPUT.
func configError(err error) error {
	if errors.Is(err, config.ErrInvalid) {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	return err
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case *string:
		if v == nil {
			return "--"
		}
		return *v
	default:
		return fmt.Sprintf("%v", v)
	}
}
