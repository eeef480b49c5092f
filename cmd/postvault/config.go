package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/postvault"
)

// Run executes the config get command.
func (c *ConfigGetCmd) Run(deps *Dependencies) error {
	values, err := deps.Settings.GetSettings(deps.Ctx, c.Keys...)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	if len(values) == 0 {
		fmt.Fprintln(deps.Stdout, "No settings stored.")
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		fmt.Fprintf(deps.Stdout, "%s=%s\n", k, maskSetting(k, values[k]))
	}
	return nil
}

// Run executes the config set command.
func (c *ConfigSetCmd) Run(deps *Dependencies) error {
	values := make(map[string]string, len(c.Pairs))
	for _, pair := range c.Pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			fmt.Fprintf(deps.Stderr, "error: invalid setting %q, expected key=value\n", pair)
			return postvault.Errorf(postvault.EINVALID, "invalid setting %q", pair)
		}
		if key == postvault.SettingProvider {
			if _, ok := postvault.Providers[value]; !ok {
				fmt.Fprintf(deps.Stderr, "error: unknown embedding provider %q\n", value)
				return postvault.Errorf(postvault.EINVALID, "unknown embedding provider %q", value)
			}
		}
		values[key] = value
	}

	if err := deps.Settings.SetSettings(deps.Ctx, values); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d settings\n", len(values))
	return nil
}

// Run executes the config unset command.
func (c *ConfigUnsetCmd) Run(deps *Dependencies) error {
	if err := deps.Settings.RemoveSettings(deps.Ctx, c.Keys...); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed %d settings\n", len(c.Keys))
	return nil
}

// maskSetting hides all but the ends of stored API keys.
func maskSetting(key, value string) string {
	if key != postvault.SettingAPIKey && key != postvault.SettingLegacyAPIKey {
		return value
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "****" + value[len(value)-4:]
}
