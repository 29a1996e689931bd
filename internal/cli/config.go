// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for aurora.
//
// Command: config [subcommand]
// Short:   Show and edit the configuration
//
// Subcommands:
//   show (default)      Effective configuration as TOML
//   path                Config file path
//   get <key>           One value, e.g. ollama.model
//   set <key> <value>   Update the config file
//   keys                Every settable key
//   init                Write a config file with the defaults
//
// Examples:
//   aurora config set ollama.model qwen2.5:7b
//   aurora config set ui.backend tcell
//   aurora config get ui.palette.user
//
// "show" and "get" print the effective values, flags and environment
// included. "set" edits the file only.

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-tui/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit the configuration",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigShow,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  a.runConfigShow,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := a.configFile()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := a.cfg.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a value in the config file",
			Args:  cobra.ExactArgs(2),
			RunE:  a.runConfigSet,
		},
		&cobra.Command{
			Use:   "keys",
			Short: "List every configuration key",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				for _, k := range config.GetAllKeys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
			},
		},
		initCmd,
	)
	return cmd
}

func (a *app) runConfigShow(cmd *cobra.Command, _ []string) error {
	fmt.Fprint(cmd.OutOrStdout(), a.cfg.String())
	return nil
}

// runConfigSet edits the file as written, so flags and environment
// overrides in effect for this run are not persisted.
func (a *app) runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := a.configFile()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	key, value := args[0], args[1]
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s = %q rejected: %w", key, value, err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}

	a.logger.Info("config updated", zap.String("key", key), zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("set"), key, value)
	return nil
}

func (a *app) runConfigInit(cmd *cobra.Command, force bool) error {
	path, err := a.configFile()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("wrote"), path)
	return nil
}
