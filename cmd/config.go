package cmd

import (
	"fmt"

	"github.com/ossmaint/cleanowners/config"
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command with subcommands.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Show or manage configuration.

When run without arguments, shows the current merged configuration.

Subcommands:
  init  Create a minimal config file
  path  Show config file locations
  show  Show current merged config (same as bare 'cleanowners config')`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(NewCmdConfigInit())
	cmd.AddCommand(NewCmdConfigPath())
	cmd.AddCommand(NewCmdConfigShow())

	return cmd
}

// NewCmdConfigInit creates the config init subcommand.
func NewCmdConfigInit() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a minimal config file",
		Long: `Create a minimal config file with starter settings.

By default the file is created at the global config path. Use --local to
create ./.cleanowners.yaml instead, which applies only in this directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Create ./.cleanowners.yaml instead of the global config")
	return cmd
}

// NewCmdConfigPath creates the config path subcommand.
func NewCmdConfigPath() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath(cmd)
		},
	}
}

// NewCmdConfigShow creates the config show subcommand.
func NewCmdConfigShow() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out, err := cfg.ToYAML()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func runConfigInit(cmd *cobra.Command, local bool) error {
	path := config.ConfigPath()
	if local {
		path = config.LocalConfigPath()
	}

	if err := config.SaveTo(path, config.MinimalConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command) error {
	info := config.GetConfigPaths()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Global: %s", info.GlobalPath)
	if !info.GlobalExists {
		fmt.Fprint(out, " (not found)")
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Local:  %s", info.LocalPath)
	if !info.LocalExists {
		fmt.Fprint(out, " (not found)")
	}
	fmt.Fprintln(out)

	return nil
}
