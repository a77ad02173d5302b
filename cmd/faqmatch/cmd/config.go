package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/faqmatch/configs"
	"github.com/Aman-CERP/faqmatch/internal/config"
	apperrors "github.com/Aman-CERP/faqmatch/internal/errors"
	"github.com/Aman-CERP/faqmatch/internal/ui"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration",
		Long: `Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/faqmatch/config.yaml)
  3. Project config (.faqmatch.yaml)
  4. Environment variables (FAQMATCH_*)
  5. Command-line flags`,
		Example: `  # Create .faqmatch.yaml in the current directory
  faqmatch config init

  # Show effective configuration
  faqmatch config show --json`,
	}

	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigShowCmd(g *globals) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(g.cfg)
			}
			data, err := yaml.Marshal(g.cfg)
			if err != nil {
				return apperrors.InternalError("failed to encode configuration", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var user, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented configuration file",
		Long: `Write the example configuration to .faqmatch.yaml in the current
directory, or to the user config file with --user. An existing file is
kept unless --force is given, in which case it is backed up first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetUserConfigPath()
			if !user {
				dir, err := os.Getwd()
				if err != nil {
					return apperrors.IOError("cannot determine working directory", err)
				}
				path = filepath.Join(dir, ".faqmatch.yaml")
			}
			return runConfigInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Create the user config instead of the project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file (a backup is kept)")

	return cmd
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	p := ui.NewPrinter(cmd.OutOrStdout())

	var backup string
	if _, err := os.Stat(path); err == nil {
		if !force {
			p.Warning("Configuration already exists")
			p.Infof("Location: %s", path)
			p.Info("Use --force to overwrite it (a backup is kept)")
			return nil
		}
		if backup, err = config.Backup(path); err != nil {
			return apperrors.New(apperrors.ErrCodeConfigPermission, "failed to back up configuration", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigPermission, "failed to create config directory", err)
	}
	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigPermission, fmt.Sprintf("failed to write %s", path), err)
	}

	p.Success("Created configuration")
	p.Infof("Location: %s", path)
	if backup != "" {
		p.Infof("Backup: %s", backup)
	}
	return nil
}
