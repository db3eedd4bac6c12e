package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitribbon/pkg/config"
	"github.com/matzehuels/orbitribbon/pkg/errors"
)

// configCommand creates the config command with subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the configuration",
		Long: `Create and inspect the TOML file that lists the figures to render.

Commands look for ./` + config.FileName + ` unless --config is given, and fall back to
the built-in Solar Orbiter EPT and MAG figures.`,
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configListCommand())

	return cmd
}

// configInitCommand writes the built-in configuration to a file.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			return c.runConfigInit(path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) runConfigInit(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()

	if err := config.Default().Encode(f); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	c.Logger.Debug("wrote config", "path", path)

	printSuccess("Created %s", StyleHighlight.Render(path))
	printNextStep("Render the figures", "orbitribbon render -c "+path)
	return nil
}

// configShowCommand prints the effective configuration as TOML.
func (c *CLI) configShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(path)
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "config file")
	return cmd
}

// configListCommand lists the configured figures.
func (c *CLI) configListCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, from, err := loadConfig(path)
			if err != nil {
				return err
			}
			if from == "" {
				from = "built-in"
			}
			fmt.Println(StyleTitle.Render("Figures") + " " + StyleDim.Render("("+from+")"))
			for _, f := range cfg.Figures {
				printKeyValue(f.Name, fmt.Sprintf("%s  %s → %s",
					f.Kind, f.Start.Format("2006-01-02"), f.End.Format("2006-01-02")))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "config file")
	return cmd
}
