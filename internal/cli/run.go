package cli

import (
	"github.com/spf13/cobra"

	"github.com/Garsondee/portfolio-fx/internal/scene"
)

func (c *CLI) runCommand() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the effects in a window",
		Long:  `Open a resizable window hosting the particle field, the distorted heading and the scramble caption. R restarts the reveal, C copies it, P pauses, H toggles the HUD and , / . change speed.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig(logger, cfgPath)
			if err != nil {
				return err
			}
			return scene.Run(cmd.Context(), cfg, logger)
		},
	}
	addConfigFlag(cmd, &cfgPath)
	return cmd
}
