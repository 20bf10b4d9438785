// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/speechprep/internal/deps"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report the availability of external tools and the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			configState := "not found, using defaults"
			if ctx.configExists {
				configState = "loaded"
			}
			fmt.Fprintf(out, "Config: %s (%s)\n", ctx.configPath, configState)

			statuses := deps.CheckBinariesWith(ctx.lookup(), deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses)+1)
			for _, s := range statuses {
				state := "ok"
				detail := s.Path
				if !s.Available {
					state = "missing"
					if s.Optional {
						state = "missing (optional)"
					}
					detail = s.Detail
				}
				rows = append(rows, []string{s.Name, s.Command, state, detail})
			}

			modelRow := []string{"Model", cfg.Recognizer.ModelName, "ok", ""}
			if path, err := ctx.resolveModel(""); err != nil {
				modelRow[2] = "missing (optional)"
				modelRow[3] = "run `speechprep model` for the search list"
			} else {
				modelRow[3] = path
			}
			rows = append(rows, modelRow)

			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Detail"}, rows))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, m := range missing {
					names = append(names, m.Name)
				}
				return fmt.Errorf("missing required dependencies: %s", strings.Join(names, ", "))
			}
			return nil
		},
	}
}
