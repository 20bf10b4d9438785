// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/speechprep"
	"github.com/ik5/speechprep/internal/modelpath"
)

func newModelCommand(ctx *commandContext) *cobra.Command {
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Show which recognizer model file would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path, err := ctx.resolveModel(modelFlag)
			if err != nil {
				var nf *modelpath.NotFoundError
				if errors.As(err, &nf) {
					fmt.Fprintf(out, "Model %s not found. Searched:\n", nf.Name)
					for _, p := range nf.Searched {
						fmt.Fprintf(out, "  - %s\n", p)
					}
					return fmt.Errorf("%w: %s", speechprep.ErrModelNotFound, nf.Name)
				}
				return err
			}
			fmt.Fprintln(out, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model file name or path (overrides recognizer.model_name)")
	return cmd
}
