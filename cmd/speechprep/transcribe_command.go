// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var modelFlag string
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "transcribe <input>",
		Short: "Normalize an audio file and transcribe it with whisper.cpp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := ctx.resolveModel(modelFlag)
			if err != nil {
				return err
			}
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			rec, err := ctx.recognizer(languageFlag)
			if err != nil {
				return err
			}

			text, err := p.TranscribeFile(cmd.Context(), args[0], rec, model)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Model file name or path (overrides recognizer.model_name)")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Spoken language code (overrides recognizer.language)")
	return cmd
}
