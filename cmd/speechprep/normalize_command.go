// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var keep bool

	cmd := &cobra.Command{
		Use:   "normalize <input>",
		Short: "Convert an audio file to 16 kHz mono 16-bit WAV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep && outputPath != "" {
				return fmt.Errorf("--keep and --output are mutually exclusive")
			}

			p, err := ctx.pipeline()
			if err != nil {
				return err
			}

			input := args[0]
			res, err := p.ProcessFile(cmd.Context(), input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if keep {
				fmt.Fprintln(out, res.Path)
				return nil
			}
			defer res.Release()

			target := outputPath
			if target == "" {
				target = defaultOutputPath(input)
			}
			if err := copyFile(res.Path, target); err != nil {
				return err
			}

			fmt.Fprintf(out, "Wrote %s (%d samples from %d Hz x%d via %s)\n",
				target, res.Samples, res.SourceRate, res.SourceChannels, res.Decoder)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination WAV file (default <input>.16k.wav)")
	cmd.Flags().BoolVar(&keep, "keep", false, "Leave the result in the temp directory and print its path")
	return cmd
}

func defaultOutputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".16k.wav"
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open normalized audio: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
