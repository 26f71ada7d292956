/*
 * drum1100 - Paper-tape image conversion tool.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ncornish/drum1100/devices/papertape"
	"github.com/ncornish/drum1100/emu/iocodes"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ptconv",
		Short: "Convert and inspect paper-tape images between .pti/.ptr/.pt formats",
	}

	var outFormat string
	convertCmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a tape image to the format implied by the output extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return convert(args[0], args[1], outFormat)
		},
	}
	convertCmd.Flags().StringVar(&outFormat, "format", "", "Force the output format (text, binary, reverse) instead of inferring it from the extension")

	dumpCmd := &cobra.Command{
		Use:   "dump [input]",
		Short: "Print the decoded internal codes of a tape image, one printable character per frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return dump(args[0])
		},
	}

	rootCmd.AddCommand(convertCmd, dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// convert reads a tape image, auto-detecting its format from in's
// extension, and writes it back out in the format named by format or, if
// format is empty, the format implied by out's extension.
func convert(in, out, format string) error {
	reader := papertape.NewReader("ptconv")
	if err := reader.Attach(in); err != nil {
		return err
	}

	punch := papertape.NewPunch("ptconv")
	punch.Attach(out)
	if format != "" {
		f, err := parseFormat(format)
		if err != nil {
			return err
		}
		punch.SetFormat(f)
	}
	punch.WriteFrames(reader.Frames())

	if err := punch.Flush(); err != nil {
		return err
	}
	fmt.Printf("converted %d frames: %s -> %s\n", len(reader.Frames()), in, out)
	return nil
}

func parseFormat(name string) (papertape.Format, error) {
	switch name {
	case "text":
		return papertape.FormatText, nil
	case "binary":
		return papertape.FormatBinary, nil
	case "reverse":
		return papertape.FormatReverse, nil
	default:
		return 0, fmt.Errorf("unknown format %q: want text, binary, or reverse", name)
	}
}

// dump prints every frame of a tape image as its printable character,
// with a newline at each carriage-return code, for visual inspection.
func dump(in string) error {
	reader := papertape.NewReader("ptconv")
	if err := reader.Attach(in); err != nil {
		return err
	}

	for _, code := range reader.Frames() {
		if code == iocodes.CR {
			fmt.Println()
			continue
		}
		fmt.Printf("%c", iocodes.ToPrintable(code))
	}
	fmt.Println()
	return nil
}
