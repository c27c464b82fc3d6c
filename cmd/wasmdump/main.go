// Command wasmdump disassembles and round-trip-checks WebAssembly MVP
// binaries.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gowasm/wasmenc/binary"
	"github.com/gowasm/wasmenc/disasm"
	"github.com/gowasm/wasmenc/wasm"
)

func main() {
	if err := doMain(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// doMain builds and runs the root command against injected stdout/stderr,
// the same seam wazero's cmd/wazero uses to keep main itself untestable-but-
// trivial.
func doMain(args []string, stdOut, stdErr io.Writer) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("wasmdump: building logger: %w", err)
	}
	defer logger.Sync()

	var verbose bool
	root := &cobra.Command{
		Use:           "wasmdump",
		Short:         "Inspect WebAssembly MVP binary modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				cfg.Level.SetLevel(zap.DebugLevel)
			}
			return nil
		},
	}
	root.SetArgs(args)
	root.SetOut(stdOut)
	root.SetErr(stdErr)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDumpCommand(logger, stdOut))
	root.AddCommand(newRoundtripCommand(logger, stdOut))
	root.AddCommand(newVersionCommand(stdOut))

	return root.Execute()
}

func newDumpCommand(logger *zap.Logger, stdOut io.Writer) *cobra.Command {
	var color bool
	cmd := &cobra.Command{
		Use:   "dump <module.wasm>",
		Short: "Disassemble a module to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("wasmdump: reading %s: %w", args[0], err)
			}
			logger.Debug("read module", zap.String("path", args[0]), zap.Int("bytes", len(data)))

			text, err := disasm.Disassemble(data)
			if err != nil {
				return fmt.Errorf("wasmdump: %w", err)
			}

			if color && term.IsTerminal(int(os.Stdout.Fd())) {
				text = colorize(text)
			}
			fmt.Fprint(stdOut, text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "style output with ANSI colors when stdout is a terminal")
	return cmd
}

func newRoundtripCommand(logger *zap.Logger, stdOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <module.wasm>",
		Short: "Decode then re-encode a module and report whether the bytes match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("wasmdump: reading %s: %w", args[0], err)
			}

			m, err := binary.DecodeModule(data)
			if err != nil {
				return fmt.Errorf("wasmdump: decode: %w", err)
			}
			logger.Debug("decoded module", zap.Int("sections", sectionCount(m)))

			reencoded, err := binary.EncodeModule(m)
			if err != nil {
				return fmt.Errorf("wasmdump: re-encode: %w", err)
			}

			if bytes.Equal(data, reencoded) {
				fmt.Fprintln(stdOut, "round-trip: identical")
				return nil
			}
			fmt.Fprintf(stdOut, "round-trip: differs (%d input bytes, %d re-encoded bytes)\n", len(data), len(reencoded))
			return nil
		},
	}
}

func newVersionCommand(stdOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the supported binary format version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(stdOut, "wasmdump: supports WebAssembly MVP binary format version 1\n")
			return nil
		},
	}
}

func sectionCount(m *wasm.Module) int {
	n := len(m.Custom)
	for _, s := range []bool{m.Types != nil, m.Functions != nil, m.Exports != nil, m.Code != nil} {
		if s {
			n++
		}
	}
	return n
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	mnemonicStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// colorize re-styles a disassembly text's "section" headers and indented
// instruction lines. It never changes the text disasm.Disassemble returns —
// that baseline stays plain for test snapshots — this only decorates the
// CLI's own printed copy.
func colorize(text string) string {
	var out bytes.Buffer
	for _, line := range bytesSplitLines(text) {
		switch {
		case bytes.Contains(line, []byte(" Section (id=")) || bytes.Contains(line, []byte("module version")):
			out.WriteString(headingStyle.Render(string(line)))
		case bytes.Contains(line, []byte("// ")):
			out.WriteString(mnemonicStyle.Render(string(line)))
		default:
			out.Write(line)
		}
		out.WriteByte('\n')
	}
	return out.String()
}

func bytesSplitLines(s string) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, []byte(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, []byte(s[start:]))
	}
	return lines
}
