package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blockberries/hackberry/pkg/content"
	"github.com/blockberries/hackberry/pkg/hackberry"
)

var (
	inspectCmd = &cobra.Command{
		Use:   "inspect <capture-file>",
		Short: "Parse and print the frames in a raw capture file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	// Flags
	decodeBody bool
	maxFrames  int
)

func init() {
	inspectCmd.Flags().BoolVar(&decodeBody, "decode-body", false, "decode bodies per content-encoding and charset")
	inspectCmd.Flags().IntVar(&maxFrames, "max-frames", 0, "stop after this many frames (0 = all)")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	opts := parserOptions()
	it := hackberry.NewFrameIteratorWithOptions(f, opts)

	count := 0
	for it.Next() {
		count++
		printFrame(count, it.Message(), opts.Limits)
		if maxFrames > 0 && count >= maxFrames {
			break
		}
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("after %d frame(s): %w", count, err)
	}

	fmt.Printf("%d frame(s)\n", count)
	return nil
}

func printFrame(n int, m *hackberry.Message, limits hackberry.Limits) {
	fmt.Printf("--- frame %d ---\n", n)
	fmt.Println(m.StartLine())

	names := make([]string, 0, len(m.Header))
	for name := range m.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, m.Header[name])
	}

	if len(m.Body) == 0 {
		return
	}
	if !decodeBody {
		fmt.Printf("  [%d body byte(s)]\n", len(m.Body))
		return
	}
	text, err := content.MessageText(m, limits)
	if err != nil {
		fmt.Printf("  [%d body byte(s), decode failed: %v]\n", len(m.Body), err)
		return
	}
	fmt.Printf("  body: %q\n", text)
}
