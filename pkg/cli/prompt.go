package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/utmget/pkg/domain/model"
)

// renderEntries prints the numbered list of discovered entries with their
// archive links
func renderEntries(out io.Writer, entries []model.GalleryEntry) {
	title := color.New(color.Bold)
	arrow := color.New(color.FgCyan)

	fmt.Fprintln(out, "\nAvailable VMs:")
	for i, e := range entries {
		fmt.Fprintf(out, "%2d. %s\n", i+1, title.Sprint(e.Title))
		for _, link := range e.ArchiveLinks {
			fmt.Fprintf(out, "     %s %s\n", arrow.Sprint("→"), link)
		}
	}
}

// promptSelect lists the entries and reads the operator's choice from in.
// Returns nil without error when the operator quits (q or EOF). Input
// reading runs in its own goroutine so an interrupt cancels the prompt.
func promptSelect(ctx context.Context, in io.Reader, out io.Writer, entries []model.GalleryEntry) (*model.GalleryEntry, error) {
	renderEntries(out, entries)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			readErr <- err
			return
		}
		close(lines)
	}()

	for {
		fmt.Fprint(out, "\nEnter number to download (or q): ")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case err := <-readErr:
			return nil, goerr.Wrap(err, "failed to read selection")
		case line, ok := <-lines:
			if !ok {
				return nil, nil
			}
			sel := strings.ToLower(strings.TrimSpace(line))
			if sel == "q" || sel == "quit" {
				return nil, nil
			}
			idx, err := strconv.Atoi(sel)
			if err != nil || idx < 1 || idx > len(entries) {
				fmt.Fprintf(out, "Invalid selection: %s\n", line)
				continue
			}
			return &entries[idx-1], nil
		}
	}
}
