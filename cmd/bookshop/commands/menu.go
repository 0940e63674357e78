package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/marshallshelly/pebble-bookshop/cmd/bookshop/output"
	"github.com/marshallshelly/pebble-bookshop/internal/app"
	"github.com/marshallshelly/pebble-bookshop/internal/fixture"
	"github.com/marshallshelly/pebble-bookshop/internal/models"
	"github.com/marshallshelly/pebble-bookshop/internal/sales"
)

const (
	menuLoad      = "1. Load test data"
	menuPurchases = "2. Find purchases by publisher"
	promptChoice  = "Choose an action (1 or 2): "
	promptToken   = "Enter publisher name or id: "

	msgLoaded        = "Test data loaded successfully."
	msgInvalidChoice = "Invalid choice. Exiting."
)

// runMenu shows the two-item menu, reads a choice and runs at most one
// operation. Surrounding whitespace in input lines is ignored.
func runMenu(ctx context.Context, in io.Reader, out *output.Printer, ops app.Operations) error {
	reader := bufio.NewReader(in)

	out.Plain(menuLoad)
	out.Plain(menuPurchases)
	fmt.Fprint(out.Writer(), promptChoice)
	choice, err := readLine(reader)
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		result, err := ops.Load(ctx)
		if err != nil {
			return err
		}
		printLoadResult(out, result, verbose)
	case "2":
		fmt.Fprint(out.Writer(), promptToken)
		token, err := readLine(reader)
		if err != nil {
			return err
		}
		report, err := ops.Purchases(ctx, token)
		if err != nil {
			return err
		}
		return sales.WriteText(out.Writer(), report)
	default:
		out.Warning(msgInvalidChoice)
	}
	return nil
}

// readLine returns the next line without surrounding whitespace. A final
// line without a newline is accepted; an empty input is not an error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// printLoadResult confirms a load. With detailed set the per-kind counts
// get their own section.
func printLoadResult(out *output.Printer, result *fixture.Result, detailed bool) {
	out.Success(msgLoaded)
	if detailed {
		out.Section("Rows loaded")
	}
	for _, kind := range models.Kinds() {
		n := result.Counts[kind]
		switch {
		case detailed:
			out.Info("%-10s %d", kind, n)
		case n > 0:
			out.Muted("  %-10s %d", kind, n)
		}
	}
	if detailed {
		out.Info("%-10s %d", "total", result.Total)
	}
}
