package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"browsemate/cli/internal/catalog"
	"browsemate/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// stdin is shared so buffered input is not lost between prompts when input
// is piped.
var stdin = bufio.NewReader(os.Stdin)

// errQuit is returned by prompts when the user asked to leave.
var errQuit = errors.New("quit")

// startSpinner shows a pterm spinner with text. The returned func stops it,
// printing msg as success or failure; an empty msg just removes the spinner.
func startSpinner(text string) func(ok bool, msg string) {
	cursor.Hide()
	sp, err := pterm.DefaultSpinner.Start(text)
	if err != nil {
		cursor.Show()
		return func(bool, string) {}
	}
	return func(ok bool, msg string) {
		defer cursor.Show()
		if msg == "" {
			sp.RemoveWhenDone = true
			_ = sp.Stop()
			return
		}
		if ok {
			sp.Success(msg)
		} else {
			sp.Fail(msg)
		}
	}
}

// promptLine asks for one line of text. Interactive terminals get a pterm
// text input; pipes are read line by line.
func promptLine(label string) (string, error) {
	if terminal.IsInteractive() {
		v, err := pterm.DefaultInteractiveTextInput.Show(label)
		return strings.TrimSpace(v), err
	}
	fmt.Printf("%s: ", label)
	return readLine()
}

// promptSecret asks for a value without echoing it.
func promptSecret(label string) (string, error) {
	if terminal.IsInteractive() {
		return pterm.DefaultInteractiveTextInput.WithMask("*").Show(label)
	}
	fmt.Printf("%s: ", label)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(b), err
	}
	return readLine()
}

func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// choose offers options and returns the selected one. Without a terminal it
// reads a number or an option name, asking again until one matches.
func choose(label string, options []string) (string, error) {
	if terminal.IsInteractive() {
		return pterm.DefaultInteractiveSelect.WithDefaultText(label).WithOptions(options).Show()
	}
	for {
		for i, o := range options {
			fmt.Printf("  %d) %s\n", i+1, o)
		}
		v, err := promptLine(label)
		if err != nil {
			return "", err
		}
		if o, ok := matchChoice(v, options); ok {
			return o, nil
		}
		pterm.Warning.Printfln("Unknown choice %q. Enter a number from 1 to %d.", v, len(options))
	}
}

// matchChoice resolves v as a 1-based index or a case-insensitive option name.
func matchChoice(v string, options []string) (string, bool) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o, true
		}
	}
	return "", false
}

// renderProductTable prints items numbered from 1 in display order.
func renderProductTable(items []catalog.Item) error {
	if len(items) == 0 {
		pterm.Info.Println("No products to show.")
		return nil
	}
	data := pterm.TableData{{"#", "Title", "Price", "Category", "Availability"}}
	maxTitle := terminal.Width() - 45
	if maxTitle < 20 {
		maxTitle = 20
	}
	for i, it := range items {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncate(it.Title, maxTitle),
			formatPrice(it.Price),
			it.Category,
			it.AvailabilityStatus,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}

// formatPrice renders a price the way the list and detail screens show it.
func formatPrice(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
