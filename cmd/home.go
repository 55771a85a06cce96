// Copyright (c) 2025 BrowseMate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"browsemate/cli/internal/catalog"
	"browsemate/cli/internal/forms"
	"browsemate/cli/internal/httperrors"
	"browsemate/cli/internal/session"

	"github.com/pterm/pterm"
)

// homeCommand is one parsed line typed at the Home prompt.
type homeCommand struct {
	kind  string // next, prev, search, sort, clear, open, reload, logout, quit, help
	query string
	row   int
}

// parseHomeCommand understands n, p, /text, s, c, r, a row number, logout, q.
func parseHomeCommand(line string) (homeCommand, bool) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "n", "next":
		return homeCommand{kind: "next"}, true
	case "p", "prev", "previous":
		return homeCommand{kind: "prev"}, true
	case "s", "sort":
		return homeCommand{kind: "sort"}, true
	case "c", "clear":
		return homeCommand{kind: "clear"}, true
	case "r", "reload":
		return homeCommand{kind: "reload"}, true
	case "logout":
		return homeCommand{kind: "logout"}, true
	case "q", "quit", "exit":
		return homeCommand{kind: "quit"}, true
	case "?", "h", "help", "":
		return homeCommand{kind: "help"}, true
	}
	if strings.HasPrefix(line, "/") {
		return homeCommand{kind: "search", query: strings.TrimSpace(line[1:])}, true
	}
	if n, err := strconv.Atoi(line); err == nil && n > 0 {
		return homeCommand{kind: "open", row: n}, true
	}
	return homeCommand{}, false
}

// prevPage is the page "p" moves to; it never goes below 1.
func prevPage(current int) int {
	if current <= 1 {
		return 1
	}
	return current - 1
}

// homeScreen is the catalog list. It returns quit=true when the user leaves
// the app and quit=false after a logout.
func homeScreen(ctx context.Context, a *app, r *session.Resolver) (bool, error) {
	var view catalog.ListView
	var fetchErr error
	fetch := func(page int) {
		a.store.SetPage(page)
		stop := startSpinner(fmt.Sprintf("Loading page %d", page))
		fetchErr = a.store.FetchItems(ctx, page)
		stop(true, "")
		if httperrors.IsTransport(fetchErr) {
			_ = httperrors.FormatNetworkError(fetchErr, "loading products")
		}
	}
	if st := a.store.Snapshot(); st.Status == catalog.StatusIdle {
		fetch(st.CurrentPage)
	}

	for {
		if !r.IsLoggedIn() {
			return false, nil
		}
		st := a.store.Snapshot()
		shown := view.Apply(st.Items)
		renderHome(st, view, shown, fetchErr)

		line, err := promptLine("›")
		if errors.Is(err, errQuit) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		c, ok := parseHomeCommand(line)
		if !ok {
			pterm.Warning.Printfln("Unknown command %q. Type ? for help.", line)
			continue
		}

		switch c.kind {
		case "next":
			fetch(st.CurrentPage + 1)
		case "prev":
			fetch(prevPage(st.CurrentPage))
		case "reload":
			fetch(st.CurrentPage)
		case "search":
			view.Query = c.query
		case "sort":
			view.ToggleSort()
		case "clear":
			view.ClearSort()
		case "open":
			if c.row > len(shown) {
				pterm.Warning.Printfln("There is no row %d on this page.", c.row)
				continue
			}
			if err := detailsScreen(shown[c.row-1]); err != nil && !errors.Is(err, errQuit) {
				return false, err
			}
		case "logout":
			forms.Logout(ctx, a.auth, a.flag, a.log)
			pterm.Success.Println("Logged out.")
			return false, nil
		case "quit":
			return true, nil
		case "help":
			printHomeHelp()
		}
	}
}

// fetchFailureLine is the inline error shown above the table after a failed
// fetch. Network failures are summarized instead of echoing the raw error.
func fetchFailureLine(st catalog.State, err error) string {
	if st.Status != catalog.StatusFailed {
		return ""
	}
	if httperrors.IsTransport(err) {
		return "Error: " + httperrors.Describe(err)
	}
	if st.Error == "" {
		return ""
	}
	return "Error: " + st.Error
}

func renderHome(st catalog.State, view catalog.ListView, shown []catalog.Item, fetchErr error) {
	pterm.DefaultSection.Println("Products")
	status := fmt.Sprintf("Page %d", st.CurrentPage)
	if view.Query != "" {
		status += fmt.Sprintf(" · search %q", view.Query)
	}
	if view.Order != catalog.SortNone {
		status += " · " + view.Order.String()
	}
	pterm.Info.Println(status)

	if line := fetchFailureLine(st, fetchErr); line != "" {
		pterm.Error.Println(line)
	}
	if st.Status == catalog.StatusLoading {
		pterm.Info.Println("Loading…")
		return
	}
	if err := renderProductTable(shown); err != nil {
		pterm.Error.Println(err.Error())
	}
}

func printHomeHelp() {
	_ = pterm.DefaultBulletList.WithItems([]pterm.BulletListItem{
		{Level: 0, Text: "n / p      next / previous page"},
		{Level: 0, Text: "/text      search titles on this page (/ alone clears)"},
		{Level: 0, Text: "s          sort by price (ascending, then descending)"},
		{Level: 0, Text: "c          clear sort"},
		{Level: 0, Text: "<number>   open product details"},
		{Level: 0, Text: "r          reload this page"},
		{Level: 0, Text: "logout     sign out"},
		{Level: 0, Text: "q          quit"},
	}).Render()
}
