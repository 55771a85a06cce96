package cmd

import (
	"fmt"
	"strings"

	"browsemate/cli/internal/catalog"

	"github.com/pterm/pterm"
)

// detailsLines is the Details screen body. It reads only the item it is given.
func detailsLines(it catalog.Item) []string {
	lines := []string{
		pterm.Bold.Sprint(it.Title),
		"",
		"Price: " + formatPrice(it.Price),
		"Category: " + it.Category,
		"Availability: " + it.AvailabilityStatus,
		"Thumbnail: " + it.Thumbnail,
	}
	if it.HasImages() {
		lines = append(lines, "Images:")
		for _, img := range it.Images {
			lines = append(lines, "  • "+img)
		}
	}
	lines = append(lines, "", it.Description)
	return lines
}

func renderDetails(it catalog.Item) {
	pterm.DefaultBox.
		WithTitle(fmt.Sprintf("Product #%d", it.ID)).
		Println(strings.Join(detailsLines(it), "\n"))
}

// detailsScreen shows one product and waits for the user to go back.
func detailsScreen(it catalog.Item) error {
	renderDetails(it)
	_, err := promptLine("Press Enter to go back")
	return err
}
