// ABOUTME: Navigation header destinations shown on the home screen
// ABOUTME: Static routes into the billing pages of the web app

package tui

import (
	"strings"

	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui/icons"
	"github.com/dhruveshrana22/dairy-management-by-demo/internal/tui/styles"
)

// Destination is one entry of the navigation header
type Destination struct {
	Label string
	Route string
	Key   string
	Icon  icons.Icon
}

// Destinations lists the header entries in display order
var Destinations = []Destination{
	{Label: "Add Customer", Route: "/add-customer", Key: "1", Icon: icons.Customer},
	{Label: "View Customers", Route: "/view-customers", Key: "2", Icon: icons.People},
	{Label: "Create Bill", Route: "/create-bill", Key: "3", Icon: icons.Bill},
	{Label: "View History", Route: "/history", Key: "4", Icon: icons.History},
}

// DestinationByKey returns the entry bound to a number key
func DestinationByKey(key string) (Destination, bool) {
	for _, d := range Destinations {
		if d.Key == key {
			return d, true
		}
	}
	return Destination{}, false
}

// RenderNav draws the header with the entry at active highlighted
func RenderNav(active int) string {
	items := make([]string, 0, len(Destinations))
	for i, d := range Destinations {
		label := d.Icon.String() + " " + d.Label
		if i == active {
			items = append(items, styles.NavItemActive.Render(label))
		} else {
			items = append(items, styles.NavItem.Render(label))
		}
	}
	return strings.Join(items, " ")
}
