package ui

import (
	"strconv"

	"github.com/dustin/go-humanize"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/parts-pile/carprice/listing"
)

// FormatPrice renders whole dollars with thousands separators.
func FormatPrice(price int) string {
	return "$" + humanize.Comma(int64(price))
}

func formatMileage(mileage *int) string {
	if mileage == nil {
		return "-"
	}
	return humanize.Comma(int64(*mileage))
}

func formatListingPrice(price *int) string {
	if price == nil {
		return "-"
	}
	return FormatPrice(*price)
}

// Results shows the estimate and the listings it was computed from.
func Results(price int, listings []listing.Listing) g.Node {
	return Div(
		Class("space-y-4"),
		H2(
			Class("text-2xl font-bold"),
			g.Text("Estimated Price: "),
			Span(ID("estimated-price"), Class("text-green-700"), g.Text(FormatPrice(price))),
		),
		P(
			Class("text-sm text-gray-600"),
			g.Text("Based on "+strconv.Itoa(len(listings))+" comparable listings."),
		),
		listingsTable(listings),
	)
}

func listingsTable(listings []listing.Listing) g.Node {
	headers := []string{"Year", "Make", "Model", "Mileage", "Price", "Location"}
	return Table(
		Class("w-full text-left border border-gray-200"),
		THead(
			Class("bg-gray-50"),
			Tr(g.Map(headers, func(h string) g.Node {
				return Th(Class("px-2 py-1"), g.Text(h))
			})),
		),
		TBody(
			g.Map(listings, func(l listing.Listing) g.Node {
				return Tr(
					Class("border-t"),
					Td(Class("px-2 py-1"), g.Text(strconv.Itoa(l.Year))),
					Td(Class("px-2 py-1"), g.Text(l.Make)),
					Td(Class("px-2 py-1"), g.Text(l.Model)),
					Td(Class("px-2 py-1"), g.Text(formatMileage(l.Mileage))),
					Td(Class("px-2 py-1"), g.Text(formatListingPrice(l.Price))),
					Td(Class("px-2 py-1"), g.Text(l.Location)),
				)
			}),
		),
	)
}
