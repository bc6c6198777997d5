package ui

import (
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/parts-pile/carprice/config"
)

// AppTitle is the page title and main header.
const AppTitle = "Car Price Estimator"

// ---- Page Layout ----

func Page(title string, content []g.Node) g.Node {
	return components.HTML5(components.HTML5Props{
		Title:    title,
		Language: "en",
		Head: []g.Node{
			Link(
				Rel("stylesheet"),
				Href(config.TailwindCSSURL),
			),
			Script(
				Type("text/javascript"),
				Src(config.HTMXURL),
				Defer(),
			),
		},
		Body: []g.Node{
			Div(
				Class("container mx-auto px-4 py-8"),
				g.Group(content),
			),
		},
	})
}

func pageHeader(text string) g.Node {
	return H1(Class("text-4xl font-bold mb-8"), g.Text(text))
}

// HomePage is the estimator form followed by the result of the last
// submission, if any.
func HomePage(values FormValues, makes []string, result g.Node) g.Node {
	return Page(AppTitle, []g.Node{
		contentContainer(
			pageHeader(AppTitle),
			EstimateForm(values, makes),
			resultContainer(result),
		),
	})
}
