package ui

import (
	"fmt"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// ---- Layout Components ----

func contentContainer(content ...g.Node) g.Node {
	return Div(
		Class("max-w-2xl mx-auto"),
		g.Group(content),
	)
}

func resultContainer(content g.Node) g.Node {
	return Div(
		ID("result"),
		Class("mt-4"),
		content,
	)
}

// ---- Button Components ----

type ButtonVariant string

const (
	buttonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
)

func getButtonClass(variant ButtonVariant) string {
	baseClass := "px-4 py-2 rounded inline-block "
	switch variant {
	case ButtonSecondary:
		return baseClass + "text-blue-500 hover:underline"
	default:
		return baseClass + "bg-blue-500 text-white hover:bg-blue-600"
	}
}

func styledButton(text string, variant ButtonVariant, attrs ...g.Node) g.Node {
	allAttrs := append([]g.Node{Class(getButtonClass(variant))}, attrs...)
	return Button(append(allAttrs, g.Text(text))...)
}

func styledLink(text string, href string, variant ButtonVariant) g.Node {
	return A(Href(href), Class(getButtonClass(variant)), g.Text(text))
}

// ---- Message Components ----

func ValidationError(message string) g.Node {
	return Div(
		Class("bg-red-100 border-red-500 text-red-700 px-4 py-3 rounded"),
		g.Text(message),
	)
}

func ErrorPage(code int, message string) g.Node {
	return Page(
		fmt.Sprintf("Error %d", code),
		[]g.Node{
			contentContainer(
				pageHeader(fmt.Sprintf("Error %d", code)),
				P(Class("mb-4"), g.Text(message)),
				styledLink("Back to the estimator", "/", ButtonSecondary),
			),
		},
	)
}
