package ui

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// FormValues echoes the submitted fields back into the form.
type FormValues struct {
	Year    string
	Make    string
	Model   string
	Mileage string
}

// ---- Form Components ----

func FormGroup(labelText string, fieldID string, input g.Node) g.Node {
	return Div(
		Class("space-y-2"),
		Label(For(fieldID), Class("block"), g.Text(labelText)),
		input,
	)
}

func TextInput(id, name, value string, attrs ...g.Node) g.Node {
	return Input(
		Type("text"),
		ID(id),
		Name(name),
		Value(value),
		Class("w-full p-2 border rounded"),
		g.Group(attrs),
	)
}

func NumberInput(id, name, value string, attrs ...g.Node) g.Node {
	return Input(
		Type("number"),
		ID(id),
		Name(name),
		Value(value),
		Min("0"),
		Class("w-full p-2 border rounded"),
		g.Group(attrs),
	)
}

func EstimateForm(values FormValues, makes []string) g.Node {
	return Form(
		ID("estimateForm"),
		Class("space-y-6"),
		Method("post"),
		Action("/"),
		hx.Post("/"),
		hx.Target("#result"),
		hx.Swap("innerHTML"),
		FormGroup("Year", "year", NumberInput("year", "year", values.Year, Required())),
		FormGroup("Make", "make", TextInput("make", "make", values.Make,
			Required(),
			g.Attr("list", "makes"),
			hx.Get("/api/models"),
			hx.Trigger("change"),
			hx.Target("#models"),
			hx.Swap("innerHTML"),
		)),
		MakesDatalist(makes),
		FormGroup("Model", "model", TextInput("model", "model", values.Model,
			Required(),
			g.Attr("list", "models"),
		)),
		DataList(ID("models")),
		FormGroup("Mileage (optional)", "mileage", NumberInput("mileage", "mileage", values.Mileage)),
		styledButton("Estimate Price", buttonPrimary, Type("submit")),
	)
}

func MakesDatalist(makes []string) g.Node {
	return DataList(ID("makes"), ModelOptions(makes))
}

// ModelOptions renders datalist options; it is also the /api/models fragment.
func ModelOptions(values []string) g.Node {
	return g.Map(values, func(v string) g.Node {
		return Option(Value(v))
	})
}
