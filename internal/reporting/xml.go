// internal/reporting/xml.go
package reporting

import (
	"io"
	"strconv"

	"github.com/beevik/etree"
)

func encodeXML(w io.Writer, doc *Document) error {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := out.CreateElement("cssbox")

	for _, sheet := range doc.Stylesheets {
		sheetEl := root.CreateElement("stylesheet")
		sheetEl.CreateAttr("source", sheet.Source)
		for _, rule := range sheet.Rules {
			ruleEl := sheetEl.CreateElement("rule")
			for _, sel := range rule.Selectors {
				selEl := ruleEl.CreateElement("selector")
				selEl.CreateAttr("specificity", sel.Specificity)
				if sel.Combinators != "" {
					selEl.CreateAttr("combinators", sel.Combinators)
				}
				selEl.SetText(sel.Text)
			}
			for _, decl := range rule.Declarations {
				declEl := ruleEl.CreateElement("declaration")
				declEl.CreateAttr("property", decl.Property)
				declEl.CreateAttr("kind", decl.Kind)
				if decl.Unit != "" {
					declEl.CreateAttr("unit", decl.Unit)
				}
				declEl.SetText(decl.Value)
			}
		}
	}

	for _, l := range doc.Layouts {
		layoutEl := root.CreateElement("layout")
		layoutEl.CreateAttr("source", l.Source)
		if l.Root != nil {
			appendBoxElement(layoutEl, *l.Root)
		}
	}

	for _, g := range doc.Geometries {
		geomEl := root.CreateElement("geometry")
		geomEl.CreateAttr("source", g.Source)
		geomEl.CreateAttr("query", g.Query)
		geomEl.CreateAttr("xpath", g.XPath)
		geomEl.CreateAttr("tag", g.TagName)
		geomEl.CreateAttr("type", g.BoxType)
		geomEl.CreateAttr("x", formatNumber(g.X))
		geomEl.CreateAttr("y", formatNumber(g.Y))
		geomEl.CreateAttr("width", formatNumber(g.Width))
		geomEl.CreateAttr("height", formatNumber(g.Height))
	}

	out.Indent(2)
	_, err := out.WriteTo(w)
	return err
}

func appendBoxElement(parent *etree.Element, box BoxReport) {
	el := parent.CreateElement("box")
	el.CreateAttr("type", box.BoxType)
	el.CreateAttr("node", box.Node)
	if box.XPath != "" {
		el.CreateAttr("xpath", box.XPath)
	}

	content := el.CreateElement("content")
	content.CreateAttr("x", formatNumber(box.Content.X))
	content.CreateAttr("y", formatNumber(box.Content.Y))
	content.CreateAttr("width", formatNumber(box.Content.Width))
	content.CreateAttr("height", formatNumber(box.Content.Height))

	appendEdgesElement(el, "padding", box.Padding)
	appendEdgesElement(el, "border", box.Border)
	appendEdgesElement(el, "margin", box.Margin)

	for _, child := range box.Children {
		appendBoxElement(el, child)
	}
}

func appendEdgesElement(parent *etree.Element, name string, e EdgesReport) {
	el := parent.CreateElement(name)
	el.CreateAttr("top", formatNumber(e.Top))
	el.CreateAttr("right", formatNumber(e.Right))
	el.CreateAttr("bottom", formatNumber(e.Bottom))
	el.CreateAttr("left", formatNumber(e.Left))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
