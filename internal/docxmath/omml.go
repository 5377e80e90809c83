// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Package docxmath renders Office Math (OMML) equations as LaTeX.
package docxmath

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Namespace is the OMML namespace URI.
const Namespace = "http://schemas.openxmlformats.org/officeDocument/2006/math"

// Node is a generic OMML element. Decode an m:oMath or m:oMathPara subtree
// into it with xml.Decoder.DecodeElement.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []Node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

// Parse decodes a standalone OMML fragment.
func Parse(data []byte) (*Node, error) {
	var n Node
	if err := xml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse OMML: %w", err)
	}
	return &n, nil
}

func (n *Node) name() string { return n.XMLName.Local }

func (n *Node) child(name string) *Node {
	for i := range n.Children {
		if n.Children[i].name() == name {
			return &n.Children[i]
		}
	}
	return nil
}

// prop returns the m:val attribute of the named child of n's property
// element, and whether that child is present.
func (n *Node) prop(name string) (string, bool) {
	pr := n.child(n.name() + "Pr")
	if pr == nil {
		return "", false
	}
	c := pr.child(name)
	if c == nil {
		return "", false
	}
	for _, a := range c.Attrs {
		if a.Name.Local == "val" {
			return a.Value, true
		}
	}
	return "", true
}

// IsDisplay reports whether n is a display equation (m:oMathPara).
func IsDisplay(n *Node) bool {
	return n.name() == "oMathPara"
}

// LaTeX renders an m:oMath or m:oMathPara element. Equations in a paragraph
// are separated by a line break.
func LaTeX(n *Node) string {
	if IsDisplay(n) {
		var eqs []string
		for i := range n.Children {
			if c := &n.Children[i]; c.name() == "oMath" {
				eqs = append(eqs, strings.TrimSpace(render(c)))
			}
		}
		return strings.Join(eqs, lineBreak)
	}
	return strings.TrimSpace(render(n))
}

// render converts every child of n and concatenates the results.
func render(n *Node) string {
	var b strings.Builder
	for i := range n.Children {
		b.WriteString(element(&n.Children[i]))
	}
	return b.String()
}

// arg renders the named child, or "" when it is absent.
func arg(n *Node, name string) string {
	if c := n.child(name); c != nil {
		return render(c)
	}
	return ""
}

func element(n *Node) string {
	switch n.name() {
	case "r":
		return run(n)
	case "f":
		return fraction(n)
	case "sSup":
		return arg(n, "e") + "^{" + arg(n, "sup") + "}"
	case "sSub":
		return arg(n, "e") + "_{" + arg(n, "sub") + "}"
	case "sSubSup":
		return arg(n, "e") + "_{" + arg(n, "sub") + "}^{" + arg(n, "sup") + "}"
	case "sPre":
		return "{}_{" + arg(n, "sub") + "}^{" + arg(n, "sup") + "}" + arg(n, "e")
	case "rad":
		return radical(n)
	case "d":
		return delimiter(n)
	case "nary":
		return nary(n)
	case "func":
		return function(n)
	case "acc":
		chr, ok := n.prop("chr")
		if !ok {
			chr = "\u0302"
		}
		return accent(chr, arg(n, "e"), `\hat{%s}`)
	case "bar":
		if pos, _ := n.prop("pos"); pos == "bot" {
			return `\underline{` + arg(n, "e") + "}"
		}
		return `\overline{` + arg(n, "e") + "}"
	case "groupChr":
		chr, ok := n.prop("chr")
		if !ok {
			chr = "\u23df"
		}
		return accent(chr, arg(n, "e"), `\underbrace{%s}`)
	case "limLow":
		return limLow(n)
	case "limUpp":
		return `\overset{` + arg(n, "lim") + "}{" + arg(n, "e") + "}"
	case "eqArr":
		return `\begin{array}{c}` + rows(n, "e") + `\end{array}`
	case "m":
		return matrix(n)
	case "box", "borderBox", "phant", "e", "num", "den", "deg", "sub", "sup", "lim", "fName", "oMath":
		return render(n)
	}
	return ""
}

// run converts the text of an m:r, escaping LaTeX specials and mapping
// math symbols to commands.
func run(n *Node) string {
	var b strings.Builder
	for i := range n.Children {
		t := &n.Children[i]
		if t.name() != "t" {
			continue
		}
		for _, r := range t.Text {
			switch {
			case strings.ContainsRune(specials, r):
				b.WriteByte('\\')
				b.WriteRune(r)
			case r == '\\':
				b.WriteString(`\backslash `)
			default:
				if s, ok := symbol(r); ok {
					b.WriteString(s)
				} else {
					b.WriteRune(r)
				}
			}
		}
	}
	return b.String()
}

func fraction(n *Node) string {
	num, den := arg(n, "num"), arg(n, "den")
	typ, _ := n.prop("type")
	switch typ {
	case "skw":
		return "^{" + num + "}/_{" + den + "}"
	case "lin":
		return "{" + num + "}/{" + den + "}"
	case "noBar":
		return `\genfrac{}{}{0pt}{}{` + num + "}{" + den + "}"
	}
	return `\frac{` + num + "}{" + den + "}"
}

func radical(n *Node) string {
	deg := arg(n, "deg")
	if hide, _ := n.prop("degHide"); hide == "1" || hide == "on" || hide == "true" || deg == "" {
		return `\sqrt{` + arg(n, "e") + "}"
	}
	return `\sqrt[` + deg + "]{" + arg(n, "e") + "}"
}

// delimiter wraps the m:e children in \left and \right. An explicitly empty
// begChr or endChr renders as the null delimiter.
func delimiter(n *Node) string {
	open, ok := n.prop("begChr")
	if !ok {
		open = "("
	}
	closing, ok := n.prop("endChr")
	if !ok {
		closing = ")"
	}
	sep, ok := n.prop("sepChr")
	if !ok {
		sep = "|"
	}

	var parts []string
	for i := range n.Children {
		if c := &n.Children[i]; c.name() == "e" {
			parts = append(parts, render(c))
		}
	}
	return `\left` + fence(open) + strings.Join(parts, fence(sep)) + `\right` + fence(closing)
}

func fence(chr string) string {
	switch chr {
	case "":
		return "."
	case "{", "}":
		return `\` + chr
	case "|":
		return "|"
	}
	if s, ok := fences[chr]; ok {
		return s
	}
	return chr
}

// nary renders a big operator with its limits. The operator defaults to the
// integral sign.
func nary(n *Node) string {
	chr, ok := n.prop("chr")
	if !ok {
		chr = "\u222b"
	}
	op, known := bigOperators[chr]
	if !known {
		op = chr
	}
	var b strings.Builder
	b.WriteString(op)
	if sub := arg(n, "sub"); sub != "" {
		b.WriteString("_{" + sub + "}")
	}
	if sup := arg(n, "sup"); sup != "" {
		b.WriteString("^{" + sup + "}")
	}
	b.WriteString("{" + arg(n, "e") + "}")
	return b.String()
}

// function renders m:func. Known names become LaTeX operators.
func function(n *Node) string {
	name := strings.TrimSpace(arg(n, "fName"))
	body := arg(n, "e")
	if op, ok := functions[name]; ok {
		return op + "(" + body + ")"
	}
	if name == "" {
		return body
	}
	return name + body
}

func accent(chr, body, fallback string) string {
	format, ok := accents[chr]
	if !ok {
		format = fallback
	}
	return fmt.Sprintf(format, body)
}

func limLow(n *Node) string {
	base := strings.TrimSpace(arg(n, "e"))
	lim := strings.ReplaceAll(arg(n, "lim"), `\rightarrow `, `\to `)
	if op, ok := limitOperators[base]; ok {
		return op + "_{" + lim + "}"
	}
	return base + "_{" + lim + "}"
}

// rows joins the named children of n with LaTeX line breaks.
func rows(n *Node, name string) string {
	var parts []string
	for i := range n.Children {
		if c := &n.Children[i]; c.name() == name {
			parts = append(parts, render(c))
		}
	}
	return strings.Join(parts, lineBreak)
}

func matrix(n *Node) string {
	var lines []string
	for i := range n.Children {
		mr := &n.Children[i]
		if mr.name() != "mr" {
			continue
		}
		var cells []string
		for j := range mr.Children {
			if c := &mr.Children[j]; c.name() == "e" {
				cells = append(cells, render(c))
			}
		}
		lines = append(lines, strings.Join(cells, " & "))
	}
	return `\begin{matrix}` + strings.Join(lines, lineBreak) + `\end{matrix}`
}
