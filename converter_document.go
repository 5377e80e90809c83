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

package fileconverter

import (
	"context"
	"fmt"
	"sort"

	"github.com/nicholasgasior/fileconverter-go/internal/office"
)

var (
	documentInputs = []string{
		"pdf", "docx", "doc", "txt", "rtf", "odt", "xlsx", "xls", "csv", "pptx", "ppt",
		"html", "htm", "xml", "rss", "atom",
	}
	documentOutputs = []string{"pdf", "docx", "txt", "rtf", "odt", "xlsx", "csv", "pptx", "html", "md"}
)

// routeFunc converts in to out. out does not exist unless overwrite was requested.
type routeFunc func(ctx context.Context, in, out string) error

type routeKey struct {
	from, to string
}

// Route names one (input, output) pair the DocumentConverter can handle.
type Route struct {
	From, To string
	Name     string
	convert  routeFunc
}

// DocumentConverter converts office documents, text, markup, spreadsheets and
// feeds. Each supported pair of extensions maps to a named route; pure-Go
// routes are preferred and the office engine covers the rest.
type DocumentConverter struct {
	converterBase
	office *office.Engine
	routes map[routeKey]Route
}

// NewDocumentConverter creates a DocumentConverter. e may be nil.
func NewDocumentConverter(e *Engine) *DocumentConverter {
	e = engineOrDefault(e)
	c := &DocumentConverter{
		converterBase: newConverterBase("document", CategoryDocument, documentInputs, documentOutputs, e.logger, e.delegateTimeout),
		office:        e.officeEngine(),
		routes:        make(map[routeKey]Route),
	}
	c.registerRoutes()
	return c
}

func (c *DocumentConverter) route(name string, fn routeFunc, to string, from ...string) {
	for _, f := range from {
		c.routes[routeKey{f, to}] = Route{From: f, To: to, Name: name, convert: fn}
	}
}

func (c *DocumentConverter) registerRoutes() {
	c.route("pdf-text", pdfTextRoute, "txt", "pdf")
	c.route("pdf-docx", pdfDocxRoute, "docx", "pdf")
	c.route("docx-text", docxTextRoute, "txt", "docx")
	c.route("docx-html", docxHTMLRoute, "html", "docx")
	c.route("docx-markdown", docxMarkdownRoute, "md", "docx")
	c.route("text-docx", textDocxRoute, "docx", "txt")
	c.route("text-html", textHTMLRoute, "html", "txt")
	c.route("html-markdown", htmlMarkdownRoute, "md", "html", "htm")
	c.route("html-text", htmlTextRoute, "txt", "html", "htm")
	c.route("spreadsheet-csv", spreadsheetCSVRoute, "csv", "xlsx", "xls")
	c.route("spreadsheet-html", spreadsheetHTMLRoute, "html", "xlsx", "xls", "csv")
	c.route("csv-xlsx", csvXlsxRoute, "xlsx", "csv")
	c.route("slides-text", slidesTextRoute, "txt", "pptx")
	c.route("feed-text", feedTextRoute, "txt", "rss", "atom", "xml")
	c.route("feed-html", feedHTMLRoute, "html", "rss", "atom", "xml")
	c.route("feed-markdown", feedMarkdownRoute, "md", "rss", "atom", "xml")
	c.registerOfficeRoutes()
}

// Routes lists every supported pair, sorted by input then output.
func (c *DocumentConverter) Routes() []Route {
	out := make([]Route, 0, len(c.routes))
	for _, r := range c.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// RouteFor returns the route converting from one extension to another.
func (c *DocumentConverter) RouteFor(from, to string) (Route, bool) {
	r, ok := c.routes[routeKey{NormalizeFormat(from), NormalizeFormat(to)}]
	return r, ok
}

func (c *DocumentConverter) Convert(ctx context.Context, req Request) Outcome {
	j, rejected := c.prepare(req)
	if rejected != nil {
		return *rejected
	}
	r, ok := c.routes[routeKey{j.inputExt, j.outputExt}]
	if !ok {
		return *c.reject(req, j.output, &ConversionError{
			Kind:   KindUnmappedRoute,
			Input:  req.InputPath,
			Detail: fmt.Sprintf("%s to %s", j.inputExt, j.outputExt),
		})
	}
	c.logger.Debug("converting document", "input", req.InputPath, "route", r.Name)
	return c.run(ctx, j, func(ctx context.Context) error {
		return r.convert(ctx, req.InputPath, j.output)
	})
}
