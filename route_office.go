package fileconverter

import "context"

// officeRoute converts through the office engine with the given target
// filter ("pdf", "txt:Text").
func (c *DocumentConverter) officeRoute(target string) routeFunc {
	return func(ctx context.Context, in, out string) error {
		return c.office.Convert(ctx, in, out, target)
	}
}

// registerOfficeRoutes adds the pairs only the office engine can produce.
// Pairs already served by a native route keep it.
func (c *DocumentConverter) registerOfficeRoutes() {
	add := func(to, target string, from ...string) {
		for _, f := range from {
			if f == to {
				continue
			}
			if _, native := c.routes[routeKey{f, to}]; native {
				continue
			}
			c.route("office", c.officeRoute(target), to, f)
		}
	}

	add("pdf", "pdf", "doc", "docx", "odt", "rtf", "txt", "html", "htm")
	for _, to := range []string{"odt", "rtf", "docx"} {
		add(to, to, "doc", "docx", "odt", "rtf")
	}
	add("pdf", "pdf", "xlsx", "xls")
	add("xlsx", "xlsx", "xls")
	add("pdf", "pdf", "ppt", "pptx")
	add("pptx", "pptx", "ppt")
	add("txt", "txt:Text", "doc")
}
