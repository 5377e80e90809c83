package fileconverter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
)

// feedHTML renders an RSS, Atom or JSON feed as an HTML document: the feed
// title and description, then one section per item.
func feedHTML(path string) (*htmlDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	feed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	d := newHTMLDoc(feed.Title)
	if feed.Title != "" {
		d.heading(1, feed.Title)
	}
	if feed.Description != "" {
		d.paragraph(feed.Description)
	}
	for _, item := range feed.Items {
		if item.Title != "" {
			d.heading(2, item.Title)
		}
		switch {
		case item.Published != "":
			d.paragraph("Published: " + item.Published)
		case item.Updated != "":
			d.paragraph("Updated: " + item.Updated)
		}
		content := item.Content
		if content == "" {
			content = item.Description
		}
		if strings.TrimSpace(content) != "" {
			d.fragment(content)
		}
		if item.Link != "" {
			d.link(item.Link, item.Link)
		}
	}
	return d, nil
}

func feedHTMLRoute(_ context.Context, in, out string) error {
	d, err := feedHTML(in)
	if err != nil {
		return err
	}
	return writeHTML(out, d)
}

func feedMarkdownRoute(_ context.Context, in, out string) error {
	d, err := feedHTML(in)
	if err != nil {
		return err
	}
	md, err := htmlToMarkdown(d.String())
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(normalizeText(md)), 0o644)
}

func feedTextRoute(_ context.Context, in, out string) error {
	d, err := feedHTML(in)
	if err != nil {
		return err
	}
	text, err := htmlToText(d.String())
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(text), 0o644)
}
