package chart

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/format"
)

// SVG styling shared by every chart kind.
const (
	gridColor        = "#e5e7eb"
	labelColor       = "#6b7280"
	placeholderFill  = "#f9fafb"
	placeholderColor = "#9ca3af"
	fontSize         = 11
	lineWidth        = 2
	legendSwatch     = 10
)

// WriteSVG encodes s as a standalone SVG document of exactly s.Width x
// s.Height. The output is a pure function of s.
func WriteSVG(w io.Writer, s Scene) error {
	ew := &errWriter{w: w}

	ew.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" role="img">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))

	if p := s.Placeholder; p != nil {
		ew.printf(`<rect class="placeholder" x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n",
			num(p.Width), num(p.Height), placeholderFill)
		ew.printf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-size="%d" fill="%s">%s</text>`+"\n",
			num(p.Width/2), num(p.Height/2), fontSize+2, placeholderColor, escape(p.Message))
		ew.printf("</svg>\n")
		return ew.err
	}

	if len(s.Grid) > 0 {
		ew.printf(`<g class="grid" stroke="%s" stroke-width="1">`+"\n", gridColor)
		for _, g := range s.Grid {
			ew.printf(`<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(g.X1), num(g.Y1), num(g.X2), num(g.Y2))
		}
		ew.printf("</g>\n")
	}

	for _, b := range s.Bars {
		ew.printf(`<rect class="bar" x="%s" y="%s" width="%s" height="%s" fill="%s"><title>%s</title></rect>`+"\n",
			num(b.X), num(b.Y), num(b.Width), num(b.Height), escape(b.Color), escape(b.Tooltip))
	}

	if l := s.Line; l != nil && len(l.Path) > 0 {
		ew.printf(`<path class="line" d="%s" fill="none" stroke="%s" stroke-width="%d"/>`+"\n",
			l.Path.D(), escape(l.Color), lineWidth)
	}
	for _, m := range s.Markers {
		ew.printf(`<circle class="marker" cx="%s" cy="%s" r="%s" fill="%s"><title>%s</title></circle>`+"\n",
			num(m.X), num(m.Y), num(m.R), escape(m.Color), escape(m.Tooltip))
	}

	for _, sec := range s.Sectors {
		if len(sec.Path) == 0 {
			continue
		}
		ew.printf(`<path class="sector" d="%s" fill="%s"><title>%s</title></path>`+"\n",
			sec.Path.D(), escape(sec.Color), escape(sec.Label+": "+format.Percent(sec.Percentage)))
	}

	for _, t := range s.Labels {
		title := ""
		if t.Title != "" {
			title = "<title>" + escape(t.Title) + "</title>"
		}
		ew.printf(`<text x="%s" y="%s" text-anchor="%s" dominant-baseline="middle" font-size="%d" fill="%s">%s%s</text>`+"\n",
			num(t.X), num(t.Y), t.Anchor, fontSize, labelColor, title, escape(t.Value))
	}

	if len(s.Legend) > 0 {
		ew.printf(`<g class="legend">` + "\n")
		for _, e := range s.Legend {
			ew.printf(`<rect x="%s" y="%s" width="%d" height="%d" fill="%s"/>`+"\n",
				num(e.X), num(e.Y-legendSwatch/2), legendSwatch, legendSwatch, escape(e.Color))
			ew.printf(`<text x="%s" y="%s" dominant-baseline="middle" font-size="%d" fill="%s">%s</text>`+"\n",
				num(e.X+legendSwatch+4), num(e.Y), fontSize, labelColor, escape(e.Text))
		}
		ew.printf("</g>\n")
	}

	ew.printf("</svg>\n")
	return ew.err
}

// SVG returns the SVG encoding of s.
func SVG(s Scene) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, s) // bytes.Buffer writes cannot fail
	return buf.Bytes()
}

// escape returns s with XML special characters escaped.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// errWriter remembers the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(f string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, f, args...)
}
