package article

import (
	"fmt"
	"html"
	"strings"
)

// Assemble renders the article body. The intro, item content and conclusion
// are already HTML and are written as-is; titles, captions and URLs are
// escaped. Items are numbered from 1 and separated by <hr>, with no
// separator after the last one. Assemble does no I/O.
func Assemble(gen Generated, resolved []ResolvedItem) string {
	var b strings.Builder

	b.WriteString(`<div class="article-intro">`)
	b.WriteString(gen.Intro)
	b.WriteString("</div>\n")

	for i, it := range resolved {
		title := html.EscapeString(it.Title)
		fmt.Fprintf(&b, "<h2>%d. %s</h2>\n", i+1, title)
		b.WriteString(`<figure class="article-figure">`)
		fmt.Fprintf(&b, `<img src="%s" alt="%s" loading="lazy">`,
			html.EscapeString(it.ImageURL), title)
		fmt.Fprintf(&b, "<figcaption>%s</figcaption>", title)
		b.WriteString("</figure>\n")
		b.WriteString(`<div class="article-item">`)
		b.WriteString(it.Content)
		b.WriteString("</div>\n")
		if i < len(resolved)-1 {
			b.WriteString("<hr>\n")
		}
	}

	b.WriteString("<h2>Conclusion</h2>\n")
	b.WriteString(`<div class="article-conclusion">`)
	b.WriteString(gen.Conclusion)
	b.WriteString("</div>\n")
	return b.String()
}
