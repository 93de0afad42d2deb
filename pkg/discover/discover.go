// Package discover finds the category pages linked from the nutrition index.
package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/lne-nutrition/models"
	"github.com/dtnitsch/lne-nutrition/pkg/htmlutil"
)

// PageSuffix is the link-target suffix that marks a category page.
const PageSuffix = ".html"

// Discover returns one CategoryPage per anchor inside a table whose href,
// with any query string removed, ends in PageSuffix and whose text is not
// blank. Document order is kept and repeated links are not collapsed.
func Discover(doc *goquery.Document) []models.CategoryPage {
	var pages []models.CategoryPage
	doc.Find("table a").Each(func(i int, a *goquery.Selection) {
		title := htmlutil.FlattenText(a)
		href, _ := a.Attr("href")
		link := stripQuery(href)

		if strings.HasSuffix(link, PageSuffix) && title != "" {
			pages = append(pages, models.CategoryPage{Title: title, URL: link})
		}
	})
	return pages
}

func stripQuery(href string) string {
	if i := strings.IndexByte(href, '?'); i >= 0 {
		return href[:i]
	}
	return href
}

// Duplicates reports titles and URLs that occur more than once, in the order
// their second occurrence is seen.
func Duplicates(pages []models.CategoryPage) (titles, urls []string) {
	seenTitle := make(map[string]int)
	seenURL := make(map[string]int)
	for _, p := range pages {
		seenTitle[p.Title]++
		if seenTitle[p.Title] == 2 {
			titles = append(titles, p.Title)
		}
		seenURL[p.URL]++
		if seenURL[p.URL] == 2 {
			urls = append(urls, p.URL)
		}
	}
	return titles, urls
}
