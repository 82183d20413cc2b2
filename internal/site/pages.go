package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/decrypt/internal/blog"
)

// ListingErrorMessage replaces the card grid when the index cannot be loaded.
const ListingErrorMessage = "Blog failed to load. Check posts.json path."

// DetailErrorMessage is shown in the body region when a post cannot be shown.
func DetailErrorMessage(err error) string {
	return "This post failed to load: " + err.Error()
}

// FilterButton is one category filter control.
type FilterButton struct {
	Label  string
	Value  string
	Href   string
	Active bool
}

// ListingData is the view model of the listing page.
type ListingData struct {
	SiteTitle  string
	PageTitle  string
	BasePath   string
	Category   string
	Query      string
	Searchable bool
	Filters    []FilterButton
	Cards      template.HTML
	Error      string
	LiveReload bool
}

// DetailData is the view model of the detail page.
type DetailData struct {
	SiteTitle   string
	PageTitle   string
	BasePath    string
	BackHref    string
	Post        blog.Post
	DisplayDate string
	Body        template.HTML
	Error       string
	LiveReload  bool
}

// Pages renders listing and detail pages.
type Pages struct {
	SiteTitle string

	listing *template.Template
	detail  *template.Template
	cards   *blog.Renderer
}

// NewPages parses the page templates.
func NewPages(siteTitle string) (*Pages, error) {
	base, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing layout template: %w", err)
	}
	listing, err := template.Must(base.Clone()).New("listing").Parse(listingTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing listing template: %w", err)
	}
	detail, err := template.Must(base.Clone()).New("detail").Parse(detailTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing detail template: %w", err)
	}
	cards, err := blog.NewRenderer()
	if err != nil {
		return nil, err
	}
	if siteTitle == "" {
		siteTitle = blog.DefaultSiteTitle
	}
	return &Pages{
		SiteTitle: siteTitle,
		listing:   listing,
		detail:    detail,
		cards:     cards,
	}, nil
}

// Cards renders the card grid for list, linking each card through href.
func (p *Pages) Cards(list []blog.Post, href func(slug string) string) (template.HTML, error) {
	r := *p.cards
	r.Href = href
	return r.RenderHTML(list)
}

// Filters builds one button per category, marking active as selected.
func (p *Pages) Filters(categories []string, active string, href func(category string) string) []FilterButton {
	// A Caser is stateful, so each call gets its own.
	title := cases.Title(language.English)
	buttons := make([]FilterButton, len(categories))
	for i, c := range categories {
		buttons[i] = FilterButton{
			Label:  title.String(c),
			Value:  c,
			Href:   href(c),
			Active: c == active,
		}
	}
	return buttons
}

// PostTitle is the document title of the detail page for post.
func (p *Pages) PostTitle(post blog.Post) string {
	return blog.PageTitle(p.SiteTitle, post)
}

// Listing writes the listing page.
func (p *Pages) Listing(w io.Writer, data ListingData) error {
	if data.SiteTitle == "" {
		data.SiteTitle = p.SiteTitle
	}
	if data.PageTitle == "" {
		data.PageTitle = data.SiteTitle
	}
	if data.Category == "" {
		data.Category = blog.CategoryAll
	}
	return render(w, p.listing, data)
}

// Detail writes the detail page.
func (p *Pages) Detail(w io.Writer, data DetailData) error {
	if data.SiteTitle == "" {
		data.SiteTitle = p.SiteTitle
	}
	if data.PageTitle == "" {
		data.PageTitle = data.SiteTitle
	}
	if data.BackHref == "" {
		data.BackHref = data.BasePath + "index.html"
	}
	return render(w, p.detail, data)
}

// render executes tmpl fully before writing so a template failure never
// leaves a half-written page.
func render(w io.Writer, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering %s: %w", tmpl.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// ListingHref links to the served listing for category and query.
func ListingHref(category, query string) string {
	v := url.Values{}
	if category != "" && category != blog.CategoryAll {
		v.Set("category", category)
	}
	if query != "" {
		v.Set("q", query)
	}
	if len(v) == 0 {
		return "index.html"
	}
	return "index.html?" + v.Encode()
}

// PageName maps a slug or category onto a file name stem. Names made only of
// letters, digits, '.', '_' and '-' are used as-is; anything else gets a
// stable name-based UUID.
func PageName(s string) string {
	if isSafeName(s) {
		return s
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(s)).String()
}

func isSafeName(s string) bool {
	if s == "" || s[0] == '.' {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
