package blog

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// Card is the view model of one summary card.
type Card struct {
	Href     string
	Category string
	Date     string
	Title    string
	Excerpt  string
	Tags     []string
}

const cardsTemplate = `{{range .}}
<a class="card" href="{{.Href}}">
  <div class="cardTop">
    <span class="pill">{{.Category}}</span>
    <span class="date">{{.Date}}</span>
  </div>
  <h3>{{.Title}}</h3>
  <p>{{.Excerpt}}</p>
  <div class="cardBottom">
    <span class="link">Read more →</span>
  </div>
</a>
{{end}}`

// Renderer turns post lists into card markup.
type Renderer struct {
	// Href maps a slug to the detail view link. Defaults to QueryHref.
	Href func(slug string) string

	tmpl *template.Template
}

// NewRenderer parses the card template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("cards").Parse(cardsTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing card template: %w", err)
	}
	return &Renderer{Href: QueryHref, tmpl: tmpl}, nil
}

// Cards builds one card per post, in list order.
func (r *Renderer) Cards(list []Post) []Card {
	href := r.Href
	if href == nil {
		href = QueryHref
	}
	cards := make([]Card, len(list))
	for i, p := range list {
		cards[i] = Card{
			Href:     href(p.Slug),
			Category: p.Category,
			Date:     FormatDate(p.Date),
			Title:    p.Title,
			Excerpt:  p.Excerpt,
			Tags:     p.Tags,
		}
	}
	return cards
}

// Render writes the cards for list to w.
func (r *Renderer) Render(w io.Writer, list []Post) error {
	return r.tmpl.Execute(w, r.Cards(list))
}

// RenderHTML renders list into a trusted HTML fragment.
func (r *Renderer) RenderHTML(list []Post) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, list); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
