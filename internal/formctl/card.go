package formctl

import (
	"bytes"
	"html/template"
)

var cardTmpl = template.Must(template.New("card").Parse(`<div class="card">
  <h3>{{.URL}}</h3>
  {{- if .HasScore}}
  <p>Score: <strong>{{.Score}}</strong></p>
  {{- end}}
  <p>Malicious votes: <strong>{{.Malicious}}</strong> | Harmless votes: <strong>{{.Harmless}}</strong></p>
  <div class="badges"><span class="badge {{.BadgeClass}}">{{.BadgeLabel}}</span></div>
</div>`))

// Card is a rendered result card.
type Card struct {
	Result Result
	Badge  Badge
	HTML   template.HTML
}

// RenderCard builds the card for r. Every interpolated value is HTML-escaped.
func RenderCard(r *Result) (Card, error) {
	badge := SelectBadge(r)
	view := struct {
		URL        string
		HasScore   bool
		Score      string
		Malicious  string
		Harmless   string
		BadgeClass string
		BadgeLabel string
	}{
		URL:        r.URL,
		Malicious:  r.Malicious.Text,
		Harmless:   r.Harmless.Text,
		BadgeClass: string(badge.Kind),
		BadgeLabel: badge.Label,
	}
	if r.Score != nil {
		view.HasScore = true
		view.Score = *r.Score
	}

	var buf bytes.Buffer
	if err := cardTmpl.Execute(&buf, view); err != nil {
		return Card{}, err
	}
	return Card{Result: *r, Badge: badge, HTML: template.HTML(buf.String())}, nil
}
