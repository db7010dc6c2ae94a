package formctl

import "fmt"

// BadgeKind is the vote sentiment summarized on a result card.
type BadgeKind string

const (
	BadgeNeutral   BadgeKind = "neutral"
	BadgeMalicious BadgeKind = "malicious"
	BadgeHarmless  BadgeKind = "harmless"
)

// Badge is the single tag rendered on a result card.
type Badge struct {
	Kind  BadgeKind
	Label string
}

// SelectBadge picks the badge for r. No votes at all is neutral. Malicious needs
// strictly more malicious than harmless votes, so ties fall to harmless.
func SelectBadge(r *Result) Badge {
	switch {
	case r.Malicious.IsZero() && r.Harmless.IsZero():
		return Badge{Kind: BadgeNeutral, Label: "No votes yet"}
	case r.Malicious.Value > r.Harmless.Value:
		return Badge{Kind: BadgeMalicious, Label: fmt.Sprintf("Malicious: %s", r.Malicious.Text)}
	default:
		return Badge{Kind: BadgeHarmless, Label: fmt.Sprintf("Harmless: %s", r.Harmless.Text)}
	}
}
