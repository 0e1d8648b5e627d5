package tiles

import "github.com/vovakirdan/b18print/internal/game"

// TokenEntry is one row of a token tray.
type TokenEntry struct {
	Label      string `json:"label"`
	Color      string `json:"color,omitempty"`
	Duplicates int    `json:"duplicates"`
	Company    bool   `json:"company"`
}

// TokenTrays holds the station (btok) and market (mtok) token rows.
// Market rows mirror the companies only and carry no duplicate count.
type TokenTrays struct {
	Station []TokenEntry `json:"station"`
	Market  []TokenEntry `json:"market"`
	Extras  int          `json:"extras"`
}

// SheetRows is the number of token rows on the printed token sheet.
func (t TokenTrays) SheetRows() int {
	return len(t.Market) + t.Extras
}

// Tokens builds the token trays of a game.
//
// Every company contributes a station row with its token count plus the
// game's extra station tokens, and a flip-only market row. Extra tokens with
// an explicit quantity of 0 are dropped; an infinite quantity is written as 0
// and an absent one as 1.
func Tokens(spec *game.Spec) TokenTrays {
	trays := TokenTrays{
		Station: []TokenEntry{},
		Market:  []TokenEntry{},
	}

	for _, c := range spec.Companies {
		label := c.Abbrev
		if label == "" {
			label = c.Name
		}
		trays.Station = append(trays.Station, TokenEntry{
			Label:      label,
			Color:      c.Color,
			Duplicates: int(c.Tokens) + spec.Info.ExtraStationTokens,
			Company:    true,
		})
		trays.Market = append(trays.Market, TokenEntry{
			Label:   label,
			Color:   c.Color,
			Company: true,
		})
	}

	for _, tok := range spec.Tokens {
		q := tok.Quantity
		if q.IsSet() && !q.IsInfinite() && q.N() == 0 {
			continue
		}
		dups := 1
		switch {
		case q.IsInfinite():
			dups = 0
		case q.IsSet():
			dups = q.N()
		}
		trays.Station = append(trays.Station, TokenEntry{
			Label:      tok.Name,
			Duplicates: dups,
		})
		trays.Extras++
	}
	return trays
}
