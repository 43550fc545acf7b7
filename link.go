package vgnav

import (
	"strings"

	"github.com/vugu/vgnav/history"
)

// LinkState describes how a link to some target relates to the current location.
type LinkState struct {
	// Href is the resolved target.
	Href string

	// IsCurrent is true when the location's pathname equals Href's pathname.
	IsCurrent bool

	// IsPartiallyCurrent is true when Href's pathname is a segment-wise prefix
	// of the location's pathname.
	IsPartiallyCurrent bool
}

// Link resolves to against baseURI and compares it with loc.
func Link(to, baseURI string, loc history.Location) LinkState {
	href := Resolve(to, baseURI)
	target := history.NormalizePathname(stripQuery(href))
	current := history.NormalizePathname(loc.Pathname)

	return LinkState{
		Href:               href,
		IsCurrent:          target == current,
		IsPartiallyCurrent: target == "/" || target == current || strings.HasPrefix(current, target+"/"),
	}
}
