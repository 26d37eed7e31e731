package handlers

import (
	"time"

	"gallery-viewer/internal/cards"
	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/lightbox"
	"gallery-viewer/internal/mapping"
	"gallery-viewer/internal/thumbs"
)

type Handlers struct {
	resolver   *gallery.Resolver
	controller *lightbox.Controller
	surface    *Surface
	cards      []cards.Card
	thumbGen   *thumbs.Generator
	table      *mapping.Table
	started    time.Time
}

func New(resolver *gallery.Resolver, controller *lightbox.Controller, surface *Surface, cardList []cards.Card, thumbGen *thumbs.Generator, table *mapping.Table) *Handlers {
	return &Handlers{
		resolver:   resolver,
		controller: controller,
		surface:    surface,
		cards:      cardList,
		thumbGen:   thumbGen,
		table:      table,
		started:    time.Now(),
	}
}

// findCard returns the card with the given ID.
func (h *Handlers) findCard(id int) (cards.Card, bool) {
	for _, c := range h.cards {
		if c.ID == id {
			return c, true
		}
	}
	return cards.Card{}, false
}
