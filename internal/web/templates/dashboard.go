package templates

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dashview/internal/core"
)

// ResourceCard is one resource on the dashboard.
type ResourceCard struct {
	Info      core.ResourceInfo
	Total     int        // -1 when the records could not be loaded
	FetchedAt *time.Time // nil when never fetched
}

// ResourceGroup is one sidebar section.
type ResourceGroup struct {
	Name      string
	Resources []ResourceCard
}

// Dashboard lists every resource by group with its record count.
func Dashboard(groups []ResourceGroup) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<h1>Dashboard</h1>`)
		if len(groups) == 0 {
			h.raw(`<p class="empty">No resources are configured.</p>`)
			return
		}
		for _, g := range groups {
			h.raw(`<section class="group"><h2>`)
			h.text(g.Name)
			h.raw(`</h2><ul class="cards">`)
			for _, card := range g.Resources {
				h.raw(`<li class="card"><a`)
				h.attr("href", "/view/"+card.Info.Key)
				h.raw(`>`)
				h.text(card.Info.Label)
				h.raw(`</a><span class="count">`)
				if card.Total < 0 {
					h.raw(`unavailable`)
				} else {
					h.text(strconv.Itoa(card.Total) + " records")
				}
				h.raw(`</span>`)
				if card.FetchedAt != nil {
					h.raw(`<time`)
					h.attr("datetime", card.FetchedAt.Format(time.RFC3339))
					h.raw(`>`)
					h.text(card.FetchedAt.Format("15:04:05"))
					h.raw(`</time>`)
				}
				h.raw(`</li>`)
			}
			h.raw(`</ul></section>`)
		}
	})
	return Layout("Dashboard", body)
}
