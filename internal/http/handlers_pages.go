package http

import (
	"net/http"
)

type pageData struct {
	Tab         Tab
	Tabs        []Tab
	Title       string
	DisplayName string
	// PartialURL is the htmx partial that fills the page body.
	PartialURL string
}

var pagePartials = map[Tab]string{
	TabDashboard:    "/ui/dashboard",
	TabTransactions: "/ui/transactions",
	TabRewards:      "/ui/rewards",
	TabAccount:      "/ui/accounts",
	TabSettings:     "/ui/sources",
}

// handlePage renders the sidebar shell for the tab named by the path. An
// unknown tab redirects to the dashboard.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("tab")
	tab := ParseTab(raw)
	if raw != "" && string(tab) != raw {
		http.Redirect(w, r, TabDashboard.Path(), http.StatusFound)
		return
	}
	if raw == string(TabDashboard) {
		http.Redirect(w, r, TabDashboard.Path(), http.StatusMovedPermanently)
		return
	}

	data := pageData{
		Tab:         tab,
		Tabs:        Tabs(),
		Title:       tab.Label(),
		DisplayName: s.cfg.DisplayName,
		PartialURL:  pagePartials[tab],
	}
	if tab == TabTransactions {
		// Carry the view state of a pushed URL into the first partial load.
		data.PartialURL = withQuery(data.PartialURL, viewQuery(viewFromQuery(r)))
	}

	s.render(w, r, "page_"+string(tab), data, nil)
}
