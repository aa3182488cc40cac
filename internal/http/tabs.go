package http

// Tab is one entry of the sidebar navigation.
type Tab string

const (
	TabDashboard    Tab = "dashboard"
	TabTransactions Tab = "transactions"
	TabRewards      Tab = "rewards"
	TabAccount      Tab = "account"
	TabSettings     Tab = "settings"
)

var tabLabels = map[Tab]string{
	TabDashboard:    "Dashboard",
	TabTransactions: "Transaction",
	TabRewards:      "Rewards",
	TabAccount:      "Account",
	TabSettings:     "Settings",
}

var tabIcons = map[Tab]string{
	TabDashboard:    "🏠",
	TabTransactions: "💳",
	TabRewards:      "🎁",
	TabAccount:      "👤",
	TabSettings:     "⚙️",
}

// Tabs returns the tabs in sidebar order.
func Tabs() []Tab {
	return []Tab{TabDashboard, TabTransactions, TabRewards, TabAccount, TabSettings}
}

// ParseTab maps a path segment to a tab. Anything unknown is the dashboard.
func ParseTab(s string) Tab {
	t := Tab(s)
	if _, ok := tabLabels[t]; ok {
		return t
	}
	return TabDashboard
}

// Label is the text shown in the sidebar.
func (t Tab) Label() string { return tabLabels[ParseTab(string(t))] }

// Icon is the glyph shown next to the label.
func (t Tab) Icon() string { return tabIcons[ParseTab(string(t))] }

// Path is the page URL of the tab.
func (t Tab) Path() string {
	t = ParseTab(string(t))
	if t == TabDashboard {
		return "/"
	}
	return "/" + string(t)
}
