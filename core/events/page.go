package events

const (
	// KindPageChanged identifies a transition of the page state machine.
	KindPageChanged Kind = "page.changed"
)

// PageChanged reports a page transition. Pages are carried as their string
// names so this package stays free of orchestrator types.
type PageChanged struct {
	Base
	From string
	To   string
	// VisitID identifies the page visit that just started.
	VisitID string
}

// NewPageChanged creates a page changed event.
func NewPageChanged(from, to, visitID string) PageChanged {
	return PageChanged{Base: NewBase(KindPageChanged), From: from, To: to, VisitID: visitID}
}
