package domain

// Comment is one entry from the external comment feed, reduced to the
// two fields reconciliation cares about.
type Comment struct {
	AuthorHandle string
	Text         string
}
