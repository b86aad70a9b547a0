package ledger

import "ledger/pkg/models"

// Memo caches the last Apply result. It is keyed on the caller's list
// revision and the filter inputs, so a caller only has to bump the revision
// whenever it replaces the list. Not safe for concurrent use.
type Memo struct {
	valid  bool
	rev    uint64
	filter Filter
	result Result
	hits   int
}

// Apply returns the cached result when rev and f are unchanged, otherwise it
// recomputes.
func (m *Memo) Apply(rev uint64, invoices []models.Invoice, f Filter) Result {
	if m.valid && m.rev == rev && sameFilter(m.filter, f) {
		m.hits++
		return m.result
	}

	m.result = Apply(invoices, f)
	m.rev = rev
	m.filter = f
	m.valid = true
	return m.result
}

// Hits is the number of calls served from cache.
func (m *Memo) Hits() int {
	return m.hits
}

func sameFilter(a, b Filter) bool {
	return a.Query == b.Query &&
		a.Type == b.Type &&
		a.Range.Start.Equal(b.Range.Start) &&
		a.Range.End.Equal(b.Range.End)
}
