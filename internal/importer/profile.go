package importer

import "strings"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle is one signed column, e.g. "amount" with "-10.00".
	amountSingle amountMode = iota
	// amountSplit is separate debit and credit columns.
	amountSplit
)

// profile describes a CSV column layout. Each field lists the accepted header
// names, compared case-insensitively.
type profile struct {
	name   string
	date   []string
	desc   []string
	kind   []string // optional
	mode   amountMode
	amount []string
	debit  []string
	credit []string
}

// profiles are tried in order; split layouts come first so a file that has
// both a balance-like "amount" and debit/credit columns is read by the latter.
var profiles = []profile{
	{
		name:   "split",
		date:   []string{"date", "data", "data mov.", "transaction_date"},
		desc:   []string{"description", "descrição", "descricao"},
		mode:   amountSplit,
		debit:  []string{"debit", "débito", "debito"},
		credit: []string{"credit", "crédito", "credito"},
	},
	{
		name:   "single",
		date:   []string{"date", "data", "data mov.", "transaction_date"},
		desc:   []string{"description", "descrição", "descricao"},
		kind:   []string{"type", "tipo"},
		mode:   amountSingle,
		amount: []string{"amount", "montante", "movimento", "valor"},
	},
}

// layout is a profile resolved against a concrete header row.
type layout struct {
	profile *profile
	date    int
	desc    int
	kind    int
	amount  int
	debit   int
	credit  int
}

// colIndex maps lower-cased header names to their position.
type colIndex map[string]int

func newColIndex(row []string) colIndex {
	cols := make(colIndex, len(row))

	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}

		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	return cols
}

func (c colIndex) find(names []string) int {
	for _, n := range names {
		if i, ok := c[n]; ok {
			return i
		}
	}

	return -1
}

// match resolves p against cols, or returns nil when a required column is missing.
func (p *profile) match(cols colIndex) *layout {
	l := &layout{
		profile: p,
		date:    cols.find(p.date),
		desc:    cols.find(p.desc),
		kind:    cols.find(p.kind),
		amount:  -1,
		debit:   -1,
		credit:  -1,
	}

	if l.date < 0 || l.desc < 0 {
		return nil
	}

	switch p.mode {
	case amountSingle:
		l.amount = cols.find(p.amount)
		if l.amount < 0 {
			return nil
		}
	case amountSplit:
		l.debit = cols.find(p.debit)
		l.credit = cols.find(p.credit)

		if l.debit < 0 || l.credit < 0 {
			return nil
		}
	}

	return l
}
