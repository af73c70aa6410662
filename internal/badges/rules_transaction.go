package badges

import (
	"github.com/shopspring/decimal"

	"github.com/moose735/TLOED/internal/model"
)

// SeasonTransactionsThreshold is the count that earns Season Transactions.
const SeasonTransactionsThreshold = 50

// txnOwners resolves a transaction's rosters to distinct owners.
func (sc *seasonCtx) txnOwners(t model.Transaction) []model.OwnerID {
	seen := make(map[model.OwnerID]bool)
	out := make([]model.OwnerID, 0, len(t.RosterIDs))
	for _, r := range t.RosterIDs {
		o, ok := sc.owners[r]
		if !ok || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

func actionKing(sc *seasonCtx, em *emitter) {
	counts := make(map[model.OwnerID]int)
	for _, t := range sc.txns {
		for _, o := range sc.txnOwners(t) {
			counts[o]++
		}
	}
	if len(counts) == 0 {
		return
	}
	owners := sortedOwners(counts)
	for _, o := range highest(owners, func(o model.OwnerID) int { return counts[o] }) {
		em.award(o, model.CategoryTransaction, "Action King", "", map[string]any{"transactions": counts[o]})
	}
	for _, o := range owners {
		if counts[o] >= SeasonTransactionsThreshold {
			em.award(o, model.CategoryTransaction, "Season Transactions", "", map[string]any{"transactions": counts[o]})
		}
	}
}

// seasonFees totals fees per owner from the configured source.
func (sc *seasonCtx) seasonFees() map[model.OwnerID]decimal.Decimal {
	fees := make(map[model.OwnerID]decimal.Decimal)
	if sc.e.opts.FeeSource == FeeFromTransactions {
		found := false
		for _, t := range sc.txns {
			if t.Fee == nil {
				continue
			}
			found = true
			fee := decimal.NewFromFloat(finite(*t.Fee))
			for _, o := range sc.txnOwners(t) {
				fees[o] = fees[o].Add(fee)
			}
		}
		if found {
			return fees
		}
	}
	for _, s := range sc.stats {
		if s.WaiverFeesSpent != 0 {
			fees[s.OwnerID] = decimal.NewFromFloat(s.WaiverFeesSpent)
		}
	}
	return fees
}

func brokeAss(sc *seasonCtx, em *emitter) {
	fees := sc.seasonFees()
	var most decimal.Decimal
	var winners []model.OwnerID
	for _, o := range sortedOwners(fees) {
		f := fees[o]
		switch c := f.Cmp(most); {
		case c > 0:
			most = f
			winners = []model.OwnerID{o}
		case c == 0 && f.IsPositive():
			winners = append(winners, o)
		}
	}
	if !most.IsPositive() {
		return
	}
	total, _ := most.Float64()
	for _, o := range winners {
		em.award(o, model.CategoryBlunder, "Broke Ass", "", map[string]any{"fees": total, "source": sc.e.opts.FeeSource.String()})
	}
}
