package dashboard

import (
	"sort"
	"time"
)

// CountTransactionCategories counts transactions per category, most
// frequent first. Ties keep the order categories were first seen in.
func CountTransactionCategories(transactions []Transaction) []CategoryCount {
	index := make(map[string]int)
	counts := make([]CategoryCount, 0)

	for _, t := range transactions {
		i, ok := index[t.Category]
		if !ok {
			i = len(counts)
			index[t.Category] = i
			counts = append(counts, CategoryCount{Name: t.Category})
		}
		counts[i].Count++
	}

	for i := range counts {
		counts[i].TotalCount = len(transactions)
	}

	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

// TransactionStatus is Processing for anything dated within the last two
// days, boundary included, and Success before that.
func TransactionStatus(date, now time.Time) string {
	if !date.Before(now.Add(-processingWindow)) {
		return StatusProcessing
	}
	return StatusSuccess
}

func sortNewestFirst(transactions []Transaction) {
	sort.SliceStable(transactions, func(a, b int) bool {
		return transactions[a].Date.After(transactions[b].Date)
	})
}
