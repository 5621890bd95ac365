package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountTransactionCategories(t *testing.T) {
	txs := []Transaction{{Category: "food"}, {Category: "food"}, {Category: "travel"}}

	got := CountTransactionCategories(txs)
	assert.Equal(t, []CategoryCount{
		{Name: "food", Count: 2, TotalCount: 3},
		{Name: "travel", Count: 1, TotalCount: 3},
	}, got)
}

func TestCountTransactionCategories_TiesKeepFirstSeenOrder(t *testing.T) {
	txs := []Transaction{{Category: "travel"}, {Category: "food"}, {Category: "rent"}, {Category: "food"}}

	got := CountTransactionCategories(txs)
	assert.Equal(t, "food", got[0].Name)
	assert.Equal(t, "travel", got[1].Name)
	assert.Equal(t, "rent", got[2].Name)
}

func TestCountTransactionCategories_Empty(t *testing.T) {
	assert.Empty(t, CountTransactionCategories(nil))
}

func TestTransactionStatus(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"today", now, StatusProcessing},
		{"one day ago", now.Add(-24 * time.Hour), StatusProcessing},
		{"exactly two days ago", now.Add(-48 * time.Hour), StatusProcessing},
		{"just over two days ago", now.Add(-48*time.Hour - time.Second), StatusSuccess},
		{"a week ago", now.AddDate(0, 0, -7), StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransactionStatus(tt.date, now))
		})
	}
}
