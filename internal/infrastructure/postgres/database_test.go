package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"placeholders kept", "SELECT id FROM users WHERE identity_id = $1", "SELECT id FROM users WHERE identity_id = $1"},
		{"string literal", "SELECT id FROM identities WHERE email = 'ada@example.com'", "SELECT id FROM identities WHERE email = '?'"},
		{"escaped quote", "UPDATE users SET last_name = 'O''Brien'", "UPDATE users SET last_name = '?'"},
		{"numeric literal", "SELECT * FROM transfers WHERE amount > 100.50", "SELECT * FROM transfers WHERE amount > ?"},
		{"identifier digits kept", "SELECT address1 FROM users", "SELECT address1 FROM users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeQuery(tt.query))
		})
	}
}

func TestSanitizeQuery_Truncates(t *testing.T) {
	long := "SELECT " + string(make([]byte, 300))
	got := sanitizeQuery(long)
	assert.Len(t, got, 256+len("..."))
}

func TestExtractSQLVerb(t *testing.T) {
	assert.Equal(t, "SELECT", extractSQLVerb("  select id from users"))
	assert.Equal(t, "INSERT", extractSQLVerb("INSERT INTO bank_links"))
	assert.Equal(t, "VACUUM", extractSQLVerb("vacuum"))
}
