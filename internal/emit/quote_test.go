package emit

import "testing"

func TestNeedsQuoting(t *testing.T) {
	tests := []struct {
		identifier string
		want       bool
	}{
		{"users", false},
		{"user_accounts", false},
		{"_private", false},
		{"t1", false},
		{"", false},
		{"user", true},
		{"order", true},
		{"SELECT", true},
		{"Color", true},
		{"my-table", true},
		{"1table", true},
		{"has space", true},
	}
	for _, tt := range tests {
		if got := NeedsQuoting(tt.identifier); got != tt.want {
			t.Errorf("NeedsQuoting(%q) = %v, want %v", tt.identifier, got, tt.want)
		}
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"users", "users"},
		{"Color", `"Color"`},
		{"order", `"order"`},
		{`odd"name`, `"odd""name"`},
	}
	for _, tt := range tests {
		if got := QuoteIdentifier(tt.identifier); got != tt.want {
			t.Errorf("QuoteIdentifier(%q) = %s, want %s", tt.identifier, got, tt.want)
		}
	}
}

func TestQuoteAlways(t *testing.T) {
	if got := QuoteAlways("name"); got != `"name"` {
		t.Errorf("QuoteAlways(name) = %s", got)
	}
	if got := QuoteAlways(`a"b`); got != `"a""b"` {
		t.Errorf("QuoteAlways embedded quote = %s", got)
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := QuoteLiteral("Red"); got != "'Red'" {
		t.Errorf("QuoteLiteral(Red) = %s", got)
	}
	if got := QuoteLiteral("it's"); got != "'it''s'" {
		t.Errorf("QuoteLiteral(it's) = %s", got)
	}
}
