package backend

import "testing"

func TestQueryEncode(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{
			name: "blank filters send only the limit",
			q:    Query{},
			want: "limit=100",
		},
		{
			name: "subject and read flag keep insertion order",
			q:    Query{Subject: "Invoice", IsRead: "true"},
			want: "subject=Invoice&is_read=true&limit=100",
		},
		{
			name: "all filters in fixed order",
			q:    Query{Subject: "report", From: "boss@example.com", IsRead: "false", IsStarred: "true"},
			want: "subject=report&from_email=boss%40example.com&is_read=false&is_starred=true&limit=100",
		},
		{
			name: "whitespace-only filters are blank",
			q:    Query{Subject: "   ", From: "\t"},
			want: "limit=100",
		},
		{
			name: "values are escaped",
			q:    Query{Subject: "hello world"},
			want: "subject=hello+world&limit=100",
		},
		{
			name: "filter values are trimmed",
			q:    Query{Subject: "  Invoice  "},
			want: "subject=Invoice&limit=100",
		},
		{
			name: "explicit limit",
			q:    Query{Limit: 25},
			want: "limit=25",
		},
		{
			name: "negative limit falls back to default",
			q:    Query{Limit: -5},
			want: "limit=100",
		},
		{
			name: "offset encodes after limit",
			q:    Query{Limit: 50, Offset: 100},
			want: "limit=50&offset=100",
		},
		{
			name: "zero offset is omitted",
			q:    Query{Offset: 0},
			want: "limit=100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
