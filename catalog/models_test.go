package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameBook(t *testing.T) {
	a := Book{ISBN: "1001", Title: "One", Author: "A", Year: 2000}
	b := Book{ISBN: "1001", Title: "A different title", Author: "B", Year: 2020}
	c := Book{ISBN: "1002", Title: "One", Author: "A", Year: 2000}

	assert.True(t, a.SameBook(b), "same ISBN means same book regardless of other fields")
	assert.False(t, a.SameBook(c), "different ISBN means different book")
}

func TestSameMember(t *testing.T) {
	a := Member{ID: "M001", Name: "Alice"}
	b := Member{ID: "M001", Name: "Someone Else"}
	c := Member{ID: "M002", Name: "Alice"}

	assert.True(t, a.SameMember(b))
	assert.False(t, a.SameMember(c))
}

func TestTitleLess(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "plain ascending", a: "Apple Pie", b: "Zebra Habits", want: true},
		{name: "plain descending", a: "Zebra Habits", b: "Apple Pie", want: false},
		{name: "case insensitive", a: "apple pie", b: "Zebra Habits", want: true},
		{name: "equal titles", a: "Same", b: "same", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TitleLess(Book{Title: tc.a}, Book{Title: tc.b})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoanActive(t *testing.T) {
	loan := Loan{ID: "x", ISBN: "1001", MemberID: "M001", IssueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}
	assert.True(t, loan.Active())

	loan.ReturnDate = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	assert.False(t, loan.Active())
}

func TestLoanDuration(t *testing.T) {
	issue := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		returnDate time.Time
		today      time.Time
		want       int
	}{
		{
			name:       "returned after ten days",
			returnDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			today:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want:       10,
		},
		{
			name:  "active counts up to today",
			today: time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
			want:  3,
		},
		{
			name:  "issued today",
			today: issue,
			want:  0,
		},
		{
			name:  "time of day is ignored",
			today: time.Date(2024, 1, 11, 23, 59, 59, 0, time.UTC),
			want:  1,
		},
		{
			name:       "spans a month boundary",
			returnDate: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
			today:      time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
			want:       23,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loan := Loan{IssueDate: issue, ReturnDate: tc.returnDate}
			assert.Equal(t, tc.want, loan.Duration(tc.today))
		})
	}
}
