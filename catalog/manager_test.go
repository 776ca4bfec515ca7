package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	mgr, err := NewManager()
	if err != nil {
		t.Fatalf("mgr: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestSeed(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, Seed(mgr))

	books, err := mgr.ListBooks()
	require.NoError(t, err)
	assert.Len(t, books, 5)
	// Title order, not insertion order.
	assert.Equal(t, "Data Communications and Networking", books[0].Title)

	members, err := mgr.ListMembers()
	require.NoError(t, err)
	assert.Len(t, members, 3)
	assert.Equal(t, "M001", members[0].ID)

	// Seeding twice collides on every key.
	assert.ErrorIs(t, Seed(mgr), ErrDuplicateKey)
}

func TestManagerLookups(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, Seed(mgr))

	book, err := mgr.GetBook("1003")
	require.NoError(t, err)
	assert.Equal(t, "War and Peace", book.Title)
	_, err = mgr.GetBook("9999")
	assert.ErrorIs(t, err, ErrNotFound)

	member, err := mgr.GetMember("M003")
	require.NoError(t, err)
	assert.Equal(t, "Sample User", member.Name)
	_, err = mgr.GetMember("M999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchMemberByID(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, Seed(mgr))

	_, _, err := mgr.SearchMemberByID("M999")
	assert.ErrorIs(t, err, ErrNotFound)

	// Substring of a real ID is not a match: lookup is exact.
	_, _, err = mgr.SearchMemberByID("M00")
	assert.ErrorIs(t, err, ErrNotFound)

	today := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err = mgr.IssueBook("M002", "1003", today)
	require.NoError(t, err)

	member, loans, err := mgr.SearchMemberByID("M002")
	require.NoError(t, err)
	assert.Equal(t, "Shogun", member.Name)
	require.Len(t, loans, 1)
	assert.Equal(t, "War and Peace", loans[0].BookTitle)
	assert.True(t, loans[0].Active())
}

func TestManagerIssueReturnFlow(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, Seed(mgr))

	issued := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	loan, err := mgr.IssueBook("M001", "1001", issued)
	require.NoError(t, err)
	assert.NotEmpty(t, loan.ID)
	assert.True(t, loan.Active())

	active, err := mgr.ListActiveLoans()
	require.NoError(t, err)
	require.Len(t, active, 1)

	returned, err := mgr.ReturnBook("1001", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, loan.ID, returned.ID)
	assert.Equal(t, 10, mgr.LoanDuration(returned, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	active, err = mgr.ListActiveLoans()
	require.NoError(t, err)
	assert.Empty(t, active)

	history, err := mgr.LoanHistory()
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestManagerSearchBooks(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, Seed(mgr))
	require.NoError(t, mgr.AddBook(Book{ISBN: "2001", Title: "Émile, or On Education", Author: "Jean-Jacques Rousseau", Category: "Philosophy", Year: 1762}))

	tests := []struct {
		name      string
		search    func(string) ([]Book, error)
		query     string
		wantISBNs []string
	}{
		{name: "title substring both wars", search: mgr.SearchBooksByTitle, query: "war", wantISBNs: []string{"1003", "1005"}},
		{name: "title mixed case", search: mgr.SearchBooksByTitle, query: "WaR", wantISBNs: []string{"1003", "1005"}},
		{name: "title no match", search: mgr.SearchBooksByTitle, query: "xyz", wantISBNs: []string{}},
		{name: "accented title case fold", search: mgr.SearchBooksByTitle, query: "émile", wantISBNs: []string{"2001"}},
		{name: "author substring", search: mgr.SearchBooksByAuthor, query: "poe", wantISBNs: []string{"1001"}},
		{name: "author with hyphenated name", search: mgr.SearchBooksByAuthor, query: "jean-jacques", wantISBNs: []string{"2001"}},
		{name: "author no match", search: mgr.SearchBooksByAuthor, query: "austen", wantISBNs: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			books, err := tc.search(tc.query)
			require.NoError(t, err)
			got := make([]string, 0, len(books))
			for _, b := range books {
				got = append(got, b.ISBN)
			}
			assert.Equal(t, tc.wantISBNs, got)
		})
	}
}

// For every valid sequence of issues and returns, at most one active loan
// per ISBN ever exists.
func TestSingleActiveLoanInvariant(t *testing.T) {
	mgr := newManager(t)
	require.NoError(t, Seed(mgr))

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	type op struct {
		issue    bool
		memberID string
		isbn     string
	}
	ops := []op{
		{issue: true, memberID: "M001", isbn: "1001"},
		{issue: true, memberID: "M002", isbn: "1001"}, // rejected
		{issue: true, memberID: "M002", isbn: "1002"},
		{issue: false, isbn: "1001"},
		{issue: true, memberID: "M003", isbn: "1001"},
		{issue: false, isbn: "1002"},
		{issue: false, isbn: "1002"}, // rejected
		{issue: true, memberID: "M001", isbn: "1002"},
	}

	for i, o := range ops {
		if o.issue {
			_, _ = mgr.IssueBook(o.memberID, o.isbn, day(i+1))
		} else {
			_, _ = mgr.ReturnBook(o.isbn, day(i+1))
		}

		history, err := mgr.LoanHistory()
		require.NoError(t, err)
		activePerISBN := map[string]int{}
		for _, l := range history {
			if l.Active() {
				activePerISBN[l.ISBN]++
			}
		}
		for isbn, n := range activePerISBN {
			assert.LessOrEqual(t, n, 1, "step %d: ISBN %s has %d active loans", i, isbn, n)
		}
	}

	history, err := mgr.LoanHistory()
	require.NoError(t, err)
	assert.Len(t, history, 4, "only the valid issues create records")
}
