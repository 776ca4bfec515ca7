package catalog

import (
	"strings"
	"time"
)

// Book holds the metadata for one title in the collection. The ISBN is the
// book's identity and never changes after creation.
type Book struct {
	ISBN     string `db:"isbn" json:"isbn"`
	Title    string `db:"title" json:"title"`
	Author   string `db:"author" json:"author"`
	Category string `db:"category" json:"category"`
	Year     int    `db:"year" json:"year"`
}

// SameBook reports whether two books are the same catalog entry. Only the
// ISBN counts; the other fields may differ.
func (b Book) SameBook(other Book) bool { return b.ISBN == other.ISBN }

// TitleLess orders books by title, case-insensitively. Listing code passes
// this to a stable sort so insertion order breaks ties.
func TitleLess(a, b Book) bool {
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

// Member represents a registered library member, identified by ID.
type Member struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone"`
}

// SameMember reports whether two members share an ID.
func (m Member) SameMember(other Member) bool { return m.ID == other.ID }

// Loan records one lending transaction. ID is a synthetic unique identifier
// assigned at issue time, so two loans of the same book to the same member on
// the same day remain distinct records. ISBN and MemberID reference the book
// and member by key only. A zero ReturnDate means the loan is still active.
type Loan struct {
	ID         string    `db:"id" json:"id"`
	ISBN       string    `db:"isbn" json:"isbn"`
	MemberID   string    `db:"member_id" json:"member_id"`
	IssueDate  time.Time `json:"issue_date"`
	ReturnDate time.Time `json:"return_date"`
}

// Active reports whether the book is still checked out on this loan.
func (l Loan) Active() bool { return l.ReturnDate.IsZero() }

// Duration returns the loan length in whole days: issue date to return date,
// or to today while the loan is active. Calendar dates only; time of day and
// zone are ignored.
func (l Loan) Duration(today time.Time) int {
	end := l.ReturnDate
	if l.Active() {
		end = today
	}
	return int(epochDay(end) - epochDay(l.IssueDate))
}

// LoanDetail is a loan joined with display fields for listings. Only active
// loans are ever listed, so the referenced book and member always exist.
type LoanDetail struct {
	Loan
	BookTitle  string `db:"title"`
	MemberName string `db:"member_name"`
}

func epochDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
