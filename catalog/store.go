package catalog

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// dateLayout is the storage format for calendar dates. No time of day, no
// zone: loans only care about whole days.
const dateLayout = "2006-01-02"

// Store is the registry: it owns the book, member, and loan collections and
// is the only place that mutates them. Backed by an in-memory SQLite
// database, so everything is volatile and lost when the process exits.
type Store struct {
	db *sqlx.DB

	addBookStmt   *sqlx.Stmt
	addMemberStmt *sqlx.Stmt
}

// NewStore opens a fresh in-memory database and applies the schema.
func NewStore() (*Store, error) {
	db, err := sqlx.Open("sqlite3", "file::memory:?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A second connection would see its own empty :memory: database.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{db: db}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases prepared statements and closes the database, discarding all
// catalog state.
func (s *Store) Close() error {
	if s.addBookStmt != nil {
		s.addBookStmt.Close()
	}
	if s.addMemberStmt != nil {
		s.addMemberStmt.Close()
	}
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func applySchema(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE books (
            isbn TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            category TEXT NOT NULL,
            year INTEGER NOT NULL
        );`,
		`CREATE TABLE members (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL
        );`,
		// Loans reference books and members by key only, without foreign
		// keys: history rows are kept after a returned book or member is
		// removed.
		`CREATE TABLE loans (
            id TEXT PRIMARY KEY,
            isbn TEXT NOT NULL,
            member_id TEXT NOT NULL,
            issue_date TEXT NOT NULL,
            return_date TEXT
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) prepareStatements() error {
	var err error
	if s.addBookStmt, err = s.db.Preparex(`INSERT INTO books(isbn,title,author,category,year) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if s.addMemberStmt, err = s.db.Preparex(`INSERT INTO members(id,name,email,phone) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// AddBook inserts a new book. The ISBN must not be in use.
func (s *Store) AddBook(b Book) error {
	var exists bool
	if err := s.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM books WHERE isbn=?)`, b.ISBN); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("book %s: %w", b.ISBN, ErrDuplicateKey)
	}
	_, err := s.addBookStmt.Exec(b.ISBN, b.Title, b.Author, b.Category, b.Year)
	return err
}

// RemoveBook deletes the book unless a loan for it is still active.
func (s *Store) RemoveBook(isbn string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM books WHERE isbn=?)`, isbn); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}

	var active bool
	if err := tx.Get(&active, `SELECT EXISTS(SELECT 1 FROM loans WHERE isbn=? AND return_date IS NULL)`, isbn); err != nil {
		return err
	}
	if active {
		return fmt.Errorf("book %s: %w", isbn, ErrResourceInUse)
	}

	if _, err := tx.Exec(`DELETE FROM books WHERE isbn=?`, isbn); err != nil {
		return err
	}
	return tx.Commit()
}

// FindBookByISBN fetches a single book by its exact ISBN.
func (s *Store) FindBookByISBN(isbn string) (Book, error) {
	var b Book
	err := s.db.Get(&b, `SELECT isbn,title,author,category,year FROM books WHERE isbn=?`, isbn)
	if err == sql.ErrNoRows {
		return Book{}, fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

// AllBooks returns every book ordered by title, case-insensitively. The sort
// is stable, so books with equal titles keep their insertion order.
func (s *Store) AllBooks() ([]Book, error) {
	books := []Book{}
	if err := s.db.Select(&books, `SELECT isbn,title,author,category,year FROM books ORDER BY rowid`); err != nil {
		return nil, err
	}
	sort.SliceStable(books, func(i, j int) bool { return TitleLess(books[i], books[j]) })
	return books, nil
}

// SearchBooksByTitle returns books whose title contains the query,
// case-insensitively, in insertion order.
func (s *Store) SearchBooksByTitle(query string) ([]Book, error) {
	return s.searchBooks(query, func(b Book) string { return b.Title })
}

// SearchBooksByAuthor returns books whose author contains the query,
// case-insensitively, in insertion order.
func (s *Store) SearchBooksByAuthor(query string) ([]Book, error) {
	return s.searchBooks(query, func(b Book) string { return b.Author })
}

// searchBooks scans every book in insertion order and keeps those whose
// field contains the query. The fold happens in Go because strings.ToLower
// handles the full Unicode range; SQLite's lower() folds only ASCII.
func (s *Store) searchBooks(query string, field func(Book) string) ([]Book, error) {
	var all []Book
	if err := s.db.Select(&all, `SELECT isbn,title,author,category,year FROM books ORDER BY rowid`); err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	matches := []Book{}
	for _, b := range all {
		if strings.Contains(strings.ToLower(field(b)), needle) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

// AddMember registers a new member. The ID must not be in use.
func (s *Store) AddMember(m Member) error {
	var exists bool
	if err := s.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM members WHERE id=?)`, m.ID); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("member %s: %w", m.ID, ErrDuplicateKey)
	}
	_, err := s.addMemberStmt.Exec(m.ID, m.Name, m.Email, m.Phone)
	return err
}

// RemoveMember deletes the member unless they still have a book checked out.
func (s *Store) RemoveMember(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM members WHERE id=?)`, id); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}

	var active bool
	if err := tx.Get(&active, `SELECT EXISTS(SELECT 1 FROM loans WHERE member_id=? AND return_date IS NULL)`, id); err != nil {
		return err
	}
	if active {
		return fmt.Errorf("member %s: %w", id, ErrResourceInUse)
	}

	if _, err := tx.Exec(`DELETE FROM members WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// FindMemberByID fetches a single member by exact ID.
func (s *Store) FindMemberByID(id string) (Member, error) {
	var m Member
	err := s.db.Get(&m, `SELECT id,name,email,phone FROM members WHERE id=?`, id)
	if err == sql.ErrNoRows {
		return Member{}, fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Member{}, err
	}
	return m, nil
}

// AllMembers returns every member in registration order.
func (s *Store) AllMembers() ([]Member, error) {
	members := []Member{}
	if err := s.db.Select(&members, `SELECT id,name,email,phone FROM members ORDER BY rowid`); err != nil {
		return nil, err
	}
	return members, nil
}

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

// IssueBook checks a book out to a member on the given date. Both keys must
// exist and the book must not already be on an active loan. At most one
// active loan per ISBN can exist at any time; this workflow is what enforces
// it, the loans table carries no such constraint.
func (s *Store) IssueBook(memberID, isbn string, today time.Time) (Loan, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM members WHERE id=?)`, memberID); err != nil {
		return Loan{}, err
	}
	if !exists {
		return Loan{}, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}

	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM books WHERE isbn=?)`, isbn); err != nil {
		return Loan{}, err
	}
	if !exists {
		return Loan{}, fmt.Errorf("book %s: %w", isbn, ErrNotFound)
	}

	if err := tx.Get(&exists, `SELECT EXISTS(SELECT 1 FROM loans WHERE isbn=? AND return_date IS NULL)`, isbn); err != nil {
		return Loan{}, err
	}
	if exists {
		return Loan{}, fmt.Errorf("book %s: %w", isbn, ErrAlreadyCheckedOut)
	}

	loan := Loan{
		ID:        uuid.NewString(),
		ISBN:      isbn,
		MemberID:  memberID,
		IssueDate: dateOnly(today),
	}
	if _, err := tx.Exec(`INSERT INTO loans(id,isbn,member_id,issue_date) VALUES(?,?,?,?)`,
		loan.ID, loan.ISBN, loan.MemberID, loan.IssueDate.Format(dateLayout)); err != nil {
		return Loan{}, err
	}
	return loan, tx.Commit()
}

// ReturnBook closes the active loan for the ISBN, stamping the given date.
// A returned loan is final; nothing reopens it.
func (s *Store) ReturnBook(isbn string, today time.Time) (Loan, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback()

	var row loanRow
	err = tx.Get(&row, `SELECT id,isbn,member_id,issue_date,return_date FROM loans WHERE isbn=? AND return_date IS NULL ORDER BY rowid LIMIT 1`, isbn)
	if err == sql.ErrNoRows {
		return Loan{}, fmt.Errorf("book %s: %w", isbn, ErrNoActiveLoan)
	}
	if err != nil {
		return Loan{}, err
	}

	returned := dateOnly(today)
	if _, err := tx.Exec(`UPDATE loans SET return_date=? WHERE id=?`, returned.Format(dateLayout), row.ID); err != nil {
		return Loan{}, err
	}

	loan, err := row.toLoan()
	if err != nil {
		return Loan{}, err
	}
	loan.ReturnDate = returned
	return loan, tx.Commit()
}

// ActiveLoans returns outstanding loans in issue order, with the book title
// and member name joined in for display. Active loans block removal of their
// book and member, so the join always finds both.
func (s *Store) ActiveLoans() ([]LoanDetail, error) {
	return s.selectLoanDetails(`
        SELECT l.id, l.isbn, l.member_id, l.issue_date, l.return_date, b.title, m.name AS member_name
        FROM loans l
        JOIN books b ON b.isbn = l.isbn
        JOIN members m ON m.id = l.member_id
        WHERE l.return_date IS NULL
        ORDER BY l.rowid`)
}

// MemberActiveLoans returns the given member's outstanding loans in issue
// order.
func (s *Store) MemberActiveLoans(memberID string) ([]LoanDetail, error) {
	return s.selectLoanDetails(`
        SELECT l.id, l.isbn, l.member_id, l.issue_date, l.return_date, b.title, m.name AS member_name
        FROM loans l
        JOIN books b ON b.isbn = l.isbn
        JOIN members m ON m.id = l.member_id
        WHERE l.return_date IS NULL AND l.member_id = ?
        ORDER BY l.rowid`, memberID)
}

// AllLoans returns the full loan history, returned loans included, in issue
// order. Loans are never deleted.
func (s *Store) AllLoans() ([]Loan, error) {
	var rows []loanRow
	if err := s.db.Select(&rows, `SELECT id,isbn,member_id,issue_date,return_date FROM loans ORDER BY rowid`); err != nil {
		return nil, err
	}
	loans := make([]Loan, 0, len(rows))
	for _, row := range rows {
		loan, err := row.toLoan()
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

func (s *Store) selectLoanDetails(query string, args ...any) ([]LoanDetail, error) {
	var rows []loanDetailRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	details := make([]LoanDetail, 0, len(rows))
	for _, row := range rows {
		loan, err := row.toLoan()
		if err != nil {
			return nil, err
		}
		details = append(details, LoanDetail{Loan: loan, BookTitle: row.Title, MemberName: row.MemberName})
	}
	return details, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

type loanRow struct {
	ID         string         `db:"id"`
	ISBN       string         `db:"isbn"`
	MemberID   string         `db:"member_id"`
	IssueDate  string         `db:"issue_date"`
	ReturnDate sql.NullString `db:"return_date"`
}

type loanDetailRow struct {
	loanRow
	Title      string `db:"title"`
	MemberName string `db:"member_name"`
}

func (r loanRow) toLoan() (Loan, error) {
	issued, err := time.Parse(dateLayout, r.IssueDate)
	if err != nil {
		return Loan{}, fmt.Errorf("loan %s: bad issue date %q: %w", r.ID, r.IssueDate, err)
	}
	loan := Loan{ID: r.ID, ISBN: r.ISBN, MemberID: r.MemberID, IssueDate: issued}
	if r.ReturnDate.Valid {
		returned, err := time.Parse(dateLayout, r.ReturnDate.String)
		if err != nil {
			return Loan{}, fmt.Errorf("loan %s: bad return date %q: %w", r.ID, r.ReturnDate.String, err)
		}
		loan.ReturnDate = returned
	}
	return loan, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
