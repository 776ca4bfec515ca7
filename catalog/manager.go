package catalog

import "time"

// Manager is a thin façade over the Store, keeping CLI code simple. All
// business rules live behind it; menu code never touches collections
// directly.
type Manager struct {
	store *Store
}

// NewManager creates a manager over a fresh, empty in-memory catalog.
func NewManager() (*Manager, error) {
	store, err := NewStore()
	if err != nil {
		return nil, err
	}
	return &Manager{store: store}, nil
}

// Close discards the catalog.
func (m *Manager) Close() error { return m.store.Close() }

// ------------------ Book helpers ------------------

func (m *Manager) AddBook(b Book) error              { return m.store.AddBook(b) }
func (m *Manager) RemoveBook(isbn string) error      { return m.store.RemoveBook(isbn) }
func (m *Manager) GetBook(isbn string) (Book, error) { return m.store.FindBookByISBN(isbn) }
func (m *Manager) ListBooks() ([]Book, error)        { return m.store.AllBooks() }

// ------------------ Member helpers ------------------

func (m *Manager) AddMember(mem Member) error          { return m.store.AddMember(mem) }
func (m *Manager) RemoveMember(id string) error        { return m.store.RemoveMember(id) }
func (m *Manager) GetMember(id string) (Member, error) { return m.store.FindMemberByID(id) }
func (m *Manager) ListMembers() ([]Member, error)      { return m.store.AllMembers() }

// ------------------ Circulation ------------------

// IssueBook checks the book out to the member, dated today.
func (m *Manager) IssueBook(memberID, isbn string, today time.Time) (Loan, error) {
	return m.store.IssueBook(memberID, isbn, today)
}

// ReturnBook closes the active loan for the ISBN, dated today.
func (m *Manager) ReturnBook(isbn string, today time.Time) (Loan, error) {
	return m.store.ReturnBook(isbn, today)
}

// ListActiveLoans returns all outstanding loans in issue order.
func (m *Manager) ListActiveLoans() ([]LoanDetail, error) { return m.store.ActiveLoans() }

// LoanHistory returns every loan ever issued, including returned ones.
func (m *Manager) LoanHistory() ([]Loan, error) { return m.store.AllLoans() }

// LoanDuration reports how many whole days the loan ran, counting up to
// today while it is still active.
func (m *Manager) LoanDuration(loan Loan, today time.Time) int {
	return loan.Duration(today)
}

// ------------------ Search ------------------

func (m *Manager) SearchBooksByTitle(query string) ([]Book, error) {
	return m.store.SearchBooksByTitle(query)
}

func (m *Manager) SearchBooksByAuthor(query string) ([]Book, error) {
	return m.store.SearchBooksByAuthor(query)
}

// SearchMemberByID looks up a member by exact ID and returns their active
// loans alongside.
func (m *Manager) SearchMemberByID(id string) (Member, []LoanDetail, error) {
	member, err := m.store.FindMemberByID(id)
	if err != nil {
		return Member{}, nil, err
	}
	loans, err := m.store.MemberActiveLoans(id)
	if err != nil {
		return Member{}, nil, err
	}
	return member, loans, nil
}
