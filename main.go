package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"library-catalog/catalog"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// displayDate is how calendar dates render in listings.
const displayDate = "02-01-2006"

var seedData bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "library-catalog",
		Short: "Interactive library catalog manager",
		Long:  "Tracks books, members, and loans in an in-memory catalog through an interactive menu. All data is lost on exit.",
		RunE:  run,
	}
	rootCmd.Flags().BoolVar(&seedData, "seed", false, "start with sample books and members")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	manager, err := catalog.NewManager()
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer manager.Close()

	if seedData {
		if err := catalog.Seed(manager); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("Welcome to the Library Management System!")
	}

	scanner := bufio.NewScanner(os.Stdin)
	mainMenu(scanner, manager)
	return nil
}

// ---------------------------------------------------------------------------
// Menus
// ---------------------------------------------------------------------------

func mainMenu(sc *bufio.Scanner, mgr *catalog.Manager) {
	for {
		fmt.Println("\n=== Library Management System ===")
		fmt.Println("1. Book Management")
		fmt.Println("2. Member Management")
		fmt.Println("3. Loan Management")
		fmt.Println("4. Search")
		fmt.Println("5. Exit")

		choice, ok := promptInt(sc, "Enter your choice: ")
		if !ok {
			return
		}
		switch choice {
		case 1:
			bookMenu(sc, mgr)
		case 2:
			memberMenu(sc, mgr)
		case 3:
			loanMenu(sc, mgr)
		case 4:
			searchMenu(sc, mgr)
		case 5:
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid option. Please try again.")
		}
	}
}

func bookMenu(sc *bufio.Scanner, mgr *catalog.Manager) {
	for {
		fmt.Println("\n=== Book Management ===")
		fmt.Println("1. Add New Book")
		fmt.Println("2. Remove Book")
		fmt.Println("3. List All Books")
		fmt.Println("4. Back to Main Menu")

		choice, ok := promptInt(sc, "Enter your choice: ")
		if !ok {
			return
		}
		switch choice {
		case 1:
			handleAddBook(sc, mgr)
		case 2:
			handleRemoveBook(sc, mgr)
		case 3:
			handleListBooks(mgr)
		case 4:
			return
		default:
			fmt.Println("Invalid option. Please try again.")
		}
	}
}

func memberMenu(sc *bufio.Scanner, mgr *catalog.Manager) {
	for {
		fmt.Println("\n=== Member Management ===")
		fmt.Println("1. Register New Member")
		fmt.Println("2. Remove Member")
		fmt.Println("3. List All Members")
		fmt.Println("4. Back to Main Menu")

		choice, ok := promptInt(sc, "Enter your choice: ")
		if !ok {
			return
		}
		switch choice {
		case 1:
			handleAddMember(sc, mgr)
		case 2:
			handleRemoveMember(sc, mgr)
		case 3:
			handleListMembers(mgr)
		case 4:
			return
		default:
			fmt.Println("Invalid option. Please try again.")
		}
	}
}

func loanMenu(sc *bufio.Scanner, mgr *catalog.Manager) {
	for {
		fmt.Println("\n=== Loan Management ===")
		fmt.Println("1. Issue Book")
		fmt.Println("2. Return Book")
		fmt.Println("3. View All Current Loans")
		fmt.Println("4. Back to Main Menu")

		choice, ok := promptInt(sc, "Enter your choice: ")
		if !ok {
			return
		}
		switch choice {
		case 1:
			handleIssueBook(sc, mgr)
		case 2:
			handleReturnBook(sc, mgr)
		case 3:
			handleListLoans(mgr)
		case 4:
			return
		default:
			fmt.Println("Invalid option. Please try again.")
		}
	}
}

func searchMenu(sc *bufio.Scanner, mgr *catalog.Manager) {
	for {
		fmt.Println("\n=== Search ===")
		fmt.Println("1. Search Book by Title")
		fmt.Println("2. Search Book by Author")
		fmt.Println("3. Search Member by ID")
		fmt.Println("4. Back to Main Menu")

		choice, ok := promptInt(sc, "Enter your choice: ")
		if !ok {
			return
		}
		switch choice {
		case 1:
			handleSearchByTitle(sc, mgr)
		case 2:
			handleSearchByAuthor(sc, mgr)
		case 3:
			handleSearchMember(sc, mgr)
		case 4:
			return
		default:
			fmt.Println("Invalid option. Please try again.")
		}
	}
}

// ---------------------------------------------------------------------------
// Book handlers
// ---------------------------------------------------------------------------

func handleAddBook(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Add New Book ===")

	isbn, ok := prompt(sc, "Enter ISBN: ")
	if !ok {
		return
	}
	title, ok := prompt(sc, "Enter Title: ")
	if !ok {
		return
	}
	author, ok := prompt(sc, "Enter Author: ")
	if !ok {
		return
	}
	category, ok := prompt(sc, "Enter Category: ")
	if !ok {
		return
	}
	year, ok := promptInt(sc, "Enter Publication Year: ")
	if !ok {
		return
	}

	book := catalog.Book{ISBN: isbn, Title: title, Author: author, Category: category, Year: year}
	if err := mgr.AddBook(book); err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Println("Book added successfully!")
}

func handleRemoveBook(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Remove Book ===")

	isbn, ok := prompt(sc, "Enter ISBN of book to remove: ")
	if !ok {
		return
	}
	if err := mgr.RemoveBook(isbn); err != nil {
		fmt.Printf("Error removing book: %v\n", err)
		return
	}
	fmt.Println("Book removed successfully!")
}

func handleListBooks(mgr *catalog.Manager) {
	fmt.Println("\n=== All Books ===")

	books, err := mgr.ListBooks()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Println("No books in the library.")
		return
	}
	printBooks(books)
}

// ---------------------------------------------------------------------------
// Member handlers
// ---------------------------------------------------------------------------

func handleAddMember(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Add New Member ===")

	id, ok := prompt(sc, "Enter Member ID: ")
	if !ok {
		return
	}
	name, ok := prompt(sc, "Enter Name: ")
	if !ok {
		return
	}
	email, ok := prompt(sc, "Enter Email: ")
	if !ok {
		return
	}
	phone, ok := prompt(sc, "Enter Phone: ")
	if !ok {
		return
	}

	member := catalog.Member{ID: id, Name: name, Email: email, Phone: phone}
	if err := mgr.AddMember(member); err != nil {
		fmt.Printf("Error adding member: %v\n", err)
		return
	}
	fmt.Println("Member added successfully!")
}

func handleRemoveMember(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Remove Member ===")

	id, ok := prompt(sc, "Enter ID of member to remove: ")
	if !ok {
		return
	}
	if err := mgr.RemoveMember(id); err != nil {
		fmt.Printf("Error removing member: %v\n", err)
		return
	}
	fmt.Println("Member removed successfully!")
}

func handleListMembers(mgr *catalog.Manager) {
	fmt.Println("\n=== All Members ===")

	members, err := mgr.ListMembers()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(members) == 0 {
		fmt.Println("No members registered.")
		return
	}
	printMembers(members)
}

// ---------------------------------------------------------------------------
// Loan handlers
// ---------------------------------------------------------------------------

func handleIssueBook(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Issue Book ===")

	memberID, ok := prompt(sc, "Enter Member ID: ")
	if !ok {
		return
	}
	isbn, ok := prompt(sc, "Enter Book ISBN: ")
	if !ok {
		return
	}
	if _, err := mgr.IssueBook(memberID, isbn, time.Now()); err != nil {
		fmt.Printf("Error issuing book: %v\n", err)
		return
	}
	fmt.Println("Book issued successfully!")
}

func handleReturnBook(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Return Book ===")

	isbn, ok := prompt(sc, "Enter Book ISBN: ")
	if !ok {
		return
	}
	loan, err := mgr.ReturnBook(isbn, time.Now())
	if err != nil {
		fmt.Printf("Error returning book: %v\n", err)
		return
	}
	fmt.Printf("Book returned successfully! Loan duration: %d day(s)\n", mgr.LoanDuration(loan, time.Now()))
}

func handleListLoans(mgr *catalog.Manager) {
	fmt.Println("\n=== All Current Loans ===")

	loans, err := mgr.ListActiveLoans()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(loans) == 0 {
		fmt.Println("No active loans.")
		return
	}
	printLoans(loans)
}

// ---------------------------------------------------------------------------
// Search handlers
// ---------------------------------------------------------------------------

func handleSearchByTitle(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Search Book by Title ===")

	query, ok := prompt(sc, "Enter title to search for: ")
	if !ok {
		return
	}
	books, err := mgr.SearchBooksByTitle(query)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Println("No books found matching that title.")
		return
	}
	printBooks(books)
}

func handleSearchByAuthor(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Search Book by Author ===")

	query, ok := prompt(sc, "Enter author to search for: ")
	if !ok {
		return
	}
	books, err := mgr.SearchBooksByAuthor(query)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Println("No books found by that author.")
		return
	}
	printBooks(books)
}

func handleSearchMember(sc *bufio.Scanner, mgr *catalog.Manager) {
	fmt.Println("\n=== Search Member by ID ===")

	id, ok := prompt(sc, "Enter member ID: ")
	if !ok {
		return
	}
	member, loans, err := mgr.SearchMemberByID(id)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("\nMember Details:")
	fmt.Println("ID: " + member.ID)
	fmt.Println("Name: " + member.Name)
	fmt.Println("Email: " + member.Email)
	fmt.Println("Phone: " + member.Phone)

	if len(loans) > 0 {
		fmt.Println("\nActive Loans:")
		printLoans(loans)
	}
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func printBooks(books []catalog.Book) {
	fmt.Println("\nBooks:")
	fmt.Printf("%-10s %-30s %-20s %-15s %-6s\n", "ISBN", "Title", "Author", "Category", "Year")
	fmt.Println(strings.Repeat("-", 85))

	for _, b := range books {
		fmt.Printf("%-10s %-30s %-20s %-15s %-6d\n",
			b.ISBN,
			truncateString(b.Title, 28),
			truncateString(b.Author, 18),
			truncateString(b.Category, 13),
			b.Year)
	}
}

func printMembers(members []catalog.Member) {
	fmt.Println("\nMembers:")
	fmt.Printf("%-10s %-20s %-25s %-15s\n", "ID", "Name", "Email", "Phone")
	fmt.Println(strings.Repeat("-", 72))

	for _, m := range members {
		fmt.Printf("%-10s %-20s %-25s %-15s\n",
			m.ID,
			truncateString(m.Name, 18),
			truncateString(m.Email, 23),
			m.Phone)
	}
}

func printLoans(loans []catalog.LoanDetail) {
	fmt.Println("\nLoans:")
	fmt.Printf("%-10s %-30s %-20s %-12s %-12s\n", "Book ISBN", "Book Title", "Member", "Issue Date", "Return Date")
	fmt.Println(strings.Repeat("-", 88))

	for _, l := range loans {
		returned := "Not returned"
		if !l.Active() {
			returned = l.ReturnDate.Format(displayDate)
		}
		fmt.Printf("%-10s %-30s %-20s %-12s %-12s\n",
			l.ISBN,
			truncateString(l.BookTitle, 28),
			truncateString(l.MemberName, 18),
			l.IssueDate.Format(displayDate),
			returned)
	}
}

// ---------------------------------------------------------------------------
// Input
// ---------------------------------------------------------------------------

// prompt reads one trimmed line. ok is false when input is exhausted.
func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

// promptInt keeps asking until it gets a number, so bad input never crashes
// the menu.
func promptInt(sc *bufio.Scanner, label string) (int, bool) {
	for {
		text, ok := prompt(sc, label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		return n, true
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
