package catalog

// Seed loads a small demo catalog so the menu has something to show on a
// fresh start.
func Seed(m *Manager) error {
	books := []Book{
		{ISBN: "1001", Title: "The Fall of the House of Usher and Other Writings", Author: "Edgar Allan Poe", Category: "Fiction", Year: 2003},
		{ISBN: "1002", Title: "Data Communications and Networking", Author: "Behrouz A. Forouzan", Category: "Technical", Year: 2006},
		{ISBN: "1003", Title: "War and Peace", Author: "Leo Tolstoy", Category: "Historical Fiction", Year: 1867},
		{ISBN: "1004", Title: "Operating System Concepts", Author: "Abraham Silberschatz", Category: "Technical", Year: 1998},
		{ISBN: "1005", Title: "War! What Is It Good For?", Author: "Ian Morris", Category: "History", Year: 2014},
	}
	for _, b := range books {
		if err := m.AddBook(b); err != nil {
			return err
		}
	}

	members := []Member{
		{ID: "M001", Name: "Sarthak Rawat", Email: "sarthakrawat525@gmail.com", Phone: "123-1234-123"},
		{ID: "M002", Name: "Shogun", Email: "shogun@gmail.com", Phone: "555-5555-555"},
		{ID: "M003", Name: "Sample User", Email: "sample@gmail.com", Phone: "987-9876-987"},
	}
	for _, mem := range members {
		if err := m.AddMember(mem); err != nil {
			return err
		}
	}
	return nil
}
