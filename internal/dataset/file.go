package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File names used by FileSource and by the generator output.
const (
	TransactionsFile = "transactions.csv"
	CustomersFile    = "customers.csv"
)

// FileSource reads transactions.csv and customers.csv from Dir.
type FileSource struct {
	Dir string
}

func (s FileSource) Name() string {
	return "file:" + s.Dir
}

func (s FileSource) Transactions(ctx context.Context) (Table, error) {
	return s.read(TransactionsTable, TransactionsFile)
}

func (s FileSource) Customers(ctx context.Context) (Table, error) {
	return s.read(CustomersTable, CustomersFile)
}

func (s FileSource) read(table, name string) (Table, error) {
	p := filepath.Join(s.Dir, name)
	f, err := os.Open(p)
	if err != nil {
		return Table{}, &DataLoadError{Table: table, Reason: "open " + p, Err: err}
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return Table{}, &DataLoadError{Table: table, Reason: "read " + p, Err: err}
	}
	return t, nil
}

// WriteFiles writes both tables into dir, creating it when needed.
func WriteFiles(dir string, transactions, customers Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("WriteFiles: mkdir %s: %w", dir, err)
	}
	for _, out := range []struct {
		name  string
		table Table
	}{
		{TransactionsFile, transactions},
		{CustomersFile, customers},
	} {
		if err := writeFile(filepath.Join(dir, out.name), out.table); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFiles: create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("WriteFiles: %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("WriteFiles: close %s: %w", path, err)
	}
	return nil
}
