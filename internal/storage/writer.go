package storage

import (
	"context"

	"github.com/stephenafamo/bob"
)

// Writer is a unit of work over the ledger tables. When Transactional is
// true every write becomes visible together on Commit; otherwise writes are
// applied as they happen and Commit/Rollback do nothing.
type Writer struct {
	Tables

	tx            bob.Tx
	transactional bool
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		Tables:        NewTables(tx),
		tx:            tx,
		transactional: true,
	}
}

func newDirectWriter(tables Tables) *Writer {
	return &Writer{Tables: tables}
}

func (w *Writer) Transactional() bool {
	return w.transactional
}

func (w *Writer) Commit() error {
	if !w.transactional {
		return nil
	}
	return w.tx.Commit(context.Background())
}

func (w *Writer) Rollback() error {
	if !w.transactional {
		return nil
	}
	return w.tx.Rollback(context.Background())
}
