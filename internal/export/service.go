package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Header is the column layout written by WriteCSV. The importer reads it back.
var Header = []string{"date", "description", "type", "amount", "category"}

type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service writes stored transactions out as CSV.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// WriteCSV writes every transaction matching filter to w and returns how many
// rows were written.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, filter transaction.ListFilter) (int, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(time.DateOnly),
			tx.Description,
			string(tx.Type),
			tx.Amount.StringFixed(2),
			string(tx.Category),
		}

		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing transaction %d: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(txs), nil
}

// Filename is the suggested download name for an export taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", now.Format("20060102"))
}
