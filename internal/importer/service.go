package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// ErrInvalidFile marks uploads that could not be parsed or contain invalid rows.
var ErrInvalidFile = errors.New("invalid import file")

// MaxRows caps a single import; every row costs one classifier call.
const MaxRows = 500

type TransactionImporter interface {
	Import(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

// Service parses an upload and hands every row to the transaction service,
// which classifies and stores them as one batch.
type Service struct {
	parser *Parser
	txs    TransactionImporter
}

func NewService(txs TransactionImporter) *Service {
	return &Service{
		parser: NewParser(),
		txs:    txs,
	}
}

// Preview parses r without storing anything.
func (s *Service) Preview(r io.Reader) ([]transaction.CreateParams, error) {
	return s.parser.Parse(r)
}

func (s *Service) Import(ctx context.Context, r io.Reader) ([]*transaction.Transaction, error) {
	params, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	if len(params) > MaxRows {
		return nil, fmt.Errorf("%w: %d rows, at most %d per import", ErrInvalidFile, len(params), MaxRows)
	}

	txs, err := s.txs.Import(ctx, params)
	if err != nil {
		if isRowError(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}

		return nil, fmt.Errorf("importing transactions: %w", err)
	}

	return txs, nil
}

func isRowError(err error) bool {
	return errors.Is(err, transaction.ErrInvalidAmount) ||
		errors.Is(err, transaction.ErrInvalidType) ||
		errors.Is(err, transaction.ErrMissingDate)
}
