package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id int64) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	// DeleteTransaction reports whether a row was removed.
	DeleteTransaction(ctx context.Context, id int64) (bool, error)
}

type Classifier interface {
	Classify(ctx context.Context, description string) category.Category
}

type Publisher interface {
	TransactionCreated(ctx context.Context, tx *Transaction) error
	TransactionDeleted(ctx context.Context, id int64) error
}

// DefaultImportConcurrency bounds the classifier calls in flight during an import.
const DefaultImportConcurrency = 4

type Service struct {
	repo              Repository
	classifier        Classifier
	publisher         Publisher
	now               func() time.Time
	importConcurrency int
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithImportConcurrency sets how many rows are classified at once. Values
// below 1 are ignored.
func WithImportConcurrency(n int) Option {
	return func(s *Service) {
		if n >= 1 {
			s.importConcurrency = n
		}
	}
}

func NewService(repo Repository, classifier Classifier, opts ...Option) *Service {
	s := &Service{
		repo:              repo,
		classifier:        classifier,
		now:               time.Now,
		importConcurrency: DefaultImportConcurrency,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Date        time.Time
	Description string
	Type        Type
	Amount      decimal.Decimal
}

func (p CreateParams) Validate() error {
	if !p.Amount.Round(2).IsPositive() {
		return ErrInvalidAmount
	}

	if !p.Type.Valid() {
		return ErrInvalidType
	}

	if p.Date.IsZero() {
		return ErrMissingDate
	}

	return nil
}

type ListFilter struct {
	Type      *Type
	Category  *category.Category
	StartDate *time.Time
	EndDate   *time.Time
}

// Create validates, classifies and stores a single transaction.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	tx := s.build(ctx, params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	s.publishCreated(ctx, tx)

	return tx, nil
}

// Import stores all rows in one batch. Nothing is written if any row is invalid.
func (s *Service) Import(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	// Classify never fails, so the group only bounds concurrency.
	txs := make([]*Transaction, len(params))

	var g errgroup.Group
	g.SetLimit(s.importConcurrency)

	for i, p := range params {
		g.Go(func() error {
			txs[i] = s.build(ctx, p)
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("classifying rows: %w", err)
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	for _, tx := range txs {
		s.publishCreated(ctx, tx)
	}

	return txs, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// Delete reports false without error when id does not exist.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting transaction: %w", err)
	}

	if deleted && s.publisher != nil {
		if err := s.publisher.TransactionDeleted(ctx, id); err != nil {
			slog.Error("failed to publish transaction event", "event", "deleted", "id", id, "error", err)
		}
	}

	return deleted, nil
}

// Categorize runs the classifier without storing anything.
func (s *Service) Categorize(ctx context.Context, description string) category.Category {
	return s.classifier.Classify(ctx, description)
}

func (s *Service) build(ctx context.Context, p CreateParams) *Transaction {
	return &Transaction{
		Date:        dateOnly(p.Date),
		Description: p.Description,
		Type:        p.Type,
		Amount:      p.Amount.Round(2),
		Category:    s.classifier.Classify(ctx, p.Description),
		CreatedAt:   s.now().UTC(),
	}
}

func (s *Service) publishCreated(ctx context.Context, tx *Transaction) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.TransactionCreated(ctx, tx); err != nil {
		slog.Error("failed to publish transaction event", "event", "created", "id", tx.ID, "error", err)
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
