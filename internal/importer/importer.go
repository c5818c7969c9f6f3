// Package importer turns bank statement files into import rows, naming each
// row after the user's learned description mappings.
package importer

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/importer/cgd"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

//go:generate mockgen -source=importer.go -destination=importer_mock.go -package=importer
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]transaction.ImportParams, error)
}

// Matcher suggests a preferred name for raw bank text.
type Matcher interface {
	Suggest(ctx context.Context, userID, rawDescription string) (string, error)
}

type Service struct {
	parsers map[Bank]Parser
	matcher Matcher
}

// NewService registers the supported banks. Statement dates are read in loc.
func NewService(loc *time.Location, matcher Matcher) *Service {
	return NewServiceWithParsers(map[Bank]Parser{
		BankCGD: cgd.NewParser(loc),
	}, matcher)
}

func NewServiceWithParsers(parsers map[Bank]Parser, matcher Matcher) *Service {
	return &Service{parsers: parsers, matcher: matcher}
}

// Banks lists the registered banks in a stable order.
func (s *Service) Banks() []Bank {
	banks := make([]Bank, 0, len(s.parsers))
	for b := range s.parsers {
		banks = append(banks, b)
	}

	slices.Sort(banks)

	return banks
}

// Parse reads a statement of bank and applies the user's description
// mappings to every row. Files the parser rejects are validation errors.
func (s *Service) Parse(ctx context.Context, userID string, bank Bank, r io.Reader) ([]transaction.ImportParams, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	parser, ok := s.parsers[bank]
	if !ok {
		return nil, apperror.Invalid("bank", "unknown bank %q", bank)
	}

	rows, err := parser.Parse(ctx, r)
	if err != nil {
		return nil, apperror.Invalid("file", "%v", err)
	}

	matched := 0

	for i := range rows {
		name, err := s.matcher.Suggest(ctx, userID, rows[i].RawDescription)
		if err != nil {
			return nil, fmt.Errorf("suggest description: %w", err)
		}

		if name != "" {
			rows[i].Name = name
			matched++
		}
	}

	logger.FromContext(ctx).Info().
		Str("bank", string(bank)).
		Int("rows", len(rows)).
		Int("matched", matched).
		Msg("statement parsed")

	return rows, nil
}
