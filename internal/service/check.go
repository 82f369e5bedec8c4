package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rsharma-dev/stock-notifier/internal/catalog"
)

//go:generate mockgen -package mocks -destination mocks/checker.go . Checker

const alertHeader = "🔥 *Stock Alert!*"

// Checker performs one availability lookup against a vendor API. It returns
// the ready-to-display alert line, or an empty string when the product is not
// available.
type Checker interface {
	Check(ctx context.Context, product catalog.Product) (string, error)
}

// StockCheck runs one full check cycle over the catalog. Vendor failures are
// absorbed and logged; a failed check is indistinguishable from "out of
// stock" for the caller.
type StockCheck struct {
	checkers     map[catalog.Source]Checker
	checkTimeout time.Duration

	log *slog.Logger
}

func NewStockCheck(checkers map[catalog.Source]Checker, checkTimeout time.Duration, log *slog.Logger) *StockCheck {
	return &StockCheck{
		checkers:     checkers,
		checkTimeout: checkTimeout,

		log: log.With("component", "service").With("service", "stockcheck"),
	}
}

// Run checks every product sequentially and returns the alert lines of those
// in stock. Products with no registered checker are skipped.
func (s *StockCheck) Run(ctx context.Context, products []catalog.Product) []string {
	inStock := make([]string, 0, len(products))

	for _, product := range products {
		checker, ok := s.checkers[product.Source]
		if !ok {
			s.log.DebugContext(ctx, "no checker for source, skipping", "source", product.Source, "product", product.Name)
			continue
		}

		line, err := s.check(ctx, checker, product)
		if err != nil {
			s.log.ErrorContext(ctx, "check failed", "source", product.Source, "product", product.Name, "error", err)
			continue
		}
		if line == "" {
			s.log.DebugContext(ctx, "product not available", "source", product.Source, "product", product.Name)
			continue
		}

		s.log.InfoContext(ctx, "product in stock", "source", product.Source, "product", product.Name)
		inStock = append(inStock, line)
	}

	return inStock
}

func (s *StockCheck) check(ctx context.Context, checker Checker, product catalog.Product) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	return checker.Check(ctx, product)
}

// ComposeAlert joins the in-stock lines into the single message broadcast to
// every recipient.
func ComposeAlert(lines []string) string {
	return alertHeader + "\n\n" + strings.Join(lines, "\n\n")
}
