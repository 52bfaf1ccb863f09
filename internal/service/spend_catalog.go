package service

import (
	"context"
	"strings"

	"github.com/segyhp/fund-ledger/internal/domain"
	"github.com/segyhp/fund-ledger/internal/repository"
	customError "github.com/segyhp/fund-ledger/pkg/errors"
)

// SpendCatalog resolves expense codes to their category, item and cost type.
type SpendCatalog struct {
	Repo repository.SpendCodeRepository
}

func NewSpendCatalog(repo repository.SpendCodeRepository) *SpendCatalog {
	return &SpendCatalog{Repo: repo}
}

// List returns the whole lookup table.
func (c *SpendCatalog) List(ctx context.Context) ([]*domain.SpendCode, error) {
	codes, err := c.Repo.List(ctx)
	if err != nil {
		return nil, customError.WrapLoadFailed("spend codes", err)
	}
	return codes, nil
}

// Lookup returns the entry for code, or one with only Code set when unknown.
func (c *SpendCatalog) Lookup(ctx context.Context, code string) (*domain.SpendCode, error) {
	index, err := c.index(ctx)
	if err != nil {
		return nil, err
	}
	return index.lookup(code), nil
}

func (c *SpendCatalog) index(ctx context.Context) (spendIndex, error) {
	codes, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(spendIndex, len(codes))
	for _, sc := range codes {
		if _, ok := index[sc.Code]; !ok {
			index[sc.Code] = sc
		}
	}
	return index, nil
}

type spendIndex map[string]*domain.SpendCode

func (idx spendIndex) lookup(code string) *domain.SpendCode {
	code = strings.TrimSpace(code)
	if sc, ok := idx[code]; ok {
		cp := *sc
		return &cp
	}
	return &domain.SpendCode{Code: code}
}
