package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/segyhp/fund-ledger/internal/domain"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte("\ufeff")

type spendCodeCSVRepository struct {
	path string

	mu    sync.Mutex
	codes []*domain.SpendCode
}

// NewSpendCodeCSVRepository reads the static expense-code lookup once and keeps it.
// A missing file yields an empty lookup.
func NewSpendCodeCSVRepository(path string) SpendCodeRepository {
	return &spendCodeCSVRepository{path: path}
}

func (r *spendCodeCSVRepository) List(ctx context.Context) ([]*domain.SpendCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codes != nil {
		return r.codes, nil
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*domain.SpendCode{}, nil
	}
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var codes []*domain.SpendCode
	if len(bytes.TrimSpace(data)) > 0 {
		if err := gocsv.UnmarshalBytes(data, &codes); err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.path, err)
		}
	}

	out := make([]*domain.SpendCode, 0, len(codes))
	for _, c := range codes {
		c.Code = strings.TrimSpace(c.Code)
		if c.Code == "" {
			continue
		}
		c.Category = strings.TrimSpace(c.Category)
		c.Item = strings.TrimSpace(c.Item)
		c.CostType = strings.TrimSpace(c.CostType)
		out = append(out, c)
	}
	r.codes = out
	return r.codes, nil
}
