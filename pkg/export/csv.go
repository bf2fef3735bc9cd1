package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ethanbaker/catfacts/pkg/facts"
)

// Source lists every stored fact
type Source interface {
	All(ctx context.Context) ([]facts.Fact, error)
}

// Header is the first CSV row
var Header = []string{"id", "fact", "created_at"}

// WriteCSV writes every fact to w and returns the number of data rows written
func WriteCSV(ctx context.Context, source Source, w io.Writer) (int, error) {
	all, err := source.All(ctx)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for _, fact := range all {
		row := []string{strconv.FormatUint(uint64(fact.ID), 10), fact.Fact, fact.CreatedAt}
		if err := writer.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write fact %d: %w", fact.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush csv: %w", err)
	}

	return len(all), nil
}
