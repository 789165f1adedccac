package dataprocessing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadPriceFile tests price JSONL loading
func TestLoadPriceFile(t *testing.T) {
	loader := NewPriceLoader(discardLogger())
	ctx := context.Background()

	t.Run("loads histories sorted by date", func(t *testing.T) {
		path := writeLines(t, "2021_4Q_stock_prices.jsonl",
			`{"ticker":"AAPL","stock_prices":[`+
				`{"date":"2021-11-05","abnormal_return":-0.02,"close":150.1},`+
				`{"date":"2021-11-04","abnormal_return":0.01,"close":151.2}]}`,
			`{"ticker":"MSFT","stock_prices":[{"date":"2021-11-04","abnormal_return":0.005,"close":330.0}]}`,
		)

		histories, err := loader.LoadPriceFile(ctx, path)
		require.NoError(t, err)
		require.Len(t, histories, 2)

		apple := histories[0]
		assert.Equal(t, "AAPL", apple.Ticker)
		require.Len(t, apple.Records, 2)
		assert.Equal(t, "2021-11-04", apple.Records[0].Date)
		assert.Equal(t, "2021-11-05", apple.Records[1].Date)
		require.NotNil(t, apple.Records[0].AbnormalReturn)
		assert.Equal(t, 0.01, *apple.Records[0].AbnormalReturn)
		assert.Equal(t, 151.2, apple.Records[0].Close)
	})

	t.Run("null abnormal returns stay nil", func(t *testing.T) {
		path := writeLines(t, "2021_4Q_stock_prices.jsonl",
			`{"ticker":"AAPL","stock_prices":[`+
				`{"date":"2021-11-04","abnormal_return":null,"close":151.2},`+
				`{"date":"2021-11-05","abnormal_return":0.02}]}`,
		)

		histories, err := loader.LoadPriceFile(ctx, path)
		require.NoError(t, err)
		require.Len(t, histories, 1)

		records := histories[0].Records
		require.Len(t, records, 2)
		assert.Nil(t, records[0].AbnormalReturn)
		require.NotNil(t, records[1].AbnormalReturn)
		assert.Equal(t, 0.02, *records[1].AbnormalReturn)
	})

	t.Run("bad lines are contained", func(t *testing.T) {
		tests := []struct {
			name string
			line string
		}{
			{"malformed JSON", `{"ticker": broken`},
			{"missing ticker", `{"stock_prices":[{"date":"2021-11-04","abnormal_return":0.01}]}`},
			{"invalid record date", `{"ticker":"TSLA","stock_prices":[{"date":"Nov 4","abnormal_return":0.01}]}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := writeLines(t, "2021_4Q_stock_prices.jsonl",
					tt.line,
					`{"ticker":"MSFT","stock_prices":[{"date":"2021-11-04","abnormal_return":0.005}]}`,
				)

				histories, err := loader.LoadPriceFile(ctx, path)
				require.NoError(t, err)
				require.Len(t, histories, 1)
				assert.Equal(t, "MSFT", histories[0].Ticker)
			})
		}
	})

	t.Run("empty file yields no histories", func(t *testing.T) {
		path := writeLines(t, "2021_4Q_stock_prices.jsonl")

		histories, err := loader.LoadPriceFile(ctx, path)
		require.NoError(t, err)
		assert.Empty(t, histories)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadPriceFile(ctx, filepath.Join(t.TempDir(), "absent.jsonl"))
		assert.Error(t, err)
	})
}
