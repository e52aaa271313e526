package backtest

import (
	"encoding/csv"
	"fmt"
	"math/big"
	"os"
	"time"

	"ladder"
)

// ReadCandles loads a candle series from a CSV file with the header
// `open_time,close_time,open,high,low,close,volume`, times formatted
// as RFC3339. Rows are expected in chronological order.
func ReadCandles(path, pair, exchange string) ([]*ladder.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open candle file: [%v]", err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := csv.NewReader(file)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read candle file: [%v]", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("candle file contains no data rows")
	}

	// skip the header row
	rows = rows[1:]

	candles := make([]*ladder.Candle, len(rows))

	for index, row := range rows {
		if len(row) != 7 {
			return nil, fmt.Errorf(
				"wrong column count [%v] in row [%v]",
				len(row),
				index+2,
			)
		}

		openTime, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, fmt.Errorf(
				"could not parse open time in row [%v]: [%v]",
				index+2,
				err,
			)
		}

		closeTime, err := time.Parse(time.RFC3339, row[1])
		if err != nil {
			return nil, fmt.Errorf(
				"could not parse close time in row [%v]: [%v]",
				index+2,
				err,
			)
		}

		prices := make([]*big.Float, 5)
		for priceIndex, value := range row[2:] {
			price, ok := new(big.Float).SetString(value)
			if !ok {
				return nil, fmt.Errorf(
					"could not parse value [%v] in row [%v]",
					value,
					index+2,
				)
			}

			prices[priceIndex] = price
		}

		candles[index] = &ladder.Candle{
			Pair:       pair,
			Exchange:   exchange,
			OpenTime:   openTime,
			CloseTime:  closeTime,
			OpenPrice:  prices[0],
			MaxPrice:   prices[1],
			MinPrice:   prices[2],
			ClosePrice: prices[3],
			Volume:     prices[4],
		}
	}

	return candles, nil
}
