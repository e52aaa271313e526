package backtest

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"
)

func TestReadCandles(t *testing.T) {
	content := "open_time,close_time,open,high,low,close,volume\n" +
		"2021-06-11T15:00:00Z,2021-06-11T15:00:59Z," +
		"100,100.5,99.8,100,12.5\n" +
		"2021-06-11T15:01:00Z,2021-06-11T15:01:59Z," +
		"99.8,99.9,99.45,99.6,8.25\n"

	path := filepath.Join(t.TempDir(), "candles.csv")
	if err := ioutil.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	candles, err := ReadCandles(path, "BTCUSDT", "test")
	if err != nil {
		t.Fatal(err)
	}

	if len(candles) != 2 {
		t.Fatalf(
			"unexpected candles count\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			2,
			len(candles),
		)
	}

	firstCandle := candles[0]

	expectedOpenTime := time.Date(2021, 6, 11, 15, 0, 0, 0, time.UTC)
	if !firstCandle.OpenTime.Equal(expectedOpenTime) {
		t.Errorf(
			"unexpected open time\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			expectedOpenTime,
			firstCandle.OpenTime,
		)
	}

	if firstCandle.Pair != "BTCUSDT" || firstCandle.Exchange != "test" {
		t.Errorf(
			"unexpected candle identity: [%v %v]",
			firstCandle.Pair,
			firstCandle.Exchange,
		)
	}

	if !firstCandle.Complete() {
		t.Error("expected a complete candle")
	}

	assertFloatEqual(t, "open price", 100, firstCandle.OpenPrice)
	assertFloatEqual(t, "high price", 100.5, firstCandle.MaxPrice)
	assertFloatEqual(t, "low price", 99.8, firstCandle.MinPrice)
	assertFloatEqual(t, "close price", 100, firstCandle.ClosePrice)
	assertFloatEqual(t, "volume", 12.5, firstCandle.Volume)
}

func TestReadCandles_MissingFile(t *testing.T) {
	_, err := ReadCandles(
		filepath.Join(t.TempDir(), "missing.csv"),
		"BTCUSDT",
		"test",
	)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestReadCandles_MalformedRow(t *testing.T) {
	content := "open_time,close_time,open,high,low,close,volume\n" +
		"2021-06-11T15:00:00Z,2021-06-11T15:00:59Z," +
		"100,100.5,99.8,not-a-price,12.5\n"

	path := filepath.Join(t.TempDir(), "candles.csv")
	if err := ioutil.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadCandles(path, "BTCUSDT", "test"); err == nil {
		t.Fatal("expected an error")
	}
}
