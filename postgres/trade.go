package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgtype"

	"ladder"
)

type TradeRepository struct {
	client    *Client
	idService ladder.IDService
}

func NewTradeRepository(
	client *Client,
	idService ladder.IDService,
) *TradeRepository {
	return &TradeRepository{client, idService}
}

func (tr *TradeRepository) CreateTrade(record *ladder.TradeRecord) error {
	query := `INSERT INTO
		trade (id, pair, exchange, type, entry_time, exit_time,
		       rungs_used, average_entry_price, exit_price, exit_reason,
		       quantity)
		VALUES (:id, :pair, :exchange, :type, :entry_time, :exit_time,
		        :rungs_used, :average_entry_price, :exit_price,
		        :exit_reason, :quantity)`

	row, err := new(tradeRow).wrap(record)
	if err != nil {
		return fmt.Errorf(
			"could not convert trade [%v] to pg row: [%v]",
			record.ID,
			err,
		)
	}

	_, err = tr.client.instance().NamedExec(query, row)
	if err != nil {
		return fmt.Errorf(
			"could not execute command for trade [%v]: [%v]",
			record.ID,
			err,
		)
	}

	return nil
}

func (tr *TradeRepository) Trades(
	filter ladder.TradeFilter,
) ([]*ladder.TradeRecord, error) {
	var rows []tradeRow

	query := `SELECT id, pair, exchange, type, entry_time, exit_time,
		       rungs_used, average_entry_price, exit_price, exit_reason,
		       quantity
		FROM trade
		WHERE pair = $1 AND exchange = $2
		ORDER BY exit_time ASC`

	err := tr.client.instance().Select(
		&rows,
		query,
		filter.Pair,
		filter.Exchange,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"could not execute query for filter [%+v]: [%v]",
			filter,
			err,
		)
	}

	records := make([]*ladder.TradeRecord, len(rows))

	for index := range rows {
		record, err := rows[index].unwrap(tr.idService)
		if err != nil {
			return nil, fmt.Errorf(
				"could not convert trade [%v] from pg row: [%v]",
				rows[index].ID,
				err,
			)
		}

		records[index] = record
	}

	return records, nil
}

type tradeRow struct {
	ID                string
	Pair              string
	Exchange          string
	Type              string
	EntryTime         time.Time      `db:"entry_time"`
	ExitTime          time.Time      `db:"exit_time"`
	RungsUsed         int            `db:"rungs_used"`
	AverageEntryPrice pgtype.Numeric `db:"average_entry_price"`
	ExitPrice         pgtype.Numeric `db:"exit_price"`
	ExitReason        string         `db:"exit_reason"`
	Quantity          pgtype.Numeric
}

func (tr *tradeRow) wrap(record *ladder.TradeRecord) (*tradeRow, error) {
	averageEntryPrice, err := floatToNumeric(record.AverageEntryPrice)
	if err != nil {
		return nil, err
	}

	exitPrice, err := floatToNumeric(record.ExitPrice)
	if err != nil {
		return nil, err
	}

	quantity, err := floatToNumeric(record.Quantity)
	if err != nil {
		return nil, err
	}

	tr.ID = record.ID.String()
	tr.Pair = record.Pair
	tr.Exchange = record.Exchange
	tr.Type = record.Type.String()
	tr.EntryTime = record.EntryTime
	tr.ExitTime = record.ExitTime
	tr.RungsUsed = record.RungsUsed
	tr.AverageEntryPrice = averageEntryPrice
	tr.ExitPrice = exitPrice
	tr.ExitReason = record.ExitReason.String()
	tr.Quantity = quantity

	return tr, nil
}

func (tr *tradeRow) unwrap(
	idService ladder.IDService,
) (*ladder.TradeRecord, error) {
	id, err := idService.NewIDFromString(tr.ID)
	if err != nil {
		return nil, err
	}

	tradeType, err := ladder.ParsePositionType(tr.Type)
	if err != nil {
		return nil, err
	}

	exitReason, err := ladder.ParseExitReason(tr.ExitReason)
	if err != nil {
		return nil, err
	}

	averageEntryPrice, err := numericToFloat(tr.AverageEntryPrice)
	if err != nil {
		return nil, err
	}

	exitPrice, err := numericToFloat(tr.ExitPrice)
	if err != nil {
		return nil, err
	}

	quantity, err := numericToFloat(tr.Quantity)
	if err != nil {
		return nil, err
	}

	return &ladder.TradeRecord{
		ID:                id,
		Pair:              tr.Pair,
		Exchange:          tr.Exchange,
		Type:              tradeType,
		EntryTime:         tr.EntryTime,
		ExitTime:          tr.ExitTime,
		RungsUsed:         tr.RungsUsed,
		AverageEntryPrice: averageEntryPrice,
		ExitPrice:         exitPrice,
		ExitReason:        exitReason,
		Quantity:          quantity,
	}, nil
}
