package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	pkgch "MarketPulse/pkg/clickhouse"
	pkgkafka "MarketPulse/pkg/kafka"
)

const (
	tapeTable = "trade_tape"
	tapeCols  = "ts, symbol, price, volume, conditions, source, event_id"
	chunkSize = 2000
)

// TapeSchema returns the idempotent DDL for the trade tape in database.
func TapeSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    ts         DateTime64(3, 'UTC'),
    symbol     LowCardinality(String),
    price      Float64,
    volume     Float64,
    conditions Array(String),
    source     LowCardinality(String),
    event_id   String
) ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMMDD(ts)
ORDER BY (symbol, ts, event_id)
TTL toDateTime(ts) + INTERVAL 30 DAY`, database, tapeTable),
	}
}

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	client *pkgch.Client
	db     *sql.DB
	table  string
}

// NewClickHouseStorage creates ClickHouse storage on the client's database.
func NewClickHouseStorage(client *pkgch.Client) *ClickHouseStorage {
	return &ClickHouseStorage{
		client: client,
		db:     client.DB(),
		table:  client.Database() + "." + tapeTable,
	}
}

var _ repository.Storage = (*ClickHouseStorage)(nil)

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, TapeSchema(s.client.Database()))
}

func (s *ClickHouseStorage) Store(ctx context.Context, t *models.Trade) error {
	return s.StoreBatch(ctx, []*models.Trade{t})
}

// StoreBatch inserts trades with multi-row VALUES in chunks. Rows without a
// symbol or timestamp are skipped.
func (s *ClickHouseStorage) StoreBatch(ctx context.Context, trades []*models.Trade) error {
	for start := 0; start < len(trades); start += chunkSize {
		end := min(start+chunkSize, len(trades))
		q, args := insertStatement(s.table, trades[start:end])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store trades: %w", err)
		}
	}
	return nil
}

func insertStatement(table string, trades []*models.Trade) (string, []interface{}) {
	values := make([]string, 0, len(trades))
	args := make([]interface{}, 0, len(trades)*7)
	for _, t := range trades {
		if t == nil || t.Symbol == "" || t.Timestamp <= 0 {
			continue
		}
		conds := t.Conditions
		if conds == nil {
			conds = []string{}
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			time.UnixMilli(t.Timestamp).UTC(),
			t.Symbol,
			t.Price,
			t.Volume,
			conds,
			"finnhub",
			eventID(t),
		)
	}
	if len(values) == 0 {
		return "", nil
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, tapeCols, strings.Join(values, ",")), args
}

// eventID makes replayed tape messages collapse under ReplacingMergeTree.
func eventID(t *models.Trade) string {
	return fmt.Sprintf("%s-%d-%g-%g", t.Symbol, t.Timestamp, t.Price, t.Volume)
}

// Query returns trades for symbol in [from, to], newest first.
func (s *ClickHouseStorage) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Trade, error) {
	q := fmt.Sprintf("SELECT symbol, ts, price, volume, conditions FROM %s FINAL WHERE symbol = ? AND ts >= ? AND ts <= ? ORDER BY ts DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from.UTC(), to.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]*models.Trade, 0, limit)
	for rows.Next() {
		var (
			t  models.Trade
			ts time.Time
		)
		if err := rows.Scan(&t.Symbol, &ts, &t.Price, &t.Volume, &t.Conditions); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Timestamp = ts.UnixMilli()
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// Close is a no-op; the client is closed by its owner.
func (s *ClickHouseStorage) Close() error {
	return nil
}

// KafkaPublisher implements Publisher for Kafka, keyed by symbol.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

var _ repository.Publisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) Publish(ctx context.Context, t *models.Trade) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.Symbol), models.TapeRecordOf(t))
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, trades []*models.Trade) error {
	msgs := tapeMessages(trades)
	if len(msgs) == 0 {
		return nil
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func tapeMessages(trades []*models.Trade) []pkgkafka.Message {
	msgs := make([]pkgkafka.Message, 0, len(trades))
	for _, t := range trades {
		if t == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{
			Key:   []byte(t.Symbol),
			Value: models.TapeRecordOf(t),
		})
	}
	return msgs
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
