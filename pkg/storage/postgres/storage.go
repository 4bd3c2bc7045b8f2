package postgres

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rdx-works/incentives-sidecar/pkg/postgres/helpers"
	"github.com/rdx-works/incentives-sidecar/pkg/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertBatchSize keeps multi-row inserts below the postgres parameter limit.
const insertBatchSize = 1000

type PostgresIncentivesStore struct {
	Db     *gorm.DB
	Logger *zap.Logger
}

var _ storage.IncentivesStore = (*PostgresIncentivesStore)(nil)

func NewPostgresIncentivesStore(db *gorm.DB, l *zap.Logger) *PostgresIncentivesStore {
	return &PostgresIncentivesStore{
		Db:     db,
		Logger: l,
	}
}

func (s *PostgresIncentivesStore) InsertTransaction(ctx context.Context, tx *storage.Transaction) error {
	res := s.Db.WithContext(ctx).Model(&storage.Transaction{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoNothing: true,
	}).Create(tx)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to insert transaction '%s'", tx.TransactionID)
	}
	return nil
}

func (s *PostgresIncentivesStore) InsertEvents(ctx context.Context, events []*storage.Event) error {
	if len(events) == 0 {
		return nil
	}
	res := s.Db.WithContext(ctx).Model(&storage.Event{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}, {Name: "event_index"}},
		DoNothing: true,
	}).CreateInBatches(&events, insertBatchSize)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to insert events")
	}
	return nil
}

// InsertTransactionWithEvents stages a transaction and its matched events in
// one database transaction, so a half written ingestion batch never leaves
// events without their parent row.
func (s *PostgresIncentivesStore) InsertTransactionWithEvents(ctx context.Context, transaction *storage.Transaction, events []*storage.Event) error {
	_, err := helpers.WrapTxAndCommit(func(tx *gorm.DB) (any, error) {
		res := tx.WithContext(ctx).Model(&storage.Transaction{}).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).Create(transaction)
		if res.Error != nil {
			return nil, errors.Wrapf(res.Error, "failed to insert transaction '%s'", transaction.TransactionID)
		}

		if len(events) == 0 {
			return nil, nil
		}
		res = tx.WithContext(ctx).Model(&storage.Event{}).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}, {Name: "event_index"}},
			DoNothing: true,
		}).CreateInBatches(&events, insertBatchSize)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "failed to insert events")
		}
		return nil, nil
	}, s.Db, nil)
	return err
}

func (s *PostgresIncentivesStore) InsertTransactionFee(ctx context.Context, fee *storage.TransactionFee) error {
	res := s.Db.WithContext(ctx).Model(&storage.TransactionFee{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoNothing: true,
	}).Create(fee)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to insert fee for '%s'", fee.TransactionID)
	}
	return nil
}

func (s *PostgresIncentivesStore) UpsertComponentCalls(ctx context.Context, call *storage.ComponentCall) error {
	res := s.Db.WithContext(ctx).Model(&storage.ComponentCall{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_address"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"calls"}),
	}).Create(call)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to upsert component calls for '%s'", call.AccountAddress)
	}
	return nil
}

func (s *PostgresIncentivesStore) InsertTradingVolumes(ctx context.Context, volumes []*storage.TradingVolume) error {
	if len(volumes) == 0 {
		return nil
	}
	res := s.Db.WithContext(ctx).Model(&storage.TradingVolume{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}, {Name: "activity_id"}},
		DoNothing: true,
	}).CreateInBatches(&volumes, insertBatchSize)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to insert trading volumes")
	}
	return nil
}

func (s *PostgresIncentivesStore) GetEvents(ctx context.Context, keys []storage.EventKey) ([]*storage.Event, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	tuples := make([][]interface{}, 0, len(keys))
	for _, key := range keys {
		tuples = append(tuples, []interface{}{key.TransactionID, key.EventIndex})
	}

	events := make([]*storage.Event, 0, len(keys))
	res := s.Db.WithContext(ctx).Model(&storage.Event{}).
		Where("(transaction_id, event_index) IN ?", tuples).
		Order("state_version asc, event_index asc").
		Find(&events)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "failed to load staged events")
	}
	return events, nil
}

func (s *PostgresIncentivesStore) DeleteEvents(ctx context.Context, keys []storage.EventKey) error {
	if len(keys) == 0 {
		return nil
	}
	tuples := make([][]interface{}, 0, len(keys))
	for _, key := range keys {
		tuples = append(tuples, []interface{}{key.TransactionID, key.EventIndex})
	}
	res := s.Db.WithContext(ctx).
		Where("(transaction_id, event_index) IN ?", tuples).
		Delete(&storage.Event{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete staged events")
	}
	return nil
}

func (s *PostgresIncentivesStore) IsRegistered(ctx context.Context, accountAddress string) (bool, error) {
	var count int64
	res := s.Db.WithContext(ctx).Model(&storage.Account{}).
		Where("account_address = ?", accountAddress).
		Count(&count)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to look up account '%s'", accountAddress)
	}
	return count > 0, nil
}

func (s *PostgresIncentivesStore) ListRegisteredAccounts(ctx context.Context, offset int, limit int) ([]*storage.Account, error) {
	accounts := make([]*storage.Account, 0)
	res := s.Db.WithContext(ctx).Model(&storage.Account{}).
		Order("account_address asc").
		Offset(offset).
		Limit(limit).
		Find(&accounts)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "failed to list accounts")
	}
	return accounts, nil
}

func (s *PostgresIncentivesStore) InsertAccountBalances(ctx context.Context, balances []*storage.AccountBalance) error {
	if len(balances) == 0 {
		return nil
	}
	res := s.Db.WithContext(ctx).Model(&storage.AccountBalance{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_address"}, {Name: "timestamp"}, {Name: "resource_address"}},
		DoNothing: true,
	}).CreateInBatches(&balances, insertBatchSize)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to insert account balances")
	}
	return nil
}

func (s *PostgresIncentivesStore) ListAccountBalancesBetween(ctx context.Context, accountAddress string, start time.Time, end time.Time) ([]*storage.AccountBalance, error) {
	balances := make([]*storage.AccountBalance, 0)
	res := s.Db.WithContext(ctx).Model(&storage.AccountBalance{}).
		Where("account_address = ? and timestamp >= ? and timestamp < ?", accountAddress, start, end).
		Order("timestamp asc").
		Find(&balances)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "failed to list balances for '%s'", accountAddress)
	}
	return balances, nil
}

func (s *PostgresIncentivesStore) GetLatestAccountBalanceBefore(ctx context.Context, accountAddress string, at time.Time) (*storage.AccountBalance, error) {
	balance := &storage.AccountBalance{}
	res := s.Db.WithContext(ctx).Model(&storage.AccountBalance{}).
		Where("account_address = ? and timestamp < ?", accountAddress, at).
		Order("timestamp desc").
		First(balance)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(res.Error, "failed to find balance for '%s'", accountAddress)
	}
	return balance, nil
}

func (s *PostgresIncentivesStore) GetOpeningBalances(ctx context.Context, accountAddress string, at time.Time) ([]*storage.AccountBalance, error) {
	balances := make([]*storage.AccountBalance, 0)
	query := `
		select distinct on (resource_address)
			account_address,
			timestamp,
			resource_address,
			activity_id,
			amount,
			usd_value
		from account_balances
		where account_address = ?
			and timestamp < ?
		order by resource_address, timestamp desc`
	res := s.Db.WithContext(ctx).Raw(query, accountAddress, at).Scan(&balances)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "failed to load opening balances for '%s'", accountAddress)
	}
	return balances, nil
}

func (s *PostgresIncentivesStore) GetWeek(ctx context.Context, weekId uint64) (*storage.Week, error) {
	week := &storage.Week{}
	res := s.Db.WithContext(ctx).Model(&storage.Week{}).
		Where("week_id = ?", weekId).
		First(week)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(res.Error, "failed to find week '%d'", weekId)
	}
	return week, nil
}

func (s *PostgresIncentivesStore) GetActiveWeek(ctx context.Context) (*storage.Week, error) {
	week := &storage.Week{}
	res := s.Db.WithContext(ctx).Model(&storage.Week{}).
		Where("status = ?", "active").
		Order("start_date desc").
		First(week)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(res.Error, "failed to find active week")
	}
	return week, nil
}

func (s *PostgresIncentivesStore) UpsertSeasonPointsMultipliers(ctx context.Context, multipliers []*storage.SeasonPointsMultiplier) error {
	if len(multipliers) == 0 {
		return nil
	}
	res := s.Db.WithContext(ctx).Model(&storage.SeasonPointsMultiplier{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_twa_balance", "multiplier", "updated_at"}),
	}).CreateInBatches(&multipliers, insertBatchSize)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to upsert season points multipliers")
	}
	return nil
}

func (s *PostgresIncentivesStore) UpsertAccountActivityPoints(ctx context.Context, points []*storage.AccountActivityPoints) error {
	if len(points) == 0 {
		return nil
	}
	res := s.Db.WithContext(ctx).Model(&storage.AccountActivityPoints{}).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_address"}, {Name: "week_id"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"points", "updated_at"}),
	}).CreateInBatches(&points, insertBatchSize)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to upsert account activity points")
	}
	return nil
}

func (s *PostgresIncentivesStore) SumTradingVolumeByAccount(ctx context.Context, activityId string, start time.Time, end time.Time) (map[string]decimal.Decimal, error) {
	rows := make([]struct {
		AccountAddress string
		Total          decimal.Decimal
	}, 0)
	query := `
		select
			account_address,
			sum(usd_value) as total
		from trading_volume
		where activity_id = ?
			and timestamp >= ?
			and timestamp < ?
		group by account_address`
	res := s.Db.WithContext(ctx).Raw(query, activityId, start, end).Scan(&rows)
	if res.Error != nil {
		return nil, errors.Wrapf(res.Error, "failed to sum trading volume for '%s'", activityId)
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.AccountAddress] = row.Total
	}
	return out, nil
}
