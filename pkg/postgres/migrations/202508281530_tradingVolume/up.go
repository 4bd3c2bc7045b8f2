package _202508281530_tradingVolume

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`create table if not exists trading_volume (
			transaction_id text not null,
			activity_id text not null references activities(activity_id),
			account_address text not null,
			usd_value numeric not null,
			timestamp timestamp with time zone not null,
			primary key (transaction_id, activity_id)
		)`,
		`create index if not exists idx_trading_volume_activity_timestamp on trading_volume (activity_id, timestamp)`,
	}

	for _, query := range queries {
		if res := grm.Exec(query); res.Error != nil {
			return res.Error
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202508281530_tradingVolume"
}
