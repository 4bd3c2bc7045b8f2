package _202508311015_userMultipliers

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

// Keys the season multiplier on the user rather than on single accounts. The
// multiplier table only holds derived values that the hourly recompute fully
// rebuilds, so it is recreated instead of migrated in place.
func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`alter table accounts add column if not exists user_id text not null default ''`,
		`create index if not exists idx_accounts_user_id on accounts (user_id)`,
		`drop table if exists season_points_multipliers`,
		`create table season_points_multipliers (
			user_id text not null,
			week_id bigint not null references weeks(week_id),
			total_twa_balance numeric not null,
			multiplier numeric not null,
			updated_at timestamp with time zone default current_timestamp,
			primary key (user_id, week_id)
		)`,
	}

	for _, query := range queries {
		if res := grm.Exec(query); res.Error != nil {
			return res.Error
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202508311015_userMultipliers"
}
