package _202508251200_initialSchema

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`create table if not exists transactions (
			transaction_id text primary key,
			state_version bigint not null,
			timestamp timestamp with time zone not null,
			created_at timestamp with time zone default current_timestamp
		)`,
		`create table if not exists events (
			transaction_id text not null,
			event_index integer not null,
			state_version bigint not null,
			timestamp timestamp with time zone not null,
			d_app text not null,
			category text not null,
			global_emitter text not null,
			package_address text not null,
			event_name text not null,
			event_type text not null,
			data jsonb not null,
			created_at timestamp with time zone default current_timestamp,
			primary key (transaction_id, event_index)
		)`,
		`create table if not exists accounts (
			account_address text primary key,
			created_at timestamp with time zone default current_timestamp
		)`,
		`create table if not exists seasons (
			season_id bigint primary key,
			name text not null,
			start_date timestamp with time zone not null,
			end_date timestamp with time zone not null,
			status text not null default 'upcoming'
		)`,
		`create table if not exists weeks (
			week_id bigint primary key,
			season_id bigint not null references seasons(season_id),
			start_date timestamp with time zone not null,
			end_date timestamp with time zone not null,
			status text not null default 'upcoming'
		)`,
		`create table if not exists account_balances (
			account_address text not null,
			timestamp timestamp with time zone not null,
			resource_address text not null,
			amount numeric not null,
			usd_value numeric not null,
			primary key (account_address, timestamp, resource_address)
		)`,
		`create index if not exists idx_account_balances_timestamp on account_balances (timestamp)`,
		`create table if not exists season_points_multipliers (
			account_address text not null,
			week_id bigint not null references weeks(week_id),
			total_twa_balance numeric not null,
			multiplier numeric not null,
			updated_at timestamp with time zone default current_timestamp,
			primary key (account_address, week_id)
		)`,
		`create table if not exists account_activity_points (
			account_address text not null,
			week_id bigint not null references weeks(week_id),
			activity_id text not null,
			points numeric not null,
			updated_at timestamp with time zone default current_timestamp,
			primary key (account_address, week_id, activity_id)
		)`,
		`create table if not exists transaction_fees (
			transaction_id text primary key,
			account_address text not null,
			fee numeric not null,
			timestamp timestamp with time zone not null
		)`,
		`create table if not exists component_calls (
			account_address text not null,
			timestamp timestamp with time zone not null,
			calls jsonb not null,
			primary key (account_address, timestamp)
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
	return "202508251200_initialSchema"
}
