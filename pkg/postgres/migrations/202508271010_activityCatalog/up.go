package _202508271010_activityCatalog

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`create table if not exists activities (
			activity_id text primary key,
			d_app text not null,
			category text not null,
			description text not null default ''
		)`,
		`insert into activities (activity_id, d_app, category, description) values
			('c9_trade_xrd-xusdc', 'Caviarnine', 'DEX', 'Trade on the CaviarNine XRD/xUSDC precision pool'),
			('defiPlaza_trade_xrd-xusdc', 'DefiPlaza', 'DEX', 'Trade on the DefiPlaza xUSDC pair'),
			('weftFinance_lend', 'WeftFinance', 'Lending', 'Lend or borrow on Weft Finance v2'),
			('rootFinance_lend', 'RootFinance', 'Lending', 'Lend or borrow on Root Finance'),
			('hold_xrd', 'Common', 'Holding', 'Hold XRD or LSULP in a registered account')
		on conflict (activity_id) do nothing`,
	}

	for _, query := range queries {
		if res := grm.Exec(query); res.Error != nil {
			return res.Error
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202508271010_activityCatalog"
}
