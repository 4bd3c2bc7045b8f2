package _202508311030_snapshotActivities

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

// Tags balance snapshots with the activity the holding scores under and adds
// the liquidity activities to the catalog. Rows written before the tag
// existed keep an empty activity id; the points calculator falls back to the
// resource mapping for those.
func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`alter table account_balances add column if not exists activity_id text not null default ''`,
		`insert into activities (activity_id, d_app, category, description) values
			('c9_lp_xrd-xusdc', 'Caviarnine', 'Liquidity', 'Provide liquidity to the CaviarNine XRD/xUSDC precision pool'),
			('defiPlaza_lp_xrd-xusdc', 'DefiPlaza', 'Liquidity', 'Provide liquidity to the DefiPlaza xUSDC pair')
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
	return "202508311030_snapshotActivities"
}
