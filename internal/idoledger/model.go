// Package idoledger persists a record of every instruction executed against
// a pool, independent of the account data itself: a query-friendly history
// the HTTP surface and CLI can read back without re-deriving addresses or
// re-parsing account blobs.
package idoledger

import "time"

// Event is one executed instruction against a pool.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Market      string    `gorm:"index;size:44" json:"market"`
	Pool        string    `gorm:"index;size:44" json:"pool"`
	Kind        string    `gorm:"index;size:24" json:"kind"` // init_market, init_pool, participate, add_to_whitelist, claim, withdraw, set_kyc, clear_kyc
	User        string    `gorm:"index;size:44" json:"user,omitempty"`
	Amount      uint64    `json:"amount,omitempty"`
	Signature   string    `gorm:"index;size:88" json:"signature,omitempty"`
	Succeeded   bool      `json:"succeeded"`
	ErrorCode   uint32    `json:"error_code,omitempty"`
	ErrorDetail string    `gorm:"type:text" json:"error_detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Event) TableName() string {
	return "ido_events"
}
