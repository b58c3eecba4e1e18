package storage

import "time"

// Activity is one settled store operation, kept for the status page and for
// post-mortems after a failed sync.
type Activity struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Op      string `gorm:"index;not null" json:"op"`
	TradeID int64  `json:"trade_id"`
	Outcome string `gorm:"index;not null" json:"outcome"`
	Error   string `gorm:"type:text" json:"error,omitempty"`
}

type JournalSnapshot struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TradesCount int    `json:"trades_count"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	NetPnL      string `gorm:"column:net_pnl" json:"net_pnl"`
	WinRate     string `json:"win_rate"`
	Dirty       bool   `json:"dirty"`
}
