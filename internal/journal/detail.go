package journal

import (
	"net/url"
	"time"
)

// TradeDetail holds the notes and chart screenshots attached to a trade.
// A trade has at most one.
type TradeDetail struct {
	ID             int64      `json:"id"`
	TradeID        int64      `json:"tradeId"`
	Notes          string     `json:"observaciones"`
	ImageURLBefore string     `json:"imageUrlpre,omitempty"`
	ImageURLAfter  string     `json:"imageUrlpost,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

type NewTradeDetail struct {
	TradeID        int64  `json:"tradeId"`
	Notes          string `json:"observaciones"`
	ImageURLBefore string `json:"imageUrlpre,omitempty"`
	ImageURLAfter  string `json:"imageUrlpost,omitempty"`
}

// Input returns the detail as a create/update body.
func (d TradeDetail) Input() NewTradeDetail {
	return NewTradeDetail{
		TradeID:        d.TradeID,
		Notes:          d.Notes,
		ImageURLBefore: d.ImageURLBefore,
		ImageURLAfter:  d.ImageURLAfter,
	}
}

func (in NewTradeDetail) Validate() error {
	var c fieldChecker
	c.positiveID("tradeId", in.TradeID)
	c.imageURL("imageUrlpre", in.ImageURLBefore)
	c.imageURL("imageUrlpost", in.ImageURLAfter)
	return c.err()
}

func (c *fieldChecker) imageURL(field, raw string) {
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.add(field, "must be an http(s) URL")
	}
}
