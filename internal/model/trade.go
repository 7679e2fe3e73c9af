package model

import "time"

// Action is the trade direction.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// TradeIntent is a proposed, not-yet-executed trade produced by a decision
// policy. Intents are consumed by the simulator in the order produced and
// are never persisted.
type TradeIntent struct {
	Symbol string  `json:"symbol"`
	Action Action  `json:"action"`
	Qty    int64   `json:"qty"`
	Price  float64 `json:"price"` // reference price (latest close)
	Reason string  `json:"reason"`
}

// TradeRecord is one executed trade in the ledger's append-only history.
type TradeRecord struct {
	Date   time.Time `json:"date"`
	Symbol string    `json:"symbol"`
	Action Action    `json:"action"`
	Price  float64   `json:"price"`
	Qty    int64     `json:"qty"`
	Fee    float64   `json:"fee"`
}

// ValuationRecord is the simulator's externally observable daily output:
// total portfolio value (cash + holdings at latest closes) for one day.
type ValuationRecord struct {
	Date       time.Time `json:"date"`
	TotalValue float64   `json:"total_value"`
}
