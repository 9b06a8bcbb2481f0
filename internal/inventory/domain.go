package inventory

import "errors"

// AdjustmentKind distinguishes goods-received from goods-consumed entries.
type AdjustmentKind string

const (
	// AdjustmentIn records goods received.
	AdjustmentIn AdjustmentKind = "in"
	// AdjustmentOut records goods consumed.
	AdjustmentOut AdjustmentKind = "out"
)

// Adjustment holds the pending goods-in/out quantities for one item. It is
// independent of field overrides and only affects the committed result.
type Adjustment struct {
	GoodsIn  int `json:"goods_in"`
	GoodsOut int `json:"goods_out"`
}

// IsZero reports whether the adjustment has no effect.
func (a Adjustment) IsZero() bool {
	return a.GoodsIn == 0 && a.GoodsOut == 0
}

// ErrCommitInProgress is returned when a commit is invoked while a previous
// one is still running.
var ErrCommitInProgress = errors.New("inventory: commit already in progress")

// ErrInvalidAdjustmentKind indicates a kind other than in/out.
var ErrInvalidAdjustmentKind = errors.New("inventory: adjustment kind must be in or out")
