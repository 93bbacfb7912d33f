package common

import "fmt"

// Trade is a matched pair at a price and quantity with a unique
// engine-assigned id, spec.md section 4.4. Buyer/seller are determined
// by each order's Side, never by which order was the incoming (taker)
// order — a resting sell matched by an incoming buy still reports the
// resting order as the seller.
type Trade struct {
	ID             uint64
	Symbol         string
	BuyOrderID     uint64
	SellOrderID    uint64
	BuyClOrdID     string
	SellClOrdID    string
	BuyOwnerID     uint64
	SellOwnerID    uint64
	Price          int64 // scaled
	Qty            int64 // scaled
	Timestamp      int64 // ns tick
	TakerIsBuyer   bool
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade[%d] %s buy=%d sell=%d price=%d qty=%d ts=%d",
		t.ID, t.Symbol, t.BuyOrderID, t.SellOrderID, t.Price, t.Qty, t.Timestamp,
	)
}
