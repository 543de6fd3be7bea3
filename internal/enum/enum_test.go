package enum

import "testing"

func TestTransactionTypeTable(t *testing.T) {
	tests := []struct {
		typ    string
		effect StockEffect
		dc     string
		prefix string
	}{
		{TxSales, StockDecrease, DCDebit, "SAL"},
		{TxDebitNote, StockDecrease, DCDebit, "DBN"},
		{TxStockTransfer, StockDecrease, DCDebit, "STR"},
		{TxPurchase, StockIncrease, DCCredit, "PUR"},
		{TxCreditNote, StockIncrease, DCCredit, "CRN"},
		{TxReceipt, StockNone, DCCredit, "RCT"},
		{TxPayment, StockNone, DCDebit, "PAY"},
		{TxPurchaseVoucher, StockNone, DCCredit, "PVC"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			if !IsTransactionType(tt.typ) {
				t.Fatalf("%q not recognised", tt.typ)
			}
			if got := EffectOf(tt.typ); got != tt.effect {
				t.Errorf("effect: got %v, want %v", got, tt.effect)
			}
			if got := DefaultDC(tt.typ); got != tt.dc {
				t.Errorf("dc: got %q, want %q", got, tt.dc)
			}
			if got := NumberPrefix(tt.typ); got != tt.prefix {
				t.Errorf("prefix: got %q, want %q", got, tt.prefix)
			}
		})
	}
	if IsTransactionType("sales") {
		t.Error("type matching must be exact")
	}
}

func TestNoteOrigin(t *testing.T) {
	if o, ok := NoteOrigin(TxCreditNote); !ok || o != TxSales {
		t.Errorf("CreditNote origin: got %q %v", o, ok)
	}
	if o, ok := NoteOrigin(TxDebitNote); !ok || o != TxPurchase {
		t.Errorf("DebitNote origin: got %q %v", o, ok)
	}
	if _, ok := NoteOrigin(TxSales); ok {
		t.Error("Sales is not a note")
	}
}
