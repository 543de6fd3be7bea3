package enum

// ── Group A: Transaction types (CHECK constrained in DB) ──

const (
	TxSales           = "Sales"
	TxPurchase        = "Purchase"
	TxCreditNote      = "CreditNote"
	TxDebitNote       = "DebitNote"
	TxStockTransfer   = "stock transfer"
	TxReceipt         = "Receipt"
	TxPayment         = "Voucher"
	TxPurchaseVoucher = "purchase voucher"
)

// StockEffect is the direction a transaction type moves batch stock.
type StockEffect int

const (
	StockNone StockEffect = iota
	StockIncrease
	StockDecrease
)

func (e StockEffect) String() string {
	switch e {
	case StockIncrease:
		return "increase"
	case StockDecrease:
		return "decrease"
	default:
		return "none"
	}
}

type txInfo struct {
	effect StockEffect
	dc     string
	prefix string
}

var txTypes = map[string]txInfo{
	TxSales:           {StockDecrease, DCDebit, "SAL"},
	TxDebitNote:       {StockDecrease, DCDebit, "DBN"},
	TxStockTransfer:   {StockDecrease, DCDebit, "STR"},
	TxPurchase:        {StockIncrease, DCCredit, "PUR"},
	TxCreditNote:      {StockIncrease, DCCredit, "CRN"},
	TxReceipt:         {StockNone, DCCredit, "RCT"},
	TxPayment:         {StockNone, DCDebit, "PAY"},
	TxPurchaseVoucher: {StockNone, DCCredit, "PVC"},
}

// IsTransactionType reports whether t is a known transaction type.
func IsTransactionType(t string) bool {
	_, ok := txTypes[t]
	return ok
}

// EffectOf returns the stock effect of transaction type t.
func EffectOf(t string) StockEffect { return txTypes[t].effect }

// DefaultDC returns the debit/credit side used when a request omits it.
func DefaultDC(t string) string { return txTypes[t].dc }

// NumberPrefix returns the prefix for generated voucher and invoice numbers.
func NumberPrefix(t string) string { return txTypes[t].prefix }

// NoteOrigin returns the transaction type a note is raised against.
func NoteOrigin(t string) (string, bool) {
	switch t {
	case TxCreditNote:
		return TxSales, true
	case TxDebitNote:
		return TxPurchase, true
	}
	return "", false
}

// ── Group B: Ledger sides and voucher state (CHECK constrained in DB) ──

const (
	DCDebit  = "D"
	DCCredit = "C"
)

const (
	VoucherStatusUnpaid  = "UNPAID"
	VoucherStatusPartial = "PARTIAL"
	VoucherStatusPaid    = "PAID"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusInvoiced  = "INVOICED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	OrderModePakka = "PAKKA"
	OrderModeKacha = "KACHA"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleAdmin      = "ADMIN"
	UserRoleAccountant = "ACCOUNTANT"
	UserRoleStaff      = "STAFF"
)

const (
	AccountTypeCustomer = "CUSTOMER"
	AccountTypeSupplier = "SUPPLIER"
	AccountTypeStaff    = "STAFF"
	AccountTypeLedger   = "LEDGER"
)

// ── Group D: Configurable labels (no DB constraint) ──

const DefaultBatch = "DEFAULT"

const (
	TopicVouchers = "vouchers"
	TopicStock    = "stock"
)

const (
	EventVoucherPosted         = "voucher.posted"
	EventVoucherUpdated        = "voucher.updated"
	EventVoucherDeleted        = "voucher.deleted"
	EventReconciliationWarning = "stock.reconciliation_warning"
)
