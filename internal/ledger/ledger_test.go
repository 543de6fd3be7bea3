package ledger

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func entry(id int64, party uuid.UUID, name string, d int, amount, dc string) Entry {
	return Entry{
		VoucherID: id,
		PartyID:   party,
		PartyName: name,
		Date:      day(d),
		Amount:    decimal.RequireFromString(amount),
		DC:        dc,
	}
}

func wantDec(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: got %s, want %s", what, got, want)
	}
}

func TestBuild_ReplaysInOrder(t *testing.T) {
	acme := uuid.New()
	entries := []Entry{
		entry(3, acme, "Acme", 2, "50", "C"),
		entry(1, acme, "Acme", 1, "100", "D"),
		entry(2, acme, "Acme", 2, "30", "D"),
	}

	parties := Build(entries, time.Time{})
	if len(parties) != 1 {
		t.Fatalf("parties: %d", len(parties))
	}
	p := parties[0]

	var ids []int64
	for _, l := range p.Lines {
		ids = append(ids, l.VoucherID)
	}
	if !reflect.DeepEqual(ids, []int64{1, 2, 3}) {
		t.Errorf("order: got %v", ids)
	}
	wantDec(t, "balance 1", p.Lines[0].Balance, "100")
	wantDec(t, "balance 2", p.Lines[1].Balance, "130")
	wantDec(t, "balance 3", p.Lines[2].Balance, "80")
	wantDec(t, "debit", p.Debit, "130")
	wantDec(t, "credit", p.Credit, "50")
	wantDec(t, "closing", p.Closing, "80")

	if entries[0].VoucherID != 3 {
		t.Error("input slice was reordered")
	}
}

func TestBuild_OpeningBalance(t *testing.T) {
	acme := uuid.New()
	entries := []Entry{
		entry(1, acme, "Acme", 1, "100", "D"),
		entry(2, acme, "Acme", 5, "40", "C"),
		entry(3, acme, "Acme", 10, "25", "D"),
	}

	p := Build(entries, day(5))[0]
	wantDec(t, "opening", p.Opening, "100")
	if len(p.Lines) != 2 {
		t.Fatalf("lines: %d", len(p.Lines))
	}
	wantDec(t, "first line balance", p.Lines[0].Balance, "60")
	wantDec(t, "closing", p.Closing, "85")
	wantDec(t, "window debit", p.Debit, "25")
}

func TestBuild_OnlyOpening(t *testing.T) {
	acme := uuid.New()
	p := Build([]Entry{entry(1, acme, "Acme", 1, "10", "C")}, day(20))[0]
	wantDec(t, "opening", p.Opening, "-10")
	wantDec(t, "closing", p.Closing, "-10")
	if len(p.Lines) != 0 {
		t.Errorf("lines: %d", len(p.Lines))
	}
}

func TestBuild_SeparatesParties(t *testing.T) {
	acme, zeta := uuid.New(), uuid.New()
	parties := Build([]Entry{
		entry(1, zeta, "Zeta", 1, "5", "D"),
		entry(2, acme, "Acme", 2, "7", "D"),
		entry(3, zeta, "Zeta", 3, "5", "D"),
	}, time.Time{})

	if len(parties) != 2 {
		t.Fatalf("parties: %d", len(parties))
	}
	if parties[0].PartyName != "Acme" || parties[1].PartyName != "Zeta" {
		t.Errorf("party order: %s, %s", parties[0].PartyName, parties[1].PartyName)
	}
	wantDec(t, "zeta closing", parties[1].Closing, "10")
	wantDec(t, "acme closing", parties[0].Closing, "7")
}

func TestBuild_Idempotent(t *testing.T) {
	acme, zeta := uuid.New(), uuid.New()
	entries := []Entry{
		entry(4, zeta, "Zeta", 3, "12.5", "C"),
		entry(1, acme, "Acme", 1, "100", "D"),
		entry(2, zeta, "Zeta", 1, "40", "D"),
		entry(3, acme, "Acme", 1, "20", "C"),
	}

	first := Build(entries, day(2))
	second := Build(entries, day(2))
	if !reflect.DeepEqual(first, second) {
		t.Error("two builds over the same input differ")
	}
}

func TestBuild_Empty(t *testing.T) {
	if got := Build(nil, time.Time{}); len(got) != 0 {
		t.Errorf("got %d parties", len(got))
	}
}

func TestWriteXLSX(t *testing.T) {
	acme := uuid.New()
	parties := Build([]Entry{
		entry(1, acme, "Acme", 1, "100", "D"),
		entry(2, acme, "Acme", 2, "30", "C"),
	}, time.Time{})

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, parties); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	// header, opening, two lines, closing
	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want 5", len(rows))
	}
	if rows[0][0] != "Party" || rows[0][8] != "Balance" {
		t.Errorf("header: %v", rows[0])
	}
	if rows[2][1] != "2024-03-01" || rows[2][6] != "100" {
		t.Errorf("first line: %v", rows[2])
	}
	if rows[4][5] != "Closing balance" || rows[4][8] != "70" {
		t.Errorf("closing row: %v", rows[4])
	}
}
