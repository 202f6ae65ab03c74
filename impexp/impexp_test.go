package impexp

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/store"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var now = time.Date(2024, 2, 15, 10, 30, 0, 0, time.UTC)

func testDataset() *mm.Dataset {
	return &mm.Dataset{
		Accounts: []mm.Account{
			{ID: "chk", Name: "Main Checking", Balance: dec("1914.5"), Type: mm.Checking, Bank: "O'Neil Bank"},
			{ID: "sav", Name: "Savings", Balance: dec("5000"), Type: mm.Savings},
			{ID: "cc", Name: "Visa", Balance: dec("-85.5"), Type: mm.Credit, AccountNumber: "****4242"},
		},
		Transactions: []mm.Transaction{
			{ID: "t1", AccountID: "chk", Type: mm.Income, Amount: dec("2600"), Category: "Salary", Subcategory: "Regular Pay", Description: "Monthly salary", Date: date.New(2024, 1, 31)},
			{ID: "t2", AccountID: "cc", Type: mm.Expense, Amount: dec("85.5"), Category: "Food", Subcategory: "Groceries", Description: `Grocery "weekly", O'Brien's`, Date: date.New(2024, 2, 1)},
			{ID: "t3", AccountID: "chk", ToAccountID: "sav", Type: mm.Transfer, Amount: dec("685.5"), Category: "Transfer", Description: "To savings", Date: date.New(2024, 2, 3)},
		},
		Categories: []mm.Category{
			{ID: "c1", Name: "Food", Type: mm.Expense, Budget: dec("400"), Color: "#8884d8", Subcategories: []string{"Groceries", "Kid's snacks"}},
			{ID: "c2", Name: "Salary", Type: mm.Income, Budget: decimal.Zero, Color: "#82ca9d", Subcategories: []string{}},
		},
		Goals: []mm.Goal{
			{ID: "g1", Name: "Vacation", Description: "Two weeks, 'somewhere'", TargetAmount: dec("3000"), CurrentAmount: dec("1200"), TargetDate: date.New(2024, 12, 31), Category: "Travel", Priority: mm.High, TrackingMode: mm.Manual},
			{ID: "g2", Name: "Emergency", TargetAmount: dec("10000"), CurrentAmount: dec("5000"), TargetDate: date.New(2025, 6, 30), Category: "Safety", Priority: mm.Medium, TrackingMode: mm.AccountLinked, LinkedAccountID: "sav"},
		},
	}
}

func openBook(t *testing.T, d *mm.Dataset) *mm.Book {
	t.Helper()
	ctx := context.Background()
	b, err := mm.Open(ctx, store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	if d != nil {
		if _, err := b.Merge(ctx, d, mm.ReplaceMode); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := testDataset()

	f, err := Export(want, ExportOptions{Format: JSON, DataType: AllData, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "money-manager-export-2024-02-15.json" || f.MIMEType != "application/json" {
		t.Errorf("Export() = %q %q, want money-manager-export-2024-02-15.json application/json", f.Name, f.MIMEType)
	}
	for _, s := range []string{`"exportDate": "2024-02-15T10:30:00.000Z"`, `"version": "1.0"`} {
		if !bytes.Contains(f.Content, []byte(s)) {
			t.Errorf("JSON export does not contain %s", s)
		}
	}

	parsed, err := Parse(ctx, f.Name, f.Content, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b := openBook(t, testDataset())
	b.AddAccount(ctx, mm.Account{Name: "Noise", Type: mm.Savings})
	if _, err := b.Merge(ctx, parsed, mm.ReplaceMode); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, b.Dataset()); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	want := testDataset()

	f, err := Export(want, ExportOptions{Format: SQL, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	content := string(f.Content)
	for _, s := range []string{
		"CREATE TABLE IF NOT EXISTS accounts (",
		"INSERT INTO accounts VALUES ('chk', 'Main Checking', 'checking', 1914.5, 'O''Neil Bank', '');",
		"INSERT INTO transactions VALUES ('t1', 'chk', 'income', 2600, 'Salary', 'Regular Pay', 'Monthly salary', '2024-01-31', NULL);",
		`INSERT INTO categories VALUES ('c1', 'Food', 'expense', 400, '#8884d8', '["Groceries","Kid''s snacks"]');`,
		"INSERT INTO export_metadata VALUES ('2024-02-15T10:30:00.000Z', '1.0', 'all', 10);",
	} {
		if !strings.Contains(content, s) {
			t.Errorf("SQL export does not contain %s", s)
		}
	}

	got, err := Parse(ctx, f.Name, f.Content, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SQL round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLRoundTrip_LineBreaks(t *testing.T) {
	want := testDataset()
	want.Transactions[0].Description = "line1\nline2\r\nO'Brien \\ co"
	want.Goals[0].Description = "\n"

	f, err := Export(want, ExportOptions{Format: SQL, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(f.Content), `E'line1\nline2\r\nO''Brien \\ co'`) {
		t.Errorf("SQL export does not escape the line breaks:\n%s", f.Content)
	}
	got, err := Parse(context.Background(), f.Name, f.Content, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SQL round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSQL_SkipsMalformedLines(t *testing.T) {
	dump := strings.Join([]string{
		"-- comment",
		"INSERT INTO transactions VALUES ('a', 'chk', 'income', 10, 'Salary', '', 'ok', '2024-01-01');",
		"INSERT INTO transactions VALUES ('b', 'chk', 'income', 10, 'Salary', '', 'unterminated, '2024-01-01');",
		"INSERT INTO transactions VALUES ('c', 'chk', 'income', 10);",
		"INSERT INTO transactions VALUES ('d', 'chk', 'income', 'ten', 'Salary', '', 'bad amount', '2024-01-01');",
		"INSERT INTO unknown VALUES ('e');",
		"insert into categories values ('f', 'Misc', 'expense', 0, '#fff', 'not json');",
		"INSERT INTO goals VALUES ('g', 'Car', '', 5000, 0, '2026-01-01', 'Car', 'Low', NULL, 'manual'), ('h', 'Bike', '', 500, 0, '2026-01-01', 'Bike', 'Low', NULL, 'manual');",
	}, "\n")
	d, err := ParseSQL(context.Background(), []byte(dump))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Transactions) != 1 || d.Transactions[0].ID != "a" {
		t.Errorf("transactions = %+v, want only 'a'", d.Transactions)
	}
	if len(d.Categories) != 1 || len(d.Categories[0].Subcategories) != 0 {
		t.Errorf("categories = %+v, want 'f' with no subcategories", d.Categories)
	}
	if len(d.Goals) != 2 {
		t.Errorf("goals = %d, want 2", len(d.Goals))
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in      string
		want    []value
		wantErr bool
	}{
		{in: "'a', 'b')", want: []value{{text: "a"}, {text: "b"}}},
		{in: "'it''s', 12.5, NULL)", want: []value{{text: "it's"}, {text: "12.5"}, {text: "NULL", null: true}}},
		{in: "'a,b', '(x)')", want: []value{{text: "a,b"}, {text: "(x)"}}},
		{in: "'', null)", want: []value{{text: ""}, {text: "null", null: true}}},
		{in: `E'line1\nline2', e'it''s \\ \r\t')`, want: []value{{text: "line1\nline2"}, {text: "it's \\ \r\t"}}},
		{in: `X'00')`, wantErr: true},
		{in: "'open)", wantErr: true},
		{in: "'a' 'b')", wantErr: true},
		{in: "'a', 'b'", wantErr: true},
	}
	for _, tt := range tests {
		got, _, err := tokenize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("tokenize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(value{})); diff != "" {
			t.Errorf("tokenize(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseCSV(t *testing.T) {
	accounts := []mm.Account{
		{ID: "chk", Name: "Main Checking", Type: mm.Checking},
		{ID: "cc", Name: "Visa", Type: mm.Credit},
	}
	csv := strings.Join([]string{
		"Date,Description,Category,Amount,Account",
		"2024-01-15,Grocery shopping,Food,-42.50,visa",
		"2024-01-15,Monthly salary,,42.50,",
		"2024-01-16,Too,many,fields,1,2",
		"2024-01-17,,Food,-3,Visa",
		"someday,Unknown date,Food,-3,Visa",
		"01/18/2024,\"Coffee, large\",Food,\"$1,004.25\",cc",
	}, "\n")
	d, err := ParseCSV(context.Background(), []byte(csv), Options{Accounts: accounts})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Transactions) != 3 {
		t.Fatalf("ParseCSV() = %d transactions, want 3: %+v", len(d.Transactions), d.Transactions)
	}
	tests := []struct {
		typ      mm.TransactionType
		amount   string
		account  string
		category string
		on       date.Date
	}{
		{mm.Expense, "42.5", "cc", "Food", date.New(2024, 1, 15)},
		{mm.Income, "42.5", "chk", "Other", date.New(2024, 1, 15)},
		{mm.Income, "1004.25", "cc", "Food", date.New(2024, 1, 18)},
	}
	for i, tt := range tests {
		got := d.Transactions[i]
		if got.Type != tt.typ || !got.Amount.Equal(dec(tt.amount)) || got.AccountID != tt.account || got.Category != tt.category || !got.Date.Equal(tt.on) {
			t.Errorf("transaction %d = %+v, want %s %s on %s in %s at %s", i, got, tt.typ, tt.amount, tt.account, tt.category, tt.on)
		}
		if got.ID == "" || got.Subcategory != "" {
			t.Errorf("transaction %d = %+v, want an id and no subcategory", i, got)
		}
	}
	if got := d.Transactions[2].Description; got != "Coffee, large" {
		t.Errorf("quoted description = %q, want %q", got, "Coffee, large")
	}
}

func TestParseCSV_SkipsMalformedRow(t *testing.T) {
	csv := "date,description,amount\n2024-03-01,Lunch,-12\n2024-03-02,Broken,-1,extra\n"
	d, err := Parse(context.Background(), "bank.CSV", []byte(csv), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Transactions) != 1 {
		t.Errorf("Parse() = %d transactions, want 1", len(d.Transactions))
	}
	if got := d.Transactions[0].AccountID; got != DefaultAccountID {
		t.Errorf("account = %q, want %q", got, DefaultAccountID)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-42.50", "-42.5"},
		{"+12", "12"},
		{"$1,004.25", "1004.25"},
		{"1 234.00", "1234"},
		{"€ 7.5", "7.5"},
		{"(15.00)", "-15"},
		{"-$3", "-3"},
		{".5", "0.5"},
		{"1'000", "1000"},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if err != nil {
			t.Errorf("parseAmount(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(dec(tt.want)) {
			t.Errorf("parseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
	for _, in := range []string{"1e3", "12abc34", "USD 5", "1.2.3", "12-3", "--4", "(-4)", "(", "", "$"} {
		if got, err := parseAmount(in); err == nil {
			t.Errorf("parseAmount(%q) = %s, want an error", in, got)
		}
	}
}

func TestParseCSV_SkipsInvalidAmount(t *testing.T) {
	csv := "date,description,amount\n2024-03-01,Lunch,-12\n2024-03-02,Typo,12abc34\n2024-03-03,Exponent,1e3\n"
	d, err := ParseCSV(context.Background(), []byte(csv), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Transactions) != 1 || !d.Transactions[0].Amount.Equal(dec("12")) {
		t.Errorf("ParseCSV() = %+v, want only the 12.00 lunch", d.Transactions)
	}
}

func TestParseCSV_TypeColumn(t *testing.T) {
	csv := "Date,Description,Amount,Type\n2024-03-01,Refund,12,Expense\n2024-03-01,Gift,12,income\n"
	d, err := ParseCSV(context.Background(), []byte(csv), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Transactions[0].Type != mm.Expense || d.Transactions[1].Type != mm.Income {
		t.Errorf("types = %s, %s, want expense, income", d.Transactions[0].Type, d.Transactions[1].Type)
	}
}

func TestParse_Errors(t *testing.T) {
	ctx := context.Background()
	b := openBook(t, testDataset())
	before := b.Dataset()

	tests := []struct {
		name    string
		file    string
		content string
		noData  bool
	}{
		{name: "header only", file: "x.csv", content: "Date,Description,Amount\n"},
		{name: "all rows invalid", file: "x.csv", content: "Date,Description,Amount\n2024-01-01,,1\n", noData: true},
		{name: "no required column", file: "x.csv", content: "Date,Amount\n2024-01-01,1\n"},
		{name: "unsupported", file: "x.xlsx", content: "whatever"},
		{name: "empty json", file: "x.json", content: `{"transactions": []}`, noData: true},
		{name: "invalid json", file: "x.json", content: `{"transactions": [`},
		{name: "scalar json", file: "x.json", content: `42`},
		{name: "empty sql", file: "x.sql", content: "-- nothing\n", noData: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(ctx, tt.file, []byte(tt.content), Options{})
			if !errors.Is(err, mm.ErrValidation) {
				t.Fatalf("Parse() = %v, %v, want a validation error", d, err)
			}
			var noData *NoDataError
			if got := errors.As(err, &noData); got != tt.noData {
				t.Errorf("Parse() error = %v, NoDataError %v, want %v", err, got, tt.noData)
			}
		})
	}
	if diff := cmp.Diff(before, b.Dataset()); diff != "" {
		t.Errorf("failed imports changed the book (-want +got):\n%s", diff)
	}
	if got := (&NoDataError{Ext: ".csv"}).Error(); got != "no valid data found in .csv file" {
		t.Errorf("NoDataError = %q", got)
	}
}

func TestParseJSON(t *testing.T) {
	ctx := context.Background()
	payload := `{
		"accounts": [{"name": "No id", "type": "Savings", "balance": "10.10"}, {"id": "bad", "name": "Bad", "type": "piggy"}],
		"transactions": [
			{"id": "t1", "accountId": "a", "type": "EXPENSE", "amount": 0.1, "category": "Food", "date": "2024-01-02"},
			{"id": "t2", "accountId": "a", "type": "income", "amount": -5, "date": "2024-01-02"},
			"not an object"
		],
		"categories": {"not": "an array"},
		"goals": [{"id": "g", "name": "Old goal", "targetAmount": 100, "currentAmount": 10, "deadline": "2025-01-01", "trackedAccountId": "a"}]
	}`
	d, err := ParseJSON(ctx, []byte(payload), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Accounts) != 1 || d.Accounts[0].ID == "" || d.Accounts[0].Type != mm.Savings || !d.Accounts[0].Balance.Equal(dec("10.1")) {
		t.Errorf("accounts = %+v, want one savings account with a new id", d.Accounts)
	}
	if len(d.Transactions) != 1 || d.Transactions[0].Type != mm.Expense || !d.Transactions[0].Amount.Equal(dec("0.1")) {
		t.Errorf("transactions = %+v, want t1 as an expense of 0.1", d.Transactions)
	}
	if len(d.Categories) != 0 {
		t.Errorf("categories = %+v, want none", d.Categories)
	}
	want := mm.Goal{ID: "g", Name: "Old goal", TargetAmount: dec("100"), CurrentAmount: dec("10"), TargetDate: date.New(2025, 1, 1), Priority: mm.Medium, TrackingMode: mm.AccountLinked, LinkedAccountID: "a"}
	if len(d.Goals) != 1 {
		t.Fatalf("goals = %+v, want one", d.Goals)
	}
	if diff := cmp.Diff(want, d.Goals[0]); diff != "" {
		t.Errorf("legacy goal mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_ArrayAndPath(t *testing.T) {
	ctx := context.Background()
	tx := `{"id": "t", "accountId": "a", "type": "income", "amount": 1, "date": "2024-01-02"}`

	d, err := ParseJSON(ctx, []byte("["+tx+"]"), Options{})
	if err != nil || len(d.Transactions) != 1 {
		t.Errorf("ParseJSON(array) = %+v, %v, want one transaction", d, err)
	}

	accounts := `[{"id": "a", "name": "A", "type": "checking", "balance": 1}]`
	d, err = ParseJSON(ctx, []byte(accounts), Options{ArrayOf: mm.AccountsCollection})
	if err != nil || len(d.Accounts) != 1 || len(d.Transactions) != 0 {
		t.Errorf("ParseJSON(accounts array) = %+v, %v, want one account", d, err)
	}

	nested := `{"data": {"items": [` + tx + `]}}`
	d, err = ParseJSON(ctx, []byte(nested), Options{TransactionsPath: "$.data.items"})
	if err != nil || len(d.Transactions) != 1 {
		t.Errorf("ParseJSON(nested) = %+v, %v, want one transaction", d, err)
	}
}

func TestExport_DateRangeBoundary(t *testing.T) {
	d := &mm.Dataset{Transactions: []mm.Transaction{
		{ID: "jan", AccountID: "a", Type: mm.Expense, Amount: dec("1"), Description: "january", Date: date.New(2024, 1, 31)},
		{ID: "feb", AccountID: "a", Type: mm.Expense, Amount: dec("1"), Description: "february", Date: date.New(2024, 2, 1)},
	}}
	f, err := Export(d, ExportOptions{Format: CSV, DataType: TransactionsData, Since: date.CurrentMonth, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	want := "\"Date\",\"Description\",\"Category\",\"Subcategory\",\"Amount\",\"Type\",\"Account\"\n" +
		"2024-02-01,\"february\",\"\",\"\",-1.00,\"expense\",\"a\"\n"
	if got := string(f.Content); got != want {
		t.Errorf("Export() =\n%s\nwant\n%s", got, want)
	}
	if f.Name != "money-manager-export-2024-02-15-transactions.csv" {
		t.Errorf("Export() name = %q", f.Name)
	}
}

func TestExport_CSVReimport(t *testing.T) {
	ctx := context.Background()
	d := testDataset()
	f, err := Export(d, ExportOptions{Format: CSV, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(ctx, f.Name, f.Content, Options{Accounts: d.Accounts})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Transactions) != len(d.Transactions) {
		t.Fatalf("reimported %d transactions, want %d", len(got.Transactions), len(d.Transactions))
	}
	exp := got.Transactions[1]
	if exp.Type != mm.Expense || !exp.Amount.Equal(dec("85.5")) || exp.AccountID != "cc" || exp.Description != d.Transactions[1].Description {
		t.Errorf("reimported expense = %+v", exp)
	}
}

func TestExport_Spreadsheet(t *testing.T) {
	f, err := Export(testDataset(), ExportOptions{Format: XLSX, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "money-manager-export-2024-02-15.csv" {
		t.Errorf("name = %q", f.Name)
	}
	content := string(f.Content)
	if !strings.HasPrefix(content, "\uFEFF\"Transactions\"\n") {
		t.Errorf("spreadsheet does not start with a BOM and the transactions title: %q", content[:min(40, len(content))])
	}
	for _, s := range []string{
		`2024-02-01,"Grocery ""weekly"", O'Brien's","Food","Groceries","expense",85.50,"cc","Visa",-85.50`,
		"\n\n\"Accounts\"\n",
		`"Food","expense",400.00,85.50,"#8884d8","Groceries; Kid's snacks"`,
		`"Vacation","Two weeks, 'somewhere'","Travel","High",3000.00,1200.00,40.00,2024-12-31,"in-progress","manual",""`,
	} {
		if !strings.Contains(content, s) {
			t.Errorf("spreadsheet does not contain %s", s)
		}
	}
}

func TestExport_Report(t *testing.T) {
	d := testDataset()
	for i := 0; i < 60; i++ {
		d.Transactions = append(d.Transactions, mm.Transaction{ID: "x", AccountID: "chk", Type: mm.Expense, Amount: dec("1"), Description: "filler", Date: date.New(2024, 2, 2)})
	}
	f, err := Export(d, ExportOptions{Format: PDF, DataType: AllData, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "money-manager-export-2024-02-15.html" || f.MIMEType != "text/html" {
		t.Errorf("Export() = %q %q", f.Name, f.MIMEType)
	}
	content := string(f.Content)
	for _, s := range []string{
		"<title>Money Manager Report</title>",
		"window.print()",
		"<table>",
		"<h2>Transactions</h2>",
		"<h2>Accounts</h2>",
		"<h2>Savings Goals</h2>",
		"Showing the first 50 of 63 transactions.",
		"$6,829.00",
	} {
		if !strings.Contains(content, s) {
			t.Errorf("report does not contain %q", s)
		}
	}
	if n := strings.Count(content, "filler"); n != 47 {
		t.Errorf("report lists %d filler transactions, want 47", n)
	}
}

func TestExport_ReportSummaryCoversAllAccounts(t *testing.T) {
	f, err := Export(testDataset(), ExportOptions{Format: PDF, DataType: TransactionsData, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	content := string(f.Content)
	for _, s := range []string{
		"$6,829.00", // 1914.50 + 5000 - 85.50
		"3 account(s), 3 transaction(s)",
	} {
		if !strings.Contains(content, s) {
			t.Errorf("transactions report summary does not contain %q:\n%s", s, content)
		}
	}
	if strings.Contains(content, "<h2>Accounts</h2>") {
		t.Errorf("transactions report lists the accounts")
	}
}

func TestExport_ReportShowsDescriptionsVerbatim(t *testing.T) {
	d := testDataset()
	d.Transactions[0].Description = "*bonus* <b>paid</b> & co"
	f, err := Export(d, ExportOptions{Format: PDF, DataType: TransactionsData, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	content := string(f.Content)
	if !strings.Contains(content, "*bonus* &lt;b&gt;paid&lt;/b&gt; &amp; co") {
		t.Errorf("report does not show the description as typed:\n%s", content)
	}
	for _, s := range []string{"<em>bonus</em>", "<b>paid</b>", "raw HTML omitted"} {
		if strings.Contains(content, s) {
			t.Errorf("report interprets the description as markup: contains %q", s)
		}
	}
}

func TestExport_SingleTypes(t *testing.T) {
	d := testDataset()
	tests := []struct {
		format   Format
		dataType DataType
		contains string
		absent   string
	}{
		{JSON, AccountsData, `"accountNumber": "****4242"`, `"exportDate"`},
		{CSV, GoalsData, `"g2","Emergency","",10000.00,5000.00,2025-06-30,"Safety","Medium","account","Savings"`, `"Date"`},
		{CSV, CategoriesData, `"c1","Food","expense",400.00,"#8884d8","Groceries; Kid's snacks"`, `"Date"`},
		{SQL, GoalsData, "INSERT INTO export_metadata VALUES ('2024-02-15T10:30:00.000Z', '1.0', 'goals', 2);", "INSERT INTO accounts"},
		{PDF, TransactionsData, "<h2>Transactions</h2>", "<h2>Accounts</h2>"},
	}
	for _, tt := range tests {
		f, err := Export(d, ExportOptions{Format: tt.format, DataType: tt.dataType, Now: now})
		if err != nil {
			t.Errorf("Export(%s, %s) error = %v", tt.format, tt.dataType, err)
			continue
		}
		content := string(f.Content)
		if !strings.Contains(content, tt.contains) {
			t.Errorf("Export(%s, %s) does not contain %s:\n%s", tt.format, tt.dataType, tt.contains, content)
		}
		if strings.Contains(content, tt.absent) {
			t.Errorf("Export(%s, %s) contains %s", tt.format, tt.dataType, tt.absent)
		}
	}
	if _, err := Export(d, ExportOptions{Format: "docx"}); !errors.Is(err, mm.ErrValidation) {
		t.Errorf("Export(docx) error = %v, want ErrValidation", err)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		format   Format
		dataType DataType
		want     string
	}{
		{CSV, AllData, "money-manager-export-2024-02-15.csv"},
		{XLSX, AccountsData, "money-manager-export-2024-02-15-accounts.csv"},
		{SQL, GoalsData, "money-manager-export-2024-02-15-goals.sql"},
		{PDF, AllData, "money-manager-export-2024-02-15.html"},
		{JSON, CategoriesData, "money-manager-export-2024-02-15-categories.json"},
	}
	for _, tt := range tests {
		if got := Filename(now, tt.format, tt.dataType); got != tt.want {
			t.Errorf("Filename(%s, %s) = %q, want %q", tt.format, tt.dataType, got, tt.want)
		}
	}
}
