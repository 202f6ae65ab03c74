package impexp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	mm "github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/internal/logger"
)

const insertPrefix = "INSERT INTO "

// ParseSQL reads the INSERT statements of an SQL dump.
//
// Only single line "INSERT INTO <table> VALUES (...);" statements of the
// accounts, transactions, categories and goals tables are read. Other lines
// are ignored. Malformed statements and rows are skipped with a warning.
func ParseSQL(ctx context.Context, data []byte) (*mm.Dataset, error) {
	log := logger.FromContext(ctx)
	d := &mm.Dataset{
		Accounts:     []mm.Account{},
		Transactions: []mm.Transaction{},
		Categories:   []mm.Category{},
		Goals:        []mm.Goal{},
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if len(line) < len(insertPrefix) || !strings.EqualFold(line[:len(insertPrefix)], insertPrefix) {
			continue
		}
		name, rows, err := parseInsert(line[len(insertPrefix):])
		if err != nil {
			log.Warn().Err(err).Int("line", lineno).Msg("skipping malformed INSERT statement")
			continue
		}
		for _, row := range rows {
			var err error
			switch strings.ToLower(name) {
			case accountsTable.name:
				err = decodeRow(accountsTable, row, &d.Accounts)
			case transactionsTable.name:
				err = decodeRow(transactionsTable, row, &d.Transactions)
			case categoriesTable.name:
				err = decodeRow(categoriesTable, row, &d.Categories)
			case goalsTable.name:
				err = decodeRow(goalsTable, row, &d.Goals)
			case metadataTable:
				logMetadata(ctx, row)
			default:
				err = fmt.Errorf("unknown table %q", name)
			}
			if err != nil {
				log.Warn().Err(err).Int("line", lineno).Str("table", name).Msg("skipping row")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: cannot read SQL dump: %v", mm.ErrValidation, err)
	}
	return d, nil
}

// decodeRow decodes a row of t and appends it to records.
func decodeRow[T any](t table[T], row []value, records *[]T) error {
	if len(row) < t.required {
		return fmt.Errorf("%d values, want at least %d", len(row), t.required)
	}
	r, err := t.decode(row)
	if err != nil {
		return err
	}
	*records = append(*records, r)
	return nil
}

func logMetadata(ctx context.Context, row []value) {
	r := rowReader{row: row}
	logger.FromContext(ctx).Debug().
		Str("exported", r.str(0)).
		Str("version", r.str(1)).
		Str("data_type", r.str(2)).
		Str("records", r.str(3)).
		Msg("dump metadata")
}

// parseInsert parses `<table> VALUES (...)[, (...)][;]`.
func parseInsert(s string) (name string, rows [][]value, err error) {
	name, rest, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok || name == "" {
		return "", nil, errors.New("missing table name")
	}
	name = strings.Trim(name, "`\"")
	rest = strings.TrimSpace(rest)
	if len(rest) < len("VALUES") || !strings.EqualFold(rest[:len("VALUES")], "VALUES") {
		return "", nil, errors.New("missing VALUES")
	}
	rest = strings.TrimSpace(rest[len("VALUES"):])
	rest = strings.TrimSuffix(rest, ";")

	for {
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "(") {
			return "", nil, fmt.Errorf("expected '(' at %q", rest)
		}
		row, n, err := tokenize(rest[1:])
		if err != nil {
			return "", nil, err
		}
		rows = append(rows, row)
		rest = strings.TrimSpace(rest[1+n:])
		if rest == "" {
			return name, rows, nil
		}
		if rest[0] != ',' {
			return "", nil, fmt.Errorf("unexpected %q after values", rest)
		}
		rest = rest[1:]
	}
}

// tokenize reads comma separated values up to the closing parenthesis.
// Strings are single quoted with embedded quotes doubled. Unquoted values are
// trimmed, NULL is recognized case insensitively. It returns the values and
// the number of bytes consumed, closing parenthesis included.
func tokenize(s string) ([]value, int, error) {
	var (
		values []value
		cur    strings.Builder
		quoted bool // current value was a string literal
	)
	flush := func() {
		if quoted {
			values = append(values, value{text: cur.String()})
		} else {
			text := strings.TrimSpace(cur.String())
			values = append(values, value{text: text, null: strings.EqualFold(text, "NULL")})
		}
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			prefix := strings.TrimSpace(cur.String())
			escaped := strings.EqualFold(prefix, "E")
			if quoted || (prefix != "" && !escaped) {
				return nil, 0, fmt.Errorf("unexpected quote at offset %d", i)
			}
			cur.Reset()
			quoted = true
			j := i + 1
			for {
				if j >= len(s) {
					return nil, 0, errors.New("unterminated string")
				}
				if escaped && s[j] == '\\' && j+1 < len(s) {
					cur.WriteByte(unescape(s[j+1]))
					j += 2
					continue
				}
				if s[j] == '\'' {
					if j+1 < len(s) && s[j+1] == '\'' {
						cur.WriteByte('\'')
						j += 2
						continue
					}
					break
				}
				cur.WriteByte(s[j])
				j++
			}
			i = j
		case ',':
			flush()
		case ')':
			flush()
			return values, i + 1, nil
		default:
			if quoted {
				if c == ' ' || c == '\t' {
					continue
				}
				return nil, 0, fmt.Errorf("unexpected %q after string at offset %d", c, i)
			}
			cur.WriteByte(c)
		}
	}
	return nil, 0, errors.New("missing closing parenthesis")
}

// unescape returns the byte written as a backslash sequence in an escape string.
func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return c
	}
}

func writeSQL(d *mm.Dataset, opts ExportOptions) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Money Manager export\n-- Exported at %s\n-- Data type: %s\n\n", opts.Now.UTC().Format(timestampLayout), opts.DataType)

	count := 0
	if opts.DataType.includes(AccountsData) {
		count += writeTable(&b, accountsTable, d.Accounts)
	}
	if opts.DataType.includes(TransactionsData) {
		count += writeTable(&b, transactionsTable, d.Transactions)
	}
	if opts.DataType.includes(CategoriesData) {
		count += writeTable(&b, categoriesTable, d.Categories)
	}
	if opts.DataType.includes(GoalsData) {
		count += writeTable(&b, goalsTable, d.Goals)
	}

	b.WriteString(createStatement(metadataTable, metadataColumns))
	b.WriteString(insertStatement(metadataTable, []any{opts.Now.UTC().Format(timestampLayout), Version, string(opts.DataType), count}))
	return []byte(b.String())
}

func writeTable[T any](b *strings.Builder, t table[T], records []T) int {
	b.WriteString(t.createStatement())
	for _, r := range records {
		b.WriteString(t.insertStatement(r))
	}
	b.WriteString("\n")
	return len(records)
}
