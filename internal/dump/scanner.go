package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// DefaultSchema is the schema COPY headers are matched against when
	// Options.Schema is empty.
	DefaultSchema = "public"

	// Terminator ends a COPY block.
	Terminator = `\.`

	// NullSentinel is the field value standing for NULL.
	NullSentinel = `\N`
)

// copyPrefix starts every COPY header line.
const copyPrefix = "COPY "

// readBufferSize is the initial line buffer; longer lines grow it.
const readBufferSize = 64 * 1024

// headerRegex matches `COPY schema.table (col, ...) FROM stdin;`.
// Identifiers may be double-quoted.
var headerRegex = regexp.MustCompile(
	`^COPY\s+("[^"]+"|[^\s".]+)\.("[^"]+"|[^\s"(]+)\s*\((.*?)\)\s+FROM\s+stdin[;.]?\s*$`,
)

// LineKind classifies a dump line.
type LineKind int

const (
	LineOther LineKind = iota
	LineHeader
	LineData
	LineTerminator
	// LineMalformedHeader starts with "COPY " but is not a valid header.
	LineMalformedHeader
)

func (k LineKind) String() string {
	switch k {
	case LineHeader:
		return "header"
	case LineData:
		return "data"
	case LineTerminator:
		return "terminator"
	case LineMalformedHeader:
		return "malformed header"
	default:
		return "other"
	}
}

// Line is a classified dump line. Schema, Table and Columns are set for
// headers only.
type Line struct {
	Kind    LineKind
	Schema  string
	Table   string
	Columns []string
	Text    string
}

// Classify classifies one line (without its trailing newline). inBlock
// tells whether the previous lines opened a COPY block that has not been
// terminated; inside a block every line is data or the terminator.
func Classify(text string, inBlock bool) Line {
	if inBlock {
		if strings.TrimSpace(text) == Terminator {
			return Line{Kind: LineTerminator, Text: text}
		}
		return Line{Kind: LineData, Text: text}
	}

	m := headerRegex.FindStringSubmatch(strings.TrimRight(text, "\r"))
	if m == nil {
		if strings.HasPrefix(text, copyPrefix) {
			return Line{Kind: LineMalformedHeader, Text: text}
		}
		return Line{Kind: LineOther, Text: text}
	}
	return Line{
		Kind:    LineHeader,
		Schema:  unquote(m[1]),
		Table:   unquote(m[2]),
		Columns: parseColumns(m[3]),
		Text:    text,
	}
}

func parseColumns(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, len(parts))
	for i, p := range parts {
		cols[i] = strings.Trim(p, ` "`)
	}
	return cols
}

func unquote(ident string) string {
	if len(ident) >= 2 && ident[0] == '"' && ident[len(ident)-1] == '"' {
		return ident[1 : len(ident)-1]
	}
	return ident
}

// Block is the data of one COPY block.
type Block struct {
	Schema  string
	Table   string
	Columns *ColumnList
	Records []RawRecord

	// RaggedRows counts lines with fewer fields than declared columns.
	RaggedRows int

	// Unterminated is set when the file ended inside the block.
	Unterminated bool
}

// Len returns the number of records in the block.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

func (b *Block) appendLine(text string) {
	fields := strings.Split(text, "\t")
	n := b.Columns.Len()
	if len(fields) < n {
		b.RaggedRows++
		n = len(fields)
	}

	values := make([]pgtype.Text, n)
	for i := 0; i < n; i++ {
		if fields[i] == NullSentinel {
			continue
		}
		values[i] = pgtype.Text{String: fields[i], Valid: true}
	}
	b.Records = append(b.Records, NewRawRecord(b.Columns, values))
}

// Options selects what Scan extracts.
type Options struct {
	// Schema the headers must name. Empty means DefaultSchema.
	Schema string

	// Tables to extract. Empty means every table in the schema.
	Tables []string
}

func (o Options) schema() string {
	if o.Schema == "" {
		return DefaultSchema
	}
	return o.Schema
}

// MalformedHeader is a line outside any block that starts like a COPY
// header but does not parse. The data lines after it are not read.
type MalformedHeader struct {
	Line int // 1-based line number
	Text string
}

// Result is what one pass over a dump found.
type Result struct {
	// Blocks holds the first block of every requested table found.
	Blocks map[string]*Block

	MalformedHeaders []MalformedHeader

	// BytesRead counts the bytes consumed from the reader, including
	// read-ahead past an early stop.
	BytesRead int64
}

// Block returns the block of table, or nil when the dump has none.
func (r *Result) Block(table string) *Block {
	if r == nil {
		return nil
	}
	return r.Blocks[table]
}

// trimEOL removes a trailing "\n" or "\r\n". Other whitespace is data.
func trimEOL(raw string) string {
	raw = strings.TrimSuffix(raw, "\n")
	return strings.TrimSuffix(raw, "\r")
}

// Scan reads the dump once and returns the first COPY block of every
// requested table, keyed by table name. A table with no block in the dump
// has no entry in Result.Blocks; a block with no rows has an entry with
// zero records.
//
// A file ending inside a block is not an error: the block keeps what was
// read and is marked Unterminated. Only read errors are returned.
func Scan(r io.Reader, opts Options) (*Result, error) {
	schema := opts.schema()
	want := make(map[string]bool, len(opts.Tables))
	for _, t := range opts.Tables {
		want[t] = true
	}

	cr := &countingReader{reader: r}
	res := &Result{Blocks: make(map[string]*Block)}
	br := bufio.NewReaderSize(cr, readBufferSize)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}

	var (
		inBlock bool
		cur     *Block // nil while inside a block nobody asked for
		lineNo  int
	)

	for {
		raw, err := br.ReadString('\n')
		if raw != "" {
			lineNo++
			line := Classify(trimEOL(raw), inBlock)

			switch line.Kind {
			case LineHeader:
				inBlock = true
				if line.Schema != schema || res.Blocks[line.Table] != nil {
					break
				}
				if len(want) > 0 && !want[line.Table] {
					break
				}
				cur = &Block{
					Schema:  line.Schema,
					Table:   line.Table,
					Columns: NewColumnList(line.Columns),
				}
				res.Blocks[line.Table] = cur

			case LineMalformedHeader:
				res.MalformedHeaders = append(res.MalformedHeaders, MalformedHeader{Line: lineNo, Text: line.Text})

			case LineTerminator:
				inBlock = false
				if cur != nil {
					cur = nil
					if len(want) > 0 && len(res.Blocks) == len(want) {
						res.BytesRead = cr.n
						return res, nil
					}
				}

			case LineData:
				if cur != nil {
					cur.appendLine(line.Text)
				}
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dump: %w", err)
		}
	}

	if cur != nil {
		cur.Unterminated = true
	}
	res.BytesRead = cr.n
	return res, nil
}

// ScanTable returns the first block for one table, or nil when the dump has
// no block for it.
func ScanTable(r io.Reader, schema, table string) (*Block, error) {
	res, err := Scan(r, Options{Schema: schema, Tables: []string{table}})
	if err != nil {
		return nil, err
	}
	return res.Block(table), nil
}

// ScanFile opens path and scans it. The file is closed before returning.
func ScanFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	return Scan(f, opts)
}
