package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the logical meaning of a column. The physical column is resolved
// from the header at runtime; any role may be absent.
type Role int

const (
	RoleName Role = iota
	RoleSchool
	RoleState
	RoleMunicipality
	RoleCourse
	RoleSex
	RoleDisability
	RoleCertificateLink
)

var roleNames = map[Role]string{
	RoleName:            "NAME",
	RoleSchool:          "SCHOOL",
	RoleState:           "STATE",
	RoleMunicipality:    "MUNICIPALITY",
	RoleCourse:          "COURSE",
	RoleSex:             "SEX",
	RoleDisability:      "DISABILITY_STATUS",
	RoleCertificateLink: "CERTIFICATE_LINK",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// roleHeaders lists, in priority order, the canonical header names that
// carry each role. Headers are compared after CanonicalKey, so accented and
// unaccented spellings both match.
var roleHeaders = map[Role][]string{
	RoleName:            {"NOME", "NOME COMPLETO", "NOME DO ALUNO", "ALUNO"},
	RoleSchool:          {"ESCOLA", "NOME DA ESCOLA"},
	RoleState:           {"ESTADO"},
	RoleMunicipality:    {"MUNICIPIO", "CIDADE"},
	RoleCourse:          {"CURSO"},
	RoleSex:             {"SEXO", "GENERO"},
	RoleDisability:      {"PESSOA COM DEFICIENCIA (PCD)", "PCD"},
	RoleCertificateLink: {"LINK DO CERTIFICADO", "LINK CERTIFICADO", "CERTIFICADO", "LINK"},
}

// Table is a header-normalized view of worksheet rows. Every record has
// exactly one cell per column.
type Table struct {
	columns []string
	index   map[string]int
	roles   map[Role]int
	rows    [][]string
}

// NormalizeHeader uppercases and trims a header cell.
func NormalizeHeader(h string) string {
	return strings.TrimSpace(cases.Upper(language.Und).String(h))
}

// NewTable builds a table from a header and data rows. Columns whose
// normalized name is empty are dropped, and only the first of several
// columns sharing a name is kept. Short rows are padded with empty cells and
// cells beyond the header are ignored.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		index: make(map[string]int, len(header)),
		roles: make(map[Role]int),
	}

	// positions of the kept columns in the source rows
	keep := make([]int, 0, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := t.index[key]; dup {
			continue
		}
		t.index[key] = len(t.columns)
		t.columns = append(t.columns, key)
		keep = append(keep, i)
	}

	t.rows = make([][]string, len(rows))
	for r, row := range rows {
		rec := make([]string, len(keep))
		for c, src := range keep {
			if src < len(row) {
				rec[c] = row[src]
			}
		}
		t.rows[r] = rec
	}

	t.resolveRoles()
	return t
}

// FromGrid builds a table from a raw grid whose first row is the header.
func FromGrid(grid [][]string) *Table {
	if len(grid) == 0 {
		return NewTable(nil, nil)
	}
	return NewTable(grid[0], grid[1:])
}

func (t *Table) resolveRoles() {
	canonical := make(map[string]int, len(t.columns))
	for i, col := range t.columns {
		key := CanonicalKey(col)
		if _, ok := canonical[key]; !ok {
			canonical[key] = i
		}
	}

	for role, names := range roleHeaders {
		for _, name := range names {
			if i, ok := canonical[name]; ok {
				t.roles[role] = i
				break
			}
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Columns returns the normalized column names in header order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column returns the name of the column carrying role.
func (t *Table) Column(role Role) (string, bool) {
	i, ok := t.roles[role]
	if !ok {
		return "", false
	}
	return t.columns[i], true
}

// Value returns the cell of row r in the column carrying role, or "" when
// the role is absent.
func (t *Table) Value(r int, role Role) string {
	i, ok := t.roles[role]
	if !ok {
		return ""
	}
	return t.rows[r][i]
}

// Values returns the whole column carrying role.
func (t *Table) Values(role Role) ([]string, bool) {
	i, ok := t.roles[role]
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out, true
}
