package ese

import "github.com/puffycid/artemis-core/internal/primitives"

// Database is an opened ESE file with its catalog resolved, ready for
// per-table record dumps.
type Database struct {
	reader  *Reader
	tables  map[string]*Table
}

// Open reads a full database image, decodes its header, and walks the
// catalog to discover every table's root page and columns.
func Open(data []byte) (*Database, error) {
	r, err := NewReader(data)
	if err != nil {
		return nil, err
	}
	tables, err := loadCatalog(r)
	if err != nil {
		return nil, err
	}
	return &Database{reader: r, tables: tables}, nil
}

// TableNames lists every table the catalog declared.
func (d *Database) TableNames() []string {
	out := make([]string, 0, len(d.tables))
	for name := range d.tables {
		out = append(out, name)
	}
	return out
}

// DumpTable walks the named table's leaf pages and decodes every
// record using its catalog-declared columns, in leaf-then-slot order.
func (d *Database) DumpTable(name string) ([]Record, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, &primitives.InputNotPresent{Artifact: "ese.table", Path: name}
	}
	raws, err := d.reader.WalkLeafRecords(t.RootPage)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := DecodeRecord(raw, t.Columns)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
