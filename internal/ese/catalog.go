package ese

// catalogRootPage is the fixed page the MSysObjects catalog table's
// root lives at, per the ESE convention every .dat/.edb file follows.
const catalogRootPage = 4

// Catalog object types, a small subset of the catalog's Type column
// values relevant to table/column enumeration.
const (
	catalogTable  = 1
	catalogColumn = 2
)

// catalogColumns describes the catalog table's own fixed record
// layout: every row (table, column, index, long-value) shares this
// shape, discriminated by Type.
var catalogColumns = []ColumnDef{
	{ID: 1, Name: "ObjidTable", Type: ColLong, Fixed: true, Size: 4},
	{ID: 2, Name: "Type", Type: ColShort, Fixed: true, Size: 2},
	{ID: 3, Name: "Id", Type: ColLong, Fixed: true, Size: 4},
	{ID: 4, Name: "ColtypOrPgnoFDP", Type: ColLong, Fixed: true, Size: 4},
	{ID: 5, Name: "SpaceUsage", Type: ColLong, Fixed: true, Size: 4},
	{ID: 6, Name: "Name", Type: ColText, Fixed: false},
}

// Table describes one table's root page and column definitions,
// resolved from the catalog.
type Table struct {
	Name     string
	RootPage uint32
	Columns  []ColumnDef
}

// loadCatalog walks the catalog B-tree once, producing one Table per
// catalog row with Type == Table, keyed by that row's Id, populated
// with every Column row whose ObjidTable equals that Id.
func loadCatalog(r *Reader) (map[string]*Table, error) {
	rows, err := r.WalkLeafRecords(catalogRootPage)
	if err != nil {
		return nil, err
	}

	tablesByObjid := make(map[int32]*Table)
	type columnRow struct {
		objid int32
		col   ColumnDef
	}
	var columnRows []columnRow

	for _, raw := range rows {
		rec, err := DecodeRecord(raw, catalogColumns)
		if err != nil {
			continue
		}
		objid, _ := rec["ObjidTable"].(int32)
		typ, _ := rec["Type"].(int16)

		switch typ {
		case catalogTable:
			name, _ := rec["Name"].(string)
			rootPage, _ := rec["ColtypOrPgnoFDP"].(int32)
			id, _ := rec["Id"].(int32)
			tablesByObjid[id] = &Table{Name: name, RootPage: uint32(rootPage)}
			_ = objid
		case catalogColumn:
			name, _ := rec["Name"].(string)
			coltype, _ := rec["ColtypOrPgnoFDP"].(int32)
			id, _ := rec["Id"].(int32)
			columnRows = append(columnRows, columnRow{
				objid: objid,
				col:   ColumnDef{ID: uint32(id), Name: name, Type: ColumnType(coltype), Fixed: isFixedType(ColumnType(coltype))},
			})
		}
	}

	for _, cr := range columnRows {
		if t, ok := tablesByObjid[cr.objid]; ok {
			cr.col.Size = fixedSizeOf(cr.col.Type)
			t.Columns = append(t.Columns, cr.col)
		}
	}

	byName := make(map[string]*Table, len(tablesByObjid))
	for _, t := range tablesByObjid {
		byName[t.Name] = t
	}
	return byName, nil
}

func isFixedType(t ColumnType) bool {
	switch t {
	case ColText, ColLongText, ColBinary, ColLongBinary, ColSLV:
		return false
	default:
		return true
	}
}

func fixedSizeOf(t ColumnType) int {
	switch t {
	case ColBit, ColUnsignedByte:
		return 1
	case ColShort, ColUnsignedShort:
		return 2
	case ColLong, ColUnsignedLong, ColIEEESingle:
		return 4
	case ColCurrency, ColLongLong, ColDateTime, ColIEEEDouble:
		return 8
	case ColGUID:
		return 16
	default:
		return 0
	}
}
