package ese

import (
	"encoding/binary"
	"testing"
)

const testPageSize = 4096

func packLeafPage(pageNumber uint32, records [][]byte) []byte {
	page := make([]byte, testPageSize)
	le := binary.LittleEndian
	le.PutUint32(page[0:], pageNumber)
	le.PutUint32(page[20:], flagLeaf)

	// tag 0: empty page-key entry, placed right after the header.
	all := append([][]byte{{}}, records...)
	le.PutUint16(page[24:], uint16(len(all)))

	dataOff := pageHeaderSize
	for i, rec := range all {
		copy(page[dataOff:], rec)
		end := dataOff + len(rec)
		tagAt := testPageSize - (i+1)*tagEntrySize
		le.PutUint16(page[tagAt:], uint16(dataOff))
		le.PutUint16(page[tagAt+2:], uint16(end))
		dataOff = end
	}
	return page
}

func packRecord(fixed []byte, varCols [][]byte) []byte {
	le := binary.LittleEndian
	out := make([]byte, 2)
	le.PutUint16(out[0:], uint16(len(fixed)))
	out = append(out, fixed...)

	numVar := make([]byte, 2)
	le.PutUint16(numVar, uint16(len(varCols)))
	out = append(out, numVar...)

	offTable := make([]byte, len(varCols)*2)
	var varData []byte
	cum := 0
	for i, v := range varCols {
		cum += len(v)
		le.PutUint16(offTable[i*2:], uint16(cum))
		varData = append(varData, v...)
	}
	out = append(out, offTable...)
	out = append(out, varData...)

	numTagged := make([]byte, 2)
	out = append(out, numTagged...) // 0 tagged columns
	return out
}

func int32LE(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func int16LE(v int16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func buildCatalogRow(objid int32, typ int16, id int32, coltypeOrPgno int32, spaceUsage int32, name string) []byte {
	var fixed []byte
	fixed = append(fixed, int32LE(objid)...)
	fixed = append(fixed, int16LE(typ)...)
	fixed = append(fixed, int32LE(id)...)
	fixed = append(fixed, int32LE(coltypeOrPgno)...)
	fixed = append(fixed, int32LE(spaceUsage)...)
	return packRecord(fixed, [][]byte{[]byte(name)})
}

func buildTestDatabase(t *testing.T) []byte {
	t.Helper()
	const dataTableRootPage = 5
	le := binary.LittleEndian

	header := make([]byte, testPageSize)
	le.PutUint32(header[236:], testPageSize)

	catalogRows := [][]byte{
		buildCatalogRow(1, catalogTable, 100, dataTableRootPage, 0, "TestTable"),
		buildCatalogRow(100, catalogColumn, 1, int32(ColUnsignedLong), 0, "IdType"),
		buildCatalogRow(100, catalogColumn, 2, int32(ColUnsignedLong), 0, "IdIndex"),
		buildCatalogRow(100, catalogColumn, 3, int32(ColBinary), 0, "IdBlob"),
	}
	catalogPage := packLeafPage(catalogRootPage, catalogRows)

	dataFixed := append(append([]byte{}, le32(7)...), le32(42)...)
	dataRow := packRecord(dataFixed, [][]byte{[]byte("hello")})
	dataPage := packLeafPage(dataTableRootPage, [][]byte{dataRow})

	buf := make([]byte, testPageSize*(dataTableRootPage+1))
	copy(buf[0:], header)
	copy(buf[testPageSize*catalogRootPage:], catalogPage)
	copy(buf[testPageSize*dataTableRootPage:], dataPage)
	return buf
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestOpenAndDumpTable(t *testing.T) {
	db, err := Open(buildTestDatabase(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	rows, err := db.DumpTable("TestTable")
	if err != nil {
		t.Fatalf("DumpTable: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	row := rows[0]
	if row["IdType"] != uint32(7) {
		t.Fatalf("IdType = %v, want 7", row["IdType"])
	}
	if row["IdIndex"] != uint32(42) {
		t.Fatalf("IdIndex = %v, want 42", row["IdIndex"])
	}
	blob, ok := row["IdBlob"].([]byte)
	if !ok || string(blob) != "hello" {
		t.Fatalf("IdBlob = %v, want %q", row["IdBlob"], "hello")
	}
}

func TestOpenUnknownTable(t *testing.T) {
	db, err := Open(buildTestDatabase(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.DumpTable("NoSuchTable"); err == nil {
		t.Fatalf("expected error for unknown table")
	}
}
