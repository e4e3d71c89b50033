package wmi

import (
	"encoding/binary"
	"testing"
)

func utf16z(s string) []byte {
	out := make([]byte, 0, len(s)*2+2)
	for _, r := range s {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(r))
		out = append(out, b...)
	}
	return append(out, 0, 0)
}

func buildObjectRecord(namespace, class string, props map[string]string) []byte {
	var body []byte
	body = append(body, utf16z(namespace)...)
	body = append(body, utf16z(class)...)
	for k, v := range props {
		body = append(body, utf16z(k)...)
		body = append(body, utf16z(v)...)
	}
	body = append(body, 0, 0) // empty-name terminator

	var rec []byte
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(body)))
	rec = append(rec, hdr[:]...)
	rec = append(rec, body...)
	return rec
}

func buildObjectsPage(pageID uint32, records ...[]byte) []byte {
	page := make([]byte, wmiPageSize)
	binary.LittleEndian.PutUint32(page[0:], pageID)
	var used []byte
	for _, r := range records {
		used = append(used, r...)
	}
	binary.LittleEndian.PutUint32(page[4:], uint32(len(used)))
	copy(page[8:], used)
	return page
}

func TestParseObjectsPageDecodesRecord(t *testing.T) {
	rec := buildObjectRecord(`root\cimv2`, "Win32_StartupCommand", map[string]string{
		"Command": "evil.exe",
	})
	page := buildObjectsPage(7, rec)

	got, err := ParseObjectsPage(page)
	if err != nil {
		t.Fatalf("ParseObjectsPage: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	o := got[0]
	if o.PageID != 7 {
		t.Fatalf("PageID = %d, want 7", o.PageID)
	}
	if o.Namespace != `root\cimv2` || o.ClassName != "Win32_StartupCommand" {
		t.Fatalf("unexpected namespace/class: %+v", o)
	}
	if o.Properties["Command"] != "evil.exe" {
		t.Fatalf("Properties[Command] = %q", o.Properties["Command"])
	}
}

func TestRepositoryLookupResolvesThroughMappingAndIndex(t *testing.T) {
	rec := buildObjectRecord(`root\subscription`, "__EventFilter", map[string]string{
		"Name": "Updater",
	})
	page := buildObjectsPage(2, rec) // physical page 2
	objects := make([]byte, 3*wmiPageSize)
	copy(objects[2*wmiPageSize:], page)

	var mapping []byte
	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], 1)
	mapping = append(mapping, count[:]...)
	var phys [4]byte
	binary.LittleEndian.PutUint32(phys[:], 2) // logical page 0 -> physical page 2
	mapping = append(mapping, phys[:]...)

	var index []byte
	var hash, logical [4]byte
	binary.LittleEndian.PutUint32(hash[:], 0xDEADBEEF)
	binary.LittleEndian.PutUint32(logical[:], 0)
	index = append(index, hash[:]...)
	index = append(index, logical[:]...)

	repo, err := NewRepository(mapping, index, objects)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	found, err := repo.Lookup(0xDEADBEEF)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(found) != 1 || found[0].ClassName != "__EventFilter" {
		t.Fatalf("Lookup result = %+v", found)
	}

	all, err := repo.Classes()
	if err != nil {
		t.Fatalf("Classes: %v", err)
	}
	if len(all) != 1 || all[0].Properties["Name"] != "Updater" {
		t.Fatalf("Classes result = %+v", all)
	}
}

func TestParseMappingMapTruncatesOversizedCount(t *testing.T) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, 100)
	m, err := ParseMappingMap(buf)
	if err != nil {
		t.Fatalf("ParseMappingMap: %v", err)
	}
	if len(m.Pages) != 0 {
		t.Fatalf("len(m.Pages) = %d, want 0", len(m.Pages))
	}
}
