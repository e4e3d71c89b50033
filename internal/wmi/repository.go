package wmi

// Repository ties the three WMI repository files together: the
// mapping file resolves a logical page id to a physical one, the
// index gives (namespace+class hash) -> logical page id, and the
// objects file holds the actual class/instance records at that
// physical page.
type Repository struct {
	mapping *PageMap
	index   []IndexEntry
	objects []byte
}

// NewRepository builds a Repository from the raw bytes of a
// MAPPING*.MAP, INDEX.BTR, and OBJECTS.DATA file.
func NewRepository(mappingBuf, indexBuf, objectsBuf []byte) (*Repository, error) {
	m, err := ParseMappingMap(mappingBuf)
	if err != nil {
		return nil, err
	}
	return &Repository{
		mapping: m,
		index:   ParseIndexLeafPages(indexBuf),
		objects: objectsBuf,
	}, nil
}

// Classes returns every object record in every physical page the
// mapping file knows about.
func (r *Repository) Classes() ([]ObjectRecord, error) {
	var out []ObjectRecord
	for logical := range r.mapping.Pages {
		page, ok := r.physicalPage(uint32(logical))
		if !ok {
			continue
		}
		recs, err := ParseObjectsPage(page)
		if err != nil {
			continue
		}
		out = append(out, recs...)
	}
	return out, nil
}

// Lookup resolves a namespace+class hash through the index to its
// physical page and decodes every object record found there.
func (r *Repository) Lookup(keyHash uint32) ([]ObjectRecord, error) {
	for _, e := range r.index {
		if e.KeyHash != keyHash {
			continue
		}
		page, ok := r.physicalPage(e.PageID)
		if !ok {
			continue
		}
		return ParseObjectsPage(page)
	}
	return nil, nil
}

func (r *Repository) physicalPage(logical uint32) ([]byte, bool) {
	if int(logical) >= len(r.mapping.Pages) {
		return nil, false
	}
	physical := r.mapping.Pages[logical]
	start := int(physical) * wmiPageSize
	end := start + wmiPageSize
	if start < 0 || end > len(r.objects) {
		return nil, false
	}
	return r.objects[start:end], true
}
