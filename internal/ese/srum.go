package ese

import (
	"encoding/base64"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// SruIdEntry is one decoded row from SruDbIdMapTable: a small integer
// id mapped to either a SID, a UTF-16 display name, or an opaque blob.
type SruIdEntry struct {
	ID    uint32
	Type  uint32
	Value string
}

// DecodeSruDbIdMapTable dumps the SruDbIdMapTable and resolves each
// row's IdBlob according to its IdType: 0/1/2 carry a UTF-16 name, 3 a
// SID, anything else an opaque blob reported as base64.
func DecodeSruDbIdMapTable(d *Database) ([]SruIdEntry, error) {
	rows, err := d.DumpTable("SruDbIdMapTable")
	if err != nil {
		return nil, err
	}
	out := make([]SruIdEntry, 0, len(rows))
	for _, row := range rows {
		idType, _ := row["IdType"].(uint32)
		idIndex, _ := row["IdIndex"].(uint32)
		blob, _ := row["IdBlob"].([]byte)

		entry := SruIdEntry{ID: idIndex, Type: idType}
		switch idType {
		case 0, 1, 2:
			entry.Value = primitives.ExtractUTF16String(blob)
		case 3:
			entry.Value = primitives.FormatSID(blob)
		default:
			entry.Value = base64.StdEncoding.EncodeToString(blob)
		}
		out = append(out, entry)
	}
	return out, nil
}
