package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/puffycid/artemis-core/internal/primitives"
)

// KeyRecord is one emitted registry key: its hive-relative path, last
// write time, resolved owner SID, and the values stored directly on it.
type KeyRecord struct {
	Path        string
	LastWritten uint64
	SID         string
	Values      []Triple
}

// Walker ties a hive together with the traversal state spec §4.3
// describes: a starting path, an optional name filter, the key_tracker
// recording the path segments on the current branch, and the
// offset_tracker cycle guard shared across the whole walk.
type Walker struct {
	hive          *Hive
	startPath     string
	filter        *regexp.Regexp
	keyTracker    []string
	offsetTracker *primitives.VisitedSet
	sidCache      *primitives.BoundedCache[int32, string]
}

// NewWalker builds a walker rooted at startPath (a "\"-delimited
// hive-relative prefix, "" for the hive root). filter, if non-nil,
// restricts emitted keys to those whose full path matches.
func NewWalker(h *Hive, startPath string, filter *regexp.Regexp) *Walker {
	return &Walker{
		hive:          h,
		startPath:     strings.Trim(startPath, `\`),
		filter:        filter,
		offsetTracker: primitives.NewVisitedSet(),
		sidCache:      primitives.NewBoundedCache[int32, string](256),
	}
}

// Walk descends from the hive root (or the resolved startPath, if one
// was given) and returns every key it can reach, depth first. The
// synthetic hive-root key itself is never emitted as a record; only
// its descendants (or the descendants of startPath) are.
func (w *Walker) Walk() ([]KeyRecord, error) {
	rootOffset := w.hive.RootOffset()
	root, err := w.loadKey(rootOffset)
	if err != nil {
		return nil, err
	}

	startOffset := rootOffset
	startKey := root
	if w.startPath != "" {
		segs := strings.Split(w.startPath, `\`)
		cur := rootOffset
		curKey := root
		for _, seg := range segs {
			next, nk, found, err := w.findChild(curKey, seg)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, &primitives.InputNotPresent{Artifact: "registry", Path: w.startPath}
			}
			cur, curKey = next, nk
		}
		startOffset, startKey = cur, curKey
	}

	var out []KeyRecord
	var walkErr error
	if w.startPath == "" {
		// The hive root itself is synthetic and never emitted; only its
		// descendants are.
		walkErr = w.visitChildren(startOffset, startKey, &out)
	} else {
		walkErr = w.visit(startOffset, startKey, &out)
	}
	if walkErr != nil {
		return out, walkErr
	}
	return out, nil
}

func (w *Walker) loadKey(offset int32) (*NamedKey, error) {
	body, _, err := w.hive.cellAt(offset)
	if err != nil {
		return nil, err
	}
	sig, err := signature(body)
	if err != nil {
		return nil, err
	}
	if sig != "nk" {
		return nil, &primitives.FormatViolation{Artifact: "registry.nk", Kind: "expected nk signature, got " + sig}
	}
	return parseNamedKey(body)
}

func (w *Walker) findChild(parent *NamedKey, name string) (int32, *NamedKey, bool, error) {
	children, err := w.hive.subkeyList(parent.SubkeyListOffset, primitives.NewVisitedSet())
	if err != nil {
		return 0, nil, false, err
	}
	for _, off := range children {
		nk, err := w.loadKey(off)
		if err != nil {
			continue
		}
		if strings.EqualFold(nk.Name, name) {
			return off, nk, true, nil
		}
	}
	return 0, nil, false, nil
}

// visit implements the recursion discipline: on every nk visit check
// the offset tracker first; a repeat aborts this branch without error,
// since the hive graph is not guaranteed acyclic once corrupted.
func (w *Walker) visit(offset int32, nk *NamedKey, out *[]KeyRecord) error {
	if !w.offsetTracker.VisitOnce(int64(offset)) {
		return nil
	}

	w.keyTracker = append(w.keyTracker, nk.Name)
	defer func() { w.keyTracker = w.keyTracker[:len(w.keyTracker)-1] }()

	path := strings.Join(w.keyTracker, `\`)
	if w.filter == nil || w.filter.MatchString(path) {
		rec, err := w.buildRecord(path, nk)
		if err != nil {
			return err
		}
		*out = append(*out, rec)
	}

	return w.visitChildren(offset, nk, out)
}

// visitChildren recurses into every subkey of nk without emitting a
// record for nk itself — used both for the hive root (which has no
// meaningful path of its own) and, recursively, from visit.
func (w *Walker) visitChildren(offset int32, nk *NamedKey, out *[]KeyRecord) error {
	children, err := w.hive.subkeyList(nk.SubkeyListOffset, primitives.NewVisitedSet())
	if err != nil {
		return err
	}
	for _, childOffset := range children {
		childKey, err := w.loadKey(childOffset)
		if err != nil {
			continue // format violation on one child: skip it, keep walking siblings
		}
		if err := w.visit(childOffset, childKey, out); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) buildRecord(path string, nk *NamedKey) (KeyRecord, error) {
	rec := KeyRecord{
		Path:        path,
		LastWritten: nk.LastWritten,
	}

	if nk.SecurityOffset >= 0 {
		rec.SID = w.resolveSID(nk.SecurityOffset)
	}

	if nk.NumValues > 0 && nk.ValueListOffset >= 0 {
		offsets, err := w.hive.valueList(nk.ValueListOffset, int(nk.NumValues))
		if err != nil {
			return rec, err
		}
		rec.Values = make([]Triple, 0, len(offsets))
		for _, voff := range offsets {
			body, _, err := w.hive.cellAt(voff)
			if err != nil {
				continue
			}
			sig, err := signature(body)
			if err != nil || sig != "vk" {
				continue
			}
			vk, err := parseValueKey(body)
			if err != nil {
				continue
			}
			data, err := w.hive.resolveData(vk)
			if err != nil {
				continue // truncated value: skip it, keep the rest of the key
			}
			rec.Values = append(rec.Values, Triple{
				Name: vk.Name,
				Type: vk.DataType,
				Data: DecodeValue(vk.DataType, data),
			})
		}
	}

	return rec, nil
}

func (w *Walker) resolveSID(skOffset int32) string {
	if cached, ok := w.sidCache.Get(skOffset); ok {
		return cached
	}
	body, _, err := w.hive.cellAt(skOffset)
	if err != nil {
		return ""
	}
	sig, err := signature(body)
	if err != nil || sig != "sk" {
		return ""
	}
	sk, err := parseSecurityKey(body)
	if err != nil {
		return ""
	}
	w.sidCache.Put(skOffset, sk.OwnerSID)
	return sk.OwnerSID
}

// String renders a Triple for debugging/logging, naming its REG_* type.
func (t Triple) String() string {
	return fmt.Sprintf("%s (%s) = %v", t.Name, typeName(t.Type), t.Data)
}
