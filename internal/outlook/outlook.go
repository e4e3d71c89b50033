package outlook

// Store is an opened OST/PST message store: the resolved header plus
// its two B-trees, ready for folder/message lookup.
type Store struct {
	data []byte
	nbt  []NBTEntry
	bbt  []BBTEntry
}

// Open decodes a store's header and both root B-trees.
func Open(data []byte) (*Store, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	nbt, err := WalkNBT(data, hdr.RootNBT)
	if err != nil {
		return nil, err
	}
	bbt, err := WalkBBT(data, hdr.RootBBT)
	if err != nil {
		return nil, err
	}
	return &Store{data: data, nbt: nbt, bbt: bbt}, nil
}

// Message is one decoded message-class node: its raw node id plus the
// PidTag properties resolved off its Property Context.
type Message struct {
	NID     uint64
	Subject string
	From    string
	Body    string
}

// Messages walks the Node B-tree for every message-type node and
// decodes its Property Context into a Message.
func (s *Store) Messages() ([]Message, error) {
	var out []Message
	for _, n := range s.nbt {
		if nidType(n.NID) != NidTypeMessage {
			continue
		}
		pc, err := s.propertyContextForNode(n)
		if err != nil {
			continue
		}
		out = append(out, Message{
			NID:     n.NID,
			Subject: pc.String(PidTagSubject),
			From:    pc.String(PidTagSenderName),
			Body:    pc.String(PidTagBody),
		})
	}
	return out, nil
}

// Folders walks the Node B-tree for every folder-type node and
// returns its display name.
func (s *Store) Folders() ([]string, error) {
	var out []string
	for _, n := range s.nbt {
		if nidType(n.NID) != NidTypeFolder {
			continue
		}
		pc, err := s.propertyContextForNode(n)
		if err != nil {
			continue
		}
		out = append(out, pc.String(PidTagDisplayName))
	}
	return out, nil
}

func (s *Store) propertyContextForNode(n NBTEntry) (PropertyContext, error) {
	block, err := ResolveBlock(s.data, s.bbt, n.DataBID)
	if err != nil {
		return nil, err
	}
	heap, err := ParseHeap(block)
	if err != nil {
		return nil, err
	}
	return ParsePropertyContext(heap)
}

func nidType(nid uint64) byte {
	return byte(nid & 0x1F)
}
