package names

import "fmt"

// Lookup reads name records.
type Lookup interface {
	NameRecord(key Key) (string, bool)
}

// Table is a name table which can be edited.
type Table interface {
	Lookup
	SetNameRecord(key Key, value string) error
	RemoveNameRecord(key Key) error
}

// OpKind is the kind of a name table edit.
type OpKind int

const (
	OpSet    OpKind = iota // create or overwrite a record
	OpRemove               // delete a record
)

func (k OpKind) String() string {
	if k == OpRemove {
		return "remove"
	}
	return "set"
}

// Op is a single name table edit.
type Op struct {
	Kind  OpKind
	Key   Key
	Value string // for OpSet
}

func (op Op) String() string {
	if op.Kind == OpRemove {
		return fmt.Sprintf("remove %s", op.Key)
	}
	return fmt.Sprintf("set %s = %q", op.Key, op.Value)
}

// Plan computes the edits required to bring t in line with entries.
// Edits are ordered by name ID, mandatory IDs first.
func Plan(entries Entries, t Lookup) []Op {
	ops := make([]Op, 0, len(Mandatory)+len(Optional))
	for _, id := range Mandatory {
		// empty mandatory text is written as an empty string
		ops = append(ops, Op{Kind: OpSet, Key: WindowsEnglish(id), Value: entries[id]})
	}
	for _, id := range Optional {
		key := WindowsEnglish(id)
		if text := entries[id]; text != "" {
			ops = append(ops, Op{Kind: OpSet, Key: key, Value: text})
		} else if _, exists := t.NameRecord(key); exists {
			ops = append(ops, Op{Kind: OpRemove, Key: key})
		}
	}
	return ops
}

// Apply executes ops on t, stopping at the first error.
func Apply(t Table, ops []Op) error {
	for _, op := range ops {
		var err error
		switch op.Kind {
		case OpSet:
			err = t.SetNameRecord(op.Key, op.Value)
		case OpRemove:
			err = t.RemoveNameRecord(op.Key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		tracer().Debugf("name table: %s", op)
	}
	return nil
}

// Edit plans and applies the edits for entries on t. It returns the applied
// edits.
func Edit(t Table, entries Entries) ([]Op, error) {
	if err := entries.Validate(); err != nil {
		return nil, err
	}
	ops := Plan(entries, t)
	if err := Apply(t, ops); err != nil {
		return nil, err
	}
	return ops, nil
}
