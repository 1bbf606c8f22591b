package matchkv

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go/jetstream"
)

// ------------------------
// Fake Key Value
// ------------------------

type FakeKeyValue struct {
	jetstream.KeyValue // Embed to satisfy interface
	data               map[string][]byte
	revs               map[string]uint64
	seq                uint64
	trace              []string

	GetFunc func(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
}

func NewFakeKeyValue() *FakeKeyValue {
	return &FakeKeyValue{
		data:  make(map[string][]byte),
		revs:  make(map[string]uint64),
		trace: []string{},
	}
}

func (f *FakeKeyValue) Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	f.trace = append(f.trace, "Get")
	if f.GetFunc != nil {
		return f.GetFunc(ctx, key)
	}
	val, ok := f.data[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &FakeKeyValueEntry{value: val, key: key, revision: f.revs[key]}, nil
}

func (f *FakeKeyValue) Create(ctx context.Context, key string, value []byte, _ ...jetstream.KVCreateOpt) (uint64, error) {
	f.trace = append(f.trace, "Create")
	if _, ok := f.data[key]; ok {
		return 0, jetstream.ErrKeyExists
	}
	return f.put(key, value), nil
}

func (f *FakeKeyValue) Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error) {
	f.trace = append(f.trace, "Update")
	if f.revs[key] != revision {
		return 0, &jetstream.APIError{
			Code:        400,
			ErrorCode:   jetstream.JSErrCodeStreamWrongLastSequence,
			Description: "wrong last sequence",
		}
	}
	return f.put(key, value), nil
}

func (f *FakeKeyValue) put(key string, value []byte) uint64 {
	f.seq++
	f.data[key] = value
	f.revs[key] = f.seq
	return f.seq
}

func (f *FakeKeyValue) Trace() []string { return f.trace }

var errBucketGone = errors.New("bucket not found")

type FakeKeyValueEntry struct {
	jetstream.KeyValueEntry
	value    []byte
	key      string
	revision uint64
}

func (f *FakeKeyValueEntry) Value() []byte    { return f.value }
func (f *FakeKeyValueEntry) Key() string      { return f.key }
func (f *FakeKeyValueEntry) Revision() uint64 { return f.revision }
