package vcontext

import "github.com/verifyica-go/verifyica/internal/store"

// StoreView is the Store surface exposed through a Context. Test methods
// are handed an immutable view (the mutating methods panic); before/after
// methods are handed a mutable view backed directly by the underlying
// store.Store.
type StoreView interface {
	Get(key any) (any, bool)
	KeySet() []any
	Size() int
	Put(key, value any)
	ComputeIfAbsent(key any, factory store.Factory) any
	Remove(key any) (any, bool)
}

type mutableStoreView struct {
	s *store.Store
}

func (v mutableStoreView) Get(key any) (any, bool) { return v.s.Get(key) }
func (v mutableStoreView) KeySet() []any            { return v.s.KeySet() }
func (v mutableStoreView) Size() int                { return v.s.Size() }
func (v mutableStoreView) Put(key, value any)       { v.s.Put(key, value) }
func (v mutableStoreView) ComputeIfAbsent(key any, factory store.Factory) any {
	return v.s.ComputeIfAbsent(key, factory)
}
func (v mutableStoreView) Remove(key any) (any, bool) { return v.s.Remove(key) }

type immutableStoreView struct {
	s *store.Store
}

func (v immutableStoreView) Get(key any) (any, bool) { return v.s.Get(key) }
func (v immutableStoreView) KeySet() []any            { return v.s.KeySet() }
func (v immutableStoreView) Size() int                { return v.s.Size() }

func (v immutableStoreView) Put(key, value any) {
	panic("vcontext: store is immutable in this context")
}

func (v immutableStoreView) ComputeIfAbsent(key any, factory store.Factory) any {
	panic("vcontext: store is immutable in this context")
}

func (v immutableStoreView) Remove(key any) (any, bool) {
	panic("vcontext: store is immutable in this context")
}
