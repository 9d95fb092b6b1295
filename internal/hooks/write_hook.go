package hooks

import (
	"fmt"
	"reflect"

	"github.com/agencypack/blog-backend/internal/service"
	"gorm.io/gorm"
)

// RegisterWriteHook wires the invalidation service into the persistence
// layer: after every insert or update of a tracked record the
// corresponding cache tag is flushed. The persistence layer has already
// assigned primary keys by the time the callbacks run, so freshly
// created records carry their real identity.
func RegisterWriteHook(db *gorm.DB, inv service.InvalidationService) error {
	hook := &writeHook{inv: inv}

	if err := db.Callback().Create().After("gorm:create").Register("blog:invalidate_create", hook.afterWrite); err != nil {
		return fmt.Errorf("register create hook: %w", err)
	}
	if err := db.Callback().Update().After("gorm:update").Register("blog:invalidate_update", hook.afterWrite); err != nil {
		return fmt.Errorf("register update hook: %w", err)
	}
	return nil
}

type writeHook struct {
	inv service.InvalidationService
}

func (h *writeHook) afterWrite(tx *gorm.DB) {
	if tx.Error != nil || tx.Statement.Schema == nil {
		return
	}
	// Writes performed by the invalidation service itself are marked;
	// re-entering would loop on the posts table
	if _, skip := tx.Get(service.SkipInvalidation); skip {
		return
	}

	table := tx.Statement.Table
	for _, id := range recordIDs(tx) {
		if err := h.inv.OnMutation(tx.Statement.Context, table, id); err != nil {
			_ = tx.AddError(err)
			return
		}
	}
}

// recordIDs extracts the primary keys of the written record(s)
func recordIDs(tx *gorm.DB) []uint64 {
	field := tx.Statement.Schema.PrioritizedPrimaryField
	if field == nil {
		return nil
	}

	var ids []uint64
	appendID := func(rv reflect.Value) {
		v, zero := field.ValueOf(tx.Statement.Context, rv)
		if zero {
			return
		}
		if id, ok := toUint64(v); ok {
			ids = append(ids, id)
		}
	}

	rv := tx.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			appendID(rv.Index(i))
		}
	case reflect.Struct:
		appendID(rv)
	}
	return ids
}

func toUint64(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}
