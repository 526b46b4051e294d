package diff

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	odiff "github.com/r3labs/diff/v3"
)

func GetCustomDiffer() *odiff.Differ {
	ret, err := odiff.NewDiffer(odiff.CustomValueDiffers(&UUIDComparer{}))
	if err != nil {
		panic(err)
	}
	return ret
}

// ChangedFields diffs two values of the same type and returns the dotted
// paths of every field that differs, in changelog order.
func ChangedFields(old, new interface{}) ([]string, error) {
	changelog, err := GetCustomDiffer().Diff(old, new)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(changelog))
	seen := make(map[string]bool, len(changelog))
	for _, change := range changelog {
		path := strings.Join(change.Path, ".")
		if !seen[path] {
			seen[path] = true
			fields = append(fields, path)
		}
	}
	return fields, nil
}

type UUIDComparer struct{}

var (
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// Match reports whether the field pair should be compared as UUIDs.
func (c UUIDComparer) Match(a, b reflect.Value) bool {
	aok := a.Kind() == uuidType.Kind() && a.Type() == uuidType
	bok := b.Kind() == uuidType.Kind() && b.Type() == uuidType
	return (aok && bok) || (a.Kind() == reflect.Invalid && bok) || (b.Kind() == reflect.Invalid && aok)
}

// Diff compares two UUID values as a whole rather than descending into the
// underlying byte array.
func (c UUIDComparer) Diff(_ odiff.DiffType, _ odiff.DiffFunc, cl *odiff.Changelog, path []string, a reflect.Value, b reflect.Value, _ interface{}) error {
	valA := reflect.Indirect(a)
	valB := reflect.Indirect(b)

	// One side nil means the field changed.
	if !valA.IsValid() || !valB.IsValid() {
		if valA.IsValid() != valB.IsValid() {
			cl.Add(odiff.UPDATE, path, a.Interface(), b.Interface())
		}
		return nil
	}

	u1 := valA.Interface().(uuid.UUID)
	u2 := valB.Interface().(uuid.UUID)

	if u1 != u2 {
		cl.Add(odiff.UPDATE, path, u1, u2)
	}
	return nil
}

// InsertParentDiffer is a no-op, uuid is a leaf value.
func (c UUIDComparer) InsertParentDiffer(_ func(path []string, a reflect.Value, b reflect.Value, p interface{}) error) {
}
