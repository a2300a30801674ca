package ifutil

import (
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

// IsNil returns true if the given object is nil (== nil) or is a nillable type (channel, function, interface, map,
// pointer or slice) with a nil value.
func IsNil(obj interface{}) bool {
	if obj == nil {
		return true
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return value.IsNil()
	}
	return false
}

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump returns the spew dump of the given object, without pointer addresses so that dumps of equal structures are
// identical.
func Dump(obj interface{}) string {
	return spewConfig.Sdump(obj)
}

// Diff returns the difference of two objects in "unified diff" format. Both objects are converted to text with Dump
// before they are compared. Returns an empty string if the dumps are identical.
func Diff(labelA string, a interface{}, labelB string, b interface{}) string {
	return TextDiff(labelA, Dump(a), labelB, Dump(b))
}

// TextDiff returns the line-by-line difference of two texts in "unified diff" format, or an empty string if the texts
// are identical.
func TextDiff(labelA string, a string, labelB string, b string) string {
	if a == b {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: labelA,
		ToFile:   labelB,
		Context:  1,
	})
	return diff
}
