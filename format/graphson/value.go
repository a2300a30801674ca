package graphson

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/utc-go"

	"github.com/eluv-io/graphson-go/collections/set"
)

// ===== Set ===================================================================

// Set is an unordered collection of values without duplicates. Duplicates are determined with Equal. The iteration
// order of Elements is the insertion order, but it has no meaning for equality of sets.
type Set struct {
	elems *set.UniqueSet[interface{}]
}

// NewSet creates a set with the given elements. Duplicate elements are dropped.
func NewSet(elements ...interface{}) *Set {
	return &Set{elems: set.NewUniqueSet[interface{}](Equal, elements...)}
}

func (s *Set) unique() *set.UniqueSet[interface{}] {
	if s.elems == nil {
		s.elems = set.NewUniqueSet[interface{}](Equal)
	}
	return s.elems
}

// Add adds the given elements to the set and returns true if at least one of them was not yet contained.
func (s *Set) Add(elements ...interface{}) bool {
	return s.unique().Insert(elements...) > 0
}

// Contains returns true if the set contains an element equal to the given one.
func (s *Set) Contains(elem interface{}) bool {
	return s.unique().Contains(elem)
}

// Len returns the number of elements.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.unique().Size()
}

// Elements returns a copy of the set's elements.
func (s *Set) Elements() []interface{} {
	if s == nil {
		return nil
	}
	return s.unique().Elements()
}

func (s *Set) String() string {
	return "set" + fmt.Sprint(s.Elements())
}

// ===== Map ===================================================================

// MapEntry is a key-value pair of a Map.
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

// Map is an insertion-ordered mapping. Keys are arbitrary values compared with Equal - they are not restricted to
// strings as in JSON objects.
type Map struct {
	entries []MapEntry
}

// NewMap creates a map from the given alternating keys and values: NewMap("a", 1, "b", 2). Panics if the number of
// arguments is odd.
func NewMap(keyValues ...interface{}) *Map {
	if len(keyValues)%2 != 0 {
		panic("graphson.NewMap: odd number of arguments")
	}
	m := &Map{entries: make([]MapEntry, 0, len(keyValues)/2)}
	for i := 0; i < len(keyValues); i += 2 {
		m.Put(keyValues[i], keyValues[i+1])
	}
	return m
}

// Put associates the value with the given key. If an equal key exists already, its value is replaced and the entry
// keeps its position.
func (m *Map) Put(key, value interface{}) {
	if idx := m.indexOf(key); idx >= 0 {
		m.entries[idx].Value = value
		return
	}
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get returns the value for the given key and true, or nil and false if the key is not present.
func (m *Map) Get(key interface{}) (interface{}, bool) {
	if idx := m.indexOf(key); idx >= 0 {
		return m.entries[idx].Value, true
	}
	return nil, false
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []interface{} {
	keys := make([]interface{}, m.Len())
	for i, e := range m.Entries() {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	cp := make([]MapEntry, len(m.entries))
	copy(cp, m.entries)
	return cp
}

func (m *Map) String() string {
	sb := strings.Builder{}
	sb.WriteString("map[")
	for i, e := range m.Entries() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%v:%v", e.Key, e.Value))
	}
	sb.WriteString("]")
	return sb.String()
}

func (m *Map) indexOf(key interface{}) int {
	for idx, e := range m.entries {
		if Equal(key, e.Key) {
			return idx
		}
	}
	return -1
}

// ===== Traverser =============================================================

// Traverser pairs a value with its bulk: the number of times an equivalent result occurred.
type Traverser struct {
	value interface{}
	bulk  int64
}

// NewTraverser creates a traverser for the given value and bulk.
func NewTraverser(value interface{}, bulk int64) *Traverser {
	return &Traverser{value: value, bulk: bulk}
}

// Get returns the traverser's value.
func (t *Traverser) Get() interface{} {
	return t.value
}

// Bulk returns the traverser's bulk.
func (t *Traverser) Bulk() int64 {
	return t.bulk
}

func (t *Traverser) String() string {
	return fmt.Sprintf("traverser[%v x%d]", t.value, t.bulk)
}

// ===== P =====================================================================

// Predicate operator names.
const (
	OpEq      = "eq"
	OpNeq     = "neq"
	OpLt      = "lt"
	OpLte     = "lte"
	OpGt      = "gt"
	OpGte     = "gte"
	OpInside  = "inside"
	OpOutside = "outside"
	OpBetween = "between"
	OpWithin  = "within"
	OpWithout = "without"
	OpAnd     = "and"
	OpOr      = "or"
)

// P is a predicate: either a named test over an ordered list of arguments, or an "and" / "or" combination of exactly
// two predicates. For combinators, Args holds the two operands as *P.
type P struct {
	Operator string
	Args     []interface{}
}

// NewP creates a leaf predicate.
func NewP(operator string, args ...interface{}) *P {
	return &P{Operator: operator, Args: args}
}

func Eq(v interface{}) *P               { return NewP(OpEq, v) }
func Neq(v interface{}) *P              { return NewP(OpNeq, v) }
func Lt(v interface{}) *P               { return NewP(OpLt, v) }
func Lte(v interface{}) *P              { return NewP(OpLte, v) }
func Gt(v interface{}) *P               { return NewP(OpGt, v) }
func Gte(v interface{}) *P              { return NewP(OpGte, v) }
func Inside(lo, hi interface{}) *P      { return NewP(OpInside, lo, hi) }
func Outside(lo, hi interface{}) *P     { return NewP(OpOutside, lo, hi) }
func Between(lo, hi interface{}) *P     { return NewP(OpBetween, lo, hi) }
func Within(vs ...interface{}) *P       { return NewP(OpWithin, vs...) }
func Without(vs ...interface{}) *P      { return NewP(OpWithout, vs...) }
func And(p1, p2 *P) *P                  { return &P{Operator: OpAnd, Args: []interface{}{p1, p2}} }
func Or(p1, p2 *P) *P                   { return &P{Operator: OpOr, Args: []interface{}{p1, p2}} }
func (p *P) And(other *P) *P            { return And(p, other) }
func (p *P) Or(other *P) *P             { return Or(p, other) }
func (p *P) IsCombinator() bool         { return IsCombinator(p.Operator) }
func IsCombinator(operator string) bool { return operator == OpAnd || operator == OpOr }

func (p *P) String() string {
	if p.IsCombinator() && len(p.Args) == 2 {
		return fmt.Sprintf("%s(%v, %v)", p.Operator, p.Args[0], p.Args[1])
	}
	return fmt.Sprintf("%s%v", p.Operator, p.Args)
}

// ===== Lambda ================================================================

// Arity classifies a lambda by the functional interface it implements.
type Arity string

const (
	ArSupplier   Arity = "supplier"
	ArFunction   Arity = "function"
	ArBiFunction Arity = "bifunction"
	ArConsumer   Arity = "consumer"
)

// Arguments returns the number of arguments a lambda of this arity takes, or -1 for unknown arities.
func (a Arity) Arguments() int {
	switch a {
	case ArSupplier:
		return 0
	case ArFunction, ArConsumer:
		return 1
	case ArBiFunction:
		return 2
	}
	return -1
}

// Validate returns an error if the arity is not one of the known classifiers.
func (a Arity) Validate() error {
	if a.Arguments() < 0 {
		return errors.E("Arity.Validate", errors.K.Invalid, "arity", string(a))
	}
	return nil
}

// arityForArguments maps a GraphSON argument count to the default classifier.
func arityForArguments(n int64) (Arity, bool) {
	switch n {
	case 0:
		return ArSupplier, true
	case 1:
		return ArFunction, true
	case 2:
		return ArBiFunction, true
	}
	return "", false
}

// Lambda is an opaque reference to a function in some scripting language. The script is kept verbatim and never
// evaluated.
type Lambda struct {
	Script   string
	Language string
	Arity    Arity
}

// DefaultLambdaLanguage is the language used by the Lambda constructors.
const DefaultLambdaLanguage = "gremlin-groovy"

func NewLambda(script, language string, arity Arity) *Lambda {
	return &Lambda{Script: script, Language: language, Arity: arity}
}

func Supplier(script string) *Lambda   { return NewLambda(script, DefaultLambdaLanguage, ArSupplier) }
func Function(script string) *Lambda   { return NewLambda(script, DefaultLambdaLanguage, ArFunction) }
func BiFunction(script string) *Lambda { return NewLambda(script, DefaultLambdaLanguage, ArBiFunction) }
func Consumer(script string) *Lambda   { return NewLambda(script, DefaultLambdaLanguage, ArConsumer) }

func (l *Lambda) String() string {
	return fmt.Sprintf("lambda[%s %s %q]", l.Language, l.Arity, l.Script)
}

// ===== Timestamp =============================================================

// Timestamp is a point in time serialized with the Timestamp tag instead of the Date tag used for utc.UTC. Both have
// millisecond precision on the wire.
type Timestamp struct {
	utc.UTC
}

// NewTimestamp wraps the given UTC time.
func NewTimestamp(t utc.UTC) Timestamp {
	return Timestamp{UTC: t}
}

// ===== Equal =================================================================

// Equaler is implemented by extension types that define their own notion of equality.
type Equaler interface {
	Equal(other interface{}) bool
}

// Equal compares two values structurally:
//   - numbers are equal only if they have the same width and value: int32(1) != int64(1). NaN is equal to NaN.
//   - lists are compared element by element, in order
//   - sets and maps are compared regardless of order
//   - traversers, predicates and lambdas are compared field by field
func Equal(a, b interface{}) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || math.IsNaN(x) && math.IsNaN(y))
	case float32:
		y, ok := b.(float32)
		return ok && (x == y || math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	case []interface{}:
		y, ok := b.([]interface{})
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Set:
		y, ok := b.(*Set)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.unique().Equal(y.unique())
	case *Map:
		y, ok := b.(*Map)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if x.Len() != y.Len() {
			return false
		}
		for _, e := range x.entries {
			v, found := y.Get(e.Key)
			if !found || !Equal(e.Value, v) {
				return false
			}
		}
		return true
	case *Traverser:
		y, ok := b.(*Traverser)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.bulk == y.bulk && Equal(x.value, y.value)
	case *P:
		y, ok := b.(*P)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.Operator == y.Operator && Equal(x.Args, y.Args)
	case *Lambda:
		y, ok := b.(*Lambda)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return *x == *y
	case utc.UTC:
		y, ok := b.(utc.UTC)
		return ok && x.Equal(y)
	case Timestamp:
		y, ok := b.(Timestamp)
		return ok && x.UTC.Equal(y.UTC)
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case Equaler:
		return x.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
