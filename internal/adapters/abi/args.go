package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/wighawag/rocketh-go/internal/domain"
)

// ParseArgs converts command line strings into the Go values abi.Pack expects for
// inputs. Arrays are written as JSON, e.g. ["0x01","0x02"] or [1,2].
func ParseArgs(inputs abi.Arguments, raw []string) ([]any, error) {
	if len(raw) != len(inputs) {
		sig := strings.Join(lo.Map(inputs, func(a abi.Argument, _ int) string { return a.Type.String() }), ",")
		return nil, fmt.Errorf("expected %d arguments (%s), got %d", len(inputs), sig, len(raw))
	}

	out := make([]any, len(inputs))
	for i, input := range inputs {
		v, err := ParseValue(input.Type, raw[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseValue converts a single string into a value of type t
func ParseValue(t abi.Type, raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
		}
		return common.HexToAddress(raw), nil
	case abi.BoolTy:
		return strconv.ParseBool(raw)
	case abi.StringTy:
		return raw, nil
	case abi.IntTy, abi.UintTy:
		return parseInteger(t, raw)
	case abi.BytesTy:
		return hexutil.Decode(raw)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(b) > t.Size {
			return nil, fmt.Errorf("%d bytes don't fit in bytes%d", len(b), t.Size)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return parseList(t, raw)
	case abi.TupleTy:
		return parseTuple(t, raw)
	default:
		return nil, fmt.Errorf("type %s can't be given on the command line", t.String())
	}
}

func parseInteger(t abi.Type, raw string) (any, error) {
	n, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", raw)
	}
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for unsigned type", raw)
	}
	if t.T == abi.UintTy && n.BitLen() > t.Size {
		return nil, fmt.Errorf("%s overflows uint%d", raw, t.Size)
	}
	if t.T == abi.IntTy {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s overflows int%d", raw, t.Size)
		}
	}

	goType := t.GetType()
	switch goType.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
	default:
		return n, nil
	}
}

func parseList(t abi.Type, raw string) (any, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("expected a JSON array for %s: %w", t.String(), err)
	}
	if t.T == abi.ArrayTy && len(items) != t.Size {
		return nil, fmt.Errorf("expected %d elements for %s, got %d", t.Size, t.String(), len(items))
	}

	var list reflect.Value
	if t.T == abi.ArrayTy {
		list = reflect.New(t.GetType()).Elem()
	} else {
		list = reflect.MakeSlice(t.GetType(), len(items), len(items))
	}

	for i, item := range items {
		v, err := ParseValue(*t.Elem, jsonItem(item))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		list.Index(i).Set(reflect.ValueOf(v))
	}
	return list.Interface(), nil
}

// parseTuple accepts a JSON array in component order or a JSON object keyed by
// component name.
func parseTuple(t abi.Type, raw string) (any, error) {
	items := make([]json.RawMessage, len(t.TupleElems))

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
			return nil, fmt.Errorf("expected a JSON object for %s: %w", t.String(), err)
		}
		for i, name := range t.TupleRawNames {
			item, ok := fields[name]
			if !ok {
				return nil, fmt.Errorf("missing component %q of %s", name, t.String())
			}
			items[i] = item
		}
		if len(fields) != len(t.TupleRawNames) {
			return nil, fmt.Errorf("expected %d components for %s, got %d", len(t.TupleRawNames), t.String(), len(fields))
		}
	} else {
		var list []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, fmt.Errorf("expected a JSON array or object for %s: %w", t.String(), err)
		}
		if len(list) != len(t.TupleElems) {
			return nil, fmt.Errorf("expected %d components for %s, got %d", len(t.TupleElems), t.String(), len(list))
		}
		copy(items, list)
	}

	tuple := reflect.New(t.GetType()).Elem()
	for i, elem := range t.TupleElems {
		v, err := ParseValue(*elem, jsonItem(items[i]))
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", t.TupleRawNames[i], err)
		}
		tuple.Field(i).Set(reflect.ValueOf(v))
	}
	return tuple.Interface(), nil
}

// jsonItem unquotes JSON strings. Numbers, booleans, arrays and objects are used verbatim.
func jsonItem(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err != nil {
		return string(item)
	}
	return s
}

// Longest suffix first, "gwei" ends with "wei"
var units = []struct {
	suffix   string
	decimals int
}{
	{"ether", 18},
	{"gwei", 9},
	{"eth", 18},
	{"wei", 0},
}

// ParseAmount parses a wei amount with an optional unit suffix: "100", "1.5ether", "20gwei".
func ParseAmount(raw string) (*big.Int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	decimals := 0
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			decimals = u.decimals
			break
		}
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	r.Mul(r, new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q has more precision than wei", raw)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", raw)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FormatValue renders a decoded ABI value for display
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *big.Int:
		return x.String()
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			for i := range b {
				b[i] = byte(rv.Index(i).Uint())
			}
			return hexutil.Encode(b)
		}
		fallthrough
	case reflect.Slice:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = FormatValue(rv.Index(i).Interface())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
