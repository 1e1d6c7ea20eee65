package abi

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wighawag/rocketh-go/internal/domain"
)

var (
	maxInt256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	minInt256 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
)

func mustType(t *testing.T, name string) abi.Type {
	t.Helper()
	typ, err := abi.NewType(name, "", nil)
	require.NoError(t, err)
	return typ
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		raw      string
		expected any
	}{
		{"address", "address", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")},
		{"bool", "bool", "true", true},
		{"string", "string", "hello world", "hello world"},
		{"uint256 decimal", "uint256", "1000", big.NewInt(1000)},
		{"uint256 hex", "uint256", "0x10", big.NewInt(16)},
		{"int256 negative", "int256", "-5", big.NewInt(-5)},
		{"uint8", "uint8", "255", uint8(255)},
		{"uint64", "uint64", "42", uint64(42)},
		{"int32", "int32", "-7", int32(-7)},
		{"int8 min", "int8", "-128", int8(-128)},
		{"int8 max", "int8", "127", int8(127)},
		{"int256 min", "int256", minInt256.String(), minInt256},
		{"int256 max", "int256", maxInt256.String(), maxInt256},
		{"bytes", "bytes", "0xdeadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"bytes4", "bytes4", "0xdeadbeef", [4]byte{0xde, 0xad, 0xbe, 0xef}},
		{"uint256 slice", "uint256[]", "[1, \"2\"]", []*big.Int{big.NewInt(1), big.NewInt(2)}},
		{"address array", "address[2]", `["0x0000000000000000000000000000000000000001","0x0000000000000000000000000000000000000002"]`,
			[2]common.Address{common.HexToAddress("0x01"), common.HexToAddress("0x02")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(mustType(t, tt.typ), tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		raw  string
	}{
		{"bad address", "address", "0x1234"},
		{"bad bool", "bool", "yes please"},
		{"negative uint", "uint256", "-1"},
		{"uint8 overflow", "uint8", "256"},
		{"int8 overflow", "int8", "128"},
		{"int8 underflow", "int8", "-129"},
		{"int256 underflow", "int256", new(big.Int).Sub(minInt256, big.NewInt(1)).String()},
		{"not a number", "uint256", "ten"},
		{"bytes4 too long", "bytes4", "0x0102030405"},
		{"array length", "uint256[2]", "[1]"},
		{"not json", "uint256[]", "1,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseValue(mustType(t, tt.typ), tt.raw)
			assert.Error(t, err)
		})
	}

	_, err := ParseValue(mustType(t, "address"), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}

func TestParseTuple(t *testing.T) {
	typ, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{
		{Name: "amount", Type: "uint256"},
		{Name: "to", Type: "address"},
		{Name: "ids", Type: "uint8[]"},
	})
	require.NoError(t, err)
	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	for name, raw := range map[string]string{
		"array":  `[1, "0x5FbDB2315678afecb367f032d93F642f64180aa3", [2, 3]]`,
		"object": `{"to": "0x5FbDB2315678afecb367f032d93F642f64180aa3", "amount": "1", "ids": [2, 3]}`,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ParseValue(typ, raw)
			require.NoError(t, err)

			rv := reflect.ValueOf(got)
			require.Equal(t, reflect.Struct, rv.Kind())
			assert.Equal(t, big.NewInt(1), rv.Field(0).Interface())
			assert.Equal(t, to, rv.Field(1).Interface())
			assert.Equal(t, []uint8{2, 3}, rv.Field(2).Interface())

			_, err = abi.Arguments{{Name: "order", Type: typ}}.Pack(got)
			require.NoError(t, err)
		})
	}

	for _, bad := range []string{
		`[1]`,
		`{"amount": 1, "to": "0x5FbDB2315678afecb367f032d93F642f64180aa3"}`,
		`{"amount": 1, "to": "0x5FbDB2315678afecb367f032d93F642f64180aa3", "ids": [], "extra": 1}`,
		`[1, "nope", []]`,
		`1`,
	} {
		_, err := ParseValue(typ, bad)
		assert.Error(t, err, bad)
	}
}

func TestParseArgs(t *testing.T) {
	inputs := abi.Arguments{
		{Name: "owner", Type: mustType(t, "address")},
		{Name: "supply", Type: mustType(t, "uint256")},
	}

	args, err := ParseArgs(inputs, []string{"0x0000000000000000000000000000000000000001", "100"})
	require.NoError(t, err)
	assert.Equal(t, []any{common.HexToAddress("0x01"), big.NewInt(100)}, args)

	// Parsed values pack without further conversion
	_, err = inputs.Pack(args...)
	require.NoError(t, err)

	_, err = ParseArgs(inputs, []string{"0x01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 arguments (address,uint256)")

	_, err = ParseArgs(inputs, []string{"0x0000000000000000000000000000000000000001", "lots"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supply")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"100", "100"},
		{"100wei", "100"},
		{"20gwei", "20000000000"},
		{"1.5ether", "1500000000000000000"},
		{"2 eth", "2000000000000000000"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}

	for _, bad := range []string{"", "abc", "0.5wei", "-1ether"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "42", FormatValue(big.NewInt(42)))
	assert.Equal(t, "0x0000000000000000000000000000000000000001", FormatValue(common.HexToAddress("0x01")))
	assert.Equal(t, "0xdead", FormatValue([]byte{0xde, 0xad}))
	assert.Equal(t, "0xdeadbeef", FormatValue([4]byte{0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, "[1, 2]", FormatValue([]*big.Int{big.NewInt(1), big.NewInt(2)}))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "7", FormatValue(uint8(7)))
	assert.Equal(t, "null", FormatValue(nil))
}
