package pak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryAsUTF8_PromotesAndCaches(t *testing.T) {
	t.Parallel()

	e := RawEntry([]byte("hello\x00garbage"))
	got, err := e.AsUTF8()
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, KindUTF8, e.Kind())

	again, err := e.AsUTF8()
	require.NoError(t, err)
	assert.Equal(t, "hello", again)

	wire, err := e.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\x00"), wire)
}

func TestEntryAsUTF8_WithoutTerminator(t *testing.T) {
	t.Parallel()

	e := RawEntry([]byte("plain"))
	got, err := e.AsUTF8()
	require.NoError(t, err)
	assert.Equal(t, "plain", got)
}

func TestEntryAsUTF8_InvalidLeavesRaw(t *testing.T) {
	t.Parallel()

	e := RawEntry([]byte{0xff, 0xfe, 0x00})
	_, err := e.AsUTF8()
	require.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Equal(t, KindRaw, e.Kind())

	wire, err := e.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 0x00}, wire)
}

func TestEntryAsUTF16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{name: "ascii", data: []byte{0xff, 0xfe, 'h', 0, 'i', 0, 0, 0}, want: "hi"},
		{name: "stops at zero unit", data: []byte{0xff, 0xfe, 'a', 0, 0, 0, 'b', 0}, want: "a"},
		{name: "no terminator", data: []byte{0xff, 0xfe, 'a', 0}, want: "a"},
		{name: "surrogate pair", data: []byte{0xff, 0xfe, 0x3d, 0xd8, 0x00, 0xde, 0, 0}, want: "\U0001F600"},
		{name: "bom only", data: []byte{0xff, 0xfe}, want: ""},
		{name: "missing bom", data: []byte{'h', 0, 0, 0}, wantErr: ErrInvalidUTF16},
		{name: "big endian bom", data: []byte{0xfe, 0xff, 0, 'h', 0, 0}, wantErr: ErrInvalidUTF16},
		{name: "lone high surrogate", data: []byte{0xff, 0xfe, 0x3d, 0xd8, 'a', 0, 0, 0}, wantErr: ErrInvalidUTF16},
		{name: "lone low surrogate", data: []byte{0xff, 0xfe, 0x00, 0xde, 0, 0}, wantErr: ErrInvalidUTF16},
		{name: "odd trailing byte", data: []byte{0xff, 0xfe, 'a'}, wantErr: ErrInvalidUTF16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := RawEntry(tt.data)
			got, err := e.AsUTF16()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, KindRaw, e.Kind())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, KindUTF16, e.Kind())
		})
	}
}

func TestEntryUTF16_EncodeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "plain", "Ünïcödé", "\U0001F600 smile"} {
		e := UTF16Entry(text)
		wire, err := e.Bytes()
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(wire), 4)
		assert.Equal(t, []byte{0xff, 0xfe}, wire[:2])
		assert.Equal(t, []byte{0, 0}, wire[len(wire)-2:])

		raw := RawEntry(wire)
		got, err := raw.AsUTF16()
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestEntryAsPak_PromotesOnce(t *testing.T) {
	t.Parallel()

	innerWire, err := New(RawEntry([]byte("xy"))).Encode()
	require.NoError(t, err)

	e := RawEntry(innerWire)
	sub, err := e.AsPak()
	require.NoError(t, err)
	assert.Equal(t, KindPak, e.Kind())
	assert.Equal(t, 1, sub.Len())

	again, err := e.AsPak()
	require.NoError(t, err)
	assert.Same(t, sub, again)
}

func TestEntryAsPak_InvalidLeavesRaw(t *testing.T) {
	t.Parallel()

	e := RawEntry([]byte{9, 0, 0, 0})
	_, err := e.AsPak()
	require.ErrorIs(t, err, ErrInvalidOffsetTable)
	assert.Equal(t, KindRaw, e.Kind())
}

func TestEntry_KindMismatch(t *testing.T) {
	t.Parallel()

	text := UTF8Entry("x")
	_, err := text.AsPak()
	require.ErrorIs(t, err, ErrKindMismatch)

	_, err = text.AsUTF16()
	require.ErrorIs(t, err, ErrKindMismatch)

	nested := PakEntry(New())
	_, err = nested.AsUTF8()
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestEntry_SetReplacesAnyKind(t *testing.T) {
	t.Parallel()

	e := PakEntry(New(RawEntry([]byte("a"))))
	e.SetUTF8("now text")
	assert.Equal(t, KindUTF8, e.Kind())

	e.SetData([]byte("raw"))
	assert.Equal(t, KindRaw, e.Kind())

	got, err := e.AsUTF8()
	require.NoError(t, err)
	assert.Equal(t, "raw", got)

	e.SetUTF16("wide")
	assert.Equal(t, KindUTF16, e.Kind())

	e.SetPak(nil)
	assert.Equal(t, KindPak, e.Kind())

	wire, err := e.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, wire)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "raw", KindRaw.String())
	assert.Equal(t, "pak", KindPak.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
