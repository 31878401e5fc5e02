package tagring_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tagring"
)

func newIndex(t *testing.T, optFns ...tagring.Option) *tagring.Index {
	t.Helper()

	ix, err := tagring.New(optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func ints(ix *tagring.Index) []int64 {
	var out []int64
	for v := range ix.Partition(tagring.KindInt) {
		i, _ := v.AsInt()
		out = append(out, i)
	}
	return out
}

func TestNew_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    []tagring.Option
		wantErr error
	}{
		{"defaults", nil, nil},
		{"node count", []tagring.Option{tagring.WithNodeCount(2)}, nil},
		{"node count too small", []tagring.Option{tagring.WithNodeCount(1)}, tagring.ErrInvalidArgument},
		{"node count too large", []tagring.Option{tagring.WithNodeCount(4096)}, tagring.ErrInvalidArgument},
		{"chunk size", []tagring.Option{tagring.WithArenaChunkSize(8192)}, nil},
		{"zero chunk size", []tagring.Option{tagring.WithArenaChunkSize(0)}, tagring.ErrInvalidArgument},
		{"negative memory limit", []tagring.Option{tagring.WithMemoryLimit(-1)}, tagring.ErrInvalidArgument},
		{"limit below first chunk", []tagring.Option{tagring.WithMemoryLimit(100)}, tagring.ErrAllocationFailure},
		{"nil option", []tagring.Option{nil}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := tagring.New(tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, ix)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, ix.Close())
		})
	}
}

func TestIndex_Scenario(t *testing.T) {
	ix := newIndex(t, tagring.WithNodeCount(2))
	ctx := context.Background()

	for _, v := range []int64{10, 5, 20, 1, 15} {
		require.NoError(t, ix.Insert(ctx, tagring.Int(v)))
	}

	assert.Equal(t, []int64{1, 5, 10, 15, 20}, ints(ix))
	assert.Equal(t, 5, ix.Len())

	st := ix.Stats()
	assert.Equal(t, 5, st.Len)
	assert.Equal(t, 2, st.NodeCount)
	assert.Equal(t, 2, st.Splits)
	require.Len(t, st.Partitions, 3)
	assert.Equal(t, tagring.PartitionStats{Kind: tagring.KindInt, Len: 5, Ranges: []int{2, 2, 1}}, st.Partitions[1])
	assert.Equal(t, []int{0}, st.Partitions[0].Ranges)
	assert.NoError(t, ix.Validate())
}

func TestIndex_MixedKinds(t *testing.T) {
	ix := newIndex(t, tagring.WithNodeCount(3))
	ctx := context.Background()

	values := []tagring.Value{
		tagring.Float(2.5), tagring.String("pear"), tagring.Int(3),
		tagring.String("apple"), tagring.Int(-1), tagring.Float(-0.5),
		tagring.String(""), tagring.Int(3),
	}
	for _, v := range values {
		require.NoError(t, ix.Insert(ctx, v))
	}

	var got []string
	ix.ForEach(func(v tagring.Value) bool {
		got = append(got, v.Kind().String()+":"+v.String())
		return true
	})
	assert.Equal(t, []string{
		`str:""`, `str:"apple"`, `str:"pear"`,
		"int:-1", "int:3", "int:3",
		"float:-0.5", "float:2.5",
	}, got)

	var buf bytes.Buffer
	require.NoError(t, ix.Dump(&buf))
	assert.Equal(t, "str: \nstr: apple\nstr: pear\nint: -1\nint: 3\nint: 3\nfloat: -0.5\nfloat: 2.5\n", buf.String())
}

func TestIndex_ForEachStops(t *testing.T) {
	ix := newIndex(t)
	ctx := context.Background()
	for i := range 10 {
		require.NoError(t, ix.Insert(ctx, tagring.Int(int64(i))))
	}

	n := 0
	ix.ForEach(func(tagring.Value) bool {
		n++
		return n < 3
	})
	assert.Equal(t, 3, n)
}

func TestIndex_EqualValuesKeepInsertionOrder(t *testing.T) {
	for _, nodeCount := range []int{tagring.DefaultNodeCount, 2} {
		ix := newIndex(t, tagring.WithNodeCount(nodeCount))
		ctx := context.Background()

		want := []bool{true, false, true, false, true, false, true}
		for _, neg := range want {
			v := 0.0
			if neg {
				v = math.Copysign(0, -1)
			}
			require.NoError(t, ix.Insert(ctx, tagring.Float(v)))
		}

		var got []bool
		for v := range ix.Partition(tagring.KindFloat) {
			f, _ := v.AsFloat()
			got = append(got, math.Signbit(f))
		}
		assert.Equal(t, want, got, "node count %d", nodeCount)
		assert.NoError(t, ix.Validate())
	}
}

func TestIndex_ValuesAreCopies(t *testing.T) {
	ix := newIndex(t)

	data := []byte("abc")
	require.NoError(t, ix.Insert(context.Background(), tagring.Raw(tagring.KindString, data)))
	data[0] = 'z'

	for v := range ix.All() {
		b := v.Bytes()
		b[1] = 'z'
	}
	for v := range ix.All() {
		s, _ := v.AsString()
		assert.Equal(t, "abc", s)
	}
}

func TestIndex_InsertRejected(t *testing.T) {
	tests := []struct {
		name    string
		value   tagring.Value
		wantErr error
	}{
		{"null", tagring.Value{}, tagring.ErrInvalidArgument},
		{"unregistered", tagring.Raw(7, []byte("x")), tagring.ErrUnregisteredType},
		{"head", tagring.Raw(15, nil), tagring.ErrUnregisteredType},
		{"out of range kind", tagring.Raw(99, nil), tagring.ErrUnregisteredType},
		{"short int", tagring.Raw(tagring.KindInt, []byte{1}), tagring.ErrInvalidArgument},
		{"oversized string", tagring.Raw(tagring.KindString, make([]byte, tagring.MaxPayloadSize+1)), tagring.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := newIndex(t)
			require.NoError(t, ix.Insert(context.Background(), tagring.Int(1)))

			err := ix.Insert(context.Background(), tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, ix.Len())
			assert.NoError(t, ix.Validate())
		})
	}
}

func TestIndex_PayloadSizeError(t *testing.T) {
	ix := newIndex(t)

	err := ix.Insert(context.Background(), tagring.Raw(tagring.KindFloat, []byte{1, 2}))

	var pe *tagring.ErrPayloadSize
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, tagring.KindFloat, pe.Kind)
	assert.Equal(t, 8, pe.Expected)
	assert.Equal(t, 2, pe.Actual)
}

func TestIndex_MemoryLimit(t *testing.T) {
	ix := newIndex(t,
		tagring.WithArenaChunkSize(4096),
		tagring.WithMemoryLimit(4096+1024),
	)
	ctx := context.Background()

	big := strings.Repeat("a", 4000)
	require.NoError(t, ix.Insert(ctx, tagring.String(big)))
	before := ix.Stats().MemoryUsage

	err := ix.Insert(ctx, tagring.String(big))
	assert.ErrorIs(t, err, tagring.ErrAllocationFailure)
	assert.Equal(t, before, ix.Stats().MemoryUsage)
	assert.Equal(t, 1, ix.Len())
	assert.NoError(t, ix.Validate())

	require.NoError(t, ix.Insert(ctx, tagring.Int(7)))
	assert.Equal(t, int64(4096+1024), ix.Stats().MemoryLimit)
}

func TestIndex_CanceledContext(t *testing.T) {
	ix := newIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ix.Insert(ctx, tagring.Int(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ix.Len())
}

func TestIndex_BatchInsert(t *testing.T) {
	metrics := &tagring.BasicMetricsCollector{}
	ix := newIndex(t, tagring.WithNodeCount(2), tagring.WithMetricsCollector(metrics))

	res := ix.BatchInsert(context.Background(), []tagring.Value{
		tagring.Int(3), tagring.Raw(9, nil), tagring.Int(1), {}, tagring.Int(2),
	})

	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 2, res.Failed())
	assert.NoError(t, res.Errors[0])
	assert.ErrorIs(t, res.Errors[1], tagring.ErrUnregisteredType)
	assert.ErrorIs(t, res.Errors[3], tagring.ErrInvalidArgument)
	assert.Equal(t, []int64{1, 2, 3}, ints(ix))

	st := metrics.GetStats()
	assert.Equal(t, int64(1), st.BatchInsertCount)
	assert.Equal(t, int64(5), st.BatchInsertItems)
	assert.Equal(t, int64(2), st.BatchInsertFailed)
	assert.Equal(t, int64(5), st.InsertCount)
	assert.Equal(t, int64(2), st.InsertErrors)
	assert.Equal(t, int64(1), st.SplitCount)
	assert.Equal(t, int64(2), st.MaxRanges)
}

func TestIndex_BatchInsertCanceled(t *testing.T) {
	ix := newIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := ix.BatchInsert(ctx, []tagring.Value{tagring.Int(1), tagring.Int(2)})
	assert.Zero(t, res.Inserted)
	for _, err := range res.Errors {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestIndex_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := tagring.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ix, err := tagring.New(tagring.WithNodeCount(2), tagring.WithLogger(logger))
	require.NoError(t, err)

	ctx := context.Background()
	for _, v := range []int64{1, 2, 3} {
		require.NoError(t, ix.Insert(ctx, tagring.Int(v)))
	}
	require.Error(t, ix.Insert(ctx, tagring.Raw(4, nil)))
	require.NoError(t, ix.Close())

	out := buf.String()
	assert.Contains(t, out, `msg="insert completed" node_count=2 kind=int size=8`)
	assert.Contains(t, out, `msg="range split" node_count=2 kind=int ranges=2`)
	assert.Contains(t, out, `msg="insert failed"`)
	assert.Contains(t, out, `msg="index closed" node_count=2 values=3`)
}

func TestIndex_Close(t *testing.T) {
	metrics := &tagring.BasicMetricsCollector{}
	ix, err := tagring.New(tagring.WithMemoryLimit(1<<20), tagring.WithMetricsCollector(metrics))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ix.Insert(ctx, tagring.String("x")))
	assert.Positive(t, ix.Stats().MemoryUsage)

	require.NoError(t, ix.Close())
	assert.Zero(t, ix.Stats().MemoryUsage)
	assert.Zero(t, ix.Len())

	assert.ErrorIs(t, ix.Close(), tagring.ErrClosed)
	assert.ErrorIs(t, ix.Insert(ctx, tagring.Int(1)), tagring.ErrClosed)
	assert.ErrorIs(t, ix.Validate(), tagring.ErrClosed)
	assert.ErrorIs(t, ix.Dump(&bytes.Buffer{}), tagring.ErrClosed)

	n := 0
	for range ix.All() {
		n++
	}
	assert.Zero(t, n)

	st := metrics.GetStats()
	assert.Equal(t, int64(1), st.CloseCount)
	assert.Zero(t, st.CloseErrors)
}

func TestIndex_CloseNil(t *testing.T) {
	var ix *tagring.Index
	assert.NoError(t, ix.Close())
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		tagring.ErrInvalidArgument,
		tagring.ErrUnregisteredType,
		tagring.ErrAllocationFailure,
		tagring.ErrStructuralCorruption,
		tagring.ErrClosed,
	}
	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}
