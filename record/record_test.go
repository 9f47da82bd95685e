package record_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/pacp/record"
	"github.com/stretchr/testify/require"
)

func TestRecord_Line(t *testing.T) {
	r := record.Record{Length: 4, MaxSidelobe: 4, A: "++--", B: "+-+-"}
	require.Equal(t, "4,4,++--,+-+-", r.Line())
}

func TestMemory_EmitOrder(t *testing.T) {
	var m record.Memory
	ctx := context.Background()
	require.NoError(t, m.Emit(ctx, record.Record{Iteration: 1}))
	require.NoError(t, m.Emit(ctx, record.Record{Iteration: 2}))
	require.NoError(t, record.Discard.Emit(ctx, record.Record{}))

	got := m.Records()
	require.Len(t, got, 2)
	require.Equal(t, int64(2), got[1].Iteration)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, m.Emit(cancelled, record.Record{}), context.Canceled)
}
