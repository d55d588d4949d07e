package node

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/gridflow/pkg/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComputeUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    ComputeUnit
		wantErr bool
	}{
		{in: "cpu", want: CPU},
		{in: "GPU", want: GPU},
		{in: " Npu ", want: NPU},
		{in: "tpu", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComputeUnit(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeUnit_String(t *testing.T) {
	assert.Equal(t, "CPU", CPU.String())
	assert.Equal(t, "GPU", GPU.String())
	assert.Equal(t, "NPU", NPU.String())
	assert.Equal(t, "ComputeUnit(9)", ComputeUnit(9).String())
}

func TestBase_SlotsOverwrite(t *testing.T) {
	n := NewFunc("blur", CPU, nil)
	assert.Nil(t, n.Input())
	assert.Nil(t, n.Output())

	first, second := buffer.New(1), buffer.New(2)
	n.SetOutput(first)
	n.SetOutput(second)
	n.SetInput(first)

	assert.Same(t, second, n.Output())
	assert.Same(t, first, n.Input())
	assert.Equal(t, "blur", n.Name())
	assert.Equal(t, CPU, n.ComputeUnit())
}

func TestFunc_ProcessCallsBodyWithSelf(t *testing.T) {
	var seen Node
	n := NewFunc("classify", GPU, func(_ context.Context, self Node) error {
		seen = self
		return nil
	})

	require.NoError(t, n.Process(context.Background()))
	assert.Same(t, n, seen)
}

func TestRun_Success(t *testing.T) {
	n := NewFunc("ok", CPU, func(context.Context, Node) error { return nil })
	assert.Nil(t, Run(context.Background(), n))
}

func TestRun_ErrorBecomesFailure(t *testing.T) {
	cause := errors.New("boom")
	n := NewFunc("edge", NPU, func(context.Context, Node) error { return cause })

	failure := Run(context.Background(), n)
	require.NotNil(t, failure)
	assert.Equal(t, "edge", failure.NodeName)
	assert.Equal(t, NPU, failure.Unit)
	assert.ErrorIs(t, failure, cause)
	assert.EqualError(t, failure, "node 'edge' (NPU) failed: boom")
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	n := NewFunc("panicky", GPU, func(context.Context, Node) error { panic("bad pixel") })

	failure := Run(context.Background(), n)
	require.NotNil(t, failure)

	var pe *PanicError
	require.ErrorAs(t, failure, &pe)
	assert.Equal(t, "bad pixel", pe.Value)
}
