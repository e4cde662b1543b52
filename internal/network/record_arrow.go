package network

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ArrowSchema is the long-format layout written by WriteArrow: one row per
// neuron per tick.
var ArrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "tick", Type: arrow.PrimitiveTypes.Int64},
	{Name: "neuron", Type: arrow.PrimitiveTypes.Int32},
	{Name: "potential", Type: arrow.PrimitiveTypes.Float64},
	{Name: "spike", Type: arrow.FixedWidthTypes.Boolean},
}, nil)

// WriteArrow writes the record as a single-batch Arrow IPC stream.
func (r *Record) WriteArrow(w io.Writer) error {
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, ArrowSchema)
	defer b.Release()

	ticks := b.Field(0).(*array.Int64Builder)
	ids := b.Field(1).(*array.Int32Builder)
	pots := b.Field(2).(*array.Float64Builder)
	spikes := b.Field(3).(*array.BooleanBuilder)
	for t := range r.spikes {
		for i, s := range r.spikes[t] {
			ticks.Append(int64(t))
			ids.Append(int32(i))
			pots.Append(r.potentials[t][i])
			spikes.Append(s)
		}
	}
	batch := b.NewRecord()
	defer batch.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(ArrowSchema), ipc.WithAllocator(mem))
	if err := iw.Write(batch); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow batch: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}
