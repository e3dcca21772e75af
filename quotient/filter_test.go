package quotient

import (
	"fmt"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/pcg"
)

func TestNew(t *testing.T) {
	t.Run("Widths", func(t *testing.T) {
		f32, err := New[uint32](10)
		assert.NoError(t, err)
		assert.Equal(t, f32.Cap(), uint(1024))
		assert.Equal(t, f32.RemainderBits(), uint(22))

		f64, err := New[uint64](10)
		assert.NoError(t, err)
		assert.Equal(t, f64.RemainderBits(), uint(54))
	})

	t.Run("QuotientTooWide", func(t *testing.T) {
		_, err := New[uint32](31)
		assert.Error(t, err)
		assert.That(t, ErrConfig.Has(err))

		_, err = New[uint64](62)
		assert.Error(t, err)
		assert.That(t, ErrConfig.Has(err))

		_, err = New[uint64](0)
		assert.Error(t, err)
	})

	t.Run("Bounds", func(t *testing.T) {
		assert.Equal(t, maxQuotientBits(32), uint(30))
		assert.Equal(t, maxQuotientBits(64), uint(61))
	})
}

func TestFilter(t *testing.T) {
	t.Run("EmptyContainsNothing", func(t *testing.T) {
		f, err := New[uint64](8)
		assert.NoError(t, err)

		for i := 0; i < 100; i++ {
			assert.That(t, !f.Contains([]byte(fmt.Sprintf("key-%d", i))))
		}
		assert.That(t, f.Empty())
	})

	t.Run("NoFalseNegatives", func(t *testing.T) {
		f, err := New[uint64](12)
		assert.NoError(t, err)

		var fps []uint64
		for i := 0; i < 2000; i++ {
			fp := pcg.Uint64()
			fps = append(fps, fp)
			_, err := f.InsertFingerprint(fp)
			assert.NoError(t, err)
		}

		for _, fp := range fps {
			assert.That(t, f.LookupFingerprint(fp))
		}
	})

	t.Run("Bytes", func(t *testing.T) {
		f, err := New[uint32](10)
		assert.NoError(t, err)

		_, err = f.Insert([]byte("hello"))
		assert.NoError(t, err)
		_, err = f.Insert([]byte("world"))
		assert.NoError(t, err)

		assert.That(t, f.Contains([]byte("hello")))
		assert.That(t, f.Contains([]byte("world")))
		assert.Equal(t, f.Len(), uint(2))
	})

	t.Run("FalsePositiveRate", func(t *testing.T) {
		f, err := New[uint32](10)
		assert.NoError(t, err)

		for i := 0; i < 600; i++ {
			_, err := f.InsertFingerprint(pcg.Uint32())
			assert.NoError(t, err)
		}

		// with 22 remainder bits the expected rate is ~600/2^22, so
		// even a generous bound catches a systematic excess
		got := 0
		for i := 0; i < 10000; i++ {
			if f.LookupFingerprint(pcg.Uint32()) {
				got++
			}
		}
		assert.That(t, got < 100)
	})

	t.Run("AutoResize", func(t *testing.T) {
		f, err := New[uint64](2)
		assert.NoError(t, err)

		var fps []uint64
		for i := 0; i < 20; i++ {
			fp := pcg.Uint64()
			fps = append(fps, fp)
			_, err := f.InsertFingerprint(fp)
			assert.NoError(t, err)
		}

		assert.That(t, f.Cap() >= 32)
		for _, fp := range fps {
			assert.That(t, f.LookupFingerprint(fp))
		}
	})

	t.Run("Space", func(t *testing.T) {
		f, err := New[uint32](4)
		assert.NoError(t, err)

		// 16 slots of 28 remainder bits plus a metadata byte
		assert.Equal(t, f.Space(), uint64(16*(28+8)))
	})
}

// scenario fingerprints are assembled by hand so the landing slots are
// fully determined.
func fp32(quo, rem uint32, rbits uint) uint32 { return quo<<rbits | rem }

func TestInsertLayout(t *testing.T) {
	t.Run("HomeSlotThenShift", func(t *testing.T) {
		f, err := New[uint32](2)
		assert.NoError(t, err)
		rbits := f.RemainderBits()

		idx, err := f.InsertFingerprint(fp32(2, 1, rbits))
		assert.NoError(t, err)
		assert.Equal(t, idx, uint(2))

		s := f.tab.get(2)
		assert.That(t, s.Occupied())
		assert.That(t, !s.Continuation())
		assert.That(t, !s.Shifted())

		idx, err = f.InsertFingerprint(fp32(2, 2, rbits))
		assert.NoError(t, err)
		assert.Equal(t, idx, uint(3))

		s = f.tab.get(3)
		assert.That(t, !s.Occupied())
		assert.That(t, s.Continuation())
		assert.That(t, s.Shifted())
	})

	t.Run("SpliceBetweenRuns", func(t *testing.T) {
		f, err := New[uint32](3)
		assert.NoError(t, err)
		rbits := f.RemainderBits()

		// three runs collide: 5's run fills slots 5-7, 7's run is
		// pushed to 0-1, and 6's run must splice between them
		for _, fp := range []uint32{
			fp32(5, 1, rbits), fp32(5, 2, rbits), fp32(5, 3, rbits),
			fp32(7, 1, rbits), fp32(7, 2, rbits),
			fp32(6, 1, rbits),
		} {
			_, err := f.InsertFingerprint(fp)
			assert.NoError(t, err)
		}

		s := f.tab.get(0)
		assert.That(t, s.Shifted())
		assert.That(t, !s.Continuation())
		assert.That(t, !s.Occupied())

		s = f.tab.get(5)
		assert.That(t, s.Occupied())
		assert.That(t, !s.Continuation())
		assert.That(t, !s.Shifted())

		s = f.tab.get(6)
		assert.That(t, s.Occupied())
		assert.That(t, s.Continuation())
		assert.That(t, s.Shifted())

		// every element still reachable after the double shift
		for _, fp := range []uint32{
			fp32(5, 1, rbits), fp32(5, 2, rbits), fp32(5, 3, rbits),
			fp32(6, 1, rbits),
			fp32(7, 1, rbits), fp32(7, 2, rbits),
		} {
			assert.That(t, f.LookupFingerprint(fp))
		}
	})

	t.Run("NewRunPastForeignCluster", func(t *testing.T) {
		f, err := New[uint32](4)
		assert.NoError(t, err)
		rbits := f.RemainderBits()

		// quotient 2's run fills slots 2-4 and quotient 8's cluster
		// sits further along at 8-9; a fresh run for quotient 4 must
		// splice right after its own cluster's runs, not anywhere near
		// the unrelated cluster downstream
		for _, fp := range []uint32{
			fp32(2, 1, rbits), fp32(2, 2, rbits), fp32(2, 3, rbits),
			fp32(8, 1, rbits), fp32(8, 2, rbits),
		} {
			_, err := f.InsertFingerprint(fp)
			assert.NoError(t, err)
		}

		idx, err := f.InsertFingerprint(fp32(4, 1, rbits))
		assert.NoError(t, err)
		assert.Equal(t, idx, uint(5))

		s := f.tab.get(5)
		assert.That(t, s.Shifted())
		assert.That(t, !s.Continuation())
		assert.That(t, !s.Occupied())

		for _, fp := range []uint32{
			fp32(2, 1, rbits), fp32(2, 2, rbits), fp32(2, 3, rbits),
			fp32(4, 1, rbits),
			fp32(8, 1, rbits), fp32(8, 2, rbits),
		} {
			assert.That(t, f.LookupFingerprint(fp))
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("InsertDeleteLookup", func(t *testing.T) {
		f, err := New[uint64](8)
		assert.NoError(t, err)

		_, err = f.Insert([]byte("ephemeral"))
		assert.NoError(t, err)
		assert.That(t, f.Contains([]byte("ephemeral")))

		f.Delete([]byte("ephemeral"))
		assert.That(t, !f.Contains([]byte("ephemeral")))
		assert.Equal(t, f.Len(), uint(0))
	})

	t.Run("AbsentIsNoop", func(t *testing.T) {
		f, err := New[uint64](8)
		assert.NoError(t, err)

		_, err = f.Insert([]byte("keep"))
		assert.NoError(t, err)

		f.Delete([]byte("never inserted"))
		assert.Equal(t, f.Len(), uint(1))
		assert.That(t, f.Contains([]byte("keep")))
	})

	t.Run("SharedQuotient", func(t *testing.T) {
		f, err := New[uint32](3)
		assert.NoError(t, err)
		rbits := f.RemainderBits()

		_, err = f.InsertFingerprint(fp32(4, 1, rbits))
		assert.NoError(t, err)
		_, err = f.InsertFingerprint(fp32(4, 2, rbits))
		assert.NoError(t, err)
		_, err = f.InsertFingerprint(fp32(4, 3, rbits))
		assert.NoError(t, err)

		f.DeleteFingerprint(fp32(4, 2, rbits))
		assert.That(t, f.LookupFingerprint(fp32(4, 1, rbits)))
		assert.That(t, !f.LookupFingerprint(fp32(4, 2, rbits)))
		assert.That(t, f.LookupFingerprint(fp32(4, 3, rbits)))
		assert.Equal(t, f.Len(), uint(2))
	})

	t.Run("Fuzz", func(t *testing.T) {
		f, err := New[uint64](12)
		assert.NoError(t, err)

		seen := make(map[uint64]bool)
		var fps []uint64
		for len(fps) < 1000 {
			fp := pcg.Uint64()
			if seen[fp] {
				continue
			}
			seen[fp] = true
			fps = append(fps, fp)
			_, err := f.InsertFingerprint(fp)
			assert.NoError(t, err)
		}

		for _, fp := range fps[:500] {
			f.DeleteFingerprint(fp)
		}

		for _, fp := range fps[:500] {
			assert.That(t, !f.LookupFingerprint(fp))
		}
		for _, fp := range fps[500:] {
			assert.That(t, f.LookupFingerprint(fp))
		}
		assert.Equal(t, f.Len(), uint(500))
	})

	t.Run("TombstoneReuse", func(t *testing.T) {
		f, err := New[uint32](3)
		assert.NoError(t, err)
		rbits := f.RemainderBits()

		_, err = f.InsertFingerprint(fp32(3, 1, rbits))
		assert.NoError(t, err)
		_, err = f.InsertFingerprint(fp32(3, 2, rbits))
		assert.NoError(t, err)

		f.DeleteFingerprint(fp32(3, 1, rbits))
		_, err = f.InsertFingerprint(fp32(3, 5, rbits))
		assert.NoError(t, err)

		assert.That(t, !f.LookupFingerprint(fp32(3, 1, rbits)))
		assert.That(t, f.LookupFingerprint(fp32(3, 2, rbits)))
		assert.That(t, f.LookupFingerprint(fp32(3, 5, rbits)))
		assert.Equal(t, f.Len(), uint(2))
	})
}

func BenchmarkFilter(b *testing.B) {
	b.Run("Insert", func(b *testing.B) {
		f, _ := New[uint64](16)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			f.InsertFingerprint(pcg.Uint64())

			if (i+1)%32768 == 0 {
				f, _ = New[uint64](16)
			}
		}
	})

	b.Run("Lookup", func(b *testing.B) {
		f, _ := New[uint64](14)
		for i := 0; i < 12000; i++ {
			f.InsertFingerprint(pcg.Uint64())
		}
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			f.LookupFingerprint(pcg.Uint64())
		}
	})
}
