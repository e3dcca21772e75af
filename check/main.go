package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/zeebo/errs"
	"github.com/zeebo/mon"
	"github.com/zeebo/mon/monhandler"
	"github.com/zeebo/pcg"

	"github.com/batuhan-aydin/rusty-structures/quotient"
)

var (
	filters = flag.Int("filters", 4, "number of filters")
	keys    = flag.Int("keys", 100000, "number of keys per filter")
	qbits   = flag.Uint("qbits", 10, "initial quotient bits")

	rng pcg.T
)

func intn(n int) int { return int(rng.Uint32n(uint32(n))) }

func stats() {
	defer fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	mon.Times(func(name string, state *mon.State) bool {
		sum, avg := state.Average()
		fmt.Fprintf(tw, "%s\t%v\t%v\t%v\n",
			name, state.Total(), time.Duration(sum), time.Duration(avg))
		return true
	})
}

func main() {
	flag.Parse()

	defer stats()
	go http.ListenAndServe(":8080", monhandler.Handler{})

	if err := run(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run() error {
	fs := make([]*quotient.Filter[uint64], *filters)
	for i := range fs {
		f, err := quotient.New[uint64](*qbits)
		if err != nil {
			return errs.Wrap(err)
		}
		fs[i] = f
	}

	var tracked []uint64
	total := *filters * *keys
	for i := 0; i < total; i++ {
		if i > 0 && i%(total/10) == 0 {
			fmt.Printf("progress: %0.2f\n", 100*float64(i)/float64(total))
			stats()
		}

		n, hash := intn(*filters), rng.Uint64()
		if n == 0 {
			tracked = append(tracked, hash)
		}

		if _, err := fs[n].InsertFingerprint(hash); err != nil {
			return errs.Wrap(err)
		}
	}

	f := fs[0]
	fmt.Printf("FILTER0: rem: %d quo: %d len: %d space: %d bits\n",
		f.RemainderBits(), f.QuotientBits(), f.Len(), f.Space())

	fmt.Printf("FILTER0: auditing %d values\n", len(tracked))
	for _, v := range tracked {
		if !f.LookupFingerprint(v) {
			return errs.New("false negative: 0x%016x", v)
		}
	}

	count, trials := 0, 100*len(tracked)
	for i := 0; i < trials; i++ {
		if f.LookupFingerprint(rng.Uint64()) {
			count++
		}
	}
	expect := float64(f.Len()) / math.Pow(2, float64(f.QuotientBits()+f.RemainderBits()))
	fmt.Printf("FILTER0: got %d/%d == %0.4f%% (expect ~ %0.4f%%)\n",
		count, trials, 100*float64(count)/float64(trials), 100*expect)

	if err := f.Resize(); err != nil {
		return errs.Wrap(err)
	}
	fmt.Printf("FILTER0: resized to quo: %d len: %d\n", f.QuotientBits(), f.Len())
	for _, v := range tracked {
		if !f.LookupFingerprint(v) {
			return errs.New("false negative after resize: 0x%016x", v)
		}
	}

	if len(fs) > 1 {
		other := fs[1]
		for other.QuotientBits() < f.QuotientBits() {
			if err := other.Resize(); err != nil {
				return errs.Wrap(err)
			}
		}
		for f.QuotientBits() < other.QuotientBits() {
			if err := f.Resize(); err != nil {
				return errs.Wrap(err)
			}
		}
		before := f.Len()
		if err := f.Merge(other); err != nil {
			return errs.Wrap(err)
		}
		fmt.Printf("FILTER0: merged %d + %d -> quo: %d len: %d\n",
			before, other.Len(), f.QuotientBits(), f.Len())
		for _, v := range tracked {
			if !f.LookupFingerprint(v) {
				return errs.New("false negative after merge: 0x%016x", v)
			}
		}
	}

	fmt.Println("done.")
	return nil
}
