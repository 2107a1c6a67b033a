package dam

import (
	"context"
	"testing"
	"time"
)

// generatorContext sends 0..n-1 onto out, incrementing its own clock by one
// cycle per send, then closes out.
type generatorContext struct {
	ContextBase
	n   int
	out Sender[int]
}

func newGeneratorContext(n int, out Sender[int]) *generatorContext {
	c := &generatorContext{n: n, out: out}
	c.ContextBase = NewContextBase(nil)
	AttachSender[int](c, out)
	return c
}

func (c *generatorContext) Init() error { return nil }
func (c *generatorContext) Run() {
	ctx := context.Background()
	for i := 0; i < c.n; i++ {
		tick := c.TimeManager().Tick()
		if err := c.out.Enqueue(ctx, c.TimeManager(), ChannelElement[int]{Time: tick, Data: i}); err != nil {
			return
		}
		c.TimeManager().IncrCycles(1)
	}
}
func (c *generatorContext) Cleanup() {
	c.out.Close()
	c.ContextBase.Cleanup()
}

// drainContext dequeues from in until Closed, recording everything it saw.
type drainContext struct {
	ContextBase
	in   Receiver[int]
	seen []int
}

func newDrainContext(in Receiver[int]) *drainContext {
	c := &drainContext{in: in}
	c.ContextBase = NewContextBase(nil)
	AttachReceiver[int](c, in)
	return c
}

func (c *drainContext) Init() error { return nil }
func (c *drainContext) Run() {
	ctx := context.Background()
	for {
		elem, err := c.in.Dequeue(ctx, c.TimeManager())
		if err != nil {
			return
		}
		c.seen = append(c.seen, elem.Data)
		c.TimeManager().IncrCycles(1)
	}
}

func TestScenarioProducerConsumer(t *testing.T) {
	b := NewBuilder()
	send, recv := Bounded[int](b, 8)
	gen := newGeneratorContext(8, send)
	drain := newDrainContext(recv)
	b.AddChild(gen)
	b.AddChild(drain)

	init, err := b.Initialize(DefaultOptions())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	executed := init.Run(RunModeSimple)
	if executed.Failed() {
		t.Fatal("expected no failed branches")
	}

	if len(drain.seen) != 8 {
		t.Fatalf("expected 8 elements drained, got %d", len(drain.seen))
	}
	for i, v := range drain.seen {
		if v != i {
			t.Errorf("element %d: expected %d, got %d", i, i, v)
		}
	}

	elapsed, ok := executed.ElapsedCycles()
	if !ok {
		t.Fatal("expected an elapsed cycle count")
	}
	if elapsed != NewTime(8) {
		t.Errorf("expected elapsed cycles 8, got %v", elapsed)
	}
}

func TestScenarioTerminatorClose(t *testing.T) {
	const k = 5
	b := NewBuilder()
	send, recv := Unbounded[int](b)
	gen := newGeneratorContext(k, send)
	drain := newDrainContext(recv)
	b.AddChild(gen)
	b.AddChild(drain)

	init, err := b.Initialize(DefaultOptions())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	executed := init.Run(RunModeSimple)
	elapsed, ok := executed.ElapsedCycles()
	if !ok {
		t.Fatal("expected an elapsed cycle count")
	}
	if elapsed != NewTime(k) {
		t.Errorf("expected elapsed cycles %d, got %v", k, elapsed)
	}
}

// pingPongContext exchanges two packets with a peer over a pair of
// capacity-1 channels, for the given number of rounds.
type pingPongContext struct {
	ContextBase
	rounds int
	out    Sender[int]
	in     Receiver[int]
}

func newPingPongContext(rounds int, out Sender[int], in Receiver[int]) *pingPongContext {
	c := &pingPongContext{rounds: rounds, out: out, in: in}
	c.ContextBase = NewContextBase(nil)
	AttachSender[int](c, out)
	AttachReceiver[int](c, in)
	return c
}

func (c *pingPongContext) Init() error { return nil }
func (c *pingPongContext) Run() {
	ctx := context.Background()
	for i := 0; i < c.rounds; i++ {
		for n := 0; n < 2; n++ {
			tick := c.TimeManager().Tick()
			if err := c.out.Enqueue(ctx, c.TimeManager(), ChannelElement[int]{Time: tick, Data: n}); err != nil {
				return
			}
		}
		for n := 0; n < 2; n++ {
			if _, err := c.in.Dequeue(ctx, c.TimeManager()); err != nil {
				return
			}
		}
		c.TimeManager().IncrCycles(1)
	}
}
func (c *pingPongContext) Cleanup() {
	c.out.Close()
	c.ContextBase.Cleanup()
}

func TestScenarioPingPongCyclicInferenceAvoidsDeadlock(t *testing.T) {
	b := NewBuilder()
	aToB, bFromA := Bounded[int](b, 1)
	bToA, aFromB := Bounded[int](b, 1)

	a := newPingPongContext(5, aToB, aFromB)
	bb := newPingPongContext(5, bToA, bFromA)
	b.AddChild(a)
	b.AddChild(bb)

	init, err := b.Initialize(DefaultOptions())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	done := make(chan struct{})
	go func() {
		init.Run(RunModeSimple)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ping-pong over mutually cyclic channels deadlocked")
	}
}
