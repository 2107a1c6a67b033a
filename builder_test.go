package dam

import "testing"

func TestBuilderInitializeRejectsDisconnectedSender(t *testing.T) {
	b := NewBuilder()
	Unbounded[int](b)

	_, err := b.Initialize(DefaultOptions())
	if _, ok := err.(*DisconnectedSenderError); !ok {
		t.Fatalf("expected *DisconnectedSenderError, got %v", err)
	}
}

func TestBuilderInitializeRejectsUnregisteredNode(t *testing.T) {
	b := NewBuilder()
	sender, receiver := Unbounded[int](b)

	ctx := newTestContext()
	b.AddChild(ctx)
	AttachSender[int](ctx, sender)

	foreign := newTestContext()
	AttachReceiver[int](foreign, receiver)

	_, err := b.Initialize(DefaultOptions())
	if _, ok := err.(*UnregisteredNodeError); !ok {
		t.Fatalf("expected *UnregisteredNodeError, got %v", err)
	}
}

func TestBuilderInitializeFreezesVoidFlavor(t *testing.T) {
	b := NewBuilder()
	void := Void[int](b)

	ctx := newTestContext()
	b.AddChild(ctx)
	AttachSender[int](ctx, void)

	if _, err := b.Initialize(DefaultOptions()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	h, ok := void.(*senderHandle[int])
	if !ok {
		t.Fatal("expected the void sender to be backed by a channel handle")
	}
	if h.h.Flavor() != FlavorVoid {
		t.Errorf("expected FlavorVoid, got %v", h.h.Flavor())
	}
}

func TestBuilderInitializeRunsChildInitInOrder(t *testing.T) {
	b := NewBuilder()
	var order []int
	a := newOrderedContext(&order, 1)
	c := newOrderedContext(&order, 2)
	b.AddChild(a)
	b.AddChild(c)

	if _, err := b.Initialize(DefaultOptions()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("expected init order [1 2], got %v", order)
	}
}

func TestBuilderInferCyclicChannelsMarksBoundedCyclic(t *testing.T) {
	b := NewBuilder()
	a := newTestContext()
	bb := newTestContext()
	b.AddChild(a)
	b.AddChild(bb)

	fwdSend, fwdRecv := Bounded[int](b, 1)
	backSend, backRecv := Bounded[int](b, 1)

	AttachSender[int](a, fwdSend)
	AttachReceiver[int](bb, fwdRecv)
	AttachSender[int](bb, backSend)
	AttachReceiver[int](a, backRecv)

	if _, err := b.Initialize(DefaultOptions()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	fh := fwdSend.(*senderHandle[int]).h
	if fh.Flavor() != FlavorBoundedCyclic {
		t.Errorf("expected the forward edge of a 2-cycle to be BoundedCyclic, got %v", fh.Flavor())
	}
}

func TestBuilderInferCyclicChannelsLeavesLinearAcyclic(t *testing.T) {
	b := NewBuilder()
	a := newTestContext()
	bb := newTestContext()
	b.AddChild(a)
	b.AddChild(bb)

	send, recv := Bounded[int](b, 1)
	AttachSender[int](a, send)
	AttachReceiver[int](bb, recv)

	if _, err := b.Initialize(DefaultOptions()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	h := send.(*senderHandle[int]).h
	if h.Flavor() != FlavorBoundedAcyclic {
		t.Errorf("expected a linear edge to be BoundedAcyclic, got %v", h.Flavor())
	}
}

type orderedContext struct {
	ContextBase
	order *[]int
	mark  int
}

func newOrderedContext(order *[]int, mark int) *orderedContext {
	c := &orderedContext{order: order, mark: mark}
	c.ContextBase = NewContextBase(nil)
	return c
}

func (c *orderedContext) Init() error {
	*c.order = append(*c.order, c.mark)
	return nil
}
func (c *orderedContext) Run() {}
