package kernel

import (
	"context"
	"runtime"
	"sync"
	"testing"
)

func TestMailboxTryRecvEmpty(t *testing.T) {
	var mb Mailbox

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	var mb Mailbox
	msg := Message{Kind: MsgConfigReload}

	for i := 0; i < mailboxSlots; i++ {
		if ok := mb.TrySend(msg); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := mb.TrySend(msg); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}
	if got := mb.Len(); got != mailboxSlots {
		t.Fatalf("Len() = %d, want %d", got, mailboxSlots)
	}

	for i := 0; i < mailboxSlots; i++ {
		if _, ok := mb.TryRecv(); !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
	}
}

func TestMailboxSendCanceled(t *testing.T) {
	var mb Mailbox
	for i := 0; i < mailboxSlots; i++ {
		mb.TrySend(Message{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := mb.Send(ctx, Message{}); err != context.Canceled {
		t.Fatalf("Send() err = %v, want context.Canceled", err)
	}
}

func TestMailboxDrainRunsInOrder(t *testing.T) {
	var mb Mailbox
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		mb.TrySend(Message{Kind: MsgConfigReload, Run: func() { got = append(got, i) }})
	}

	var kinds []MsgKind
	if n := mb.Drain(3, func(k MsgKind) { kinds = append(kinds, k) }); n != 3 {
		t.Fatalf("Drain(3) = %d, want 3", n)
	}
	if n := mb.Drain(0, nil); n != 2 {
		t.Fatalf("Drain(0) = %d, want 2", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
	if len(kinds) != 3 || kinds[0] != MsgConfigReload {
		t.Fatalf("observed kinds = %v", kinds)
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 10_000
		total     = producers * perProd
	)

	var mb Mailbox
	seen := make([]bool, total)
	ctx := context.Background()

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				id := producerID*perProd + i
				_ = mb.Send(ctx, Message{Kind: MsgConfigReload, Run: func() {
					if seen[id] {
						t.Errorf("duplicate id %d", id)
					}
					seen[id] = true
				}})
			}
		}(producerID)
	}
	close(start)

	for n := 0; n < total; {
		n += mb.Drain(0, func(k MsgKind) {
			if k != MsgConfigReload {
				t.Fatalf("Drain() kind = %s, want config-reload", k)
			}
		})
		runtime.Gosched()
	}

	wg.Wait()
	for id, ok := range seen {
		if !ok {
			t.Fatalf("id %d never delivered", id)
		}
	}
}

func TestMsgKindString(t *testing.T) {
	for k, want := range map[MsgKind]string{
		MsgAssetLoaded:  "asset-loaded",
		MsgAssetFailed:  "asset-failed",
		MsgConfigReload: "config-reload",
		0:               "unknown",
	} {
		if got := k.String(); got != want {
			t.Fatalf("MsgKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
