package kernel

import (
	"context"
	"runtime"
	"sync/atomic"
)

// MsgKind tags a message so the frame thread can log what it ran.
type MsgKind uint8

const (
	MsgAssetLoaded MsgKind = iota + 1
	MsgAssetFailed
	MsgConfigReload
)

func (k MsgKind) String() string {
	switch k {
	case MsgAssetLoaded:
		return "asset-loaded"
	case MsgAssetFailed:
		return "asset-failed"
	case MsgConfigReload:
		return "config-reload"
	default:
		return "unknown"
	}
}

// Message is a unit of work handed from a background goroutine to the frame thread.
type Message struct {
	Kind MsgKind
	Run  func()
}

const mailboxSlots = 64

// Mailbox is a fixed-size multi-producer, single-consumer queue.
//
// Producers are asset decoders and file watchers; the only consumer is the
// frame loop, which drains it between frames. No allocations after creation.
type Mailbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	ready [mailboxSlots]atomic.Bool
	slots [mailboxSlots]Message
}

// TrySend attempts to enqueue a message, returning false if the mailbox is full.
func (mb *Mailbox) TrySend(msg Message) bool {
	for {
		head := mb.head.Load()
		tail := mb.tail.Load()
		if head-tail >= mailboxSlots {
			return false
		}

		// Reserve a slot; another producer may have raced us.
		if !mb.head.CompareAndSwap(head, head+1) {
			continue
		}

		i := head % mailboxSlots
		mb.slots[i] = msg
		mb.ready[i].Store(true)
		return true
	}
}

// Send enqueues a message, blocking until it succeeds or ctx is done.
func (mb *Mailbox) Send(ctx context.Context, msg Message) error {
	for !mb.TrySend(msg) {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}

// TryRecv attempts to dequeue one message, returning false if empty.
//
// A slot that is reserved but not yet written reads as empty.
func (mb *Mailbox) TryRecv() (Message, bool) {
	tail := mb.tail.Load()
	head := mb.head.Load()
	if tail == head {
		return Message{}, false
	}

	i := tail % mailboxSlots
	if !mb.ready[i].Load() {
		return Message{}, false
	}
	msg := mb.slots[i]
	mb.slots[i] = Message{}
	mb.ready[i].Store(false)
	mb.tail.Store(tail + 1)
	return msg, true
}

// Drain runs up to max queued messages on the calling goroutine and reports
// how many ran. max <= 0 drains whatever is queued right now.
func (mb *Mailbox) Drain(max int, observe func(MsgKind)) int {
	if max <= 0 {
		max = mailboxSlots
	}
	n := 0
	for n < max {
		msg, ok := mb.TryRecv()
		if !ok {
			break
		}
		if observe != nil {
			observe(msg.Kind)
		}
		if msg.Run != nil {
			msg.Run()
		}
		n++
	}
	return n
}

// Len reports the number of reserved slots.
func (mb *Mailbox) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}
