// Package events fans controller state snapshots out to subscribers.
package events

import (
	"sync/atomic"

	"github.com/idilsaglam/notes/internal/model"
)

const subscriberBuffer = 16

// Broker broadcasts state snapshots.
//
// A single internal loop owns the subscriber set. Public methods talk to the
// loop over channels, so no mutexes are needed.
type Broker struct {
	subscribeCh   chan chan model.State
	unsubscribeCh chan (<-chan model.State)
	publishCh     chan model.State
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker loop.
func NewBroker() *Broker {
	b := &Broker{
		subscribeCh:   make(chan chan model.State),
		unsubscribeCh: make(chan (<-chan model.State)),
		publishCh:     make(chan model.State, 64),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[<-chan model.State]chan model.State)

	for {
		select {
		case <-b.stopCh:
			for _, ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = ch

		case ro := <-b.unsubscribeCh:
			if ch, ok := clients[ro]; ok {
				delete(clients, ro)
				close(ch)
			}

		case st := <-b.publishCh:
			for _, ch := range clients {
				sendLatest(ch, st.Clone())
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// sendLatest delivers st, evicting the oldest queued snapshots of a
// subscriber that fell behind. Only the loop sends on ch, so this ends.
func sendLatest(ch chan model.State, st model.State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Close stops the loop and closes every subscriber channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Broker) Subscribe() <-chan model.State {
	ch := make(chan model.State, subscriberBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(ch <-chan model.State) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// SubscriberCount returns the number of live subscribers.
func (b *Broker) SubscriberCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends a snapshot to every subscriber.
func (b *Broker) Publish(st model.State) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- st:
	case <-b.stopped:
	}
}
