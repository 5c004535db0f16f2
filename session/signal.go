package session

import "sync"

// Signal broadcasts the authenticated flag. There is one writer (the Service) and
// any number of readers. A new subscriber first receives the current value, then
// every later transition exactly once and in order. Each subscriber has its own
// unbounded queue so a slow reader neither blocks Publish nor loses transitions.
type Signal struct {
	value bool
	subs  map[uint64]*subscriber
	next  uint64
	lock  sync.Mutex
}

type subscriber struct {
	out    chan bool
	queue  []bool
	notify chan struct{}
	done   chan struct{}
	lock   sync.Mutex
}

func NewSignal(initial bool) *Signal {
	return &Signal{
		value: initial,
		subs:  make(map[uint64]*subscriber),
	}
}

// Current returns the latest published value
func (s *Signal) Current() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.value
}

// Publish sets the value. Subscribers are only notified when the value changes.
// It reports whether a transition happened.
func (s *Signal) Publish(v bool) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.value == v {
		return false
	}
	s.value = v
	for _, sub := range s.subs {
		sub.push(v)
	}
	return true
}

// Subscribe returns a channel of values and a cancel func. The channel is closed
// after cancel is called.
func (s *Signal) Subscribe() (<-chan bool, func()) {
	sub := &subscriber{
		out:    make(chan bool),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go sub.pump()

	s.lock.Lock()
	id := s.next
	s.next++
	s.subs[id] = sub
	sub.push(s.value)
	s.lock.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.lock.Lock()
			delete(s.subs, id)
			s.lock.Unlock()
			close(sub.done)
		})
	}
	return sub.out, cancel
}

func (sub *subscriber) push(v bool) {
	sub.lock.Lock()
	sub.queue = append(sub.queue, v)
	sub.lock.Unlock()

	select {
	case sub.notify <- struct{}{}:
	default:
	}
}

func (sub *subscriber) pump() {
	defer close(sub.out)
	for {
		select {
		case <-sub.done:
			return
		case <-sub.notify:
		}

		for {
			sub.lock.Lock()
			if len(sub.queue) == 0 {
				sub.lock.Unlock()
				break
			}
			v := sub.queue[0]
			sub.queue = sub.queue[1:]
			sub.lock.Unlock()

			select {
			case sub.out <- v:
			case <-sub.done:
				return
			}
		}
	}
}
