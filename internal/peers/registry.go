package peers

import "sync"

// Snapshot is a full copy of the registry contents at one point in time.
type Snapshot map[string]Peer

// Registry is a thread-safe map of known peers keyed by fingerprint.
// Every mutation publishes a fresh snapshot to all subscribers.
// Publishing never blocks: a subscriber that does not keep up loses
// intermediate snapshots but always receives the latest one.
type Registry struct {
	mu     sync.RWMutex
	peers  map[string]Peer
	subs   map[int]chan Snapshot
	nextID int
}

func NewRegistry() *Registry {
	return &Registry{
		peers: make(map[string]Peer),
		subs:  make(map[int]chan Snapshot),
	}
}

// Add upserts a peer by fingerprint.
func (r *Registry) Add(peer Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.peers[peer.Fingerprint] = peer
	r.publish()
}

// Remove deletes a peer if present. Removing an absent fingerprint is a
// no-op that still publishes the current snapshot.
func (r *Registry) Remove(fingerprint string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.peers, fingerprint)
	r.publish()
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.peers = make(map[string]Peer)
	r.publish()
}

func (r *Registry) Get(fingerprint string) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peer, found := r.peers[fingerprint]
	return peer, found
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.peers)
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot()
}

// Subscription yields registry snapshots on C. The snapshot current at
// subscription time is delivered first.
type Subscription struct {
	C  <-chan Snapshot
	id int
	r  *Registry
}

func (s *Subscription) Close() {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()

	if ch, ok := s.r.subs[s.id]; ok {
		delete(s.r.subs, s.id)
		close(ch)
	}
}

func (r *Registry) Subscribe() *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- r.snapshot()

	id := r.nextID
	r.nextID++
	r.subs[id] = ch

	return &Subscription{C: ch, id: id, r: r}
}

// publish pushes the current snapshot to every subscriber without
// blocking: a stale unread value is replaced by the newer one.
// Callers must hold r.mu.
func (r *Registry) publish() {
	snap := r.snapshot()
	for _, ch := range r.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (r *Registry) snapshot() Snapshot {
	snap := make(Snapshot, len(r.peers))
	for fingerprint, peer := range r.peers {
		snap[fingerprint] = peer
	}
	return snap
}
