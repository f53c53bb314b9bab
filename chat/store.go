package chat

import (
	"slices"
	"sync"
)

type Observer func(State)

// Store owns one session's State. Every applied event notifies the observers,
// in order, with a copy of the new state; rejected events notify nobody.
// Observers must not dispatch.
type Store struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	state     State
	observers []subscription
	nextID    int
}

type subscription struct {
	id       int
	observer Observer
}

func NewStore() *Store {
	return &Store{}
}

func (store *Store) State() State {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.state.clone()
}

func (store *Store) Dispatch(event Event) error {
	_, err := store.dispatch(event)
	return err
}

// dispatch returns the state as it was before the event was applied.
func (store *Store) dispatch(event Event) (State, error) {
	store.mu.Lock()
	prev := store.state
	next, err := Reduce(prev, event)
	if err != nil {
		store.mu.Unlock()
		return prev.clone(), err
	}
	store.state = next
	observers := make([]Observer, len(store.observers))
	for i, sub := range store.observers {
		observers[i] = sub.observer
	}
	store.notifyMu.Lock()
	store.mu.Unlock()
	defer store.notifyMu.Unlock()

	for _, observer := range observers {
		observer(next.clone())
	}
	return prev.clone(), nil
}

func (store *Store) AppendUser(text string) error {
	return store.Dispatch(UserSubmitted{Text: text})
}

func (store *Store) AppendBot(text string) error {
	return store.Dispatch(BotReplied{Text: text})
}

func (store *Store) Fail(message string) error {
	return store.Dispatch(RequestFailed{Message: message})
}

func (store *Store) ResetDraft() error {
	return store.Dispatch(DraftReset{})
}

// Subscribe registers observer after the existing ones; the returned func removes it.
func (store *Store) Subscribe(observer Observer) (unsubscribe func()) {
	store.mu.Lock()
	id := store.nextID
	store.nextID++
	store.observers = append(store.observers, subscription{id: id, observer: observer})
	store.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			store.mu.Lock()
			store.observers = slices.DeleteFunc(store.observers, func(sub subscription) bool {
				return sub.id == id
			})
			store.mu.Unlock()
		})
	}
}
