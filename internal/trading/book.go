package trading

// Book owns the open trade offers, keyed by a monotonic id and listed in
// insertion order. It performs no locking of its own: callers run inside
// the engine-wide critical section.
type Book struct {
	offers map[uint64]*TradeOffer
	order  []uint64
	nextID uint64
}

// NewBook creates an empty trade book.
func NewBook() *Book {
	return &Book{offers: make(map[uint64]*TradeOffer), nextID: 1}
}

// Insert allocates the next trade id and stores the offer. Ids are
// allocated only here, after the create path has fully validated.
func (b *Book) Insert(seller string, amount, pricePerUnit uint64) uint64 {
	id := b.nextID
	b.nextID++
	b.offers[id] = &TradeOffer{ID: id, Seller: seller, Amount: amount, PricePerUnit: pricePerUnit}
	b.order = append(b.order, id)
	return id
}

// Get returns the live offer for an id.
func (b *Book) Get(id uint64) (*TradeOffer, bool) {
	offer, ok := b.offers[id]
	return offer, ok
}

// Reduce decrements the offer by amount, removing it when the remainder
// reaches exactly zero. The book never holds a zero-amount offer.
func (b *Book) Reduce(id, amount uint64) {
	offer, ok := b.offers[id]
	if !ok {
		return
	}
	if amount >= offer.Amount {
		delete(b.offers, id)
		for i, oid := range b.order {
			if oid == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
		return
	}
	offer.Amount -= amount
}

// List returns a copy of all open offers in insertion order.
func (b *Book) List() []TradeOffer {
	out := make([]TradeOffer, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.offers[id])
	}
	return out
}

// BookState is the serializable form of the trade book, counter included.
type BookState struct {
	Offers []TradeOffer `json:"offers"`
	NextID uint64       `json:"next_id"`
}

// Snapshot returns the full book state in insertion order.
func (b *Book) Snapshot() BookState {
	return BookState{Offers: b.List(), NextID: b.nextID}
}

// Restore replaces the book content, preserving insertion order and the
// id counter.
func (b *Book) Restore(state BookState) {
	b.offers = make(map[uint64]*TradeOffer, len(state.Offers))
	b.order = make([]uint64, 0, len(state.Offers))
	for i := range state.Offers {
		offer := state.Offers[i]
		b.offers[offer.ID] = &offer
		b.order = append(b.order, offer.ID)
	}
	b.nextID = state.NextID
	if b.nextID == 0 {
		b.nextID = 1
	}
}
