package entity

// CartData maps product id -> size label -> quantity. Products without a
// size dimension are stored under the empty-string size key.
//
// Two invariants hold after every mutation: no entry ever has a quantity
// of zero or less, and no product key remains once its last size is gone.
type CartData map[string]map[string]int

// Add increments the quantity for (productID, size) by delta, creating the
// entry when absent. A delta of zero or less leaves the cart untouched.
func (c CartData) Add(productID, size string, delta int) {
	if productID == "" || delta <= 0 {
		return
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = map[string]int{}
		c[productID] = sizes
	}
	sizes[size] += delta
}

// Set overwrites the quantity for (productID, size). A quantity of zero or
// less deletes the entry; deleting the last size removes the product key.
// Setting an absent entry to zero is a no-op.
func (c CartData) Set(productID, size string, qty int) {
	if productID == "" {
		return
	}
	if qty <= 0 {
		c.deleteSize(productID, size)
		return
	}
	sizes, ok := c[productID]
	if !ok {
		sizes = map[string]int{}
		c[productID] = sizes
	}
	sizes[size] = qty
}

// Remove deletes the (productID, size) entry. An empty size removes the
// whole product entry, which also covers sizeless products stored under
// the empty-string key.
func (c CartData) Remove(productID, size string) {
	if size == "" {
		delete(c, productID)
		return
	}
	c.deleteSize(productID, size)
}

func (c CartData) deleteSize(productID, size string) {
	sizes, ok := c[productID]
	if !ok {
		return
	}
	delete(sizes, size)
	if len(sizes) == 0 {
		delete(c, productID)
	}
}

// Quantity returns the stored quantity for (productID, size), zero if absent.
func (c CartData) Quantity(productID, size string) int {
	return c[productID][size]
}

// Clone returns a deep copy. Mutating the copy never touches the receiver.
func (c CartData) Clone() CartData {
	out := make(CartData, len(c))
	for pid, sizes := range c {
		m := make(map[string]int, len(sizes))
		for s, q := range sizes {
			m[s] = q
		}
		out[pid] = m
	}
	return out
}
