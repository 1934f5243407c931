package contextmem

import "sort"

// counter is an insertion-ordered frequency table.
type counter struct {
	order  []string
	counts map[string]int
}

func (c *counter) add(terms []string) {
	for _, t := range terms {
		if _, ok := c.counts[t]; !ok {
			c.order = append(c.order, t)
		}
		c.counts[t]++
	}
}

// truncate keeps the limit most frequent terms. The surviving order becomes
// the ranked order, so later ties break in favor of earlier survivors.
func (c *counter) truncate(limit int) {
	c.rank()
	if len(c.order) <= limit {
		return
	}
	for _, t := range c.order[limit:] {
		delete(c.counts, t)
	}
	c.order = c.order[:limit:limit]
}

func (c *counter) rank() {
	sort.SliceStable(c.order, func(i, j int) bool {
		return c.counts[c.order[i]] > c.counts[c.order[j]]
	})
}

func (c *counter) top(n int) []string {
	c.rank()
	if n > len(c.order) {
		n = len(c.order)
	}
	out := make([]string, n)
	copy(out, c.order[:n])
	return out
}
