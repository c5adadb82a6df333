package pool

// batch is the unroll width of the read and refill loops. It carries no
// concurrency meaning.
const batch = 4

// Next returns the entry at the cursor and advances it, refilling first when
// the pool is exhausted.
func (p *Pool) Next() (int, error) {
	if p.offset >= len(p.indices) {
		if err := p.Refill(); err != nil {
			return 0, err
		}
	}
	v := p.indices[p.offset]
	p.offset++
	return v, nil
}

// Read fills dst with the next len(dst) indices. The result is identical to
// calling Next len(dst) times.
func (p *Pool) Read(dst []int) error {
	n := len(dst)
	if n < batch {
		return p.readScalar(dst)
	}

	head := n - n%batch
	for i := 0; i < head; i += batch {
		if len(p.indices)-p.offset < batch {
			// Drain what is left one at a time so no entry is skipped.
			if err := p.readScalar(dst[i : i+batch]); err != nil {
				return err
			}
			continue
		}
		o := p.offset
		dst[i] = p.indices[o]
		dst[i+1] = p.indices[o+1]
		dst[i+2] = p.indices[o+2]
		dst[i+3] = p.indices[o+3]
		p.offset = o + batch
	}
	return p.readScalar(dst[head:])
}

func (p *Pool) readScalar(dst []int) error {
	for i := range dst {
		v, err := p.Next()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}
