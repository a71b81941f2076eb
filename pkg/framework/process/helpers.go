package process

// ProcessChannels calls fn for each channel present on both sides.
func (c *Context) ProcessChannels(fn func(ch int, input, output []float32)) {
	n := min(len(c.Input), len(c.Output))
	for ch := 0; ch < n; ch++ {
		fn(ch, c.Input[ch], c.Output[ch])
	}
}
