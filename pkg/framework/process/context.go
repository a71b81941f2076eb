// Package process provides the per-call buffer pairing handed to audio processors.
package process

// Context pairs the host's input and output channel buffers for one
// processing call. It is reused across calls and never retains the host's
// buffers beyond the call that set them.
type Context struct {
	Input      [][]float32
	Output     [][]float32
	SampleRate float64
}

// NewContext creates an empty context.
func NewContext(sampleRate float64) *Context {
	return &Context{SampleRate: sampleRate}
}

// Set points the context at the host's buffers for the current call.
func (c *Context) Set(input, output [][]float32) {
	c.Input = input
	c.Output = output
}

// Release drops the references to the host's buffers.
func (c *Context) Release() {
	c.Input = nil
	c.Output = nil
}

// NumSamples returns the number of frames in the current block
func (c *Context) NumSamples() int {
	if len(c.Input) > 0 && len(c.Input[0]) > 0 {
		return len(c.Input[0])
	}
	if len(c.Output) > 0 && len(c.Output[0]) > 0 {
		return len(c.Output[0])
	}
	return 0
}

// NumInputChannels returns the number of input channels
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// Matched reports whether input and output have the same channel count and
// every channel has the same frame count.
func (c *Context) Matched() bool {
	if len(c.Input) != len(c.Output) {
		return false
	}
	frames := c.NumSamples()
	for ch := range c.Input {
		if len(c.Input[ch]) != frames || len(c.Output[ch]) != frames {
			return false
		}
	}
	return true
}

// Clear zeros the output buffers
func (c *Context) Clear() {
	for ch := range c.Output {
		clear(c.Output[ch])
	}
}
