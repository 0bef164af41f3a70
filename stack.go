package toxml

// elementStack tracks the names of the currently open elements.
type elementStack struct {
	data []string
}

func newElementStack() *elementStack {
	return &elementStack{
		data: make([]string, 0, 16),
	}
}

// push records name as the innermost open element.
func (s *elementStack) push(name string) {
	s.data = append(s.data, name)
}

// pop removes and returns the innermost open element.
func (s *elementStack) pop() (string, bool) {
	if len(s.data) == 0 {
		return "", false
	}
	name := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return name, true
}

// top returns the innermost open element without removing it.
func (s *elementStack) top() (string, bool) {
	if len(s.data) == 0 {
		return "", false
	}
	return s.data[len(s.data)-1], true
}

func (s *elementStack) len() int {
	return len(s.data)
}
